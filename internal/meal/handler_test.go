package meal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/2beens/fitassist/internal/middleware"
	"github.com/2beens/fitassist/internal/telemetry/metrics"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type repoMock struct {
	mu    sync.Mutex
	plans []Plan
}

func (m *repoMock) Add(_ context.Context, plan Plan) (*Plan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	plan.ID = uuid.New()
	m.plans = append(m.plans, plan)
	return &plan, nil
}

func (m *repoMock) List(_ context.Context, params ListParams) ([]Plan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var plans []Plan
	for _, p := range m.plans {
		if p.UserID == params.UserID {
			plans = append(plans, p)
		}
	}
	return plans, nil
}

func (m *repoMock) Count(_ context.Context, userID uuid.UUID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, p := range m.plans {
		if p.UserID == userID {
			count++
		}
	}
	return count, nil
}

func TestHandler_Generate(t *testing.T) {
	repo := &repoMock{}
	metricsManager := metrics.NewTestManager()
	handler := NewHandler(repo, metricsManager)
	userID := uuid.New()

	newGenerateReq := func(body string) *http.Request {
		req := httptest.NewRequest("POST", "/meal/plan", strings.NewReader(body))
		return req.WithContext(middleware.ContextWithUserID(req.Context(), userID))
	}

	rr := httptest.NewRecorder()
	handler.handleGenerate(rr, newGenerateReq(`{"dietPreference":"vegetarian","calorieTarget":1400,"days":3}`))
	require.Equal(t, http.StatusCreated, rr.Code)

	var plan Plan
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &plan))
	assert.Equal(t, userID, plan.UserID)
	assert.Len(t, plan.Days, 3)

	assert.Equal(
		t, float64(1),
		testutil.ToFloat64(metricsManager.CounterPlansGenerated.WithLabelValues("meal")),
	)

	// invalid diet
	rr = httptest.NewRecorder()
	handler.handleGenerate(rr, newGenerateReq(`{"dietPreference":"carnivore","calorieTarget":1400,"days":3}`))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	// unreachable calorie target
	rr = httptest.NewRecorder()
	handler.handleGenerate(rr, newGenerateReq(`{"dietPreference":"vegan","calorieTarget":8000,"days":1}`))
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	// no session user
	rr = httptest.NewRecorder()
	handler.handleGenerate(rr, httptest.NewRequest("POST", "/meal/plan", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
