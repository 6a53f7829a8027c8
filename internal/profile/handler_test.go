package profile

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/2beens/fitassist/internal/middleware"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type repoMock struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]*UserProfile
}

func newRepoMock() *repoMock {
	return &repoMock{
		profiles: make(map[uuid.UUID]*UserProfile),
	}
}

func (m *repoMock) Save(_ context.Context, profile UserProfile) (*UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	if existing, ok := m.profiles[profile.UserID]; ok {
		profile.ID = existing.ID
		profile.CreatedAt = existing.CreatedAt
	} else {
		profile.ID = uuid.New()
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now
	m.profiles[profile.UserID] = &profile
	return &profile, nil
}

func (m *repoMock) Get(_ context.Context, userID uuid.UUID) (*UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[userID]
	if !ok {
		return nil, ErrProfileNotFound
	}
	return p, nil
}

func randomProfile(userID uuid.UUID) UserProfile {
	return UserProfile{
		UserID:         userID,
		Name:           gofakeit.Name(),
		Age:            gofakeit.Number(18, 70),
		Sex:            SexMale,
		HeightCm:       gofakeit.Float64Range(150, 200),
		WeightKg:       gofakeit.Float64Range(50, 120),
		GoalWeightKg:   gofakeit.Float64Range(50, 100),
		ActivityLevel:  ActivityModerate,
		Goal:           GoalWeightLoss,
		Experience:     ExperienceBeginner,
		DietPreference: DietVegetarian,
	}
}

func TestHandler_SaveAndGet(t *testing.T) {
	repo := newRepoMock()
	handler := NewHandler(repo)
	userID := uuid.New()

	p := randomProfile(userID)
	pJson, err := json.Marshal(p)
	require.NoError(t, err)

	req := httptest.NewRequest("PUT", "/profile", strings.NewReader(string(pJson)))
	req = requestWithUser(req, userID)
	rr := httptest.NewRecorder()
	handler.handleSave(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var saved UserProfile
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &saved))
	assert.Equal(t, userID, saved.UserID)
	assert.Equal(t, p.Name, saved.Name)
	assert.NotEqual(t, uuid.Nil, saved.ID)

	req = requestWithUser(httptest.NewRequest("GET", "/profile", nil), userID)
	rr = httptest.NewRecorder()
	handler.handleGet(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var got UserProfile
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, saved.ID, got.ID)
	assert.Equal(t, p.Age, got.Age)
}

func TestHandler_Save_InvalidProfile(t *testing.T) {
	handler := NewHandler(newRepoMock())
	userID := uuid.New()

	invalid := randomProfile(userID)
	invalid.Age = -5
	invalidJson, err := json.Marshal(invalid)
	require.NoError(t, err)

	req := requestWithUser(httptest.NewRequest("PUT", "/profile", strings.NewReader(string(invalidJson))), userID)
	rr := httptest.NewRecorder()
	handler.handleSave(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	req = requestWithUser(httptest.NewRequest("PUT", "/profile", strings.NewReader("garbage")), userID)
	rr = httptest.NewRecorder()
	handler.handleSave(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandler_Get_NotFound(t *testing.T) {
	handler := NewHandler(newRepoMock())

	req := requestWithUser(httptest.NewRequest("GET", "/profile", nil), uuid.New())
	rr := httptest.NewRecorder()
	handler.handleGet(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandler_Summary(t *testing.T) {
	repo := newRepoMock()
	handler := NewHandler(repo)
	userID := uuid.New()

	p := UserProfile{
		UserID:         userID,
		Name:           "test user",
		Age:            30,
		Sex:            SexMale,
		HeightCm:       180,
		WeightKg:       80,
		GoalWeightKg:   75,
		ActivityLevel:  ActivitySedentary,
		Goal:           GoalWeightLoss,
		Experience:     ExperienceIntermediate,
		DietPreference: DietNonVegetarian,
	}
	_, err := repo.Save(context.Background(), p)
	require.NoError(t, err)

	req := requestWithUser(httptest.NewRequest("GET", "/profile/summary", nil), userID)
	rr := httptest.NewRecorder()
	handler.handleSummary(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var summary Summary
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &summary))
	assert.InDelta(t, 24.69, summary.BMI, 0.01)
	assert.Equal(t, BMINormal, summary.BMICategory)
	assert.InDelta(t, 1780, summary.BMR, 0.01)
	assert.InDelta(t, 2136, summary.TDEE, 0.01)
	assert.InDelta(t, 1636, summary.CalorieTarget, 0.01)
}

func TestHandler_NoSessionUser(t *testing.T) {
	handler := NewHandler(newRepoMock())

	rr := httptest.NewRecorder()
	handler.handleGet(rr, httptest.NewRequest("GET", "/profile", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

// requestWithUser mimics what the auth middleware does for logged users.
func requestWithUser(req *http.Request, userID uuid.UUID) *http.Request {
	return req.WithContext(middleware.ContextWithUserID(req.Context(), userID))
}
