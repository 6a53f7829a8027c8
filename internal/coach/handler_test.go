package coach

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/2beens/fitassist/internal/middleware"
	"github.com/2beens/fitassist/internal/profile"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type askApiMock struct {
	answer     string
	err        error
	lastPrompt string
}

func (m *askApiMock) Ask(_ context.Context, prompt string) (string, error) {
	m.lastPrompt = prompt
	if m.err != nil {
		return "", m.err
	}
	return m.answer, nil
}

type profilesGetterMock struct {
	profiles map[uuid.UUID]*profile.UserProfile
}

func (m *profilesGetterMock) Get(_ context.Context, userID uuid.UUID) (*profile.UserProfile, error) {
	p, ok := m.profiles[userID]
	if !ok {
		return nil, profile.ErrProfileNotFound
	}
	return p, nil
}

func newChatReq(userID uuid.UUID, body string) *http.Request {
	req := httptest.NewRequest("POST", "/coach/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if userID != uuid.Nil {
		req = req.WithContext(middleware.ContextWithUserID(req.Context(), userID))
	}
	return req
}

func TestHandler_Chat(t *testing.T) {
	userID := uuid.New()
	api := &askApiMock{answer: "start with compound lifts"}
	profiles := &profilesGetterMock{
		profiles: map[uuid.UUID]*profile.UserProfile{
			userID: {
				UserID:         userID,
				Name:           "Dina",
				Age:            28,
				Sex:            profile.SexFemale,
				Goal:           profile.GoalMuscleGain,
				Experience:     profile.ExperienceBeginner,
				DietPreference: profile.DietNonVegetarian,
			},
		},
	}
	handler := NewHandler(api, profiles)

	rr := httptest.NewRecorder()
	handler.handleChat(rr, newChatReq(userID, `{"question":"which lifts first?"}`))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"answer":"start with compound lifts"`)
	assert.Contains(t, api.lastPrompt, "User: which lifts first?")
	assert.Contains(t, api.lastPrompt, "- Goal: muscle_gain")
}

func TestHandler_Chat_NoProfile(t *testing.T) {
	api := &askApiMock{answer: "sure thing"}
	handler := NewHandler(api, &profilesGetterMock{})

	rr := httptest.NewRecorder()
	handler.handleChat(rr, newChatReq(uuid.New(), `{"question":"can I train daily?"}`))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, api.lastPrompt, "User Profile:")
	assert.Contains(t, api.lastPrompt, "can I train daily?")
}

func TestHandler_Chat_Unauthorized(t *testing.T) {
	handler := NewHandler(&askApiMock{}, &profilesGetterMock{})

	rr := httptest.NewRecorder()
	handler.handleChat(rr, newChatReq(uuid.Nil, `{"question":"hi"}`))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestHandler_Chat_InvalidInput(t *testing.T) {
	handler := NewHandler(&askApiMock{}, &profilesGetterMock{})
	userID := uuid.New()

	for _, body := range []string{
		`{"question":""}`,
		`{"question":"   "}`,
		`{"question":"` + strings.Repeat("x", maxQuestionLength+1) + `"}`,
		`not json`,
	} {
		rr := httptest.NewRecorder()
		handler.handleChat(rr, newChatReq(userID, body))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	}
}

func TestHandler_Chat_ServiceUnavailable(t *testing.T) {
	handler := NewHandler(&askApiMock{err: ErrServiceUnavailable}, &profilesGetterMock{})

	rr := httptest.NewRecorder()
	handler.handleChat(rr, newChatReq(uuid.New(), `{"question":"hello"}`))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}
