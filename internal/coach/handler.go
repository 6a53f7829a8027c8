package coach

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/2beens/fitassist/internal/middleware"
	"github.com/2beens/fitassist/internal/profile"
	"github.com/2beens/fitassist/internal/telemetry/metrics"
	"github.com/2beens/fitassist/internal/telemetry/tracing"
	"github.com/2beens/fitassist/pkg"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

const maxQuestionLength = 2000

type askApi interface {
	Ask(ctx context.Context, prompt string) (string, error)
}

type profilesGetter interface {
	Get(ctx context.Context, userID uuid.UUID) (*profile.UserProfile, error)
}

type Handler struct {
	api      askApi
	profiles profilesGetter
}

func NewHandler(api askApi, profiles profilesGetter) *Handler {
	return &Handler{
		api:      api,
		profiles: profiles,
	}
}

func (handler *Handler) SetupRoutes(
	mainRouter *mux.Router,
	rateLimiter middleware.RequestRateLimiter,
	metricsManager *metrics.Manager,
	coachRateLimitAllowedPerMin int,
) {
	coachRouter := mainRouter.PathPrefix("/coach").Subrouter()
	coachRouter.HandleFunc("/chat", handler.handleChat).Methods("POST", "OPTIONS").Name("coach-chat")

	// the coach endpoint fans out to a paid external api, rate limit it
	coachRouter.Use(middleware.RateLimit(rateLimiter, "coach", coachRateLimitAllowedPerMin, metricsManager))
	coachRouter.Use(middleware.Cors())
}

func (handler *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "coachHandler.chat")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	type chatRequest struct {
		Question string `json:"question"`
	}

	var chatReq chatRequest
	if err := json.NewDecoder(r.Body).Decode(&chatReq); err != nil {
		log.Errorf("coach chat, unmarshal json params: %s", err)
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	question := strings.TrimSpace(chatReq.Question)
	if question == "" {
		http.Error(w, "error, question empty", http.StatusBadRequest)
		return
	}
	if len(question) > maxQuestionLength {
		http.Error(w, "error, question too long", http.StatusBadRequest)
		return
	}

	// profile context is optional, the coach answers without it too
	userProfile, err := handler.profiles.Get(ctx, userID)
	if err != nil && !errors.Is(err, profile.ErrProfileNotFound) {
		log.Errorf("coach chat, get profile: %s", err)
		userProfile = nil
	}

	prompt := BuildPrompt(userProfile, question)
	answer, err := handler.api.Ask(ctx, prompt)
	if err != nil {
		if errors.Is(err, ErrServiceUnavailable) {
			http.Error(w, "coach is unavailable, try again later", http.StatusServiceUnavailable)
			return
		}
		span.SetStatus(codes.Error, fmt.Sprintf("ask coach: %s", err))
		log.Errorf("coach chat, ask: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	resp := struct {
		Answer string `json:"answer"`
	}{
		Answer: answer,
	}
	respJson, err := json.Marshal(resp)
	if err != nil {
		log.Errorf("coach chat, marshal response: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}
