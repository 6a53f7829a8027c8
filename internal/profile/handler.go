package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/2beens/fitassist/internal/middleware"
	"github.com/2beens/fitassist/internal/telemetry/tracing"
	"github.com/2beens/fitassist/pkg"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type profilesRepo interface {
	Save(ctx context.Context, profile UserProfile) (*UserProfile, error)
	Get(ctx context.Context, userID uuid.UUID) (*UserProfile, error)
}

type Handler struct {
	repo profilesRepo
}

func NewHandler(repo profilesRepo) *Handler {
	return &Handler{
		repo: repo,
	}
}

func (handler *Handler) SetupRoutes(mainRouter *mux.Router) {
	profileRouter := mainRouter.PathPrefix("/profile").Subrouter()
	profileRouter.HandleFunc("", handler.handleGet).Methods("GET", "OPTIONS").Name("get-profile")
	profileRouter.HandleFunc("", handler.handleSave).Methods("PUT", "OPTIONS").Name("save-profile")
	profileRouter.HandleFunc("/summary", handler.handleSummary).Methods("GET", "OPTIONS").Name("profile-summary")
	profileRouter.Use(middleware.Cors())
}

func (handler *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "profileHandler.get")
	defer span.End()

	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	p, err := handler.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			http.Error(w, "profile not found", http.StatusNotFound)
			return
		}
		span.SetStatus(codes.Error, fmt.Sprintf("get profile: %s", err))
		log.Errorf("get profile: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	profileJson, err := json.Marshal(p)
	if err != nil {
		log.Errorf("marshal profile: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, profileJson)
}

func (handler *Handler) handleSave(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "profileHandler.save")
	defer span.End()

	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	var p UserProfile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		log.Errorf("save profile, unmarshal json params: %s", err)
		http.Error(w, "invalid profile", http.StatusBadRequest)
		return
	}

	// the owner comes from the session, never from the payload
	p.UserID = userID

	if err := p.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	saved, err := handler.repo.Save(ctx, p)
	if err != nil {
		span.SetStatus(codes.Error, fmt.Sprintf("save profile: %s", err))
		log.Errorf("save profile: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	span.SetAttributes(attribute.String("profile.id", saved.ID.String()))

	savedJson, err := json.Marshal(saved)
	if err != nil {
		log.Errorf("marshal saved profile: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, savedJson)
}

type Summary struct {
	BMI           float64         `json:"bmi"`
	BMICategory   BMICategoryName `json:"bmiCategory"`
	BMR           float64         `json:"bmr"`
	TDEE          float64         `json:"tdee"`
	CalorieTarget float64         `json:"calorieTarget"`
	GeneratedAt   time.Time       `json:"generatedAt"`
}

// Summarize runs all the calculators over the given profile.
func Summarize(p *UserProfile) (*Summary, error) {
	bmi, err := ComputeBMI(p.WeightKg, p.HeightCm)
	if err != nil {
		return nil, fmt.Errorf("compute bmi: %w", err)
	}
	bmr, err := ComputeBMR(p.WeightKg, p.HeightCm, p.Age, p.Sex)
	if err != nil {
		return nil, fmt.Errorf("compute bmr: %w", err)
	}
	tdee, err := ComputeTDEE(bmr, p.ActivityLevel)
	if err != nil {
		return nil, fmt.Errorf("compute tdee: %w", err)
	}
	calTarget, err := CalorieTarget(tdee, p.Goal)
	if err != nil {
		return nil, fmt.Errorf("calorie target: %w", err)
	}

	return &Summary{
		BMI:           bmi,
		BMICategory:   BMICategory(bmi),
		BMR:           bmr,
		TDEE:          tdee,
		CalorieTarget: calTarget,
		GeneratedAt:   time.Now(),
	}, nil
}

func (handler *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "profileHandler.summary")
	defer span.End()

	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	p, err := handler.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			http.Error(w, "profile not found", http.StatusNotFound)
			return
		}
		span.SetStatus(codes.Error, fmt.Sprintf("get profile: %s", err))
		log.Errorf("profile summary, get profile: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	summary, err := Summarize(p)
	if err != nil {
		span.SetStatus(codes.Error, fmt.Sprintf("summarize: %s", err))
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	summaryJson, err := json.Marshal(summary)
	if err != nil {
		log.Errorf("marshal summary: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, summaryJson)
}
