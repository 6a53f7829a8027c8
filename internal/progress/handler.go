package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/2beens/fitassist/internal/middleware"
	"github.com/2beens/fitassist/internal/profile"
	"github.com/2beens/fitassist/internal/telemetry/metrics"
	"github.com/2beens/fitassist/internal/telemetry/tracing"
	"github.com/2beens/fitassist/pkg"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type entriesRepo interface {
	Add(ctx context.Context, entry Entry) (*Entry, error)
	List(ctx context.Context, params ListParams) ([]Entry, error)
	ListAll(ctx context.Context, userID uuid.UUID) ([]Entry, error)
	Count(ctx context.Context, userID uuid.UUID) (int, error)
}

type profilesGetter interface {
	Get(ctx context.Context, userID uuid.UUID) (*profile.UserProfile, error)
}

type Handler struct {
	repo           entriesRepo
	profiles       profilesGetter
	metricsManager *metrics.Manager
}

func NewHandler(repo entriesRepo, profiles profilesGetter, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		repo:           repo,
		profiles:       profiles,
		metricsManager: metricsManager,
	}
}

func (handler *Handler) SetupRoutes(mainRouter *mux.Router) {
	progressRouter := mainRouter.PathPrefix("/progress").Subrouter()
	progressRouter.HandleFunc("", handler.handleAdd).Methods("POST", "OPTIONS").Name("progress-add")
	progressRouter.HandleFunc("/list/page/{page}/size/{size}", handler.handleList).Methods("GET", "OPTIONS").Name("progress-list")
	progressRouter.HandleFunc("/projection", handler.handleProjection).Methods("GET", "OPTIONS").Name("progress-projection")
	progressRouter.Use(middleware.Cors())
}

func (handler *Handler) handleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "progressHandler.add")
	defer span.End()

	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	var entry Entry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		log.Errorf("add progress entry, unmarshal json params: %s", err)
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	entry.UserID = userID
	if err := entry.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	added, err := handler.repo.Add(ctx, entry)
	if err != nil {
		span.SetStatus(codes.Error, fmt.Sprintf("add progress entry: %s", err))
		log.Errorf("add progress entry: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	span.SetAttributes(attribute.String("entry.id", added.ID.String()))
	handler.metricsManager.CounterProgressEntries.Inc()

	addedJson, err := json.Marshal(added)
	if err != nil {
		log.Errorf("marshal progress entry: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, addedJson, http.StatusCreated)
}

func (handler *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "progressHandler.list")
	defer span.End()

	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	page, err := strconv.Atoi(vars["page"])
	if err != nil || page < 1 {
		http.Error(w, "invalid page", http.StatusBadRequest)
		return
	}
	size, err := strconv.Atoi(vars["size"])
	if err != nil || size < 1 {
		http.Error(w, "invalid size", http.StatusBadRequest)
		return
	}

	entries, err := handler.repo.List(ctx, ListParams{
		UserID: userID,
		Page:   page,
		Size:   size,
	})
	if err != nil {
		span.SetStatus(codes.Error, fmt.Sprintf("list progress entries: %s", err))
		log.Errorf("list progress entries: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	total, err := handler.repo.Count(ctx, userID)
	if err != nil {
		span.SetStatus(codes.Error, fmt.Sprintf("count progress entries: %s", err))
		log.Errorf("count progress entries: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	if entries == nil {
		entries = []Entry{}
	}

	resp := struct {
		Entries []Entry `json:"entries"`
		Total   int     `json:"total"`
	}{
		Entries: entries,
		Total:   total,
	}
	respJson, err := json.Marshal(resp)
	if err != nil {
		log.Errorf("marshal progress entries: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}

func (handler *Handler) handleProjection(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "progressHandler.projection")
	defer span.End()

	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	// explicit target wins over the profile goal weight
	var targetWeightKg float64
	if targetParam := r.URL.Query().Get("target"); targetParam != "" {
		target, err := strconv.ParseFloat(targetParam, 64)
		if err != nil || target <= 0 {
			http.Error(w, "invalid target", http.StatusBadRequest)
			return
		}
		targetWeightKg = target
	} else {
		p, err := handler.profiles.Get(ctx, userID)
		if err != nil {
			if errors.Is(err, profile.ErrProfileNotFound) {
				http.Error(w, "no target given and no profile with a goal weight", http.StatusBadRequest)
				return
			}
			span.SetStatus(codes.Error, fmt.Sprintf("get profile: %s", err))
			log.Errorf("projection, get profile: %s", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		targetWeightKg = p.GoalWeightKg
	}

	entries, err := handler.repo.ListAll(ctx, userID)
	if err != nil {
		span.SetStatus(codes.Error, fmt.Sprintf("list progress entries: %s", err))
		log.Errorf("projection, list progress entries: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	projection, err := Project(entries, targetWeightKg)
	if err != nil {
		switch {
		case errors.Is(err, ErrInsufficientData):
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		case errors.Is(err, ErrNoConvergence):
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		default:
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
		return
	}

	span.SetAttributes(attribute.Float64("projection.weeklyRateKg", projection.WeeklyRateKg))

	projectionJson, err := json.Marshal(projection)
	if err != nil {
		log.Errorf("marshal projection: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, projectionJson)
}
