package meal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/2beens/fitassist/internal/middleware"
	"github.com/2beens/fitassist/internal/telemetry/metrics"
	"github.com/2beens/fitassist/internal/telemetry/tracing"
	"github.com/2beens/fitassist/pkg"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type plansRepo interface {
	Add(ctx context.Context, plan Plan) (*Plan, error)
	List(ctx context.Context, params ListParams) ([]Plan, error)
	Count(ctx context.Context, userID uuid.UUID) (int, error)
}

type Handler struct {
	repo           plansRepo
	metricsManager *metrics.Manager
}

func NewHandler(repo plansRepo, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		repo:           repo,
		metricsManager: metricsManager,
	}
}

func (handler *Handler) SetupRoutes(mainRouter *mux.Router) {
	mealRouter := mainRouter.PathPrefix("/meal").Subrouter()
	mealRouter.HandleFunc("/plan", handler.handleGenerate).Methods("POST", "OPTIONS").Name("meal-plan")
	mealRouter.HandleFunc("/plans/page/{page}/size/{size}", handler.handleList).Methods("GET", "OPTIONS").Name("meal-plans")
	mealRouter.Use(middleware.Cors())
}

func (handler *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "mealHandler.generate")
	defer span.End()

	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	var params GenerateParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		log.Errorf("generate meal plan, unmarshal json params: %s", err)
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	plan, err := Generate(params)
	if err != nil {
		if errors.Is(err, ErrInsufficientDishes) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	plan.UserID = userID
	added, err := handler.repo.Add(ctx, *plan)
	if err != nil {
		span.SetStatus(codes.Error, fmt.Sprintf("add meal plan: %s", err))
		log.Errorf("add meal plan: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	span.SetAttributes(attribute.String("plan.id", added.ID.String()))
	handler.metricsManager.CounterPlansGenerated.WithLabelValues("meal").Inc()

	addedJson, err := json.Marshal(added)
	if err != nil {
		log.Errorf("marshal meal plan: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, addedJson, http.StatusCreated)
}

func (handler *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "mealHandler.list")
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

	plans, err := handler.repo.List(ctx, ListParams{
		UserID: userID,
		Page:   page,
		Size:   size,
	})
	if err != nil {
		span.SetStatus(codes.Error, fmt.Sprintf("list meal plans: %s", err))
		log.Errorf("list meal plans: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	total, err := handler.repo.Count(ctx, userID)
	if err != nil {
		span.SetStatus(codes.Error, fmt.Sprintf("count meal plans: %s", err))
		log.Errorf("count meal plans: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	if plans == nil {
		plans = []Plan{}
	}

	resp := struct {
		Plans []Plan `json:"plans"`
		Total int    `json:"total"`
	}{
		Plans: plans,
		Total: total,
	}
	respJson, err := json.Marshal(resp)
	if err != nil {
		log.Errorf("marshal meal plans: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}
