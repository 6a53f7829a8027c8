package bodyfat

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/2beens/fitassist/internal/middleware"
	"github.com/2beens/fitassist/internal/telemetry/tracing"
	"github.com/2beens/fitassist/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (handler *Handler) SetupRoutes(mainRouter *mux.Router) {
	bodyfatRouter := mainRouter.PathPrefix("/bodyfat").Subrouter()
	bodyfatRouter.HandleFunc("/estimate", handler.handleEstimate).Methods("POST", "OPTIONS").Name("bodyfat-estimate")
	bodyfatRouter.Use(middleware.Cors())
}

func (handler *Handler) handleEstimate(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "bodyfatHandler.estimate")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	type estimateRequest struct {
		Input
		WeightKg *float64 `json:"weightKg,omitempty"`
	}

	var req estimateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("bodyfat estimate, unmarshal json params: %s", err)
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	result, err := Estimate(req.Input)
	if err != nil {
		if errors.Is(err, ErrMissingMeasurement) {
			http.Error(w, "missing measurement: hip", http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	span.SetAttributes(attribute.Float64("bodyfat.percent", result.Percent))

	type estimateResponse struct {
		*Result
		LeanMassKg *float64 `json:"leanMassKg,omitempty"`
		FatMassKg  *float64 `json:"fatMassKg,omitempty"`
	}
	resp := estimateResponse{Result: result}

	// mass split only when the weight was provided
	if req.WeightKg != nil {
		lean, fat, err := SplitMass(*req.WeightKg, result.Percent)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		resp.LeanMassKg = &lean
		resp.FatMassKg = &fat
	}

	respJson, err := json.Marshal(resp)
	if err != nil {
		log.Errorf("bodyfat estimate, marshal response: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}
