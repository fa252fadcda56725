package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/wanderplan/wanderplan/internal/feasibility"
	"github.com/wanderplan/wanderplan/internal/trip"
)

// Handlers holds the dependencies for all HTTP handlers.
type Handlers struct {
	planner TripPlanner
	trips   TripReader
	log     *slog.Logger
}

// NewHandlers constructs Handlers with all required dependencies.
func NewHandlers(planner TripPlanner, trips TripReader, log *slog.Logger) *Handlers {
	return &Handlers{planner: planner, trips: trips, log: log}
}

// writeJSON encodes v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// planResponse flattens the plan payload and tags it with its provenance.
type planResponse struct {
	*trip.Plan
	Source string `json:"source"`
	ID     string `json:"id"`
}

type infeasibleResponse struct {
	Error     string                 `json:"error"`
	Message   string                 `json:"message,omitempty"`
	MinNeeded int                    `json:"min_needed,omitempty"`
	Breakdown *feasibility.Breakdown `json:"breakdown,omitempty"`
}

// PlanTrip handles POST /api/v1/trips.
// Fresh cache entry -> 200 tagged source:"cache"; otherwise the request runs
// the full generation pipeline and answers 201 tagged source:"ai".
func (h *Handlers) PlanTrip(w http.ResponseWriter, r *http.Request) {
	var req trip.PlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body: " + err.Error()})
		return
	}

	result, err := h.planner.Generate(r.Context(), req)
	if err != nil {
		h.writePlanError(w, req, err)
		return
	}

	status := http.StatusCreated
	if result.Source == "cache" {
		status = http.StatusOK
	}

	writeJSON(w, status, planResponse{Plan: result.Plan, Source: result.Source, ID: result.RecordID})
}

// writePlanError translates the orchestrator's error taxonomy into the HTTP
// contract. Nothing internal leaks: only planner detail payloads are
// forwarded, and only deliberately.
func (h *Handlers) writePlanError(w http.ResponseWriter, req trip.PlanRequest, err error) {
	var infeasible *trip.InfeasibleError
	var plannerErr *trip.PlannerError

	switch {
	case errors.Is(err, trip.ErrInvalidRequest):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})

	case errors.As(err, &infeasible):
		v := infeasible.Verdict
		writeJSON(w, http.StatusBadRequest, infeasibleResponse{
			Error:     "budget not feasible",
			Message:   v.Message,
			MinNeeded: v.MinNeeded,
			Breakdown: v.Breakdown,
		})

	case errors.Is(err, trip.ErrPlannerOffline):
		h.log.Error("planner unreachable", "destination", req.Destination, "err", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error": "itinerary service is offline, please try again later",
		})

	case errors.As(err, &plannerErr):
		h.log.Error("planner rejected request",
			"destination", req.Destination, "status", plannerErr.Status, "detail", plannerErr.Detail)
		writeJSON(w, http.StatusBadGateway, map[string]string{
			"error":   "itinerary generation failed",
			"details": plannerErr.Detail,
		})

	default:
		h.log.Error("plan trip failed", "destination", req.Destination, "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

// GetTrip handles GET /api/v1/trips/{id}.
func (h *Handlers) GetTrip(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rec, err := h.trips.GetByID(r.Context(), id)
	if err != nil {
		h.log.Error("trip lookup failed", "id", id, "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	if rec == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "trip not found"})
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

// HealthHandlerFunc returns an http.HandlerFunc that checks db and redis
// connectivity: 200 when both answer, 503 otherwise.
type dbPinger interface {
	Ping(ctx context.Context) error
}

type redisPinger interface {
	Ping(ctx context.Context) error
}

func HealthHandlerFunc(db dbPinger, redis redisPinger, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		status := http.StatusOK
		dbStatus := "ok"
		redisStatus := "ok"

		if err := db.Ping(ctx); err != nil {
			log.Error("health check: db ping failed", "err", err)
			dbStatus = "error"
			status = http.StatusServiceUnavailable
		}

		if err := redis.Ping(ctx); err != nil {
			log.Error("health check: redis ping failed", "err", err)
			redisStatus = "error"
			status = http.StatusServiceUnavailable
		}

		overall := "ok"
		if status != http.StatusOK {
			overall = "degraded"
		}

		writeJSON(w, status, map[string]string{
			"status": overall,
			"db":     dbStatus,
			"redis":  redisStatus,
		})
	}
}
