package trip

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/wanderplan/wanderplan/internal/feasibility"
)

// Store is the append-only itinerary persistence needed by the orchestrator.
type Store interface {
	FindFresh(ctx context.Context, searchHash string, asOf time.Time) (*Record, error)
	Create(ctx context.Context, rec *Record) (*Record, error)
}

// Generator is the external itinerary planner.
type Generator interface {
	Plan(ctx context.Context, req PlanRequest) (*Plan, error)
}

// BudgetChecker is the local feasibility pre-check.
type BudgetChecker interface {
	Check(ctx context.Context, origin, destination string, days, travelers int, budget float64) feasibility.Verdict
}

// ImageEnricher fills in missing images on a generated plan.
type ImageEnricher interface {
	Enrich(ctx context.Context, plan *Plan, destination string)
}

// Result is a completed plan lookup or generation.
type Result struct {
	Plan     *Plan
	Source   string // "ai" or "cache"
	RecordID string
}

// Orchestrator runs the full request pipeline: validate, cache lookup,
// feasibility pre-check, generation, enrichment, persistence.
//
// Infeasible budgets are rejected locally before the planner is called; the
// cheap deterministic pre-check is the only defense against paying for a
// slow generation that is mathematically doomed.
type Orchestrator struct {
	store    Store
	checker  BudgetChecker
	planner  Generator
	enricher ImageEnricher
	window   time.Duration
	log      *slog.Logger

	now func() time.Time
}

// NewOrchestrator constructs an Orchestrator. window is the cache freshness
// window: only records younger than it are served without regeneration.
func NewOrchestrator(store Store, checker BudgetChecker, planner Generator, enricher ImageEnricher, window time.Duration, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		store:    store,
		checker:  checker,
		planner:  planner,
		enricher: enricher,
		window:   window,
		log:      log,
		now:      time.Now,
	}
}

func (o *Orchestrator) validate(req *PlanRequest) error {
	req.Origin = strings.TrimSpace(req.Origin)
	req.Destination = strings.TrimSpace(req.Destination)

	switch {
	case req.Origin == "":
		return fmt.Errorf("%w: origin is required", ErrInvalidRequest)
	case req.Destination == "":
		return fmt.Errorf("%w: destination is required", ErrInvalidRequest)
	case req.Days <= 0:
		return fmt.Errorf("%w: days must be a positive integer", ErrInvalidRequest)
	case req.Budget.IsZero() || req.Budget.Amount() <= 0:
		return fmt.Errorf("%w: budget must be a positive amount", ErrInvalidRequest)
	}

	if req.Travelers <= 0 {
		req.Travelers = 1
	}
	if strings.TrimSpace(req.TravelStyle) == "" {
		req.TravelStyle = "Leisure"
	}

	return nil
}

// Generate produces an itinerary for the request, serving a fresh cached one
// when available.
func (o *Orchestrator) Generate(ctx context.Context, req PlanRequest) (*Result, error) {
	if err := o.validate(&req); err != nil {
		return nil, err
	}

	hash := DeriveKey(req.Origin, req.Destination, req.Days, req.Budget.String(), req.Travelers, req.TravelStyle)

	if !req.ForceRefresh {
		cached, err := o.store.FindFresh(ctx, hash, o.now())
		if err != nil {
			// A broken cache read degrades to a miss; regeneration still works.
			o.log.Error("cache lookup failed", "hash", hash, "err", err)
		}
		if cached != nil {
			o.log.Info("cache hit", "hash", hash, "destination", req.Destination, "record", cached.ID)
			return &Result{Plan: &cached.Plan, Source: "cache", RecordID: cached.ID}, nil
		}
	}

	o.log.Info("cache miss, generating",
		"hash", hash, "destination", req.Destination, "days", req.Days)

	verdict := o.checker.Check(ctx, req.Origin, req.Destination, req.Days, req.Travelers, req.Budget.Amount())
	if !verdict.Allowed {
		return nil, &InfeasibleError{Verdict: verdict}
	}

	plan, err := o.planner.Plan(ctx, req)
	if err != nil {
		return nil, err
	}

	// The planner can overrule the local pre-check with its own judgment.
	// Either way it is the traveler's budget at fault, not the server.
	if plan.NotFeasible {
		return nil, &InfeasibleError{Verdict: feasibility.Verdict{
			Allowed: false,
			Message: plan.Message,
		}}
	}

	o.enricher.Enrich(ctx, plan, req.Destination)

	created, err := o.store.Create(ctx, &Record{
		SearchHash:  hash,
		Origin:      req.Origin,
		Destination: req.Destination,
		Duration:    req.Days,
		Budget:      req.Budget.String(),
		Plan:        *plan,
		Source:      "ai",
	})
	if err != nil {
		return nil, fmt.Errorf("persisting generated trip: %w", err)
	}

	o.log.Info("trip generated", "hash", hash, "record", created.ID)

	return &Result{Plan: plan, Source: "ai", RecordID: created.ID}, nil
}
