package api

import (
	"context"

	"github.com/wanderplan/wanderplan/internal/trip"
)

// TripPlanner runs the full plan-or-cache pipeline for a request.
type TripPlanner interface {
	Generate(ctx context.Context, req trip.PlanRequest) (*trip.Result, error)
}

// TripReader reads persisted trip records.
type TripReader interface {
	GetByID(ctx context.Context, id string) (*trip.Record, error)
}
