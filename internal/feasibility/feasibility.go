// Package feasibility estimates the minimum viable budget for a trip before
// the expensive generation call is made. The check is deliberately cheap and
// fully local once coordinates are cached, and it fails open: an unresolvable
// place name never blocks a trip.
package feasibility

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/wanderplan/wanderplan/internal/config"
	"github.com/wanderplan/wanderplan/internal/geo"
)

// Breakdown itemizes the minimum budget estimate.
type Breakdown struct {
	Transport int `json:"transport"`
	Stay      int `json:"stay"`
	Food      int `json:"food"`
}

// Verdict is the outcome of a feasibility check. It is derived per request
// and never persisted.
type Verdict struct {
	Allowed   bool       `json:"allowed"`
	MinNeeded int        `json:"min_needed,omitempty"`
	Breakdown *Breakdown `json:"breakdown,omitempty"`
	Message   string     `json:"message,omitempty"`
}

// PlaceResolver is the subset of geo.Resolver the calculator needs.
type PlaceResolver interface {
	Resolve(ctx context.Context, place string) *geo.Coordinate
}

// Calculator derives feasibility verdicts from a cost model and a resolver.
type Calculator struct {
	resolver PlaceResolver
	costs    config.CostModel
	log      *slog.Logger
}

// NewCalculator constructs a Calculator.
func NewCalculator(resolver PlaceResolver, costs config.CostModel, log *slog.Logger) *Calculator {
	return &Calculator{resolver: resolver, costs: costs, log: log}
}

// Check compares the proposed budget against a minimum viable estimate.
//
// Transport takes the cheaper of the express and budget linear cost models
// for the one-way distance, doubled for the round trip and multiplied by
// traveler count. Stay assumes two travelers per room at the cheapest
// nightly rate; a one-day trip is still charged one night. Food is a flat
// per-traveler-per-day rate.
func (c *Calculator) Check(ctx context.Context, origin, destination string, days, travelers int, budget float64) Verdict {
	if travelers < 1 {
		travelers = 1
	}
	if days < 1 {
		days = 1
	}

	from := c.resolver.Resolve(ctx, origin)
	to := c.resolver.Resolve(ctx, destination)
	if from == nil || to == nil {
		// Fail open: without coordinates there is no distance to price.
		c.log.Info("feasibility skipped, place not resolved",
			"origin", origin, "destination", destination)
		return Verdict{Allowed: true}
	}

	distanceKm := geo.DistanceKm(*from, *to)

	express := c.costs.ExpressBase + distanceKm*c.costs.ExpressPerKm
	budgetMode := c.costs.BudgetBase + distanceKm*c.costs.BudgetPerKm
	oneWay := math.Min(express, budgetMode)
	transport := oneWay * 2 * float64(travelers)

	rooms := math.Ceil(float64(travelers) / 2)
	nights := math.Max(1, float64(days-1))
	stay := rooms * c.costs.NightlyRate * nights

	food := c.costs.FoodPerDay * float64(travelers) * float64(days)

	bd := &Breakdown{
		Transport: int(math.Round(transport)),
		Stay:      int(math.Round(stay)),
		Food:      int(math.Round(food)),
	}
	// Sum the rounded components so the breakdown always adds up to the total.
	minNeeded := bd.Transport + bd.Stay + bd.Food

	c.log.Info("feasibility computed",
		"origin", origin, "destination", destination,
		"distance_km", math.Round(distanceKm),
		"transport", bd.Transport, "stay", bd.Stay, "food", bd.Food,
		"min_needed", minNeeded, "budget", budget)

	if budget >= float64(minNeeded) {
		return Verdict{Allowed: true}
	}

	return Verdict{
		Allowed:   false,
		MinNeeded: minNeeded,
		Breakdown: bd,
		Message: fmt.Sprintf(
			"Calculated minimum budget is %d (Transport: %d, Stay: %d, Food: %d)",
			minNeeded, bd.Transport, bd.Stay, bd.Food),
	}
}
