package trip

import (
	"errors"
	"fmt"

	"github.com/wanderplan/wanderplan/internal/feasibility"
)

// ErrInvalidRequest marks client input errors. These surface before any I/O.
var ErrInvalidRequest = errors.New("invalid request")

// ErrPlannerOffline marks transport-level failure reaching the planner, so
// callers can offer "try again" instead of "raise your budget".
var ErrPlannerOffline = errors.New("itinerary planner unreachable")

// PlannerError is a non-success response from the planner. The detail payload
// is forwarded, not swallowed.
type PlannerError struct {
	Status int
	Detail string
}

func (e *PlannerError) Error() string {
	return fmt.Sprintf("planner returned status %d: %s", e.Status, e.Detail)
}

// InfeasibleError rejects a budget that cannot cover the trip, either from
// the local pre-check or echoed by the planner. It is a client error, never
// a server fault.
type InfeasibleError struct {
	Verdict feasibility.Verdict
}

func (e *InfeasibleError) Error() string {
	if e.Verdict.Message != "" {
		return e.Verdict.Message
	}
	return "budget below minimum required for this trip"
}
