// Package trip owns the trip-planning domain: the request and itinerary
// types, cache-key derivation, the planner client, image enrichment, and the
// generation orchestrator.
package trip

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Budget is a positive amount that accepts either a JSON number or a string
// with thousands separators ("50,000"). It normalizes to a plain numeric
// string for hashing and persistence.
type Budget struct {
	amount float64
	norm   string
}

// NewBudget constructs a Budget from a numeric amount.
func NewBudget(amount float64) Budget {
	return Budget{amount: amount, norm: strconv.FormatFloat(amount, 'f', -1, 64)}
}

// Amount returns the numeric value, 0 when unset.
func (b Budget) Amount() float64 { return b.amount }

// String returns the normalized numeric string, "" when unset.
func (b Budget) String() string { return b.norm }

// IsZero reports whether the budget was never supplied.
func (b Budget) IsZero() bool { return b.norm == "" }

func (b *Budget) UnmarshalJSON(data []byte) error {
	s := string(bytes.Trim(bytes.TrimSpace(data), `"`))
	if s == "null" || s == "" {
		return nil
	}
	// Strip thousands separators and stray spaces: "50,000" -> "50000".
	s = strings.NewReplacer(",", "", " ", "", "_", "").Replace(s)

	amount, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid budget %q", string(data))
	}

	b.amount = amount
	b.norm = strconv.FormatFloat(amount, 'f', -1, 64)
	return nil
}

func (b Budget) MarshalJSON() ([]byte, error) {
	if b.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(strconv.Quote(b.norm)), nil
}

// PlanRequest is the inbound trip-planning request.
type PlanRequest struct {
	Origin       string `json:"origin"`
	Destination  string `json:"destination"`
	Days         int    `json:"days"`
	Budget       Budget `json:"budget"`
	Travelers    int    `json:"travelers"`
	TravelStyle  string `json:"travel_style"`
	ForceRefresh bool   `json:"forceRefresh"`
}

// Activity is a single itinerary entry within a day.
type Activity struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Time        string `json:"time,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
}

// Day is one day of the generated itinerary.
type Day struct {
	Day        int        `json:"day"`
	Theme      string     `json:"theme,omitempty"`
	Activities []Activity `json:"activities"`
}

// Hotel is a suggested stay option.
type Hotel struct {
	Name     string `json:"name"`
	Address  string `json:"address,omitempty"`
	Price    string `json:"price,omitempty"`
	Rating   string `json:"rating,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

// Plan is the generated itinerary payload. Flights stay semi-structured: the
// planner's flight schema varies and nothing downstream inspects it.
type Plan struct {
	TripName  string           `json:"trip_name,omitempty"`
	Itinerary []Day            `json:"itinerary,omitempty"`
	Hotels    []Hotel          `json:"hotels,omitempty"`
	Flights   []map[string]any `json:"flights,omitempty"`

	// The planner may answer 200 with an embedded infeasibility signal
	// instead of itinerary content.
	NotFeasible bool   `json:"not_feasible,omitempty"`
	Message     string `json:"message,omitempty"`
}

// Record is a persisted itinerary. Records are append-only: a regeneration
// for the same search hash creates a new record, it never overwrites.
type Record struct {
	ID          string    `json:"id"`
	SearchHash  string    `json:"search_hash"`
	Origin      string    `json:"origin"`
	Destination string    `json:"destination"`
	Duration    int       `json:"duration"`
	Budget      string    `json:"budget"`
	Plan        Plan      `json:"trip_data"`
	Source      string    `json:"source"`
	CreatedAt   time.Time `json:"created_at"`
}
