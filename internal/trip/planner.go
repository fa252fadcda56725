package trip

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// PlannerClient calls the external itinerary generation service:
// POST {base}/plan-trip with the stringified request fields.
type PlannerClient struct {
	baseURL string
	client  *http.Client
}

// NewPlannerClient constructs a PlannerClient. The timeout bounds the whole
// generation call; the planner is slow by nature, so minutes, not seconds.
func NewPlannerClient(baseURL string, timeout time.Duration) *PlannerClient {
	return &PlannerClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

type plannerRequest struct {
	Destination string `json:"destination"`
	Origin      string `json:"origin"`
	Days        string `json:"days"`
	Budget      string `json:"budget"`
	Travelers   string `json:"travelers"`
	TravelStyle string `json:"travel_style"`
	CurrentDate string `json:"current_date"`
}

// Plan generates an itinerary for the given request.
//
// Transport failure maps to ErrPlannerOffline; a non-2xx response maps to
// *PlannerError carrying the body. A 2xx payload may still embed a
// not-feasible signal; that is returned as-is for the orchestrator to judge.
func (c *PlannerClient) Plan(ctx context.Context, req PlanRequest) (*Plan, error) {
	body, err := json.Marshal(plannerRequest{
		Destination: req.Destination,
		Origin:      req.Origin,
		Days:        strconv.Itoa(req.Days),
		Budget:      req.Budget.String(),
		Travelers:   strconv.Itoa(req.Travelers),
		TravelStyle: req.TravelStyle,
		CurrentDate: time.Now().UTC().Format("2006-01-02"),
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling planner request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/plan-trip", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating planner request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("calling planner: %w", ErrPlannerOffline)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &PlannerError{Status: resp.StatusCode, Detail: strings.TrimSpace(string(raw))}
	}

	var plan Plan
	if err := json.Unmarshal(raw, &plan); err != nil {
		return nil, fmt.Errorf("decoding planner response: %w", err)
	}

	return &plan, nil
}
