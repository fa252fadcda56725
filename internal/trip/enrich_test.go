package trip_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanderplan/wanderplan/internal/trip"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubSearcher struct {
	mu      sync.Mutex
	queries []string
	fn      func(query string) (string, error)
}

func (s *stubSearcher) Search(_ context.Context, query string) (string, error) {
	s.mu.Lock()
	s.queries = append(s.queries, query)
	s.mu.Unlock()
	return s.fn(query)
}

func samplePlan() *trip.Plan {
	return &trip.Plan{
		TripName: "Parisian Getaway",
		Itinerary: []trip.Day{
			{Day: 1, Theme: "Landmarks", Activities: []trip.Activity{
				{Name: "Eiffel Tower"},
				{Name: "Louvre", ImageURL: "https://images.example.com/louvre.jpg"},
			}},
			{Day: 2, Theme: "Old Town", Activities: []trip.Activity{
				{Name: "Montmartre", ImageURL: "https://via.placeholder.com/400x300?text=No+Image+Found"},
			}},
		},
		Hotels: []trip.Hotel{
			{Name: "Hotel Lutetia"},
			{Name: "Le Meurice", ImageURL: "https://images.example.com/meurice.jpg"},
		},
	}
}

func TestEnrich_FillsMissingImages(t *testing.T) {
	s := &stubSearcher{fn: func(query string) (string, error) {
		return "https://images.example.com/found.jpg", nil
	}}

	e := trip.NewEnricher(s, discardLogger())
	plan := samplePlan()
	e.Enrich(context.Background(), plan, "Paris")

	assert.Equal(t, "https://images.example.com/found.jpg", plan.Itinerary[0].Activities[0].ImageURL)
	assert.Equal(t, "https://images.example.com/found.jpg", plan.Itinerary[1].Activities[0].ImageURL, "placeholder counts as missing")
	assert.Equal(t, "https://images.example.com/found.jpg", plan.Hotels[0].ImageURL)

	// Fields that already had real images stay untouched.
	assert.Equal(t, "https://images.example.com/louvre.jpg", plan.Itinerary[0].Activities[1].ImageURL)
	assert.Equal(t, "https://images.example.com/meurice.jpg", plan.Hotels[1].ImageURL)

	// One query per missing field, none for the present ones.
	assert.Len(t, s.queries, 3)
	assert.Contains(t, s.queries, "Eiffel Tower Paris")
	assert.Contains(t, s.queries, "Montmartre Paris")
	assert.Contains(t, s.queries, "Hotel Lutetia hotel Paris")
}

func TestEnrich_AllSearchesFail_PlanStaysIntact(t *testing.T) {
	s := &stubSearcher{fn: func(query string) (string, error) {
		return "", context.DeadlineExceeded
	}}

	e := trip.NewEnricher(s, discardLogger())
	plan := samplePlan()
	e.Enrich(context.Background(), plan, "Paris")

	// Structure survives with the missing fields left blank.
	require.Len(t, plan.Itinerary, 2)
	assert.Empty(t, plan.Itinerary[0].Activities[0].ImageURL)
	assert.Empty(t, plan.Hotels[0].ImageURL)
	assert.Equal(t, "https://images.example.com/louvre.jpg", plan.Itinerary[0].Activities[1].ImageURL)
}

func TestEnrich_PartialFailure(t *testing.T) {
	s := &stubSearcher{fn: func(query string) (string, error) {
		if query == "Hotel Lutetia hotel Paris" {
			return "", context.DeadlineExceeded
		}
		return "https://images.example.com/ok.jpg", nil
	}}

	e := trip.NewEnricher(s, discardLogger())
	plan := samplePlan()
	e.Enrich(context.Background(), plan, "Paris")

	assert.Empty(t, plan.Hotels[0].ImageURL)
	assert.Equal(t, "https://images.example.com/ok.jpg", plan.Itinerary[0].Activities[0].ImageURL)
}

func TestEnrich_EmptyResultLeavesFieldBlank(t *testing.T) {
	s := &stubSearcher{fn: func(query string) (string, error) { return "", nil }}

	e := trip.NewEnricher(s, discardLogger())
	plan := samplePlan()
	e.Enrich(context.Background(), plan, "Paris")

	assert.Empty(t, plan.Hotels[0].ImageURL)
}

func TestEnrich_NilPlan(t *testing.T) {
	s := &stubSearcher{fn: func(query string) (string, error) { return "", nil }}
	e := trip.NewEnricher(s, discardLogger())
	e.Enrich(context.Background(), nil, "Paris") // must not panic
}

func TestEnrich_RunsConcurrently(t *testing.T) {
	// Three missing images resolved with a 50ms delay each: a serial
	// implementation needs 150ms+, the fan-out stays well under that.
	s := &stubSearcher{fn: func(query string) (string, error) {
		time.Sleep(50 * time.Millisecond)
		return "https://images.example.com/slow.jpg", nil
	}}

	e := trip.NewEnricher(s, discardLogger())
	plan := samplePlan()

	start := time.Now()
	e.Enrich(context.Background(), plan, "Paris")
	elapsed := time.Since(start)

	assert.Less(t, elapsed, 140*time.Millisecond)
	assert.Equal(t, "https://images.example.com/slow.jpg", plan.Hotels[0].ImageURL)
}

func TestImageSearchClient_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/images", r.URL.Path)
		require.Equal(t, "test-key", r.Header.Get("X-API-KEY"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Eiffel Tower Paris", body["q"])

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"images": []map[string]string{{"imageUrl": "https://images.example.com/tower.jpg"}},
		})
	}))
	defer srv.Close()

	c := trip.NewImageSearchClient(srv.URL, "test-key")
	url, err := c.Search(context.Background(), "Eiffel Tower Paris")
	require.NoError(t, err)
	assert.Equal(t, "https://images.example.com/tower.jpg", url)
}

func TestImageSearchClient_NoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"images": []any{}})
	}))
	defer srv.Close()

	c := trip.NewImageSearchClient(srv.URL, "test-key")
	url, err := c.Search(context.Background(), "Nowhere")
	require.NoError(t, err)
	assert.Empty(t, url)
}

func TestImageSearchClient_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusForbidden)
	}))
	defer srv.Close()

	c := trip.NewImageSearchClient(srv.URL, "test-key")
	_, err := c.Search(context.Background(), "Eiffel Tower")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 403")
}
