package trip

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// placeholderSentinel marks image URLs the planner emits when it found
// nothing usable. Such fields are treated as missing and re-resolved.
const placeholderSentinel = "via.placeholder.com"

const imageSearchTimeout = 10 * time.Second

// ImageSearcher resolves a free-text query to zero or one image URL.
type ImageSearcher interface {
	Search(ctx context.Context, query string) (string, error)
}

// ImageSearchClient queries a serper-style image search API:
// POST {base}/images {"q": .., "num": 1} with an X-API-KEY header.
type ImageSearchClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewImageSearchClient constructs an ImageSearchClient.
func NewImageSearchClient(baseURL, apiKey string) *ImageSearchClient {
	return &ImageSearchClient{
		apiKey:  apiKey,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: imageSearchTimeout},
	}
}

type imageSearchResponse struct {
	Images []struct {
		ImageURL string `json:"imageUrl"`
	} `json:"images"`
}

// Search returns the first image URL for the query, or "" when the index has
// nothing.
func (c *ImageSearchClient) Search(ctx context.Context, query string) (string, error) {
	body, err := json.Marshal(map[string]any{"q": query, "num": 1})
	if err != nil {
		return "", fmt.Errorf("marshaling image search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/images", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating image search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-KEY", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("image search for %q: %w", query, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("image search for %q returned status %d: %s",
			query, resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var result imageSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decoding image search response for %q: %w", query, err)
	}

	if len(result.Images) == 0 {
		return "", nil
	}

	return result.Images[0].ImageURL, nil
}

// Enricher fills in missing hotel and activity images on a generated plan.
type Enricher struct {
	searcher ImageSearcher
	log      *slog.Logger
}

// NewEnricher constructs an Enricher.
func NewEnricher(searcher ImageSearcher, log *slog.Logger) *Enricher {
	return &Enricher{searcher: searcher, log: log}
}

func missingImage(url string) bool {
	return url == "" || strings.Contains(url, placeholderSentinel)
}

// Enrich resolves one image per hotel and activity that lacks a usable one.
// All searches run concurrently and the call returns once every search has
// settled. A failed search is logged and leaves its field blank; it never
// fails the batch.
func (e *Enricher) Enrich(ctx context.Context, plan *Plan, destination string) {
	if plan == nil {
		return
	}

	g, gCtx := errgroup.WithContext(ctx)

	for i := range plan.Hotels {
		if !missingImage(plan.Hotels[i].ImageURL) {
			continue
		}
		hotel := &plan.Hotels[i]
		query := fmt.Sprintf("%s hotel %s", hotel.Name, destination)
		g.Go(func() error {
			e.fill(gCtx, query, &hotel.ImageURL)
			return nil
		})
	}

	for d := range plan.Itinerary {
		for a := range plan.Itinerary[d].Activities {
			if !missingImage(plan.Itinerary[d].Activities[a].ImageURL) {
				continue
			}
			activity := &plan.Itinerary[d].Activities[a]
			query := fmt.Sprintf("%s %s", activity.Name, destination)
			g.Go(func() error {
				e.fill(gCtx, query, &activity.ImageURL)
				return nil
			})
		}
	}

	// Tasks swallow their own errors; Wait only rejoins the batch.
	_ = g.Wait()
}

// fill runs one search and writes the result into target. Each goroutine
// owns exactly one field, so no two writers ever share a target.
func (e *Enricher) fill(ctx context.Context, query string, target *string) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("image search panicked", "query", query, "recover", r)
		}
	}()

	url, err := e.searcher.Search(ctx, query)
	if err != nil {
		e.log.Warn("image search failed", "query", query, "err", err)
		return
	}
	if url == "" || strings.Contains(url, placeholderSentinel) {
		return
	}
	*target = url
}
