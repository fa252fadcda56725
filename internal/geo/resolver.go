package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

const geocodeTimeout = 10 * time.Second

// Geocoder is the external place-name lookup. Implemented by GeocodeClient;
// tests substitute a stub.
type Geocoder interface {
	Geocode(ctx context.Context, place string) (*Coordinate, error)
}

// GeocodeClient queries a geoname-style endpoint:
// GET {base}?name=<place>&apikey=<key> -> {"lat": .., "lon": ..}.
type GeocodeClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewGeocodeClient constructs a GeocodeClient for the given endpoint.
func NewGeocodeClient(baseURL, apiKey string) *GeocodeClient {
	return &GeocodeClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: geocodeTimeout},
	}
}

type geonameResponse struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Geocode resolves a place name to a coordinate. An empty result (0,0) is
// treated as "not found".
func (c *GeocodeClient) Geocode(ctx context.Context, place string) (*Coordinate, error) {
	endpoint := c.baseURL + "?name=" + url.QueryEscape(place) + "&apikey=" + c.apiKey

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating geocode request for %s: %w", place, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocoding %s: %w", place, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoding %s returned status %d", place, resp.StatusCode)
	}

	var raw geonameResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding geocode response for %s: %w", place, err)
	}

	if raw.Lat == 0 && raw.Lon == 0 {
		return nil, nil
	}

	return &Coordinate{Latitude: raw.Lat, Longitude: raw.Lon}, nil
}

// Resolver resolves place names through a Store-backed cache.
type Resolver struct {
	geocoder Geocoder
	store    Store
	log      *slog.Logger
}

// NewResolver constructs a Resolver with an in-memory store.
func NewResolver(geocoder Geocoder, log *slog.Logger) *Resolver {
	return NewResolverWithStore(geocoder, NewMemoryStore(), log)
}

// NewResolverWithStore constructs a Resolver with an injected store.
func NewResolverWithStore(geocoder Geocoder, store Store, log *slog.Logger) *Resolver {
	return &Resolver{geocoder: geocoder, store: store, log: log}
}

// Resolve returns the coordinate for a place name, or nil when it cannot be
// resolved. Failures never poison the cache: only successful lookups are
// stored, so a later retry gets another chance at the geocoder.
func (r *Resolver) Resolve(ctx context.Context, place string) *Coordinate {
	cached, err := r.store.Get(ctx, place)
	if err != nil {
		r.log.Warn("geo cache get failed", "place", place, "err", err)
	}
	if cached != nil {
		return cached
	}

	coord, err := r.geocoder.Geocode(ctx, place)
	if err != nil {
		r.log.Warn("geocoding failed", "place", place, "err", err)
		return nil
	}
	if coord == nil {
		r.log.Warn("geocoder returned no result", "place", place)
		return nil
	}

	if err := r.store.Set(ctx, place, *coord); err != nil {
		r.log.Warn("geo cache set failed", "place", place, "err", err)
	}

	return coord
}
