// Package storage provides the Postgres persistence for generated trips.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wanderplan/wanderplan/internal/trip"
)

// Querier abstracts the subset of pgxpool.Pool used by TripStore.
// This allows injection of a mock in tests.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// TripStore persists generated itineraries keyed by search hash. Writes are
// append-only: a regeneration inserts a new row, so history is retained and
// there is no read-modify-write to guard.
type TripStore struct {
	q      Querier
	window time.Duration
}

// NewTripStore constructs a TripStore backed by the given pool. window is the
// freshness window applied by FindFresh.
func NewTripStore(pool *pgxpool.Pool, window time.Duration) *TripStore {
	return &TripStore{q: pool, window: window}
}

// NewTripStoreWithQuerier constructs a TripStore with a custom Querier (for tests).
func NewTripStoreWithQuerier(q Querier, window time.Duration) *TripStore {
	return &TripStore{q: q, window: window}
}

const recordColumns = `id, search_hash, origin, destination, duration, budget, trip_data, source, created_at`

func scanRecord(row pgx.Row) (*trip.Record, error) {
	var rec trip.Record
	var planJSON []byte

	err := row.Scan(
		&rec.ID,
		&rec.SearchHash,
		&rec.Origin,
		&rec.Destination,
		&rec.Duration,
		&rec.Budget,
		&planJSON,
		&rec.Source,
		&rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(planJSON, &rec.Plan); err != nil {
		return nil, fmt.Errorf("unmarshaling trip data for record %s: %w", rec.ID, err)
	}

	return &rec, nil
}

// FindFresh returns the newest record for the hash created inside the
// freshness window ending at asOf, or nil when none qualifies. Stale records
// are not deleted; they just stop being served.
func (s *TripStore) FindFresh(ctx context.Context, searchHash string, asOf time.Time) (*trip.Record, error) {
	const q = `
		SELECT ` + recordColumns + `
		FROM trips
		WHERE search_hash = $1
		AND created_at > $2
		ORDER BY created_at DESC
		LIMIT 1
	`

	cutoff := asOf.Add(-s.window)

	rec, err := scanRecord(s.q.QueryRow(ctx, q, searchHash, cutoff))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying fresh trip for hash %s: %w", searchHash, err)
	}

	return rec, nil
}

// Create inserts a new immutable record and returns it with its assigned ID
// and creation timestamp.
func (s *TripStore) Create(ctx context.Context, rec *trip.Record) (*trip.Record, error) {
	planJSON, err := json.Marshal(rec.Plan)
	if err != nil {
		return nil, fmt.Errorf("marshaling trip data: %w", err)
	}

	const q = `
		INSERT INTO trips (id, search_hash, origin, destination, duration, budget, trip_data, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`

	created := *rec
	created.ID = uuid.NewString()
	if created.Source == "" {
		created.Source = "ai"
	}

	err = s.q.QueryRow(ctx, q,
		created.ID,
		created.SearchHash,
		created.Origin,
		created.Destination,
		created.Duration,
		created.Budget,
		planJSON,
		created.Source,
	).Scan(&created.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting trip for hash %s: %w", created.SearchHash, err)
	}

	return &created, nil
}

// GetByID returns a single record by its identifier, nil when unknown.
func (s *TripStore) GetByID(ctx context.Context, id string) (*trip.Record, error) {
	const q = `
		SELECT ` + recordColumns + `
		FROM trips
		WHERE id = $1
	`

	rec, err := scanRecord(s.q.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying trip %s: %w", id, err)
	}

	return rec, nil
}

// ListByDestination returns recent records for a destination, newest first.
// Backs the trip-history view.
func (s *TripStore) ListByDestination(ctx context.Context, destination string, limit int) ([]*trip.Record, error) {
	if limit <= 0 {
		limit = 20
	}

	const q = `
		SELECT ` + recordColumns + `
		FROM trips
		WHERE LOWER(destination) = LOWER($1)
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := s.q.Query(ctx, q, destination, limit)
	if err != nil {
		return nil, fmt.Errorf("querying trips for destination %s: %w", destination, err)
	}
	defer rows.Close()

	var results []*trip.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning trip row: %w", err)
		}
		results = append(results, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating trip rows: %w", err)
	}

	return results, nil
}
