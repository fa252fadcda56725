package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// Store is the coordinate cache behind the resolver. A miss is (nil, nil),
// never an error.
type Store interface {
	Get(ctx context.Context, place string) (*Coordinate, error)
	Set(ctx context.Context, place string, coord Coordinate) error
}

// storeKey normalizes a place name into a cache key. The same normalization
// is applied on read and write, so "Paris", " paris " and "PARIS" share one
// entry.
func storeKey(place string) string {
	return "geo:" + strings.ToLower(strings.TrimSpace(place))
}

// ---- in-memory store ----

// MemoryStore keeps coordinates in a process-wide go-cache map. Entries never
// expire: the key space (distinct city names) stays small over the process
// lifetime.
type MemoryStore struct {
	c *gocache.Cache
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{c: gocache.New(gocache.NoExpiration, 0)}
}

func (s *MemoryStore) Get(_ context.Context, place string) (*Coordinate, error) {
	v, ok := s.c.Get(storeKey(place))
	if !ok {
		return nil, nil
	}
	coord := v.(Coordinate)
	return &coord, nil
}

func (s *MemoryStore) Set(_ context.Context, place string, coord Coordinate) error {
	s.c.Set(storeKey(place), coord, gocache.NoExpiration)
	return nil
}

// ---- Redis store ----

// RedisStore keeps coordinates in Redis as JSON so multiple instances share
// one geocode cache. A zero TTL stores entries without expiry.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore constructs a RedisStore with the given TTL.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Get(ctx context.Context, place string) (*Coordinate, error) {
	val, err := s.client.Get(ctx, storeKey(place)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("geo cache get for %s: %w", place, err)
	}

	var coord Coordinate
	if err := json.Unmarshal([]byte(val), &coord); err != nil {
		return nil, fmt.Errorf("unmarshaling cached coordinate for %s: %w", place, err)
	}

	return &coord, nil
}

func (s *RedisStore) Set(ctx context.Context, place string, coord Coordinate) error {
	b, err := json.Marshal(coord)
	if err != nil {
		return fmt.Errorf("marshaling coordinate for %s: %w", place, err)
	}

	if err := s.client.Set(ctx, storeKey(place), b, s.ttl).Err(); err != nil {
		return fmt.Errorf("geo cache set for %s: %w", place, err)
	}

	return nil
}

// Connect parses redisURL, creates a client, and verifies connectivity.
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}

	return client, nil
}
