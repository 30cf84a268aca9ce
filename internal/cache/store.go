package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sunil-gumatimath/wave-length/internal/middleware"
	"github.com/sunil-gumatimath/wave-length/internal/observability"
)

const (
	generationKey = "blog:gen"

	// DefaultTTL applies when NewStore is given a non-positive ttl.
	DefaultTTL = time.Minute
)

// Store is a read-through JSON cache whose keys are scoped by a generation counter.
// Bumping the generation makes every older entry unreachable, and they age out by TTL.
// A Store with a nil client is a pass-through.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore returns a Store backed by client. client may be nil.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{client: client, ttl: ttl}
}

// Enabled reports whether a Redis client is attached.
func (s *Store) Enabled() bool {
	return s != nil && s.client != nil
}

func PostListKey(gen int64) string {
	return fmt.Sprintf("blog:v%d:posts", gen)
}

func PostIDKey(gen int64, id uint) string {
	return fmt.Sprintf("blog:v%d:post:id:%d", gen, id)
}

func PostSlugKey(gen int64, slug string) string {
	return fmt.Sprintf("blog:v%d:post:slug:%s", gen, slug)
}

func CategoryListKey(gen int64) string {
	return fmt.Sprintf("blog:v%d:categories", gen)
}

// Generation returns the current cache generation. ok is false when the cache
// is disabled or unreachable, in which case callers skip it.
func (s *Store) Generation(ctx context.Context) (gen int64, ok bool) {
	if !s.Enabled() {
		return 0, false
	}
	gen, err := s.client.Get(ctx, generationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, true
	}
	if err != nil {
		observability.CacheLookups.WithLabelValues("error").Inc()
		middleware.Logger.WarnContext(ctx, "cache generation lookup failed", slog.String("error", err.Error()))
		return 0, false
	}
	return gen, true
}

// Invalidate bumps the generation so all cached views are refetched.
func (s *Store) Invalidate(ctx context.Context) {
	if !s.Enabled() {
		return
	}
	if err := s.client.Incr(ctx, generationKey).Err(); err != nil {
		middleware.Logger.WarnContext(ctx, "cache invalidation failed", slog.String("error", err.Error()))
	}
}

// GetJSON attempts to get the key from Redis and unmarshal into dest.
// Returns (true, nil) if found and unmarshaled, (false, nil) if not found.
func (s *Store) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if !s.Enabled() {
		return false, nil
	}
	b, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(b, dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON marshals v and sets the key with the store TTL.
func (s *Store) SetJSON(ctx context.Context, key string, v any) error {
	if !s.Enabled() {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, b, s.ttl).Err()
}

// Aside tries Redis first and on a miss calls fetch, which must populate dest.
// The result is stored only when fetch reports found. Cache failures are logged
// and fall through to fetch; fetch errors are returned unchanged.
func (s *Store) Aside(ctx context.Context, key string, dest any, fetch func() (bool, error)) (bool, error) {
	hit, err := s.GetJSON(ctx, key, dest)
	switch {
	case err != nil:
		observability.CacheLookups.WithLabelValues("error").Inc()
		middleware.Logger.WarnContext(ctx, "cache read failed", slog.String("key", key), slog.String("error", err.Error()))
	case hit:
		observability.CacheLookups.WithLabelValues("hit").Inc()
		return true, nil
	case s.Enabled():
		observability.CacheLookups.WithLabelValues("miss").Inc()
	}

	found, err := fetch()
	if err != nil || !found {
		return found, err
	}

	if err := s.SetJSON(ctx, key, dest); err != nil {
		middleware.Logger.WarnContext(ctx, "cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}
	return true, nil
}
