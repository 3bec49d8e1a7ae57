// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"watchlist/internal/feature/movie/domain/entity"
	"watchlist/internal/feature/movie/usecase"
)

// CachingMovieRepository decorates a MovieRepository with Redis caching.
// Cache keys embed a generation counter that every successful write bumps,
// so an entry filled from a read that raced with a write is never served.
type CachingMovieRepository struct {
	inner     usecase.MovieRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

// Compile-time check to ensure CachingMovieRepository implements MovieRepository.
var _ usecase.MovieRepository = (*CachingMovieRepository)(nil)

// NewCachingMovieRepository decorates a MovieRepository with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "movies".
// A nil rdb turns the decorator into a pass-through.
func NewCachingMovieRepository(rdb *redis.Client, ttl time.Duration, inner usecase.MovieRepository, namespace string) *CachingMovieRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "movies"
	}
	return &CachingMovieRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// List returns all movies, checking the cache first.
func (c *CachingMovieRepository) List(ctx context.Context) ([]entity.Movie, error) {
	gen, ok := c.generation(ctx)
	if !ok {
		return c.inner.List(ctx)
	}

	key := c.listKey(gen)
	var out []entity.Movie
	if c.get(ctx, key, &out) {
		return out, nil
	}

	out, err := c.inner.List(ctx)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, out)
	return out, nil
}

// FindByID returns a single movie, checking the cache first.
// Misses on the database are not cached.
func (c *CachingMovieRepository) FindByID(ctx context.Context, id uint) (*entity.Movie, error) {
	gen, ok := c.generation(ctx)
	if !ok {
		return c.inner.FindByID(ctx, id)
	}

	key := c.itemKey(gen, id)
	var cached entity.Movie
	if c.get(ctx, key, &cached) {
		return &cached, nil
	}

	m, err := c.inner.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, m)
	return m, nil
}

// Create inserts through the inner repository and invalidates the namespace.
func (c *CachingMovieRepository) Create(ctx context.Context, m *entity.Movie) error {
	if err := c.inner.Create(ctx, m); err != nil {
		return err
	}
	c.Invalidate(ctx)
	return nil
}

// Update writes through the inner repository and invalidates the namespace.
func (c *CachingMovieRepository) Update(ctx context.Context, m *entity.Movie) error {
	if err := c.inner.Update(ctx, m); err != nil {
		return err
	}
	c.Invalidate(ctx)
	return nil
}

// Delete removes through the inner repository and invalidates the namespace.
func (c *CachingMovieRepository) Delete(ctx context.Context, id uint) error {
	if err := c.inner.Delete(ctx, id); err != nil {
		return err
	}
	c.Invalidate(ctx)
	return nil
}

// get decodes the cached value into dst and reports whether it was a hit.
func (c *CachingMovieRepository) get(ctx context.Context, key string, dst any) bool {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil || len(b) == 0 {
		return false
	}
	if err := json.Unmarshal(b, dst); err != nil {
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
		return false
	}
	return true
}

// set stores v under key (best effort).
func (c *CachingMovieRepository) set(ctx context.Context, key string, v any) {
	if b, err := json.Marshal(v); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}
}

// generation returns the current cache generation. ok is false when Redis is
// disabled or unreachable, in which case the cache must be bypassed.
func (c *CachingMovieRepository) generation(ctx context.Context) (gen int64, ok bool) {
	if c.rdb == nil {
		return 0, false
	}
	gen, err := c.rdb.Get(ctx, c.genKey()).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, true
	}
	if err != nil {
		slog.WarnContext(ctx, "movie cache generation unavailable", "namespace", c.namespace, "error", err)
		return 0, false
	}
	return gen, true
}

// Invalidate moves readers to a new generation. Writes through the
// repository call it; callers that write around it must call it themselves. Entries of older generations
// are left to expire. When the counter cannot be bumped the namespace is
// deleted instead.
func (c *CachingMovieRepository) Invalidate(ctx context.Context) {
	if c.rdb == nil {
		return
	}
	err := c.rdb.Incr(ctx, c.genKey()).Err()
	if err == nil {
		return
	}
	slog.WarnContext(ctx, "movie cache generation bump failed", "namespace", c.namespace, "error", err)
	if err := c.deleteByPattern(ctx, safe(c.namespace)+":g[0-9]*"); err != nil {
		slog.WarnContext(ctx, "movie cache invalidation failed", "namespace", c.namespace, "error", err)
	}
}

func (c *CachingMovieRepository) genKey() string {
	return fmt.Sprintf("%s:gen", safe(c.namespace))
}

func (c *CachingMovieRepository) listKey(gen int64) string {
	return fmt.Sprintf("%s:g%d:list", safe(c.namespace), gen)
}

func (c *CachingMovieRepository) itemKey(gen int64, id uint) string {
	return fmt.Sprintf("%s:g%d:id:%d", safe(c.namespace), gen, id)
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingMovieRepository) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
