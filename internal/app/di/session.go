package di

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	authadapters "watchlist/internal/feature/auth/adapters"
	"watchlist/internal/feature/auth/usecase"
	"watchlist/internal/platform/session"
)

// NewSessionRepository creates a SessionRepository implementation.
// If Redis is available, it returns a Redis-backed implementation.
// Otherwise, it falls back to the sessions table.
func NewSessionRepository(rdb *redis.Client, db *gorm.DB) usecase.SessionRepository {
	if rdb != nil {
		return session.NewSessionRedis(rdb, "session")
	}
	return authadapters.NewSessionGorm(db)
}

// PurgeSessions removes expired and revoked rows from the sessions table.
// Redis expires its keys on its own, so nothing is done when rdb is set.
func PurgeSessions(ctx context.Context, rdb *redis.Client, db *gorm.DB) {
	if rdb != nil {
		return
	}
	n, err := authadapters.NewSessionGorm(db).DeleteExpired(ctx)
	if err != nil {
		slog.WarnContext(ctx, "failed to purge sessions", "error", err)
		return
	}
	if n > 0 {
		slog.InfoContext(ctx, "purged sessions", "count", n)
	}
}
