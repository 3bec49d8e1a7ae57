package usecase

import (
	"context"

	"watchlist/internal/feature/auth/domain/entity"
)

// SessionRepository abstracts the persistence layer for session entities.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type SessionRepository interface {
	// Create persists a new session to the storage.
	Create(ctx context.Context, session *entity.Session) error

	// FindByID retrieves a session by its ID.
	// It returns ErrSessionNotFound when the session does not exist.
	FindByID(ctx context.Context, id string) (*entity.Session, error)

	// Revoke invalidates a session.
	// It returns ErrSessionNotFound when the session does not exist.
	Revoke(ctx context.Context, id string) error
}
