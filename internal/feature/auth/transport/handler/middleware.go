package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"watchlist/internal/feature/auth/domain/entity"
	"watchlist/internal/feature/auth/usecase"
	"watchlist/internal/platform/flash"
	"watchlist/internal/platform/view"
)

// ContextSessionID is the gin context key holding the current session ID.
const ContextSessionID = "auth.session_id"

// SessionAuthenticator resolves the caller of a request.
type SessionAuthenticator interface {
	Authenticate(ctx context.Context, sessionID string) (*entity.User, error)
	Owner(ctx context.Context) (*entity.User, error)
}

// LoadSession identifies the caller from the session cookie and exposes the
// owner to the views. It never rejects a request.
func LoadSession(auth SessionAuthenticator, cookies *SessionCookie) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		if sid, present := cookies.Get(c); present {
			owner, err := auth.Authenticate(ctx, sid)
			switch {
			case err == nil:
				c.Set(ContextSessionID, sid)
				c.Set(view.KeyOwner, owner)
				c.Set(view.KeyAuthenticated, true)
				c.Next()
				return
			case errors.Is(err, usecase.ErrAuthRequired):
				cookies.Clear(c)
			default:
				slog.ErrorContext(ctx, "session lookup failed", "error", err)
			}
		}

		c.Set(view.KeyAuthenticated, false)
		owner, err := auth.Owner(ctx)
		if err != nil {
			slog.ErrorContext(ctx, "owner lookup failed", "error", err)
		} else if owner != nil {
			c.Set(view.KeyOwner, owner)
		}
		c.Next()
	}
}

// AuthRequired stops anonymous requests with a "Please Login." flash and a
// redirect to the login page. It must run after LoadSession.
func AuthRequired(flashes *flash.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetBool(view.KeyAuthenticated) {
			c.Next()
			return
		}
		flashes.Add(c, "Please Login.")
		c.Redirect(http.StatusFound, "/login")
		c.Abort()
	}
}
