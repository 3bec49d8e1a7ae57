// Package handler provides the HTTP handlers and middleware of the auth feature.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"watchlist/internal/feature/auth/domain/entity"
	"watchlist/internal/feature/auth/transport/http/dto"
	"watchlist/internal/feature/auth/usecase"
	"watchlist/internal/platform/flash"
	"watchlist/internal/platform/form"
	"watchlist/internal/platform/view"
)

// AuthUsecase defines the login and logout operations.
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type AuthUsecase interface {
	Login(ctx context.Context, userName, password, userAgent, ip string) (*entity.Session, error)
	Logout(ctx context.Context, sessionID string) error
}

// AuthHandler serves the login and logout pages.
type AuthHandler struct {
	auth     AuthUsecase
	cookies  *SessionCookie
	flashes  *flash.Store
	renderer *view.Renderer
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth AuthUsecase, cookies *SessionCookie, flashes *flash.Store, renderer *view.Renderer) *AuthHandler {
	return &AuthHandler{auth: auth, cookies: cookies, flashes: flashes, renderer: renderer}
}

// LoginPage renders the login form.
func (h *AuthHandler) LoginPage(c *gin.Context) {
	h.renderer.HTML(c, http.StatusOK, view.PageLogin, nil)
}

// Login checks the submitted credentials.
// - Validation failure flashes "Invalid input." and redirects back
// - Wrong credentials flash "Incorrect username or password." and redirect back
// - Success sets the session cookie and redirects to the index
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginForm
	if err := form.Bind(c, &req); err != nil {
		slog.Debug("login validation failed", "error", err, "remote_addr", c.ClientIP())
		h.flashes.Add(c, "Invalid input.")
		c.Redirect(http.StatusFound, "/login")
		return
	}

	session, err := h.auth.Login(c.Request.Context(), req.UserName, req.Password, c.Request.UserAgent(), c.ClientIP())
	if errors.Is(err, usecase.ErrInvalidCredentials) {
		// The reason is not exposed to avoid account enumeration
		slog.Warn("login failed", "user_name", req.UserName, "remote_addr", c.ClientIP())
		h.flashes.Add(c, "Incorrect username or password.")
		c.Redirect(http.StatusFound, "/login")
		return
	}
	if err != nil {
		slog.Error("login error", "error", err, "remote_addr", c.ClientIP())
		h.renderer.InternalError(c)
		return
	}

	if err := h.cookies.Set(c, session); err != nil {
		slog.Error("failed to set session cookie", "error", err)
		h.renderer.InternalError(c)
		return
	}
	slog.Info("owner login successful", "user_name", req.UserName, "remote_addr", c.ClientIP())
	h.flashes.Add(c, "Login success.")
	c.Redirect(http.StatusFound, "/")
}

// Logout revokes the current session and clears the cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	sid := c.GetString(ContextSessionID)
	if err := h.auth.Logout(c.Request.Context(), sid); err != nil {
		slog.Error("logout error", "error", err, "remote_addr", c.ClientIP())
		h.renderer.InternalError(c)
		return
	}
	h.cookies.Clear(c)
	h.flashes.Add(c, "GoodBye.")
	c.Redirect(http.StatusFound, "/")
}
