package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"watchlist/internal/feature/auth/domain/entity"
	"watchlist/internal/platform/token"
)

// SessionCookieName is the name of the cookie that carries the signed session ID.
const SessionCookieName = "session"

type sessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// SessionCookie writes and reads the signed session cookie.
type SessionCookie struct {
	signer *token.Signer
	secure bool
}

// NewSessionCookie creates a SessionCookie.
func NewSessionCookie(signer *token.Signer, secure bool) *SessionCookie {
	return &SessionCookie{signer: signer, secure: secure}
}

// Set issues the cookie for session. It expires together with the session.
func (s *SessionCookie) Set(c *gin.Context, session *entity.Session) error {
	ttl := time.Until(session.ExpiresAt)
	value, err := s.signer.Sign(sessionClaims{
		SessionID: session.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(session.UserID), 10),
			IssuedAt:  jwt.NewNumericDate(session.CreatedAt),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
	})
	if err != nil {
		return err
	}
	s.write(c, value, int(ttl/time.Second))
	return nil
}

// Get returns the session ID from the request cookie.
// present reports whether a cookie was sent at all, even one that failed verification.
func (s *SessionCookie) Get(c *gin.Context) (sessionID string, present bool) {
	raw, err := c.Cookie(SessionCookieName)
	if err != nil || raw == "" {
		return "", false
	}
	var claims sessionClaims
	if err := s.signer.Parse(raw, &claims); err != nil {
		return "", true
	}
	return claims.SessionID, true
}

// Clear expires the cookie on the client.
func (s *SessionCookie) Clear(c *gin.Context) {
	s.write(c, "", -1)
}

func (s *SessionCookie) write(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, value, maxAge, "/", "", s.secure, true)
}
