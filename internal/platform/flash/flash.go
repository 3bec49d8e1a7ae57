// Package flash carries one-shot status messages to the next rendered page
// in a signed cookie.
package flash

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"watchlist/internal/platform/token"
)

const (
	// CookieName is the name of the flash cookie.
	CookieName = "flash"

	cookieTTL  = 5 * time.Minute
	contextKey = "flash.messages"
)

type claims struct {
	Messages []string `json:"msgs"`
	jwt.RegisteredClaims
}

// Store reads and writes flash messages.
type Store struct {
	signer *token.Signer
	secure bool
}

// NewStore creates a Store that signs its cookie with signer.
func NewStore(signer *token.Signer, secure bool) *Store {
	return &Store{signer: signer, secure: secure}
}

// Add queues msg for the next page the client renders.
func (s *Store) Add(c *gin.Context, msg string) {
	msgs := append(s.pending(c), msg)
	c.Set(contextKey, msgs)

	value, err := s.signer.Sign(claims{Messages: msgs, RegisteredClaims: token.Expiry(cookieTTL)})
	if err != nil {
		_ = c.Error(err)
		return
	}
	s.setCookie(c, value, int(cookieTTL/time.Second))
}

// Pop returns the queued messages and clears them.
func (s *Store) Pop(c *gin.Context) []string {
	msgs := s.pending(c)
	c.Set(contextKey, []string{})
	if _, err := c.Cookie(CookieName); err == nil || len(msgs) > 0 {
		s.setCookie(c, "", -1)
	}
	return msgs
}

// pending returns the messages known for this request.
// Messages queued earlier in the request take precedence over the cookie.
func (s *Store) pending(c *gin.Context) []string {
	if v, ok := c.Get(contextKey); ok {
		if msgs, ok := v.([]string); ok {
			return append([]string(nil), msgs...)
		}
	}
	raw, err := c.Cookie(CookieName)
	if err != nil || raw == "" {
		return nil
	}
	var cl claims
	if err := s.signer.Parse(raw, &cl); err != nil {
		return nil
	}
	return cl.Messages
}

func (s *Store) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, value, maxAge, "/", "", s.secure, true)
}
