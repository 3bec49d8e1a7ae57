package adapters

import (
	"time"
	"unicode/utf8"

	"gorm.io/gorm"

	"watchlist/internal/feature/auth/domain/entity"
)

// userAgentSize is the column width of sessions.user_agent.
const userAgentSize = 255

// SessionModel is a row of the sessions table. Rows exist only for the
// owner and only when sessions are not kept in Redis.
type SessionModel struct {
	ID        string     `gorm:"primaryKey;size:36"` // UUID issued at login
	UserID    uint       `gorm:"not null"`
	UserAgent string     `gorm:"size:255"`
	IPAddress string     `gorm:"size:45"`
	CreatedAt time.Time  `gorm:"not null"`
	ExpiresAt time.Time  `gorm:"index:idx_sessions_purge;not null"`
	RevokedAt *time.Time `gorm:"index:idx_sessions_purge"`
}

func (SessionModel) TableName() string {
	return "sessions"
}

// purgeable selects rows that can no longer authenticate anyone.
func purgeable(now time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("expires_at < ? OR revoked_at IS NOT NULL", now)
	}
}

func (m *SessionModel) session() *entity.Session {
	s := &entity.Session{
		ID:        m.ID,
		UserID:    m.UserID,
		UserAgent: m.UserAgent,
		IPAddress: m.IPAddress,
		CreatedAt: m.CreatedAt,
		ExpiresAt: m.ExpiresAt,
	}
	if m.RevokedAt != nil {
		revokedAt := *m.RevokedAt
		s.RevokedAt = &revokedAt
	}
	return s
}

// newSessionModel copies s into a row. Browsers may send user agents longer
// than the column, so the value is cut at a rune boundary.
func newSessionModel(s *entity.Session) *SessionModel {
	return &SessionModel{
		ID:        s.ID,
		UserID:    s.UserID,
		UserAgent: truncateRunes(s.UserAgent, userAgentSize),
		IPAddress: s.IPAddress,
		CreatedAt: s.CreatedAt,
		ExpiresAt: s.ExpiresAt,
		RevokedAt: s.RevokedAt,
	}
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
