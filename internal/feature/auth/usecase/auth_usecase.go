package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"watchlist/internal/feature/auth/domain/entity"
)

// defaultOwnerName is used when the admin command creates the owner without a name.
const defaultOwnerName = "Admin"

// dummyHash keeps Login's cost constant when no owner exists.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// OwnerRepository abstracts storage of the single owner record.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type OwnerRepository interface {
	// Get returns the owner, or ErrOwnerNotFound when none exists.
	Get(ctx context.Context) (*entity.User, error)

	// Save creates or replaces the owner at entity.OwnerID.
	Save(ctx context.Context, user *entity.User) error
}

// AuthUsecase implements login, logout and session checks for the owner.
type AuthUsecase struct {
	owners     OwnerRepository
	sessions   SessionRepository
	sessionTTL time.Duration
	now        func() time.Time
}

// NewAuthUsecase creates an AuthUsecase whose sessions live for sessionTTL.
func NewAuthUsecase(owners OwnerRepository, sessions SessionRepository, sessionTTL time.Duration) *AuthUsecase {
	return &AuthUsecase{
		owners:     owners,
		sessions:   sessions,
		sessionTTL: sessionTTL,
		now:        time.Now,
	}
}

// Owner returns the owner, or nil when none has been created yet.
func (u *AuthUsecase) Owner(ctx context.Context) (*entity.User, error) {
	owner, err := u.owners.Get(ctx)
	if errors.Is(err, ErrOwnerNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return owner, nil
}

// Login checks the credentials against the owner and opens a new session.
// A bcrypt comparison always runs so that a missing owner is not observable through timing.
func (u *AuthUsecase) Login(ctx context.Context, userName, password, userAgent, ip string) (*entity.Session, error) {
	owner, err := u.owners.Get(ctx)
	if err != nil && !errors.Is(err, ErrOwnerNotFound) {
		return nil, err
	}

	if owner == nil || owner.PasswordHash == "" {
		_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
		return nil, ErrInvalidCredentials
	}
	validPassword := owner.ValidatePassword(password)
	if owner.UserName != userName || !validPassword {
		return nil, ErrInvalidCredentials
	}

	now := u.now()
	session := &entity.Session{
		ID:        uuid.NewString(),
		UserID:    owner.ID,
		UserAgent: userAgent,
		IPAddress: ip,
		CreatedAt: now,
		ExpiresAt: now.Add(u.sessionTTL),
	}
	if err := u.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}

// Logout revokes the session. Unknown sessions are ignored.
func (u *AuthUsecase) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	err := u.sessions.Revoke(ctx, sessionID)
	if err != nil && !errors.Is(err, ErrSessionNotFound) {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

// Authenticate resolves a session ID to the owner.
// It returns ErrAuthRequired for unknown, expired or revoked sessions.
func (u *AuthUsecase) Authenticate(ctx context.Context, sessionID string) (*entity.User, error) {
	if sessionID == "" {
		return nil, ErrAuthRequired
	}
	session, err := u.sessions.FindByID(ctx, sessionID)
	if errors.Is(err, ErrSessionNotFound) {
		return nil, ErrAuthRequired
	}
	if err != nil {
		return nil, err
	}
	if !session.IsValid() {
		return nil, ErrAuthRequired
	}

	owner, err := u.owners.Get(ctx)
	if errors.Is(err, ErrOwnerNotFound) {
		return nil, ErrAuthRequired
	}
	if err != nil {
		return nil, err
	}
	if owner.ID != session.UserID {
		return nil, ErrAuthRequired
	}
	return owner, nil
}

// SetupOwner creates the owner or updates its credentials.
// created reports whether a new record was written. An empty name keeps the current one.
func (u *AuthUsecase) SetupOwner(ctx context.Context, userName, password, name string) (created bool, err error) {
	if err := checkOwnerFields(userName, password, name); err != nil {
		return false, err
	}
	owner, err := u.owners.Get(ctx)
	switch {
	case errors.Is(err, ErrOwnerNotFound):
		created = true
		if name == "" {
			name = defaultOwnerName
		}
		owner = &entity.User{ID: entity.OwnerID, Name: name}
	case err != nil:
		return false, err
	case name != "":
		owner.Name = name
	}

	owner.UserName = userName
	if err := owner.SetPassword(password); err != nil {
		return false, err
	}
	if err := u.owners.Save(ctx, owner); err != nil {
		return false, fmt.Errorf("failed to save owner: %w", err)
	}
	return created, nil
}

// Field limits match the login form and the user table columns.
const (
	maxUserNameLen = 20
	maxNameLen     = 20
	maxPasswordLen = 60
)

// checkOwnerFields rejects values the login form could never submit.
// name may be empty; the others are required and must not be blank.
func checkOwnerFields(userName, password, name string) error {
	switch {
	case strings.TrimSpace(userName) == "":
		return fmt.Errorf("%w: user name is required", ErrInvalidOwner)
	case utf8.RuneCountInString(userName) > maxUserNameLen:
		return fmt.Errorf("%w: user name must be at most %d characters", ErrInvalidOwner, maxUserNameLen)
	case strings.TrimSpace(password) == "":
		return fmt.Errorf("%w: password is required", ErrInvalidOwner)
	case utf8.RuneCountInString(password) > maxPasswordLen:
		return fmt.Errorf("%w: password must be at most %d characters", ErrInvalidOwner, maxPasswordLen)
	case utf8.RuneCountInString(name) > maxNameLen:
		return fmt.Errorf("%w: name must be at most %d characters", ErrInvalidOwner, maxNameLen)
	}
	return nil
}

// SeedOwner creates a credential-less owner named name when none exists.
// An existing owner is left untouched.
func (u *AuthUsecase) SeedOwner(ctx context.Context, name string) (created bool, err error) {
	_, err = u.owners.Get(ctx)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, ErrOwnerNotFound) {
		return false, err
	}
	if err := u.owners.Save(ctx, &entity.User{ID: entity.OwnerID, Name: name}); err != nil {
		return false, fmt.Errorf("failed to save owner: %w", err)
	}
	return true, nil
}
