package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"watchlist/internal/feature/auth/domain/entity"
	"watchlist/internal/feature/auth/usecase"
)

// setupTestRedis creates a miniredis instance for testing.
func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err, "failed to start miniredis")

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	t.Cleanup(func() {
		_ = client.Close()
		mr.Close()
	})

	return client, mr
}

// createTestSession creates a session entity for testing.
func createTestSession(id string, expiresIn time.Duration) *entity.Session {
	now := time.Now()
	return &entity.Session{
		ID:        id,
		UserID:    entity.OwnerID,
		UserAgent: "test-agent",
		IPAddress: "127.0.0.1",
		CreatedAt: now,
		ExpiresAt: now.Add(expiresIn),
	}
}

func TestSessionRedis_Create(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		session *entity.Session
		wantErr bool
	}{
		{
			name:    "success: create session",
			session: createTestSession("session-001", 24*time.Hour),
		},
		{
			name:    "failure: expired session",
			session: createTestSession("expired-session", -time.Hour),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client, mr := setupTestRedis(t)
			repo := NewSessionRedis(client, "session")

			err := repo.Create(context.Background(), tt.session)

			if tt.wantErr {
				assert.Error(t, err)
				assert.False(t, mr.Exists(repo.sessionKey(tt.session.ID)))
				return
			}
			require.NoError(t, err)
			assert.True(t, mr.Exists("session:"+tt.session.ID))
			ttl := mr.TTL("session:" + tt.session.ID)
			assert.Greater(t, ttl, 23*time.Hour)
			assert.LessOrEqual(t, ttl, 24*time.Hour)
		})
	}
}

func TestSessionRedis_Create_Duplicate(t *testing.T) {
	t.Parallel()

	client, _ := setupTestRedis(t)
	repo := NewSessionRedis(client, "session")
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, createTestSession("dup", time.Hour)))
	assert.Error(t, repo.Create(ctx, createTestSession("dup", time.Hour)))
}

func TestSessionRedis_FindByID(t *testing.T) {
	t.Parallel()

	client, _ := setupTestRedis(t)
	repo := NewSessionRedis(client, "session")
	ctx := context.Background()

	want := createTestSession("find-me", time.Hour)
	require.NoError(t, repo.Create(ctx, want))

	got, err := repo.FindByID(ctx, "find-me")
	require.NoError(t, err)
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.UserID, got.UserID)
	assert.Equal(t, want.UserAgent, got.UserAgent)
	assert.True(t, want.ExpiresAt.Equal(got.ExpiresAt))
	assert.True(t, got.IsValid())

	_, err = repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, usecase.ErrSessionNotFound)
}

func TestSessionRedis_FindByID_Expired(t *testing.T) {
	t.Parallel()

	client, mr := setupTestRedis(t)
	repo := NewSessionRedis(client, "session")
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, createTestSession("short", time.Minute)))
	mr.FastForward(2 * time.Minute)

	_, err := repo.FindByID(ctx, "short")
	assert.ErrorIs(t, err, usecase.ErrSessionNotFound)
}

func TestSessionRedis_FindByID_Corrupted(t *testing.T) {
	t.Parallel()

	client, mr := setupTestRedis(t)
	repo := NewSessionRedis(client, "session")
	require.NoError(t, mr.Set("session:bad", "not-json"))

	_, err := repo.FindByID(context.Background(), "bad")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, usecase.ErrSessionNotFound)
}

func TestSessionRedis_Revoke(t *testing.T) {
	t.Parallel()

	client, mr := setupTestRedis(t)
	repo := NewSessionRedis(client, "session")
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, createTestSession("revoke-me", time.Hour)))

	require.NoError(t, repo.Revoke(ctx, "revoke-me"))
	assert.False(t, mr.Exists("session:revoke-me"))

	assert.ErrorIs(t, repo.Revoke(ctx, "revoke-me"), usecase.ErrSessionNotFound)
}

func TestSessionRedis_ConnectionError(t *testing.T) {
	t.Parallel()

	client, mr := setupTestRedis(t)
	repo := NewSessionRedis(client, "session")
	mr.Close()

	_, err := repo.FindByID(context.Background(), "any")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, usecase.ErrSessionNotFound)
}
