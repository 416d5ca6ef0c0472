package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gpdecorators/site/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseSessionRepository runs the behaviour every SessionRepository must share.
func exerciseSessionRepository(t *testing.T, repo SessionRepository) {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	live := &model.Session{
		Token:     uuid.NewString(),
		Email:     "owner@gpdecorators.in",
		Name:      "Owner",
		Provider:  "google",
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}
	stale := &model.Session{
		Token:     uuid.NewString(),
		Email:     "old@gpdecorators.in",
		Name:      "Old",
		Provider:  "github",
		CreatedAt: now.Add(-48 * time.Hour),
		ExpiresAt: now.Add(-time.Hour),
	}
	require.NoError(t, repo.Create(ctx, live))
	require.NoError(t, repo.Create(ctx, stale))
	t.Cleanup(func() {
		_ = repo.DeleteByToken(ctx, live.Token)
		_ = repo.DeleteByToken(ctx, stale.Token)
	})

	got, err := repo.FindByToken(ctx, live.Token)
	require.NoError(t, err)
	assert.Equal(t, live.Email, got.Email)
	assert.Equal(t, "google", got.Provider)
	assert.True(t, got.ExpiresAt.Equal(live.ExpiresAt))

	_, err = repo.FindByToken(ctx, "missing-token")
	assert.ErrorIs(t, err, ErrNotFound)

	n, err := repo.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, int64(1))
	_, err = repo.FindByToken(ctx, stale.Token)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, repo.DeleteByToken(ctx, live.Token))
	_, err = repo.FindByToken(ctx, live.Token)
	assert.ErrorIs(t, err, ErrNotFound)

	// deleting twice is not an error
	assert.NoError(t, repo.DeleteByToken(ctx, live.Token))
}

func TestMemorySessionRepository(t *testing.T) {
	exerciseSessionRepository(t, NewMemorySessionRepository())
}

func TestMemorySessionRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemorySessionRepository()
	require.NoError(t, repo.Create(ctx, &model.Session{Token: "t1", Email: "a@b.c", ExpiresAt: time.Now().Add(time.Hour)}))

	got, err := repo.FindByToken(ctx, "t1")
	require.NoError(t, err)
	got.Email = "changed@b.c"

	again, err := repo.FindByToken(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "a@b.c", again.Email)
}

// TestPgSessionRepository needs a migrated database in TEST_DATABASE_URL.
func TestPgSessionRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	pool, err := NewPool(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	exerciseSessionRepository(t, NewPgSessionRepository(pool))
}
