package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/enrollment-server/internal/model"
)

func TestUserRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	created, err := repo.Create(ctx, model.User{Email: "a@x.com", Username: "alice", PasswordHash: "h"})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	_, err = repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestUserRepository_Uniqueness(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	_, err := repo.Create(ctx, model.User{Email: "a@x.com", Username: "alice"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, model.User{Email: "a@x.com", Username: "bob"})
	assert.ErrorIs(t, err, model.ErrConflict)

	_, err = repo.Create(ctx, model.User{Email: "b@x.com", Username: "alice"})
	assert.ErrorIs(t, err, model.ErrConflict)
}

func TestUserRepository_ConcurrentCreate(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	const workers = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Create(ctx, model.User{Email: "a@x.com", Username: uuid.NewString()})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case assert.ErrorIs(t, err, model.ErrConflict):
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, workers-1, conflicts)
}

func TestUserRepository_FindByEmailOrUsername(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	created, err := repo.Create(ctx, model.User{Email: "a@x.com", Username: "alice"})
	require.NoError(t, err)

	byEmail, err := repo.FindByEmailOrUsername(ctx, "a@x.com", "other")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	byUsername, err := repo.FindByEmailOrUsername(ctx, "other@x.com", "alice")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byUsername.ID)

	_, err = repo.FindByEmailOrUsername(ctx, "none@x.com", "none")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestUserRepository_VerificationLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	created, err := repo.Create(ctx, model.User{Email: "a@x.com", Username: "alice"})
	require.NoError(t, err)

	digest := []byte{1, 2, 3}
	expiresAt := time.Now().Add(time.Hour).UTC()
	require.NoError(t, repo.SetEmailVerificationToken(ctx, created.ID, digest, expiresAt))

	// mutating the caller's slice must not reach the stored copy
	digest[0] = 9

	found, err := repo.GetByEmailVerificationToken(ctx, []byte{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	require.NotNil(t, found.EmailVerificationExpiry)
	assert.True(t, expiresAt.Equal(*found.EmailVerificationExpiry))

	assert.ErrorIs(t, repo.MarkEmailVerified(ctx, created.ID, []byte{4, 5, 6}), model.ErrInvalidToken)
	require.NoError(t, repo.MarkEmailVerified(ctx, created.ID, []byte{1, 2, 3}))
	assert.ErrorIs(t, repo.MarkEmailVerified(ctx, created.ID, []byte{1, 2, 3}), model.ErrInvalidToken)

	verified, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, verified.IsEmailVerified)
	assert.Nil(t, verified.EmailVerificationToken)
	assert.Nil(t, verified.EmailVerificationExpiry)

	_, err = repo.GetByEmailVerificationToken(ctx, []byte{1, 2, 3})
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestUserRepository_MarkEmailVerified_ConsumesOnce(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	created, err := repo.Create(ctx, model.User{Email: "a@x.com", Username: "alice"})
	require.NoError(t, err)
	digest := []byte("digest")
	require.NoError(t, repo.SetEmailVerificationToken(ctx, created.ID, digest, time.Now().Add(time.Hour)))

	const workers = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		consumed int
		rejected int
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := repo.MarkEmailVerified(ctx, created.ID, digest)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				consumed++
			} else if errors.Is(err, model.ErrInvalidToken) {
				rejected++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, consumed)
	assert.Equal(t, workers-1, rejected)
}

func TestUserRepository_SetRefreshTokenHash(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	created, err := repo.Create(ctx, model.User{Email: "a@x.com", Username: "alice"})
	require.NoError(t, err)

	require.NoError(t, repo.SetRefreshTokenHash(ctx, created.ID, []byte("digest")))

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("digest"), got.RefreshTokenHash)

	assert.ErrorIs(t, repo.SetRefreshTokenHash(ctx, uuid.New(), nil), model.ErrNotFound)
	assert.ErrorIs(t, repo.MarkEmailVerified(ctx, uuid.New(), []byte("digest")), model.ErrInvalidToken)
}
