package memory

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/enrollment-server/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

// UserRepository keeps users in process memory. Uniqueness of email and
// username is checked under the same lock as the insert.
type UserRepository struct {
	mu         sync.RWMutex
	users      map[uuid.UUID]model.User
	byEmail    map[string]uuid.UUID
	byUsername map[string]uuid.UUID
	now        func() time.Time
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		users:      make(map[uuid.UUID]model.User),
		byEmail:    make(map[string]uuid.UUID),
		byUsername: make(map[string]uuid.UUID),
		now:        time.Now,
	}
}

func (r *UserRepository) FindByEmailOrUsername(_ context.Context, email, username string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if id, ok := r.byEmail[email]; ok {
		return clone(r.users[id]), nil
	}
	if id, ok := r.byUsername[username]; ok {
		return clone(r.users[id]), nil
	}
	return model.User{}, model.ErrNotFound
}

func (r *UserRepository) Create(_ context.Context, user model.User) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[user.Email]; ok {
		return model.User{}, model.ErrConflict
	}
	if _, ok := r.byUsername[user.Username]; ok {
		return model.User{}, model.ErrConflict
	}

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := r.now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	r.users[user.ID] = clone(user)
	r.byEmail[user.Email] = user.ID
	r.byUsername[user.Username] = user.ID

	return clone(user), nil
}

func (r *UserRepository) GetByID(_ context.Context, id uuid.UUID) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return model.User{}, model.ErrNotFound
	}
	return clone(user), nil
}

func (r *UserRepository) GetByEmailVerificationToken(_ context.Context, digest []byte) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if len(user.EmailVerificationToken) > 0 && bytes.Equal(user.EmailVerificationToken, digest) {
			return clone(user), nil
		}
	}
	return model.User{}, model.ErrNotFound
}

func (r *UserRepository) SetEmailVerificationToken(_ context.Context, id uuid.UUID, digest []byte, expiresAt time.Time) error {
	return r.update(id, func(u *model.User) {
		u.EmailVerificationToken = bytes.Clone(digest)
		u.EmailVerificationExpiry = &expiresAt
	})
}

func (r *UserRepository) MarkEmailVerified(_ context.Context, id uuid.UUID, digest []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok || len(user.EmailVerificationToken) == 0 || !bytes.Equal(user.EmailVerificationToken, digest) {
		return model.ErrInvalidToken
	}

	user.IsEmailVerified = true
	user.EmailVerificationToken = nil
	user.EmailVerificationExpiry = nil
	user.UpdatedAt = r.now()
	r.users[id] = user

	return nil
}

func (r *UserRepository) SetRefreshTokenHash(_ context.Context, id uuid.UUID, digest []byte) error {
	return r.update(id, func(u *model.User) {
		u.RefreshTokenHash = bytes.Clone(digest)
	})
}

func (r *UserRepository) update(id uuid.UUID, fn func(u *model.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return model.ErrNotFound
	}

	fn(&user)
	user.UpdatedAt = r.now()
	r.users[id] = user

	return nil
}

func clone(u model.User) model.User {
	u.EmailVerificationToken = bytes.Clone(u.EmailVerificationToken)
	u.RefreshTokenHash = bytes.Clone(u.RefreshTokenHash)
	if u.EmailVerificationExpiry != nil {
		exp := *u.EmailVerificationExpiry
		u.EmailVerificationExpiry = &exp
	}
	return u
}
