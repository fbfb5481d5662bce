package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dtroode/enrollment-server/internal/model"
)

// Users exposes read access to user profiles.
type Users struct {
	store model.UserStore
}

func NewUsers(store model.UserStore) *Users {
	return &Users{store: store}
}

func (s *Users) Get(ctx context.Context, id uuid.UUID) (model.PublicUser, error) {
	user, err := s.store.GetByID(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return model.PublicUser{}, model.ErrNotFound
	}
	if err != nil {
		return model.PublicUser{}, fmt.Errorf("%w: failed to get user: %w", model.ErrStorage, err)
	}
	return user.Sanitize(), nil
}
