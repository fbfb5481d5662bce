package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/enrollment-server/internal/model"
)

// UserStore is a mock type for the UserStore type
type UserStore struct {
	mock.Mock
}

func (_m *UserStore) FindByEmailOrUsername(ctx context.Context, email string, username string) (model.User, error) {
	ret := _m.Called(ctx, email, username)
	return ret.Get(0).(model.User), ret.Error(1)
}

func (_m *UserStore) Create(ctx context.Context, user model.User) (model.User, error) {
	ret := _m.Called(ctx, user)
	if rf, ok := ret.Get(0).(func(context.Context, model.User) model.User); ok {
		return rf(ctx, user), ret.Error(1)
	}
	return ret.Get(0).(model.User), ret.Error(1)
}

func (_m *UserStore) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	ret := _m.Called(ctx, id)
	if rf, ok := ret.Get(0).(func(context.Context, uuid.UUID) model.User); ok {
		return rf(ctx, id), ret.Error(1)
	}
	return ret.Get(0).(model.User), ret.Error(1)
}

func (_m *UserStore) GetByEmailVerificationToken(ctx context.Context, digest []byte) (model.User, error) {
	ret := _m.Called(ctx, digest)
	return ret.Get(0).(model.User), ret.Error(1)
}

func (_m *UserStore) SetEmailVerificationToken(ctx context.Context, id uuid.UUID, digest []byte, expiresAt time.Time) error {
	ret := _m.Called(ctx, id, digest, expiresAt)
	return ret.Error(0)
}

func (_m *UserStore) MarkEmailVerified(ctx context.Context, id uuid.UUID, digest []byte) error {
	ret := _m.Called(ctx, id, digest)
	return ret.Error(0)
}

func (_m *UserStore) SetRefreshTokenHash(ctx context.Context, id uuid.UUID, digest []byte) error {
	ret := _m.Called(ctx, id, digest)
	return ret.Error(0)
}

// NewUserStore creates a new instance of UserStore. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewUserStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *UserStore {
	m := &UserStore{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
