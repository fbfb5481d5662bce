package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/enrollment-server/internal/model"
)

// RegistrationService is a mock type for the RegistrationService type
type RegistrationService struct {
	mock.Mock
}

func (_m *RegistrationService) Register(ctx context.Context, params model.RegisterParams) (model.RegisterResult, error) {
	ret := _m.Called(ctx, params)
	return ret.Get(0).(model.RegisterResult), ret.Error(1)
}

// NewRegistrationService creates a new instance of RegistrationService. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewRegistrationService(t interface {
	mock.TestingT
	Cleanup(func())
}) *RegistrationService {
	m := &RegistrationService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// EmailVerificationService is a mock type for the EmailVerificationService type
type EmailVerificationService struct {
	mock.Mock
}

func (_m *EmailVerificationService) VerifyEmail(ctx context.Context, presented string) (model.VerifyEmailResult, error) {
	ret := _m.Called(ctx, presented)
	return ret.Get(0).(model.VerifyEmailResult), ret.Error(1)
}

// NewEmailVerificationService creates a new instance of EmailVerificationService. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewEmailVerificationService(t interface {
	mock.TestingT
	Cleanup(func())
}) *EmailVerificationService {
	m := &EmailVerificationService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// UserService is a mock type for the UserService type
type UserService struct {
	mock.Mock
}

func (_m *UserService) Get(ctx context.Context, id uuid.UUID) (model.PublicUser, error) {
	ret := _m.Called(ctx, id)
	return ret.Get(0).(model.PublicUser), ret.Error(1)
}

// NewUserService creates a new instance of UserService. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewUserService(t interface {
	mock.TestingT
	Cleanup(func())
}) *UserService {
	m := &UserService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// TokenService is a mock type for the TokenService type
type TokenService struct {
	mock.Mock
}

func (_m *TokenService) GetUserID(ctx context.Context, token string) (uuid.UUID, error) {
	ret := _m.Called(ctx, token)
	return ret.Get(0).(uuid.UUID), ret.Error(1)
}

// NewTokenService creates a new instance of TokenService. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewTokenService(t interface {
	mock.TestingT
	Cleanup(func())
}) *TokenService {
	m := &TokenService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
