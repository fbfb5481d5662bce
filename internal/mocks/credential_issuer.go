package mocks

import (
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/enrollment-server/internal/model"
)

// CredentialIssuer is a mock type for the CredentialIssuer type
type CredentialIssuer struct {
	mock.Mock
}

func (_m *CredentialIssuer) Issue(userID uuid.UUID) (model.CredentialPair, error) {
	ret := _m.Called(userID)
	return ret.Get(0).(model.CredentialPair), ret.Error(1)
}

func (_m *CredentialIssuer) ParseAccessToken(token string) (uuid.UUID, error) {
	ret := _m.Called(token)
	return ret.Get(0).(uuid.UUID), ret.Error(1)
}

func (_m *CredentialIssuer) ParseRefreshToken(token string) (uuid.UUID, string, error) {
	ret := _m.Called(token)
	return ret.Get(0).(uuid.UUID), ret.String(1), ret.Error(2)
}

// NewCredentialIssuer creates a new instance of CredentialIssuer. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewCredentialIssuer(t interface {
	mock.TestingT
	Cleanup(func())
}) *CredentialIssuer {
	m := &CredentialIssuer{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
