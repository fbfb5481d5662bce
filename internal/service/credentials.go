package service

import (
	"context"
	"crypto/sha256"
	"fmt"

	"github.com/google/uuid"

	"github.com/dtroode/enrollment-server/internal/logger"
	"github.com/dtroode/enrollment-server/internal/model"
)

// Credentials issues access/refresh pairs and remembers the digest of the
// latest refresh token on the user record.
type Credentials struct {
	issuer model.CredentialIssuer
	users  model.UserStore
	logger *logger.Logger
}

func NewCredentials(issuer model.CredentialIssuer, users model.UserStore, logger *logger.Logger) *Credentials {
	return &Credentials{issuer: issuer, users: users, logger: logger}
}

// Establish issues a new credential pair for userID. A signing failure is
// returned as is and never degrades to an unsigned token.
func (s *Credentials) Establish(ctx context.Context, userID uuid.UUID) (model.CredentialPair, error) {
	pair, err := s.issuer.Issue(userID)
	if err != nil {
		s.logger.Error("Credentials service: failed to issue credentials",
			"user_id", userID,
			"error", err.Error())
		return model.CredentialPair{}, fmt.Errorf("issue credentials: %w", err)
	}

	if err := s.users.SetRefreshTokenHash(ctx, userID, hashRefresh(pair.RefreshToken)); err != nil {
		s.logger.Error("Credentials service: failed to persist refresh token",
			"user_id", userID,
			"error", err.Error())
		return model.CredentialPair{}, fmt.Errorf("%w: persist refresh: %w", model.ErrStorage, err)
	}

	return pair, nil
}

// GetUserID resolves the subject of an access token.
func (s *Credentials) GetUserID(_ context.Context, accessToken string) (uuid.UUID, error) {
	return s.issuer.ParseAccessToken(accessToken)
}

func hashRefresh(token string) []byte {
	h := sha256.Sum256([]byte(token))
	return h[:]
}
