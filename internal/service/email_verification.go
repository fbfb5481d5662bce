package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dtroode/enrollment-server/internal/logger"
	"github.com/dtroode/enrollment-server/internal/model"
)

// EmailVerification completes the verification handshake and opens the
// user's first session.
type EmailVerification struct {
	users       model.UserStore
	tokens      *VerificationTokens
	credentials *Credentials
	logger      *logger.Logger
	now         func() time.Time
}

func NewEmailVerification(users model.UserStore, tokens *VerificationTokens, credentials *Credentials, logger *logger.Logger) *EmailVerification {
	return &EmailVerification{
		users:       users,
		tokens:      tokens,
		credentials: credentials,
		logger:      logger,
		now:         time.Now,
	}
}

// VerifyEmail consumes presented. A token is usable once: on success the
// stored digest and expiry are cleared.
func (s *EmailVerification) VerifyEmail(ctx context.Context, presented string) (model.VerifyEmailResult, error) {
	digest, err := s.tokens.Digest(presented)
	if err != nil {
		return model.VerifyEmailResult{}, model.ErrInvalidToken
	}

	user, err := s.users.GetByEmailVerificationToken(ctx, digest)
	if errors.Is(err, model.ErrNotFound) {
		s.logger.Info("Email verification service: unknown token")
		return model.VerifyEmailResult{}, model.ErrInvalidToken
	}
	if err != nil {
		s.logger.Error("Email verification service: failed to look up token",
			"error", err.Error())
		return model.VerifyEmailResult{}, fmt.Errorf("%w: failed to look up token: %w", model.ErrStorage, err)
	}

	if user.EmailVerificationExpiry == nil {
		return model.VerifyEmailResult{}, model.ErrInvalidToken
	}

	outcome, err := s.tokens.VerifyToken(presented, user.EmailVerificationToken, *user.EmailVerificationExpiry, s.now())
	if err != nil {
		return model.VerifyEmailResult{}, model.ErrInvalidToken
	}

	switch outcome {
	case model.VerificationExpired:
		s.logger.Info("Email verification service: token expired",
			"user_id", user.ID)
		return model.VerifyEmailResult{}, model.ErrTokenExpired
	case model.VerificationMismatched:
		return model.VerifyEmailResult{}, model.ErrInvalidToken
	}

	err = s.users.MarkEmailVerified(ctx, user.ID, digest)
	if errors.Is(err, model.ErrInvalidToken) {
		s.logger.Info("Email verification service: token already consumed",
			"user_id", user.ID)
		return model.VerifyEmailResult{}, model.ErrInvalidToken
	}
	if err != nil {
		s.logger.Error("Email verification service: failed to mark email verified",
			"user_id", user.ID,
			"error", err.Error())
		return model.VerifyEmailResult{}, fmt.Errorf("%w: failed to mark email verified: %w", model.ErrStorage, err)
	}

	pair, err := s.credentials.Establish(ctx, user.ID)
	if err != nil {
		return model.VerifyEmailResult{}, err
	}

	verified, err := s.users.GetByID(ctx, user.ID)
	if err != nil {
		s.logger.Error("Email verification service: failed to re-read user",
			"user_id", user.ID,
			"error", err.Error())
		return model.VerifyEmailResult{}, fmt.Errorf("%w: failed to re-read user: %w", model.ErrStorage, err)
	}

	s.logger.Info("Email verification service: email verified",
		"user_id", user.ID)

	return model.VerifyEmailResult{
		User:        verified.Sanitize(),
		Credentials: pair,
	}, nil
}
