package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/enrollment-server/internal/logger"
	"github.com/dtroode/enrollment-server/internal/mail"
	"github.com/dtroode/enrollment-server/internal/model"
)

// VerifyEmailPath is the route prefix the verification link points at.
const VerifyEmailPath = "/api/v1/auth/verify-email/"

// Registration creates unverified users and sends them a verification link.
type Registration struct {
	users           model.UserStore
	hasher          model.PasswordHasher
	tokens          *VerificationTokens
	mailer          model.Mailer
	verificationTTL time.Duration
	productName     string
	logger          *logger.Logger
	now             func() time.Time
}

func NewRegistration(
	users model.UserStore,
	hasher model.PasswordHasher,
	tokens *VerificationTokens,
	mailer model.Mailer,
	verificationTTL time.Duration,
	productName string,
	logger *logger.Logger,
) *Registration {
	return &Registration{
		users:           users,
		hasher:          hasher,
		tokens:          tokens,
		mailer:          mailer,
		verificationTTL: verificationTTL,
		productName:     productName,
		logger:          logger,
		now:             time.Now,
	}
}

// Register runs one registration attempt. The uniqueness lookup is only an
// early exit; the store's own constraint decides races between attempts.
func (r *Registration) Register(ctx context.Context, params model.RegisterParams) (model.RegisterResult, error) {
	email := normalizeIdentity(params.Email)
	username := normalizeIdentity(params.Username)
	if email == "" || username == "" || params.Password == "" {
		return model.RegisterResult{}, fmt.Errorf("%w: email, username and password are required", model.ErrValidation)
	}

	r.logger.Debug("Registration service: starting registration",
		"email", email,
		"username", username)

	_, err := r.users.FindByEmailOrUsername(ctx, email, username)
	switch {
	case err == nil:
		r.logger.Info("Registration service: user already exists",
			"email", email,
			"username", username)
		return model.RegisterResult{}, model.ErrConflict
	case !errors.Is(err, model.ErrNotFound):
		r.logger.Error("Registration service: failed to look up existing user",
			"email", email,
			"error", err.Error())
		return model.RegisterResult{}, fmt.Errorf("%w: failed to look up user: %w", model.ErrStorage, err)
	}

	passwordHash, err := r.hasher.Hash(params.Password)
	if err != nil {
		r.logger.Error("Registration service: failed to hash password",
			"email", email,
			"error", err.Error())
		return model.RegisterResult{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := r.now()
	created, err := r.users.Create(ctx, model.User{
		ID:              uuid.New(),
		Email:           email,
		Username:        username,
		PasswordHash:    passwordHash,
		IsEmailVerified: false,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if errors.Is(err, model.ErrConflict) {
		r.logger.Info("Registration service: lost uniqueness race",
			"email", email,
			"username", username)
		return model.RegisterResult{}, model.ErrConflict
	}
	if err != nil {
		r.logger.Error("Registration service: failed to create user",
			"email", email,
			"error", err.Error())
		return model.RegisterResult{}, fmt.Errorf("%w: failed to create user: %w", model.ErrStorage, err)
	}

	verification, err := r.tokens.IssueVerificationToken(r.verificationTTL)
	if err != nil {
		r.logger.Error("Registration service: failed to issue verification token",
			"user_id", created.ID,
			"error", err.Error())
		return model.RegisterResult{}, fmt.Errorf("failed to issue verification token: %w", err)
	}

	err = r.users.SetEmailVerificationToken(ctx, created.ID, verification.Hashed, verification.ExpiresAt)
	if err != nil {
		r.logger.Error("Registration service: failed to store verification token",
			"user_id", created.ID,
			"error", err.Error())
		return model.RegisterResult{}, fmt.Errorf("%w: failed to store verification token: %w", model.ErrStorage, err)
	}

	emailSent := r.deliver(ctx, created, params.Origin, verification.Plaintext)

	stored, err := r.users.GetByID(ctx, created.ID)
	if err != nil {
		r.logger.Error("Registration service: failed to re-read created user",
			"user_id", created.ID,
			"error", err.Error())
		return model.RegisterResult{}, fmt.Errorf("%w: failed to re-read created user: %w", model.ErrStorage, err)
	}

	r.logger.Info("Registration service: user registered",
		"user_id", stored.ID,
		"email_sent", emailSent)

	return model.RegisterResult{
		User:      stored.Sanitize(),
		EmailSent: emailSent,
	}, nil
}

// deliver sends the verification email. Failures are logged and reported to
// the caller as a degraded success; the user record is kept either way.
func (r *Registration) deliver(ctx context.Context, user model.User, origin, plaintext string) bool {
	msg, err := mail.RenderVerification(mail.VerificationEmail{
		To:          user.Email,
		Username:    user.Username,
		Link:        VerificationLink(origin, plaintext),
		ProductName: r.productName,
	})
	if err != nil {
		r.logger.Error("Registration service: failed to render verification email",
			"user_id", user.ID,
			"error", err.Error())
		return false
	}

	if err := r.mailer.Send(ctx, msg); err != nil {
		r.logger.Warn("Registration service: failed to send verification email",
			"user_id", user.ID,
			"error", err.Error())
		return false
	}

	return true
}

// VerificationLink joins the public origin with the verification route.
func VerificationLink(origin, plaintext string) string {
	return strings.TrimRight(origin, "/") + VerifyEmailPath + plaintext
}

func normalizeIdentity(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
