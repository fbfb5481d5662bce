package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserStore defines persistence operations for users.
//
// Create must enforce email and username uniqueness itself and report a
// violation as ErrConflict, regardless of any earlier lookup.
type UserStore interface {
	FindByEmailOrUsername(ctx context.Context, email, username string) (User, error)
	Create(ctx context.Context, user User) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetByEmailVerificationToken(ctx context.Context, digest []byte) (User, error)

	SetEmailVerificationToken(ctx context.Context, id uuid.UUID, digest []byte, expiresAt time.Time) error
	// MarkEmailVerified consumes the verification token: it succeeds only while
	// digest is still the stored one and reports ErrInvalidToken otherwise.
	MarkEmailVerified(ctx context.Context, id uuid.UUID, digest []byte) error
	SetRefreshTokenHash(ctx context.Context, id uuid.UUID, digest []byte) error
}

// User represents a stored user with authentication material.
type User struct {
	ID                      uuid.UUID
	Email                   string
	Username                string
	PasswordHash            string
	IsEmailVerified         bool
	EmailVerificationToken  []byte
	EmailVerificationExpiry *time.Time
	RefreshTokenHash        []byte
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// PublicUser is the user projection that may leave the service.
type PublicUser struct {
	ID              uuid.UUID `json:"id"`
	Email           string    `json:"email"`
	Username        string    `json:"username"`
	IsEmailVerified bool      `json:"is_email_verified"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ExcludedUserFields lists keys that must never appear in a PublicUser.
var ExcludedUserFields = []string{
	"password",
	"password_hash",
	"refresh_token",
	"refresh_token_hash",
	"email_verification_token",
	"email_verification_expiry",
}

// Sanitize projects u onto the fields safe to return to callers.
func (u User) Sanitize() PublicUser {
	return PublicUser{
		ID:              u.ID,
		Email:           u.Email,
		Username:        u.Username,
		IsEmailVerified: u.IsEmailVerified,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}
