package model

import "errors"

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("user with email or username already exists")

	// ErrStorage marks backend failures. Retrying a whole registration is safe.
	ErrStorage = errors.New("storage fault")
	// ErrMailDelivery marks outbound mail failures. It never invalidates a created user.
	ErrMailDelivery = errors.New("mail delivery failed")
	// ErrCrypto marks random source or signing failures. Not retryable in-process.
	ErrCrypto = errors.New("crypto fault")

	ErrValidation     = errors.New("validation failed")
	ErrMalformedToken = errors.New("malformed token")
	ErrInvalidToken   = errors.New("invalid verification token")
	ErrTokenExpired   = errors.New("verification token expired")
)
