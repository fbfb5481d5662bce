package model

import (
	"time"

	"github.com/google/uuid"
)

// CredentialIssuer generates and validates access/refresh credentials.
type CredentialIssuer interface {
	Issue(userID uuid.UUID) (CredentialPair, error)
	ParseAccessToken(token string) (uuid.UUID, error)
	ParseRefreshToken(token string) (userID uuid.UUID, jti string, err error)
}

// CredentialPair is a freshly signed access and refresh token.
type CredentialPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

// IssuedToken holds a random token and its digest. Only Hashed may be stored.
type IssuedToken struct {
	Plaintext string
	Hashed    []byte
}

// VerificationToken is an IssuedToken with its expiry moment.
type VerificationToken struct {
	IssuedToken
	ExpiresAt time.Time
}

// VerificationOutcome is the result of checking a presented verification token.
type VerificationOutcome int

const (
	// VerificationValid means the token matches and has not expired.
	VerificationValid VerificationOutcome = iota
	// VerificationExpired means the expiry moment has been reached.
	VerificationExpired
	// VerificationMismatched means the token does not match the stored digest.
	VerificationMismatched
)

func (o VerificationOutcome) String() string {
	switch o {
	case VerificationValid:
		return "valid"
	case VerificationExpired:
		return "expired"
	case VerificationMismatched:
		return "mismatched"
	default:
		return "unknown"
	}
}
