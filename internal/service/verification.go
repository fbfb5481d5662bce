package service

import (
	"time"

	"github.com/dtroode/enrollment-server/internal/model"
	"github.com/dtroode/enrollment-server/internal/token"
)

// VerificationTokens issues and checks single-use email verification tokens.
type VerificationTokens struct {
	codec *token.Codec
	now   func() time.Time
}

func NewVerificationTokens(codec *token.Codec) *VerificationTokens {
	return &VerificationTokens{codec: codec, now: time.Now}
}

// IssueVerificationToken returns a new token expiring ttl from now. The
// plaintext must be handed to delivery and dropped; only Hashed is stored.
func (v *VerificationTokens) IssueVerificationToken(ttl time.Duration) (model.VerificationToken, error) {
	issued, err := v.codec.Generate()
	if err != nil {
		return model.VerificationToken{}, err
	}

	return model.VerificationToken{
		IssuedToken: issued,
		ExpiresAt:   v.now().Add(ttl),
	}, nil
}

// VerifyToken classifies presented against the stored digest and expiry.
// The expiry moment itself counts as expired, and expiry wins over mismatch.
func (v *VerificationTokens) VerifyToken(presented string, storedHash []byte, expiresAt, now time.Time) (model.VerificationOutcome, error) {
	if err := v.codec.Validate(presented); err != nil {
		return model.VerificationMismatched, err
	}

	if !now.Before(expiresAt) {
		return model.VerificationExpired, nil
	}

	ok, err := v.codec.Verify(presented, storedHash)
	if err != nil {
		return model.VerificationMismatched, err
	}
	if !ok {
		return model.VerificationMismatched, nil
	}

	return model.VerificationValid, nil
}

// Digest returns the stored form of presented, rejecting malformed input.
func (v *VerificationTokens) Digest(presented string) ([]byte, error) {
	if err := v.codec.Validate(presented); err != nil {
		return nil, err
	}
	return v.codec.Hash(presented), nil
}
