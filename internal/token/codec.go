package token

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/dtroode/enrollment-server/internal/model"
)

// TokenBytes is the amount of random material in every issued token (256 bits).
//
// The digest is an unsalted SHA-256, which is only acceptable because the
// input is uniformly random at this length. Verify rejects anything shorter.
const TokenBytes = 32

// Codec generates single-use random tokens and their storable digests.
// It holds no mutable state and is safe for concurrent use.
type Codec struct {
	random io.Reader
}

// NewCodec creates a Codec reading from crypto/rand.
func NewCodec() *Codec {
	return NewCodecWithReader(rand.Reader)
}

// NewCodecWithReader allows injecting the random source (used in tests).
func NewCodecWithReader(r io.Reader) *Codec {
	return &Codec{random: r}
}

// Generate returns fresh token material and its digest.
func (c *Codec) Generate() (model.IssuedToken, error) {
	buf := make([]byte, TokenBytes)
	if _, err := io.ReadFull(c.random, buf); err != nil {
		return model.IssuedToken{}, fmt.Errorf("%w: failed to read random source: %w", model.ErrCrypto, err)
	}

	plaintext := hex.EncodeToString(buf)

	return model.IssuedToken{
		Plaintext: plaintext,
		Hashed:    c.Hash(plaintext),
	}, nil
}

// Hash returns the digest stored in place of plaintext.
func (c *Codec) Hash(plaintext string) []byte {
	h := sha256.Sum256([]byte(plaintext))
	return h[:]
}

// Verify reports whether presented hashes to storedHash. A mismatch is not an
// error; malformed input is.
func (c *Codec) Verify(presented string, storedHash []byte) (bool, error) {
	if err := c.Validate(presented); err != nil {
		return false, err
	}
	if len(storedHash) != sha256.Size {
		return false, fmt.Errorf("%w: stored digest has %d bytes", model.ErrMalformedToken, len(storedHash))
	}

	return subtle.ConstantTimeCompare(c.Hash(presented), storedHash) == 1, nil
}

// Validate checks that presented has the shape of a token produced by Generate.
func (c *Codec) Validate(presented string) error {
	if len(presented) != hex.EncodedLen(TokenBytes) {
		return fmt.Errorf("%w: expected %d characters", model.ErrMalformedToken, hex.EncodedLen(TokenBytes))
	}
	if _, err := hex.DecodeString(presented); err != nil {
		return fmt.Errorf("%w: not hex encoded", model.ErrMalformedToken)
	}
	return nil
}
