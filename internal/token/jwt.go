package token

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/hkdf"

	"github.com/dtroode/enrollment-server/internal/model"
)

var _ model.CredentialIssuer = (*JWT)(nil)

// Claims represents JWT claims with token type and user ID.
type Claims struct {
	jwt.RegisteredClaims
	UserID    uuid.UUID `json:"user_id"`
	TokenType string    `json:"typ"`
}

// JWT implements CredentialIssuer backed by symmetric HMAC. Access and refresh
// tokens are signed with different keys derived from the configured secret.
type JWT struct {
	accessKey  []byte
	refreshKey []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

const (
	typeAccess  = "access"
	typeRefresh = "refresh"

	keyInfoPrefix = "enrollment-server/jwt/"
)

// NewJWT creates a credential issuer from the signing secret and TTLs.
func NewJWT(secret string, accessTTL, refreshTTL time.Duration) (*JWT, error) {
	if secret == "" {
		return nil, fmt.Errorf("%w: empty signing secret", model.ErrCrypto)
	}
	if accessTTL <= 0 || refreshTTL <= 0 {
		return nil, fmt.Errorf("%w: non-positive token ttl", model.ErrCrypto)
	}

	accessKey, err := deriveKey(secret, typeAccess)
	if err != nil {
		return nil, err
	}
	refreshKey, err := deriveKey(secret, typeRefresh)
	if err != nil {
		return nil, err
	}

	return &JWT{
		accessKey:  accessKey,
		refreshKey: refreshKey,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}, nil
}

func deriveKey(secret, purpose string) ([]byte, error) {
	key := make([]byte, sha256.Size)
	r := hkdf.New(sha256.New, []byte(secret), nil, []byte(keyInfoPrefix+purpose))
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("%w: failed to derive %s key: %w", model.ErrCrypto, purpose, err)
	}
	return key, nil
}

// Issue creates a short-lived access token and a long-lived refresh token.
func (j *JWT) Issue(userID uuid.UUID) (model.CredentialPair, error) {
	now := j.now()
	accessExp := now.Add(j.accessTTL)
	refreshExp := now.Add(j.refreshTTL)

	access, err := j.sign(j.accessKey, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(accessExp),
		},
		UserID:    userID,
		TokenType: typeAccess,
	})
	if err != nil {
		return model.CredentialPair{}, fmt.Errorf("failed to sign access token: %w", err)
	}

	refresh, err := j.sign(j.refreshKey, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(refreshExp),
		},
		UserID:    userID,
		TokenType: typeRefresh,
	})
	if err != nil {
		return model.CredentialPair{}, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return model.CredentialPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

func (j *JWT) sign(key []byte, claims Claims) (string, error) {
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	if err != nil {
		return "", fmt.Errorf("%w: %w", model.ErrCrypto, err)
	}
	return s, nil
}

// ParseAccessToken validates and extracts the user ID from an access token.
func (j *JWT) ParseAccessToken(tokenString string) (uuid.UUID, error) {
	claims, err := j.parse(tokenString, j.accessKey, typeAccess)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to parse access token: %w", err)
	}
	return claims.UserID, nil
}

// ParseRefreshToken validates and extracts the user ID and JTI from a refresh token.
func (j *JWT) ParseRefreshToken(tokenString string) (uuid.UUID, string, error) {
	claims, err := j.parse(tokenString, j.refreshKey, typeRefresh)
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("failed to parse refresh token: %w", err)
	}
	return claims.UserID, claims.ID, nil
}

func (j *JWT) parse(tokenString string, key []byte, wantType string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return key, nil
	}, jwt.WithTimeFunc(j.now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("token is invalid")
	}
	if claims.TokenType != wantType {
		return nil, fmt.Errorf("token type mismatch: %s", claims.TokenType)
	}
	if claims.UserID == uuid.Nil {
		return nil, errors.New("token has no user id")
	}
	return claims, nil
}
