package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/enrollment-server/internal/model"
)

func newTestJWT(t *testing.T) *JWT {
	t.Helper()
	j, err := NewJWT("secret", 15*time.Minute, 30*24*time.Hour)
	require.NoError(t, err)
	return j
}

func TestNewJWT_InvalidConfig(t *testing.T) {
	_, err := NewJWT("", time.Minute, time.Hour)
	require.ErrorIs(t, err, model.ErrCrypto)

	_, err = NewJWT("secret", 0, time.Hour)
	require.ErrorIs(t, err, model.ErrCrypto)
}

func TestJWT_DerivesDistinctKeys(t *testing.T) {
	j := newTestJWT(t)

	assert.NotEqual(t, j.accessKey, j.refreshKey)
	assert.NotEqual(t, []byte("secret"), j.accessKey)
}

func TestJWT_Issue_Roundtrip(t *testing.T) {
	j := newTestJWT(t)
	u := uuid.New()

	pair, err := j.Issue(u)
	require.NoError(t, err)

	got, err := j.ParseAccessToken(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, u, got)

	gotUser, jti, err := j.ParseRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	require.Equal(t, u, gotUser)
	require.NotEmpty(t, jti)

	assert.True(t, pair.RefreshExpiresAt.After(pair.AccessExpiresAt))
}

func TestJWT_Issue_AccessAndRefreshDiffer(t *testing.T) {
	j := newTestJWT(t)
	u := uuid.New()

	pair, err := j.Issue(u)
	require.NoError(t, err)

	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	_, _, err = j.ParseRefreshToken(pair.AccessToken)
	require.Error(t, err)
	_, err = j.ParseAccessToken(pair.RefreshToken)
	require.Error(t, err)
}

func TestJWT_Issue_RefreshTokensAreUnique(t *testing.T) {
	j := newTestJWT(t)
	u := uuid.New()

	first, err := j.Issue(u)
	require.NoError(t, err)
	second, err := j.Issue(u)
	require.NoError(t, err)

	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
}

func TestJWT_AccessKeyCannotForgeRefresh(t *testing.T) {
	j := newTestJWT(t)
	u := uuid.New()
	now := time.Now()

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "forged",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
		UserID:    u,
		TokenType: typeRefresh,
	}).SignedString(j.accessKey)
	require.NoError(t, err)

	_, _, err = j.ParseRefreshToken(forged)
	require.Error(t, err)
}

func TestJWT_ExpiryValidation(t *testing.T) {
	j := newTestJWT(t)
	u := uuid.New()

	j.now = func() time.Time { return time.Now().Add(-time.Hour) }
	pair, err := j.Issue(u)
	require.NoError(t, err)

	j.now = time.Now
	_, err = j.ParseAccessToken(pair.AccessToken)
	require.Error(t, err)

	_, _, err = j.ParseRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
}

func TestJWT_WrongSecret(t *testing.T) {
	j := newTestJWT(t)
	other, err := NewJWT("other-secret", time.Minute, time.Hour)
	require.NoError(t, err)

	pair, err := j.Issue(uuid.New())
	require.NoError(t, err)

	_, err = other.ParseAccessToken(pair.AccessToken)
	require.Error(t, err)
}

func TestJWT_RejectsNoneAlgorithm(t *testing.T) {
	j := newTestJWT(t)
	now := time.Now()

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour))},
		UserID:           uuid.New(),
		TokenType:        typeAccess,
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = j.ParseAccessToken(unsigned)
	require.Error(t, err)
}
