package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-0123456789"

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := NewTokenManager(testSecret, "task-manager", 0)

	tok, err := tm.Generate("user-1")
	require.NoError(t, err)

	claims, err := tm.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "user-1", claims.Subject)
	assert.NotEmpty(t, claims.ID)
	assert.Nil(t, claims.ExpiresAt)
}

func TestTokenManager_TokensAreUnique(t *testing.T) {
	tm := NewTokenManager(testSecret, "", 0)

	a, err := tm.Generate("user-1")
	require.NoError(t, err)
	b, err := tm.Generate("user-1")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestTokenManager_Rejects(t *testing.T) {
	tm := NewTokenManager(testSecret, "task-manager", 0)
	valid, err := tm.Generate("user-1")
	require.NoError(t, err)

	other := NewTokenManager("another-secret-987654", "task-manager", 0)
	foreign, err := other.Generate("user-1")
	require.NoError(t, err)

	otherIssuer := NewTokenManager(testSecret, "someone-else", 0)
	wrongIssuer, err := otherIssuer.Generate("user-1")
	require.NoError(t, err)

	second, err := tm.Generate("user-2")
	require.NoError(t, err)
	vp, sp := strings.Split(valid, "."), strings.Split(second, ".")
	tampered := vp[0] + "." + sp[1] + "." + vp[2]

	noneTok, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "user-1"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "not-a-token"},
		{name: "wrong secret", token: foreign},
		{name: "wrong issuer", token: wrongIssuer},
		{name: "tampered payload", token: tampered},
		{name: "alg none", token: noneTok},
		{name: "truncated", token: strings.Join(strings.Split(valid, ".")[:2], ".")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tm.Parse(tt.token)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidToken))
		})
	}
}

func TestTokenManager_Expiry(t *testing.T) {
	tm := NewTokenManager(testSecret, "", time.Hour)
	issued := time.Now()
	tm.now = func() time.Time { return issued }

	tok, err := tm.Generate("user-1")
	require.NoError(t, err)

	_, err = tm.Parse(tok)
	require.NoError(t, err)

	tm.now = func() time.Time { return issued.Add(2 * time.Hour) }
	_, err = tm.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("red12345!")
	require.NoError(t, err)

	assert.NotEqual(t, "red12345!", hash)
	assert.NotContains(t, hash, "red12345!")
	assert.NoError(t, VerifyPassword("red12345!", hash))
	assert.Error(t, VerifyPassword("red12345?", hash))
}
