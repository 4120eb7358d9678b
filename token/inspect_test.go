package token_test

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jharlow/go-storefront-client/token"
)

func signedToken(t *testing.T, claims jwtlib.MapClaims) string {
	t.Helper()

	raw, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return raw
}

func TestExpiryReadsExpClaim(t *testing.T) {
	expiresAt := time.Now().Add(time.Hour).Truncate(time.Second)
	raw := signedToken(t, jwtlib.MapClaims{"exp": expiresAt.Unix(), "sub": "42"})

	expiry, ok := token.Expiry(raw)
	require.True(t, ok)
	assert.Equal(t, expiresAt.Unix(), expiry.Unix())
}

func TestExpiryDoesNotRequireValidSignature(t *testing.T) {
	expiresAt := time.Now().Add(time.Minute)
	raw := signedToken(t, jwtlib.MapClaims{"exp": expiresAt.Unix()})

	// Corrupt the signature segment only; the payload stays readable.
	tampered := raw[:len(raw)-4] + "AAAA"

	_, ok := token.Expiry(tampered)
	assert.True(t, ok)
}

func TestExpiryMalformedInputs(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "empty", raw: ""},
		{name: "not a jwt", raw: "just-a-string"},
		{name: "missing segment", raw: "eyJhbGciOiJIUzI1NiJ9.eyJleHAiOjF9"},
		{name: "invalid base64 payload", raw: "eyJhbGciOiJIUzI1NiJ9.!!!.sig"},
		{name: "no exp claim", raw: signedToken(t, jwtlib.MapClaims{"sub": "42"})},
		{name: "non numeric exp", raw: signedToken(t, jwtlib.MapClaims{"exp": "tomorrow"})},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, ok := token.Expiry(tc.raw)
			assert.False(t, ok)
		})
	}
}

func TestTokensValid(t *testing.T) {
	assert.True(t, token.Tokens{Access: "a", Refresh: "r"}.Valid())
	assert.False(t, token.Tokens{Access: "a"}.Valid())
	assert.False(t, token.Tokens{Refresh: "r"}.Valid())
	assert.False(t, token.Tokens{}.Valid())
}
