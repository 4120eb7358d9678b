package token

import (
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// Expiry extracts the exp claim from a JWT without verifying its signature.
// The token was obtained directly from the trusted backend, so this is a
// trust-the-issuer read used only to schedule the silent refresh. Returns
// false on any malformed input: missing segment, invalid base64, invalid
// JSON, or a missing or non-numeric exp claim.
func Expiry(raw string) (time.Time, bool) {
	parsed, _, err := jwtlib.NewParser().ParseUnverified(raw, jwtlib.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}

	claims, ok := parsed.Claims.(jwtlib.MapClaims)
	if !ok {
		return time.Time{}, false
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		return time.Time{}, false
	}

	return time.Unix(int64(exp), 0), true
}
