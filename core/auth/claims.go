package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the displayable subset of the credential's JWT claims.
type Claims struct {
	Email   string
	IsAdmin bool
}

// PeekClaims decodes the credential without verifying its signature, for
// display purposes only. Validity is still decided by the server: a failed
// authenticated request, not a local expiry check, invalidates a credential.
func PeekClaims(token string) (*Claims, error) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return nil, fmt.Errorf("failed to decode credential: %w", err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("unexpected claims format")
	}

	out := &Claims{}
	if sub, ok := claims["sub"].(string); ok {
		out.Email = sub
	}
	if isAdmin, ok := claims["is_admin"].(bool); ok {
		out.IsAdmin = isAdmin
	}
	return out, nil
}
