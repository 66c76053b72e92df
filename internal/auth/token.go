package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// TokenClaims is the subset of access-token claims the client cares about.
// Tokens are issued and verified by the backend; the client only reads them.
type TokenClaims struct {
	Email     string
	Name      string
	Role      string
	ExpiresAt time.Time
}

// DecodeToken extracts claims from an access token without verifying the
// signature. The backend remains the authority; this is display metadata only.
func DecodeToken(token string) (*TokenClaims, error) {
	claims := jwt.MapClaims{}
	parser := &jwt.Parser{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("failed to decode token: %w", err)
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, fmt.Errorf("token has no subject claim")
	}

	tc := &TokenClaims{
		Email: sub,
		Name:  strings.SplitN(sub, "@", 2)[0],
		Role:  extractRole(claims),
	}
	if name, ok := claims["name"].(string); ok && name != "" {
		tc.Name = name
	}
	if exp, ok := claims["exp"].(float64); ok {
		tc.ExpiresAt = time.Unix(int64(exp), 0)
	}
	return tc, nil
}

// extractRole checks the role claim under the names different backend
// revisions have used.
func extractRole(claims jwt.MapClaims) string {
	if role, ok := claims["role"].(string); ok {
		return role
	}
	if authorities, ok := claims["authorities"].([]interface{}); ok && len(authorities) > 0 {
		if s, ok := authorities[0].(string); ok {
			return strings.TrimPrefix(s, "ROLE_")
		}
	}
	if roles, ok := claims["roles"].([]interface{}); ok && len(roles) > 0 {
		if s, ok := roles[0].(string); ok {
			return s
		}
	}
	return ""
}

// IsStaff reports whether the claims grant access to the staff dashboard.
func (c *TokenClaims) IsStaff() bool {
	return strings.EqualFold(c.Role, "staff") || strings.EqualFold(c.Role, "admin")
}

// Expired reports whether the token's expiry has passed. Tokens without an
// exp claim never report expired.
func (c *TokenClaims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}
