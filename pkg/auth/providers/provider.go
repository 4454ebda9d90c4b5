package providers

import "context"

// AuthProvider verifies session tokens presented by clients.
type AuthProvider interface {
	VerifyToken(ctx context.Context, token string) (*TokenClaims, error)
}

type TokenClaims struct {
	UID      string `json:"uid"`
	Username string `json:"username"`
}
