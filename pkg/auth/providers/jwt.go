package providers

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const jwtIssuer = "skysquad"

// JWTProvider issues and verifies HS256 session tokens.
type JWTProvider struct {
	secret   []byte
	tokenTTL time.Duration
	now      func() time.Time
}

var _ AuthProvider = (*JWTProvider)(nil)

type NewJWTProviderOptions struct {
	Secret   string
	TokenTTL time.Duration
	// Now overrides the clock, used in tests.
	Now func() time.Time
}

func NewJWTProvider(opts NewJWTProviderOptions) (*JWTProvider, error) {
	if opts.Secret == "" {
		return nil, fmt.Errorf("jwt secret is empty")
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &JWTProvider{
		secret:   []byte(opts.Secret),
		tokenTTL: opts.TokenTTL,
		now:      now,
	}, nil
}

type sessionClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// IssueToken creates a signed session token for a user.
func (p *JWTProvider) IssueToken(userID string, username string) (string, error) {
	now := p.now()
	claims := sessionClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    jwtIssuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(p.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %v", err)
	}
	return signed, nil
}

// VerifyToken parses and validates a session token.
func (p *JWTProvider) VerifyToken(ctx context.Context, tokenString string) (*TokenClaims, error) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return p.secret, nil
	}, jwt.WithIssuer(jwtIssuer), jwt.WithTimeFunc(p.now))
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %v", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("token is invalid")
	}

	return &TokenClaims{
		UID:      claims.Subject,
		Username: claims.Username,
	}, nil
}
