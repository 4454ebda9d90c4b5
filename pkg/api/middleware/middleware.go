package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	authproviders "github.com/skysquad/skysquad/pkg/auth/providers"
	"github.com/skysquad/skysquad/pkg/log"
	"github.com/skysquad/skysquad/pkg/repositories"
)

type ContextKey int

const (
	// UserContextKey is the key used to store the user in the request context
	UserContextKey ContextKey = iota
)

// NewAuthMiddleware verifies the bearer token and loads the matching user
// into the request context.
func NewAuthMiddleware(authProvider authproviders.AuthProvider, repository repositories.Repository) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			bearerToken, err := parseBearerToken(r)
			if err != nil {
				log.Error("failed to parse bearer token: %v", err)
				http.Error(w, "failed to parse bearer token", http.StatusUnauthorized)
				return
			}

			claims, err := authProvider.VerifyToken(r.Context(), bearerToken)
			if err != nil {
				log.Error("failed to verify token: %v", err)
				http.Error(w, "failed to verify token", http.StatusUnauthorized)
				return
			}

			user, err := repository.GetUser(r.Context(), claims.UID)
			if err != nil {
				if repositories.IsNotFound(err) {
					http.Error(w, "user not found", http.StatusUnauthorized)
					return
				}
				log.Error("failed to get user: %v", err)
				http.Error(w, "failed to get user", http.StatusInternalServerError)
				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// parseBearerToken parses the bearer token from the Authorization header
func parseBearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", fmt.Errorf("authorization header is missing")
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", fmt.Errorf("authorization header is not a bearer token")
	}

	return parts[1], nil
}
