// Package middleware provides HTTP middlewares for authentication and logging.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/atinyakov/ownerhub/internal/models"
)

type ctxKey string

const ownerKey ctxKey = "owner"

// TokenResolver resolves a bearer token to its owner.
type TokenResolver interface {
	OwnerByToken(ctx context.Context, token string) (models.Owner, error)
}

// TokenAuth is a middleware that enforces bearer token authentication.
//
// It reads the token from the Authorization header and resolves it
// through tokens. On success the owner is stored in the request context
// for GetOwnerFromContext; otherwise the request is answered with 401.
func TokenAuth(tokens TokenResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				http.Error(w, "no bearer token provided", http.StatusUnauthorized)
				return
			}
			owner, err := tokens.OwnerByToken(r.Context(), token)
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), ownerKey, owner)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetOwnerFromContext returns the owner stored by TokenAuth.
func GetOwnerFromContext(ctx context.Context) (models.Owner, bool) {
	o, ok := ctx.Value(ownerKey).(models.Owner)
	return o, ok
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(h, "Bearer ")
	token = strings.TrimSpace(token)
	return token, ok && token != ""
}
