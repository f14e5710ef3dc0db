package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"certledger/internal/auth"
)

type contextKey string

// UserIDKey carries the authenticated account id (the token's subject
// claim) through the request context.
const UserIDKey contextKey = "userID"

// UserID extracts the authenticated account id from the request context.
func UserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(UserIDKey).(string)
	return id, ok && id != ""
}

// Auth validates the Authorization bearer token and stores its subject in
// the request context. Missing, expired and invalid tokens each surface
// their own message, all as 401.
func Auth(tokens *auth.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
			if header == "" {
				unauthorized(w, auth.ErrTokenMissing)
				return
			}

			userID, err := tokens.ParseAccessToken(token)
			if err != nil {
				unauthorized(w, err)
				return
			}
			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, err error) {
	msg := "invalid token"
	switch {
	case errors.Is(err, auth.ErrTokenMissing):
		msg = "missing bearer token"
	case errors.Is(err, auth.ErrTokenExpired):
		msg = "token has expired"
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{"error": msg})
}
