package httpapi

import (
	"context"
	"net/http"
	"strings"

	"taskkeeper/internal/server/models"
)

type ctxKey string

const (
	userKey  ctxKey = "user"
	tokenKey ctxKey = "token"
)

// withAuth resolves the request's bearer token to an acting user and stores
// both in the request context. Missing, malformed, revoked, and forged tokens
// all produce the same 401 response.
func (s *Server) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if raw == "" {
			respondError(w, http.StatusUnauthorized, "please authenticate")
			return
		}

		user, token, err := s.users.Authenticate(r.Context(), raw)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "please authenticate")
			return
		}

		ctx := context.WithValue(r.Context(), userKey, user)
		ctx = context.WithValue(ctx, tokenKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func requestUser(r *http.Request) *models.User {
	user, _ := r.Context().Value(userKey).(*models.User)
	return user
}

func requestToken(r *http.Request) string {
	token, _ := r.Context().Value(tokenKey).(string)
	return token
}
