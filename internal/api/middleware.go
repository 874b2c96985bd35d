package api

import (
	"context"
	"net/http"
	"strings"

	"foodgram/internal/user"
)

type contextKey string

const userContextKey contextKey = "user"

// currentUser returns the authenticated user from the request context, or
// nil for anonymous requests.
func currentUser(r *http.Request) *user.User {
	u, _ := r.Context().Value(userContextKey).(*user.User)
	return u
}

// withAuth resolves the Authorization header, if present, and injects the
// account into the request context. Invalid credentials are rejected;
// missing ones pass through anonymously.
func (s *Server) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}

		// Both "Bearer <jwt>" and the legacy "Token <jwt>" are accepted.
		token := strings.TrimPrefix(strings.TrimPrefix(header, "Bearer "), "Token ")
		userID, err := s.tokens.Verify(token)
		if err != nil {
			sendError(w, "Недопустимый токен.", http.StatusUnauthorized)
			return
		}

		u, err := s.users.Get(r.Context(), userID)
		if err != nil {
			s.serverError(w, err)
			return
		}
		if u == nil {
			sendError(w, "Недопустимый токен.", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userContextKey, u)))
	})
}

// requireAuth rejects anonymous requests.
func requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if currentUser(r) == nil {
			sendError(w, "Учетные данные не были предоставлены.", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}
