package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/wayplan/wayplan/internal/common"
)

type contextKey string

const userIDKey contextKey = "userID"

// bearerToken extracts the access token from the Authorization header,
// falling back to the auth_token query parameter for WebSocket clients
// that cannot set headers.
func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return r.URL.Query().Get("auth_token")
}

func (s *Server) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			s.writeError(w, r, common.ErrUnauthorized)
			return
		}

		userID, err := s.users.VerifyAccessToken(token)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// userID returns the authenticated user set by the auth middleware.
func userID(r *http.Request) string {
	id, _ := r.Context().Value(userIDKey).(string)
	return id
}
