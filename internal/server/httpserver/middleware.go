package httpserver

import (
	"context"
	"net/http"
	"strings"

	"territorykeeper/internal/common"
)

type ctxKey string

const userIDKey ctxKey = "userID"

// requireAuth validates the bearer access token and stores the subject
// user id on the request context.
func (s *HTTPServer) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accessToken := strings.TrimPrefix(r.Header.Get(common.AccessTokenHeaderName), "Bearer ")
		if accessToken == "" {
			s.writeError(w, http.StatusUnauthorized, "missing token")
			return
		}

		userID, err := s.users.GetUserIDFromToken(accessToken)
		if err != nil {
			s.writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func userIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}
