package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/authgate/internal/common"
)

type ctxKey string

const subjectKey ctxKey = "subject"

func subjectFromContext(ctx context.Context) (string, bool) {
	subject, ok := ctx.Value(subjectKey).(string)
	return subject, ok
}

// extractBearerToken pulls the bearer token out of the Authorization header.
// The second return value is an error message, empty on success.
func extractBearerToken(authHeader string) (string, string) {
	if authHeader == "" {
		return "", "missing authorization header"
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", "invalid authorization header format"
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == "" {
		return "", "empty token"
	}
	return token, ""
}

// withAuth validates the bearer token and stores its subject in the request
// context. The failure cause is logged; the response body stays constant.
func (s *Server) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, errMsg := extractBearerToken(r.Header.Get(common.AuthorizationHeaderName))
		if errMsg != "" {
			s.logger.Info(r.Context(), "request rejected", "reason", errMsg)
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid token"})
			return
		}

		subject, err := s.issuer.Subject(token)
		if err != nil {
			s.logger.Info(r.Context(), "request rejected", "reason", err.Error())
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid token"})
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), subjectKey, subject)))
	})
}
