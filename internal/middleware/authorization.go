package middleware

import (
	"net/http"

	"storefront/internal/domain"

	"go.uber.org/zap"
)

// RequireSession rejects API requests that carry no usable session token with 401
func RequireSession(decoder SessionDecoder, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := SessionFromRequest(r, decoder, logger)
			if session == nil {
				RespondWithError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
		})
	}
}

// RequireRole ensures the session in context has one of the allowed roles
func RequireRole(allowedRoles []domain.Role, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, ok := GetSession(r.Context())
			if !ok {
				logger.Warn("Session not found in context")
				RespondWithError(w, http.StatusForbidden, "insufficient permissions")
				return
			}

			for _, role := range allowedRoles {
				if session.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			logger.Warn("User role not authorized",
				zap.String("role", string(session.Role)),
				zap.Any("allowed_roles", allowedRoles),
			)
			RespondWithError(w, http.StatusForbidden, "insufficient permissions")
		})
	}
}
