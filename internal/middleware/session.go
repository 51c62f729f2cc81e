package middleware

import (
	"context"
	"net/http"
	"strings"

	"storefront/internal/domain"

	"go.uber.org/zap"
)

type contextKey string

const sessionKey contextKey = "session"

// SessionCookieName is the cookie carrying the session token
const SessionCookieName = "session_token"

// SessionDecoder turns a raw session token into a session
type SessionDecoder interface {
	ValidateToken(tokenString string) (*domain.Session, error)
}

// TokenFromRequest returns the session token from the cookie, falling back to
// an Authorization: Bearer header. Empty when neither is present.
func TokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// SessionFromRequest decodes the request's session token. Missing or
// unusable tokens yield nil; they are never reported as errors.
func SessionFromRequest(r *http.Request, decoder SessionDecoder, logger *zap.Logger) *domain.Session {
	token := TokenFromRequest(r)
	if token == "" {
		return nil
	}

	session, err := decoder.ValidateToken(token)
	if err != nil {
		logger.Debug("Ignoring unusable session token",
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		return nil
	}
	return session
}

// WithSession stores a session in ctx
func WithSession(ctx context.Context, session *domain.Session) context.Context {
	return context.WithValue(ctx, sessionKey, session)
}

// GetSession extracts the session from request context
func GetSession(ctx context.Context) (*domain.Session, bool) {
	session, ok := ctx.Value(sessionKey).(*domain.Session)
	return session, ok && session != nil
}
