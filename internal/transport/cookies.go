package transport

import (
	"net/http"
	"time"

	"storefront/internal/middleware"
	"storefront/internal/service"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// RefreshCookieName holds the refresh token for browser sessions
const RefreshCookieName = "refresh_token"

// CookieOptions controls the attributes of session cookies
type CookieOptions struct {
	Secure     bool
	RefreshTTL time.Duration
}

func (o CookieOptions) setSession(w http.ResponseWriter, pair *service.TokenPair) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    pair.AccessToken,
		Path:     "/",
		Expires:  pair.ExpiresAt,
		HttpOnly: true,
		Secure:   o.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	if pair.RefreshToken != "" {
		http.SetCookie(w, &http.Cookie{
			Name:     RefreshCookieName,
			Value:    pair.RefreshToken,
			Path:     "/",
			MaxAge:   int(o.RefreshTTL.Seconds()),
			HttpOnly: true,
			Secure:   o.Secure,
			SameSite: http.SameSiteLaxMode,
		})
	}
}

func (o CookieOptions) clear(w http.ResponseWriter) {
	for _, name := range []string{middleware.SessionCookieName, RefreshCookieName} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   o.Secure,
			SameSite: http.SameSiteLaxMode,
		})
	}
}

func refreshTokenFromCookie(r *http.Request) string {
	if c, err := r.Cookie(RefreshCookieName); err == nil {
		return c.Value
	}
	return ""
}

func requestID(r *http.Request) string {
	return chimw.GetReqID(r.Context())
}
