package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// CORSMiddleware configures CORS for the public JSON API. Development
// allows any origin; credentials are then disabled since browsers reject
// a wildcard origin with credentials.
func CORSMiddleware(allowedOrigins []string, isDevelopment bool) func(http.Handler) http.Handler {
	allowCredentials := true
	if isDevelopment || len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
		allowCredentials = false
	}

	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: allowCredentials,
		MaxAge:           300,
	})
}

// BaseStack is the middleware every route runs behind. Forwarding headers
// rewrite RemoteAddr only when trustProxy is set; the rate limiter keys
// anonymous callers on RemoteAddr, so an untrusted client must not choose it.
func BaseStack(trustProxy bool) []func(http.Handler) http.Handler {
	stack := []func(http.Handler) http.Handler{middleware.RequestID}
	if trustProxy {
		stack = append(stack, middleware.RealIP)
	}
	return append(stack,
		middleware.Recoverer,
		middleware.Compress(5, "application/json"),
	)
}
