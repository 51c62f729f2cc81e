package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"storefront/internal/domain"

	"go.uber.org/zap"
)

// Admin panel paths known to the gate
const (
	AdminPrefix     = "/admin"
	LoginPath       = "/admin/login"
	DashboardPath   = "/admin/dashboard"
	UsersPath       = "/admin/usuarios"
	ProductsPath    = "/admin/productos"
	ProductEditPath = "/admin/productos/edit"
)

// CallbackParam carries the originally requested path through the login page
const CallbackParam = "callbackUrl"

// Outcome is the gate's verdict on a request
type Outcome int

const (
	Allow Outcome = iota
	Redirect
)

func (o Outcome) String() string {
	if o == Redirect {
		return "redirect"
	}
	return "allow"
}

// Decision is the result of Decide. Location is set only for redirects.
type Decision struct {
	Outcome  Outcome
	Location string
}

// Decide applies the admin access table to a request path and the caller's
// session (nil when unauthenticated). It never fails: denial is a redirect.
func Decide(path string, session *domain.Session) Decision {
	switch {
	case !hasPathPrefix(path, AdminPrefix):
		return Decision{Outcome: Allow}
	case hasPathPrefix(path, LoginPath):
		return Decision{Outcome: Allow}
	case session == nil:
		return Decision{Outcome: Redirect, Location: LoginURL(path)}
	case hasPathPrefix(path, UsersPath) && !session.IsAdmin():
		return Decision{Outcome: Redirect, Location: DashboardPath}
	case hasPathPrefix(path, ProductEditPath) && !session.IsAdmin():
		return Decision{Outcome: Redirect, Location: ProductsPath}
	default:
		return Decision{Outcome: Allow}
	}
}

// LoginURL is the login page with callbackUrl set to path
func LoginURL(path string) string {
	return LoginPath + "?" + url.Values{CallbackParam: {path}}.Encode()
}

// hasPathPrefix matches whole path segments only
func hasPathPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

// AccessGate enforces Decide on every request it wraps and stores the decoded
// session in the request context for allowed requests.
func AccessGate(decoder SessionDecoder, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := SessionFromRequest(r, decoder, logger)

			decision := Decide(r.URL.Path, session)
			if decision.Outcome == Redirect {
				fields := []zap.Field{
					zap.String("path", r.URL.Path),
					zap.String("location", decision.Location),
				}
				if session != nil {
					fields = append(fields, zap.String("role", string(session.Role)))
				}
				logger.Debug("Access gate redirect", fields...)

				http.Redirect(w, r, decision.Location, redirectStatus(r.Method))
				return
			}

			if session != nil {
				r = r.WithContext(WithSession(r.Context(), session))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SafeCallback returns target when it is a local admin path, otherwise the dashboard
func SafeCallback(target string) string {
	u, err := url.Parse(target)
	if err != nil || u.IsAbs() || u.Host != "" || !hasPathPrefix(u.Path, AdminPrefix) || hasPathPrefix(u.Path, LoginPath) {
		return DashboardPath
	}
	return u.RequestURI()
}

// redirectStatus keeps the method for safe requests and turns anything else
// into a GET of the target, so a gated form post never replays its body.
func redirectStatus(method string) int {
	if method == http.MethodGet || method == http.MethodHead {
		return http.StatusTemporaryRedirect
	}
	return http.StatusSeeOther
}
