package transport

import (
	"errors"
	"net/http"
	"time"

	"storefront/internal/domain"
	"storefront/internal/middleware"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required"`
	CallbackURL string `json:"callbackUrl"`
}

// RefreshRequest represents the token refresh request payload. The token may
// also come from the refresh cookie.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// LoginResponse represents the login response
type LoginResponse struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	ExpiresAt    time.Time   `json:"expires_at"`
	User         UserProfile `json:"user"`
}

// RefreshResponse represents the token refresh response
type RefreshResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// UserProfile is the public view of an account
type UserProfile struct {
	ID        string      `json:"id"`
	Email     string      `json:"email"`
	FullName  string      `json:"full_name"`
	Role      domain.Role `json:"role"`
	Company   string      `json:"company,omitempty"`
	Phone     string      `json:"phone,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

func profileOf(user *domain.User) UserProfile {
	return UserProfile{
		ID:        user.ID.String(),
		Email:     user.Email,
		FullName:  user.FullName,
		Role:      user.Role,
		Company:   user.Company,
		Phone:     user.Phone,
		CreatedAt: user.CreatedAt,
	}
}

// AuthHandler handles the session API
type AuthHandler struct {
	auth    service.AuthService
	cookies CookieOptions
	logger  *zap.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(auth service.AuthService, cookies CookieOptions, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		auth:    auth,
		cookies: cookies,
		logger:  logger,
	}
}

// RegisterRoutes registers the session routes on r, which is mounted at
// /api/auth. loginLimiter wraps the login route only.
func (h *AuthHandler) RegisterRoutes(r chi.Router, loginLimiter func(http.Handler) http.Handler) {
	r.With(loginLimiter).Post("/login", h.Login)
	r.Post("/refresh", h.Refresh)
	r.Post("/logout", h.Logout)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireSession(h.auth, h.logger))
		r.Get("/session", h.Session)
	})
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Login validation failed", zap.Error(err))
		respondWithDecodeError(w, err)
		return
	}

	pair, user, ok := h.login(w, r, req.Email, req.Password)
	if !ok {
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, LoginResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    pair.ExpiresAt,
		User:         profileOf(user),
	})
}

// login runs the credential check shared by the API and the admin form and
// sets the session cookies. On failure the error response is already written.
func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request, email, password string) (*service.TokenPair, *domain.User, bool) {
	pair, user, err := h.auth.Login(r.Context(), email, password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.logger.Debug("Login rejected", zap.String("email", email))
			middleware.RespondWithError(w, http.StatusUnauthorized, "invalid email or password")
			return nil, nil, false
		}
		h.logger.Error("Login failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to login")
		return nil, nil, false
	}

	h.cookies.setSession(w, pair)
	h.logger.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)),
	)
	return pair, user, true
}

// Refresh handles POST /api/auth/refresh
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	token := h.refreshToken(r)
	if token == "" {
		middleware.RespondWithError(w, http.StatusBadRequest, "refresh token is required")
		return
	}

	pair, err := h.auth.Refresh(r.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidToken):
			middleware.RespondWithError(w, http.StatusUnauthorized, "invalid refresh token")
		case errors.Is(err, service.ErrTokenExpired):
			middleware.RespondWithError(w, http.StatusUnauthorized, "refresh token expired")
		default:
			h.logger.Error("Token refresh failed", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to refresh token")
		}
		return
	}

	h.cookies.setSession(w, &service.TokenPair{AccessToken: pair.AccessToken, ExpiresAt: pair.ExpiresAt})
	middleware.RespondWithJSON(w, http.StatusOK, RefreshResponse{
		AccessToken: pair.AccessToken,
		ExpiresAt:   pair.ExpiresAt,
	})
}

// Logout handles POST /api/auth/logout. It always clears the cookies.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.revoke(r); err != nil {
		h.logger.Error("Logout failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to logout")
		return
	}
	h.cookies.clear(w)
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "logged out successfully"})
}

// Session handles GET /api/auth/session
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.GetSession(r.Context())
	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"session": session,
	})
}

func (h *AuthHandler) revoke(r *http.Request) error {
	token := h.refreshToken(r)
	if token == "" {
		return nil
	}
	return h.auth.Logout(r.Context(), token)
}

// refreshToken reads the token from a JSON body, falling back to the cookie
func (h *AuthHandler) refreshToken(r *http.Request) string {
	if isJSON(r) {
		var req RefreshRequest
		if err := decodeJSON(r, &req); err == nil && req.RefreshToken != "" {
			return req.RefreshToken
		}
	}
	return refreshTokenFromCookie(r)
}

func respondWithDecodeError(w http.ResponseWriter, err error) {
	if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
		middleware.RespondWithValidationErrors(w, validationErrors)
		return
	}
	middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
}
