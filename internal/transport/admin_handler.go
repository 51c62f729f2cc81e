package transport

import (
	"context"
	"errors"
	"net/http"

	"storefront/internal/domain"
	"storefront/internal/middleware"
	"storefront/internal/recordstore"
	"storefront/internal/repository"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cast"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// CreateUserRequest is the payload an administrator submits for a new account
type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name" validate:"required,max=200"`
	Role     string `json:"role" validate:"required,oneof=Admin Vendedor Cliente"`
	Company  string `json:"company" validate:"max=200"`
	Phone    string `json:"phone" validate:"max=50"`
}

// AdminHandler serves the admin panel. Every route it registers must sit
// behind middleware.AccessGate; the session is read from the request context.
type AdminHandler struct {
	auth    *AuthHandler
	users   service.AuthService
	catalog service.CatalogService
	logger  *zap.Logger
}

// NewAdminHandler creates a new AdminHandler. It reuses auth for the sign-in
// flow and cookie handling.
func NewAdminHandler(auth *AuthHandler, catalog service.CatalogService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		auth:    auth,
		users:   auth.auth,
		catalog: catalog,
		logger:  logger,
	}
}

// RegisterRoutes registers the admin routes on r, which is mounted at /admin
func (h *AdminHandler) RegisterRoutes(r chi.Router, loginLimiter func(http.Handler) http.Handler) {
	adminOnly := middleware.RequireRole([]domain.Role{domain.RoleAdmin}, h.logger)

	r.Get("/login", h.LoginPage)
	r.With(loginLimiter).Post("/login", h.Login)
	r.Post("/logout", h.Logout)
	r.Get("/dashboard", h.Dashboard)
	r.Get("/productos", h.ListProducts)

	r.Group(func(r chi.Router) {
		r.Use(adminOnly)
		r.Get("/usuarios", h.ListUsers)
		r.Post("/usuarios", h.CreateUser)
		r.Get("/productos/edit/{id}", h.EditProduct)
	})
}

// LoginPage handles GET /admin/login
func (h *AdminHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.GetSession(r.Context())
	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"page":        "login",
		"callbackUrl": middleware.SafeCallback(r.URL.Query().Get(middleware.CallbackParam)),
		"session":     session,
	})
}

// Login handles POST /admin/login from a form or a JSON body and redirects
// to the callback on success.
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if isJSON(r) {
		if err := decodeJSON(r, &req); err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	} else {
		req = LoginRequest{
			Email:       r.PostFormValue("email"),
			Password:    r.PostFormValue("password"),
			CallbackURL: r.PostFormValue(middleware.CallbackParam),
		}
	}
	if req.CallbackURL == "" {
		req.CallbackURL = r.URL.Query().Get(middleware.CallbackParam)
	}

	if err := middleware.ValidateRequest(&req); err != nil {
		respondWithDecodeError(w, err)
		return
	}

	if _, _, ok := h.auth.login(w, r, req.Email, req.Password); !ok {
		return
	}
	http.Redirect(w, r, middleware.SafeCallback(req.CallbackURL), http.StatusSeeOther)
}

// Logout handles POST /admin/logout
func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := refreshTokenFromCookie(r); token != "" {
		if err := h.users.Logout(r.Context(), token); err != nil {
			h.logger.Warn("Failed to revoke refresh token on admin logout", zap.Error(err))
		}
	}
	h.auth.cookies.clear(w)
	http.Redirect(w, r, middleware.LoginPath, http.StatusSeeOther)
}

// dashboardCounts reports what one upstream page holds, not the table total.
// A table that fills the page is flagged as truncated.
type dashboardCounts struct {
	Products   int  `json:"products"`
	Brands     int  `json:"brands"`
	Categories int  `json:"categories"`
	PageCap    int  `json:"page_cap"`
	Truncated  bool `json:"truncated"`
}

// Dashboard handles GET /admin/dashboard
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.GetSession(r.Context())

	counts, err := h.countCatalog(r.Context())
	if err != nil {
		h.logger.Error("Failed to load dashboard", zap.Error(err))
		middleware.RespondWithJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"session": session,
		"counts":  counts,
	})
}

// countCatalog queries the three tables concurrently; the first failure wins
func (h *AdminHandler) countCatalog(ctx context.Context) (dashboardCounts, error) {
	var counts dashboardCounts
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		products, err := h.catalog.ListProducts(ctx, service.ProductQuery{})
		counts.Products = len(products)
		return err
	})
	g.Go(func() error {
		brands, err := h.catalog.ListBrands(ctx)
		counts.Brands = len(brands)
		return err
	})
	g.Go(func() error {
		categories, err := h.catalog.ListCategories(ctx)
		counts.Categories = len(categories)
		return err
	})

	if err := g.Wait(); err != nil {
		return counts, err
	}
	counts.PageCap = recordstore.DefaultMaxRecords
	counts.Truncated = counts.Products >= counts.PageCap ||
		counts.Brands >= counts.PageCap ||
		counts.Categories >= counts.PageCap
	return counts, nil
}

// ListProducts handles GET /admin/productos, inactive products included
func (h *AdminHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	products, err := h.catalog.ListProducts(r.Context(), service.ProductQuery{
		Search: query.Get("q"),
		Limit:  cast.ToInt(query.Get("limit")),
	})
	if err != nil {
		h.logger.Error("Admin product listing failed", zap.Error(err))
		respondWithListError(w, "products", err)
		return
	}
	respondWithList(w, "products", products, len(products))
}

// EditProduct handles GET /admin/productos/edit/{id}
func (h *AdminHandler) EditProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	product, err := h.catalog.GetProduct(r.Context(), id)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repository.ErrProductNotFound) {
			status = http.StatusNotFound
		} else {
			h.logger.Error("Failed to load product for editing", zap.String("id", id), zap.Error(err))
		}
		middleware.RespondWithJSON(w, status, map[string]interface{}{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"product": product,
	})
}

// ListUsers handles GET /admin/usuarios
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListUsers(r.Context())
	if err != nil {
		h.logger.Error("Failed to list users", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list users")
		return
	}

	profiles := make([]UserProfile, 0, len(users))
	for _, user := range users {
		profiles = append(profiles, profileOf(user))
	}
	respondWithList(w, "users", profiles, len(profiles))
}

// CreateUser handles POST /admin/usuarios
func (h *AdminHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Create user validation failed", zap.Error(err))
		respondWithDecodeError(w, err)
		return
	}

	user, err := h.users.CreateUser(r.Context(), service.NewUserInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Role:     domain.Role(req.Role),
		Company:  req.Company,
		Phone:    req.Phone,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUserAlreadyExists):
			middleware.RespondWithError(w, http.StatusConflict, "user with this email already exists")
		case errors.Is(err, service.ErrInvalidRole):
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid role")
		default:
			h.logger.Error("Failed to create user", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create user")
		}
		return
	}

	creator, _ := middleware.GetSession(r.Context())
	h.logger.Info("User created",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)),
		zap.String("created_by", creator.Email),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, profileOf(user))
}
