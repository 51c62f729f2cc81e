package server

import (
	"fmt"
	"net/http"
	"time"

	"storefront/internal/config"
	"storefront/internal/database"
	custommiddleware "storefront/internal/middleware"
	"storefront/internal/repository"
	"storefront/internal/service"
	"storefront/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Dependencies are the external collaborators the server is built on.
// Redis is optional; without it login is not rate limited.
type Dependencies struct {
	DB          database.Service
	RecordStore repository.RecordSource
	Redis       *redis.Client
}

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	deps   Dependencies
}

func NewServer(cfg *config.Config, logger *zap.Logger, deps Dependencies) *Server {
	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		deps:   deps,
	}
	server.Handler = server.routes()
	return server
}

func (s *Server) routes() http.Handler {
	router := chi.NewRouter()
	for _, mw := range custommiddleware.BaseStack(s.config.Server.TrustProxy) {
		router.Use(mw)
	}
	router.Use(custommiddleware.LoggingMiddleware(s.logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(s.logger))

	router.Get("/health", s.health)

	db := s.deps.DB.DB()
	authService := service.NewAuthService(
		repository.NewUserRepository(db),
		repository.NewRefreshTokenRepository(db),
		s.config.JWT.Secret,
		time.Duration(s.config.JWT.AccessExpiry)*time.Minute,
		time.Duration(s.config.JWT.RefreshExpiry)*24*time.Hour,
	)
	catalogService := service.NewCatalogService(
		repository.NewCatalogRepository(s.deps.RecordStore, s.config.RecordStore),
	)

	cookies := transport.CookieOptions{
		Secure:     !s.config.IsDevelopment(),
		RefreshTTL: time.Duration(s.config.JWT.RefreshExpiry) * 24 * time.Hour,
	}
	authHandler := transport.NewAuthHandler(authService, cookies, s.logger)
	catalogHandler := transport.NewCatalogHandler(catalogService, s.logger)
	adminHandler := transport.NewAdminHandler(authHandler, catalogService, s.logger)

	apiLogin := s.loginLimiter("rl:api-login")
	adminLogin := s.loginLimiter("rl:admin-login")

	router.Route("/api", func(r chi.Router) {
		r.Use(custommiddleware.CORSMiddleware(s.config.Server.AllowedOrigins, s.config.IsDevelopment()))
		catalogHandler.RegisterRoutes(r)
		r.Route("/auth", func(r chi.Router) {
			authHandler.RegisterRoutes(r, apiLogin)
		})
	})

	router.Route("/admin", func(r chi.Router) {
		r.Use(custommiddleware.AccessGate(authService, s.logger))
		adminHandler.RegisterRoutes(r, adminLogin)
	})

	return router
}

// loginLimiter throttles sign-in attempts when Redis is configured
func (s *Server) loginLimiter(prefix string) func(http.Handler) http.Handler {
	if s.deps.Redis == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return custommiddleware.RateLimitMiddleware(s.deps.Redis, custommiddleware.RateLimitConfig{
		RequestsPerWindow: s.config.RateLimit.Requests,
		Window:            s.config.RateLimit.Window,
		KeyPrefix:         prefix,
	}, s.logger)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	db := s.deps.DB.Health()
	status := http.StatusOK
	if db["status"] != "up" {
		status = http.StatusServiceUnavailable
	}

	body := map[string]interface{}{
		"status":   "ok",
		"database": db,
	}
	if status != http.StatusOK {
		body["status"] = "degraded"
	}
	if s.deps.Redis != nil {
		if err := s.deps.Redis.Ping(r.Context()).Err(); err != nil {
			body["redis"] = "down"
		} else {
			body["redis"] = "up"
		}
	}

	custommiddleware.RespondWithJSON(w, status, body)
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if err := s.deps.DB.Close(); err != nil {
		s.logger.Error("Failed to close database connection", zap.Error(err))
	}
	if s.deps.Redis != nil {
		if err := s.deps.Redis.Close(); err != nil {
			s.logger.Error("Failed to close redis client", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
