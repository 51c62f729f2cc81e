package transport

import (
	"errors"
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/repository"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cast"
	"go.uber.org/zap"
)

// CatalogHandler serves the public catalog API. Every response carries the
// success/count envelope; failures keep the envelope with an empty list.
type CatalogHandler struct {
	catalog service.CatalogService
	logger  *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalog service.CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog: catalog,
		logger:  logger,
	}
}

// RegisterRoutes registers the catalog routes on r, which is mounted at /api
func (h *CatalogHandler) RegisterRoutes(r chi.Router) {
	r.Get("/brands", h.ListBrands)
	r.Get("/categories", h.ListCategories)
	r.Get("/products", h.ListProducts)
	r.Get("/products/{slug}", h.GetProductBySlug)
}

// ListBrands handles GET /api/brands
func (h *CatalogHandler) ListBrands(w http.ResponseWriter, r *http.Request) {
	brands, err := h.catalog.ListBrands(r.Context())
	if err != nil {
		h.listFailed(w, r, "brands", err)
		return
	}
	respondWithList(w, "brands", brands, len(brands))
}

// ListCategories handles GET /api/categories
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		h.listFailed(w, r, "categories", err)
		return
	}
	respondWithList(w, "categories", categories, len(categories))
}

// ListProducts handles GET /api/products?q=&limit=. Only active products are listed.
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	products, err := h.catalog.ListProducts(r.Context(), service.ProductQuery{
		Search:     query.Get("q"),
		Limit:      cast.ToInt(query.Get("limit")),
		ActiveOnly: true,
	})
	if err != nil {
		h.listFailed(w, r, "products", err)
		return
	}
	respondWithList(w, "products", products, len(products))
}

// GetProductBySlug handles GET /api/products/{slug}. Inactive products are not found.
func (h *CatalogHandler) GetProductBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	product, err := h.catalog.GetProductBySlug(r.Context(), slug, true)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithJSON(w, http.StatusNotFound, map[string]interface{}{
				"success": false,
				"error":   err.Error(),
			})
			return
		}
		h.logger.Error("Failed to fetch product", zap.String("slug", slug), zap.Error(err))
		middleware.RespondWithJSON(w, http.StatusInternalServerError, map[string]interface{}{
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

func (h *CatalogHandler) listFailed(w http.ResponseWriter, r *http.Request, key string, err error) {
	h.logger.Error("Catalog query failed",
		zap.String("resource", key),
		zap.String("request_id", requestID(r)),
		zap.Error(err),
	)
	respondWithListError(w, key, err)
}

// respondWithList writes {success:true, count, <key>: items}
func respondWithList(w http.ResponseWriter, key string, items interface{}, count int) {
	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"count":   count,
		key:       items,
	})
}

// respondWithListError writes a 500 carrying the upstream message verbatim
func respondWithListError(w http.ResponseWriter, key string, err error) {
	middleware.RespondWithJSON(w, http.StatusInternalServerError, map[string]interface{}{
		"success": false,
		"error":   err.Error(),
		"count":   0,
		key:       []interface{}{},
	})
}
