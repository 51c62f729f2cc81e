package service

import (
	"context"

	"storefront/internal/domain"
	"storefront/internal/normalizer"
	"storefront/internal/recordstore"
	"storefront/internal/repository"
)

// MaxPageSize is the largest single page a caller may request
const MaxPageSize = recordstore.DefaultMaxRecords

// ProductQuery narrows a storefront product listing
type ProductQuery struct {
	Search     string
	Limit      int
	ActiveOnly bool
}

// CatalogService exposes catalog reads to the transport layer
type CatalogService interface {
	ListProducts(ctx context.Context, q ProductQuery) ([]*domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	GetProductBySlug(ctx context.Context, slug string, activeOnly bool) (*domain.Product, error)
	ListBrands(ctx context.Context) ([]*domain.Brand, error)
	ListCategories(ctx context.Context) ([]*domain.Category, error)
}

type catalogService struct {
	repo repository.CatalogRepository
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(repo repository.CatalogRepository) CatalogService {
	return &catalogService{repo: repo}
}

func (s *catalogService) ListProducts(ctx context.Context, q ProductQuery) ([]*domain.Product, error) {
	var active, search string
	if q.ActiveOnly {
		active = "{" + normalizer.FieldActive + "}"
	}
	if q.Search != "" {
		search = recordstore.ContainsFold(normalizer.FieldName, q.Search)
	}

	return s.repo.ListProducts(ctx, repository.ListOptions{
		Filter:     recordstore.And(active, search),
		MaxRecords: clampLimit(q.Limit),
	})
}

func (s *catalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.FindProduct(ctx, id)
}

func (s *catalogService) GetProductBySlug(ctx context.Context, slug string, activeOnly bool) (*domain.Product, error) {
	return s.repo.FindProductBySlug(ctx, slug, activeOnly)
}

func (s *catalogService) ListBrands(ctx context.Context) ([]*domain.Brand, error) {
	return s.repo.ListBrands(ctx, repository.ListOptions{})
}

func (s *catalogService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.repo.ListCategories(ctx, repository.ListOptions{})
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > MaxPageSize {
		return MaxPageSize
	}
	return limit
}
