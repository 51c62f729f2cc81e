package repository

import (
	"context"
	"errors"

	"storefront/internal/config"
	"storefront/internal/domain"
	"storefront/internal/normalizer"
	"storefront/internal/recordstore"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// ListOptions narrows a catalog query. The zero value lists the first page
// of every record.
type ListOptions struct {
	Filter     string
	MaxRecords int
}

// RecordSource is the subset of the record store client used by the catalog
type RecordSource interface {
	List(ctx context.Context, table string, params recordstore.ListParams) ([]recordstore.Record, error)
	Get(ctx context.Context, table, id string) (*recordstore.Record, error)
}

// CatalogRepository defines read access to catalog data. Upstream failures are
// returned as *recordstore.RemoteQueryError, never as a partial result.
type CatalogRepository interface {
	ListProducts(ctx context.Context, opts ListOptions) ([]*domain.Product, error)
	FindProduct(ctx context.Context, id string) (*domain.Product, error)
	FindProductBySlug(ctx context.Context, slug string, activeOnly bool) (*domain.Product, error)
	ListBrands(ctx context.Context, opts ListOptions) ([]*domain.Brand, error)
	ListCategories(ctx context.Context, opts ListOptions) ([]*domain.Category, error)
}

type catalogRepository struct {
	source RecordSource
	tables config.RecordStoreConfig
}

// NewCatalogRepository creates a new instance of CatalogRepository
func NewCatalogRepository(source RecordSource, tables config.RecordStoreConfig) CatalogRepository {
	return &catalogRepository{source: source, tables: tables}
}

func (r *catalogRepository) list(ctx context.Context, table string, opts ListOptions) ([]recordstore.Record, error) {
	return r.source.List(ctx, table, recordstore.ListParams{
		Filter:     opts.Filter,
		MaxRecords: opts.MaxRecords,
	})
}

// ListProducts retrieves normalized products matching opts
func (r *catalogRepository) ListProducts(ctx context.Context, opts ListOptions) ([]*domain.Product, error) {
	records, err := r.list(ctx, r.tables.ProductsTable, opts)
	if err != nil {
		return nil, err
	}

	products := make([]*domain.Product, 0, len(records))
	for _, record := range records {
		products = append(products, normalizer.NormalizeProduct(record))
	}
	return products, nil
}

// FindProduct retrieves a product by record ID
func (r *catalogRepository) FindProduct(ctx context.Context, id string) (*domain.Product, error) {
	record, err := r.source.Get(ctx, r.tables.ProductsTable, id)
	if err != nil {
		if recordstore.IsNotFound(err) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return normalizer.NormalizeProduct(*record), nil
}

// FindProductBySlug retrieves the first product whose derived slug matches.
// Slugs are not unique, so later matches are ignored. With activeOnly set,
// inactive products are treated as missing.
func (r *catalogRepository) FindProductBySlug(ctx context.Context, slug string, activeOnly bool) (*domain.Product, error) {
	filter := slugFormula(slug)
	if activeOnly {
		filter = recordstore.And(activeFormula, filter)
	}

	products, err := r.ListProducts(ctx, ListOptions{Filter: filter})
	if err != nil {
		return nil, err
	}

	for _, product := range products {
		if product.Slug == slug && (product.Active || !activeOnly) {
			return product, nil
		}
	}
	return nil, ErrProductNotFound
}

// ListBrands retrieves normalized brands matching opts
func (r *catalogRepository) ListBrands(ctx context.Context, opts ListOptions) ([]*domain.Brand, error) {
	records, err := r.list(ctx, r.tables.BrandsTable, opts)
	if err != nil {
		return nil, err
	}

	brands := make([]*domain.Brand, 0, len(records))
	for _, record := range records {
		brands = append(brands, normalizer.NormalizeBrand(record))
	}
	return brands, nil
}

// ListCategories retrieves normalized categories matching opts
func (r *catalogRepository) ListCategories(ctx context.Context, opts ListOptions) ([]*domain.Category, error) {
	records, err := r.list(ctx, r.tables.CategoriesTable, opts)
	if err != nil {
		return nil, err
	}

	categories := make([]*domain.Category, 0, len(records))
	for _, record := range records {
		categories = append(categories, normalizer.NormalizeCategory(record))
	}
	return categories, nil
}

// activeFormula matches records whose Active checkbox is ticked
const activeFormula = "{" + normalizer.FieldActive + "}"

// slugFormula mirrors Slugify inside the record store so that only candidate
// rows come back. Trimming uses the same whitespace class as the hyphen
// replacement since TRIM only strips ASCII spaces.
func slugFormula(slug string) string {
	space := normalizer.WhitespaceClass
	name := "LOWER({" + normalizer.FieldName + "})"
	trimmed := "REGEX_REPLACE(" + name + ", " + recordstore.Quote("^"+space+"+|"+space+"+$") + `, "")`
	return "REGEX_REPLACE(" + trimmed + ", " + recordstore.Quote(space+"+") + `, "-") = ` + recordstore.Quote(slug)
}
