package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListProducts_BuildsFilter(t *testing.T) {
	repo := &mockCatalogRepository{}
	svc := NewCatalogService(repo)

	_, err := svc.ListProducts(context.Background(), ProductQuery{Search: `aceite "extra"`, Limit: 20, ActiveOnly: true})
	require.NoError(t, err)
	assert.Equal(t, `AND({Active}, SEARCH(LOWER("aceite \"extra\""), LOWER({Name})))`, repo.lastOpts.Filter)
	assert.Equal(t, 20, repo.lastOpts.MaxRecords)
}

func TestListProducts_ClampsLimit(t *testing.T) {
	repo := &mockCatalogRepository{}
	svc := NewCatalogService(repo)

	for _, limit := range []int{-1, 0, 101, 5000} {
		_, err := svc.ListProducts(context.Background(), ProductQuery{Limit: limit})
		require.NoError(t, err)
		assert.Equal(t, MaxPageSize, repo.lastOpts.MaxRecords, "limit %d", limit)
		assert.Empty(t, repo.lastOpts.Filter)
	}
}

func TestBrandsAndCategoriesUseDefaultOptions(t *testing.T) {
	repo := &mockCatalogRepository{}
	svc := NewCatalogService(repo)

	brands, err := svc.ListBrands(context.Background())
	require.NoError(t, err)
	assert.Empty(t, brands)
	assert.Zero(t, repo.lastOpts)

	categories, err := svc.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Empty(t, categories)
}
