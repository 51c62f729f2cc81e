package service

import (
	"context"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/google/uuid"
)

// Mock repositories for testing
type mockUserRepository struct {
	users map[string]*domain.User
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{users: make(map[string]*domain.User)}
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if _, exists := m.users[user.Email]; exists {
		return repository.ErrUserAlreadyExists
	}
	m.users[user.Email] = user
	return nil
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, exists := m.users[email]
	if !exists {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	for _, user := range m.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepository) List(ctx context.Context) ([]*domain.User, error) {
	users := make([]*domain.User, 0, len(m.users))
	for _, user := range m.users {
		users = append(users, user)
	}
	return users, nil
}

type mockRefreshTokenRepository struct {
	tokens map[string]*domain.RefreshToken
}

func newMockRefreshTokenRepository() *mockRefreshTokenRepository {
	return &mockRefreshTokenRepository{tokens: make(map[string]*domain.RefreshToken)}
}

func (m *mockRefreshTokenRepository) Create(ctx context.Context, token *domain.RefreshToken) error {
	m.tokens[token.Token] = token
	return nil
}

func (m *mockRefreshTokenRepository) FindByToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	rt, exists := m.tokens[token]
	if !exists {
		return nil, repository.ErrRefreshTokenNotFound
	}
	if rt.Revoked {
		return nil, repository.ErrRefreshTokenRevoked
	}
	return rt, nil
}

func (m *mockRefreshTokenRepository) Revoke(ctx context.Context, token string) error {
	rt, exists := m.tokens[token]
	if !exists {
		return repository.ErrRefreshTokenNotFound
	}
	rt.Revoked = true
	return nil
}

func (m *mockRefreshTokenRepository) RevokeAllForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	for _, rt := range m.tokens {
		if rt.UserID == userID && !rt.Revoked {
			rt.Revoked = true
			n++
		}
	}
	return n, nil
}

type mockCatalogRepository struct {
	lastOpts repository.ListOptions
	products []*domain.Product
}

func (m *mockCatalogRepository) ListProducts(ctx context.Context, opts repository.ListOptions) ([]*domain.Product, error) {
	m.lastOpts = opts
	return m.products, nil
}

func (m *mockCatalogRepository) FindProduct(ctx context.Context, id string) (*domain.Product, error) {
	for _, p := range m.products {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, repository.ErrProductNotFound
}

func (m *mockCatalogRepository) FindProductBySlug(ctx context.Context, slug string, activeOnly bool) (*domain.Product, error) {
	for _, p := range m.products {
		if p.Slug == slug && (p.Active || !activeOnly) {
			return p, nil
		}
	}
	return nil, repository.ErrProductNotFound
}

func (m *mockCatalogRepository) ListBrands(ctx context.Context, opts repository.ListOptions) ([]*domain.Brand, error) {
	m.lastOpts = opts
	return []*domain.Brand{}, nil
}

func (m *mockCatalogRepository) ListCategories(ctx context.Context, opts repository.ListOptions) ([]*domain.Category, error) {
	m.lastOpts = opts
	return []*domain.Category{}, nil
}
