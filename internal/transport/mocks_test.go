package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"storefront/internal/config"
	"storefront/internal/domain"
	"storefront/internal/middleware"
	"storefront/internal/recordstore"
	"storefront/internal/repository"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type mockUserRepository struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{users: make(map[string]*domain.User)}
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.users[user.Email]; exists {
		return repository.ErrUserAlreadyExists
	}
	m.users[user.Email] = user
	return nil
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, exists := m.users[email]
	if !exists {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepository) List(ctx context.Context) ([]*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	users := make([]*domain.User, 0, len(m.users))
	for _, user := range m.users {
		users = append(users, user)
	}
	return users, nil
}

type mockRefreshTokenRepository struct {
	mu     sync.Mutex
	tokens map[string]*domain.RefreshToken
}

func newMockRefreshTokenRepository() *mockRefreshTokenRepository {
	return &mockRefreshTokenRepository{tokens: make(map[string]*domain.RefreshToken)}
}

func (m *mockRefreshTokenRepository) Create(ctx context.Context, token *domain.RefreshToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[token.Token] = token
	return nil
}

func (m *mockRefreshTokenRepository) FindByToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
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
	m.mu.Lock()
	defer m.mu.Unlock()
	rt, exists := m.tokens[token]
	if !exists {
		return repository.ErrRefreshTokenNotFound
	}
	rt.Revoked = true
	return nil
}

func (m *mockRefreshTokenRepository) RevokeAllForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, rt := range m.tokens {
		if rt.UserID == userID && !rt.Revoked {
			rt.Revoked = true
			n++
		}
	}
	return n, nil
}

// upstreamTables fakes the record store: each table answers with a fixed
// status and body. Requests for a single record look up "<table>/<id>".
type upstreamTables map[string]upstreamReply

type upstreamReply struct {
	status int
	body   string
}

func records(fields ...map[string]interface{}) upstreamReply {
	type rec struct {
		ID          string                 `json:"id"`
		CreatedTime string                 `json:"createdTime"`
		Fields      map[string]interface{} `json:"fields"`
	}
	out := struct {
		Records []rec `json:"records"`
	}{Records: []rec{}}
	for i, f := range fields {
		out.Records = append(out.Records, rec{
			ID:          "rec" + string(rune('A'+i)),
			CreatedTime: "2024-05-01T10:00:00.000Z",
			Fields:      f,
		})
	}
	raw, _ := json.Marshal(out)
	return upstreamReply{status: http.StatusOK, body: string(raw)}
}

type testEnv struct {
	router   http.Handler
	auth     service.AuthService
	users    *mockUserRepository
	requests chan *http.Request
}

const testPrefix = "/v0/appTest/"

func newTestEnv(t *testing.T, tables upstreamTables) *testEnv {
	t.Helper()

	requests := make(chan *http.Request, 32)
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case requests <- r:
		default:
		}
		key := strings.TrimPrefix(r.URL.Path, testPrefix)
		reply, ok := tables[key]
		if !ok {
			reply = upstreamReply{status: http.StatusNotFound, body: `{"error":"NOT_FOUND"}`}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(reply.status)
		w.Write([]byte(reply.body))
	}))
	t.Cleanup(upstream.Close)

	logger := zap.NewNop()
	storeCfg := config.RecordStoreConfig{
		APIKey:          "test-key",
		BaseID:          "appTest",
		BaseURL:         upstream.URL,
		ProductsTable:   "Products",
		BrandsTable:     "Brands",
		CategoriesTable: "Categories",
	}

	catalog := service.NewCatalogService(
		repository.NewCatalogRepository(recordstore.NewClient(storeCfg, logger), storeCfg),
	)
	users := newMockUserRepository()
	auth := service.NewAuthService(
		users,
		newMockRefreshTokenRepository(),
		"test-secret",
		15*time.Minute,
		24*time.Hour,
	)

	cookies := CookieOptions{RefreshTTL: 24 * time.Hour}
	authHandler := NewAuthHandler(auth, cookies, logger)
	catalogHandler := NewCatalogHandler(catalog, logger)
	adminHandler := NewAdminHandler(authHandler, catalog, logger)
	noLimit := func(next http.Handler) http.Handler { return next }

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		catalogHandler.RegisterRoutes(r)
		r.Route("/auth", func(r chi.Router) {
			authHandler.RegisterRoutes(r, noLimit)
		})
	})
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.AccessGate(auth, logger))
		adminHandler.RegisterRoutes(r, noLimit)
	})

	return &testEnv{router: r, auth: auth, users: users, requests: requests}
}

func (e *testEnv) serve(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) seedUser(t *testing.T, email, password string, role domain.Role) {
	t.Helper()
	_, err := e.auth.CreateUser(context.Background(), service.NewUserInput{
		Email:    email,
		Password: password,
		FullName: "Test " + string(role),
		Role:     role,
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
}

// sessionCookies signs in through the API and returns the cookies it sets
func (e *testEnv) sessionCookies(t *testing.T, email, password string) []*http.Cookie {
	t.Helper()
	body := `{"email":"` + email + `","password":"` + password + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := e.serve(req)
	if w.Code != http.StatusOK {
		t.Fatalf("login %s: status %d: %s", email, w.Code, w.Body.String())
	}
	return w.Result().Cookies()
}

func withCookies(req *http.Request, cookies []*http.Cookie) *http.Request {
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
	return out
}
