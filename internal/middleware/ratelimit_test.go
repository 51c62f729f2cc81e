package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"storefront/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newLimitedHandler(t *testing.T, limit int) (http.Handler, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	limiter := RateLimitMiddleware(client, RateLimitConfig{
		RequestsPerWindow: limit,
		Window:            time.Minute,
		KeyPrefix:         "rl:login",
	}, zap.NewNop())

	return limiter(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})), mr
}

func TestProperty_RateLimitingBlocksExcessiveRequests(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("requests beyond the window limit get 429", prop.ForAll(
		func(limit int, excess int) bool {
			handler, _ := newLimitedHandler(t, limit)

			allowed, blocked := 0, 0
			for i := 0; i < limit+excess; i++ {
				req := httptest.NewRequest(http.MethodPost, "/admin/login", nil)
				req.RemoteAddr = "192.168.1.100:5123"
				w := httptest.NewRecorder()
				handler.ServeHTTP(w, req)

				switch w.Code {
				case http.StatusOK:
					allowed++
				case http.StatusTooManyRequests:
					blocked++
				}
			}
			return allowed == limit && blocked == excess
		},
		gen.IntRange(1, 15),
		gen.IntRange(1, 10),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestRateLimit_HeadersAndSeparateClients(t *testing.T) {
	handler, _ := newLimitedHandler(t, 2)

	send := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w
	}

	first := send("10.0.0.1:1111")
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "2", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))

	// a different source port is still the same client
	assert.Equal(t, http.StatusOK, send("10.0.0.1:2222").Code)

	blocked := send("10.0.0.1:3333")
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.Equal(t, "0", blocked.Header().Get("X-RateLimit-Remaining"))
	retry, err := strconv.Atoi(blocked.Header().Get("Retry-After"))
	require.NoError(t, err)
	assert.Greater(t, retry, 0)

	assert.Equal(t, http.StatusOK, send("10.0.0.2:1111").Code)
}

func TestRateLimit_KeysBySessionUser(t *testing.T) {
	handler, mr := newLimitedHandler(t, 5)

	session := &domain.Session{UserID: uuid.NewString(), Role: domain.RoleVendedor}
	req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	req = req.WithContext(WithSession(req.Context(), session))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.True(t, mr.Exists("rl:login:user:"+session.UserID))
}

func TestRateLimit_RedisFailureAllowsRequest(t *testing.T) {
	handler, mr := newLimitedHandler(t, 1)
	mr.Close()

	req := httptest.NewRequest(http.MethodPost, "/admin/login", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
