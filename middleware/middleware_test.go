package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeTokens map[string]uint

func (f fakeTokens) ParseToken(raw string) (uint, error) {
	if id, ok := f[raw]; ok {
		return id, nil
	}
	return 0, errors.New("bad token")
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"admin": c.GetUint(AdminIDKey)})
	})
	r.GET("/x", handlers...)
	return r
}

func TestRequireAdmin(t *testing.T) {
	r := newRouter(RequireAdmin(fakeTokens{"good": 7}))

	cases := []struct {
		header string
		status int
	}{
		{"", http.StatusUnauthorized},
		{"Basic abc", http.StatusUnauthorized},
		{"Bearer nope", http.StatusUnauthorized},
		{"Bearer good", http.StatusOK},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, tc.status, w.Code, tc.header)
		if tc.status == http.StatusUnauthorized {
			assert.JSONEq(t, `{"success":false,"code":"unauthorized","message":"`+messageFor(tc.header)+`"}`, w.Body.String())
		} else {
			assert.JSONEq(t, `{"admin":7}`, w.Body.String())
		}
	}
}

func messageFor(header string) string {
	if header == "Bearer nope" {
		return "invalid or expired token"
	}
	return "missing or invalid Authorization header"
}

func TestRateLimit(t *testing.T) {
	r := newRouter(RateLimit(1, 2, zap.NewNop()))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{200, 200, 429}, codes)
}

func TestRateLimitDisabled(t *testing.T) {
	r := newRouter(RateLimit(0, 0, zap.NewNop()))
	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRateLimiterStore_SweepsIdleClients(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store := newRateLimiterStore(60, 5)
	store.now = func() time.Time { return now }

	first := store.getLimiter("10.0.0.1")
	store.getLimiter("10.0.0.2")
	require.Len(t, store.limiters, 2)
	assert.Same(t, first, store.getLimiter("10.0.0.1"))

	now = now.Add(9 * time.Minute)
	store.getLimiter("10.0.0.2")
	assert.Len(t, store.limiters, 2)

	now = now.Add(2 * time.Minute)
	store.getLimiter("10.0.0.3")
	assert.Len(t, store.limiters, 2)
	assert.NotContains(t, store.limiters, "10.0.0.1")
	assert.Contains(t, store.limiters, "10.0.0.2")

	// a returning client starts with a fresh bucket
	assert.NotSame(t, first, store.getLimiter("10.0.0.1"))
}

func TestRateLimiterStore_IdleCoversRefill(t *testing.T) {
	assert.Equal(t, 10*time.Minute, newRateLimiterStore(300, 50).idleTTL)
	assert.Equal(t, 50*time.Minute, newRateLimiterStore(1, 50).idleTTL)
}
