package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/shortloop/shortloop/internal/handlers"
	"github.com/shortloop/shortloop/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testOutput struct {
	Body string `json:"body"`
}

func setupMetaAPI(t *testing.T) (*chi.Mux, chan handlers.RequestMeta) {
	t.Helper()

	router := chi.NewMux()
	api := humachi.New(router, huma.DefaultConfig("Test", "1.0.0"))
	api.UseMiddleware(middleware.RequestMeta(api))

	metaChan := make(chan handlers.RequestMeta, 1)

	huma.Get(api, "/test", func(ctx context.Context, _ *struct{}) (*testOutput, error) {
		metaChan <- handlers.RequestMetaFromContext(ctx)

		return &testOutput{Body: "ok"}, nil
	})

	return router, metaChan
}

func TestRequestMeta(t *testing.T) {
	t.Run("captures user-agent and referrer", func(t *testing.T) {
		router, metaChan := setupMetaAPI(t)

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("User-Agent", "TestAgent/1.0")
		req.Header.Set("Referer", "https://news.example.com")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		meta := <-metaChan
		assert.Equal(t, "TestAgent/1.0", meta.UserAgent)
		assert.Equal(t, "https://news.example.com", meta.Referrer)
	})

	t.Run("takes the first X-Forwarded-For entry", func(t *testing.T) {
		router, metaChan := setupMetaAPI(t)

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1, 172.16.0.1")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		meta := <-metaChan
		assert.Equal(t, "203.0.113.7", meta.ClientIP)
	})

	t.Run("uses X-Real-IP when X-Forwarded-For is absent", func(t *testing.T) {
		router, metaChan := setupMetaAPI(t)

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("X-Real-IP", "203.0.113.7")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		meta := <-metaChan
		assert.Equal(t, "203.0.113.7", meta.ClientIP)
	})

	t.Run("falls back to the host without a port", func(t *testing.T) {
		router, metaChan := setupMetaAPI(t)

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Host = "192.0.2.1:1234"

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		meta := <-metaChan
		assert.Equal(t, "192.0.2.1", meta.ClientIP)
	})
}
