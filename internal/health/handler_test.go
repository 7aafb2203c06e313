package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	httpHandler "github.com/consensuslabs/storefront/backend/internal/http"
	"github.com/consensuslabs/storefront/backend/testhelper"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMigrations struct {
	pending []string
	err     error
}

func (f fakeMigrations) Pending(context.Context) ([]string, error) {
	return f.pending, f.err
}

func serve(h *Handler, path string) (*httptest.ResponseRecorder, httpHandler.Response) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h.RegisterRoutes(router)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	var resp httpHandler.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func responses() ResponseHandler {
	return httpHandler.NewResponseHandler(testhelper.NewTestLogger(false))
}

func TestHealthCheck(t *testing.T) {
	w, resp := serve(NewHandler(responses(), nil), "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)
}

func TestReadiness(t *testing.T) {
	ok := Check{Name: "database", Run: func(context.Context) error { return nil }}
	down := Check{Name: "redis", Run: func(context.Context) error { return errors.New("connection refused") }}

	t.Run("ready", func(t *testing.T) {
		w, resp := serve(NewHandler(responses(), fakeMigrations{}, ok), "/health/ready")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, resp.Success)
	})

	t.Run("pending migrations", func(t *testing.T) {
		h := NewHandler(responses(), fakeMigrations{pending: []string{"20240402101500-remove-stock-from-products"}}, ok)
		w, resp := serve(h, "/health/ready")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		require.NotNil(t, resp.Error)
		assert.Contains(t, resp.Error.Message, "migrations")
	})

	t.Run("failing check", func(t *testing.T) {
		w, resp := serve(NewHandler(responses(), nil, ok, down), "/health/ready")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, resp.Error.Message, "redis")
	})

	t.Run("migration status error", func(t *testing.T) {
		w, _ := serve(NewHandler(responses(), fakeMigrations{err: errors.New("no ledger")}, ok), "/health/ready")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}
