package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveMigration(t *testing.T) {
	c := NewCollector()

	c.ObserveMigration("20240105090000-create-users", "up", 10*time.Millisecond, nil)
	c.ObserveMigration("20240105090000-create-users", "up", 10*time.Millisecond, nil)
	c.ObserveMigration("20240402101500-remove-stock-from-products", "down", time.Millisecond, errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(c.MigrationsTotal.WithLabelValues("20240105090000-create-users", "up", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.MigrationsTotal.WithLabelValues("20240402101500-remove-stock-from-products", "down", "error")))
}

func TestGaugesAndCounters(t *testing.T) {
	c := NewCollector()

	c.SetPending(3)
	assert.Equal(t, 3.0, testutil.ToFloat64(c.PendingMigrations))

	c.AddArchived("m", "products", "stock", 4)
	assert.Equal(t, 4.0, testutil.ToFloat64(c.ArchivedRows.WithLabelValues("m", "products", "stock")))

	c.CacheHit("hit")
	c.CacheHit("miss")
	c.CacheHit("hit")
	assert.Equal(t, 2.0, testutil.ToFloat64(c.CacheLookups.WithLabelValues("hit")))
}

func TestMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c := NewCollector()

	router := gin.New()
	router.Use(c.Middleware())
	router.GET("/orders/:id/info", func(ctx *gin.Context) {
		ctx.Status(http.StatusNoContent)
	})
	router.GET("/metrics", gin.WrapH(c.Handler()))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orders/7/info", nil))
	require.Equal(t, http.StatusNoContent, w.Code)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.HTTPRequestsTotal.WithLabelValues("GET", "/orders/:id/info", "204")))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "storefront_http_requests_total"))
}
