package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/consensuslabs/storefront/backend/internal/config"
	"github.com/consensuslabs/storefront/backend/testhelper"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, autoMigrate bool) *config.Config {
	t.Helper()
	cfg := &config.Config{Environment: "test"}
	cfg.Server.Port = 8081
	cfg.Database.Driver = "sqlite"
	cfg.Database.Path = filepath.Join(t.TempDir(), "app.db")
	cfg.Cache.KeyPrefix = "storefront-test"
	cfg.Migration.AutoMigrate = &autoMigrate
	cfg.Migration.TableName = "schema_migrations"
	return cfg
}

func newTestApp(t *testing.T, cfg *config.Config) (*App, *testhelper.TestLogger) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := testhelper.NewTestLogger(false)
	app, err := NewApp(context.Background(), cfg, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	return app, log
}

func serve(app *App, method, path string, body []byte) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	app.router.ServeHTTP(w, req)
	return w
}

func TestAppStartupMigratesAndIsReady(t *testing.T) {
	app, log := newTestApp(t, testConfig(t, true))

	w := serve(app, http.MethodGet, "/health/ready", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, log.HasWarning("Live schema does not match mapped entities"))

	w = serve(app, http.MethodGet, "/migrations", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []struct {
			Name    string `json:"name"`
			Applied bool   `json:"applied"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data)
	for _, entry := range resp.Data {
		assert.True(t, entry.Applied, entry.Name)
	}
}

func TestAppSkipsMigrationsWhenDisabled(t *testing.T) {
	app, log := newTestApp(t, testConfig(t, false))

	w := serve(app, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(app, http.MethodGet, "/health/ready", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "NOT_READY")
	assert.True(t, log.HasWarning("Live schema does not match mapped entities"))
}

func TestAppOrderInfoRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig(t, true)
	cfg.Redis.Enabled = true
	cfg.Redis.Addr = mr.Addr()

	app, _ := newTestApp(t, cfg)
	now := time.Now()
	require.NoError(t, app.db.Exec(
		"INSERT INTO users (id, email, password_hash, email_verified, created_at, updated_at) VALUES (1, ?, ?, ?, ?, ?)",
		"buyer@example.com", "hash", false, now, now).Error)
	require.NoError(t, app.db.Exec(
		"INSERT INTO orders (id, user_id, status, total_cents, created_at, updated_at) VALUES (42, 1, ?, ?, ?, ?)",
		"pending", 1999, now, now).Error)

	w := serve(app, http.MethodPost, "/orders/42/info", []byte(`{"info":"gift wrap"}`))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = serve(app, http.MethodGet, "/orders/42/info", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "gift wrap")
	assert.True(t, mr.Exists("storefront-test:order_info:42"))

	w = serve(app, http.MethodPost, "/orders/42/info", []byte(`{"info":"again"}`))
	assert.Equal(t, http.StatusConflict, w.Code)

	w = serve(app, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "storefront_migrations_total"))
}
