package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/consensuslabs/storefront/backend/testhelper"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, h gin.HandlerFunc, middleware ...gin.HandlerFunc) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware...)
	router.GET("/test", h)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	var resp Response
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

func TestResponseHandler(t *testing.T) {
	log := testhelper.NewTestLogger(false)
	rh := NewResponseHandler(log)

	t.Run("success", func(t *testing.T) {
		w, resp := serve(t, func(c *gin.Context) { rh.SuccessResponse(c, map[string]int{"n": 1}, "ok") })
		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, resp.Success)
		assert.Equal(t, "ok", resp.Message)
	})

	t.Run("created", func(t *testing.T) {
		w, resp := serve(t, func(c *gin.Context) { rh.CreatedResponse(c, nil, "created") })
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.True(t, resp.Success)
	})

	t.Run("conflict", func(t *testing.T) {
		w, resp := serve(t, func(c *gin.Context) { rh.ConflictResponse(c, "exists") })
		assert.Equal(t, http.StatusConflict, w.Code)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "CONFLICT", resp.Error.Code)
	})

	t.Run("validation", func(t *testing.T) {
		w, resp := serve(t, func(c *gin.Context) { rh.ValidationErrorResponse(c, "info", "required") })
		assert.Equal(t, http.StatusBadRequest, w.Code)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "info", resp.Error.Field)
	})

	t.Run("internal error is logged", func(t *testing.T) {
		log.ClearMessages()
		w, resp := serve(t, func(c *gin.Context) { rh.InternalErrorResponse(c, "failed", errors.New("db down")) })
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "INTERNAL_ERROR", resp.Error.Code)
		require.Len(t, log.GetErrorMessages(), 1)
		assert.Equal(t, "db down", log.GetErrorMessages()[0].Fields["error"])
	})
}

func TestRecoveryMiddleware(t *testing.T) {
	log := testhelper.NewTestLogger(false)
	rh := NewResponseHandler(log)

	w, resp := serve(t, func(c *gin.Context) { panic("boom") }, RecoveryMiddleware(rh, log))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.False(t, resp.Success)
	require.NotEmpty(t, log.GetErrorMessages())
	assert.Equal(t, "panic: boom", log.GetErrorMessages()[0].Fields["error"])
}

func TestCORSMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(CORSMiddleware())
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/test", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
