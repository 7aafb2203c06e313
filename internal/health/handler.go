package health

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const checkTimeout = 2 * time.Second

// Handler handles health check related endpoints
type Handler struct {
	responseHandler ResponseHandler
	migrations      MigrationStatus
	checks          []Check
	started         time.Time
}

// NewHandler creates a new health check handler. migrations may be nil.
func NewHandler(responseHandler ResponseHandler, migrations MigrationStatus, checks ...Check) *Handler {
	return &Handler{
		responseHandler: responseHandler,
		migrations:      migrations,
		checks:          checks,
		started:         time.Now(),
	}
}

// RegisterRoutes registers the health routes
func (h *Handler) RegisterRoutes(router gin.IRouter) {
	router.GET("/health", h.HandleHealthCheck)
	router.GET("/health/ready", h.HandleReadiness)
}

// Status is the readiness report
type Status struct {
	Checks            map[string]string `json:"checks"`
	PendingMigrations []string          `json:"pendingMigrations"`
	Uptime            string            `json:"uptime"`
}

// HandleHealthCheck reports that the process is serving requests
func (h *Handler) HandleHealthCheck(c *gin.Context) {
	h.responseHandler.SuccessResponse(c, gin.H{"uptime": time.Since(h.started).Round(time.Second).String()}, "Health check successful")
}

// HandleReadiness runs every dependency check and fails while any check
// fails or migrations are pending
func (h *Handler) HandleReadiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), checkTimeout)
	defer cancel()

	status := Status{
		Checks:            make(map[string]string, len(h.checks)),
		PendingMigrations: []string{},
		Uptime:            time.Since(h.started).Round(time.Second).String(),
	}
	var failed []string

	for _, check := range h.checks {
		if err := check.Run(ctx); err != nil {
			status.Checks[check.Name] = err.Error()
			failed = append(failed, check.Name)
			continue
		}
		status.Checks[check.Name] = "ok"
	}

	if h.migrations != nil {
		pending, err := h.migrations.Pending(ctx)
		switch {
		case err != nil:
			status.Checks["migrations"] = err.Error()
			failed = append(failed, "migrations")
		case len(pending) > 0:
			status.PendingMigrations = pending
			status.Checks["migrations"] = fmt.Sprintf("%d pending", len(pending))
			failed = append(failed, "migrations")
		default:
			status.Checks["migrations"] = "ok"
		}
	}

	if len(failed) > 0 {
		h.responseHandler.ErrorResponse(c, http.StatusServiceUnavailable, "NOT_READY",
			"Service not ready: "+strings.Join(failed, ", "), nil)
		return
	}
	h.responseHandler.SuccessResponse(c, status, "Service ready")
}
