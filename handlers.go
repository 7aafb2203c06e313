package main

import (
	"net/http"

	apperrors "github.com/consensuslabs/storefront/backend/internal/errors"
	"github.com/gin-gonic/gin"
)

// handleMigrationStatus lists every migration and whether it is applied
func (a *App) handleMigrationStatus(c *gin.Context) {
	status, err := a.runner.Status(c.Request.Context())
	if err != nil {
		a.responseHandler.ErrorResponse(c, http.StatusInternalServerError, "MIGRATION_STATUS", apperrors.ErrMsgMigrationStatus, err)
		return
	}
	a.responseHandler.SuccessResponse(c, status, "Migration status retrieved successfully")
}
