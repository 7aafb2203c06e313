package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// responseHandler implements the ResponseHandler interface
type responseHandler struct {
	logger Logger
}

// NewResponseHandler creates a new instance of ResponseHandler
func NewResponseHandler(logger Logger) ResponseHandler {
	return &responseHandler{
		logger: logger,
	}
}

func (h *responseHandler) success(c *gin.Context, status int, data interface{}, message string) {
	c.JSON(status, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func (h *responseHandler) failure(c *gin.Context, status int, code, message, field string) {
	c.JSON(status, Response{
		Success: false,
		Error: &Error{
			Code:    code,
			Message: message,
			Field:   field,
		},
	})
}

// SuccessResponse sends a 200 response with optional data and message
func (h *responseHandler) SuccessResponse(c *gin.Context, data interface{}, message string) {
	h.success(c, http.StatusOK, data, message)
}

// CreatedResponse sends a 201 response
func (h *responseHandler) CreatedResponse(c *gin.Context, data interface{}, message string) {
	h.success(c, http.StatusCreated, data, message)
}

// ErrorResponse sends an error response with status code, error code, and message
func (h *responseHandler) ErrorResponse(c *gin.Context, status int, code, message string, err error) {
	if err != nil {
		h.logger.LogError(err, message, map[string]interface{}{
			"path":   c.Request.URL.Path,
			"status": status,
		})
	}
	h.failure(c, status, code, message, "")
}

// ValidationErrorResponse sends a validation error response
func (h *responseHandler) ValidationErrorResponse(c *gin.Context, field, message string) {
	h.failure(c, http.StatusBadRequest, "VALIDATION_ERROR", message, field)
}

// NotFoundResponse sends a not found error response
func (h *responseHandler) NotFoundResponse(c *gin.Context, message string) {
	h.failure(c, http.StatusNotFound, "NOT_FOUND", message, "")
}

// ConflictResponse sends a conflict error response
func (h *responseHandler) ConflictResponse(c *gin.Context, message string) {
	h.failure(c, http.StatusConflict, "CONFLICT", message, "")
}

// InternalErrorResponse sends an internal server error response
func (h *responseHandler) InternalErrorResponse(c *gin.Context, message string, err error) {
	if err != nil {
		h.logger.LogError(err, message, map[string]interface{}{
			"path": c.Request.URL.Path,
		})
	}
	h.failure(c, http.StatusInternalServerError, "INTERNAL_ERROR", message, "")
}
