package order

import (
	"errors"
	"strconv"

	apperrors "github.com/consensuslabs/storefront/backend/internal/errors"
	httpHandler "github.com/consensuslabs/storefront/backend/internal/http"
	"github.com/gin-gonic/gin"
)

// Handler defines the HTTP handler for order info operations
type Handler struct {
	service  Service
	response httpHandler.ResponseHandler
}

// NewHandler creates a new order handler
func NewHandler(service Service, response httpHandler.ResponseHandler) *Handler {
	return &Handler{
		service:  service,
		response: response,
	}
}

// RegisterRoutes registers the order and order info routes
func (h *Handler) RegisterRoutes(router gin.IRouter) {
	router.DELETE("/orders/:id", h.DeleteOrder)
	router.GET("/orders/:id/info", h.GetInfo)
	router.POST("/orders/:id/info", h.CreateInfo)
	router.DELETE("/orders/:id/info", h.DeleteInfo)
}

type createInfoRequest struct {
	Info string `json:"info" binding:"required"`
}

func (h *Handler) orderID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		h.response.ValidationErrorResponse(c, "id", apperrors.ErrMsgInvalidOrderID)
		return 0, false
	}
	return id, true
}

// GetInfo returns the info recorded for an order
func (h *Handler) GetInfo(c *gin.Context) {
	id, ok := h.orderID(c)
	if !ok {
		return
	}

	info, err := h.service.GetInfo(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "Failed to retrieve order info")
		return
	}
	h.response.SuccessResponse(c, info, "Order info retrieved successfully")
}

// CreateInfo records info for an order
func (h *Handler) CreateInfo(c *gin.Context) {
	id, ok := h.orderID(c)
	if !ok {
		return
	}

	var req createInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.response.ValidationErrorResponse(c, "info", apperrors.ErrMsgInfoRequired)
		return
	}

	info, err := h.service.CreateInfo(c.Request.Context(), id, req.Info)
	if err != nil {
		h.fail(c, err, "Failed to record order info")
		return
	}
	h.response.CreatedResponse(c, info, "Order info recorded successfully")
}

// DeleteOrder removes an order together with its info
func (h *Handler) DeleteOrder(c *gin.Context) {
	id, ok := h.orderID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteOrder(c.Request.Context(), id); err != nil {
		h.fail(c, err, "Failed to delete order")
		return
	}
	h.response.SuccessResponse(c, nil, "Order deleted successfully")
}

// DeleteInfo removes the info of an order
func (h *Handler) DeleteInfo(c *gin.Context) {
	id, ok := h.orderID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteInfo(c.Request.Context(), id); err != nil {
		h.fail(c, err, "Failed to delete order info")
		return
	}
	h.response.SuccessResponse(c, nil, "Order info deleted successfully")
}

func (h *Handler) fail(c *gin.Context, err error, message string) {
	var validation *apperrors.ValidationError
	switch {
	case errors.As(err, &validation):
		h.response.ValidationErrorResponse(c, validation.Field, validation.Message)
	case apperrors.IsConstraint(err, apperrors.ConstraintUnique):
		h.response.ConflictResponse(c, apperrors.ErrMsgInfoExists)
	case apperrors.IsConstraint(err, apperrors.ConstraintForeignKey), errors.Is(err, ErrOrderNotFound):
		h.response.NotFoundResponse(c, apperrors.ErrMsgOrderNotFound)
	case errors.Is(err, ErrInfoNotFound):
		h.response.NotFoundResponse(c, apperrors.ErrMsgInfoNotFound)
	default:
		h.response.InternalErrorResponse(c, message, err)
	}
}
