package health

import (
	"context"

	"github.com/gin-gonic/gin"
)

// ResponseHandler defines the interface for handling HTTP responses
type ResponseHandler interface {
	SuccessResponse(c *gin.Context, data interface{}, message string)
	ErrorResponse(c *gin.Context, status int, code, message string, err error)
}

// MigrationStatus reports migrations that have not been applied
type MigrationStatus interface {
	Pending(ctx context.Context) ([]string, error)
}

// Check is a named dependency probe
type Check struct {
	Name string
	Run  func(ctx context.Context) error
}
