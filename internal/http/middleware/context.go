package middleware

import (
	"github.com/consensuslabs/storefront/backend/internal/logger"
	"github.com/gin-gonic/gin"
)

const loggerKey = "logger"

// GetLogger retrieves the request-scoped logger from the gin context
func GetLogger(c *gin.Context) logger.Logger {
	if log, exists := c.Get(loggerKey); exists {
		if contextLogger, ok := log.(logger.Logger); ok {
			return contextLogger
		}
	}
	return logger.NewNop()
}

// GetRequestID returns the request ID assigned by RequestLoggerMiddleware
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
