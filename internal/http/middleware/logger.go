package middleware

import (
	"context"
	"time"

	"github.com/consensuslabs/storefront/backend/internal/database"
	"github.com/consensuslabs/storefront/backend/internal/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader carries the request ID in both directions
const RequestIDHeader = "X-Request-ID"

const requestIDKey = "requestID"

// RequestLoggerMiddleware assigns a request ID, exposes a request-scoped
// logger and logs each completed request
func RequestLoggerMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.New().String()
		}
		start := time.Now()

		contextLogger := log.WithRequestID(requestID)
		c.Set(loggerKey, contextLogger)
		c.Set(requestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)

		// SQL logs of this request carry the same ID
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), database.RequestIDKey, requestID))

		c.Next()

		statusCode := c.Writer.Status()
		fields := map[string]interface{}{
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"status":    statusCode,
			"latency":   time.Since(start).String(),
			"clientIP":  c.ClientIP(),
			"userAgent": c.Request.UserAgent(),
		}

		switch {
		case statusCode >= 500:
			contextLogger.LogError(nil, "Server error processing request", fields)
		case statusCode >= 400:
			contextLogger.LogWarn("Client error processing request", fields)
		default:
			contextLogger.LogInfo("Request completed", fields)
		}
	}
}
