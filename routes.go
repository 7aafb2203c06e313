package main

import (
	httpHandler "github.com/consensuslabs/storefront/backend/internal/http"
	"github.com/consensuslabs/storefront/backend/internal/http/middleware"
	"github.com/gin-gonic/gin"
)

func (a *App) setupRouter() {
	if a.config.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		httpHandler.RecoveryMiddleware(a.responseHandler, a.logger),
		middleware.RequestLoggerMiddleware(a.logger),
		httpHandler.CORSMiddleware(),
		a.metrics.Middleware(),
	)

	a.healthHandler.RegisterRoutes(router)
	a.orderHandler.RegisterRoutes(router)
	router.GET("/migrations", a.handleMigrationStatus)
	router.GET("/metrics", gin.WrapH(a.metrics.Handler()))

	a.router = router
}
