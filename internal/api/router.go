package api

import (
	"github.com/gin-gonic/gin"

	"github.com/nsukonny/ecurring-sync/internal/api/cron"
	v1 "github.com/nsukonny/ecurring-sync/internal/api/v1"
	"github.com/nsukonny/ecurring-sync/internal/rest/middleware"
)

type Handlers struct {
	Health       *v1.HealthHandler
	Subscription *v1.SubscriptionHandler
	CronImport   *cron.ImportHandler
}

func NewRouter(handlers Handlers) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.RequestIDMiddleware)
	router.Use(middleware.IdentityMiddleware)
	router.Use(middleware.ErrorHandler())

	router.GET("/health", handlers.Health.Health)

	// v1 routes
	v1Group := router.Group("/v1")
	registerV1Routes(v1Group, handlers)

	return router
}

func registerV1Routes(router *gin.RouterGroup, handlers Handlers) {
	subscriptions := router.Group("/subscriptions")
	{
		subscriptions.GET("", handlers.Subscription.ListSubscriptions)
		subscriptions.POST("/cancel", handlers.Subscription.CancelSubscription)
	}

	crons := router.Group("/cron")
	{
		crons.POST("/import", handlers.CronImport.ImportActiveCustomers)
	}
}
