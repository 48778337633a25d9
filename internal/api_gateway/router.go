package api_gateway

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/grootboek-reconciliation-engine/internal/api_gateway/handler"
	"github.com/grootboek-reconciliation-engine/internal/api_gateway/middleware"
)

// setupRouter configures API routes and middleware for the gateway
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	transactionHandler *handler.TransactionHandler,
	accountHandler *handler.AccountHandler,
	contactHandler *handler.ContactHandler,
	ruleHandler *handler.RuleHandler,
	runHandler *handler.RunHandler,
) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.CorrelationID())
	r.Use(middleware.Logger(logger))

	// API v1 endpoints
	v1 := r.Group("/api/v1")
	{
		// Bank transaction operations
		transactions := v1.Group("/transactions")
		{
			transactions.GET("", transactionHandler.List)
			transactions.GET("/:id", transactionHandler.GetByID)
			transactions.POST("/:id/book", transactionHandler.Book)
			transactions.POST("/:id/reclassify", transactionHandler.Reclassify)
			transactions.GET("/:id/classify", transactionHandler.Classify)
		}

		// Chart of accounts (read-only)
		accounts := v1.Group("/accounts")
		{
			accounts.GET("", accountHandler.List)
			accounts.GET("/:id", accountHandler.GetByID)
		}

		// Contact directory
		contacts := v1.Group("/contacts")
		{
			contacts.GET("", contactHandler.List)
			contacts.POST("", contactHandler.Create)
			contacts.PUT("/:id/default-account", contactHandler.SetDefaultAccount)
		}

		// Keyword rules
		rules := v1.Group("/rules")
		{
			rules.GET("", ruleHandler.List)
			rules.POST("", ruleHandler.Create)
		}

		// Bulk reconciliation runs
		runs := v1.Group("/reconciliation/runs")
		{
			runs.POST("", runHandler.Start)
			runs.GET("/:id", runHandler.GetByID)
		}
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})

	// Prometheus metrics
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
