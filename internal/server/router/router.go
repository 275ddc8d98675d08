package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"khetibook/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares.
func New(handler *handlers.Handler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	auth := r.Group("/api/auth")
	{
		auth.POST("/login", handler.Login)
		auth.POST("/signup", handler.Signup)
		auth.POST("/logout", handler.Logout)
		auth.GET("/session", handler.CurrentSession)
	}

	api := r.Group("/api", handler.RequireSession)
	{
		api.GET("/vocabulary", handler.Vocabulary)

		api.GET("/farms", handler.ListFarms)
		api.POST("/farms", handler.CreateFarm)
		api.PUT("/farms/:id", handler.UpdateFarm)
		api.GET("/farms/:id/summary", handler.FarmSummary)

		api.GET("/transactions", handler.ListTransactions)
		api.GET("/transactions/farm/:id", handler.ListFarmTransactions)
		api.GET("/transactions/common", handler.ListCommonTransactions)

		api.POST("/forms/transaction/open", handler.OpenForm)
		api.POST("/forms/transaction/derive", handler.DeriveAmount)
		api.POST("/forms/transaction/submit", handler.SubmitForm)

		api.GET("/dashboard/summary", handler.DashboardSummary)
		api.GET("/dashboard/common", handler.CommonSummary)

		api.POST("/advisor", handler.Ask)
		api.POST("/export", handler.ExportTransactions)
	}

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
