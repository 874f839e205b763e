package app

import (
	"studyplan_backend/internal/config"
	"studyplan_backend/internal/middleware"
	"studyplan_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/metrics", monitoring.PrometheusHandler())

	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		authGroup.GET("/profile", c.auth.GetProfile)

		authGroup.GET("/books", c.content.ListBooks)
		authGroup.GET("/books/:bookId/tree", c.content.GetBookTree)

		authGroup.GET("/progress/books/:bookId", c.progress.GetBookProgress)

		authGroup.POST("/plans", c.plan.CreatePlan)
		authGroup.POST("/plans/book", c.plan.CreateBookPlan)
		authGroup.POST("/plans/adaptive", c.plan.CreateAdaptivePlan)
		authGroup.GET("/plans", c.plan.ListPlans)
		authGroup.GET("/plans/:id", c.plan.GetPlan)
		authGroup.GET("/plans/:id/stats", c.plan.GetPlanStats)
	}
}
