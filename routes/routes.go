package routes

import (
	"net/http"

	"menu-api/handlers"
	"menu-api/middleware"
	"menu-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine) {
	r.GET("/health", handlers.Health)

	v1 := r.Group("/api/v1")

	// ── Menu ───────────────────────────────────────────────────────
	menu := v1.Group("/menu")
	{
		menu.GET("", handlers.ListMenu)
		menu.GET("/categories", handlers.GetCategories)
		menu.GET("/price-range", handlers.GetPriceRange)
		menu.GET("/:id", handlers.GetMenuItem)

		admin := menu.Group("")
		admin.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleAdmin))
		{
			admin.POST("", handlers.CreateMenuItem)
			admin.PUT("/:id", handlers.UpdateMenuItem)
			admin.DELETE("/:id", handlers.DeleteMenuItem)
		}
	}

	// ── Auth ───────────────────────────────────────────────────────
	auth := v1.Group("/auth")
	{
		auth.POST("/register", handlers.Register)
		auth.POST("/login", handlers.Login)
		auth.GET("/profile", middleware.AuthRequired(), handlers.GetProfile)
		auth.POST("/admin/create",
			middleware.AuthRequired(),
			middleware.RoleRequired(models.RoleAdmin),
			handlers.CreateAdmin,
		)
	}

	// Unknown routes echo the unmatched path.
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "Route not found: " + c.Request.URL.Path,
		})
	})
}
