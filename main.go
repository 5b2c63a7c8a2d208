package main

import (
	"log"
	"net/http"
	"time"

	"menu-api/config"
	"menu-api/middleware"
	"menu-api/routes"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration: ", err)
	}

	logger, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatal("Failed to build logger: ", err)
	}
	defer logger.Sync()
	config.Log = logger

	if cfg.IsRelease() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := config.InitDB(cfg); err != nil {
		logger.Fatal("database init failed", zap.Error(err))
	}
	logger.Info("database connected and migrated")

	limiter := middleware.NewRateLimiter(cfg.RateLimitMax, cfg.RateLimitWindow)
	limiter.StartCleanup(time.Minute)

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(logger),
		gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
			logger.Error("panic recovered",
				zap.Any("error", recovered),
				zap.String("path", c.Request.URL.Path),
			)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "Something went wrong",
			})
		}),
		middleware.CORS(cfg.AllowedOrigin),
		middleware.RateLimit(limiter),
		middleware.BodyGuard(),
	)

	routes.SetupRoutes(r)

	logger.Info("server starting", zap.String("port", cfg.Port))
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
