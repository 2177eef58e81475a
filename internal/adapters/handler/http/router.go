package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/comitanigiacomo/kanso-diet-web/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/kanso-diet-web/internal/core/services"
)

// Pinger reports whether the diet service answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

type RouterDependencies struct {
	AuthHandler     *AuthHandler
	ProfileHandler  *ProfileHandler
	MealHandler     *MealHandler
	HistoryHandler  *HistoryHandler
	ChartHandler    *ChartHandler
	TokenService    *services.TokenService
	DietAPI         Pinger
	Redis           *redis.Client
	RateLimit       int
	RateLimitWindow time.Duration
	StartTime       time.Time
}

func NewRouter(deps RouterDependencies) *gin.Engine {
	router := gin.Default()
	router.MaxMultipartMemory = 16 << 20

	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	if deps.Redis != nil && deps.RateLimit > 0 {
		window := deps.RateLimitWindow
		if window <= 0 {
			window = time.Minute
		}
		router.Use(middleware.RateLimiterMiddleware(deps.Redis, deps.RateLimit, window))
	}

	router.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		apiStatus := "reachable"
		if deps.DietAPI == nil || deps.DietAPI.Ping(ctx) != nil {
			apiStatus = "unreachable"
		}

		redisStatus := "disabled"
		if deps.Redis != nil {
			redisStatus = "connected"
			if deps.Redis.Ping(ctx).Err() != nil {
				redisStatus = "unreachable"
			}
		}

		statusCode := http.StatusOK
		if apiStatus == "unreachable" || redisStatus == "unreachable" {
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, gin.H{
			"status":   "ok",
			"diet_api": apiStatus,
			"redis":    redisStatus,
			"uptime":   time.Since(deps.StartTime).String(),
		})
	})

	apiV1 := router.Group("/api/v1")
	auth := middleware.AuthMiddleware(deps.TokenService)

	deps.AuthHandler.RegisterRoutes(apiV1, auth)
	deps.ChartHandler.RegisterRoutes(apiV1)

	protected := apiV1.Group("")
	protected.Use(auth)
	{
		deps.ProfileHandler.RegisterRoutes(protected)
		deps.MealHandler.RegisterRoutes(protected)
		deps.HistoryHandler.RegisterRoutes(protected)
	}

	return router
}
