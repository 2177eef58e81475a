package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/comitanigiacomo/kanso-diet-web/internal/adapters/cache"
	"github.com/comitanigiacomo/kanso-diet-web/internal/adapters/dietapi"
	"github.com/comitanigiacomo/kanso-diet-web/internal/adapters/export"
	adapterHTTP "github.com/comitanigiacomo/kanso-diet-web/internal/adapters/handler/http"
	"github.com/comitanigiacomo/kanso-diet-web/internal/adapters/render"
	"github.com/comitanigiacomo/kanso-diet-web/internal/core/domain"
	"github.com/comitanigiacomo/kanso-diet-web/internal/core/services"
)

func main() {
	startTime := time.Now()

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("Critical: Invalid configuration: %v", err)
	}

	var rdb *redis.Client
	var revocations domain.TokenRevocationStore
	if cfg.RedisEnabled {
		log.Printf("Connecting to redis at %s...", cfg.Redis.Addr())

		rdb, err = cache.NewRedisClient(cfg.Redis)
		if err != nil {
			log.Printf("Warning: %v. Running without logout revocation and rate limiting.", err)
			rdb = nil
		} else {
			defer rdb.Close()
			revocations = cache.NewRedisRevocationStore(rdb)
			log.Println("Redis connected successfully.")
		}
	}

	if cfg.JWTSecret == "" {
		log.Println("Warning: JWT_SECRET_KEY not set, token signatures are not verified locally.")
	}

	renderer, err := render.NewChartRenderer(cfg.ChartWidth, cfg.ChartHeight)
	if err != nil {
		log.Fatalf("Critical: Failed to load chart font: %v", err)
	}

	dietClient := dietapi.NewClient(cfg.DietAPIURL, cfg.DietAPITimeout)
	tokenService := services.NewTokenService(cfg.JWTSecret, revocations)
	authService := services.NewAuthService(dietClient, tokenService)
	profileService := services.NewProfileService(dietClient)
	analysisService := services.NewAnalysisService(dietClient, dietClient, cfg.DefaultTimeZone)
	historyService := services.NewHistoryService(dietClient, export.NewXLSXExporter())

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		AuthHandler:     adapterHTTP.NewAuthHandler(authService, cfg.CookieSecure),
		ProfileHandler:  adapterHTTP.NewProfileHandler(profileService),
		MealHandler:     adapterHTTP.NewMealHandler(analysisService),
		HistoryHandler:  adapterHTTP.NewHistoryHandler(historyService, cfg.DefaultTimeZone),
		ChartHandler:    adapterHTTP.NewChartHandler(renderer),
		TokenService:    tokenService,
		DietAPI:         dietClient,
		Redis:           rdb,
		RateLimit:       cfg.RateLimit,
		RateLimitWindow: cfg.RateLimitWindow,
		StartTime:       startTime,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.DietAPITimeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Kanso Diet Web running on http://localhost:%s (diet api: %s)", cfg.Port, cfg.DietAPIURL)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Critical server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Stop signal received. Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Forced shutdown error:", err)
	}

	log.Println("Server stopped gracefully.")
}
