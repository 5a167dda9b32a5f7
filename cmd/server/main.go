package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"room_chat/internal/config"
	"room_chat/internal/handler"
	"room_chat/internal/middleware"
	"room_chat/internal/repository"
	"room_chat/internal/service"
	"room_chat/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger := logger.New(cfg.Log.Level)

	// Redis is optional; without it the rate limiter is simply not wired
	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		if err := rdb.Ping(context.Background()).Err(); err != nil {
			appLogger.Fatal("Failed to connect to Redis", "error", err)
		}
		appLogger.Info("Redis connection established")
	}

	repos := repository.NewRepositories(rdb, cfg, appLogger)

	services, err := service.NewServices(repos, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize services", "error", err)
	}

	var rateLimitMiddleware *middleware.RateLimitMiddleware
	if services.RateLimit != nil {
		rateLimitMiddleware = middleware.NewRateLimitMiddleware(services.RateLimit, appLogger)
	}

	handlers := handler.NewHandlers(services, cfg, appLogger)

	router := setupRouter(handlers, rateLimitMiddleware, cfg, appLogger)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		appLogger.Info("Starting server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("Failed to start server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", "error", err)
	}

	appLogger.Info("Server exited")
}

func setupRouter(
	handlers *handler.Handlers,
	rateLimitMiddleware *middleware.RateLimitMiddleware,
	cfg *config.Config,
	log logger.Logger,
) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.ErrorHandler())

	router.GET("/health", handlers.Health.Check)

	// room management API used by the frontend before opening the socket
	if rateLimitMiddleware != nil {
		router.POST("/create-room", rateLimitMiddleware.Limit(), handlers.Room.Create)
		router.POST("/upload", rateLimitMiddleware.Limit(), handlers.Media.Upload)
	} else {
		router.POST("/create-room", handlers.Room.Create)
		router.POST("/upload", handlers.Media.Upload)
	}
	router.POST("/join-room", handlers.Room.Join)
	router.POST("/check-username", handlers.Room.CheckUsername)
	router.GET("/public-rooms", handlers.Room.ListPublic)
	router.GET("/room/:id/info", handlers.Room.Info)

	router.Static("/uploads", cfg.Upload.Dir)

	// real-time chat protocol
	router.GET("/ws", handlers.WebSocket.HandleChat)

	return router
}
