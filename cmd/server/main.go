package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/seifhassan89/full-stack-user-curd/internal/di"
	"github.com/seifhassan89/full-stack-user-curd/internal/middleware"
	"github.com/seifhassan89/full-stack-user-curd/pkg/config"
	"github.com/seifhassan89/full-stack-user-curd/pkg/database"
	"github.com/seifhassan89/full-stack-user-curd/pkg/logger"
	"github.com/seifhassan89/full-stack-user-curd/pkg/redis"
	"github.com/seifhassan89/full-stack-user-curd/pkg/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	level := "info"
	if cfg.App.Debug {
		level = "debug"
	}
	if err := logger.Init(level, cfg.IsDevelopment()); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("Starting API",
		zap.String("service", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	ctx := context.Background()

	if cfg.OTel.Enabled {
		if _, err := telemetry.Init(ctx, &telemetry.Config{
			Enabled:        true,
			ServiceName:    cfg.OTel.ServiceName,
			ServiceVersion: cfg.App.Version,
			Environment:    cfg.App.Environment,
			CollectorAddr:  cfg.OTel.CollectorAddr,
		}); err != nil {
			logger.Fatal("Failed to initialize telemetry", zap.Error(err))
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = telemetry.Shutdown(shutdownCtx)
		}()
	}

	db, err := database.NewPostgres(ctx, &database.PostgresConfig{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxConns:        int32(cfg.Database.MaxOpenConns),
		MinConns:        int32(cfg.Database.MaxIdleConns),
		MaxConnLifetime: cfg.Database.ConnMaxLifetime,
		MaxConnIdleTime: cfg.Database.ConnMaxIdleTime,
		ConnectTimeout:  5 * time.Second,
		MaxRetries:      3,
		RetryInterval:   time.Second,
		EnableTracing:   cfg.OTel.Enabled,
	})
	if err != nil {
		logger.Fatal("Database connection failed", zap.Error(err))
	}
	defer db.Close()
	logger.Info("Database connected",
		zap.String("host", cfg.Database.Host),
		zap.String("dbname", cfg.Database.DBName),
	)

	var cache *redis.Client
	if cfg.Redis.Enabled {
		cache, err = redis.NewClient(ctx, &redis.Config{
			Host:          cfg.Redis.Host,
			Port:          cfg.Redis.Port,
			Password:      cfg.Redis.Password,
			DB:            cfg.Redis.DB,
			PoolSize:      cfg.Redis.PoolSize,
			MinIdleConns:  cfg.Redis.MinIdleConns,
			DialTimeout:   cfg.Redis.DialTimeout,
			ReadTimeout:   cfg.Redis.ReadTimeout,
			WriteTimeout:  cfg.Redis.WriteTimeout,
			MaxRetries:    3,
			RetryInterval: time.Second,
		})
		if err != nil {
			logger.Fatal("Redis connection failed", zap.Error(err))
		}
		defer cache.Close()
		logger.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	}

	container := di.NewContainer(cfg, db, cache)

	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.CORS())
	if cfg.OTel.Enabled {
		router.Use(telemetry.TracingMiddleware(cfg.OTel.ServiceName))
	}

	registerRoutes(router, cfg, container)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: 2 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited gracefully")
}

func registerRoutes(router *gin.Engine, cfg *config.Config, c *di.Container) {
	router.GET("/health", c.HealthHandler.Health)
	router.GET("/ready", c.HealthHandler.Ready)
	router.GET("/metrics", c.MetricsHandler.Prometheus)
	router.GET("/metrics/system", c.MetricsHandler.System)

	requireAccess := middleware.RequireAccess(c.TokenSigner)
	requireRefresh := middleware.RequireRefresh(c.TokenSigner)

	v1 := router.Group("/api/v1")

	auth := v1.Group("/auth")
	{
		register := auth.Group("")
		login := auth.Group("")
		if cfg.RateLimit.Enabled && c.Cache != nil {
			limiter := middleware.RateLimit(c.Cache, middleware.RateLimitConfig{
				Limit:    cfg.RateLimit.Limit,
				WindowMS: cfg.RateLimit.Window.Milliseconds(),
			})
			register.Use(limiter)
			login.Use(limiter)
		}
		register.POST("/register", c.AuthHandler.Register)
		login.POST("/login", c.AuthHandler.Login)

		auth.POST("/refresh", requireRefresh, c.AuthHandler.Refresh)
		auth.POST("/logout", requireAccess, c.AuthHandler.Logout)
		auth.GET("/me", requireAccess, c.AuthHandler.Me)
	}

	users := v1.Group("/users")
	users.Use(requireAccess)
	{
		users.GET("/profile/me", c.UserHandler.Profile)
		users.GET("/:id", c.UserHandler.GetByID)

		admin := users.Group("")
		admin.Use(middleware.RequireRole("admin"))
		{
			admin.POST("", c.UserHandler.Create)
			admin.GET("", c.UserHandler.List)
			admin.PUT("/:id", c.UserHandler.Update)
			admin.DELETE("/:id", c.UserHandler.Delete)
		}
	}
}
