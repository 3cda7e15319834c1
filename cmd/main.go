// Package main is the entry point for the annotation layers service.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/annotation-layers/backend/internal/admin"
	"github.com/annotation-layers/backend/internal/auth"
	"github.com/annotation-layers/backend/internal/cache"
	"github.com/annotation-layers/backend/internal/config"
	"github.com/annotation-layers/backend/internal/database"
	"github.com/annotation-layers/backend/internal/gateway"
	"github.com/annotation-layers/backend/internal/handler"
	"github.com/annotation-layers/backend/internal/i18n"
	"github.com/annotation-layers/backend/internal/metrics"
	"github.com/annotation-layers/backend/internal/service"
)

func main() {
	// Parse command line flags
	role := flag.String("role", "", "Service role: gateway or handler (overrides SERVICE_ROLE env var)")
	port := flag.String("port", "", "Server port (overrides SERVER_PORT env var)")
	flag.Parse()

	// Override environment variables if flags are provided
	if *role != "" {
		os.Setenv("SERVICE_ROLE", *role)
	}
	if *port != "" {
		os.Setenv("SERVER_PORT", *port)
	}

	app := fx.New(
		fx.Provide(
			config.New,
			newLogger,
			newTranslator,
			metrics.New,
			auth.New,
			newGinEngine,
		),
		fx.Invoke(startServer),
	)

	app.Run()
}

// newLogger creates a new zap logger based on the environment.
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsDevelopment() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func newTranslator(cfg *config.Config) *i18n.Translator {
	return i18n.New(cfg.DefaultLocale)
}

// newGinEngine creates and configures a new Gin engine.
func newGinEngine(cfg *config.Config, m *metrics.Collector) *gin.Engine {
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(gin.Logger())
	engine.Use(m.Middleware())

	// CORS middleware
	engine.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	return engine
}

// startServer starts the HTTP server based on the configured role.
func startServer(
	lc fx.Lifecycle,
	cfg *config.Config,
	logger *zap.Logger,
	engine *gin.Engine,
	m *metrics.Collector,
	tr *i18n.Translator,
	authn *auth.Authenticator,
) error {
	logger.Info("Starting service",
		zap.String("role", cfg.Role),
		zap.String("port", cfg.ServerPort),
	)

	engine.GET("/metrics", gin.WrapH(m.Handler()))

	var pool *pgxpool.Pool
	var cacheClient cache.Cache

	if cfg.IsHandler() {
		// Handler mode: connect to database and cache, register handlers
		var err error
		pool, err = database.Connect(cfg, logger)
		if err != nil {
			logger.Error("Failed to connect to database", zap.Error(err))
			return err
		}

		cacheClient, err = cache.NewRedisCache(cfg, logger)
		if err != nil {
			pool.Close()
			logger.Error("Failed to connect to Redis", zap.Error(err))
			return err
		}

		svc := service.New(
			database.NewLayerRepository(pool, logger),
			database.NewAnnotationRepository(pool, logger),
			cacheClient,
			m,
			logger,
		)

		engine.GET("/health", func(c *gin.Context) {
			status, code := "healthy", http.StatusOK
			if err := pool.Ping(c.Request.Context()); err != nil {
				status, code = "unhealthy", http.StatusServiceUnavailable
			}
			c.JSON(code, gin.H{
				"status":  status,
				"role":    cfg.Role,
				"service": "annotation-layers",
			})
		})

		h := handler.NewHandler(svc, authn, tr, logger)
		h.RegisterRoutes(engine.Group("/api/v1"))
		admin.New(svc, authn, tr, logger).RegisterRoutes(engine)

		logger.Info("Handler routes registered")
	} else {
		// Gateway mode: setup proxy to handler
		gw := gateway.NewGateway(cfg, logger)
		engine.GET("/health", gw.HealthCheck)
		gw.RegisterRoutes(engine)

		logger.Info("Gateway routes registered",
			zap.String("handler_url", cfg.HandlerURL),
		)
	}

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.ServerPort),
		Handler: engine,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				logger.Info("Server starting", zap.String("addr", server.Addr))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Fatal("Server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Server shutting down")

			err := server.Shutdown(ctx)
			if pool != nil {
				pool.Close()
			}
			if cacheClient != nil {
				_ = cacheClient.Close()
			}
			return err
		},
	})

	return nil
}
