package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/krale/krale-storefront/config"
	"github.com/krale/krale-storefront/internal/app/controller"
	"github.com/krale/krale-storefront/internal/app/model"
	"github.com/krale/krale-storefront/internal/app/repository"
	"github.com/krale/krale-storefront/internal/app/service"
	"github.com/krale/krale-storefront/internal/router"
	"github.com/krale/krale-storefront/internal/scheduler"
	"github.com/krale/krale-storefront/internal/websocket"
	"github.com/krale/krale-storefront/pkg/logger"
	"github.com/krale/krale-storefront/pkg/redis"
	"github.com/krale/krale-storefront/pkg/storefront"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting KRALE storefront server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Storefront query client
	storefrontClient, err := storefront.NewClient(storefront.Config{
		Endpoint:    cfg.Storefront.Endpoint,
		AccessToken: cfg.Storefront.AccessToken,
		Timeout:     cfg.Storefront.Timeout,
	})
	if err != nil {
		logger.Fatal("Failed to create storefront client", err)
	}

	// Cart snapshot storage
	var cartRepo repository.CartRepository
	switch cfg.Cart.Backend {
	case "redis":
		if err := redis.Init(&cfg.Redis); err != nil {
			logger.Fatal("Failed to initialize Redis", err)
		}
		defer func() {
			if err := redis.Close(); err != nil {
				logger.Error("Failed to close Redis connection", err)
			}
		}()
		cartRepo = repository.NewRedisCartRepository(redis.GetClient())
	default:
		fileRepo, err := repository.NewFileCartRepository(cfg.Cart.StorageDir)
		if err != nil {
			logger.Fatal("Failed to initialize cart storage", err)
		}
		cartRepo = fileRepo
	}

	// WebSocket hub pushing cart updates to live views
	hub := websocket.NewHub()
	go hub.Run()

	// Services
	catalogService := service.NewCatalogService(
		storefrontClient,
		cfg.Storefront.CatalogPageSize,
		cfg.Catalog.CacheTTL,
	)
	detailService := service.NewDetailService(catalogService)
	cartRegistry := service.NewCartRegistry(cartRepo, func(sessionID string, cart service.CartService) {
		cart.Subscribe(func(snapshot model.Cart) {
			hub.BroadcastCart(sessionID, snapshot)
		})
	})

	// Catalog snapshot refresh
	catalogScheduler := scheduler.NewCatalogScheduler(catalogService, cfg.Catalog.WarmSchedule)
	if err := catalogScheduler.Start(); err != nil {
		logger.Fatal("Failed to start catalog scheduler", err)
	}
	defer catalogScheduler.Stop()

	// Idle session eviction
	sessionScheduler := scheduler.NewSessionScheduler(
		cartRegistry,
		detailService,
		cfg.Session.IdleTTL,
		cfg.Session.SweepSchedule,
	)
	if err := sessionScheduler.Start(); err != nil {
		logger.Fatal("Failed to start session scheduler", err)
	}
	defer sessionScheduler.Stop()

	// Controllers
	productController := controller.NewProductController(catalogService, detailService, cartRegistry)
	cartController := controller.NewCartController(cartRegistry, hub)

	// Setup router
	r := router.NewRouter(productController, cartController, cfg)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
