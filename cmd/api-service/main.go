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

	"classroom-stock-sim/internal/simulator/config"
	delivery "classroom-stock-sim/internal/simulator/delivery/http"
	_ "classroom-stock-sim/internal/simulator/docs"
	"classroom-stock-sim/internal/simulator/repository"
	"classroom-stock-sim/internal/simulator/service"
	"classroom-stock-sim/pkg/logger"
	"classroom-stock-sim/pkg/postgres"
	"classroom-stock-sim/pkg/redis"
	"classroom-stock-sim/pkg/telegram"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	swagger "github.com/swaggo/echo-swagger"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the simulator API service",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting Simulator API Service", logger.Field("name", cfg.App.Name))

	// Initialize database
	postgresCfg := postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		TimeZone:        cfg.Database.TimeZone,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}
	db, err := postgres.NewDB(postgresCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		defer sqlDB.Close()
	}

	// Initialize Redis
	redisCfg := redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	}
	redisClient, err := redis.NewClient(redisCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize Redis", logger.ErrorField(err))
	}
	defer redisClient.Close()

	// Initialize Telegram notifier (optional)
	var notifier telegram.Notifier
	if cfg.Telegram.BotToken != "" {
		notifier, err = telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			appLogger.Fatal("Failed to initialize Telegram notifier", logger.ErrorField(err))
		}
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.DB)
	adminRepo := repository.NewAdminRepository(db.DB)
	stockRepo := repository.NewStockRepository(db.DB)
	pendingRepo := repository.NewPendingPriceRepository(db.DB)
	volumeRepo := repository.NewTradingVolumeRepository(db.DB)
	impactRepo := repository.NewPriceImpactRepository(db.DB)
	tradeRepo := repository.NewTradeRepository(db.DB)
	newsRepo := repository.NewNewsRepository(db.DB)
	auditRepo := repository.NewAuditRepository(db.DB)
	boardCache := repository.NewRedisBoardCache(redisClient.Client)

	// Initialize services
	boardTTL := 5 * time.Second
	if cfg.Board.CacheTTL != "" {
		boardTTL, err = time.ParseDuration(cfg.Board.CacheTTL)
		if err != nil {
			appLogger.Fatal("Invalid board cache TTL", logger.ErrorField(err))
		}
	}
	windowSvc, err := service.NewTradingWindowService(cfg.Trading)
	if err != nil {
		appLogger.Fatal("Invalid trading window configuration", logger.ErrorField(err))
	}
	authSvc := service.NewAuthService(userRepo, adminRepo, appLogger)
	priceEngine := service.NewPriceEngineService(volumeRepo, stockRepo, impactRepo, boardCache, appLogger)
	stockSvc := service.NewStockService(stockRepo, pendingRepo, adminRepo, auditRepo, windowSvc, boardCache, notifier, boardTTL, appLogger)
	tradeSvc := service.NewTradeService(tradeRepo, windowSvc, priceEngine, boardCache, appLogger)
	newsSvc := service.NewNewsService(newsRepo, adminRepo, auditRepo, notifier, appLogger)
	userSvc := service.NewUserService(userRepo, adminRepo, auditRepo, boardCache, boardTTL, appLogger)

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Initialize handlers and routes
	api := e.Group("/api")

	authHandler := delivery.NewAuthHandler(authSvc, appLogger)
	authGroup := api.Group("/auth", delivery.AuthRateLimit())
	authHandler.RegisterRoutes(authGroup)

	stockHandler := delivery.NewStockHandler(stockSvc, appLogger)
	stockHandler.RegisterRoutes(api)

	tradeHandler := delivery.NewTradeHandler(tradeSvc, windowSvc, appLogger)
	tradeHandler.RegisterRoutes(api)

	marketHandler := delivery.NewMarketHandler(priceEngine, appLogger)
	marketHandler.RegisterRoutes(api)

	newsHandler := delivery.NewNewsHandler(newsSvc, appLogger)
	newsHandler.RegisterRoutes(api)

	userHandler := delivery.NewUserHandler(userSvc, appLogger)
	userHandler.RegisterRoutes(api)

	e.GET("/swagger/*", swagger.WrapHandler)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop() // trigger shutdown
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()

	appLogger.Info("Shutting down server...")

	// Gracefully shutdown the server
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	appLogger.Info("Server exiting")
}

// @title Classroom Stock Simulator API
// @version 1.0
// @description Virtual stock trading simulator for classroom use.
// @BasePath /api
func main() {
	rootCmd := &cobra.Command{Use: "api-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-api.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing api-service CLI: %s\n", err)
		os.Exit(1)
	}
}
