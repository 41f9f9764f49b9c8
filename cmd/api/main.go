package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kloudcart/internal/config"
	"kloudcart/internal/database"
	"kloudcart/internal/handler"
	"kloudcart/internal/mail"
	"kloudcart/internal/receipt"
	"kloudcart/internal/repository"
	"kloudcart/internal/router"
	"kloudcart/internal/service"
	"kloudcart/internal/session"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting kloudcart API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool and schema
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool, logger); err != nil {
		return fmt.Errorf("failed to migrate database schema: %w", err)
	}

	// Initialize session store
	redisClient, err := session.NewClient(ctx, cfg.Redis)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	defer redisClient.Close()

	sessions := session.NewRedisStore(redisClient, cfg.Session.TTL, logger)

	// Initialize repositories
	productRepo := repository.NewProductRepository(pool, logger)
	cartRepo := repository.NewCartRepository(pool, logger)
	receiptRepo := repository.NewReceiptRepository(pool, logger)
	userRepo := repository.NewUserRepository(pool, logger)

	// Initialize receipt storage with optional S3 archiving
	var archiver receipt.Archiver
	if cfg.Receipts.S3Enabled {
		archiver, err = receipt.NewS3Archiver(ctx, cfg.Receipts.S3Bucket, cfg.Receipts.S3Region, cfg.Receipts.S3Prefix, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 archiver, receipts will only be kept locally")
			archiver = nil
		}
	} else {
		logger.Info().Msg("receipt S3 archiving disabled, keeping local copies only")
	}

	receiptStore, err := receipt.NewFileStore(cfg.Receipts.Dir, archiver, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize receipt store: %w", err)
	}

	generator := receipt.NewPDFGenerator(logger)
	sender := mail.NewSMTPSender(cfg.SMTP, logger)

	// Initialize services
	productService := service.NewProductService(productRepo, logger)
	cartService := service.NewCartService(cartRepo, productRepo, logger)
	checkoutService := service.NewCheckoutService(cartRepo, productRepo, receiptRepo, userRepo, generator, receiptStore, sender, logger)
	receiptLogService := service.NewReceiptLogService(receiptRepo, logger)
	authService := service.NewAuthService(userRepo, sessions, logger)

	// Initialize HTTP handlers
	authHandler := handler.NewAuthHandler(authService, cfg.Session.TTL, logger)
	productHandler := handler.NewProductHandler(productService, logger)
	cartHandler := handler.NewCartHandler(cartService, logger)
	checkoutHandler := handler.NewCheckoutHandler(checkoutService, receiptLogService, receiptStore, logger)
	adminHandler := handler.NewAdminHandler(receiptLogService, logger)

	// Initialize router
	mux := router.New(authHandler, productHandler, cartHandler, checkoutHandler, adminHandler, sessions, userRepo, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
