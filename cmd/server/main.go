package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	httpapi "gearbook-backend/internal/api/http"
	"gearbook-backend/internal/clock"
	"gearbook-backend/internal/config"
	"gearbook-backend/internal/logger"
	"gearbook-backend/internal/payment"
	"gearbook-backend/internal/repository/postgres"
	"gearbook-backend/internal/security"
	"gearbook-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Gearbook Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)
	repos := store.Repos()

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret)

	// Initialize Payment Gateway
	// TODO: swap for the real processor adapter once the merchant
	// account clears.
	gateway := payment.NewMockGateway()

	// Initialize Email Service
	var emailSvc service.EmailService
	if cfg.Email.SendGridAPIKey != "" {
		emailSvc = service.NewSendGridEmailService(cfg.Email.SendGridAPIKey, cfg.Email.From)
	} else {
		logger.Warn("SendGrid API key not set, outbound email disabled")
	}

	// Initialize Services
	policy := service.Policy{
		TaxRate:              cfg.TaxRate(),
		TurnoverBufferDays:   cfg.Booking.TurnoverBufferDays,
		FullRefundHours:      cfg.Booking.FullRefundHours,
		PartialRefundPercent: cfg.Booking.PartialRefundPercent,
	}
	clk := clock.New()
	reservationSvc := service.NewReservationService(repos, store, gateway, clk, emailSvc, policy)
	lifecycleSvc := service.NewLifecycleService(repos, store, gateway, clk, emailSvc, policy)
	promoSvc := service.NewPromoService(repos, clk)
	catalogSvc := service.NewCatalogService(repos)
	walletSvc := service.NewWalletService(repos)

	// Set up HTTP server
	router := httpapi.NewRouter(httpapi.Services{
		Reservations: reservationSvc,
		Lifecycle:    lifecycleSvc,
		Promos:       promoSvc,
		Catalog:      catalogSvc,
		Wallet:       walletSvc,
	}, tokenManager)

	server := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down HTTP server...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	logger.Info("Server stopped. Goodbye!")
}
