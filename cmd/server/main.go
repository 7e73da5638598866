package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	apihttp "shelfspace-backend/internal/api/http"
	"shelfspace-backend/internal/config"
	"shelfspace-backend/internal/logger"
	"shelfspace-backend/internal/repository/postgres"
	"shelfspace-backend/internal/security"
	"shelfspace-backend/internal/service"
	"shelfspace-backend/internal/storage"
	"shelfspace-backend/internal/transfer"
)

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Shelfspace API server...", "log_level", cfg.Log.Level)

	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	store := postgres.NewStore(db)

	docStore, err := storage.NewLocalDocumentStore(cfg.Documents.Dir)
	if err != nil {
		logger.Error("Failed to initialize document store", "error", err)
		log.Fatalf("Failed to initialize document store: %v", err)
	}

	transferClient := transfer.NewClient(cfg.Transfer.BaseURL, cfg.Transfer.APIKey)

	clearanceService := service.NewClearanceService(
		store.RentalRepository,
		store.ClearanceRepository,
		store.PaymentRepository,
		store.SalesRepository,
		store.ProductRepository,
		store.ProfileRepository,
		store.CommissionOverrideRepository,
		store.ConversationRepository,
		docStore,
		cfg.Settlement.DefaultPlatformRate,
		cfg.Settlement.TaxRate,
	)

	payoutService := service.NewPayoutService(
		store.PaymentRepository,
		store.ProfileRepository,
		transferClient,
		cfg.Transfer.Currency,
	)

	emailService := service.NewEmailService(
		cfg.Email.APIKey,
		cfg.Email.From,
		cfg.Email.FromName,
	)

	lifecycleService := service.NewLifecycleService(
		store.RentalRepository,
		store.ConversationRepository,
		clearanceService,
		cfg.Settlement.PendingExpiryHours,
	)

	reminderService := service.NewReminderService(
		store.RentalRepository,
		store.ClearanceRepository,
		store.ProfileRepository,
		store.ConversationRepository,
		store.NotificationRepository,
		emailService,
	)

	tokens := security.NewTokenManager(cfg.JWT.Secret)
	router := apihttp.NewRouter(clearanceService, payoutService, lifecycleService, reminderService, tokens)

	server := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", "error", err)
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down HTTP server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
	logger.Info("HTTP server stopped. Goodbye!")
}
