package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"

	"shelfspace-backend/internal/config"
	"shelfspace-backend/internal/jobs"
	"shelfspace-backend/internal/logger"
	"shelfspace-backend/internal/repository/postgres"
	"shelfspace-backend/internal/scheduler"
	"shelfspace-backend/internal/service"
	"shelfspace-backend/internal/storage"
	"shelfspace-backend/internal/transfer"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'lifecycle-sweep', 'all')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Shelfspace Cronjob Runner...", "log_level", cfg.Log.Level)

	// Initialize Database
	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
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

	// Initialize Services
	docStore, err := storage.NewLocalDocumentStore(cfg.Documents.Dir)
	if err != nil {
		logger.Error("Failed to initialize document store", "error", err)
		log.Fatalf("Failed to initialize document store: %v", err)
	}

	emailService := service.NewEmailService(
		cfg.Email.APIKey,
		cfg.Email.From,
		cfg.Email.FromName,
	)

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

	payoutService := service.NewPayoutService(
		store.PaymentRepository,
		store.ProfileRepository,
		transferClient,
		cfg.Transfer.Currency,
	)

	jobServices := &jobs.Services{
		Lifecycle: lifecycleService,
		Reminder:  reminderService,
		Payout:    payoutService,
	}

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(db, store, jobServices, cfg)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		runJobOnce(jobRunner, *runOnce)
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler := scheduler.NewScheduler(jobRunner)

	// Start scheduler
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}

// runJobOnce runs a specific job once and exits
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) {
	switch jobName {
	case "lifecycle-sweep":
		jobRunner.RunLifecycleSweep()
	case "reminder-sweep":
		jobRunner.RunReminderSweep()
	case "dispatch-payouts":
		jobRunner.DispatchPayouts()
	case "refresh-transfers":
		jobRunner.RefreshTransfers()
	case "all":
		jobRunner.RunAllJobs()
	default:
		logger.Error("Unknown job name", "job", jobName)
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - lifecycle-sweep\n")
		fmt.Printf("  - reminder-sweep\n")
		fmt.Printf("  - dispatch-payouts\n")
		fmt.Printf("  - refresh-transfers\n")
		fmt.Printf("  - all\n")
		os.Exit(1)
	}
}
