package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/grootboek-reconciliation-engine/internal/api_gateway"
	"github.com/grootboek-reconciliation-engine/internal/api_gateway/service"
	"github.com/grootboek-reconciliation-engine/internal/booking"
	"github.com/grootboek-reconciliation-engine/internal/config"
	"github.com/grootboek-reconciliation-engine/internal/data/mongo"
	"github.com/grootboek-reconciliation-engine/internal/data/postgres"
	"github.com/grootboek-reconciliation-engine/internal/logger"
	"github.com/grootboek-reconciliation-engine/internal/observability"
	"github.com/grootboek-reconciliation-engine/internal/platform/classifier"
	"github.com/grootboek-reconciliation-engine/internal/platform/messaging/producers"
	"github.com/grootboek-reconciliation-engine/internal/platform/persistence"
	"github.com/grootboek-reconciliation-engine/internal/rules"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("api_gateway")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	// Initialize databases with app context
	postgresDB, err := persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
	if err != nil {
		log.Error("Failed to initialize PostgreSQL", "error", err)
		os.Exit(1)
	}

	mongoDB, err := persistence.NewMongoDB(appCtx, log, &cfg.MongoDB)
	if err != nil {
		log.Error("Failed to initialize MongoDB", "error", err)
		os.Exit(1)
	}

	// Initialize Kafka producer for the run queue
	runProducer, err := producers.NewRunRequestProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize run request producer", "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	accountRepo := postgres.NewAccountRepository(log, postgresDB)
	contactRepo := postgres.NewContactRepository(log, postgresDB)
	transactionRepo := postgres.NewTransactionRepository(log, postgresDB)
	journalRepo := postgres.NewJournalRepository(log, postgresDB)
	ruleRepo := postgres.NewRuleRepository(log, postgresDB)
	runRepo := mongo.NewRunRepository(log, mongoDB.Database())

	// Initialize services
	metrics := observability.NewMetrics(prometheus.DefaultRegisterer)
	classifierClient := classifier.NewClient(log, &cfg.Classifier)
	bookingEngine := booking.NewEngine(log, postgresDB, accountRepo, contactRepo, transactionRepo, journalRepo, ruleRepo, cfg.Ledger)
	ruleService := rules.NewService(log, ruleRepo)
	suggestionService := service.NewSuggestionService(log, ruleService, contactRepo, transactionRepo, classifierClient, metrics)
	runService := service.NewRunService(log, runRepo, runProducer)

	// Initialize REST server
	server := api_gateway.NewServer(log, cfg, api_gateway.Dependencies{
		Transactions: transactionRepo,
		Accounts:     accountRepo,
		Contacts:     contactRepo,
		Booking:      bookingEngine,
		Rules:        ruleService,
		Suggestions:  suggestionService,
		Runs:         runService,
		Metrics:      metrics,
	})
	log.Info("REST server initialized")

	// Create error channel for server errors
	errChan := make(chan error, 1)

	// Start server in goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Server.Port)
		if err := server.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Set up signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// Wait for a shutdown signal or error
	var serverErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Server error occurred", "error", err)
		serverErr = err
	}

	// Cancel the application context
	cancelAppCtx()

	// Create a shutdown context with timeout
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	// Graceful shutdown sequence
	log.Info("Starting graceful shutdown...")

	if err = server.Stop(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
	}

	if err = runProducer.Close(); err != nil {
		log.Error("Error closing run request producer", "error", err)
	}

	postgresDB.Close()

	if err = mongoDB.Close(shutdownCtx); err != nil {
		log.Error("Error closing MongoDB connection", "error", err)
	}

	// Final status
	if serverErr != nil {
		log.Error("HTTP server shutdown with errors", "error", serverErr)
	} else {
		log.Info("Server shutdown completed successfully")
	}
}
