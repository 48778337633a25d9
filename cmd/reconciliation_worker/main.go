package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/grootboek-reconciliation-engine/internal/booking"
	"github.com/grootboek-reconciliation-engine/internal/bulk"
	"github.com/grootboek-reconciliation-engine/internal/config"
	"github.com/grootboek-reconciliation-engine/internal/data/mongo"
	"github.com/grootboek-reconciliation-engine/internal/data/postgres"
	"github.com/grootboek-reconciliation-engine/internal/logger"
	"github.com/grootboek-reconciliation-engine/internal/observability"
	"github.com/grootboek-reconciliation-engine/internal/platform/classifier"
	"github.com/grootboek-reconciliation-engine/internal/platform/messaging/consumers"
	"github.com/grootboek-reconciliation-engine/internal/platform/messaging/producers"
	"github.com/grootboek-reconciliation-engine/internal/platform/persistence"
	"github.com/grootboek-reconciliation-engine/internal/reconciliation_worker/consumer"
	"github.com/grootboek-reconciliation-engine/internal/reconciliation_worker/service"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("reconciliation_worker")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	log.Info("Starting Reconciliation Worker",
		"app_name", cfg.Application.Name,
		"env", cfg.Application.Env,
	)

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

	// Initialize repositories
	accountRepo := postgres.NewAccountRepository(log, postgresDB)
	contactRepo := postgres.NewContactRepository(log, postgresDB)
	transactionRepo := postgres.NewTransactionRepository(log, postgresDB)
	journalRepo := postgres.NewJournalRepository(log, postgresDB)
	ruleRepo := postgres.NewRuleRepository(log, postgresDB)
	runRepo := mongo.NewRunRepository(log, mongoDB.Database())

	// Initialize Kafka consumer
	kafkaConsumer := consumers.NewKafkaConsumer(appCtx, log, &cfg.Kafka)

	// Initialize Kafka DLQ producer
	dlqProducer, err := producers.NewDLQProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize DLQ Kafka producer", "error", err)
		os.Exit(1)
	}

	// Initialize the orchestrator and the run processing pipeline
	metrics := observability.NewMetrics(prometheus.DefaultRegisterer)
	classifierClient := classifier.NewClient(log, &cfg.Classifier)
	bookingEngine := booking.NewEngine(log, postgresDB, accountRepo, contactRepo, transactionRepo, journalRepo, ruleRepo, cfg.Ledger)
	orchestrator := bulk.NewOrchestrator(log, bookingEngine, classifierClient, accountRepo, transactionRepo, metrics, cfg)

	baseProcessing := service.NewRunProcessingService(log, orchestrator, runRepo)
	processingService, err := service.NewWorkerPoolRunService(baseProcessing, service.WorkerPoolConfig{Size: cfg.WorkerPool.Size}, log)
	if err != nil {
		log.Error("Failed to initialize worker pool", "error", err)
		os.Exit(1)
	}

	// Initialize run event handler
	runEventHandler := consumer.NewRunEventHandler(log, processingService, dlqProducer)

	// Create error channel for service errors
	errChan := make(chan error, 1)

	// Create wait group for graceful shutdown
	var wg sync.WaitGroup

	// Start Kafka consumer in a goroutine
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("Starting Kafka consumer",
			"topic", cfg.Kafka.RunTopic,
			"group", cfg.Kafka.ConsumerGroup,
		)
		if err := kafkaConsumer.Subscribe(appCtx, cfg.Kafka.RunTopic, cfg.Kafka.ConsumerGroup, runEventHandler.HandleMessage); err != nil {
			errChan <- fmt.Errorf("kafka consumer error: %w", err)
		}
	}()

	// Set up signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// Wait for a shutdown signal or error
	var serviceErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Service error occurred", "error", err)
		serviceErr = err
	}

	// Cancel the application context
	cancelAppCtx()

	// Shut down the worker pool; in-flight runs keep their progress in the
	// run store and bookings are insert-once, so a replay is safe.
	processingService.Shutdown()

	// Create a shutdown context with timeout
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()

	// Graceful shutdown sequence
	log.Info("Starting graceful shutdown...")

	wgChan := make(chan struct{})
	go func() {
		wg.Wait()
		close(wgChan)
	}()

	select {
	case <-wgChan:
		log.Info("All services stopped successfully")
	case <-shutdownCtx.Done():
		log.Warn("Shutdown timeout reached, forcing exit")
	}

	if dlqProducer != nil {
		if err = dlqProducer.Close(); err != nil {
			log.Error("Error closing DLQ Kafka producer", "error", err)
		}
	}

	if err = kafkaConsumer.Close(); err != nil {
		log.Error("Error closing Kafka consumer", "error", err)
	}

	postgresDB.Close()

	if err = mongoDB.Close(shutdownCtx); err != nil {
		log.Error("Error closing MongoDB connection", "error", err)
	}

	// Final status
	if serviceErr != nil {
		log.Error("Reconciliation Worker shutdown with errors", "error", serviceErr)
	} else {
		log.Info("Reconciliation Worker shutdown completed successfully")
	}
}
