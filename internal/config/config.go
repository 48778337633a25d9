// Package config provides configuration structures and validation for the
// reconciliation engine. It handles environment-based configuration for the
// HTTP gateway, the bulk reconciliation worker, datastores, the message
// queue and the external classification service.
package config

import (
	"errors"
	"strings"
	"time"
)

// Config holds the complete application configuration with settings for all
// components. Each field represents a major subsystem's configuration and is
// validated during application startup.
type Config struct {
	Application ApplicationConfig
	Logging     LoggingConfig
	Server      ServerConfig
	Kafka       KafkaConfig
	Postgres    PostgresConfig
	MongoDB     MongoDBConfig
	Classifier  ClassifierConfig
	Ledger      LedgerConfig
	Bulk        BulkConfig
	WorkerPool  WorkerPoolConfig
}

// ApplicationConfig contains general application configuration
type ApplicationConfig struct {
	Env  string
	Name string
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level string
}

// ServerConfig contains HTTP server configuration settings
type ServerConfig struct {
	Port            int           // Port to listen on
	ShutdownTimeout time.Duration // Grace period for server shutdown
	ReadTimeout     time.Duration // Maximum duration for reading entire request
	WriteTimeout    time.Duration // Maximum duration for writing response
	IdleTimeout     time.Duration // Maximum duration to wait for next request
}

// KafkaConfig contains Kafka configuration for the bulk run queue
type KafkaConfig struct {
	Brokers           string
	RunTopic          string // Topic carrying bulk reconciliation run requests
	NumPartitions     int
	ReplicationFactor int
	ConsumerGroup     string
	MinBytes          int
	MaxBytes          int
	MaxWait           time.Duration
	StartOffset       int64
	DLQTopic          string // Topic for unprocessable run requests
}

// PostgresConfig contains PostgreSQL configuration
type PostgresConfig struct {
	URL             string        // Database connection string
	MaxConns        int32         // Maximum number of open connections
	MinConns        int32         // Maximum number of idle connections
	ConnMaxLifetime time.Duration // Maximum lifetime of a connection
	ConnMaxIdleTime time.Duration // Maximum idle time of a connection
	MigrationsPath  string        // Path to migration files
}

// MongoDBConfig contains MongoDB configuration for the run history store
type MongoDBConfig struct {
	URI             string
	Database        string
	Timeout         time.Duration
	MaxPoolSize     uint64
	MinPoolSize     uint64
	MaxConnIdleTime time.Duration
}

// ClassifierConfig contains settings for the external classification service
type ClassifierConfig struct {
	BaseURL  string        // Base URL of the classification HTTP API
	Timeout  time.Duration // Per-call timeout
	MinScore int           // Confidence below this never books automatically
}

// LedgerConfig pins the well-known account codes the booking engine needs.
// The chart of accounts itself lives in the account directory; these codes
// identify the cash, clearing and private-withdrawal accounts within it.
type LedgerConfig struct {
	BankAccountCode       string // Cash account representing the bank
	BankCodeRangeLow      string // Inclusive lower bound of bank-account codes
	BankCodeRangeHigh     string // Inclusive upper bound of bank-account codes
	DebtorsClearingCode   string // Accounts-receivable clearing account
	CreditorsClearingCode string // Accounts-payable clearing account
	PrivateWithdrawalCode string // Equity account for private withdrawals
}

// BulkConfig contains bulk reconciliation pacing configuration
type BulkConfig struct {
	ItemDelay     time.Duration // Minimum delay between consecutive private-path items
	ClassifyDelay time.Duration // Minimum delay between classifier calls
}

// WorkerPoolConfig contains worker pool configuration for the run dispatcher
type WorkerPoolConfig struct {
	Size int // Maximum number of concurrently executing runs
}

// validate performs comprehensive validation of all configuration values,
// ensuring they meet minimum requirements and logical constraints
func (c *Config) validate() error {
	var validationErrors []string

	// Validate Server config
	if c.Server.Port <= 0 {
		validationErrors = append(validationErrors, "SERVER_PORT must be greater than 0")
	}
	if c.Server.ShutdownTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_SHUTDOWN_TIMEOUT must be greater than 0")
	}
	if c.Server.ReadTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_READ_TIMEOUT must be greater than 0")
	}
	if c.Server.WriteTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_WRITE_TIMEOUT must be greater than 0")
	}
	if c.Server.IdleTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_IDLE_TIMEOUT must be greater than 0")
	}

	// Validate Kafka config
	if len(c.Kafka.Brokers) == 0 {
		validationErrors = append(validationErrors, "KAFKA_BROKERS is required")
	}
	if c.Kafka.RunTopic == "" {
		validationErrors = append(validationErrors, "KAFKA_RUN_TOPIC is required")
	}
	if c.Kafka.ConsumerGroup == "" {
		validationErrors = append(validationErrors, "KAFKA_CONSUMER_GROUP is required")
	}
	if c.Kafka.MinBytes <= 0 {
		validationErrors = append(validationErrors, "KAFKA_CONSUMER_MIN_BYTES must be greater than 0")
	}
	if c.Kafka.MaxBytes <= 0 {
		validationErrors = append(validationErrors, "KAFKA_CONSUMER_MAX_BYTES must be greater than 0")
	}
	if c.Kafka.MaxWait <= 0 {
		validationErrors = append(validationErrors, "KAFKA_CONSUMER_MAX_WAIT must be greater than 0")
	}
	if c.Kafka.DLQTopic == "" {
		validationErrors = append(validationErrors, "KAFKA_DLQ_TOPIC is required")
	}

	// Validate PostgreSQL config
	if c.Postgres.URL == "" {
		validationErrors = append(validationErrors, "POSTGRES_URL is required")
	}
	if c.Postgres.MaxConns <= 0 {
		validationErrors = append(validationErrors, "POSTGRES_MAX_CONNS must be greater than 0")
	}
	if c.Postgres.MinConns <= 0 {
		validationErrors = append(validationErrors, "POSTGRES_MIN_CONNS must be greater than 0")
	}
	if c.Postgres.ConnMaxLifetime <= 0 {
		validationErrors = append(validationErrors, "POSTGRES_MAX_CONN_LIFETIME must be greater than 0")
	}
	if c.Postgres.ConnMaxIdleTime <= 0 {
		validationErrors = append(validationErrors, "POSTGRES_MAX_CONN_IDLE_TIME must be greater than 0")
	}

	// Validate MongoDB config
	if c.MongoDB.URI == "" {
		validationErrors = append(validationErrors, "MONGO_URI is required")
	}
	if c.MongoDB.Database == "" {
		validationErrors = append(validationErrors, "MONGO_DATABASE is required")
	}
	if c.MongoDB.Timeout <= 0 {
		validationErrors = append(validationErrors, "MONGO_TIMEOUT must be greater than 0")
	}
	if c.MongoDB.MaxPoolSize <= 0 {
		validationErrors = append(validationErrors, "MONGO_MAX_POOL_SIZE must be greater than 0")
	}
	if c.MongoDB.MinPoolSize <= 0 {
		validationErrors = append(validationErrors, "MONGO_MIN_POOL_SIZE must be greater than 0")
	}
	if c.MongoDB.MaxConnIdleTime <= 0 {
		validationErrors = append(validationErrors, "MONGO_MAX_CONN_IDLE_TIME must be greater than 0")
	}

	// Validate Classifier config
	if c.Classifier.BaseURL == "" {
		validationErrors = append(validationErrors, "CLASSIFIER_BASE_URL is required")
	}
	if c.Classifier.Timeout <= 0 {
		validationErrors = append(validationErrors, "CLASSIFIER_TIMEOUT must be greater than 0")
	}
	if c.Classifier.MinScore < 0 || c.Classifier.MinScore > 100 {
		validationErrors = append(validationErrors, "CLASSIFIER_MIN_SCORE must be between 0 and 100")
	}

	// Validate Ledger config
	if c.Ledger.BankAccountCode == "" {
		validationErrors = append(validationErrors, "LEDGER_BANK_ACCOUNT_CODE is required")
	}
	if c.Ledger.BankCodeRangeLow == "" || c.Ledger.BankCodeRangeHigh == "" {
		validationErrors = append(validationErrors, "LEDGER_BANK_CODE_RANGE_LOW and LEDGER_BANK_CODE_RANGE_HIGH are required")
	}
	if c.Ledger.BankCodeRangeLow > c.Ledger.BankCodeRangeHigh {
		validationErrors = append(validationErrors, "LEDGER_BANK_CODE_RANGE_LOW must not exceed LEDGER_BANK_CODE_RANGE_HIGH")
	}
	if c.Ledger.DebtorsClearingCode == "" {
		validationErrors = append(validationErrors, "LEDGER_DEBTORS_CLEARING_CODE is required")
	}
	if c.Ledger.CreditorsClearingCode == "" {
		validationErrors = append(validationErrors, "LEDGER_CREDITORS_CLEARING_CODE is required")
	}
	if c.Ledger.PrivateWithdrawalCode == "" {
		validationErrors = append(validationErrors, "LEDGER_PRIVATE_WITHDRAWAL_CODE is required")
	}

	// Validate Bulk config
	if c.Bulk.ItemDelay < 0 {
		validationErrors = append(validationErrors, "BULK_ITEM_DELAY must not be negative")
	}
	if c.Bulk.ClassifyDelay < 0 {
		validationErrors = append(validationErrors, "BULK_CLASSIFY_DELAY must not be negative")
	}

	// Validate WorkerPool config
	if c.WorkerPool.Size <= 0 {
		validationErrors = append(validationErrors, "WORKER_POOL_SIZE must be greater than 0")
	}

	if len(validationErrors) > 0 {
		return errors.New(strings.Join(validationErrors, ", "))
	}

	return nil
}
