package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/grootboek-reconciliation-engine/internal/domain/shared"
)

// WorkerPoolRunService dispatches runs onto a bounded worker pool. Items
// within one run stay strictly sequential; the pool only bounds how many
// independent runs execute at once.
type WorkerPoolRunService struct {
	baseService RunProcessingService
	pool        *ants.Pool
	logger      *slog.Logger

	mu      sync.Mutex
	results map[string]chan error
}

type WorkerPoolConfig struct {
	Size int
}

func NewWorkerPoolRunService(
	baseService RunProcessingService,
	config WorkerPoolConfig,
	logger *slog.Logger,
) (*WorkerPoolRunService, error) {
	pool, err := ants.NewPool(config.Size)
	if err != nil {
		return nil, err
	}

	return &WorkerPoolRunService{
		baseService: baseService,
		pool:        pool,
		logger:      logger,
		results:     make(map[string]chan error),
	}, nil
}

// ProcessRun submits a run to the worker pool and waits for its outcome
func (s *WorkerPoolRunService) ProcessRun(ctx context.Context, request *shared.RunRequest) error {
	logger := s.logger
	if request.CorrelationID != "" {
		logger = s.logger.With("correlation_id", request.CorrelationID)
	}

	logger.Info("Submitting run to worker pool",
		"run_id", request.RunID.String(),
		"total", len(request.TransactionIDs))

	resultChan := make(chan error, 1)
	runID := request.RunID.String()
	s.mu.Lock()
	s.results[runID] = resultChan
	s.mu.Unlock()

	requestCopy := *request

	err := s.pool.Submit(func() {
		err := s.baseService.ProcessRun(ctx, &requestCopy)
		resultChan <- err

		s.mu.Lock()
		delete(s.results, runID)
		close(resultChan)
		s.mu.Unlock()
	})
	if err != nil {
		s.mu.Lock()
		delete(s.results, runID)
		close(resultChan)
		s.mu.Unlock()

		logger.Error("Failed to submit run to worker pool",
			"run_id", request.RunID.String(),
			"error", err)
		return err
	}

	return <-resultChan
}

// Shutdown gracefully shuts down the worker pool
func (s *WorkerPoolRunService) Shutdown() {
	s.logger.Info("Shutting down worker pool", "running_workers", s.pool.Running())
	s.pool.Release()
}

// Running returns the number of running workers in the pool
func (s *WorkerPoolRunService) Running() int {
	return s.pool.Running()
}
