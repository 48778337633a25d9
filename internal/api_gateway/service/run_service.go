package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/grootboek-reconciliation-engine/internal/domain/shared"
	"github.com/grootboek-reconciliation-engine/internal/platform/messaging/producers"
)

type runService struct {
	logger    *slog.Logger
	runs      shared.RunRepository
	publisher producers.MessagePublisher
}

// NewRunService creates the gateway-side run service. Starting a run records
// it as Pending and hands it to the worker through the run queue; the gateway
// never executes runs itself.
func NewRunService(logger *slog.Logger, runs shared.RunRepository, publisher producers.MessagePublisher) RunService {
	return &runService{
		logger:    logger,
		runs:      runs,
		publisher: publisher,
	}
}

// StartRun records a pending run and enqueues it for the worker
func (s *runService) StartRun(ctx context.Context, transactionIDs, privateIDs []uuid.UUID, correlationID string) (*shared.Run, error) {
	run := &shared.Run{
		ID:            uuid.New(),
		Status:        shared.RunStatusPending,
		Total:         len(transactionIDs),
		CorrelationID: correlationID,
		CreatedAt:     time.Now(),
	}
	if err := s.runs.Create(ctx, run); err != nil {
		return nil, shared.StorageError{Op: "create run record", Err: err}
	}

	request := shared.RunRequest{
		RunID:          run.ID,
		TransactionIDs: transactionIDs,
		PrivateIDs:     privateIDs,
		CorrelationID:  correlationID,
		RequestedAt:    run.CreatedAt,
	}
	if err := s.publisher.Publish(ctx, run.ID.String(), request); err != nil {
		// The run was recorded but never enqueued; mark it failed so it does
		// not linger as Pending forever.
		if failErr := s.runs.Fail(ctx, run.ID, "failed to enqueue run request"); failErr != nil {
			s.logger.Error("Failed to mark unenqueued run as failed",
				"run_id", run.ID.String(),
				"error", failErr)
		}
		return nil, shared.StorageError{Op: "enqueue run request", Err: err}
	}

	s.logger.Info("Started bulk reconciliation run",
		"run_id", run.ID.String(),
		"total", run.Total,
		"private", len(privateIDs),
		"correlation_id", correlationID)

	return run, nil
}

// GetRun retrieves the current state of a run
func (s *runService) GetRun(ctx context.Context, id uuid.UUID) (*shared.Run, error) {
	return s.runs.GetByID(ctx, id)
}
