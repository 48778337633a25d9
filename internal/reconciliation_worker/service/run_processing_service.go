package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/grootboek-reconciliation-engine/internal/bulk"
	"github.com/grootboek-reconciliation-engine/internal/domain/shared"
)

type RunProcessingServiceImpl struct {
	logger   *slog.Logger
	executor RunExecutor
	runs     shared.RunRepository
}

// NewRunProcessingService creates the service that drives one run from
// Pending to Completed or Failed, persisting progress along the way.
func NewRunProcessingService(logger *slog.Logger, executor RunExecutor, runs shared.RunRepository) RunProcessingService {
	return &RunProcessingServiceImpl{
		logger:   logger,
		executor: executor,
		runs:     runs,
	}
}

// ProcessRun executes one bulk reconciliation run. Returning nil acknowledges
// the message; errors are returned only when a retry could help.
func (s *RunProcessingServiceImpl) ProcessRun(ctx context.Context, request *shared.RunRequest) error {
	logger := s.logger
	if request.CorrelationID != "" {
		logger = s.logger.With("correlation_id", request.CorrelationID)
	}

	logger.Info("Processing bulk reconciliation run",
		"run_id", request.RunID.String(),
		"total", len(request.TransactionIDs),
		"private", len(request.PrivateIDs))

	if err := s.runs.MarkRunning(ctx, request.RunID, len(request.TransactionIDs)); err != nil {
		if errors.Is(err, shared.ErrRunNotFound{}) {
			// The gateway records the run before enqueueing it, so a missing
			// record will not appear on retry. Acknowledge and move on.
			logger.Error("Run record missing, dropping run request",
				"run_id", request.RunID.String())
			return nil
		}
		return err
	}

	summary, err := s.executor.Run(ctx, bulk.Request{
		TransactionIDs: request.TransactionIDs,
		PrivateIDs:     request.PrivateIDs,
		CorrelationID:  request.CorrelationID,
	}, func(processed, total int, phase string) {
		// Progress is advisory; losing an update is harmless.
		if err := s.runs.UpdateProgress(ctx, request.RunID, processed, phase); err != nil {
			logger.Warn("Failed to persist run progress",
				"run_id", request.RunID.String(),
				"processed", processed,
				"error", err)
		}
	})
	if err != nil {
		logger.Error("Bulk reconciliation run failed",
			"run_id", request.RunID.String(),
			"error", err)
		if failErr := s.runs.Fail(ctx, request.RunID, err.Error()); failErr != nil {
			logger.Error("Failed to mark run as failed",
				"run_id", request.RunID.String(),
				"error", failErr)
		}
		// The failure is recorded; replaying the message would re-book
		// nothing (booking is insert-once) but would burn classifier calls.
		return nil
	}

	if err := s.runs.Complete(ctx, request.RunID, summary); err != nil {
		logger.Error("Failed to mark run as completed",
			"run_id", request.RunID.String(),
			"error", err)
		return err
	}

	logger.Info("Completed bulk reconciliation run",
		"run_id", request.RunID.String(),
		"booked_private", summary.BookedPrivate,
		"booked_classified", summary.BookedClassified,
		"skipped", summary.Skipped)
	return nil
}
