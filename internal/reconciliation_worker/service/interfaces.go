// Package service executes bulk reconciliation runs on the worker side.
// Each run is processed sequentially by the orchestrator; the worker pool
// only provides concurrency across independent runs.
package service

import (
	"context"

	"github.com/grootboek-reconciliation-engine/internal/bulk"
	"github.com/grootboek-reconciliation-engine/internal/domain/shared"
)

// RunProcessingService processes one bulk reconciliation run request
type RunProcessingService interface {
	ProcessRun(ctx context.Context, request *shared.RunRequest) error
}

// RunExecutor runs the two-phase reconciliation; satisfied by the bulk
// orchestrator.
type RunExecutor interface {
	Run(ctx context.Context, req bulk.Request, progress bulk.ProgressFunc) (shared.Summary, error)
}
