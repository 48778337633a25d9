package shared

import (
	"context"

	"github.com/google/uuid"
)

// RunRepository persists bulk reconciliation run records. The worker writes
// progress as it goes; the gateway reads status and summary back out.
type RunRepository interface {
	Create(ctx context.Context, run *Run) error
	GetByID(ctx context.Context, id uuid.UUID) (*Run, error)
	MarkRunning(ctx context.Context, id uuid.UUID, total int) error
	UpdateProgress(ctx context.Context, id uuid.UUID, processed int, phase string) error
	Complete(ctx context.Context, id uuid.UUID, summary Summary) error
	Fail(ctx context.Context, id uuid.UUID, reason string) error
}

// ErrRunNotFound indicates a missing reconciliation run record
type ErrRunNotFound struct {
	RunID uuid.UUID
}

func (e ErrRunNotFound) Error() string {
	return "reconciliation run not found: " + e.RunID.String()
}

// Is implements the errors.Is interface for ErrRunNotFound
func (e ErrRunNotFound) Is(target error) bool {
	t, ok := target.(ErrRunNotFound)
	if !ok {
		return false
	}
	if t.RunID == uuid.Nil {
		return true
	}
	return e.RunID == t.RunID
}
