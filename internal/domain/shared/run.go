package shared

import (
	"time"

	"github.com/google/uuid"
)

// RunStatus tracks the lifecycle of a bulk reconciliation run
type RunStatus string

const (
	RunStatusPending   RunStatus = "PENDING"
	RunStatusRunning   RunStatus = "RUNNING"
	RunStatusCompleted RunStatus = "COMPLETED"
	RunStatusFailed    RunStatus = "FAILED"
)

// Bulk run phase labels, reported through progress events
const (
	PhasePrivate    = "private withdrawals"
	PhaseClassified = "classification"
)

// RunRequest is the Kafka message that triggers a bulk reconciliation run.
// The private selection travels inside the request value object; no shared
// state exists between the gateway and the worker.
type RunRequest struct {
	RunID          uuid.UUID   `json:"run_id"`
	TransactionIDs []uuid.UUID `json:"transaction_ids"`
	PrivateIDs     []uuid.UUID `json:"private_ids"`
	CorrelationID  string      `json:"correlation_id"`
	RequestedAt    time.Time   `json:"requested_at"`
}

// Progress is the advisory per-item progress event emitted by the
// orchestrator after each processed transaction. It is not persisted by the
// orchestrator itself; callers decide what to do with it.
type Progress struct {
	Index int    `json:"index"` // 1-based position within the run
	Total int    `json:"total"`
	Phase string `json:"phase"`
}

// Summary aggregates the outcome of a bulk reconciliation run
type Summary struct {
	BookedPrivate    int `json:"booked_private" bson:"booked_private"`
	BookedClassified int `json:"booked_classified" bson:"booked_classified"`
	Skipped          int `json:"skipped" bson:"skipped"`
}

// Run is the persisted record of a bulk reconciliation run, stored in the
// run history store and updated as the worker makes progress.
type Run struct {
	ID            uuid.UUID  `json:"id" bson:"run_id"`
	Status        RunStatus  `json:"status" bson:"status"`
	Total         int        `json:"total" bson:"total"`
	Processed     int        `json:"processed" bson:"processed"`
	Phase         string     `json:"phase,omitempty" bson:"phase,omitempty"`
	Summary       *Summary   `json:"summary,omitempty" bson:"summary,omitempty"`
	FailureReason string     `json:"failure_reason,omitempty" bson:"failure_reason,omitempty"`
	CorrelationID string     `json:"correlation_id,omitempty" bson:"correlation_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at" bson:"created_at"`
	StartedAt     *time.Time `json:"started_at,omitempty" bson:"started_at,omitempty"`
	FinishedAt    *time.Time `json:"finished_at,omitempty" bson:"finished_at,omitempty"`
}
