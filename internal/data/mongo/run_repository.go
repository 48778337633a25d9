// Package mongo provides the MongoDB-backed run history store. Bulk
// reconciliation runs are documents updated in place as the worker reports
// progress.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/grootboek-reconciliation-engine/internal/domain/shared"
)

const (
	// RunCollectionName is the name of the runs collection in MongoDB
	RunCollectionName = "reconciliation_runs"
)

// RunRepository implements the shared.RunRepository interface for MongoDB
type RunRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewRunRepository creates a new MongoDB run repository
func NewRunRepository(logger *slog.Logger, db *mongo.Database) shared.RunRepository {
	return &RunRepository{
		db:     db,
		logger: logger,
	}
}

// Create stores a new run record in status Pending
func (r *RunRepository) Create(ctx context.Context, run *shared.Run) error {
	collection := r.db.Collection(RunCollectionName)

	_, err := collection.InsertOne(ctx, run)
	if err != nil {
		r.logger.Error("Failed to create run record",
			"run_id", run.ID.String(),
			"error", err)
		return fmt.Errorf("failed to create run record: %w", err)
	}

	return nil
}

// GetByID retrieves a run record by its ID.
// Returns ErrRunNotFound if no record exists.
func (r *RunRepository) GetByID(ctx context.Context, id uuid.UUID) (*shared.Run, error) {
	collection := r.db.Collection(RunCollectionName)

	filter := bson.M{"run_id": id}
	var run shared.Run
	err := collection.FindOne(ctx, filter).Decode(&run)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, shared.ErrRunNotFound{RunID: id}
		}
		r.logger.Error("Failed to get run record",
			"run_id", id.String(),
			"error", err)
		return nil, fmt.Errorf("failed to get run record: %w", err)
	}

	return &run, nil
}

// MarkRunning moves a run to Running and records its size and start time
func (r *RunRepository) MarkRunning(ctx context.Context, id uuid.UUID, total int) error {
	now := time.Now()
	update := bson.M{"$set": bson.M{
		"status":     shared.RunStatusRunning,
		"total":      total,
		"started_at": now,
	}}
	return r.updateOne(ctx, id, update, "mark run running")
}

// UpdateProgress records how far the worker has advanced through the run
func (r *RunRepository) UpdateProgress(ctx context.Context, id uuid.UUID, processed int, phase string) error {
	update := bson.M{"$set": bson.M{
		"processed": processed,
		"phase":     phase,
	}}
	return r.updateOne(ctx, id, update, "update run progress")
}

// Complete stores the final summary and moves the run to Completed
func (r *RunRepository) Complete(ctx context.Context, id uuid.UUID, summary shared.Summary) error {
	now := time.Now()
	update := bson.M{"$set": bson.M{
		"status":      shared.RunStatusCompleted,
		"summary":     summary,
		"finished_at": now,
	}}
	return r.updateOne(ctx, id, update, "complete run")
}

// Fail records the failure reason and moves the run to Failed
func (r *RunRepository) Fail(ctx context.Context, id uuid.UUID, reason string) error {
	now := time.Now()
	update := bson.M{"$set": bson.M{
		"status":         shared.RunStatusFailed,
		"failure_reason": reason,
		"finished_at":    now,
	}}
	return r.updateOne(ctx, id, update, "fail run")
}

func (r *RunRepository) updateOne(ctx context.Context, id uuid.UUID, update bson.M, op string) error {
	collection := r.db.Collection(RunCollectionName)

	result, err := collection.UpdateOne(ctx, bson.M{"run_id": id}, update)
	if err != nil {
		r.logger.Error("Failed to "+op,
			"run_id", id.String(),
			"error", err)
		return fmt.Errorf("failed to %s: %w", op, err)
	}

	if result.MatchedCount == 0 {
		return shared.ErrRunNotFound{RunID: id}
	}

	return nil
}
