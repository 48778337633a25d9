// Package consumer handles run request messages arriving from Kafka.
package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/grootboek-reconciliation-engine/internal/domain/shared"
	"github.com/grootboek-reconciliation-engine/internal/platform/messaging/producers"
	"github.com/grootboek-reconciliation-engine/internal/reconciliation_worker/service"
)

// RunEventHandler handles incoming run request messages from Kafka
type RunEventHandler struct {
	processingService service.RunProcessingService
	dlq               producers.DeadLetterPublisher
	logger            *slog.Logger
}

// NewRunEventHandler creates a new handler
func NewRunEventHandler(
	logger *slog.Logger,
	processingService service.RunProcessingService,
	dlq producers.DeadLetterPublisher,
) *RunEventHandler {
	return &RunEventHandler{
		processingService: processingService,
		dlq:               dlq,
		logger:            logger,
	}
}

// HandleMessage processes one Kafka message. Unparseable messages go to the
// DLQ; run execution errors are returned so the consumer can retry.
func (h *RunEventHandler) HandleMessage(ctx context.Context, key []byte, value []byte) error {
	var request shared.RunRequest
	if err := json.Unmarshal(value, &request); err != nil {
		h.logger.Error("Failed to unmarshal run request from Kafka message",
			"error", err,
			"message_key", string(key))

		if h.dlq != nil {
			reason := fmt.Sprintf("failed to unmarshal run request: %s", err.Error())
			if dlqErr := h.dlq.PublishToDLQ(ctx, string(key), value, reason); dlqErr != nil {
				h.logger.Error("Failed to publish message to DLQ after unmarshal error",
					"dlq_error", dlqErr,
					"original_error", err,
					"message_key", string(key))
			} else {
				// Message handled, commit offset
				return nil
			}
		}
		return fmt.Errorf("failed to unmarshal message value: %w", err)
	}

	logger := h.logger
	if request.CorrelationID != "" {
		logger = h.logger.With("correlation_id", request.CorrelationID)
	}

	logger.Info("Received run request",
		"run_id", request.RunID.String(),
		"total", len(request.TransactionIDs))

	if err := h.processingService.ProcessRun(ctx, &request); err != nil {
		logger.Error("Failed to process run",
			"run_id", request.RunID.String(),
			"error", err)
		return fmt.Errorf("processing run %s failed: %w", request.RunID.String(), err)
	}

	return nil
}
