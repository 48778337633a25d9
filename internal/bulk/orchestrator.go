// Package bulk runs batch reconciliation over a selection of pending bank
// transactions: private withdrawals first, then classifier-assisted booking
// for the rest. Items are processed strictly one at a time; a failing item
// is skipped, never aborting the run.
package bulk

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/grootboek-reconciliation-engine/internal/config"
	"github.com/grootboek-reconciliation-engine/internal/domain/account"
	"github.com/grootboek-reconciliation-engine/internal/domain/banktransaction"
	"github.com/grootboek-reconciliation-engine/internal/domain/journal"
	"github.com/grootboek-reconciliation-engine/internal/domain/shared"
	"github.com/grootboek-reconciliation-engine/internal/observability"
	"github.com/grootboek-reconciliation-engine/internal/platform/classifier"
)

// Booker posts a single transaction; satisfied by the booking engine
type Booker interface {
	Book(ctx context.Context, req shared.BookingRequest) (*journal.Entry, error)
}

// Request is one bulk reconciliation run: the full ordered selection plus
// the subset the user marked as private withdrawals. The request is consumed
// by the run; nothing about the selection survives it.
type Request struct {
	TransactionIDs []uuid.UUID
	PrivateIDs     []uuid.UUID
	CorrelationID  string
}

// ProgressFunc receives per-item progress: how many items have been
// processed, the run total and the phase currently executing.
type ProgressFunc func(processed, total int, phase string)

// Orchestrator executes bulk reconciliation runs
type Orchestrator struct {
	logger       *slog.Logger
	booker       Booker
	classifier   classifier.Classifier
	accounts     account.Repository
	transactions banktransaction.Repository
	metrics      *observability.Metrics
	ledger       config.LedgerConfig
	bulk         config.BulkConfig
	minScore     int
}

// NewOrchestrator creates a new bulk reconciliation orchestrator
func NewOrchestrator(
	logger *slog.Logger,
	booker Booker,
	cls classifier.Classifier,
	accounts account.Repository,
	transactions banktransaction.Repository,
	metrics *observability.Metrics,
	cfg *config.Config,
) *Orchestrator {
	return &Orchestrator{
		logger:       logger,
		booker:       booker,
		classifier:   cls,
		accounts:     accounts,
		transactions: transactions,
		metrics:      metrics,
		ledger:       cfg.Ledger,
		bulk:         cfg.Bulk,
		minScore:     cfg.Classifier.MinScore,
	}
}

// Run processes the selection in two phases. Phase one books every item
// marked private against the private-withdrawal equity account; phase two
// books the remaining items with classifier assistance. The private phase
// completes in full before the first classifier call. The run fails fast,
// before booking anything, when the private-withdrawal account is missing
// and at least one item needs it.
func (o *Orchestrator) Run(ctx context.Context, req Request, progress ProgressFunc) (shared.Summary, error) {
	var summary shared.Summary

	privateSet := make(map[uuid.UUID]bool, len(req.PrivateIDs))
	for _, id := range req.PrivateIDs {
		privateSet[id] = true
	}

	var privateItems, classifyItems []uuid.UUID
	for _, id := range req.TransactionIDs {
		if privateSet[id] {
			privateItems = append(privateItems, id)
		} else {
			classifyItems = append(classifyItems, id)
		}
	}
	total := len(privateItems) + len(classifyItems)

	var privateAccount *account.Account
	if len(privateItems) > 0 {
		var err error
		privateAccount, err = o.accounts.GetByCode(ctx, o.ledger.PrivateWithdrawalCode)
		if err != nil {
			return summary, err
		}
	}

	processed := 0
	report := func(phase string) {
		processed++
		if progress != nil {
			progress(processed, total, phase)
		}
	}

	for i, id := range privateItems {
		if i > 0 {
			if err := o.wait(ctx, o.bulk.ItemDelay); err != nil {
				return summary, err
			}
		}
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		_, err := o.booker.Book(ctx, shared.BookingRequest{
			TransactionID: id,
			AccountID:     privateAccount.ID,
			Description:   "Privé opname",
			Mode:          shared.ModeDirect,
			CorrelationID: req.CorrelationID,
		})
		if err != nil {
			o.skip(id, shared.PhasePrivate, err, &summary)
		} else {
			summary.BookedPrivate++
			o.metrics.RecordBooking(string(shared.ModeDirect), observability.SourceBulkPrivate)
		}
		report(shared.PhasePrivate)
	}

	for i, id := range classifyItems {
		if i > 0 {
			if err := o.wait(ctx, o.bulk.ClassifyDelay); err != nil {
				return summary, err
			}
		}
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		if o.classifyAndBook(ctx, id, req.CorrelationID, &summary) {
			summary.BookedClassified++
		}
		report(shared.PhaseClassified)
	}

	o.logger.Info("Bulk reconciliation run finished",
		"booked_private", summary.BookedPrivate,
		"booked_classified", summary.BookedClassified,
		"skipped", summary.Skipped,
		"correlation_id", req.CorrelationID)

	return summary, nil
}

// classifyAndBook handles one classifier-assisted item, reporting whether it
// was booked. Anything that prevents a confident booking skips the item.
func (o *Orchestrator) classifyAndBook(ctx context.Context, id uuid.UUID, correlationID string, summary *shared.Summary) bool {
	txn, err := o.transactions.GetByID(ctx, id)
	if err != nil {
		o.skip(id, shared.PhaseClassified, err, summary)
		return false
	}

	result, err := o.classifier.Analyze(ctx, txn)
	if err != nil {
		o.metrics.RecordClassifierCall("error")
		o.skip(id, shared.PhaseClassified, err, summary)
		return false
	}
	o.metrics.RecordClassifierCall("ok")

	o.storeSuggestion(ctx, id, result)

	if result.Score < o.minScore {
		o.logger.Info("Skipping low-confidence suggestion",
			"transaction_id", id.String(),
			"score", result.Score,
			"min_score", o.minScore)
		summary.Skipped++
		o.metrics.RecordSkip()
		return false
	}
	if result.Suggestion.AccountID == nil {
		o.skip(id, shared.PhaseClassified, shared.ValidationError{Field: "suggestion", Reason: "no account suggested"}, summary)
		return false
	}

	bookingReq := shared.BookingRequest{
		TransactionID: id,
		AccountID:     *result.Suggestion.AccountID,
		Description:   result.Suggestion.Description,
		Mode:          shared.ModeDirect,
		CorrelationID: correlationID,
	}
	if result.Suggestion.Mode == classifier.SuggestionModeRelation {
		if result.Suggestion.ContactID == nil {
			o.skip(id, shared.PhaseClassified, shared.ValidationError{Field: "suggestion", Reason: "relation suggestion without contact"}, summary)
			return false
		}
		bookingReq.Mode = shared.ModeViaRelatie
		bookingReq.ContactID = result.Suggestion.ContactID
	}

	if _, err := o.booker.Book(ctx, bookingReq); err != nil {
		o.skip(id, shared.PhaseClassified, err, summary)
		return false
	}

	o.metrics.RecordBooking(string(bookingReq.Mode), observability.SourceBulkClassified)
	return true
}

// storeSuggestion persists the classifier payload for later inspection.
// Best effort: a storage failure here must not cost the booking.
func (o *Orchestrator) storeSuggestion(ctx context.Context, id uuid.UUID, result *classifier.Result) {
	payload, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := o.transactions.StoreSuggestion(ctx, id, payload); err != nil {
		o.logger.Warn("Failed to store classification suggestion",
			"transaction_id", id.String(),
			"error", err)
	}
}

func (o *Orchestrator) skip(id uuid.UUID, phase string, err error, summary *shared.Summary) {
	o.logger.Warn("Skipping transaction in bulk run",
		"transaction_id", id.String(),
		"phase", phase,
		"error", err)
	summary.Skipped++
	o.metrics.RecordSkip()
}

func (o *Orchestrator) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
