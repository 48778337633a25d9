// Package booking implements double-entry posting of bank transactions.
// Posting is atomic: the journal entries, the transaction link and any
// side effects (rule creation, contact default update) commit together or
// not at all.
package booking

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/grootboek-reconciliation-engine/internal/config"
	"github.com/grootboek-reconciliation-engine/internal/domain/account"
	"github.com/grootboek-reconciliation-engine/internal/domain/banktransaction"
	"github.com/grootboek-reconciliation-engine/internal/domain/contact"
	"github.com/grootboek-reconciliation-engine/internal/domain/journal"
	"github.com/grootboek-reconciliation-engine/internal/domain/rule"
	"github.com/grootboek-reconciliation-engine/internal/domain/shared"
)

// TxRunner executes a function inside a database transaction
type TxRunner interface {
	ExecuteTx(ctx context.Context, fn func(tx pgx.Tx) error) error
}

// Engine posts bank transactions to the ledger and reclassifies booked ones
type Engine struct {
	logger       *slog.Logger
	tx           TxRunner
	accounts     account.Repository
	contacts     contact.Repository
	transactions banktransaction.Repository
	journals     journal.Repository
	rules        rule.Repository
	ledger       config.LedgerConfig
}

// NewEngine creates a new booking engine
func NewEngine(
	logger *slog.Logger,
	tx TxRunner,
	accounts account.Repository,
	contacts contact.Repository,
	transactions banktransaction.Repository,
	journals journal.Repository,
	rules rule.Repository,
	ledger config.LedgerConfig,
) *Engine {
	return &Engine{
		logger:       logger,
		tx:           tx,
		accounts:     accounts,
		contacts:     contacts,
		transactions: transactions,
		journals:     journals,
		rules:        rules,
		ledger:       ledger,
	}
}

// Book posts one pending bank transaction against a target account. Direct
// mode produces a single two-line entry between the bank account and the
// target. Via-relatie mode produces two entries through the debtor or
// creditor clearing account and links the transaction to the settlement
// entry. Returns the entry the transaction is linked to.
func (e *Engine) Book(ctx context.Context, req shared.BookingRequest) (*journal.Entry, error) {
	txn, err := e.transactions.GetByID(ctx, req.TransactionID)
	if err != nil {
		return nil, err
	}
	if txn.IsBooked() {
		return nil, banktransaction.ErrAlreadyBooked
	}
	if txn.Amount == 0 {
		return nil, shared.ValidationError{Field: "amount", Reason: "transaction amount is zero"}
	}

	target, err := e.accounts.GetByID(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}
	if !target.Active {
		return nil, shared.ValidationError{Field: "account_id", Reason: "target account is inactive"}
	}

	bank, err := e.accounts.GetByCode(ctx, e.ledger.BankAccountCode)
	if err != nil {
		return nil, err
	}

	var cnt *contact.Contact
	if req.Mode == shared.ModeViaRelatie || req.SetContactDefault {
		if req.ContactID == nil {
			return nil, shared.ValidationError{Field: "contact_id", Reason: "contact is required"}
		}
		cnt, err = e.contacts.GetByID(ctx, *req.ContactID)
		if err != nil {
			return nil, err
		}
		if !cnt.Active {
			return nil, shared.ValidationError{Field: "contact_id", Reason: "contact is inactive"}
		}
	}
	if req.Mode == shared.ModeViaRelatie {
		if txn.IsInflow() && !cnt.CompatibleWithInflow() {
			return nil, shared.ValidationError{Field: "contact_id", Reason: "contact cannot receive incoming payments"}
		}
		if !txn.IsInflow() && !cnt.CompatibleWithOutflow() {
			return nil, shared.ValidationError{Field: "contact_id", Reason: "contact cannot receive outgoing payments"}
		}
	}

	var newRule *rule.Rule
	if req.RuleKeyword != "" {
		newRule, err = rule.NewRule(req.RuleKeyword, req.AccountID)
		if err != nil {
			return nil, shared.ValidationError{Field: "rule_keyword", Reason: err.Error()}
		}
	}

	memo := req.Description
	if memo == "" {
		memo = txn.Description
	}

	var entries []*journal.Entry
	var linked *journal.Entry
	switch req.Mode {
	case shared.ModeDirect:
		entry, err := e.buildDirect(txn, bank.ID, target.ID, memo)
		if err != nil {
			return nil, err
		}
		entries = []*journal.Entry{entry}
		linked = entry
	case shared.ModeViaRelatie:
		recognition, settlement, err := e.buildViaRelatie(ctx, txn, bank.ID, target.ID, memo)
		if err != nil {
			return nil, err
		}
		entries = []*journal.Entry{recognition, settlement}
		linked = settlement
	default:
		return nil, shared.ValidationError{Field: "mode", Reason: "unknown booking mode"}
	}

	err = e.tx.ExecuteTx(ctx, func(tx pgx.Tx) error {
		journals := e.journals.WithTx(tx)
		for _, entry := range entries {
			if err := journals.Create(ctx, entry); err != nil {
				return shared.StorageError{Op: "create journal entry", Err: err}
			}
		}

		if err := e.transactions.WithTx(tx).MarkBooked(ctx, txn.ID, linked.ID); err != nil {
			if errors.Is(err, banktransaction.ErrAlreadyBooked) {
				return err
			}
			return shared.StorageError{Op: "link transaction", Err: err}
		}

		// Rule creation is part of the booking: if the rule cannot be
		// stored, the posting is rolled back rather than silently losing
		// the automation the user asked for.
		if newRule != nil {
			if err := e.rules.WithTx(tx).Create(ctx, newRule); err != nil {
				return shared.StorageError{Op: "create bank rule", Err: err}
			}
		}

		if req.SetContactDefault {
			if err := e.contacts.WithTx(tx).UpdateDefaultAccount(ctx, cnt.ID, target.ID); err != nil {
				return shared.StorageError{Op: "update contact default account", Err: err}
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := txn.MarkBooked(linked.ID); err != nil {
		return nil, err
	}

	e.logger.Info("Booked bank transaction",
		"transaction_id", txn.ID.String(),
		"entry_id", linked.ID.String(),
		"mode", string(req.Mode),
		"correlation_id", req.CorrelationID)

	return linked, nil
}

func (e *Engine) buildDirect(txn *banktransaction.Transaction, bankID, targetID uuid.UUID, memo string) (*journal.Entry, error) {
	amount := txn.AbsAmount()
	var lines []journal.Line
	if txn.IsInflow() {
		lines = []journal.Line{
			journal.DebitLine(bankID, amount),
			journal.CreditLine(targetID, amount),
		}
	} else {
		lines = []journal.Line{
			journal.DebitLine(targetID, amount),
			journal.CreditLine(bankID, amount),
		}
	}
	return journal.NewEntry(memo, lines)
}

func (e *Engine) buildViaRelatie(ctx context.Context, txn *banktransaction.Transaction, bankID, targetID uuid.UUID, memo string) (recognition, settlement *journal.Entry, err error) {
	clearingCode := e.ledger.DebtorsClearingCode
	if !txn.IsInflow() {
		clearingCode = e.ledger.CreditorsClearingCode
	}
	clearing, err := e.accounts.GetByCode(ctx, clearingCode)
	if err != nil {
		return nil, nil, err
	}

	amount := txn.AbsAmount()
	if txn.IsInflow() {
		// Recognize the receivable, then settle it from the bank
		recognition, err = journal.NewEntry(memo, []journal.Line{
			journal.DebitLine(clearing.ID, amount),
			journal.CreditLine(targetID, amount),
		})
		if err != nil {
			return nil, nil, err
		}
		settlement, err = journal.NewEntry(memo, []journal.Line{
			journal.DebitLine(bankID, amount),
			journal.CreditLine(clearing.ID, amount),
		})
		if err != nil {
			return nil, nil, err
		}
		return recognition, settlement, nil
	}

	// Recognize the payable, then settle it against the bank
	recognition, err = journal.NewEntry(memo, []journal.Line{
		journal.DebitLine(targetID, amount),
		journal.CreditLine(clearing.ID, amount),
	})
	if err != nil {
		return nil, nil, err
	}
	settlement, err = journal.NewEntry(memo, []journal.Line{
		journal.DebitLine(clearing.ID, amount),
		journal.CreditLine(bankID, amount),
	})
	if err != nil {
		return nil, nil, err
	}
	return recognition, settlement, nil
}

// Reclassify repoints the non-cash line of a booked transaction's journal
// entry at a different ledger account. The cash line stays untouched and
// amounts never change, so the entry remains balanced. When no single
// non-cash line can be identified the posting is ambiguous and the caller
// must correct it manually.
func (e *Engine) Reclassify(ctx context.Context, transactionID, newAccountID uuid.UUID) (*journal.Entry, error) {
	txn, err := e.transactions.GetByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if !txn.IsBooked() {
		return nil, banktransaction.ErrNotBooked
	}

	target, err := e.accounts.GetByID(ctx, newAccountID)
	if err != nil {
		return nil, err
	}
	if !target.Active {
		return nil, shared.ValidationError{Field: "account_id", Reason: "target account is inactive"}
	}
	if target.IsCashLike(e.ledger.BankCodeRangeLow, e.ledger.BankCodeRangeHigh) {
		return nil, shared.ValidationError{Field: "account_id", Reason: "cannot reclassify onto a bank account"}
	}

	entry, err := e.journals.GetByID(ctx, *txn.JournalEntryID)
	if err != nil {
		return nil, err
	}

	var candidate *journal.Line
	for i := range entry.Lines {
		acct, err := e.accounts.GetByID(ctx, entry.Lines[i].AccountID)
		if err != nil {
			return nil, err
		}
		if acct.IsCashLike(e.ledger.BankCodeRangeLow, e.ledger.BankCodeRangeHigh) {
			continue
		}
		if candidate != nil {
			return nil, shared.AmbiguousPostingError{TransactionID: transactionID}
		}
		candidate = &entry.Lines[i]
	}
	if candidate == nil {
		return nil, shared.AmbiguousPostingError{TransactionID: transactionID}
	}

	err = e.tx.ExecuteTx(ctx, func(tx pgx.Tx) error {
		if err := e.journals.WithTx(tx).UpdateLineAccount(ctx, candidate.ID, newAccountID); err != nil {
			return shared.StorageError{Op: "update journal line account", Err: err}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	candidate.AccountID = newAccountID

	e.logger.Info("Reclassified booked transaction",
		"transaction_id", transactionID.String(),
		"entry_id", entry.ID.String(),
		"line_id", candidate.ID.String(),
		"account_id", newAccountID.String())

	return entry, nil
}
