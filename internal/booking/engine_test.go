package booking

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/grootboek-reconciliation-engine/internal/config"
	"github.com/grootboek-reconciliation-engine/internal/domain/account"
	"github.com/grootboek-reconciliation-engine/internal/domain/banktransaction"
	"github.com/grootboek-reconciliation-engine/internal/domain/contact"
	"github.com/grootboek-reconciliation-engine/internal/domain/journal"
	"github.com/grootboek-reconciliation-engine/internal/domain/shared"
)

var testLedger = config.LedgerConfig{
	BankAccountCode:       "1100",
	BankCodeRangeLow:      "1000",
	BankCodeRangeHigh:     "1199",
	DebtorsClearingCode:   "1300",
	CreditorsClearingCode: "1600",
	PrivateWithdrawalCode: "0600",
}

type engineFixture struct {
	engine       *Engine
	accounts     *MockAccountRepository
	contacts     *MockContactRepository
	transactions *MockTransactionRepository
	journals     *MockJournalRepository
	rules        *MockRuleRepository
}

func newEngineFixture() *engineFixture {
	f := &engineFixture{
		accounts:     new(MockAccountRepository),
		contacts:     new(MockContactRepository),
		transactions: new(MockTransactionRepository),
		journals:     new(MockJournalRepository),
		rules:        new(MockRuleRepository),
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.engine = NewEngine(logger, fakeTxRunner{}, f.accounts, f.contacts, f.transactions, f.journals, f.rules, testLedger)
	return f
}

func testAccount(code string, accountType account.Type) *account.Account {
	return &account.Account{
		ID:     uuid.New(),
		Code:   code,
		Name:   "account " + code,
		Type:   accountType,
		Active: true,
	}
}

func pendingTransaction(amount int64) *banktransaction.Transaction {
	return &banktransaction.Transaction{
		ID:          uuid.New(),
		Date:        time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Amount:      amount,
		Description: "POS payment Albert Heijn",
		Status:      banktransaction.StatusUnmatched,
	}
}

func lineFor(t *testing.T, entry *journal.Entry, accountID uuid.UUID) journal.Line {
	t.Helper()
	for _, line := range entry.Lines {
		if line.AccountID == accountID {
			return line
		}
	}
	t.Fatalf("no line posted to account %s", accountID)
	return journal.Line{}
}

func TestEngine_Book_DirectInflow(t *testing.T) {
	f := newEngineFixture()
	txn := pendingTransaction(50000) // +500.00 incoming
	bank := testAccount("1100", account.TypeAsset)
	revenue := testAccount("8000", account.TypeRevenue)

	f.transactions.On("GetByID", mock.Anything, txn.ID).Return(txn, nil)
	f.accounts.On("GetByID", mock.Anything, revenue.ID).Return(revenue, nil)
	f.accounts.On("GetByCode", mock.Anything, "1100").Return(bank, nil)

	var created *journal.Entry
	f.journals.On("Create", mock.Anything, mock.AnythingOfType("*journal.Entry")).
		Run(func(args mock.Arguments) { created = args.Get(1).(*journal.Entry) }).
		Return(nil).Once()
	f.transactions.On("MarkBooked", mock.Anything, txn.ID, mock.AnythingOfType("uuid.UUID")).Return(nil).Once()

	entry, err := f.engine.Book(context.Background(), shared.BookingRequest{
		TransactionID: txn.ID,
		AccountID:     revenue.ID,
		Mode:          shared.ModeDirect,
	})

	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, created.ID, entry.ID)
	assert.Len(t, entry.Lines, 2)
	assert.Equal(t, int64(50000), lineFor(t, entry, bank.ID).Debit)
	assert.Equal(t, int64(50000), lineFor(t, entry, revenue.ID).Credit)
	assert.Equal(t, "POS payment Albert Heijn", entry.Memo)
	assert.True(t, txn.IsBooked())
	f.journals.AssertExpectations(t)
	f.transactions.AssertExpectations(t)
}

func TestEngine_Book_DirectOutflow(t *testing.T) {
	f := newEngineFixture()
	txn := pendingTransaction(-7500) // -75.00 outgoing
	bank := testAccount("1100", account.TypeAsset)
	expense := testAccount("4500", account.TypeExpense)

	f.transactions.On("GetByID", mock.Anything, txn.ID).Return(txn, nil)
	f.accounts.On("GetByID", mock.Anything, expense.ID).Return(expense, nil)
	f.accounts.On("GetByCode", mock.Anything, "1100").Return(bank, nil)
	f.journals.On("Create", mock.Anything, mock.AnythingOfType("*journal.Entry")).Return(nil).Once()
	f.transactions.On("MarkBooked", mock.Anything, txn.ID, mock.AnythingOfType("uuid.UUID")).Return(nil).Once()

	entry, err := f.engine.Book(context.Background(), shared.BookingRequest{
		TransactionID: txn.ID,
		AccountID:     expense.ID,
		Description:   "Office supplies",
		Mode:          shared.ModeDirect,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(7500), lineFor(t, entry, expense.ID).Debit)
	assert.Equal(t, int64(7500), lineFor(t, entry, bank.ID).Credit)
	assert.Equal(t, "Office supplies", entry.Memo)
}

func TestEngine_Book_ViaRelatieOutflow(t *testing.T) {
	f := newEngineFixture()
	txn := pendingTransaction(-12000) // -120.00 supplier payment
	bank := testAccount("1100", account.TypeAsset)
	clearing := testAccount("1600", account.TypeLiability)
	expense := testAccount("4500", account.TypeExpense)
	supplier := &contact.Contact{ID: uuid.New(), Name: "Coolblue", Relation: contact.RelationSupplier, Active: true}

	f.transactions.On("GetByID", mock.Anything, txn.ID).Return(txn, nil)
	f.accounts.On("GetByID", mock.Anything, expense.ID).Return(expense, nil)
	f.accounts.On("GetByCode", mock.Anything, "1100").Return(bank, nil)
	f.accounts.On("GetByCode", mock.Anything, "1600").Return(clearing, nil)
	f.contacts.On("GetByID", mock.Anything, supplier.ID).Return(supplier, nil)

	var created []*journal.Entry
	f.journals.On("Create", mock.Anything, mock.AnythingOfType("*journal.Entry")).
		Run(func(args mock.Arguments) { created = append(created, args.Get(1).(*journal.Entry)) }).
		Return(nil).Twice()
	f.transactions.On("MarkBooked", mock.Anything, txn.ID, mock.AnythingOfType("uuid.UUID")).Return(nil).Once()

	entry, err := f.engine.Book(context.Background(), shared.BookingRequest{
		TransactionID: txn.ID,
		AccountID:     expense.ID,
		Mode:          shared.ModeViaRelatie,
		ContactID:     &supplier.ID,
	})

	require.NoError(t, err)
	require.Len(t, created, 2)

	recognition, settlement := created[0], created[1]
	assert.Equal(t, int64(12000), lineFor(t, recognition, expense.ID).Debit)
	assert.Equal(t, int64(12000), lineFor(t, recognition, clearing.ID).Credit)
	assert.Equal(t, int64(12000), lineFor(t, settlement, clearing.ID).Debit)
	assert.Equal(t, int64(12000), lineFor(t, settlement, bank.ID).Credit)

	// The transaction links to the settlement entry, not the recognition
	assert.Equal(t, settlement.ID, entry.ID)
	require.NotNil(t, txn.JournalEntryID)
	assert.Equal(t, settlement.ID, *txn.JournalEntryID)
}

func TestEngine_Book_ViaRelatieInflowUsesDebtorsClearing(t *testing.T) {
	f := newEngineFixture()
	txn := pendingTransaction(30000)
	bank := testAccount("1100", account.TypeAsset)
	clearing := testAccount("1300", account.TypeAsset)
	revenue := testAccount("8000", account.TypeRevenue)
	customer := &contact.Contact{ID: uuid.New(), Name: "Jansen BV", Relation: contact.RelationCustomer, Active: true}

	f.transactions.On("GetByID", mock.Anything, txn.ID).Return(txn, nil)
	f.accounts.On("GetByID", mock.Anything, revenue.ID).Return(revenue, nil)
	f.accounts.On("GetByCode", mock.Anything, "1100").Return(bank, nil)
	f.accounts.On("GetByCode", mock.Anything, "1300").Return(clearing, nil)
	f.contacts.On("GetByID", mock.Anything, customer.ID).Return(customer, nil)

	var created []*journal.Entry
	f.journals.On("Create", mock.Anything, mock.AnythingOfType("*journal.Entry")).
		Run(func(args mock.Arguments) { created = append(created, args.Get(1).(*journal.Entry)) }).
		Return(nil).Twice()
	f.transactions.On("MarkBooked", mock.Anything, txn.ID, mock.AnythingOfType("uuid.UUID")).Return(nil).Once()

	_, err := f.engine.Book(context.Background(), shared.BookingRequest{
		TransactionID: txn.ID,
		AccountID:     revenue.ID,
		Mode:          shared.ModeViaRelatie,
		ContactID:     &customer.ID,
	})

	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.Equal(t, int64(30000), lineFor(t, created[0], clearing.ID).Debit)
	assert.Equal(t, int64(30000), lineFor(t, created[1], bank.ID).Debit)
}

func TestEngine_Book_AlreadyBooked(t *testing.T) {
	f := newEngineFixture()
	txn := pendingTransaction(1000)
	entryID := uuid.New()
	txn.JournalEntryID = &entryID
	f.transactions.On("GetByID", mock.Anything, txn.ID).Return(txn, nil)

	_, err := f.engine.Book(context.Background(), shared.BookingRequest{
		TransactionID: txn.ID,
		AccountID:     uuid.New(),
		Mode:          shared.ModeDirect,
	})

	assert.ErrorIs(t, err, banktransaction.ErrAlreadyBooked)
	f.journals.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestEngine_Book_ZeroAmount(t *testing.T) {
	f := newEngineFixture()
	txn := pendingTransaction(0)
	f.transactions.On("GetByID", mock.Anything, txn.ID).Return(txn, nil)

	_, err := f.engine.Book(context.Background(), shared.BookingRequest{
		TransactionID: txn.ID,
		AccountID:     uuid.New(),
		Mode:          shared.ModeDirect,
	})

	assert.ErrorIs(t, err, shared.ValidationError{})
}

func TestEngine_Book_ViaRelatieRequiresContact(t *testing.T) {
	f := newEngineFixture()
	txn := pendingTransaction(1000)
	revenue := testAccount("8000", account.TypeRevenue)
	bank := testAccount("1100", account.TypeAsset)

	f.transactions.On("GetByID", mock.Anything, txn.ID).Return(txn, nil)
	f.accounts.On("GetByID", mock.Anything, revenue.ID).Return(revenue, nil)
	f.accounts.On("GetByCode", mock.Anything, "1100").Return(bank, nil)

	_, err := f.engine.Book(context.Background(), shared.BookingRequest{
		TransactionID: txn.ID,
		AccountID:     revenue.ID,
		Mode:          shared.ModeViaRelatie,
	})

	assert.ErrorIs(t, err, shared.ValidationError{})
}

func TestEngine_Book_ContactSignMismatch(t *testing.T) {
	f := newEngineFixture()
	txn := pendingTransaction(5000) // incoming money
	revenue := testAccount("8000", account.TypeRevenue)
	bank := testAccount("1100", account.TypeAsset)
	supplier := &contact.Contact{ID: uuid.New(), Name: "Coolblue", Relation: contact.RelationSupplier, Active: true}

	f.transactions.On("GetByID", mock.Anything, txn.ID).Return(txn, nil)
	f.accounts.On("GetByID", mock.Anything, revenue.ID).Return(revenue, nil)
	f.accounts.On("GetByCode", mock.Anything, "1100").Return(bank, nil)
	f.contacts.On("GetByID", mock.Anything, supplier.ID).Return(supplier, nil)

	_, err := f.engine.Book(context.Background(), shared.BookingRequest{
		TransactionID: txn.ID,
		AccountID:     revenue.ID,
		Mode:          shared.ModeViaRelatie,
		ContactID:     &supplier.ID,
	})

	assert.ErrorIs(t, err, shared.ValidationError{})
	f.journals.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestEngine_Book_RuleCreationFailureAbortsBooking(t *testing.T) {
	f := newEngineFixture()
	txn := pendingTransaction(-7500)
	bank := testAccount("1100", account.TypeAsset)
	expense := testAccount("4500", account.TypeExpense)

	f.transactions.On("GetByID", mock.Anything, txn.ID).Return(txn, nil)
	f.accounts.On("GetByID", mock.Anything, expense.ID).Return(expense, nil)
	f.accounts.On("GetByCode", mock.Anything, "1100").Return(bank, nil)
	f.journals.On("Create", mock.Anything, mock.AnythingOfType("*journal.Entry")).Return(nil)
	f.transactions.On("MarkBooked", mock.Anything, txn.ID, mock.AnythingOfType("uuid.UUID")).Return(nil)
	f.rules.On("Create", mock.Anything, mock.AnythingOfType("*rule.Rule")).Return(errors.New("duplicate keyword"))

	_, err := f.engine.Book(context.Background(), shared.BookingRequest{
		TransactionID: txn.ID,
		AccountID:     expense.ID,
		Mode:          shared.ModeDirect,
		RuleKeyword:   "coolblue",
	})

	assert.ErrorIs(t, err, shared.StorageError{})
	assert.False(t, txn.IsBooked())
}

func TestEngine_Book_SetContactDefault(t *testing.T) {
	f := newEngineFixture()
	txn := pendingTransaction(-7500)
	bank := testAccount("1100", account.TypeAsset)
	expense := testAccount("4500", account.TypeExpense)
	supplier := &contact.Contact{ID: uuid.New(), Name: "Coolblue", Relation: contact.RelationSupplier, Active: true}

	f.transactions.On("GetByID", mock.Anything, txn.ID).Return(txn, nil)
	f.accounts.On("GetByID", mock.Anything, expense.ID).Return(expense, nil)
	f.accounts.On("GetByCode", mock.Anything, "1100").Return(bank, nil)
	f.contacts.On("GetByID", mock.Anything, supplier.ID).Return(supplier, nil)
	f.journals.On("Create", mock.Anything, mock.AnythingOfType("*journal.Entry")).Return(nil)
	f.transactions.On("MarkBooked", mock.Anything, txn.ID, mock.AnythingOfType("uuid.UUID")).Return(nil)
	f.contacts.On("UpdateDefaultAccount", mock.Anything, supplier.ID, expense.ID).Return(nil).Once()

	_, err := f.engine.Book(context.Background(), shared.BookingRequest{
		TransactionID:     txn.ID,
		AccountID:         expense.ID,
		Mode:              shared.ModeDirect,
		ContactID:         &supplier.ID,
		SetContactDefault: true,
	})

	require.NoError(t, err)
	f.contacts.AssertExpectations(t)
}

func bookedFixtureEntry(t *testing.T, bankID, otherID uuid.UUID, amount int64) *journal.Entry {
	t.Helper()
	entry, err := journal.NewEntry("groceries", []journal.Line{
		journal.DebitLine(otherID, amount),
		journal.CreditLine(bankID, amount),
	})
	require.NoError(t, err)
	return entry
}

func TestEngine_Reclassify_RepointsNonCashLine(t *testing.T) {
	f := newEngineFixture()
	bank := testAccount("1100", account.TypeAsset)
	oldExpense := testAccount("4500", account.TypeExpense)
	newExpense := testAccount("4600", account.TypeExpense)

	entry := bookedFixtureEntry(t, bank.ID, oldExpense.ID, 7500)
	txn := pendingTransaction(-7500)
	require.NoError(t, txn.MarkBooked(entry.ID))

	f.transactions.On("GetByID", mock.Anything, txn.ID).Return(txn, nil)
	f.accounts.On("GetByID", mock.Anything, newExpense.ID).Return(newExpense, nil)
	f.accounts.On("GetByID", mock.Anything, bank.ID).Return(bank, nil)
	f.accounts.On("GetByID", mock.Anything, oldExpense.ID).Return(oldExpense, nil)
	f.journals.On("GetByID", mock.Anything, entry.ID).Return(entry, nil)

	expenseLine := lineFor(t, entry, oldExpense.ID)
	f.journals.On("UpdateLineAccount", mock.Anything, expenseLine.ID, newExpense.ID).Return(nil).Once()

	updated, err := f.engine.Reclassify(context.Background(), txn.ID, newExpense.ID)

	require.NoError(t, err)
	assert.Equal(t, newExpense.ID, lineFor(t, updated, newExpense.ID).AccountID)
	assert.Equal(t, int64(7500), lineFor(t, updated, newExpense.ID).Debit)
	f.journals.AssertExpectations(t)
}

func TestEngine_Reclassify_NotBooked(t *testing.T) {
	f := newEngineFixture()
	txn := pendingTransaction(-7500)
	f.transactions.On("GetByID", mock.Anything, txn.ID).Return(txn, nil)

	_, err := f.engine.Reclassify(context.Background(), txn.ID, uuid.New())

	assert.ErrorIs(t, err, banktransaction.ErrNotBooked)
}

func TestEngine_Reclassify_AmbiguousWhenBothLinesCashLike(t *testing.T) {
	f := newEngineFixture()
	bank := testAccount("1100", account.TypeAsset)
	savings := testAccount("1150", account.TypeAsset) // also inside the bank code range
	newExpense := testAccount("4600", account.TypeExpense)

	entry := bookedFixtureEntry(t, bank.ID, savings.ID, 20000)
	txn := pendingTransaction(-20000)
	require.NoError(t, txn.MarkBooked(entry.ID))

	f.transactions.On("GetByID", mock.Anything, txn.ID).Return(txn, nil)
	f.accounts.On("GetByID", mock.Anything, newExpense.ID).Return(newExpense, nil)
	f.accounts.On("GetByID", mock.Anything, bank.ID).Return(bank, nil)
	f.accounts.On("GetByID", mock.Anything, savings.ID).Return(savings, nil)
	f.journals.On("GetByID", mock.Anything, entry.ID).Return(entry, nil)

	_, err := f.engine.Reclassify(context.Background(), txn.ID, newExpense.ID)

	assert.ErrorIs(t, err, shared.AmbiguousPostingError{})
	f.journals.AssertNotCalled(t, "UpdateLineAccount", mock.Anything, mock.Anything, mock.Anything)
}

func TestEngine_Reclassify_RejectsBankTarget(t *testing.T) {
	f := newEngineFixture()
	bank := testAccount("1100", account.TypeAsset)
	oldExpense := testAccount("4500", account.TypeExpense)
	otherBank := testAccount("1110", account.TypeAsset)

	entry := bookedFixtureEntry(t, bank.ID, oldExpense.ID, 7500)
	txn := pendingTransaction(-7500)
	require.NoError(t, txn.MarkBooked(entry.ID))

	f.transactions.On("GetByID", mock.Anything, txn.ID).Return(txn, nil)
	f.accounts.On("GetByID", mock.Anything, otherBank.ID).Return(otherBank, nil)

	_, err := f.engine.Reclassify(context.Background(), txn.ID, otherBank.ID)

	assert.ErrorIs(t, err, shared.ValidationError{})
}
