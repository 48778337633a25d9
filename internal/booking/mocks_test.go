package booking

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"

	"github.com/grootboek-reconciliation-engine/internal/domain/account"
	"github.com/grootboek-reconciliation-engine/internal/domain/banktransaction"
	"github.com/grootboek-reconciliation-engine/internal/domain/contact"
	"github.com/grootboek-reconciliation-engine/internal/domain/journal"
	"github.com/grootboek-reconciliation-engine/internal/domain/rule"
)

// fakeTxRunner runs the transactional function directly. The mocks below
// return themselves from WithTx, so no real transaction is needed.
type fakeTxRunner struct{}

func (fakeTxRunner) ExecuteTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return fn(nil)
}

type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

func (m *MockAccountRepository) GetByCode(ctx context.Context, code string) (*account.Account, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

func (m *MockAccountRepository) ListActive(ctx context.Context) ([]*account.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*account.Account), args.Error(1)
}

type MockContactRepository struct {
	mock.Mock
}

func (m *MockContactRepository) Create(ctx context.Context, c *contact.Contact) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockContactRepository) GetByID(ctx context.Context, id uuid.UUID) (*contact.Contact, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*contact.Contact), args.Error(1)
}

func (m *MockContactRepository) FindByName(ctx context.Context, name string) (*contact.Contact, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*contact.Contact), args.Error(1)
}

func (m *MockContactRepository) ListActive(ctx context.Context) ([]*contact.Contact, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*contact.Contact), args.Error(1)
}

func (m *MockContactRepository) UpdateDefaultAccount(ctx context.Context, id uuid.UUID, accountID uuid.UUID) error {
	args := m.Called(ctx, id, accountID)
	return args.Error(0)
}

func (m *MockContactRepository) WithTx(tx pgx.Tx) contact.Repository {
	return m
}

type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*banktransaction.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*banktransaction.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListByStatus(ctx context.Context, status banktransaction.Status, limit, offset int) ([]*banktransaction.Transaction, error) {
	args := m.Called(ctx, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*banktransaction.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) CountByStatus(ctx context.Context, status banktransaction.Status) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTransactionRepository) MarkBooked(ctx context.Context, id uuid.UUID, entryID uuid.UUID) error {
	args := m.Called(ctx, id, entryID)
	return args.Error(0)
}

func (m *MockTransactionRepository) StoreSuggestion(ctx context.Context, id uuid.UUID, suggestion []byte) error {
	args := m.Called(ctx, id, suggestion)
	return args.Error(0)
}

func (m *MockTransactionRepository) WithTx(tx pgx.Tx) banktransaction.Repository {
	return m
}

type MockJournalRepository struct {
	mock.Mock
}

func (m *MockJournalRepository) Create(ctx context.Context, entry *journal.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockJournalRepository) GetByID(ctx context.Context, id uuid.UUID) (*journal.Entry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*journal.Entry), args.Error(1)
}

func (m *MockJournalRepository) UpdateLineAccount(ctx context.Context, lineID uuid.UUID, accountID uuid.UUID) error {
	args := m.Called(ctx, lineID, accountID)
	return args.Error(0)
}

func (m *MockJournalRepository) WithTx(tx pgx.Tx) journal.Repository {
	return m
}

type MockRuleRepository struct {
	mock.Mock
}

func (m *MockRuleRepository) Create(ctx context.Context, r *rule.Rule) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRuleRepository) List(ctx context.Context) ([]*rule.Rule, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*rule.Rule), args.Error(1)
}

func (m *MockRuleRepository) WithTx(tx pgx.Tx) rule.Repository {
	return m
}
