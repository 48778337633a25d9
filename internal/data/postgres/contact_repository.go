package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/grootboek-reconciliation-engine/internal/domain/contact"
	"github.com/grootboek-reconciliation-engine/internal/platform/persistence"
	"github.com/jackc/pgx/v5"
)

// ContactRepository implements the contact.Repository interface for PostgreSQL
type ContactRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewContactRepository creates a new PostgreSQL contact repository
func NewContactRepository(logger *slog.Logger, db *persistence.PostgresDB) contact.Repository {
	return &ContactRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction so contact mutations can be
// part of an atomic booking.
func (r *ContactRepository) WithTx(tx pgx.Tx) contact.Repository {
	return &ContactRepository{
		querier: tx,
		logger:  r.logger,
	}
}

const contactColumns = `id, name, relation, active, default_account_id, created_at, updated_at`

func scanContact(row pgx.Row) (*contact.Contact, error) {
	var c contact.Contact
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Relation,
		&c.Active,
		&c.DefaultAccountID,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create stores a new contact
func (r *ContactRepository) Create(ctx context.Context, c *contact.Contact) error {
	query := `
		INSERT INTO contacts (id, name, relation, active, default_account_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.querier.Exec(ctx, query,
		c.ID,
		c.Name,
		c.Relation,
		c.Active,
		c.DefaultAccountID,
		c.CreatedAt,
		c.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create contact", "error", err)
		return fmt.Errorf("failed to create contact: %w", err)
	}

	return nil
}

// GetByID retrieves a contact by its ID
func (r *ContactRepository) GetByID(ctx context.Context, id uuid.UUID) (*contact.Contact, error) {
	query := `
		SELECT ` + contactColumns + `
		FROM contacts
		WHERE id = $1
	`

	c, err := scanContact(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, contact.ErrContactNotFound{ContactID: id}
		}
		r.logger.Error("Failed to get contact", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}

	return c, nil
}

// FindByName performs a case-insensitive exact name lookup among active
// contacts. Returns nil, nil when nothing matches.
func (r *ContactRepository) FindByName(ctx context.Context, name string) (*contact.Contact, error) {
	query := `
		SELECT ` + contactColumns + `
		FROM contacts
		WHERE LOWER(name) = LOWER($1) AND active = TRUE
	`

	c, err := scanContact(r.querier.QueryRow(ctx, query, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to find contact by name", "name", name, "error", err)
		return nil, fmt.Errorf("failed to find contact by name: %w", err)
	}

	return c, nil
}

// ListActive retrieves all active contacts ordered by name
func (r *ContactRepository) ListActive(ctx context.Context) ([]*contact.Contact, error) {
	query := `
		SELECT ` + contactColumns + `
		FROM contacts
		WHERE active = TRUE
		ORDER BY name
	`

	rows, err := r.querier.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list active contacts", "error", err)
		return nil, fmt.Errorf("failed to list active contacts: %w", err)
	}
	defer rows.Close()

	var contacts []*contact.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate contacts: %w", err)
	}

	return contacts, nil
}

// UpdateDefaultAccount repoints a contact's default ledger account
func (r *ContactRepository) UpdateDefaultAccount(ctx context.Context, id uuid.UUID, accountID uuid.UUID) error {
	query := `
		UPDATE contacts
		SET default_account_id = $1, updated_at = NOW()
		WHERE id = $2
	`

	result, err := r.querier.Exec(ctx, query, accountID, id)
	if err != nil {
		r.logger.Error("Failed to update contact default account", "id", id.String(), "error", err)
		return fmt.Errorf("failed to update contact default account: %w", err)
	}

	if result.RowsAffected() == 0 {
		return contact.ErrContactNotFound{ContactID: id}
	}

	return nil
}
