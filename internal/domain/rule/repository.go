package rule

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Repository defines bank rule persistence operations
type Repository interface {
	Create(ctx context.Context, rule *Rule) error
	// List returns all rules in creation order (oldest first)
	List(ctx context.Context) ([]*Rule, error)
	WithTx(tx pgx.Tx) Repository
}
