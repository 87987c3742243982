package invoices

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/armazem-erp/armazem-erp/internal/platform/db"
	"github.com/armazem-erp/armazem-erp/internal/shared"
)

// Repository is the Postgres-backed write boundary for conciliation flags.
// Reads come from the ingest snapshot; only the flag flip goes through here.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CommitConciliation persists the target flag for the invoice. The row is
// locked for the duration of the transaction so two sessions flipping the
// same invoice serialize at the database even without the redis lock. A
// missing record fails the commit, which rolls the cycle back.
func (r *Repository) CommitConciliation(ctx context.Context, invoiceID string, target ConciliationFlag) error {
	if r == nil || r.pool == nil {
		return errors.New("invoices repository not initialised")
	}
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var current string
		err := tx.QueryRow(ctx,
			`SELECT conciliated FROM invoices WHERE external_id = $1 FOR UPDATE`,
			invoiceID).Scan(&current)
		if errors.Is(err, pgx.ErrNoRows) {
			return shared.ErrNotFound
		}
		if err != nil {
			return err
		}
		if current == string(target) {
			return nil
		}
		_, err = tx.Exec(ctx,
			`UPDATE invoices SET conciliated = $2, updated_at = NOW() WHERE external_id = $1`,
			invoiceID, string(target))
		return err
	})
}
