package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/samyukta/registration-service/internal/application/registration"
	"github.com/samyukta/registration-service/internal/domain"
)

func (r *Repo) WithTx(ctx context.Context, fn func(tr registration.TxRepo) error) error {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{
		Isolation: sql.LevelReadCommitted,
		ReadOnly:  false,
	})
	if err != nil {
		return err
	}

	tr := &txRepo{tx: tx}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tr); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

type txRepo struct {
	tx *sql.Tx
}

// LockCapacity holds a transaction-scoped advisory lock until commit.
func (t *txRepo) LockCapacity(ctx context.Context) error {
	if _, err := t.tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, capacityLockKey); err != nil {
		return fmt.Errorf("capacity lock: %w", err)
	}
	return nil
}

func (t *txRepo) RegistrationCounts(ctx context.Context) (domain.RegistrationCounts, error) {
	return registrationCounts(ctx, t.tx)
}

func (t *txRepo) ExistsForUser(ctx context.Context, userID string) (bool, error) {
	var exists bool
	err := t.tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM registrations WHERE user_id=$1 AND status <> 'rejected')`, userID,
	).Scan(&exists)
	return exists, err
}

func (t *txRepo) Create(ctx context.Context, r *domain.Registration) error {
	return createRegistration(ctx, t.tx, r)
}
