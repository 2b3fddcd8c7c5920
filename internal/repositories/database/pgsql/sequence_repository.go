package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/sitebooks/sitebooks/internal/core/ports/repositories"
)

type PgxSequenceRepository struct {
	pool *pgxpool.Pool
}

// newPgxSequenceRepository creates a new repository for document number
// counters.
func newPgxSequenceRepository(pool *pgxpool.Pool) portsrepo.SequenceRepository {
	return &PgxSequenceRepository{pool: pool}
}

// Ensure PgxSequenceRepository implements portsrepo.SequenceRepository
var _ portsrepo.SequenceRepository = (*PgxSequenceRepository)(nil)

// NextNumber atomically increments and returns the counter for one document
// kind and date. The upsert makes concurrent callers serialize on the row,
// so no two documents of the same kind share a number on a given day.
func (r *PgxSequenceRepository) NextNumber(ctx context.Context, kind string, date time.Time) (int64, error) {
	query := `
		INSERT INTO sequence_counters (kind, seq_date, value)
		VALUES ($1, $2, 1)
		ON CONFLICT (kind, seq_date)
		DO UPDATE SET value = sequence_counters.value + 1
		RETURNING value;
	`
	var value int64
	err := r.pool.QueryRow(ctx, query, kind, date.Format("2006-01-02")).Scan(&value)
	if err != nil {
		return 0, fmt.Errorf("failed to advance %s counter for %s: %w", kind, date.Format("2006-01-02"), err)
	}
	return value, nil
}
