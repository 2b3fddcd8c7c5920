package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/sitebooks/sitebooks/internal/apperrors"
	"github.com/sitebooks/sitebooks/internal/core/domain"
	portsrepo "github.com/sitebooks/sitebooks/internal/core/ports/repositories"
	"github.com/sitebooks/sitebooks/internal/models"
	"github.com/sitebooks/sitebooks/internal/utils/mapping"
)

const projectColumns = `project_id, name, status, budget, spent, progress, start_date, end_date`

type PgxProjectRepository struct {
	pool *pgxpool.Pool
}

// newPgxProjectRepository creates a new repository for project data.
func newPgxProjectRepository(pool *pgxpool.Pool) portsrepo.ProjectRepository {
	return &PgxProjectRepository{pool: pool}
}

// Ensure PgxProjectRepository implements portsrepo.ProjectRepository
var _ portsrepo.ProjectRepository = (*PgxProjectRepository)(nil)

func scanProject(row rowScanner) (models.Project, error) {
	var modelProj models.Project
	var startDate, endDate sql.NullTime

	err := row.Scan(
		&modelProj.ProjectID,
		&modelProj.Name,
		&modelProj.Status,
		&modelProj.Budget,
		&modelProj.Spent,
		&modelProj.Progress,
		&startDate,
		&endDate,
	)
	if err != nil {
		return models.Project{}, err
	}
	if startDate.Valid {
		modelProj.StartDate = &startDate.Time
	}
	if endDate.Valid {
		modelProj.EndDate = &endDate.Time
	}
	return modelProj, nil
}

// FindProjectByID retrieves a project by its ID.
func (r *PgxProjectRepository) FindProjectByID(ctx context.Context, projectID int64) (*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE project_id = $1;`

	modelProj, err := scanProject(r.pool.QueryRow(ctx, query, projectID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find project %d: %w", projectID, err)
	}

	domainProj := mapping.ToDomainProject(modelProj)
	return &domainProj, nil
}

// ListProjects retrieves projects, optionally filtered by status.
func (r *PgxProjectRepository) ListProjects(ctx context.Context, status *domain.ProjectStatus) ([]domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects`
	args := []any{}
	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, string(*status))
	}
	query += ` ORDER BY project_id;`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	modelProjects := []models.Project{}
	for rows.Next() {
		modelProj, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project row: %w", err)
		}
		modelProjects = append(modelProjects, modelProj)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project rows: %w", err)
	}

	return mapping.ToDomainProjectSlice(modelProjects), nil
}

// IncrementSpentInTx adds delta to the project's spent amount inside an
// existing transaction.
func (r *PgxProjectRepository) IncrementSpentInTx(ctx context.Context, tx pgx.Tx, projectID int64, delta decimal.Decimal, updatedBy int64) error {
	query := `
		UPDATE projects
		SET spent = spent + $2, last_updated_at = $3, last_updated_by = $4
		WHERE project_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, query, projectID, delta, time.Now().UTC(), updatedBy)
	if err != nil {
		return fmt.Errorf("failed to increment spent for project %d: %w", projectID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: project %d", apperrors.ErrNotFound, projectID)
	}
	return nil
}
