package pgsql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sitebooks/sitebooks/internal/apperrors"
	"github.com/sitebooks/sitebooks/internal/core/domain"
	portsrepo "github.com/sitebooks/sitebooks/internal/core/ports/repositories"
	"github.com/sitebooks/sitebooks/internal/models"
)

const riskLogColumns = `risk_log_id, project_id, risk_score, risk_level, risk_factors, calculated_at`

type PgxRiskRepository struct {
	pool *pgxpool.Pool
}

// newPgxRiskRepository creates a new repository for project risk logs.
func newPgxRiskRepository(pool *pgxpool.Pool) portsrepo.RiskRepository {
	return &PgxRiskRepository{pool: pool}
}

// Ensure PgxRiskRepository implements portsrepo.RiskRepository
var _ portsrepo.RiskRepository = (*PgxRiskRepository)(nil)

func scanRiskLog(row rowScanner) (models.RiskLog, error) {
	var modelLog models.RiskLog
	err := row.Scan(
		&modelLog.RiskLogID,
		&modelLog.ProjectID,
		&modelLog.RiskScore,
		&modelLog.RiskLevel,
		&modelLog.RiskFactors,
		&modelLog.CalculatedAt,
	)
	if err != nil {
		return models.RiskLog{}, err
	}
	return modelLog, nil
}

func toDomainRiskLog(m models.RiskLog) (domain.RiskLog, error) {
	factors := []domain.RiskFactor{}
	if len(m.RiskFactors) > 0 {
		if err := json.Unmarshal(m.RiskFactors, &factors); err != nil {
			return domain.RiskLog{}, fmt.Errorf("failed to decode risk factors for log %d: %w", m.RiskLogID, err)
		}
	}
	return domain.RiskLog{
		RiskLogID:    m.RiskLogID,
		ProjectID:    m.ProjectID,
		RiskScore:    m.RiskScore,
		RiskLevel:    domain.RiskLevel(m.RiskLevel),
		RiskFactors:  factors,
		CalculatedAt: m.CalculatedAt,
	}, nil
}

// SaveRiskLog persists a computed risk assessment and returns it with its
// generated ID.
func (r *PgxRiskRepository) SaveRiskLog(ctx context.Context, log domain.RiskLog) (*domain.RiskLog, error) {
	factorsJSON, err := json.Marshal(log.RiskFactors)
	if err != nil {
		return nil, fmt.Errorf("failed to encode risk factors for project %d: %w", log.ProjectID, err)
	}

	query := `
		INSERT INTO risk_logs (project_id, risk_score, risk_level, risk_factors, calculated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING risk_log_id;
	`
	err = r.pool.QueryRow(ctx, query,
		log.ProjectID,
		log.RiskScore,
		string(log.RiskLevel),
		factorsJSON,
		log.CalculatedAt,
	).Scan(&log.RiskLogID)
	if err != nil {
		return nil, fmt.Errorf("failed to save risk log for project %d: %w", log.ProjectID, err)
	}

	return &log, nil
}

// FindLatestRiskLog retrieves the most recent risk log for a project.
func (r *PgxRiskRepository) FindLatestRiskLog(ctx context.Context, projectID int64) (*domain.RiskLog, error) {
	query := `
		SELECT ` + riskLogColumns + `
		FROM risk_logs
		WHERE project_id = $1
		ORDER BY calculated_at DESC, risk_log_id DESC
		LIMIT 1;
	`
	modelLog, err := scanRiskLog(r.pool.QueryRow(ctx, query, projectID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find latest risk log for project %d: %w", projectID, err)
	}

	domainLog, err := toDomainRiskLog(modelLog)
	if err != nil {
		return nil, err
	}
	return &domainLog, nil
}

// ListRiskLogs retrieves a project's risk history, newest first.
func (r *PgxRiskRepository) ListRiskLogs(ctx context.Context, projectID int64, limit int) ([]domain.RiskLog, error) {
	query := `
		SELECT ` + riskLogColumns + `
		FROM risk_logs
		WHERE project_id = $1
		ORDER BY calculated_at DESC, risk_log_id DESC
		LIMIT $2;
	`
	rows, err := r.pool.Query(ctx, query, projectID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list risk logs for project %d: %w", projectID, err)
	}
	defer rows.Close()

	logs := []domain.RiskLog{}
	for rows.Next() {
		modelLog, err := scanRiskLog(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan risk log row: %w", err)
		}
		domainLog, err := toDomainRiskLog(modelLog)
		if err != nil {
			return nil, err
		}
		logs = append(logs, domainLog)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating risk log rows: %w", err)
	}

	return logs, nil
}
