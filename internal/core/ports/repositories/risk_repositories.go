package repositories

import (
	"context"

	"github.com/sitebooks/sitebooks/internal/core/domain"
)

// RiskRepository defines persistence operations for project risk logs.
type RiskRepository interface {
	// SaveRiskLog persists a computed risk assessment for a project.
	SaveRiskLog(ctx context.Context, log domain.RiskLog) (*domain.RiskLog, error)

	// FindLatestRiskLog retrieves the most recent risk log for a project.
	// Returns apperrors.ErrNotFound when the project has none.
	FindLatestRiskLog(ctx context.Context, projectID int64) (*domain.RiskLog, error)

	// ListRiskLogs retrieves a project's risk history, newest first.
	ListRiskLogs(ctx context.Context, projectID int64, limit int) ([]domain.RiskLog, error)
}
