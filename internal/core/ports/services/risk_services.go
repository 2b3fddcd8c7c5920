package services

import (
	"context"

	"github.com/sitebooks/sitebooks/internal/core/domain"
)

// RiskService defines heuristic project risk and health scoring
type RiskService interface {
	// CalculateRiskScore evaluates a project's risk factors, persists the
	// resulting risk log and returns it.
	CalculateRiskScore(ctx context.Context, projectID int64) (*domain.RiskLog, error)

	// GetAllRiskScores returns the latest persisted score per active project,
	// falling back to a quick non-persisted estimate for projects that have
	// never been scored.
	GetAllRiskScores(ctx context.Context) ([]domain.ProjectRiskSummary, error)

	// GetRiskHistory retrieves a project's persisted risk logs, newest first.
	GetRiskHistory(ctx context.Context, projectID int64, limit int) ([]domain.RiskLog, error)

	// ProjectHealth evaluates schedule and budget heuristics for one project.
	ProjectHealth(ctx context.Context, projectID int64) (*domain.ProjectHealth, error)

	// AllProjectsHealth evaluates health for every active project.
	AllProjectsHealth(ctx context.Context) ([]domain.ProjectHealth, error)
}
