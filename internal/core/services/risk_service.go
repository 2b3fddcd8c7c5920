package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sitebooks/sitebooks/internal/apperrors"
	"github.com/sitebooks/sitebooks/internal/core/domain"
	portsrepo "github.com/sitebooks/sitebooks/internal/core/ports/repositories"
	portssvc "github.com/sitebooks/sitebooks/internal/core/ports/services"
)

// Risk rule weights. Rules are additive and independent, so a project can
// score past 100.
const (
	weightBudgetAheadHigh   = 50
	weightBudgetAheadMedium = 25
	weightInvoiceDelays     = 30
	weightOverrunCritical   = 40
	weightOverrunWarning    = 20
	weightTimelineHigh      = 35
	weightTimelineMedium    = 20
)

var hundred = decimal.NewFromInt(100)

// riskService scores project risk from budget, invoice and timeline signals.
type riskService struct {
	BaseService
	projectRepo portsrepo.ProjectRepository
	invoiceRepo portsrepo.InvoiceReader
	riskRepo    portsrepo.RiskRepository
}

// NewRiskService creates a new risk service.
func NewRiskService(projectRepo portsrepo.ProjectRepository, invoiceRepo portsrepo.InvoiceReader, riskRepo portsrepo.RiskRepository) portssvc.RiskService {
	return &riskService{
		projectRepo: projectRepo,
		invoiceRepo: invoiceRepo,
		riskRepo:    riskRepo,
	}
}

// Ensure riskService implements the portssvc.RiskService interface
var _ portssvc.RiskService = (*riskService)(nil)

// budgetUsedPercent returns spent/budget as a percentage, zero when the
// project has no budget.
func budgetUsedPercent(p *domain.Project) decimal.Decimal {
	if !p.Budget.IsPositive() {
		return decimal.Zero
	}
	return p.Spent.Div(p.Budget).Mul(hundred)
}

// scoreProject runs the full rule set against one project.
func (s *riskService) scoreProject(ctx context.Context, project *domain.Project, now time.Time) (int, []domain.RiskFactor, error) {
	score := 0
	factors := []domain.RiskFactor{}

	budgetUsed := budgetUsedPercent(project)
	progress := project.Progress

	// Budget consumption running ahead of physical progress
	if budgetUsed.GreaterThan(progress.Add(decimal.NewFromInt(20))) {
		score += weightBudgetAheadHigh
		factors = append(factors, domain.RiskFactor{
			Factor:   "budget_vs_progress",
			Severity: "high",
			Message:  fmt.Sprintf("Budget used %s%% but progress only %s%%", budgetUsed.StringFixed(1), progress.String()),
		})
	} else if budgetUsed.GreaterThan(progress.Add(decimal.NewFromInt(10))) {
		score += weightBudgetAheadMedium
		factors = append(factors, domain.RiskFactor{
			Factor:   "budget_vs_progress",
			Severity: "medium",
			Message:  fmt.Sprintf("Budget used %s%% but progress only %s%%", budgetUsed.StringFixed(1), progress.String()),
		})
	}

	// Overdue receivables on the project
	overdueCount, overdueTotal, err := s.invoiceRepo.CountOverdueReceivables(ctx, project.ProjectID)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to count overdue receivables: %w", err)
	}
	if overdueCount > 0 {
		score += weightInvoiceDelays
		factors = append(factors, domain.RiskFactor{
			Factor:   "invoice_delays",
			Severity: "high",
			Message:  fmt.Sprintf("%d overdue invoice(s) totaling $%s", overdueCount, overdueTotal.StringFixed(2)),
		})
	}

	// Outright budget overrun, or approaching it
	if project.Spent.GreaterThan(project.Budget) {
		overrun := decimal.Zero
		if project.Budget.IsPositive() {
			overrun = project.Spent.Sub(project.Budget).Div(project.Budget).Mul(hundred)
		}
		score += weightOverrunCritical
		factors = append(factors, domain.RiskFactor{
			Factor:   "budget_overrun",
			Severity: "critical",
			Message:  fmt.Sprintf("Budget overrun by %s%%", overrun.StringFixed(1)),
		})
	} else if project.Spent.GreaterThan(project.Budget.Mul(decimal.NewFromFloat(0.9))) {
		score += weightOverrunWarning
		factors = append(factors, domain.RiskFactor{
			Factor:   "budget_overrun",
			Severity: "medium",
			Message:  fmt.Sprintf("Budget usage at %s%%", budgetUsed.StringFixed(1)),
		})
	}

	// Timeline pressure, only assessable with an end date
	if project.EndDate != nil {
		daysRemaining := int(project.EndDate.Sub(now).Hours() / 24)
		start := now
		if project.StartDate != nil {
			start = *project.StartDate
		}
		daysTotal := int(project.EndDate.Sub(start).Hours() / 24)
		timeElapsed := decimal.Zero
		if daysTotal > 0 {
			timeElapsed = decimal.NewFromInt(int64(daysTotal - daysRemaining)).
				Div(decimal.NewFromInt(int64(daysTotal))).Mul(hundred)
		}

		if daysRemaining < 30 && progress.LessThan(decimal.NewFromInt(80)) {
			score += weightTimelineHigh
			factors = append(factors, domain.RiskFactor{
				Factor:   "timeline_risk",
				Severity: "high",
				Message:  fmt.Sprintf("Only %d days remaining but %s%% complete", daysRemaining, progress.String()),
			})
		} else if timeElapsed.GreaterThan(progress.Add(decimal.NewFromInt(15))) {
			score += weightTimelineMedium
			factors = append(factors, domain.RiskFactor{
				Factor:   "timeline_risk",
				Severity: "medium",
				Message:  fmt.Sprintf("Time elapsed %s%% but progress only %s%%", timeElapsed.StringFixed(1), progress.String()),
			})
		}
	}

	return score, factors, nil
}

// CalculateRiskScore evaluates a project's risk factors, persists the
// resulting risk log and returns it.
// Implements portssvc.RiskService
func (s *riskService) CalculateRiskScore(ctx context.Context, projectID int64) (*domain.RiskLog, error) {
	project, err := s.projectRepo.FindProjectByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to find project %d: %w", projectID, err)
	}

	now := time.Now().UTC()
	score, factors, err := s.scoreProject(ctx, project, now)
	if err != nil {
		s.LogError(ctx, err, "Failed to score project", slog.Int64("project_id", projectID))
		return nil, err
	}

	log := domain.RiskLog{
		ProjectID:    projectID,
		RiskScore:    score,
		RiskLevel:    domain.RiskLevelForScore(score),
		RiskFactors:  factors,
		CalculatedAt: now,
	}

	saved, err := s.riskRepo.SaveRiskLog(ctx, log)
	if err != nil {
		s.LogError(ctx, err, "Failed to save risk log", slog.Int64("project_id", projectID))
		return nil, fmt.Errorf("failed to save risk log: %w", err)
	}

	s.LogInfo(ctx, "Risk score calculated",
		slog.Int64("project_id", projectID),
		slog.Int("risk_score", score),
		slog.String("risk_level", string(saved.RiskLevel)))
	return saved, nil
}

// quickEstimate scores a never-assessed project from in-memory data only: the
// two strongest budget rules, no invoice or timeline lookups, nothing
// persisted.
func quickEstimate(project *domain.Project, now time.Time) domain.ProjectRiskSummary {
	score := 0
	factors := []domain.RiskFactor{}

	budgetUsed := budgetUsedPercent(project)
	if budgetUsed.GreaterThan(project.Progress.Add(decimal.NewFromInt(20))) {
		score += weightBudgetAheadHigh
		factors = append(factors, domain.RiskFactor{
			Factor:   "budget_vs_progress",
			Severity: "high",
			Message:  fmt.Sprintf("Budget used %s%% but progress only %s%%", budgetUsed.StringFixed(1), project.Progress.String()),
		})
	}
	if project.Spent.GreaterThan(project.Budget) {
		score += weightOverrunCritical
		factors = append(factors, domain.RiskFactor{
			Factor:   "budget_overrun",
			Severity: "critical",
			Message:  "Budget overrun detected",
		})
	}

	return domain.ProjectRiskSummary{
		ProjectID:    project.ProjectID,
		ProjectName:  project.Name,
		RiskScore:    score,
		RiskLevel:    domain.RiskLevelForScore(score),
		RiskFactors:  factors,
		Persisted:    false,
		CalculatedAt: now,
	}
}

// GetAllRiskScores returns the latest persisted score per active project,
// falling back to a quick estimate for projects never scored.
// Implements portssvc.RiskService
func (s *riskService) GetAllRiskScores(ctx context.Context) ([]domain.ProjectRiskSummary, error) {
	active := domain.ProjectActive
	projects, err := s.projectRepo.ListProjects(ctx, &active)
	if err != nil {
		s.LogError(ctx, err, "Failed to list active projects")
		return nil, fmt.Errorf("failed to list active projects: %w", err)
	}

	now := time.Now().UTC()
	summaries := make([]domain.ProjectRiskSummary, 0, len(projects))
	for i := range projects {
		project := &projects[i]

		latest, err := s.riskRepo.FindLatestRiskLog(ctx, project.ProjectID)
		if err != nil {
			if !errors.Is(err, apperrors.ErrNotFound) {
				s.LogError(ctx, err, "Failed to load latest risk log", slog.Int64("project_id", project.ProjectID))
				return nil, fmt.Errorf("failed to load latest risk log: %w", err)
			}
			summaries = append(summaries, quickEstimate(project, now))
			continue
		}

		summaries = append(summaries, domain.ProjectRiskSummary{
			ProjectID:    project.ProjectID,
			ProjectName:  project.Name,
			RiskScore:    latest.RiskScore,
			RiskLevel:    latest.RiskLevel,
			RiskFactors:  latest.RiskFactors,
			Persisted:    true,
			CalculatedAt: latest.CalculatedAt,
		})
	}

	return summaries, nil
}

// GetRiskHistory retrieves a project's persisted risk logs, newest first.
// Implements portssvc.RiskService
func (s *riskService) GetRiskHistory(ctx context.Context, projectID int64, limit int) ([]domain.RiskLog, error) {
	if limit <= 0 {
		limit = 20
	}
	if _, err := s.projectRepo.FindProjectByID(ctx, projectID); err != nil {
		return nil, fmt.Errorf("failed to find project %d: %w", projectID, err)
	}

	logs, err := s.riskRepo.ListRiskLogs(ctx, projectID, limit)
	if err != nil {
		s.LogError(ctx, err, "Failed to list risk logs", slog.Int64("project_id", projectID))
		return nil, fmt.Errorf("failed to list risk logs: %w", err)
	}
	return logs, nil
}

// assessHealth runs the health heuristics shared by single and bulk views.
// Receivable exposure is only checked when checkReceivables is set; the bulk
// view skips it to keep the dashboard query cheap.
func (s *riskService) assessHealth(ctx context.Context, project *domain.Project, now time.Time, checkReceivables bool) (*domain.ProjectHealth, error) {
	budgetUsed := budgetUsedPercent(project)
	progress := project.Progress

	status := domain.HealthOnTrack
	issues := []string{}

	if budgetUsed.GreaterThan(progress.Add(decimal.NewFromInt(20))) {
		status = domain.HealthAtRisk
		issues = append(issues, "Budget consumption significantly ahead of progress")
	} else if project.Spent.GreaterThan(project.Budget) {
		status = domain.HealthDelayed
		issues = append(issues, "Budget overrun detected")
	}

	if project.EndDate != nil {
		daysRemaining := int(project.EndDate.Sub(now).Hours() / 24)
		if daysRemaining < 30 && progress.LessThan(decimal.NewFromInt(80)) {
			status = domain.HealthDelayed
			issues = append(issues, "Timeline risk: insufficient time to complete")
		}
	}

	if checkReceivables {
		count, total, err := s.invoiceRepo.CountOutstandingReceivables(ctx, project.ProjectID)
		if err != nil {
			return nil, fmt.Errorf("failed to count outstanding receivables: %w", err)
		}
		if count > 0 && total.GreaterThan(project.Budget.Mul(decimal.NewFromFloat(0.1))) {
			status = domain.HealthAtRisk
			issues = append(issues, "Significant outstanding receivables")
		}
	}

	return &domain.ProjectHealth{
		ProjectID:         project.ProjectID,
		ProjectName:       project.Name,
		Status:            status,
		BudgetUsedPercent: budgetUsed,
		ProgressPercent:   progress,
		BudgetVariance:    budgetUsed.Sub(progress),
		Spent:             project.Spent,
		Budget:            project.Budget,
		Issues:            issues,
		AssessedAt:        now,
	}, nil
}

// ProjectHealth evaluates schedule and budget heuristics for one project.
// Implements portssvc.RiskService
func (s *riskService) ProjectHealth(ctx context.Context, projectID int64) (*domain.ProjectHealth, error) {
	project, err := s.projectRepo.FindProjectByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to find project %d: %w", projectID, err)
	}
	return s.assessHealth(ctx, project, time.Now().UTC(), true)
}

// AllProjectsHealth evaluates health for every active project.
// Implements portssvc.RiskService
func (s *riskService) AllProjectsHealth(ctx context.Context) ([]domain.ProjectHealth, error) {
	active := domain.ProjectActive
	projects, err := s.projectRepo.ListProjects(ctx, &active)
	if err != nil {
		s.LogError(ctx, err, "Failed to list active projects")
		return nil, fmt.Errorf("failed to list active projects: %w", err)
	}

	now := time.Now().UTC()
	assessments := make([]domain.ProjectHealth, 0, len(projects))
	for i := range projects {
		health, err := s.assessHealth(ctx, &projects[i], now, false)
		if err != nil {
			return nil, err
		}
		assessments = append(assessments, *health)
	}
	return assessments, nil
}
