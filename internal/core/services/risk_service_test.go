package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/sitebooks/sitebooks/internal/apperrors"
	"github.com/sitebooks/sitebooks/internal/core/domain"
	portsrepo "github.com/sitebooks/sitebooks/internal/core/ports/repositories"
	portssvc "github.com/sitebooks/sitebooks/internal/core/ports/services"
	"github.com/sitebooks/sitebooks/internal/core/services"
)

// --- Mock RiskRepository ---
type MockRiskRepository struct {
	mock.Mock
}

var _ portsrepo.RiskRepository = (*MockRiskRepository)(nil)

func (m *MockRiskRepository) SaveRiskLog(ctx context.Context, log domain.RiskLog) (*domain.RiskLog, error) {
	args := m.Called(ctx, log)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RiskLog), args.Error(1)
}

func (m *MockRiskRepository) FindLatestRiskLog(ctx context.Context, projectID int64) (*domain.RiskLog, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RiskLog), args.Error(1)
}

func (m *MockRiskRepository) ListRiskLogs(ctx context.Context, projectID int64, limit int) ([]domain.RiskLog, error) {
	args := m.Called(ctx, projectID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RiskLog), args.Error(1)
}

// --- Test Suite Setup ---
type RiskServiceTestSuite struct {
	suite.Suite
	mockProjectRepo *MockProjectRepository
	mockInvoiceRepo *MockInvoiceRepository
	mockRiskRepo    *MockRiskRepository
	service         portssvc.RiskService
	projectID       int64
}

func (suite *RiskServiceTestSuite) SetupTest() {
	suite.mockProjectRepo = new(MockProjectRepository)
	suite.mockInvoiceRepo = new(MockInvoiceRepository)
	suite.mockRiskRepo = new(MockRiskRepository)
	suite.service = services.NewRiskService(suite.mockProjectRepo, suite.mockInvoiceRepo, suite.mockRiskRepo)
	suite.projectID = int64(5)
}

// healthyProject is comfortably on budget and on schedule.
func (suite *RiskServiceTestSuite) healthyProject() *domain.Project {
	end := time.Now().UTC().AddDate(0, 6, 0)
	start := time.Now().UTC().AddDate(0, -2, 0)
	return &domain.Project{
		ProjectID: suite.projectID,
		Name:      "Riverside Complex",
		Status:    domain.ProjectActive,
		Budget:    decimal.NewFromInt(100000),
		Spent:     decimal.NewFromInt(30000),
		Progress:  decimal.NewFromInt(40),
		StartDate: &start,
		EndDate:   &end,
	}
}

// --- Test Cases ---

func (suite *RiskServiceTestSuite) TestCalculateRiskScore_HealthyProject() {
	ctx := context.Background()
	project := suite.healthyProject()

	suite.mockProjectRepo.On("FindProjectByID", ctx, suite.projectID).Return(project, nil).Once()
	suite.mockInvoiceRepo.On("CountOverdueReceivables", ctx, suite.projectID).Return(0, decimal.Zero, nil).Once()

	var capturedLog domain.RiskLog
	suite.mockRiskRepo.On("SaveRiskLog", ctx, mock.AnythingOfType("domain.RiskLog")).
		Run(func(args mock.Arguments) {
			capturedLog = args.Get(1).(domain.RiskLog)
		}).
		Return(&domain.RiskLog{RiskLogID: 1, RiskLevel: domain.RiskLow}, nil).Once()

	log, err := suite.service.CalculateRiskScore(ctx, suite.projectID)

	suite.Require().NoError(err)
	suite.Equal(domain.RiskLow, log.RiskLevel)
	suite.Equal(0, capturedLog.RiskScore)
	suite.Empty(capturedLog.RiskFactors)
	suite.mockRiskRepo.AssertExpectations(suite.T())
}

func (suite *RiskServiceTestSuite) TestCalculateRiskScore_BudgetAheadOfProgress() {
	ctx := context.Background()
	project := suite.healthyProject()
	// 70% of budget consumed at 40% progress: 30 points ahead
	project.Spent = decimal.NewFromInt(70000)

	suite.mockProjectRepo.On("FindProjectByID", ctx, suite.projectID).Return(project, nil).Once()
	suite.mockInvoiceRepo.On("CountOverdueReceivables", ctx, suite.projectID).Return(0, decimal.Zero, nil).Once()

	var capturedLog domain.RiskLog
	suite.mockRiskRepo.On("SaveRiskLog", ctx, mock.Anything).
		Run(func(args mock.Arguments) {
			capturedLog = args.Get(1).(domain.RiskLog)
		}).
		Return(&domain.RiskLog{RiskLogID: 2}, nil).Once()

	_, err := suite.service.CalculateRiskScore(ctx, suite.projectID)

	suite.Require().NoError(err)
	suite.Equal(50, capturedLog.RiskScore)
	suite.Require().Len(capturedLog.RiskFactors, 1)
	suite.Equal("budget_vs_progress", capturedLog.RiskFactors[0].Factor)
	suite.Equal("high", capturedLog.RiskFactors[0].Severity)
}

func (suite *RiskServiceTestSuite) TestCalculateRiskScore_BudgetSlightlyAhead() {
	ctx := context.Background()
	project := suite.healthyProject()
	// 55% of budget at 40% progress: between the 10 and 20 point bands
	project.Spent = decimal.NewFromInt(55000)

	suite.mockProjectRepo.On("FindProjectByID", ctx, suite.projectID).Return(project, nil).Once()
	suite.mockInvoiceRepo.On("CountOverdueReceivables", ctx, suite.projectID).Return(0, decimal.Zero, nil).Once()

	var capturedLog domain.RiskLog
	suite.mockRiskRepo.On("SaveRiskLog", ctx, mock.Anything).
		Run(func(args mock.Arguments) {
			capturedLog = args.Get(1).(domain.RiskLog)
		}).
		Return(&domain.RiskLog{RiskLogID: 3}, nil).Once()

	_, err := suite.service.CalculateRiskScore(ctx, suite.projectID)

	suite.Require().NoError(err)
	suite.Equal(25, capturedLog.RiskScore)
	suite.Equal("medium", capturedLog.RiskFactors[0].Severity)
}

func (suite *RiskServiceTestSuite) TestCalculateRiskScore_OverdueInvoices() {
	ctx := context.Background()
	project := suite.healthyProject()

	suite.mockProjectRepo.On("FindProjectByID", ctx, suite.projectID).Return(project, nil).Once()
	suite.mockInvoiceRepo.On("CountOverdueReceivables", ctx, suite.projectID).
		Return(2, decimal.NewFromInt(15000), nil).Once()

	var capturedLog domain.RiskLog
	suite.mockRiskRepo.On("SaveRiskLog", ctx, mock.Anything).
		Run(func(args mock.Arguments) {
			capturedLog = args.Get(1).(domain.RiskLog)
		}).
		Return(&domain.RiskLog{RiskLogID: 4}, nil).Once()

	_, err := suite.service.CalculateRiskScore(ctx, suite.projectID)

	suite.Require().NoError(err)
	suite.Equal(30, capturedLog.RiskScore)
	suite.Equal("invoice_delays", capturedLog.RiskFactors[0].Factor)
	suite.Equal(domain.RiskMedium, capturedLog.RiskLevel)
}

func (suite *RiskServiceTestSuite) TestCalculateRiskScore_BudgetOverrun() {
	ctx := context.Background()
	project := suite.healthyProject()
	project.Spent = decimal.NewFromInt(120000)
	project.Progress = decimal.NewFromInt(95)
	project.EndDate = nil

	suite.mockProjectRepo.On("FindProjectByID", ctx, suite.projectID).Return(project, nil).Once()
	suite.mockInvoiceRepo.On("CountOverdueReceivables", ctx, suite.projectID).Return(0, decimal.Zero, nil).Once()

	var capturedLog domain.RiskLog
	suite.mockRiskRepo.On("SaveRiskLog", ctx, mock.Anything).
		Run(func(args mock.Arguments) {
			capturedLog = args.Get(1).(domain.RiskLog)
		}).
		Return(&domain.RiskLog{RiskLogID: 5}, nil).Once()

	_, err := suite.service.CalculateRiskScore(ctx, suite.projectID)

	suite.Require().NoError(err)
	// 120% used vs 95% progress adds the high budget rule on top of the
	// critical overrun rule
	suite.Equal(90, capturedLog.RiskScore)
	suite.Equal(domain.RiskCritical, capturedLog.RiskLevel)

	var overrun *domain.RiskFactor
	for i := range capturedLog.RiskFactors {
		if capturedLog.RiskFactors[i].Factor == "budget_overrun" {
			overrun = &capturedLog.RiskFactors[i]
		}
	}
	suite.Require().NotNil(overrun)
	suite.Equal("critical", overrun.Severity)
}

func (suite *RiskServiceTestSuite) TestCalculateRiskScore_TimelinePressure() {
	ctx := context.Background()
	project := suite.healthyProject()
	// Ten days left at 40% complete
	end := time.Now().UTC().AddDate(0, 0, 10)
	project.EndDate = &end

	suite.mockProjectRepo.On("FindProjectByID", ctx, suite.projectID).Return(project, nil).Once()
	suite.mockInvoiceRepo.On("CountOverdueReceivables", ctx, suite.projectID).Return(0, decimal.Zero, nil).Once()

	var capturedLog domain.RiskLog
	suite.mockRiskRepo.On("SaveRiskLog", ctx, mock.Anything).
		Run(func(args mock.Arguments) {
			capturedLog = args.Get(1).(domain.RiskLog)
		}).
		Return(&domain.RiskLog{RiskLogID: 6}, nil).Once()

	_, err := suite.service.CalculateRiskScore(ctx, suite.projectID)

	suite.Require().NoError(err)
	suite.Equal(35, capturedLog.RiskScore)
	suite.Equal("timeline_risk", capturedLog.RiskFactors[0].Factor)
	suite.Equal("high", capturedLog.RiskFactors[0].Severity)
}

func (suite *RiskServiceTestSuite) TestCalculateRiskScore_ProjectNotFound() {
	ctx := context.Background()
	suite.mockProjectRepo.On("FindProjectByID", ctx, int64(404)).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.CalculateRiskScore(ctx, int64(404))

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRiskRepo.AssertNotCalled(suite.T(), "SaveRiskLog", mock.Anything, mock.Anything)
}

func (suite *RiskServiceTestSuite) TestGetAllRiskScores_MixesPersistedAndEstimated() {
	ctx := context.Background()
	active := domain.ProjectActive
	scored := *suite.healthyProject()
	unscored := domain.Project{
		ProjectID: 6,
		Name:      "Harbor Annex",
		Status:    domain.ProjectActive,
		Budget:    decimal.NewFromInt(50000),
		Spent:     decimal.NewFromInt(60000),
		Progress:  decimal.NewFromInt(50),
	}

	suite.mockProjectRepo.On("ListProjects", ctx, &active).Return([]domain.Project{scored, unscored}, nil).Once()
	suite.mockRiskRepo.On("FindLatestRiskLog", ctx, scored.ProjectID).
		Return(&domain.RiskLog{ProjectID: scored.ProjectID, RiskScore: 30, RiskLevel: domain.RiskMedium}, nil).Once()
	suite.mockRiskRepo.On("FindLatestRiskLog", ctx, unscored.ProjectID).Return(nil, apperrors.ErrNotFound).Once()

	summaries, err := suite.service.GetAllRiskScores(ctx)

	suite.Require().NoError(err)
	suite.Require().Len(summaries, 2)

	suite.True(summaries[0].Persisted)
	suite.Equal(30, summaries[0].RiskScore)

	// The unscored project gets the quick estimate: budget 120% used at 50%
	// progress trips both in-memory rules
	suite.False(summaries[1].Persisted)
	suite.Equal(90, summaries[1].RiskScore)
	suite.Equal(domain.RiskCritical, summaries[1].RiskLevel)
}

func (suite *RiskServiceTestSuite) TestGetRiskHistory_DefaultLimit() {
	ctx := context.Background()
	suite.mockProjectRepo.On("FindProjectByID", ctx, suite.projectID).Return(suite.healthyProject(), nil).Once()
	suite.mockRiskRepo.On("ListRiskLogs", ctx, suite.projectID, 20).Return([]domain.RiskLog{{RiskLogID: 1}}, nil).Once()

	logs, err := suite.service.GetRiskHistory(ctx, suite.projectID, 0)

	suite.Require().NoError(err)
	suite.Len(logs, 1)
	suite.mockRiskRepo.AssertExpectations(suite.T())
}

func (suite *RiskServiceTestSuite) TestProjectHealth_OnTrack() {
	ctx := context.Background()
	suite.mockProjectRepo.On("FindProjectByID", ctx, suite.projectID).Return(suite.healthyProject(), nil).Once()
	suite.mockInvoiceRepo.On("CountOutstandingReceivables", ctx, suite.projectID).Return(0, decimal.Zero, nil).Once()

	health, err := suite.service.ProjectHealth(ctx, suite.projectID)

	suite.Require().NoError(err)
	suite.Equal(domain.HealthOnTrack, health.Status)
	suite.Empty(health.Issues)
	suite.True(health.BudgetUsedPercent.Equal(decimal.NewFromInt(30)))
}

func (suite *RiskServiceTestSuite) TestProjectHealth_AtRiskFromBudget() {
	ctx := context.Background()
	project := suite.healthyProject()
	project.Spent = decimal.NewFromInt(70000)

	suite.mockProjectRepo.On("FindProjectByID", ctx, suite.projectID).Return(project, nil).Once()
	suite.mockInvoiceRepo.On("CountOutstandingReceivables", ctx, suite.projectID).Return(0, decimal.Zero, nil).Once()

	health, err := suite.service.ProjectHealth(ctx, suite.projectID)

	suite.Require().NoError(err)
	suite.Equal(domain.HealthAtRisk, health.Status)
	suite.NotEmpty(health.Issues)
}

func (suite *RiskServiceTestSuite) TestProjectHealth_AtRiskFromReceivables() {
	ctx := context.Background()
	project := suite.healthyProject()

	suite.mockProjectRepo.On("FindProjectByID", ctx, suite.projectID).Return(project, nil).Once()
	// Outstanding receivables above 10% of the budget
	suite.mockInvoiceRepo.On("CountOutstandingReceivables", ctx, suite.projectID).
		Return(3, decimal.NewFromInt(20000), nil).Once()

	health, err := suite.service.ProjectHealth(ctx, suite.projectID)

	suite.Require().NoError(err)
	suite.Equal(domain.HealthAtRisk, health.Status)
	suite.Contains(health.Issues, "Significant outstanding receivables")
}

func (suite *RiskServiceTestSuite) TestProjectHealth_DelayedFromTimeline() {
	ctx := context.Background()
	project := suite.healthyProject()
	end := time.Now().UTC().AddDate(0, 0, 15)
	project.EndDate = &end

	suite.mockProjectRepo.On("FindProjectByID", ctx, suite.projectID).Return(project, nil).Once()
	suite.mockInvoiceRepo.On("CountOutstandingReceivables", ctx, suite.projectID).Return(0, decimal.Zero, nil).Once()

	health, err := suite.service.ProjectHealth(ctx, suite.projectID)

	suite.Require().NoError(err)
	suite.Equal(domain.HealthDelayed, health.Status)
}

func (suite *RiskServiceTestSuite) TestAllProjectsHealth_SkipsReceivableLookup() {
	ctx := context.Background()
	active := domain.ProjectActive
	projects := []domain.Project{*suite.healthyProject()}

	suite.mockProjectRepo.On("ListProjects", ctx, &active).Return(projects, nil).Once()

	assessments, err := suite.service.AllProjectsHealth(ctx)

	suite.Require().NoError(err)
	suite.Len(assessments, 1)
	// Bulk view never queries invoices
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "CountOutstandingReceivables", mock.Anything, mock.Anything)
}

// --- Run Test Suite ---
func TestRiskService(t *testing.T) {
	suite.Run(t, new(RiskServiceTestSuite))
}
