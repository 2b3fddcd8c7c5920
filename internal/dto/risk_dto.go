package dto

import (
	"time"

	"github.com/sitebooks/sitebooks/internal/core/domain"
)

// maxReportedFactors caps how many factors a risk response carries; the
// highest-weighted factors come first from the scorer.
const maxReportedFactors = 3

// RiskFactorResponse is one condition contributing to a risk score.
type RiskFactorResponse struct {
	Factor   string `json:"factor"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// RiskScoreResponse defines the data returned for a risk assessment.
type RiskScoreResponse struct {
	ProjectID    int64                `json:"projectID"`
	RiskScore    int                  `json:"riskScore"`
	RiskLevel    domain.RiskLevel     `json:"riskLevel"`
	RiskFactors  []RiskFactorResponse `json:"riskFactors"`
	CalculatedAt time.Time            `json:"calculatedAt"`
}

// ProjectRiskSummaryResponse is one row of the all-projects risk dashboard.
type ProjectRiskSummaryResponse struct {
	ProjectID    int64                `json:"projectID"`
	ProjectName  string               `json:"projectName"`
	RiskScore    int                  `json:"riskScore"`
	RiskLevel    domain.RiskLevel     `json:"riskLevel"`
	RiskFactors  []RiskFactorResponse `json:"riskFactors"`
	Persisted    bool                 `json:"persisted"`
	CalculatedAt time.Time            `json:"calculatedAt"`
}

// ProjectHealthResponse defines the data returned for a health assessment.
type ProjectHealthResponse struct {
	ProjectID         int64               `json:"projectID"`
	ProjectName       string              `json:"projectName"`
	Status            domain.HealthStatus `json:"status"`
	BudgetUsedPercent string              `json:"budgetUsedPercent"`
	ProgressPercent   string              `json:"progressPercent"`
	BudgetVariance    string              `json:"budgetVariance"`
	Issues            []string            `json:"issues"`
	AssessedAt        time.Time           `json:"assessedAt"`
}

func toRiskFactorResponses(factors []domain.RiskFactor) []RiskFactorResponse {
	n := len(factors)
	if n > maxReportedFactors {
		n = maxReportedFactors
	}
	responses := make([]RiskFactorResponse, n)
	for i := 0; i < n; i++ {
		responses[i] = RiskFactorResponse{
			Factor:   factors[i].Factor,
			Severity: factors[i].Severity,
			Message:  factors[i].Message,
		}
	}
	return responses
}

// ToRiskScoreResponse converts a domain.RiskLog to RiskScoreResponse DTO.
func ToRiskScoreResponse(log *domain.RiskLog) RiskScoreResponse {
	return RiskScoreResponse{
		ProjectID:    log.ProjectID,
		RiskScore:    log.RiskScore,
		RiskLevel:    log.RiskLevel,
		RiskFactors:  toRiskFactorResponses(log.RiskFactors),
		CalculatedAt: log.CalculatedAt,
	}
}

// ToRiskScoreResponses converts a slice of domain.RiskLog to DTOs.
func ToRiskScoreResponses(logs []domain.RiskLog) []RiskScoreResponse {
	responses := make([]RiskScoreResponse, len(logs))
	for i, log := range logs {
		responses[i] = ToRiskScoreResponse(&log)
	}
	return responses
}

// ToProjectRiskSummaryResponse converts a domain.ProjectRiskSummary to its DTO.
func ToProjectRiskSummaryResponse(s *domain.ProjectRiskSummary) ProjectRiskSummaryResponse {
	return ProjectRiskSummaryResponse{
		ProjectID:    s.ProjectID,
		ProjectName:  s.ProjectName,
		RiskScore:    s.RiskScore,
		RiskLevel:    s.RiskLevel,
		RiskFactors:  toRiskFactorResponses(s.RiskFactors),
		Persisted:    s.Persisted,
		CalculatedAt: s.CalculatedAt,
	}
}

// ToProjectRiskSummaryResponses converts a slice of summaries to DTOs.
func ToProjectRiskSummaryResponses(summaries []domain.ProjectRiskSummary) []ProjectRiskSummaryResponse {
	responses := make([]ProjectRiskSummaryResponse, len(summaries))
	for i, s := range summaries {
		responses[i] = ToProjectRiskSummaryResponse(&s)
	}
	return responses
}

// ToProjectHealthResponse converts a domain.ProjectHealth to its DTO.
func ToProjectHealthResponse(h *domain.ProjectHealth) ProjectHealthResponse {
	return ProjectHealthResponse{
		ProjectID:         h.ProjectID,
		ProjectName:       h.ProjectName,
		Status:            h.Status,
		BudgetUsedPercent: h.BudgetUsedPercent.StringFixed(2),
		ProgressPercent:   h.ProgressPercent.StringFixed(2),
		BudgetVariance:    h.BudgetVariance.StringFixed(2),
		Issues:            h.Issues,
		AssessedAt:        h.AssessedAt,
	}
}

// ToProjectHealthResponses converts a slice of assessments to DTOs.
func ToProjectHealthResponses(assessments []domain.ProjectHealth) []ProjectHealthResponse {
	responses := make([]ProjectHealthResponse, len(assessments))
	for i, h := range assessments {
		responses[i] = ToProjectHealthResponse(&h)
	}
	return responses
}
