package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RiskLevel is the qualitative label derived from a risk score.
type RiskLevel string

const (
	RiskLow      RiskLevel = "Low"
	RiskMedium   RiskLevel = "Medium"
	RiskHigh     RiskLevel = "High"
	RiskCritical RiskLevel = "Critical"
)

// RiskLevelForScore maps a score onto its qualitative level.
// Thresholds: >=80 Critical, >=60 High, >=30 Medium.
func RiskLevelForScore(score int) RiskLevel {
	switch {
	case score >= 80:
		return RiskCritical
	case score >= 60:
		return RiskHigh
	case score >= 30:
		return RiskMedium
	default:
		return RiskLow
	}
}

// RiskFactor is a named, severity-tagged condition contributing to a
// project's risk score.
type RiskFactor struct {
	Factor   string `json:"factor"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// RiskLog is an append-only risk assessment for a project; the latest entry
// per project is the current risk state. Scores are non-negative and may
// exceed 100.
type RiskLog struct {
	RiskLogID    int64        `json:"riskLogID"`
	ProjectID    int64        `json:"projectID"`
	RiskScore    int          `json:"riskScore"`
	RiskLevel    RiskLevel    `json:"riskLevel"`
	RiskFactors  []RiskFactor `json:"riskFactors"`
	CalculatedAt time.Time    `json:"calculatedAt"`
}

// ProjectRiskSummary pairs a project with its most recent (or estimated)
// risk assessment for dashboard listings.
type ProjectRiskSummary struct {
	ProjectID    int64        `json:"projectID"`
	ProjectName  string       `json:"projectName"`
	RiskScore    int          `json:"riskScore"`
	RiskLevel    RiskLevel    `json:"riskLevel"`
	RiskFactors  []RiskFactor `json:"riskFactors"`
	Persisted    bool         `json:"persisted"`
	CalculatedAt time.Time    `json:"calculatedAt"`
}

// HealthStatus is the coarse project health label.
type HealthStatus string

const (
	HealthOnTrack HealthStatus = "On Track"
	HealthAtRisk  HealthStatus = "At Risk"
	HealthDelayed HealthStatus = "Delayed"
)

// ProjectHealth captures a point-in-time health assessment for a project.
type ProjectHealth struct {
	ProjectID          int64           `json:"projectID"`
	ProjectName        string          `json:"projectName"`
	Status             HealthStatus    `json:"status"`
	BudgetUsedPercent  decimal.Decimal `json:"budgetUsedPercent"`
	ProgressPercent    decimal.Decimal `json:"progressPercent"`
	BudgetVariance     decimal.Decimal `json:"budgetVariance"`
	Spent              decimal.Decimal `json:"spent"`
	Budget             decimal.Decimal `json:"budget"`
	Issues             []string        `json:"issues"`
	AssessedAt         time.Time       `json:"assessedAt"`
}
