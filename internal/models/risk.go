package models

import "time"

// RiskLog represents a row in the risk_logs table. RiskFactors holds the
// JSONB factor array as raw bytes; the repository layer handles marshaling.
type RiskLog struct {
	RiskLogID    int64     `db:"risk_log_id"`
	ProjectID    int64     `db:"project_id"`
	RiskScore    int       `db:"risk_score"`
	RiskLevel    string    `db:"risk_level"`
	RiskFactors  []byte    `db:"risk_factors"`
	CalculatedAt time.Time `db:"calculated_at"`
}
