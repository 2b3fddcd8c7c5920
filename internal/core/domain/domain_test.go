package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sitebooks/sitebooks/internal/core/domain"
)

func TestAccountType_IsValid(t *testing.T) {
	tests := []struct {
		name        string
		accountType domain.AccountType
		want        bool
	}{
		{name: "asset", accountType: domain.Asset, want: true},
		{name: "liability", accountType: domain.Liability, want: true},
		{name: "equity", accountType: domain.Equity, want: true},
		{name: "revenue", accountType: domain.Revenue, want: true},
		{name: "expense", accountType: domain.Expense, want: true},
		{name: "unknown type", accountType: domain.AccountType("Contra"), want: false},
		{name: "empty", accountType: domain.AccountType(""), want: false},
		{name: "wrong case", accountType: domain.AccountType("asset"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.accountType.IsValid())
		})
	}
}

func TestRiskLevelForScore(t *testing.T) {
	tests := []struct {
		name  string
		score int
		want  domain.RiskLevel
	}{
		{name: "zero score is low", score: 0, want: domain.RiskLow},
		{name: "just below medium", score: 29, want: domain.RiskLow},
		{name: "medium lower bound", score: 30, want: domain.RiskMedium},
		{name: "just below high", score: 59, want: domain.RiskMedium},
		{name: "high lower bound", score: 60, want: domain.RiskHigh},
		{name: "just below critical", score: 79, want: domain.RiskHigh},
		{name: "critical lower bound", score: 80, want: domain.RiskCritical},
		{name: "score above hundred", score: 135, want: domain.RiskCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.RiskLevelForScore(tt.score))
		})
	}
}
