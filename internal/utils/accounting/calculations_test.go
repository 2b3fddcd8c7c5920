package accounting

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitebooks/sitebooks/internal/core/domain"
)

func line(debit, credit int64) domain.TransactionLine {
	return domain.TransactionLine{
		DebitAmount:  decimal.NewFromInt(debit),
		CreditAmount: decimal.NewFromInt(credit),
	}
}

func TestSignedDelta(t *testing.T) {
	tests := []struct {
		name        string
		line        domain.TransactionLine
		accountType domain.AccountType
		expected    int64
	}{
		{"debit increases asset", line(100, 0), domain.Asset, 100},
		{"credit decreases asset", line(0, 100), domain.Asset, -100},
		{"debit increases expense", line(100, 0), domain.Expense, 100},
		{"credit increases liability", line(0, 100), domain.Liability, 100},
		{"debit decreases liability", line(100, 0), domain.Liability, -100},
		{"credit increases equity", line(0, 100), domain.Equity, 100},
		{"credit increases revenue", line(0, 100), domain.Revenue, 100},
		{"debit decreases revenue", line(100, 0), domain.Revenue, -100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			delta, err := SignedDelta(tt.line, tt.accountType)
			require.NoError(t, err)
			assert.True(t, delta.Equal(decimal.NewFromInt(tt.expected)),
				"expected %d, got %s", tt.expected, delta.String())
		})
	}
}

func TestSignedDelta_UnknownType(t *testing.T) {
	_, err := SignedDelta(line(100, 0), domain.AccountType("Contra"))
	assert.Error(t, err)
}

func TestValidateLineAmounts(t *testing.T) {
	tests := []struct {
		name    string
		lines   []domain.TransactionLine
		wantErr bool
	}{
		{"valid pair", []domain.TransactionLine{line(100, 0), line(0, 100)}, false},
		{"both sides on one line", []domain.TransactionLine{line(50, 50)}, true},
		{"neither side", []domain.TransactionLine{line(0, 0)}, true},
		{
			"negative debit",
			[]domain.TransactionLine{{DebitAmount: decimal.NewFromInt(-10), CreditAmount: decimal.Zero}},
			true,
		},
		{
			"negative credit",
			[]domain.TransactionLine{{DebitAmount: decimal.Zero, CreditAmount: decimal.NewFromInt(-10)}},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLineAmounts(tt.lines)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSumDebitsCredits(t *testing.T) {
	lines := []domain.TransactionLine{line(100, 0), line(250, 0), line(0, 350)}
	debits, credits := SumDebitsCredits(lines)
	assert.True(t, debits.Equal(decimal.NewFromInt(350)))
	assert.True(t, credits.Equal(decimal.NewFromInt(350)))
}

func TestIsBalanced(t *testing.T) {
	balanced := []domain.TransactionLine{line(100, 0), line(0, 100)}
	assert.True(t, IsBalanced(balanced))

	unbalanced := []domain.TransactionLine{line(100, 0), line(0, 99)}
	assert.False(t, IsBalanced(unbalanced))

	// A one-cent residue sits exactly on the tolerance boundary
	withinTolerance := []domain.TransactionLine{
		{DebitAmount: decimal.NewFromFloat(100.00), CreditAmount: decimal.Zero},
		{DebitAmount: decimal.Zero, CreditAmount: decimal.NewFromFloat(99.99)},
	}
	assert.True(t, IsBalanced(withinTolerance))

	beyondTolerance := []domain.TransactionLine{
		{DebitAmount: decimal.NewFromFloat(100.00), CreditAmount: decimal.Zero},
		{DebitAmount: decimal.Zero, CreditAmount: decimal.NewFromFloat(99.98)},
	}
	assert.False(t, IsBalanced(beyondTolerance))

	assert.True(t, IsBalanced(nil), "no lines means nothing out of balance")
}
