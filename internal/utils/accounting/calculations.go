package accounting

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/sitebooks/sitebooks/internal/core/domain"
)

// BalanceEpsilon is the maximum tolerated difference between total debits and
// total credits of one journal entry.
var BalanceEpsilon = decimal.NewFromFloat(0.01)

// SignedDelta returns the balance delta a transaction line applies to its
// account, in the account-native sign convention:
// debits increase Asset/Expense accounts and decrease the rest, credits do
// the opposite.
func SignedDelta(line domain.TransactionLine, accountType domain.AccountType) (decimal.Decimal, error) {
	raw := line.DebitAmount.Sub(line.CreditAmount)
	switch accountType {
	case domain.Asset, domain.Expense:
		return raw, nil
	case domain.Liability, domain.Equity, domain.Revenue:
		return raw.Neg(), nil
	default:
		return decimal.Zero, fmt.Errorf("unknown account type %q for account ID %d", accountType, line.AccountID)
	}
}

// ValidateLineAmounts checks that each line carries non-negative amounts and
// at most one of debit/credit non-zero.
func ValidateLineAmounts(lines []domain.TransactionLine) error {
	for i, line := range lines {
		if line.DebitAmount.IsNegative() || line.CreditAmount.IsNegative() {
			return fmt.Errorf("line %d: debit and credit amounts must be non-negative", i)
		}
		if line.DebitAmount.IsPositive() && line.CreditAmount.IsPositive() {
			return fmt.Errorf("line %d: a line may carry a debit or a credit, not both", i)
		}
		if line.DebitAmount.IsZero() && line.CreditAmount.IsZero() {
			return fmt.Errorf("line %d: line must carry a debit or a credit amount", i)
		}
	}
	return nil
}

// SumDebitsCredits totals the debit and credit sides of a set of lines.
func SumDebitsCredits(lines []domain.TransactionLine) (decimal.Decimal, decimal.Decimal) {
	debits := decimal.Zero
	credits := decimal.Zero
	for _, line := range lines {
		debits = debits.Add(line.DebitAmount)
		credits = credits.Add(line.CreditAmount)
	}
	return debits, credits
}

// IsBalanced reports whether total debits equal total credits within
// BalanceEpsilon. This is the fundamental double-entry invariant.
func IsBalanced(lines []domain.TransactionLine) bool {
	debits, credits := SumDebitsCredits(lines)
	return debits.Sub(credits).Abs().LessThanOrEqual(BalanceEpsilon)
}
