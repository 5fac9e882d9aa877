package accounting

import (
	"fmt"

	"github.com/openledgerhq/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DeltaForLine computes the signed balance effect of a single line on its
// account, applying the normal-balance convention:
//
//	ASSET/EXPENSE:            newBalance = balance + debit - credit
//	LIABILITY/EQUITY/REVENUE: newBalance = balance + credit - debit
//
// This function is the single source of truth for normal-balance direction;
// services and repositories must not reimplement it.
func DeltaForLine(accountType domain.AccountType, line domain.JournalEntryLine) (decimal.Decimal, error) {
	switch accountType {
	case domain.Asset, domain.Expense:
		return line.DebitAmount.Sub(line.CreditAmount), nil
	case domain.Liability, domain.Equity, domain.Revenue:
		return line.CreditAmount.Sub(line.DebitAmount), nil
	default:
		return decimal.Zero, fmt.Errorf("unknown account type %q for account %s", accountType, line.AccountID)
	}
}

// ReversingDeltaForLine computes the delta that undoes a previously posted
// line: the debit and credit roles are swapped in the directional formula.
func ReversingDeltaForLine(accountType domain.AccountType, line domain.JournalEntryLine) (decimal.Decimal, error) {
	delta, err := DeltaForLine(accountType, line)
	if err != nil {
		return decimal.Zero, err
	}
	return delta.Neg(), nil
}

// BalanceChanges accumulates the net per-account deltas for a set of lines.
// When reverse is true each line contributes its reversing delta.
func BalanceChanges(lines []domain.JournalEntryLine, accountTypes map[string]domain.AccountType, reverse bool) (map[string]decimal.Decimal, error) {
	changes := make(map[string]decimal.Decimal, len(lines))
	for _, line := range lines {
		accountType, ok := accountTypes[line.AccountID]
		if !ok {
			return nil, fmt.Errorf("account type not known for account %s", line.AccountID)
		}
		var delta decimal.Decimal
		var err error
		if reverse {
			delta, err = ReversingDeltaForLine(accountType, line)
		} else {
			delta, err = DeltaForLine(accountType, line)
		}
		if err != nil {
			return nil, err
		}
		changes[line.AccountID] = changes[line.AccountID].Add(delta)
	}
	return changes, nil
}

// DebitTotal sums the debit side of a line set. For a balanced entry this is
// the entry's total amount.
func DebitTotal(lines []domain.JournalEntryLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.DebitAmount)
	}
	return total
}
