package accounting

import (
	"errors"
	"fmt"

	"github.com/openledgerhq/ledger_backend/internal/core/domain"
	"github.com/openledgerhq/ledger_backend/internal/utils/money"
	"github.com/shopspring/decimal"
)

var (
	ErrTooFewLines         = errors.New("entry must have at least two lines")
	ErrNegativeAmount      = errors.New("line amounts must not be negative")
	ErrAmbiguousLine       = errors.New("line cannot carry both a debit and a credit")
	ErrEmptyLine           = errors.New("line must carry either a debit or a credit")
	ErrUnbalanced          = errors.New("entry debits and credits do not balance")
	ErrUnknownAccount      = errors.New("account not found")
	ErrCrossCompanyAccount = errors.New("account belongs to a different company")
	ErrInactiveAccount     = errors.New("account is inactive")
)

// ValidateLines performs the full acceptance check for a candidate entry
// before any mutation occurs. It is pure: accounts is an immutable snapshot
// fetched once by the caller, and the rules run in a fixed order with the
// first violation winning.
func ValidateLines(companyID string, lines []domain.JournalEntryLine, accounts map[string]domain.Account) error {
	if len(lines) < 2 {
		return fmt.Errorf("%w: got %d", ErrTooFewLines, len(lines))
	}

	for _, line := range lines {
		if line.DebitAmount.IsNegative() || line.CreditAmount.IsNegative() {
			return fmt.Errorf("%w: account %s has debit %s, credit %s",
				ErrNegativeAmount, line.AccountID, money.Format(line.DebitAmount), money.Format(line.CreditAmount))
		}
	}

	for _, line := range lines {
		if line.DebitAmount.IsPositive() && line.CreditAmount.IsPositive() {
			return fmt.Errorf("%w: account %s has debit %s and credit %s",
				ErrAmbiguousLine, line.AccountID, money.Format(line.DebitAmount), money.Format(line.CreditAmount))
		}
	}

	for _, line := range lines {
		if line.DebitAmount.IsZero() && line.CreditAmount.IsZero() {
			return fmt.Errorf("%w: account %s", ErrEmptyLine, line.AccountID)
		}
	}

	debitTotal := decimal.Zero
	creditTotal := decimal.Zero
	for _, line := range lines {
		debitTotal = debitTotal.Add(line.DebitAmount)
		creditTotal = creditTotal.Add(line.CreditAmount)
	}
	if !money.WithinTolerance(debitTotal, creditTotal) {
		return fmt.Errorf("%w: debits %s, credits %s, difference %s",
			ErrUnbalanced, money.Format(debitTotal), money.Format(creditTotal),
			money.Format(debitTotal.Sub(creditTotal).Abs()))
	}

	for _, line := range lines {
		account, found := accounts[line.AccountID]
		if !found {
			return fmt.Errorf("%w: %s", ErrUnknownAccount, line.AccountID)
		}
		if account.CompanyID != companyID {
			return fmt.Errorf("%w: account %s", ErrCrossCompanyAccount, line.AccountID)
		}
		if !account.IsActive {
			return fmt.Errorf("%w: account %s", ErrInactiveAccount, line.AccountID)
		}
	}

	return nil
}

// IsValidationError reports whether err is one of the acceptance-check
// failures (as opposed to a storage failure). Handlers use it to pick the
// response status.
func IsValidationError(err error) bool {
	for _, sentinel := range []error{
		ErrTooFewLines, ErrNegativeAmount, ErrAmbiguousLine, ErrEmptyLine,
		ErrUnbalanced, ErrUnknownAccount, ErrCrossCompanyAccount, ErrInactiveAccount,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
