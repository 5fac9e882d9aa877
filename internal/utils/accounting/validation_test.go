package accounting_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/openledgerhq/ledger_backend/internal/core/domain"
	"github.com/openledgerhq/ledger_backend/internal/utils/accounting"
)

const companyID = "comp-1"

func activeAccounts(ids ...string) map[string]domain.Account {
	accounts := make(map[string]domain.Account, len(ids))
	for _, id := range ids {
		accounts[id] = domain.Account{
			AccountID:   id,
			CompanyID:   companyID,
			AccountType: domain.Asset,
			IsActive:    true,
		}
	}
	return accounts
}

func TestValidateLines(t *testing.T) {
	t.Run("Balanced entry passes", func(t *testing.T) {
		lines := []domain.JournalEntryLine{
			line("a", "100.00", "0"),
			line("b", "0", "100.00"),
		}
		assert.NoError(t, accounting.ValidateLines(companyID, lines, activeAccounts("a", "b")))
	})

	t.Run("Single line rejected", func(t *testing.T) {
		lines := []domain.JournalEntryLine{line("a", "100.00", "0")}
		err := accounting.ValidateLines(companyID, lines, activeAccounts("a"))
		assert.ErrorIs(t, err, accounting.ErrTooFewLines)
	})

	t.Run("Empty line set rejected", func(t *testing.T) {
		err := accounting.ValidateLines(companyID, nil, activeAccounts())
		assert.ErrorIs(t, err, accounting.ErrTooFewLines)
	})

	t.Run("Negative amount rejected", func(t *testing.T) {
		lines := []domain.JournalEntryLine{
			line("a", "-100.00", "0"),
			line("b", "0", "-100.00"),
		}
		err := accounting.ValidateLines(companyID, lines, activeAccounts("a", "b"))
		assert.ErrorIs(t, err, accounting.ErrNegativeAmount)
	})

	t.Run("Line with both debit and credit rejected", func(t *testing.T) {
		lines := []domain.JournalEntryLine{
			line("a", "100.00", "50.00"),
			line("b", "0", "50.00"),
		}
		err := accounting.ValidateLines(companyID, lines, activeAccounts("a", "b"))
		assert.ErrorIs(t, err, accounting.ErrAmbiguousLine)
	})

	t.Run("Line with neither debit nor credit rejected", func(t *testing.T) {
		lines := []domain.JournalEntryLine{
			line("a", "100.00", "0"),
			line("b", "0", "0"),
		}
		err := accounting.ValidateLines(companyID, lines, activeAccounts("a", "b"))
		assert.ErrorIs(t, err, accounting.ErrEmptyLine)
	})

	t.Run("Unbalanced entry rejected with difference", func(t *testing.T) {
		lines := []domain.JournalEntryLine{
			line("a", "100.00", "0"),
			line("b", "0", "90.00"),
		}
		err := accounting.ValidateLines(companyID, lines, activeAccounts("a", "b"))
		assert.ErrorIs(t, err, accounting.ErrUnbalanced)
		assert.Contains(t, err.Error(), "100.00")
		assert.Contains(t, err.Error(), "90.00")
		assert.Contains(t, err.Error(), "10.00")
	})

	t.Run("Imbalance within tolerance passes", func(t *testing.T) {
		lines := []domain.JournalEntryLine{
			line("a", "100.01", "0"),
			line("b", "0", "100.00"),
		}
		assert.NoError(t, accounting.ValidateLines(companyID, lines, activeAccounts("a", "b")))
	})

	t.Run("Imbalance just past tolerance rejected", func(t *testing.T) {
		lines := []domain.JournalEntryLine{
			line("a", "100.02", "0"),
			line("b", "0", "100.00"),
		}
		err := accounting.ValidateLines(companyID, lines, activeAccounts("a", "b"))
		assert.ErrorIs(t, err, accounting.ErrUnbalanced)
	})

	t.Run("Unknown account rejected", func(t *testing.T) {
		lines := []domain.JournalEntryLine{
			line("a", "100.00", "0"),
			line("ghost", "0", "100.00"),
		}
		err := accounting.ValidateLines(companyID, lines, activeAccounts("a"))
		assert.ErrorIs(t, err, accounting.ErrUnknownAccount)
	})

	t.Run("Cross company account rejected", func(t *testing.T) {
		accounts := activeAccounts("a")
		accounts["other"] = domain.Account{
			AccountID:   "other",
			CompanyID:   "comp-2",
			AccountType: domain.Asset,
			IsActive:    true,
		}
		lines := []domain.JournalEntryLine{
			line("a", "100.00", "0"),
			line("other", "0", "100.00"),
		}
		err := accounting.ValidateLines(companyID, lines, accounts)
		assert.ErrorIs(t, err, accounting.ErrCrossCompanyAccount)
	})

	t.Run("Inactive account rejected", func(t *testing.T) {
		accounts := activeAccounts("a")
		accounts["closed"] = domain.Account{
			AccountID:   "closed",
			CompanyID:   companyID,
			AccountType: domain.Asset,
			IsActive:    false,
		}
		lines := []domain.JournalEntryLine{
			line("a", "100.00", "0"),
			line("closed", "0", "100.00"),
		}
		err := accounting.ValidateLines(companyID, lines, accounts)
		assert.ErrorIs(t, err, accounting.ErrInactiveAccount)
	})

	t.Run("Rule order is fixed", func(t *testing.T) {
		// The line set violates several rules at once; the structural rules
		// must win over the account checks.
		lines := []domain.JournalEntryLine{
			line("ghost", "-10.00", "0"),
			line("a", "0", "50.00"),
		}
		err := accounting.ValidateLines(companyID, lines, activeAccounts("a"))
		assert.ErrorIs(t, err, accounting.ErrNegativeAmount)

		// With amounts fixed, the imbalance is reported before the unknown
		// account.
		lines = []domain.JournalEntryLine{
			line("ghost", "10.00", "0"),
			line("a", "0", "50.00"),
		}
		err = accounting.ValidateLines(companyID, lines, activeAccounts("a"))
		assert.ErrorIs(t, err, accounting.ErrUnbalanced)
	})
}

func TestIsValidationError(t *testing.T) {
	lines := []domain.JournalEntryLine{line("a", "100.00", "0")}
	err := accounting.ValidateLines(companyID, lines, activeAccounts("a"))
	assert.True(t, accounting.IsValidationError(err))

	assert.False(t, accounting.IsValidationError(nil))
	assert.False(t, accounting.IsValidationError(assert.AnError))
}
