package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// IsValid reports whether the account type is one of the five known types.
func (t AccountType) IsValid() bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	}
	return false
}

// Account represents a single account in a company's chart of accounts.
// Balance is the net sum of all posted line deltas since creation; it is
// written exclusively by the posting engine, always inside a transaction.
type Account struct {
	AccountID       string          `json:"accountID"`       // Primary Key (UUID)
	CompanyID       string          `json:"companyID"`       // Owning company (NON-NULL)
	Code            string          `json:"code"`            // Unique per company
	Name            string          `json:"name"`            // User-defined name
	AccountType     AccountType     `json:"accountType"`     // ASSET, LIABILITY, etc.
	CurrencyCode    string          `json:"currencyCode"`    // ISO 4217 code
	ParentAccountID string          `json:"parentAccountID"` // Nullable FK -> accounts.account_id (self-referencing)
	IsActive        bool            `json:"isActive"`        // Soft deactivation flag
	Balance         decimal.Decimal `json:"balance"`         // Persisted account balance
	AuditFields
}
