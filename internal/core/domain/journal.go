package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry represents a single, balanced financial event.
// TotalAmount always equals the sum of the debit side of its lines, which
// for a committed entry equals the sum of the credit side.
type JournalEntry struct {
	EntryID     string          `json:"entryID"`     // Primary Key (UUID)
	CompanyID   string          `json:"companyID"`   // Owning company (NON-NULL)
	EntryNumber string          `json:"entryNumber"` // Human-facing number, unique per company
	EntryDate   time.Time       `json:"entryDate"`   // Date the event occurred
	Description string          `json:"description"`
	Reference   string          `json:"reference"`   // Optional external reference
	TotalAmount decimal.Decimal `json:"totalAmount"` // Sum of debit side == sum of credit side
	AuditFields

	// Lines is populated only when explicitly fetched alongside the entry.
	Lines []JournalEntryLine `json:"lines,omitempty"`
}

// JournalEntryLine is one debit or credit against a single account.
// Exactly one of DebitAmount/CreditAmount is nonzero.
type JournalEntryLine struct {
	LineID       string          `json:"lineID"`    // Primary Key (UUID)
	EntryID      string          `json:"entryID"`   // FK -> journal_entries.entry_id (owned, cascade delete)
	AccountID    string          `json:"accountID"` // FK -> accounts.account_id (reference only)
	Description  string          `json:"description"`
	DebitAmount  decimal.Decimal `json:"debitAmount"`  // >= 0
	CreditAmount decimal.Decimal `json:"creditAmount"` // >= 0
	CurrencyCode string          `json:"currencyCode"`
	ExchangeRate decimal.Decimal `json:"exchangeRate"` // Caller-supplied rate, 6dp
	AuditFields
}
