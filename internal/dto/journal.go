package dto

import (
	"time"

	"github.com/openledgerhq/ledger_backend/internal/core/domain"
	"github.com/openledgerhq/ledger_backend/internal/utils/money"
)

// EntryLineRequest is one candidate debit or credit line. Amounts arrive as
// decimal strings, never as native floats.
type EntryLineRequest struct {
	AccountID    string `json:"accountID" binding:"required"`
	Description  string `json:"description"`
	DebitAmount  string `json:"debitAmount" binding:"required"`
	CreditAmount string `json:"creditAmount" binding:"required"`
	CurrencyCode string `json:"currencyCode" binding:"required,len=3"`
	ExchangeRate string `json:"exchangeRate"`
}

// CreateEntryRequest defines the expected JSON body for posting a new entry.
type CreateEntryRequest struct {
	EntryNumber string             `json:"entryNumber" binding:"required"`
	Date        time.Time          `json:"date" binding:"required"`
	Description string             `json:"description" binding:"required"`
	Reference   string             `json:"reference"`
	Lines       []EntryLineRequest `json:"lines" binding:"required,min=2,dive"`
}

// UpdateEntryRequest fully replaces an entry's header fields and line set.
// Partial line mutation is not supported.
type UpdateEntryRequest struct {
	EntryNumber string             `json:"entryNumber" binding:"required"`
	Date        time.Time          `json:"date" binding:"required"`
	Description string             `json:"description" binding:"required"`
	Reference   string             `json:"reference"`
	Lines       []EntryLineRequest `json:"lines" binding:"required,min=2,dive"`
}

// ToDomainLines parses the string amounts of the request lines into domain
// lines. Parsing is the only place amounts cross from strings to decimals;
// malformed input fails with money.ErrInvalidAmount before any state is read.
func ToDomainLines(lines []EntryLineRequest) ([]domain.JournalEntryLine, error) {
	domainLines := make([]domain.JournalEntryLine, len(lines))
	for i, lineReq := range lines {
		debit, err := money.ParseAmount(lineReq.DebitAmount)
		if err != nil {
			return nil, err
		}
		credit, err := money.ParseAmount(lineReq.CreditAmount)
		if err != nil {
			return nil, err
		}
		rate, err := money.ParseRate(lineReq.ExchangeRate)
		if err != nil {
			return nil, err
		}
		domainLines[i] = domain.JournalEntryLine{
			AccountID:    lineReq.AccountID,
			Description:  lineReq.Description,
			DebitAmount:  debit,
			CreditAmount: credit,
			CurrencyCode: lineReq.CurrencyCode,
			ExchangeRate: rate,
		}
	}
	return domainLines, nil
}

// EntryLineResponse defines the data returned for one entry line.
type EntryLineResponse struct {
	LineID       string `json:"lineID"`
	AccountID    string `json:"accountID"`
	Description  string `json:"description,omitempty"`
	DebitAmount  string `json:"debitAmount"`
	CreditAmount string `json:"creditAmount"`
	CurrencyCode string `json:"currencyCode"`
	ExchangeRate string `json:"exchangeRate"`
}

// EntryResponse defines the data returned for a journal entry.
type EntryResponse struct {
	EntryID     string              `json:"entryID"`
	CompanyID   string              `json:"companyID"`
	EntryNumber string              `json:"entryNumber"`
	Date        time.Time           `json:"date"`
	Description string              `json:"description"`
	Reference   string              `json:"reference,omitempty"`
	TotalAmount string              `json:"totalAmount"`
	CreatedAt   time.Time           `json:"createdAt"`
	CreatedBy   string              `json:"createdBy"`
	Lines       []EntryLineResponse `json:"lines,omitempty"`
}

// ListEntriesParams holds parameters for listing entries.
type ListEntriesParams struct {
	Limit     int
	NextToken *string
}

// ListEntriesResponse is the paginated listing payload.
type ListEntriesResponse struct {
	Entries   []EntryResponse `json:"entries"`
	NextToken *string         `json:"nextToken,omitempty"`
}

// ToEntryLineResponse converts a domain.JournalEntryLine to its DTO.
func ToEntryLineResponse(line *domain.JournalEntryLine) EntryLineResponse {
	return EntryLineResponse{
		LineID:       line.LineID,
		AccountID:    line.AccountID,
		Description:  line.Description,
		DebitAmount:  money.Format(line.DebitAmount),
		CreditAmount: money.Format(line.CreditAmount),
		CurrencyCode: line.CurrencyCode,
		ExchangeRate: line.ExchangeRate.StringFixed(money.RateScale),
	}
}

// ToEntryResponse converts a domain.JournalEntry (with any loaded lines) to its DTO.
func ToEntryResponse(entry *domain.JournalEntry) EntryResponse {
	resp := EntryResponse{
		EntryID:     entry.EntryID,
		CompanyID:   entry.CompanyID,
		EntryNumber: entry.EntryNumber,
		Date:        entry.EntryDate,
		Description: entry.Description,
		Reference:   entry.Reference,
		TotalAmount: money.Format(entry.TotalAmount),
		CreatedAt:   entry.CreatedAt,
		CreatedBy:   entry.CreatedBy,
	}
	if len(entry.Lines) > 0 {
		resp.Lines = make([]EntryLineResponse, len(entry.Lines))
		for i := range entry.Lines {
			resp.Lines[i] = ToEntryLineResponse(&entry.Lines[i])
		}
	}
	return resp
}
