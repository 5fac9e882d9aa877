package dto

import (
	"time"

	"github.com/openledgerhq/ledger_backend/internal/core/domain"
	"github.com/openledgerhq/ledger_backend/internal/utils/money"
)

// CreateAccountRequest defines the expected JSON body for creating an account.
type CreateAccountRequest struct {
	Code            string             `json:"code" binding:"required"`
	Name            string             `json:"name" binding:"required"`
	AccountType     domain.AccountType `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	CurrencyCode    string             `json:"currencyCode" binding:"required,len=3"`
	ParentAccountID string             `json:"parentAccountID"`
}

// UpdateAccountRequest enumerates exactly which account fields are mutable.
// Type, code, currency and parent are fixed at creation; balance is owned by
// the posting engine.
type UpdateAccountRequest struct {
	Name *string `json:"name"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID       string             `json:"accountID"`
	CompanyID       string             `json:"companyID"`
	Code            string             `json:"code"`
	Name            string             `json:"name"`
	AccountType     domain.AccountType `json:"accountType"`
	CurrencyCode    string             `json:"currencyCode"`
	ParentAccountID string             `json:"parentAccountID,omitempty"`
	Balance         string             `json:"balance"`
	IsActive        bool               `json:"isActive"`
	CreatedAt       time.Time          `json:"createdAt"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO.
func ToAccountResponse(account *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:       account.AccountID,
		CompanyID:       account.CompanyID,
		Code:            account.Code,
		Name:            account.Name,
		AccountType:     account.AccountType,
		CurrencyCode:    account.CurrencyCode,
		ParentAccountID: account.ParentAccountID,
		Balance:         money.Format(account.Balance),
		IsActive:        account.IsActive,
		CreatedAt:       account.CreatedAt,
	}
}

// ListAccountsResponse wraps the accounts of a company listing.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// ToAccountResponses converts a slice of domain.Account to []AccountResponse.
func ToAccountResponses(accounts []domain.Account) []AccountResponse {
	responses := make([]AccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = ToAccountResponse(&accounts[i])
	}
	return responses
}
