package services

import (
	"context"

	"github.com/openledgerhq/ledger_backend/internal/core/domain"
	"github.com/openledgerhq/ledger_backend/internal/dto"
)

// AccountSvcFacade exposes the chart-of-accounts registry.
type AccountSvcFacade interface {
	// CreateAccount registers a new account in a company's chart of accounts.
	CreateAccount(ctx context.Context, companyID string, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error)

	// GetAccountByID retrieves a single account; cross-company reads are
	// answered as not found.
	GetAccountByID(ctx context.Context, companyID string, accountID string) (*domain.Account, error)

	// GetAccountsByIDs retrieves an immutable snapshot of the given accounts,
	// fetched once, for validation purposes.
	GetAccountsByIDs(ctx context.Context, companyID string, accountIDs []string) (map[string]domain.Account, error)

	// ListAccountsByCompany retrieves all accounts of a company ordered by code.
	ListAccountsByCompany(ctx context.Context, companyID string) ([]domain.Account, error)

	// UpdateAccount applies the explicitly enumerated mutable fields.
	UpdateAccount(ctx context.Context, companyID string, accountID string, req dto.UpdateAccountRequest, requestingUserID string) (*domain.Account, error)

	// DeactivateAccount soft-deactivates an account; refused while the
	// account is referenced by posted lines.
	DeactivateAccount(ctx context.Context, companyID string, accountID string, requestingUserID string) error
}
