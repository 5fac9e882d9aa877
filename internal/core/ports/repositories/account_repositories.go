package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/openledgerhq/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts by their IDs.
	// Missing IDs are simply absent from the returned map.
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// ListAccountsByCompany retrieves all accounts of a company ordered by code ascending.
	ListAccountsByCompany(ctx context.Context, companyID string) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccount updates an existing account's mutable details.
	UpdateAccount(ctx context.Context, account domain.Account) error

	// DeactivateAccount marks an account as inactive. It fails with
	// apperrors.ErrConflict while the account is referenced by entry lines.
	DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time) error
}

// AccountTransactionSupport defines the balance mutation used by the posting engine.
type AccountTransactionSupport interface {
	// ApplyBalanceDeltas applies per-account balance deltas within the given
	// transaction. Each delta is issued as a single atomic
	// `balance = balance + delta` update so concurrent postings against the
	// same account cannot lose updates.
	ApplyBalanceDeltas(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
// This is a facade for clients that need access to all operations
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountTransactionSupport
}
