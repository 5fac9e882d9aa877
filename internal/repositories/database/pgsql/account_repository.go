package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/openledgerhq/ledger_backend/internal/apperrors"
	"github.com/openledgerhq/ledger_backend/internal/core/domain"
	portsrepo "github.com/openledgerhq/ledger_backend/internal/core/ports/repositories"
)

const accountColumns = `account_id, company_id, code, name, account_type, currency_code, parent_account_id, is_active, balance, created_at, created_by, last_updated_at, last_updated_by`

type PgxAccountRepository struct {
	pool *pgxpool.Pool
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{pool: pool}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

// scanAccount scans one account row in accountColumns order.
func scanAccount(row pgx.Row) (domain.Account, error) {
	var account domain.Account
	var parentID sql.NullString

	err := row.Scan(
		&account.AccountID,
		&account.CompanyID,
		&account.Code,
		&account.Name,
		&account.AccountType,
		&account.CurrencyCode,
		&parentID,
		&account.IsActive,
		&account.Balance,
		&account.CreatedAt,
		&account.CreatedBy,
		&account.LastUpdatedAt,
		&account.LastUpdatedBy,
	)
	if err != nil {
		return domain.Account{}, err
	}
	if parentID.Valid {
		account.ParentAccountID = parentID.String
	}
	return account, nil
}

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	var parentID sql.NullString
	if account.ParentAccountID != "" {
		parentID = sql.NullString{String: account.ParentAccountID, Valid: true}
	}

	_, err := r.pool.Exec(ctx, query,
		account.AccountID,
		account.CompanyID,
		account.Code,
		account.Name,
		account.AccountType,
		account.CurrencyCode,
		parentID,
		account.IsActive,
		account.Balance,
		account.CreatedAt,
		account.CreatedBy,
		account.LastUpdatedAt,
		account.LastUpdatedBy,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return fmt.Errorf("%w: account code %s already exists in company %s", apperrors.ErrDuplicate, account.Code, account.CompanyID)
		}
		return fmt.Errorf("failed to save account %s: %w", account.AccountID, err)
	}
	return nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`

	account, err := scanAccount(r.pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by ID %s: %w", accountID, err)
	}
	return &account, nil
}

// FindAccountsByIDs retrieves multiple accounts by their IDs.
// IDs that do not exist are simply absent from the returned map; the caller
// decides whether that is an error.
func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = ANY($1);`

	rows, err := r.pool.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts by IDs: %w", err)
	}
	defer rows.Close()

	accountsMap := make(map[string]domain.Account)
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row during batch fetch: %w", err)
		}
		accountsMap[account.AccountID] = account
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows during batch fetch: %w", err)
	}

	return accountsMap, nil
}

// ListAccountsByCompany retrieves all accounts for a company, ordered by code ascending.
func (r *PgxAccountRepository) ListAccountsByCompany(ctx context.Context, companyID string) ([]domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE company_id = $1
		ORDER BY code;
	`

	rows, err := r.pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts for company %s: %w", companyID, err)
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row for company %s: %w", companyID, err)
		}
		accounts = append(accounts, account)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating account rows for company %s: %w", companyID, rows.Err())
	}

	return accounts, nil
}

// UpdateAccount updates the mutable fields of an existing account.
// Account type, code, currency, parent and balance are never written here.
func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	query := `
		UPDATE accounts
		SET name = $2, last_updated_at = $3, last_updated_by = $4
		WHERE account_id = $1;
	`

	cmdTag, err := r.pool.Exec(ctx, query,
		account.AccountID,
		account.Name,
		account.LastUpdatedAt,
		account.LastUpdatedBy,
	)

	if err != nil {
		return fmt.Errorf("failed to execute update account %s: %w", account.AccountID, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// DeactivateAccount marks an account as inactive. The update only fires when
// the account is active and no journal entry line references it; the guard
// runs in the same statement so a concurrent posting cannot slip between
// check and write.
func (r *PgxAccountRepository) DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time) error {
	query := `
		UPDATE accounts
		SET is_active = FALSE, last_updated_at = $2, last_updated_by = $3
		WHERE account_id = $1
		  AND is_active = TRUE
		  AND NOT EXISTS (SELECT 1 FROM journal_entry_lines WHERE account_id = $1);
	`

	cmdTag, err := r.pool.Exec(ctx, query, accountID, now, userID)
	if err != nil {
		return fmt.Errorf("failed to execute deactivate account %s: %w", accountID, err)
	}

	if cmdTag.RowsAffected() == 0 {
		// Distinguish missing, already inactive and still referenced.
		account, findErr := r.FindAccountByID(ctx, accountID)
		if errors.Is(findErr, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		} else if findErr != nil {
			return fmt.Errorf("failed to check account status after deactivation attempt for %s: %w", accountID, findErr)
		}
		if !account.IsActive {
			return fmt.Errorf("%w: account %s is already inactive", apperrors.ErrValidation, accountID)
		}
		return fmt.Errorf("%w: account %s is referenced by journal entry lines", apperrors.ErrConflict, accountID)
	}

	return nil
}

// ApplyBalanceDeltas applies per-account balance deltas within the given
// transaction. The delta arithmetic runs inside the UPDATE itself
// (balance = balance + delta), never as read-then-write-back in application
// code, so concurrent postings against the same account serialize on the row
// without losing updates.
func (r *PgxAccountRepository) ApplyBalanceDeltas(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error {
	if len(balanceChanges) == 0 {
		return nil
	}

	query := `
		UPDATE accounts
		SET balance = balance + $2, last_updated_at = $3, last_updated_by = $4
		WHERE account_id = $1;
	`

	batch := &pgx.Batch{}
	accountIDs := make([]string, 0, len(balanceChanges))
	for accountID, delta := range balanceChanges {
		if !delta.IsZero() { // Only queue updates if there's a change
			batch.Queue(query, accountID, delta, now, userID)
			accountIDs = append(accountIDs, accountID)
		}
	}

	if batch.Len() == 0 {
		return nil
	}

	br := tx.SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		ct, err := br.Exec()
		if err != nil {
			if batchErr == nil {
				batchErr = fmt.Errorf("failed to update balance for account %s: %w", accountIDs[i], err)
			}
		} else if ct.RowsAffected() == 0 {
			if batchErr == nil {
				batchErr = fmt.Errorf("%w: account %s not found during balance update", apperrors.ErrNotFound, accountIDs[i])
			}
		}
	}

	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close balance update batch: %w", err)
	}

	return batchErr
}
