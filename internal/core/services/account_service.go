package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openledgerhq/ledger_backend/internal/apperrors"
	"github.com/openledgerhq/ledger_backend/internal/core/domain"
	portsrepo "github.com/openledgerhq/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/openledgerhq/ledger_backend/internal/core/ports/services"
	"github.com/openledgerhq/ledger_backend/internal/dto"
	"github.com/openledgerhq/ledger_backend/internal/middleware"
)

// accountService is the account registry: authoritative lookup for the chart
// of accounts. Balances are read here but only ever written by the posting
// engine.
type accountService struct {
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates a new account registry service.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: accountRepo}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// CreateAccount registers a new account in the company's chart of accounts.
func (s *accountService) CreateAccount(ctx context.Context, companyID string, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.AccountType.IsValid() {
		return nil, fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, req.AccountType)
	}

	if req.ParentAccountID != "" {
		parent, err := s.accountRepo.FindAccountByID(ctx, req.ParentAccountID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: parent account %s not found", apperrors.ErrValidation, req.ParentAccountID)
			}
			return nil, fmt.Errorf("failed to check parent account: %w", err)
		}
		if parent.CompanyID != companyID {
			return nil, fmt.Errorf("%w: parent account %s not found", apperrors.ErrValidation, req.ParentAccountID)
		}
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:       uuid.NewString(),
		CompanyID:       companyID,
		Code:            req.Code,
		Name:            req.Name,
		AccountType:     req.AccountType,
		CurrencyCode:    req.CurrencyCode,
		ParentAccountID: req.ParentAccountID,
		IsActive:        true,
		Balance:         decimal.Zero,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			logger.Error("Failed to save account", slog.String("error", err.Error()), slog.String("company_id", companyID))
		}
		return nil, err
	}

	logger.Info("Account created", slog.String("account_id", account.AccountID), slog.String("code", account.Code), slog.String("company_id", companyID))
	return &account, nil
}

// GetAccountByID retrieves a single account, answering cross-company reads
// as not found.
func (s *accountService) GetAccountByID(ctx context.Context, companyID string, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.CompanyID != companyID {
		return nil, apperrors.ErrNotFound // Obscure existence
	}
	return account, nil
}

// GetAccountsByIDs retrieves a snapshot of the given accounts. Accounts of
// other companies are withheld from the result; the validator reports them
// as unknown.
func (s *accountService) GetAccountsByIDs(ctx context.Context, companyID string, accountIDs []string) (map[string]domain.Account, error) {
	accountsMap, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return nil, err
	}
	for id, account := range accountsMap {
		if account.CompanyID != companyID {
			delete(accountsMap, id)
		}
	}
	return accountsMap, nil
}

// ListAccountsByCompany retrieves the company's chart of accounts ordered by code.
func (s *accountService) ListAccountsByCompany(ctx context.Context, companyID string) ([]domain.Account, error) {
	return s.accountRepo.ListAccountsByCompany(ctx, companyID)
}

// UpdateAccount applies the explicitly enumerated mutable fields.
func (s *accountService) UpdateAccount(ctx context.Context, companyID string, accountID string, req dto.UpdateAccountRequest, requestingUserID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.GetAccountByID(ctx, companyID, accountID)
	if err != nil {
		return nil, err
	}

	updated := false
	if req.Name != nil && *req.Name != account.Name {
		account.Name = *req.Name
		updated = true
	}
	if !updated {
		return account, nil
	}

	now := time.Now().UTC()
	account.LastUpdatedAt = now
	account.LastUpdatedBy = requestingUserID

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		logger.Error("Failed to update account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return nil, err
	}

	logger.Info("Account updated", slog.String("account_id", accountID))
	return account, nil
}

// DeactivateAccount soft-deactivates an account. Accounts still referenced
// by posted lines are refused with a conflict error; their balances stay
// frozen because the validator rejects new lines against inactive accounts.
func (s *accountService) DeactivateAccount(ctx context.Context, companyID string, accountID string, requestingUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.GetAccountByID(ctx, companyID, accountID); err != nil {
		return err
	}

	if err := s.accountRepo.DeactivateAccount(ctx, accountID, requestingUserID, time.Now().UTC()); err != nil {
		if !errors.Is(err, apperrors.ErrConflict) && !errors.Is(err, apperrors.ErrValidation) {
			logger.Error("Failed to deactivate account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		}
		return err
	}

	logger.Info("Account deactivated", slog.String("account_id", accountID))
	return nil
}
