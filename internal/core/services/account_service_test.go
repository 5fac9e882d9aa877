package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/openledgerhq/ledger_backend/internal/apperrors"
	"github.com/openledgerhq/ledger_backend/internal/core/domain"
	"github.com/openledgerhq/ledger_backend/internal/core/services"
	"github.com/openledgerhq/ledger_backend/internal/dto"
)

func TestCreateAccount(t *testing.T) {
	baseReq := dto.CreateAccountRequest{
		Code:         "1000",
		Name:         "Cash",
		AccountType:  domain.Asset,
		CurrencyCode: "USD",
	}

	t.Run("Success", func(t *testing.T) {
		accountRepo := new(MockAccountRepository)
		svc := services.NewAccountService(accountRepo)
		ctx := context.Background()

		accountRepo.On("SaveAccount", ctx, mock.MatchedBy(func(account domain.Account) bool {
			return account.AccountID != "" &&
				account.CompanyID == testCompanyID &&
				account.Code == "1000" &&
				account.IsActive &&
				account.Balance.IsZero() &&
				account.CreatedBy == testUserID
		})).Return(nil).Once()

		account, err := svc.CreateAccount(ctx, testCompanyID, baseReq, testUserID)

		require.NoError(t, err)
		require.NotNil(t, account)
		assert.Equal(t, domain.Asset, account.AccountType)
		assert.True(t, account.Balance.IsZero())
		accountRepo.AssertExpectations(t)
	})

	t.Run("Unknown account type", func(t *testing.T) {
		accountRepo := new(MockAccountRepository)
		svc := services.NewAccountService(accountRepo)

		req := baseReq
		req.AccountType = domain.AccountType("CONTRA")

		account, err := svc.CreateAccount(context.Background(), testCompanyID, req, testUserID)

		assert.Nil(t, account)
		assert.ErrorIs(t, err, apperrors.ErrValidation)
		accountRepo.AssertNotCalled(t, "SaveAccount", mock.Anything, mock.Anything)
	})

	t.Run("Parent account not found", func(t *testing.T) {
		accountRepo := new(MockAccountRepository)
		svc := services.NewAccountService(accountRepo)
		ctx := context.Background()

		accountRepo.On("FindAccountByID", ctx, "ghost-parent").Return(nil, apperrors.ErrNotFound).Once()

		req := baseReq
		req.ParentAccountID = "ghost-parent"

		account, err := svc.CreateAccount(ctx, testCompanyID, req, testUserID)

		assert.Nil(t, account)
		assert.ErrorIs(t, err, apperrors.ErrValidation)
		accountRepo.AssertNotCalled(t, "SaveAccount", mock.Anything, mock.Anything)
	})

	t.Run("Parent account in another company", func(t *testing.T) {
		accountRepo := new(MockAccountRepository)
		svc := services.NewAccountService(accountRepo)
		ctx := context.Background()

		parent := &domain.Account{AccountID: "parent-1", CompanyID: "comp-other"}
		accountRepo.On("FindAccountByID", ctx, "parent-1").Return(parent, nil).Once()

		req := baseReq
		req.ParentAccountID = "parent-1"

		account, err := svc.CreateAccount(ctx, testCompanyID, req, testUserID)

		assert.Nil(t, account)
		assert.ErrorIs(t, err, apperrors.ErrValidation)
		accountRepo.AssertNotCalled(t, "SaveAccount", mock.Anything, mock.Anything)
	})

	t.Run("Duplicate code surfaces as duplicate", func(t *testing.T) {
		accountRepo := new(MockAccountRepository)
		svc := services.NewAccountService(accountRepo)
		ctx := context.Background()

		accountRepo.On("SaveAccount", ctx, mock.Anything).Return(apperrors.ErrDuplicate).Once()

		account, err := svc.CreateAccount(ctx, testCompanyID, baseReq, testUserID)

		assert.Nil(t, account)
		assert.ErrorIs(t, err, apperrors.ErrDuplicate)
	})
}

func TestGetAccountByID(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		accountRepo := new(MockAccountRepository)
		svc := services.NewAccountService(accountRepo)
		ctx := context.Background()

		stored := testAccount("acc-1", domain.Asset)
		accountRepo.On("FindAccountByID", ctx, "acc-1").Return(&stored, nil).Once()

		account, err := svc.GetAccountByID(ctx, testCompanyID, "acc-1")

		require.NoError(t, err)
		assert.Equal(t, "acc-1", account.AccountID)
	})

	t.Run("Cross company read answered as not found", func(t *testing.T) {
		accountRepo := new(MockAccountRepository)
		svc := services.NewAccountService(accountRepo)
		ctx := context.Background()

		other := &domain.Account{AccountID: "acc-1", CompanyID: "comp-other"}
		accountRepo.On("FindAccountByID", ctx, "acc-1").Return(other, nil).Once()

		account, err := svc.GetAccountByID(ctx, testCompanyID, "acc-1")

		assert.Nil(t, account)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestGetAccountsByIDs_FiltersOtherCompanies(t *testing.T) {
	accountRepo := new(MockAccountRepository)
	svc := services.NewAccountService(accountRepo)
	ctx := context.Background()

	stored := map[string]domain.Account{
		"mine":   testAccount("mine", domain.Asset),
		"theirs": {AccountID: "theirs", CompanyID: "comp-other", AccountType: domain.Asset, IsActive: true},
	}
	accountRepo.On("FindAccountsByIDs", ctx, []string{"mine", "theirs"}).Return(stored, nil).Once()

	accounts, err := svc.GetAccountsByIDs(ctx, testCompanyID, []string{"mine", "theirs"})

	require.NoError(t, err)
	assert.Contains(t, accounts, "mine")
	assert.NotContains(t, accounts, "theirs")
}

func TestUpdateAccount(t *testing.T) {
	t.Run("Name change persists", func(t *testing.T) {
		accountRepo := new(MockAccountRepository)
		svc := services.NewAccountService(accountRepo)
		ctx := context.Background()

		stored := testAccount("acc-1", domain.Asset)
		stored.Name = "Cash"
		accountRepo.On("FindAccountByID", ctx, "acc-1").Return(&stored, nil).Once()
		accountRepo.On("UpdateAccount", ctx, mock.MatchedBy(func(account domain.Account) bool {
			return account.Name == "Petty Cash" && account.LastUpdatedBy == testUserID
		})).Return(nil).Once()

		newName := "Petty Cash"
		account, err := svc.UpdateAccount(ctx, testCompanyID, "acc-1", dto.UpdateAccountRequest{Name: &newName}, testUserID)

		require.NoError(t, err)
		assert.Equal(t, "Petty Cash", account.Name)
		accountRepo.AssertExpectations(t)
	})

	t.Run("No-op skips the write", func(t *testing.T) {
		accountRepo := new(MockAccountRepository)
		svc := services.NewAccountService(accountRepo)
		ctx := context.Background()

		stored := testAccount("acc-1", domain.Asset)
		stored.Name = "Cash"
		accountRepo.On("FindAccountByID", ctx, "acc-1").Return(&stored, nil).Once()

		account, err := svc.UpdateAccount(ctx, testCompanyID, "acc-1", dto.UpdateAccountRequest{}, testUserID)

		require.NoError(t, err)
		assert.Equal(t, "Cash", account.Name)
		accountRepo.AssertNotCalled(t, "UpdateAccount", mock.Anything, mock.Anything)
	})

	t.Run("Not found", func(t *testing.T) {
		accountRepo := new(MockAccountRepository)
		svc := services.NewAccountService(accountRepo)
		ctx := context.Background()

		accountRepo.On("FindAccountByID", ctx, "ghost").Return(nil, apperrors.ErrNotFound).Once()

		newName := "Whatever"
		account, err := svc.UpdateAccount(ctx, testCompanyID, "ghost", dto.UpdateAccountRequest{Name: &newName}, testUserID)

		assert.Nil(t, account)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestDeactivateAccount(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		accountRepo := new(MockAccountRepository)
		svc := services.NewAccountService(accountRepo)
		ctx := context.Background()

		stored := testAccount("acc-1", domain.Asset)
		accountRepo.On("FindAccountByID", ctx, "acc-1").Return(&stored, nil).Once()
		accountRepo.On("DeactivateAccount", ctx, "acc-1", testUserID, mock.Anything).Return(nil).Once()

		err := svc.DeactivateAccount(ctx, testCompanyID, "acc-1", testUserID)

		require.NoError(t, err)
		accountRepo.AssertExpectations(t)
	})

	t.Run("Referenced account refused with conflict", func(t *testing.T) {
		accountRepo := new(MockAccountRepository)
		svc := services.NewAccountService(accountRepo)
		ctx := context.Background()

		stored := testAccount("acc-1", domain.Asset)
		accountRepo.On("FindAccountByID", ctx, "acc-1").Return(&stored, nil).Once()
		accountRepo.On("DeactivateAccount", ctx, "acc-1", testUserID, mock.Anything).Return(apperrors.ErrConflict).Once()

		err := svc.DeactivateAccount(ctx, testCompanyID, "acc-1", testUserID)

		assert.ErrorIs(t, err, apperrors.ErrConflict)
	})

	t.Run("Cross company answered as not found", func(t *testing.T) {
		accountRepo := new(MockAccountRepository)
		svc := services.NewAccountService(accountRepo)
		ctx := context.Background()

		other := &domain.Account{AccountID: "acc-1", CompanyID: "comp-other"}
		accountRepo.On("FindAccountByID", ctx, "acc-1").Return(other, nil).Once()

		err := svc.DeactivateAccount(ctx, testCompanyID, "acc-1", testUserID)

		assert.ErrorIs(t, err, apperrors.ErrNotFound)
		accountRepo.AssertNotCalled(t, "DeactivateAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
