package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/openledgerhq/ledger_backend/internal/apperrors"
	"github.com/openledgerhq/ledger_backend/internal/core/domain"
	portssvc "github.com/openledgerhq/ledger_backend/internal/core/ports/services"
	"github.com/openledgerhq/ledger_backend/internal/core/services"
	"github.com/openledgerhq/ledger_backend/internal/dto"
	"github.com/openledgerhq/ledger_backend/internal/handlers"
	"github.com/openledgerhq/ledger_backend/internal/platform/config"
)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

func (m *MockAccountService) CreateAccount(ctx context.Context, companyID string, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error) {
	args := m.Called(ctx, companyID, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountByID(ctx context.Context, companyID string, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, companyID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountsByIDs(ctx context.Context, companyID string, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, companyID, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountService) ListAccountsByCompany(ctx context.Context, companyID string) ([]domain.Account, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountService) UpdateAccount(ctx context.Context, companyID string, accountID string, req dto.UpdateAccountRequest, requestingUserID string) (*domain.Account, error) {
	args := m.Called(ctx, companyID, accountID, req, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) DeactivateAccount(ctx context.Context, companyID string, accountID string, requestingUserID string) error {
	args := m.Called(ctx, companyID, accountID, requestingUserID)
	return args.Error(0)
}

// --- Mock JournalService ---
type MockJournalService struct {
	mock.Mock
}

var _ portssvc.JournalSvcFacade = (*MockJournalService)(nil)

func (m *MockJournalService) CreateEntry(ctx context.Context, companyID string, req dto.CreateEntryRequest, creatorUserID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, companyID, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalService) UpdateEntry(ctx context.Context, companyID string, entryID string, req dto.UpdateEntryRequest, requestingUserID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, companyID, entryID, req, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalService) GetEntryByID(ctx context.Context, companyID string, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, companyID, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalService) ListEntries(ctx context.Context, companyID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	args := m.Called(ctx, companyID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListEntriesResponse), args.Error(1)
}

func setupRouter(accountSvc portssvc.AccountSvcFacade, journalSvc portssvc.JournalSvcFacade) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers.RegisterRoutes(r, &config.Config{}, services.ServiceProvider{
		AccountSvc: accountSvc,
		JournalSvc: journalSvc,
	})
	return r
}

func TestHealthz(t *testing.T) {
	router := setupRouter(new(MockAccountService), new(MockJournalService))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/healthz", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMissingCallerIdentityRejected(t *testing.T) {
	router := setupRouter(new(MockAccountService), new(MockJournalService))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/companies/comp-1/accounts", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateAccountHandler(t *testing.T) {
	t.Run("Created", func(t *testing.T) {
		accountSvc := new(MockAccountService)
		router := setupRouter(accountSvc, new(MockJournalService))

		created := &domain.Account{
			AccountID:    "acc-1",
			CompanyID:    "comp-1",
			Code:         "1000",
			Name:         "Cash",
			AccountType:  domain.Asset,
			CurrencyCode: "USD",
			IsActive:     true,
			Balance:      decimal.Zero,
		}
		accountSvc.On("CreateAccount", mock.Anything, "comp-1", mock.Anything, "user-1").Return(created, nil).Once()

		body, _ := json.Marshal(dto.CreateAccountRequest{
			Code:         "1000",
			Name:         "Cash",
			AccountType:  domain.Asset,
			CurrencyCode: "USD",
		})
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/api/v1/companies/comp-1/accounts", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-User-ID", "user-1")
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusCreated, w.Code)
		var resp dto.AccountResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "acc-1", resp.AccountID)
		assert.Equal(t, "0.00", resp.Balance)
		accountSvc.AssertExpectations(t)
	})

	t.Run("Invalid account type rejected by binding", func(t *testing.T) {
		accountSvc := new(MockAccountService)
		router := setupRouter(accountSvc, new(MockJournalService))

		body := []byte(`{"code":"1000","name":"Cash","accountType":"CONTRA","currencyCode":"USD"}`)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/api/v1/companies/comp-1/accounts", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-User-ID", "user-1")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		accountSvc.AssertNotCalled(t, "CreateAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Duplicate code conflicts", func(t *testing.T) {
		accountSvc := new(MockAccountService)
		router := setupRouter(accountSvc, new(MockJournalService))

		accountSvc.On("CreateAccount", mock.Anything, "comp-1", mock.Anything, "user-1").Return(nil, apperrors.ErrDuplicate).Once()

		body, _ := json.Marshal(dto.CreateAccountRequest{
			Code:         "1000",
			Name:         "Cash",
			AccountType:  domain.Asset,
			CurrencyCode: "USD",
		})
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/api/v1/companies/comp-1/accounts", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-User-ID", "user-1")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestGetAccountHandler_NotFound(t *testing.T) {
	accountSvc := new(MockAccountService)
	router := setupRouter(accountSvc, new(MockJournalService))

	accountSvc.On("GetAccountByID", mock.Anything, "comp-1", "ghost").Return(nil, apperrors.ErrNotFound).Once()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/companies/comp-1/accounts/ghost", nil)
	req.Header.Set("X-User-ID", "user-1")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeactivateAccountHandler_Conflict(t *testing.T) {
	accountSvc := new(MockAccountService)
	router := setupRouter(accountSvc, new(MockJournalService))

	accountSvc.On("DeactivateAccount", mock.Anything, "comp-1", "acc-1", "user-1").Return(apperrors.ErrConflict).Once()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodDelete, "/api/v1/companies/comp-1/accounts/acc-1", nil)
	req.Header.Set("X-User-ID", "user-1")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}
