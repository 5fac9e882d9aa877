package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/openledgerhq/ledger_backend/internal/apperrors"
	"github.com/openledgerhq/ledger_backend/internal/core/domain"
	portsrepo "github.com/openledgerhq/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/openledgerhq/ledger_backend/internal/core/ports/services"
	"github.com/openledgerhq/ledger_backend/internal/dto"
	"github.com/openledgerhq/ledger_backend/internal/middleware"
	"github.com/openledgerhq/ledger_backend/internal/utils/accounting"
)

// journalService is the posting engine: the only component that mutates
// account balances and persists journal entries and their lines. Every
// posting runs inside a single database transaction; any failure before
// commit leaves balances and stored rows exactly as they were.
type journalService struct {
	accountRepo portsrepo.AccountRepositoryFacade
	journalRepo portsrepo.JournalRepositoryWithTx
}

// NewJournalService creates the posting engine service.
func NewJournalService(journalRepo portsrepo.JournalRepositoryWithTx, accountRepo portsrepo.AccountRepositoryFacade) portssvc.JournalSvcFacade {
	return &journalService{
		accountRepo: accountRepo,
		journalRepo: journalRepo,
	}
}

// Ensure journalService implements the portssvc.JournalSvcFacade interface
var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// snapshotAccounts fetches the referenced accounts once and returns the map
// plus the per-account type lookup the delta calculation needs. The map is
// never re-read mid-operation.
func (s *journalService) snapshotAccounts(ctx context.Context, accountIDs []string) (map[string]domain.Account, map[string]domain.AccountType, error) {
	accountsMap, err := s.accountRepo.FindAccountsByIDs(ctx, uniqueStrings(accountIDs))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}
	accountTypes := make(map[string]domain.AccountType, len(accountsMap))
	for id, account := range accountsMap {
		accountTypes[id] = account.AccountType
	}
	return accountsMap, accountTypes, nil
}

// CreateEntry validates a candidate entry and posts it atomically.
// Implements portssvc.EntryWriterSvc.
func (s *journalService) CreateEntry(ctx context.Context, companyID string, req dto.CreateEntryRequest, creatorUserID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	// Parse boundary amounts. Malformed strings fail here, before any state
	// is read or written.
	lines, err := dto.ToDomainLines(req.Lines)
	if err != nil {
		return nil, err
	}

	accountIDs := make([]string, 0, len(lines))
	for _, line := range lines {
		accountIDs = append(accountIDs, line.AccountID)
	}
	accountsMap, accountTypes, err := s.snapshotAccounts(ctx, accountIDs)
	if err != nil {
		logger.Error("Failed to fetch accounts for entry creation", slog.String("error", err.Error()), slog.String("company_id", companyID))
		return nil, err
	}

	// Full acceptance check against the snapshot. On failure nothing is
	// persisted and nothing is mutated.
	if err := accounting.ValidateLines(companyID, lines, accountsMap); err != nil {
		return nil, err
	}

	balanceChanges, err := accounting.BalanceChanges(lines, accountTypes, false)
	if err != nil {
		logger.Error("Error calculating balance changes", slog.String("error", err.Error()))
		return nil, fmt.Errorf("internal error calculating balance changes: %w", err)
	}

	now := time.Now().UTC()
	entry := domain.JournalEntry{
		EntryID:     uuid.NewString(),
		CompanyID:   companyID,
		EntryNumber: req.EntryNumber,
		EntryDate:   req.Date,
		Description: req.Description,
		Reference:   req.Reference,
		TotalAmount: accounting.DebitTotal(lines),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	for i := range lines {
		lines[i].LineID = uuid.NewString()
		lines[i].EntryID = entry.EntryID
		lines[i].AuditFields = entry.AuditFields
	}

	// Transactional scope: entry header, lines and balance deltas commit as
	// one unit or not at all.
	tx, err := s.journalRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open posting transaction: %w", err)
	}
	defer s.journalRepo.Rollback(ctx, tx) // no-op after a successful commit

	if err := s.journalRepo.InsertEntry(ctx, tx, entry); err != nil {
		logger.Error("Failed to insert entry", slog.String("error", err.Error()), slog.String("entry_id", entry.EntryID))
		return nil, err
	}
	if err := s.journalRepo.InsertLines(ctx, tx, lines); err != nil {
		logger.Error("Failed to insert entry lines", slog.String("error", err.Error()), slog.String("entry_id", entry.EntryID))
		return nil, err
	}
	if err := s.accountRepo.ApplyBalanceDeltas(ctx, tx, balanceChanges, creatorUserID, now); err != nil {
		logger.Error("Failed to apply balance deltas", slog.String("error", err.Error()), slog.String("entry_id", entry.EntryID))
		return nil, err
	}
	if err := s.journalRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit posting transaction: %w", err)
	}

	logger.Info("Entry posted", slog.String("entry_id", entry.EntryID), slog.String("company_id", companyID), slog.String("total_amount", entry.TotalAmount.String()))
	entry.Lines = lines
	return &entry, nil
}

// UpdateEntry replaces an existing entry's content. The prior lines' balance
// effects are reversed and the new lines' effects applied within one
// transactional scope, so the stored entry and every account balance move
// together. Reverse-then-reapply is used instead of per-line diffing: it is
// correct regardless of how drastically the line set changed, and entries
// are small.
// Implements portssvc.EntryWriterSvc.
func (s *journalService) UpdateEntry(ctx context.Context, companyID string, entryID string, req dto.UpdateEntryRequest, requestingUserID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find entry for update", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		}
		return nil, err
	}
	if entry.CompanyID != companyID {
		logger.Warn("Entry belongs to a different company", slog.String("entry_id", entryID), slog.String("entry_company", entry.CompanyID), slog.String("requested_company", companyID))
		return nil, apperrors.ErrNotFound // Obscure existence
	}

	existingLines, err := s.journalRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		logger.Error("Failed to fetch existing lines for update", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to retrieve lines for entry %s: %w", entryID, err)
	}

	newLines, err := dto.ToDomainLines(req.Lines)
	if err != nil {
		return nil, err
	}

	// One snapshot covers both line sets: the new lines for validation, the
	// existing ones for the reversing deltas.
	accountIDs := make([]string, 0, len(newLines)+len(existingLines))
	for _, line := range newLines {
		accountIDs = append(accountIDs, line.AccountID)
	}
	for _, line := range existingLines {
		accountIDs = append(accountIDs, line.AccountID)
	}
	accountsMap, accountTypes, err := s.snapshotAccounts(ctx, accountIDs)
	if err != nil {
		logger.Error("Failed to fetch accounts for entry update", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, err
	}

	if err := accounting.ValidateLines(companyID, newLines, accountsMap); err != nil {
		return nil, err
	}

	reversingChanges, err := accounting.BalanceChanges(existingLines, accountTypes, true)
	if err != nil {
		logger.Error("Error calculating reversing balance changes", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("internal error calculating reversing balance changes: %w", err)
	}
	forwardChanges, err := accounting.BalanceChanges(newLines, accountTypes, false)
	if err != nil {
		logger.Error("Error calculating balance changes", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("internal error calculating balance changes: %w", err)
	}

	now := time.Now().UTC()
	entry.EntryNumber = req.EntryNumber
	entry.EntryDate = req.Date
	entry.Description = req.Description
	entry.Reference = req.Reference
	entry.TotalAmount = accounting.DebitTotal(newLines)
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = requestingUserID

	for i := range newLines {
		newLines[i].LineID = uuid.NewString()
		newLines[i].EntryID = entryID
		newLines[i].AuditFields = domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     requestingUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: requestingUserID,
		}
	}

	tx, err := s.journalRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open posting transaction: %w", err)
	}
	defer s.journalRepo.Rollback(ctx, tx)

	// Undo the prior effects first, then rebuild the entry from scratch.
	if err := s.accountRepo.ApplyBalanceDeltas(ctx, tx, reversingChanges, requestingUserID, now); err != nil {
		logger.Error("Failed to apply reversing balance deltas", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, err
	}
	if err := s.journalRepo.DeleteLinesForEntry(ctx, tx, entryID); err != nil {
		logger.Error("Failed to delete existing lines", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, err
	}
	if err := s.journalRepo.UpdateEntryHeader(ctx, tx, *entry); err != nil {
		logger.Error("Failed to update entry header", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, err
	}
	if err := s.journalRepo.InsertLines(ctx, tx, newLines); err != nil {
		logger.Error("Failed to insert replacement lines", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, err
	}
	if err := s.accountRepo.ApplyBalanceDeltas(ctx, tx, forwardChanges, requestingUserID, now); err != nil {
		logger.Error("Failed to apply forward balance deltas", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, err
	}
	if err := s.journalRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit posting transaction: %w", err)
	}

	logger.Info("Entry updated", slog.String("entry_id", entryID), slog.String("company_id", companyID), slog.String("total_amount", entry.TotalAmount.String()))
	entry.Lines = newLines
	return entry, nil
}

// GetEntryByID retrieves an entry with its lines.
// Implements portssvc.EntryReaderSvc.
func (s *journalService) GetEntryByID(ctx context.Context, companyID string, entryID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find entry by ID", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		}
		return nil, err
	}
	if entry.CompanyID != companyID {
		logger.Warn("Entry found but belongs to different company", slog.String("entry_id", entryID), slog.String("entry_company", entry.CompanyID), slog.String("requested_company", companyID))
		return nil, apperrors.ErrNotFound // Obscure existence
	}

	lines, err := s.journalRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		logger.Error("Failed to fetch lines for entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to retrieve lines for entry %s: %w", entryID, apperrors.ErrInternal)
	}
	entry.Lines = lines

	logger.Debug("Entry retrieved", slog.String("entry_id", entryID), slog.Int("line_count", len(lines)))
	return entry, nil
}

// ListEntries retrieves a paginated list of entries for a company, newest
// entry date first.
// Implements portssvc.EntryReaderSvc.
func (s *journalService) ListEntries(ctx context.Context, companyID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entries, nextToken, err := s.journalRepo.ListEntriesByCompany(ctx, companyID, params.Limit, params.NextToken)
	if err != nil {
		logger.Error("Failed to list entries from repository", slog.String("error", err.Error()), slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to retrieve entries: %w", err)
	}

	entryResponses := make([]dto.EntryResponse, len(entries))
	for i := range entries {
		entryResponses[i] = dto.ToEntryResponse(&entries[i])
	}

	logger.Info("Entries listed", slog.Int("count", len(entries)), slog.String("company_id", companyID))
	return &dto.ListEntriesResponse{
		Entries:   entryResponses,
		NextToken: nextToken,
	}, nil
}

// uniqueStrings returns a slice containing only the unique strings from the input.
func uniqueStrings(input []string) []string {
	seen := make(map[string]struct{}, len(input))
	result := make([]string, 0, len(input))
	for _, str := range input {
		if _, ok := seen[str]; !ok {
			seen[str] = struct{}{}
			result = append(result, str)
		}
	}
	return result
}
