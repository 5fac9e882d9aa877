package services

import (
	"context"

	"github.com/openledgerhq/ledger_backend/internal/core/domain"
	"github.com/openledgerhq/ledger_backend/internal/dto"
)

// EntryReaderSvc defines read operations for journal entry data
type EntryReaderSvc interface {
	// GetEntryByID retrieves a specific entry with its lines.
	GetEntryByID(ctx context.Context, companyID string, entryID string) (*domain.JournalEntry, error)

	// ListEntries retrieves a paginated list of entries for a company.
	ListEntries(ctx context.Context, companyID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error)
}

// EntryWriterSvc defines the posting operations of the engine.
type EntryWriterSvc interface {
	// CreateEntry validates and atomically posts a new entry, applying its
	// balance deltas to the touched accounts.
	CreateEntry(ctx context.Context, companyID string, req dto.CreateEntryRequest, creatorUserID string) (*domain.JournalEntry, error)

	// UpdateEntry replaces an existing entry's header and line set, reversing
	// the prior lines' balance effects and applying the new ones atomically.
	UpdateEntry(ctx context.Context, companyID string, entryID string, req dto.UpdateEntryRequest, requestingUserID string) (*domain.JournalEntry, error)
}

// JournalSvcFacade combines all journal-entry service interfaces
// This is a facade for clients that need access to all operations
type JournalSvcFacade interface {
	EntryReaderSvc
	EntryWriterSvc
}
