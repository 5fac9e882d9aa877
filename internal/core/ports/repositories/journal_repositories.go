package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/openledgerhq/ledger_backend/internal/core/domain"
)

// EntryReader defines read operations for journal entry data
type EntryReader interface {
	// FindEntryByID retrieves a specific entry header by its unique identifier.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// ListEntriesByCompany retrieves a paginated list of entries for a company,
	// ordered by entry date descending, using token-based pagination.
	// It returns the entries, a token for the next page, and an error.
	ListEntriesByCompany(ctx context.Context, companyID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)
}

// LineReader defines read operations for entry line data
type LineReader interface {
	// FindLinesByEntryID retrieves all lines belonging to a single entry.
	FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalEntryLine, error)
}

// EntryWriter defines the write operations of the journal entry store.
// Every method takes the transaction handle the posting engine opened; the
// store holds no cross-call state.
type EntryWriter interface {
	// InsertEntry persists a new entry header.
	InsertEntry(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry) error

	// InsertLines persists the lines of an entry.
	InsertLines(ctx context.Context, tx pgx.Tx, lines []domain.JournalEntryLine) error

	// DeleteLinesForEntry removes all lines of an entry (full line-set replace on update).
	DeleteLinesForEntry(ctx context.Context, tx pgx.Tx, entryID string) error

	// UpdateEntryHeader replaces the mutable header fields of an entry.
	UpdateEntryHeader(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry) error
}

// JournalRepositoryFacade combines all journal-entry repository interfaces
// This is a facade for clients that need access to all operations
type JournalRepositoryFacade interface {
	EntryReader
	LineReader
	EntryWriter
}

// JournalRepositoryWithTx extends JournalRepositoryFacade with transaction capabilities
type JournalRepositoryWithTx interface {
	JournalRepositoryFacade
	TransactionManager
}
