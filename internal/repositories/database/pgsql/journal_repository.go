package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openledgerhq/ledger_backend/internal/apperrors"
	"github.com/openledgerhq/ledger_backend/internal/core/domain"
	portsrepo "github.com/openledgerhq/ledger_backend/internal/core/ports/repositories"
	"github.com/openledgerhq/ledger_backend/internal/utils/pagination"
)

const entryColumns = `entry_id, company_id, entry_number, entry_date, description, reference, total_amount, created_at, created_by, last_updated_at, last_updated_by`

const lineColumns = `line_id, entry_id, account_id, description, debit_amount, credit_amount, currency_code, exchange_rate, created_at, created_by, last_updated_at, last_updated_by`

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal entry and line data.
func newPgxJournalRepository(pool *pgxpool.Pool) portsrepo.JournalRepositoryWithTx {
	return &PgxJournalRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxJournalRepository implements portsrepo.JournalRepositoryWithTx
var _ portsrepo.JournalRepositoryWithTx = (*PgxJournalRepository)(nil)

// scanEntry scans one entry row in entryColumns order.
func scanEntry(row pgx.Row) (domain.JournalEntry, error) {
	var entry domain.JournalEntry
	var reference sql.NullString

	err := row.Scan(
		&entry.EntryID,
		&entry.CompanyID,
		&entry.EntryNumber,
		&entry.EntryDate,
		&entry.Description,
		&reference,
		&entry.TotalAmount,
		&entry.CreatedAt,
		&entry.CreatedBy,
		&entry.LastUpdatedAt,
		&entry.LastUpdatedBy,
	)
	if err != nil {
		return domain.JournalEntry{}, err
	}
	if reference.Valid {
		entry.Reference = reference.String
	}
	return entry, nil
}

// nullableReference maps an empty reference to NULL.
func nullableReference(reference string) sql.NullString {
	if reference == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: reference, Valid: true}
}

// InsertEntry persists a new entry header within the caller's transaction.
func (r *PgxJournalRepository) InsertEntry(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry) error {
	query := `
		INSERT INTO journal_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := tx.Exec(ctx, query,
		entry.EntryID,
		entry.CompanyID,
		entry.EntryNumber,
		entry.EntryDate,
		entry.Description,
		nullableReference(entry.Reference),
		entry.TotalAmount,
		entry.CreatedAt,
		entry.CreatedBy,
		entry.LastUpdatedAt,
		entry.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return fmt.Errorf("%w: entry number %s already exists in company %s", apperrors.ErrDuplicate, entry.EntryNumber, entry.CompanyID)
		}
		return apperrors.NewAppError(500, "failed to insert entry "+entry.EntryID, err)
	}
	return nil
}

// InsertLines persists the lines of an entry within the caller's transaction.
func (r *PgxJournalRepository) InsertLines(ctx context.Context, tx pgx.Tx, lines []domain.JournalEntryLine) error {
	if len(lines) == 0 {
		return nil
	}

	query := `
		INSERT INTO journal_entry_lines (` + lineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`

	batch := &pgx.Batch{}
	for _, line := range lines {
		batch.Queue(query,
			line.LineID,
			line.EntryID,
			line.AccountID,
			line.Description,
			line.DebitAmount,
			line.CreditAmount,
			line.CurrencyCode,
			line.ExchangeRate,
			line.CreatedAt,
			line.CreatedBy,
			line.LastUpdatedAt,
			line.LastUpdatedBy,
		)
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to execute line insert batch for entry "+lines[0].EntryID, err)
	}
	return nil
}

// DeleteLinesForEntry removes all lines of an entry within the caller's
// transaction. Used by the update flow, which replaces the line set whole.
func (r *PgxJournalRepository) DeleteLinesForEntry(ctx context.Context, tx pgx.Tx, entryID string) error {
	query := `DELETE FROM journal_entry_lines WHERE entry_id = $1;`

	if _, err := tx.Exec(ctx, query, entryID); err != nil {
		return apperrors.NewAppError(500, "failed to delete lines for entry "+entryID, err)
	}
	return nil
}

// UpdateEntryHeader replaces the mutable header fields of an entry within the
// caller's transaction.
func (r *PgxJournalRepository) UpdateEntryHeader(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry) error {
	query := `
		UPDATE journal_entries
		SET entry_number = $2,
		    entry_date = $3,
		    description = $4,
		    reference = $5,
		    total_amount = $6,
		    last_updated_at = $7,
		    last_updated_by = $8
		WHERE entry_id = $1;
	`

	cmdTag, err := tx.Exec(ctx, query,
		entry.EntryID,
		entry.EntryNumber,
		entry.EntryDate,
		entry.Description,
		nullableReference(entry.Reference),
		entry.TotalAmount,
		entry.LastUpdatedAt,
		entry.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return fmt.Errorf("%w: entry number %s already exists in company %s", apperrors.ErrDuplicate, entry.EntryNumber, entry.CompanyID)
		}
		return apperrors.NewAppError(500, "failed to update entry header "+entry.EntryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("entry " + entry.EntryID + " not found for update")
	}
	return nil
}

// FindEntryByID retrieves an entry header by its ID.
func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE entry_id = $1;`

	entry, err := scanEntry(r.Pool.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find entry by ID "+entryID, err)
	}
	return &entry, nil
}

// FindLinesByEntryID retrieves all lines associated with a specific entry.
func (r *PgxJournalRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalEntryLine, error) {
	query := `
		SELECT ` + lineColumns + `
		FROM journal_entry_lines
		WHERE entry_id = $1
		ORDER BY line_id;
	`
	rows, err := r.Pool.Query(ctx, query, entryID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query lines for entry "+entryID, err)
	}
	defer rows.Close()

	lines := []domain.JournalEntryLine{}
	for rows.Next() {
		var line domain.JournalEntryLine
		err := rows.Scan(
			&line.LineID,
			&line.EntryID,
			&line.AccountID,
			&line.Description,
			&line.DebitAmount,
			&line.CreditAmount,
			&line.CurrencyCode,
			&line.ExchangeRate,
			&line.CreatedAt,
			&line.CreatedBy,
			&line.LastUpdatedAt,
			&line.LastUpdatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan line row for entry "+entryID, err)
		}
		lines = append(lines, line)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating line rows for entry "+entryID, err)
	}

	return lines, nil
}

// ListEntriesByCompany retrieves a paginated list of entries for a company
// using token-based pagination, ordered by entry date descending.
// It returns the entries, a token for the next page (if any), and an error.
func (r *PgxJournalRepository) ListEntriesByCompany(ctx context.Context, companyID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	if limit <= 0 {
		limit = 20 // Default page size
	}
	// Fetch one extra row to determine whether a next page exists.
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + entryColumns + ` FROM journal_entries WHERE company_id = $1`

	// Ordering must be stable: entry_date DESC with created_at DESC as the
	// tie-breaker, matching the cursor tuple.
	orderByClause := `ORDER BY entry_date DESC, created_at DESC`

	var rows pgx.Rows
	var err error
	args := []interface{}{companyID}

	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}

		// Tuple comparison is concise and efficient in Postgres.
		cursorClause := `AND (entry_date, created_at) < ($2, $3)`
		args = append(args, lastDate, lastCreatedAt)

		query := baseQuery + " " + cursorClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	} else {
		query := baseQuery + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	}

	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query entries for company "+companyID, err)
	}
	defer rows.Close()

	entries := make([]domain.JournalEntry, 0, fetchLimit)
	for rows.Next() {
		entry, scanErr := scanEntry(rows)
		if scanErr != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan entry row for company "+companyID, scanErr)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating entry rows for company "+companyID, err)
	}

	var nextTokenVal *string
	results := entries
	if len(entries) > limit {
		// The token points to the last item included in this page; the next
		// query starts after it.
		lastEntry := entries[limit-1]
		newToken := pagination.EncodeToken(lastEntry.EntryDate, lastEntry.CreatedAt)
		nextTokenVal = &newToken
		results = entries[:limit]
	}

	return results, nextTokenVal, nil
}
