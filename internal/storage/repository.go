package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/guttosm/findata/internal/domain/models"
)

// Filter describes the optional predicates shared by every read query over
// financial_data. Zero values mean "no constraint": an empty Symbol matches
// all symbols, nil dates leave the range unbounded on that side.
type Filter struct {
	Symbol    string
	StartDate *time.Time
	EndDate   *time.Time
}

// FinancialRepository defines the contract for DB operations on the
// financial_data table.
type FinancialRepository interface {
	CountRecords(ctx context.Context, f Filter) (int, error)
	ListRecords(ctx context.Context, f Filter, offset, limit int) ([]models.FinancialData, error)
	FetchRecords(ctx context.Context, f Filter) ([]models.FinancialData, error)
	UpsertDailyRecords(ctx context.Context, records []models.FinancialData) error
}

type financialRepository struct {
	db *sql.DB
}

// NewFinancialRepository wraps an open *sql.DB in a FinancialRepository.
func NewFinancialRepository(db *sql.DB) FinancialRepository {
	return &financialRepository{db: db}
}

// whereClause builds the dynamic WHERE fragment and its positional arguments
// from a Filter. Absent filters are omitted rather than translated into a
// match-nothing predicate. With an empty Filter it returns "TRUE" so callers
// can always interpolate the fragment.
func whereClause(f Filter) (string, []interface{}) {
	conditions := "TRUE"
	var args []interface{}

	if f.Symbol != "" {
		args = append(args, f.Symbol)
		conditions += fmt.Sprintf(" AND symbol = $%d", len(args))
	}
	if f.StartDate != nil {
		args = append(args, *f.StartDate)
		conditions += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if f.EndDate != nil {
		args = append(args, *f.EndDate)
		conditions += fmt.Sprintf(" AND date <= $%d", len(args))
	}
	return conditions, args
}

// CountRecords returns the total number of rows matching the filter.
func (r *financialRepository) CountRecords(ctx context.Context, f Filter) (int, error) {
	conditions, args := whereClause(f)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM financial_data WHERE %s`, conditions)

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count financial_data: %w", err)
	}
	return count, nil
}

// ListRecords returns one page of rows matching the filter, ordered by
// ascending date. The ordering is mandatory: without it pagination is
// non-deterministic under concurrent ingestion.
func (r *financialRepository) ListRecords(ctx context.Context, f Filter, offset, limit int) ([]models.FinancialData, error) {
	conditions, args := whereClause(f)
	args = append(args, limit)
	limitPos := len(args)
	args = append(args, offset)
	offsetPos := len(args)

	query := fmt.Sprintf(`
		SELECT symbol, date, open_price, close_price, volume
		FROM financial_data
		WHERE %s
		ORDER BY date ASC
		LIMIT $%d OFFSET $%d`, conditions, limitPos, offsetPos)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list financial_data: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanRecords(rows)
}

// FetchRecords returns every row matching the filter, unordered. Used by the
// statistics path, where aggregation is order-independent and per-symbol
// series are small enough to materialize.
func (r *financialRepository) FetchRecords(ctx context.Context, f Filter) ([]models.FinancialData, error) {
	conditions, args := whereClause(f)
	query := fmt.Sprintf(`
		SELECT symbol, date, open_price, close_price, volume
		FROM financial_data
		WHERE %s`, conditions)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetch financial_data: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanRecords(rows)
}

func scanRecords(rows *sql.Rows) ([]models.FinancialData, error) {
	var out []models.FinancialData
	for rows.Next() {
		var rec models.FinancialData
		if err := rows.Scan(&rec.Symbol, &rec.Date, &rec.OpenPrice, &rec.ClosePrice, &rec.Volume); err != nil {
			return nil, fmt.Errorf("scan financial_data row: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate financial_data rows: %w", err)
	}
	return out, nil
}

// UpsertDailyRecords inserts or replaces one batch of daily records inside a
// single transaction. A conflict on (symbol, date) replaces open_price,
// close_price, and volume with the new values; the key columns are immutable.
// Any failure rolls back the whole batch.
func (r *financialRepository) UpsertDailyRecords(ctx context.Context, records []models.FinancialData) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert tx: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO financial_data (symbol, date, open_price, close_price, volume)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (symbol, date)
		DO UPDATE SET open_price = EXCLUDED.open_price,
					  close_price = EXCLUDED.close_price,
					  volume = EXCLUDED.volume`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare upsert: %w", err)
	}

	for _, rec := range records {
		if _, err := stmt.ExecContext(ctx, rec.Symbol, rec.Date, rec.OpenPrice, rec.ClosePrice, rec.Volume); err != nil {
			_ = stmt.Close()
			_ = tx.Rollback()
			return fmt.Errorf("upsert %s %s: %w", rec.Symbol, rec.Date.Format("2006-01-02"), err)
		}
	}

	if err := stmt.Close(); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("close upsert stmt: %w", err)
	}
	return tx.Commit()
}
