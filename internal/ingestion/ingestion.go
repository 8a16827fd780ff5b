package ingestion

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/guttosm/findata/internal/domain/models"
	"github.com/guttosm/findata/internal/logger"
	"github.com/guttosm/findata/internal/storage"
)

const seriesDateLayout = "2006-01-02"

// repoCtor is an indirection for creating the repository; tests can override this.
var repoCtor = func(db *sql.DB) storage.FinancialRepository {
	return storage.NewFinancialRepository(db)
}

// Run fetches daily price series for each configured symbol and upserts
// the records that fall inside the current ingestion window.
//
// Behavior:
//   - Symbols are processed sequentially, one provider call each, to stay
//     within the free-tier request quota.
//   - Only records inside [IngestionWindow) are kept; older history in the
//     payload is ignored.
//   - Re-running is safe: records are upserted on the (symbol, date) key,
//     so repeated runs refresh rather than duplicate.
//   - A symbol that fails to fetch or persist is logged and skipped; the
//     remaining symbols still run. The first error is returned at the end
//     so the job exits non-zero.
//
// Returns:
//   - error: first per-symbol error encountered (if any).
func Run(ctx context.Context, db *sql.DB, provider Provider, symbols []string) error {
	// use indirection to allow tests to swap repository constructor
	repo := repoCtor(db)

	start, end := IngestionWindow(time.Now())

	logger.L().Info().
		Int("symbols", len(symbols)).
		Str("window_start", start.Format(seriesDateLayout)).
		Str("window_end", end.Format(seriesDateLayout)).
		Msg("ingestion start")

	var firstErr error

	for i, symbol := range symbols {
		began := time.Now()
		logger.L().Info().Int("idx", i+1).Int("total", len(symbols)).Str("symbol", symbol).Msg("symbol start")

		series, err := provider.DailySeries(ctx, symbol)
		if err != nil {
			logger.L().Error().Str("symbol", symbol).Err(err).Msg("fetch failed")
			if firstErr == nil {
				firstErr = fmt.Errorf("symbol %s: %w", symbol, err)
			}
			continue
		}

		records := buildRecords(symbol, series, start, end)
		if len(records) == 0 {
			logger.L().Warn().Str("symbol", symbol).Msg("no records inside ingestion window")
			continue
		}

		if err := repo.UpsertDailyRecords(ctx, records); err != nil {
			logger.L().Error().Str("symbol", symbol).Err(err).Msg("persist failed")
			if firstErr == nil {
				firstErr = fmt.Errorf("symbol %s: persist: %w", symbol, err)
			}
			continue
		}

		logger.L().Info().
			Int("idx", i+1).
			Int("total", len(symbols)).
			Str("symbol", symbol).
			Int("rows", len(records)).
			Dur("elapsed", time.Since(began)).
			Msg("symbol done")
	}

	return firstErr
}

// buildRecords converts a provider series into FinancialData records for
// the given window. Entries with unparseable dates or numbers are logged
// and skipped; one bad row never sinks the whole symbol.
func buildRecords(symbol string, series map[string]DailyQuote, start, end time.Time) []models.FinancialData {
	records := make([]models.FinancialData, 0, len(series))

	for dateStr, quote := range series {
		date, err := time.Parse(seriesDateLayout, dateStr)
		if err != nil {
			logger.L().Warn().Str("symbol", symbol).Str("date", dateStr).Err(err).Msg("skip row: bad date")
			continue
		}
		if date.Before(start) || !date.Before(end) {
			continue
		}

		open, err := decimal.NewFromString(quote.Open)
		if err != nil {
			logger.L().Warn().Str("symbol", symbol).Str("date", dateStr).Err(err).Msg("skip row: bad open price")
			continue
		}
		closePrice, err := decimal.NewFromString(quote.Close)
		if err != nil {
			logger.L().Warn().Str("symbol", symbol).Str("date", dateStr).Err(err).Msg("skip row: bad close price")
			continue
		}
		volume, err := strconv.ParseInt(quote.Volume, 10, 64)
		if err != nil {
			logger.L().Warn().Str("symbol", symbol).Str("date", dateStr).Err(err).Msg("skip row: bad volume")
			continue
		}

		records = append(records, models.FinancialData{
			Symbol:     symbol,
			Date:       date,
			OpenPrice:  open,
			ClosePrice: closePrice,
			Volume:     volume,
		})
	}

	// Deterministic insert order keeps logs and transactions predictable.
	sort.Slice(records, func(i, j int) bool {
		return records[i].Date.Before(records[j].Date)
	})

	return records
}
