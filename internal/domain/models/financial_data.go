package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FinancialData represents one daily price record for a stock symbol.
// The pair (Symbol, Date) is the unique identity of a record; the ingestion
// job replaces prices and volume in place on conflict.
//
// Prices are decimals rather than float64 so values like 3.155 survive a
// database round-trip exactly.
type FinancialData struct {
	Symbol     string          // Ticker symbol (e.g., "IBM")
	Date       time.Time       // Trading day, date only (UTC midnight)
	OpenPrice  decimal.Decimal // Opening price
	ClosePrice decimal.Decimal // Closing price
	Volume     int64           // Shares traded
}
