package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Statistics holds the arithmetic means of a filtered set of daily records
// for one symbol over an inclusive date range.
//
// Fields:
//   - Symbol: the symbol the averages were computed for.
//   - StartDate / EndDate: the requested inclusive range.
//   - AverageOpenPrice / AverageClosePrice / AverageVolume: plain
//     sum-divided-by-count means, rounded to 3 decimal places.
type Statistics struct {
	Symbol            string
	StartDate         time.Time
	EndDate           time.Time
	AverageOpenPrice  decimal.Decimal
	AverageClosePrice decimal.Decimal
	AverageVolume     decimal.Decimal
}
