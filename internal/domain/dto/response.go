package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/guttosm/findata/internal/domain/models"
)

// The API contract emits prices as JSON numbers (3.155, not "3.155").
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// dateLayout is the wire format for all calendar dates.
const dateLayout = "2006-01-02"

// Info is the trailing block present on every API response. Error is the
// empty string on success, a descriptive string on soft failures (empty
// result, page past the end), or a list of FieldError on validation failures.
type Info struct {
	Error any `json:"error"`
}

// FieldError is a single validation failure tagged with the offending query
// parameter. It marshals as {"field": "message"} to match the API contract.
type FieldError struct {
	Field   string
	Message string
}

// MarshalJSON renders the error as a one-entry object keyed by field name.
func (e FieldError) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{e.Field: e.Message})
}

// Pagination describes the listing endpoint's position within the full
// filtered result set.
type Pagination struct {
	Count int `json:"count" example:"42"` // Total matching records
	Page  int `json:"page" example:"1"`   // Requested page (1-based)
	Limit int `json:"limit" example:"5"`  // Page size
	Pages int `json:"pages" example:"9"`  // Total pages, ceil(count/limit)
}

// FinancialDataItem is one daily record as exposed by the API.
//
// Fields match the API contract and may differ from internal domain models.
// This ensures loose coupling between the API surface and business logic.
type FinancialDataItem struct {
	Symbol     string          `json:"symbol" example:"IBM"`
	Date       string          `json:"date" example:"2020-01-01"`
	OpenPrice  decimal.Decimal `json:"open_price" example:"3.14"`
	ClosePrice decimal.Decimal `json:"close_price" example:"3.18"`
	Volume     int64           `json:"volume" example:"150000"`
}

// FinancialDataResponse is the envelope returned by GET /api/financial_data.
// Pagination is a Pagination block when records matched, or an empty object
// when nothing matched the criteria.
type FinancialDataResponse struct {
	Data       []FinancialDataItem `json:"data"`
	Pagination any                 `json:"pagination"`
	Info       Info                `json:"info"`
}

// StatisticsData is the payload of a successful GET /api/statistics response.
type StatisticsData struct {
	StartDate              string          `json:"start_date" example:"2020-01-01"`
	EndDate                string          `json:"end_date" example:"2020-01-04"`
	Symbol                 string          `json:"symbol" example:"IBM"`
	AverageDailyOpenPrice  decimal.Decimal `json:"average_daily_open_price" example:"3.155"`
	AverageDailyClosePrice decimal.Decimal `json:"average_daily_close_price" example:"3.195"`
	AverageDailyVolume     decimal.Decimal `json:"average_daily_volume" example:"2.234"`
}

// StatisticsResponse is the envelope returned by GET /api/statistics.
// Data is a StatisticsData block, or an empty object when the filtered set
// was empty.
type StatisticsResponse struct {
	Data any  `json:"data"`
	Info Info `json:"info"`
}

// ErrorResponse is the envelope used for validation failures (HTTP 400) and
// internal errors (HTTP 500): only the info block is present.
type ErrorResponse struct {
	Info Info `json:"info"`
}

// NewErrorResponse builds an ErrorResponse carrying a single descriptive
// message, e.g. "Internal Server Error".
func NewErrorResponse(message string) ErrorResponse {
	return ErrorResponse{Info: Info{Error: message}}
}

// NewValidationErrorResponse builds the HTTP 400 envelope carrying the
// ordered list of per-field validation errors.
func NewValidationErrorResponse(errs []FieldError) ErrorResponse {
	return ErrorResponse{Info: Info{Error: errs}}
}

// NewFinancialDataItem maps a domain record to its API representation.
func NewFinancialDataItem(r models.FinancialData) FinancialDataItem {
	return FinancialDataItem{
		Symbol:     r.Symbol,
		Date:       r.Date.Format(dateLayout),
		OpenPrice:  r.OpenPrice,
		ClosePrice: r.ClosePrice,
		Volume:     r.Volume,
	}
}

// NewStatisticsData maps computed statistics to their API representation.
func NewStatisticsData(s models.Statistics) StatisticsData {
	return StatisticsData{
		StartDate:              s.StartDate.Format(dateLayout),
		EndDate:                s.EndDate.Format(dateLayout),
		Symbol:                 s.Symbol,
		AverageDailyOpenPrice:  s.AverageOpenPrice,
		AverageDailyClosePrice: s.AverageClosePrice,
		AverageDailyVolume:     s.AverageVolume,
	}
}

// FormatDate renders a date in the API wire format (YYYY-MM-DD).
func FormatDate(t time.Time) string { return t.Format(dateLayout) }
