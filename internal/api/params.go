package api

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/findata/internal/domain/dto"
)

const (
	dateLayout   = "2006-01-02"
	symbolLength = 3
	defaultPage  = 1
	defaultLimit = 5
)

// Validation messages. The date strings are part of the documented API
// contract and must not be reworded.
const (
	msgDateFormat    = "Incorrect data format, should be YYYY-MM-DD"
	msgDateOrder     = "start_date should be before end_date."
	msgFieldRequired = "field required"
	msgSymbolLength  = "symbol must be exactly 3 characters"
	msgPageInt       = "page must be an integer"
	msgPageRange     = "page must be greater than 0"
	msgLimitInt      = "limit must be an integer"
	msgLimitRange    = "limit must be greater than 1"
)

// ListDataParams is the validated parameter bundle for GET /api/financial_data.
// Symbol is empty when the filter was omitted; nil dates leave that bound open.
type ListDataParams struct {
	Symbol    string
	StartDate *time.Time
	EndDate   *time.Time
	Page      int
	Limit     int
}

// StatisticsParams is the validated parameter bundle for GET /api/statistics,
// where all three fields are required.
type StatisticsParams struct {
	Symbol    string
	StartDate time.Time
	EndDate   time.Time
}

// parseListParams validates the listing endpoint's query parameters.
//
// Every field is checked independently and all failures are collected before
// the request is rejected; nothing short-circuits on the first bad field.
// The cross-field date-order check runs only when both dates parsed, so a
// malformed date never produces a contradictory second error.
func parseListParams(c *gin.Context) (ListDataParams, []dto.FieldError) {
	params := ListDataParams{Page: defaultPage, Limit: defaultLimit}
	var errs []dto.FieldError

	if s := c.Query("symbol"); s != "" {
		if len(s) != symbolLength {
			errs = append(errs, dto.FieldError{Field: "symbol", Message: msgSymbolLength})
		} else {
			params.Symbol = s
		}
	}

	params.StartDate, errs = parseOptionalDate(c, "start_date", errs)
	params.EndDate, errs = parseOptionalDate(c, "end_date", errs)

	if s := c.Query("page"); s != "" {
		switch v, err := strconv.Atoi(s); {
		case err != nil:
			errs = append(errs, dto.FieldError{Field: "page", Message: msgPageInt})
		case v <= 0:
			errs = append(errs, dto.FieldError{Field: "page", Message: msgPageRange})
		default:
			params.Page = v
		}
	}

	if s := c.Query("limit"); s != "" {
		switch v, err := strconv.Atoi(s); {
		case err != nil:
			errs = append(errs, dto.FieldError{Field: "limit", Message: msgLimitInt})
		case v <= 1:
			errs = append(errs, dto.FieldError{Field: "limit", Message: msgLimitRange})
		default:
			params.Limit = v
		}
	}

	errs = checkDateOrder(params.StartDate, params.EndDate, errs)
	return params, errs
}

// parseStatisticsParams validates the statistics endpoint's query parameters.
// symbol, start_date, and end_date are all required here.
func parseStatisticsParams(c *gin.Context) (StatisticsParams, []dto.FieldError) {
	var params StatisticsParams
	var errs []dto.FieldError

	switch s := c.Query("symbol"); {
	case s == "":
		errs = append(errs, dto.FieldError{Field: "symbol", Message: msgFieldRequired})
	case len(s) != symbolLength:
		errs = append(errs, dto.FieldError{Field: "symbol", Message: msgSymbolLength})
	default:
		params.Symbol = s
	}

	var start, end *time.Time
	start, errs = parseRequiredDate(c, "start_date", errs)
	end, errs = parseRequiredDate(c, "end_date", errs)
	errs = checkDateOrder(start, end, errs)

	if len(errs) > 0 {
		return StatisticsParams{}, errs
	}
	params.StartDate = *start
	params.EndDate = *end
	return params, nil
}

// parseOptionalDate parses a YYYY-MM-DD query value when present, appending a
// field error on malformed input.
func parseOptionalDate(c *gin.Context, field string, errs []dto.FieldError) (*time.Time, []dto.FieldError) {
	s := c.Query(field)
	if s == "" {
		return nil, errs
	}
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, append(errs, dto.FieldError{Field: field, Message: msgDateFormat})
	}
	return &d, errs
}

// parseRequiredDate is parseOptionalDate with a "field required" error when
// the value is absent.
func parseRequiredDate(c *gin.Context, field string, errs []dto.FieldError) (*time.Time, []dto.FieldError) {
	if c.Query(field) == "" {
		return nil, append(errs, dto.FieldError{Field: field, Message: msgFieldRequired})
	}
	return parseOptionalDate(c, field, errs)
}

// checkDateOrder appends the joint start/end ordering error when both dates
// parsed and start is after end. Equal dates are a valid one-day range.
func checkDateOrder(start, end *time.Time, errs []dto.FieldError) []dto.FieldError {
	if start == nil || end == nil {
		return errs
	}
	if start.After(*end) {
		errs = append(errs, dto.FieldError{Field: "start_date,end_date", Message: msgDateOrder})
	}
	return errs
}
