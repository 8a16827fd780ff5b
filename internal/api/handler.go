package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/findata/internal/domain/dto"
	"github.com/guttosm/findata/internal/middleware"
	"github.com/guttosm/findata/internal/service"
	"github.com/guttosm/findata/internal/storage"
)

// Soft-failure messages carried in info.error with a 200 status. Zero matches
// and a page past the end are documented response shapes, not errors.
const (
	msgNoEntries     = "No entries found with the provided criteria."
	msgPageOutOfSet  = "No records on this page"
	msgInternalError = "Internal Server Error"
)

// Handler provides HTTP handlers for the financial data endpoints.
//
// Responsibilities:
//   - Validate incoming HTTP query parameters
//   - Call the service layer
//   - Translate service results into response DTOs
//   - Return structured JSON responses with appropriate HTTP status codes
type Handler struct {
	svc service.FinancialService
}

// NewHandler constructs a new Handler instance.
//
// Parameters:
//   - svc (service.FinancialService): Service dependency holding the business logic.
//
// Returns:
//   - *Handler: A handler ready to be registered with the router.
func NewHandler(svc service.FinancialService) *Handler {
	return &Handler{svc: svc}
}

// GetFinancialData handles GET /api/financial_data requests.
//
// Query Parameters:
//   - symbol (string, optional): 3-character ticker; omit to match all symbols.
//   - start_date (string, optional): Inclusive lower bound, YYYY-MM-DD.
//   - end_date (string, optional): Inclusive upper bound, YYYY-MM-DD.
//   - page (int, optional): 1-based page number, default 1.
//   - limit (int, optional): Page size (> 1), default 5.
//
// Responses:
//   - 200 OK: Records ordered by date plus a pagination block. Zero matches
//     and out-of-range pages are 200s with an explanatory info.error.
//   - 400 Bad Request: One or more invalid parameters; every field error is
//     reported in info.error.
//   - 500 Internal Server Error: Storage failure.
//
// GetFinancialData godoc
// @Summary      List daily financial data
// @Description  Returns paginated daily price records, optionally filtered by symbol and date range
// @Tags         financial-data
// @Produce      json
// @Param        symbol      query     string  false  "3-character ticker symbol"  example(IBM)
// @Param        start_date  query     string  false  "Start date in YYYY-MM-DD"   example(2020-01-01)
// @Param        end_date    query     string  false  "End date in YYYY-MM-DD"     example(2020-01-04)
// @Param        page        query     int     false  "Page number (1-based)"      example(1)
// @Param        limit       query     int     false  "Page size (> 1)"            example(5)
// @Success      200         {object}  dto.FinancialDataResponse  "Success"
// @Failure      400         {object}  dto.ErrorResponse          "Validation failure"
// @Failure      500         {object}  dto.ErrorResponse          "Internal Error"
// @Router       /api/financial_data [get]
func (h *Handler) GetFinancialData(c *gin.Context) {
	params, errs := parseListParams(c)
	if len(errs) > 0 {
		c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(errs))
		return
	}

	filter := storage.Filter{
		Symbol:    params.Symbol,
		StartDate: params.StartDate,
		EndDate:   params.EndDate,
	}

	result, err := h.svc.ListFinancialData(c.Request.Context(), filter, params.Page, params.Limit)
	if err != nil {
		middleware.AbortWithError(c, http.StatusInternalServerError, msgInternalError, err)
		return
	}

	// Zero matching records: empty data, empty pagination block.
	if result.Count == 0 {
		c.JSON(http.StatusOK, dto.FinancialDataResponse{
			Data:       []dto.FinancialDataItem{},
			Pagination: struct{}{},
			Info:       dto.Info{Error: msgNoEntries},
		})
		return
	}

	items := make([]dto.FinancialDataItem, 0, len(result.Records))
	for _, rec := range result.Records {
		items = append(items, dto.NewFinancialDataItem(rec))
	}

	// A page past the end is valid but empty; pagination keeps the true totals.
	infoMsg := ""
	if len(items) == 0 {
		infoMsg = msgPageOutOfSet
	}

	c.JSON(http.StatusOK, dto.FinancialDataResponse{
		Data: items,
		Pagination: dto.Pagination{
			Count: result.Count,
			Page:  result.Page,
			Limit: result.Limit,
			Pages: result.Pages,
		},
		Info: dto.Info{Error: infoMsg},
	})
}

// GetStatistics handles GET /api/statistics requests.
//
// Query Parameters:
//   - symbol (string, required): 3-character ticker.
//   - start_date (string, required): Inclusive lower bound, YYYY-MM-DD.
//   - end_date (string, required): Inclusive upper bound, YYYY-MM-DD.
//
// Responses:
//   - 200 OK: Average open/close price and volume over the range, each
//     rounded to 3 decimal places. An empty filtered set is a 200 with an
//     empty data object and an explanatory info.error.
//   - 400 Bad Request: Missing or invalid parameters.
//   - 500 Internal Server Error: Storage failure.
//
// GetStatistics godoc
// @Summary      Get aggregate statistics
// @Description  Returns average daily open price, close price, and volume for a symbol over a date range
// @Tags         statistics
// @Produce      json
// @Param        symbol      query     string  true  "3-character ticker symbol"  example(IBM)
// @Param        start_date  query     string  true  "Start date in YYYY-MM-DD"   example(2020-01-01)
// @Param        end_date    query     string  true  "End date in YYYY-MM-DD"     example(2020-01-04)
// @Success      200         {object}  dto.StatisticsResponse  "Success"
// @Failure      400         {object}  dto.ErrorResponse       "Validation failure"
// @Failure      500         {object}  dto.ErrorResponse       "Internal Error"
// @Router       /api/statistics [get]
func (h *Handler) GetStatistics(c *gin.Context) {
	params, errs := parseStatisticsParams(c)
	if len(errs) > 0 {
		c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(errs))
		return
	}

	stats, err := h.svc.GetStatistics(c.Request.Context(), params.Symbol, params.StartDate, params.EndDate)
	if err != nil {
		middleware.AbortWithError(c, http.StatusInternalServerError, msgInternalError, err)
		return
	}

	if stats == nil {
		c.JSON(http.StatusOK, dto.StatisticsResponse{
			Data: struct{}{},
			Info: dto.Info{Error: fmt.Sprintf(
				"No records found for symbol %s between %s and %s.",
				params.Symbol, dto.FormatDate(params.StartDate), dto.FormatDate(params.EndDate),
			)},
		})
		return
	}

	c.JSON(http.StatusOK, dto.StatisticsResponse{
		Data: dto.NewStatisticsData(*stats),
		Info: dto.Info{Error: ""},
	})
}

// Status handles GET /api/status requests, a plain liveness check kept for
// backwards compatibility with existing monitoring.
//
// Status godoc
// @Summary      API status
// @Description  Confirms the API process is serving requests
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /api/status [get]
func (h *Handler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"info": "API is working"})
}
