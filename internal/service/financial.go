package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/guttosm/findata/internal/domain/models"
	"github.com/guttosm/findata/internal/storage"
)

// FinancialService defines the business logic for the two read endpoints:
// the paginated listing and the aggregate statistics.
type FinancialService interface {
	// ListFinancialData counts the filtered set, then fetches one page ordered
	// by date. A zero count short-circuits before any pagination arithmetic.
	ListFinancialData(ctx context.Context, f storage.Filter, page, limit int) (*ListResult, error)

	// GetStatistics computes averages over the full filtered set. It returns
	// (nil, nil) when no records match.
	GetStatistics(ctx context.Context, symbol string, startDate, endDate time.Time) (*models.Statistics, error)
}

// ListResult carries one page of records together with the pagination totals
// computed from the full filtered count.
type ListResult struct {
	Records []models.FinancialData
	Count   int // Total records matching the filter
	Page    int // Requested page (1-based)
	Limit   int // Page size
	Pages   int // ceil(Count / Limit)
}

type financialService struct {
	repo storage.FinancialRepository
}

// NewFinancialService wires a FinancialService over the given repository.
func NewFinancialService(repo storage.FinancialRepository) FinancialService {
	return &financialService{repo: repo}
}

// Offset converts a 1-based page number and page size into a row offset,
// clamped to zero.
func Offset(page, limit int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * limit
}

// PageCount returns ceil(count/limit). Callers guarantee limit >= 1 and only
// invoke it for count >= 1.
func PageCount(count, limit int) int {
	return (count + limit - 1) / limit
}

func (s *financialService) ListFinancialData(ctx context.Context, f storage.Filter, page, limit int) (*ListResult, error) {
	count, err := s.repo.CountRecords(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("count records: %w", err)
	}
	if count == 0 {
		return &ListResult{Page: page, Limit: limit}, nil
	}

	records, err := s.repo.ListRecords(ctx, f, Offset(page, limit), limit)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}

	return &ListResult{
		Records: records,
		Count:   count,
		Page:    page,
		Limit:   limit,
		Pages:   PageCount(count, limit),
	}, nil
}

func (s *financialService) GetStatistics(ctx context.Context, symbol string, startDate, endDate time.Time) (*models.Statistics, error) {
	f := storage.Filter{Symbol: symbol, StartDate: &startDate, EndDate: &endDate}
	records, err := s.repo.FetchRecords(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("fetch records: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	var sumOpen, sumClose, sumVolume decimal.Decimal
	for _, rec := range records {
		sumOpen = sumOpen.Add(rec.OpenPrice)
		sumClose = sumClose.Add(rec.ClosePrice)
		sumVolume = sumVolume.Add(decimal.NewFromInt(rec.Volume))
	}
	n := decimal.NewFromInt(int64(len(records)))

	return &models.Statistics{
		Symbol:            symbol,
		StartDate:         startDate,
		EndDate:           endDate,
		AverageOpenPrice:  sumOpen.DivRound(n, 3),
		AverageClosePrice: sumClose.DivRound(n, 3),
		AverageVolume:     sumVolume.DivRound(n, 3),
	}, nil
}
