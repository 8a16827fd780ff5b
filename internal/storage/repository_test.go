package storage

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"

	"github.com/guttosm/findata/internal/domain/models"
)

func newMockRepo(t *testing.T) (*financialRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	repo := &financialRepository{db: db}
	cleanup := func() { _ = db.Close() }
	return repo, mock, cleanup
}

func testRecord(date time.Time) models.FinancialData {
	return models.FinancialData{
		Symbol:     "IBM",
		Date:       date,
		OpenPrice:  decimal.RequireFromString("3.14"),
		ClosePrice: decimal.RequireFromString("3.18"),
		Volume:     1500,
	}
}

func TestWhereClause(t *testing.T) {
	day := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2020, 1, 31, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name      string
		filter    Filter
		wantSQL   string
		wantCount int
	}{
		{name: "empty filter", filter: Filter{}, wantSQL: "TRUE", wantCount: 0},
		{
			name:      "symbol only",
			filter:    Filter{Symbol: "IBM"},
			wantSQL:   "TRUE AND symbol = $1",
			wantCount: 1,
		},
		{
			name:      "symbol and start",
			filter:    Filter{Symbol: "IBM", StartDate: &day},
			wantSQL:   "TRUE AND symbol = $1 AND date >= $2",
			wantCount: 2,
		},
		{
			name:      "full range",
			filter:    Filter{Symbol: "IBM", StartDate: &day, EndDate: &day2},
			wantSQL:   "TRUE AND symbol = $1 AND date >= $2 AND date <= $3",
			wantCount: 3,
		},
		{
			name:      "dates without symbol",
			filter:    Filter{StartDate: &day, EndDate: &day2},
			wantSQL:   "TRUE AND date >= $1 AND date <= $2",
			wantCount: 2,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gotSQL, gotArgs := whereClause(tc.filter)
			if gotSQL != tc.wantSQL {
				t.Fatalf("sql: want %q got %q", tc.wantSQL, gotSQL)
			}
			if len(gotArgs) != tc.wantCount {
				t.Fatalf("args: want %d got %d", tc.wantCount, len(gotArgs))
			}
		})
	}
}

func TestCountRecords_SQLMock(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM financial_data WHERE TRUE AND symbol = $1")).
		WithArgs("IBM").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	count, err := repo.CountRecords(context.Background(), Filter{Symbol: "IBM"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 4 {
		t.Fatalf("want 4 got %d", count)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestListRecords_SQLMock(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	day := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)

	// Ordering by date is part of the pagination contract.
	queryRegex := `SELECT\s+symbol, date, open_price, close_price, volume\s+FROM financial_data\s+WHERE TRUE AND symbol = \$1\s+ORDER BY date ASC\s+LIMIT \$2 OFFSET \$3`

	rows := sqlmock.NewRows([]string{"symbol", "date", "open_price", "close_price", "volume"}).
		AddRow("IBM", day, "3.14", "3.18", int64(1500)).
		AddRow("IBM", day2, "3.15", "3.19", int64(1600))

	mock.ExpectQuery(queryRegex).
		WithArgs("IBM", 2, 0).
		WillReturnRows(rows)

	out, err := repo.ListRecords(context.Background(), Filter{Symbol: "IBM"}, 0, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("want 2 rows got %d", len(out))
	}
	if out[0].Symbol != "IBM" || !out[0].Date.Equal(day) {
		t.Fatalf("unexpected first row: %+v", out[0])
	}
	if out[0].OpenPrice.String() != "3.14" || out[1].Volume != 1600 {
		t.Fatalf("unexpected row values: %+v", out)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestFetchRecords_SQLMock(t *testing.T) {
	repo, mock, done := newMockRepo(t)
	defer done()

	day := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2020, 1, 31, 0, 0, 0, 0, time.UTC)

	queryRegex := `SELECT\s+symbol, date, open_price, close_price, volume\s+FROM financial_data\s+WHERE TRUE AND symbol = \$1 AND date >= \$2 AND date <= \$3`

	mock.ExpectQuery(queryRegex).
		WithArgs("IBM", day, day2).
		WillReturnRows(sqlmock.NewRows([]string{"symbol", "date", "open_price", "close_price", "volume"}).
			AddRow("IBM", day, "3.14", "3.18", int64(1500)))

	out, err := repo.FetchRecords(context.Background(), Filter{Symbol: "IBM", StartDate: &day, EndDate: &day2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("want 1 row got %d", len(out))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpsertDailyRecords_SQLMock(t *testing.T) {
	day := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	upsertRegex := `INSERT INTO financial_data \(symbol, date, open_price, close_price, volume\)\s+VALUES \(\$1, \$2, \$3, \$4, \$5\)\s+ON CONFLICT \(symbol, date\)\s+DO UPDATE SET open_price = EXCLUDED\.open_price`

	t.Run("commit on success", func(t *testing.T) {
		repo, mock, done := newMockRepo(t)
		defer done()

		mock.ExpectBegin()
		mock.ExpectPrepare(upsertRegex)
		mock.ExpectExec(upsertRegex).
			WithArgs("IBM", day, sqlmock.AnyArg(), sqlmock.AnyArg(), int64(1500)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		if err := repo.UpsertDailyRecords(context.Background(), []models.FinancialData{testRecord(day)}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("unmet expectations: %v", err)
		}
	})

	t.Run("rollback on exec failure", func(t *testing.T) {
		repo, mock, done := newMockRepo(t)
		defer done()

		mock.ExpectBegin()
		mock.ExpectPrepare(upsertRegex)
		mock.ExpectExec(upsertRegex).
			WithArgs("IBM", day, sqlmock.AnyArg(), sqlmock.AnyArg(), int64(1500)).
			WillReturnError(errDummy{})
		mock.ExpectRollback()

		if err := repo.UpsertDailyRecords(context.Background(), []models.FinancialData{testRecord(day)}); err == nil {
			t.Fatalf("expected error")
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("unmet expectations: %v", err)
		}
	})

	t.Run("empty batch is a no-op", func(t *testing.T) {
		repo, mock, done := newMockRepo(t)
		defer done()

		if err := repo.UpsertDailyRecords(context.Background(), nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("unmet expectations: %v", err)
		}
	})
}

type errDummy struct{}

func (errDummy) Error() string { return "dummy" }

func TestNewFinancialRepository_Construct(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer func() { _ = db.Close() }()
	r := NewFinancialRepository(db)
	if r == nil {
		t.Fatalf("expected repository instance")
	}
}
