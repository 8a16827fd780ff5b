package ingestion

import (
	"testing"
	"time"
)

func TestIngestionWindow(t *testing.T) {
	cases := []struct {
		name      string
		today     string
		wantStart string
	}{
		// Two weeks before a Friday is a Friday; its Monday is 4 days earlier.
		{name: "friday", today: "2020-01-17", wantStart: "2019-12-30"},
		{name: "monday", today: "2020-01-20", wantStart: "2020-01-06"},
		// Two weeks before a Sunday lands on a Sunday; Monday of that week is 6 days back.
		{name: "sunday", today: "2020-01-19", wantStart: "2019-12-30"},
		{name: "wednesday", today: "2020-01-22", wantStart: "2020-01-06"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			today, err := time.Parse("2006-01-02", tc.today)
			if err != nil {
				t.Fatalf("parse today: %v", err)
			}

			start, end := IngestionWindow(today)

			if got := start.Format("2006-01-02"); got != tc.wantStart {
				t.Fatalf("start: want %s got %s", tc.wantStart, got)
			}
			if !end.Equal(today) {
				t.Fatalf("end: want %s got %s", today, end)
			}
			if start.Weekday() != time.Monday {
				t.Fatalf("start should be a Monday, got %s", start.Weekday())
			}
		})
	}
}

func TestIngestionWindow_DropsClock(t *testing.T) {
	today := time.Date(2020, 1, 17, 15, 42, 7, 123, time.UTC)

	start, end := IngestionWindow(today)

	if end.Hour() != 0 || end.Minute() != 0 || end.Second() != 0 || end.Nanosecond() != 0 {
		t.Fatalf("end keeps clock component: %s", end)
	}
	if start.Hour() != 0 {
		t.Fatalf("start keeps clock component: %s", start)
	}
}
