package ingestion

import "time"

// IngestionWindow computes the date range covered by one ingestion run.
//
// The window starts on the Monday of the week two weeks before today and
// ends on today (exclusive). This keeps roughly the last two to three
// weeks of daily records refreshed on every run, which is enough to pick
// up late corrections published by the upstream provider.
//
// Parameters:
//   - today: reference date; usually time.Now().
//
// Returns:
//   - start: Monday of the week two weeks back (inclusive).
//   - end: today truncated to midnight (exclusive).
func IngestionWindow(today time.Time) (start, end time.Time) {
	end = truncateToDate(today)

	twoWeeksAgo := end.AddDate(0, 0, -14)

	// time.Weekday starts on Sunday; shift so Monday is 0.
	offset := (int(twoWeeksAgo.Weekday()) + 6) % 7
	start = twoWeeksAgo.AddDate(0, 0, -offset)

	return start, end
}

// truncateToDate drops the clock component, keeping the location.
func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
