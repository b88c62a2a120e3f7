// Package timeseries aggregates dated workout and nutrition events into
// daily series and derived statistics.
package timeseries

import (
	"sort"
	"time"

	"fitpro/tracker/internal/domain"
)

// AllTime disables window filtering.
const AllTime = -1

// Dated is any event carrying a YYYY-MM-DD date.
type Dated interface {
	EventDate() string
}

// FilterByWindow keeps entries dated on or after today-days. Dates compare
// as YYYY-MM-DD strings. days < 0 (AllTime) returns entries unfiltered.
func FilterByWindow[T Dated](entries []T, days int, today time.Time) []T {
	if days < 0 {
		return entries
	}
	cutoff := domain.FormatDate(today.AddDate(0, 0, -days))
	out := make([]T, 0, len(entries))
	for _, e := range entries {
		if e.EventDate() >= cutoff {
			out = append(out, e)
		}
	}
	return out
}

// SortByDate sorts entries by date, keeping insertion order within a day.
func SortByDate[T Dated](entries []T) []T {
	out := make([]T, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].EventDate() < out[j].EventDate()
	})
	return out
}

// DateRange lists every calendar date from start to end inclusive.
// It returns nil if either date is malformed or end precedes start.
func DateRange(start, end string) []string {
	s, err := domain.ParseDate(start)
	if err != nil {
		return nil
	}
	e, err := domain.ParseDate(end)
	if err != nil {
		return nil
	}
	var out []string
	for d := s; !d.After(e); d = d.AddDate(0, 0, 1) {
		out = append(out, domain.FormatDate(d))
	}
	return out
}
