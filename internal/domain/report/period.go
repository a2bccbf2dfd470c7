// Package report holds read models and pure aggregation helpers for the
// product and financial reports.
package report

import (
	"time"

	"github.com/pdv/backend/internal/domain/shared"
)

// Period is a half-open time window [From, To)
type Period struct {
	From time.Time
	To   time.Time
}

// NewPeriod validates and builds a period
func NewPeriod(from, to time.Time) (Period, error) {
	if from.IsZero() || to.IsZero() {
		return Period{}, shared.NewDomainError("INVALID_PERIOD", "Both from and to are required")
	}
	if !to.After(from) {
		return Period{}, shared.NewDomainError("INVALID_PERIOD", "Period end must be after its start")
	}
	if to.Sub(from) > 3*366*24*time.Hour {
		return Period{}, shared.NewDomainError("INVALID_PERIOD", "Period cannot exceed three years")
	}
	return Period{From: from, To: to}, nil
}

// LastDays returns the period covering the last n whole days up to and including today
func LastDays(now time.Time, n int) Period {
	y, m, d := now.Date()
	end := time.Date(y, m, d, 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	return Period{From: end.AddDate(0, 0, -n), To: end}
}

// Duration returns the length of the period
func (p Period) Duration() time.Duration {
	return p.To.Sub(p.From)
}

// Previous returns the period of equal length that ends where p starts
func (p Period) Previous() Period {
	return Period{From: p.From.Add(-p.Duration()), To: p.From}
}

// Contains reports whether t falls in the period
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.From) && t.Before(p.To)
}

// Granularity is the bucket size of a time series
type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"
)

// IsValid reports whether g is a known granularity
func (g Granularity) IsValid() bool {
	return g == GranularityDay || g == GranularityWeek || g == GranularityMonth
}

// Truncate returns the start of the bucket containing t. Weeks start on Monday.
func (g Granularity) Truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	switch g {
	case GranularityMonth:
		return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
	case GranularityWeek:
		day := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	default:
		return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	}
}

// Next returns the start of the bucket after the one starting at t
func (g Granularity) Next(t time.Time) time.Time {
	switch g {
	case GranularityMonth:
		return t.AddDate(0, 1, 0)
	case GranularityWeek:
		return t.AddDate(0, 0, 7)
	default:
		return t.AddDate(0, 0, 1)
	}
}

// Buckets lists the bucket starts covering the period
func (g Granularity) Buckets(p Period) []time.Time {
	var out []time.Time
	for b := g.Truncate(p.From); b.Before(p.To); b = g.Next(b) {
		out = append(out, b)
	}
	return out
}
