package persistence

import (
	"time"

	"github.com/pdv/backend/internal/domain/finance"
	"gorm.io/gorm"
)

// openStatuses are the finance statuses that can still become overdue
var openStatuses = []finance.Status{finance.StatusOpen, finance.StatusPartial}

// whereOverdue keeps rows due before today that are not settled or cancelled
func whereOverdue(query *gorm.DB, now time.Time) *gorm.DB {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return query.Where("due_date < ? AND status IN ?", today, openStatuses)
}

// applyTitleFilter applies the filters shared by payables and receivables.
// counterparty is the column holding the supplier or customer name.
func applyTitleFilter(query *gorm.DB, filter finance.TitleFilter, counterparty string) *gorm.DB {
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where(
			"(LOWER("+counterparty+`) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\' OR LOWER(document) LIKE ? ESCAPE '\')`,
			pattern, pattern, pattern)
	}
	if filter.Overdue {
		query = whereOverdue(query, time.Now().UTC())
	}
	return whereDateRange(query, "due_date", filter.DateRange)
}
