package persistence

import (
	"strings"

	"github.com/pdv/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// sortColumns whitelists the columns a listing may be ordered by. The first
// entry is used when the request names none or an unknown one.
type sortColumns []string

var (
	userSort        = sortColumns{"created_at", "updated_at", "email", "full_name", "role", "last_login_at"}
	productSort     = sortColumns{"name", "created_at", "updated_at", "sku", "category", "price"}
	saleSort        = sortColumns{"created_at", "number", "total", "status"}
	transactionSort = sortColumns{"due_date", "created_at", "amount", "status", "category"}
	titleSort       = sortColumns{"due_date", "created_at", "total_amount", "settled_amount", "status", "category"}
	auditLogSort    = sortColumns{"created_at", "action", "entity_type"}
)

// column returns field when whitelisted and the default column otherwise
func (s sortColumns) column(field string) string {
	field = strings.TrimSpace(field)
	for _, c := range s {
		if c == field {
			return c
		}
	}
	return s[0]
}

// orderBy orders by the requested column and then by id, so rows sharing a
// value keep the same position from one page to the next
func (s sortColumns) orderBy(field, dir string) clause.OrderBy {
	desc := !strings.EqualFold(strings.TrimSpace(dir), "asc")
	return clause.OrderBy{Columns: []clause.OrderByColumn{
		{Column: clause.Column{Name: s.column(field)}, Desc: desc},
		{Column: clause.Column{Name: "id"}, Desc: desc},
	}}
}

// paginate applies whitelisted ordering and the page window
func paginate(query *gorm.DB, filter shared.Filter, columns sortColumns) *gorm.DB {
	filter.Normalize()
	return query.
		Order(columns.orderBy(filter.OrderBy, filter.OrderDir)).
		Offset(filter.Offset()).
		Limit(filter.PageSize)
}

// likePattern escapes LIKE wildcards and wraps the term for a contains match
func likePattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + strings.ToLower(r.Replace(strings.TrimSpace(term))) + "%"
}
