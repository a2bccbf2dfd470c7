package report

import (
	"time"

	"github.com/pdv/backend/internal/domain/report"
	"github.com/shopspring/decimal"
)

// PeriodQuery holds the from/to query parameters shared by every report.
// Both dates are inclusive calendar days.
type PeriodQuery struct {
	From *time.Time `form:"from" time_format:"2006-01-02" time_utc:"1"`
	To   *time.Time `form:"to" time_format:"2006-01-02" time_utc:"1"`
}

// RankingQuery holds the query parameters of GET /reports/products/ranking
type RankingQuery struct {
	PeriodQuery
	Limit   int    `form:"limit" binding:"omitempty,min=1,max=100"`
	OrderBy string `form:"orderBy" binding:"omitempty,oneof=revenue quantity profit"`
}

// ABCQuery holds the query parameters of GET /reports/products/abc
type ABCQuery struct {
	PeriodQuery
	A *float64 `form:"a" binding:"omitempty,gt=0,lt=100"`
	B *float64 `form:"b" binding:"omitempty,gt=0,lte=100"`
}

// TimeSeriesQuery holds the query parameters of GET /reports/products/timeseries
type TimeSeriesQuery struct {
	PeriodQuery
	Granularity string `form:"granularity" binding:"omitempty,oneof=day week month"`
	ProductID   string `form:"productId" binding:"omitempty,uuid"`
}

// CashFlowQuery holds the query parameters of GET /financial/reports/cash-flow
type CashFlowQuery struct {
	PeriodQuery
	Granularity string `form:"granularity" binding:"omitempty,oneof=day week month"`
}

// RankingResponse is the product ranking of a period
type RankingResponse struct {
	From    time.Time              `json:"from"`
	To      time.Time              `json:"to"`
	OrderBy report.RankingOrder    `json:"orderBy"`
	Items   []report.RankedProduct `json:"items"`
}

// TimeSeriesResponse is the bucketed sales series of a period
type TimeSeriesResponse struct {
	From         time.Time                `json:"from"`
	To           time.Time                `json:"to"`
	Granularity  report.Granularity       `json:"granularity"`
	ProductID    string                   `json:"productId,omitempty"`
	TotalRevenue decimal.Decimal          `json:"totalRevenue"`
	Points       []report.TimeSeriesPoint `json:"points"`
}
