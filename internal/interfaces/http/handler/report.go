package handler

import (
	"github.com/gin-gonic/gin"
	reportapp "github.com/pdv/backend/internal/application/report"
	"github.com/pdv/backend/internal/interfaces/http/middleware"
)

// ReportHandler handles sales and financial report endpoints. Periods are
// given as from/to calendar days and default to the last 30 days.
type ReportHandler struct {
	BaseHandler
	service *reportapp.Service
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(service *reportapp.Service) *ReportHandler {
	return &ReportHandler{service: service}
}

// ProductRanking godoc
// @ID           getProductRanking
// @Summary      Product ranking
// @Description  Products of completed sales ranked by revenue, quantity or profit
// @Tags         reports
// @Produce      json
// @Param        from    query string false "First day (YYYY-MM-DD)"
// @Param        to      query string false "Last day, inclusive (YYYY-MM-DD)"
// @Param        limit   query int    false "Number of products" default(10)
// @Param        orderBy query string false "Ranking key" Enums(revenue, quantity, profit)
// @Success      200 {object} APIResponse[reportapp.RankingResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reports/products/ranking [get]
func (h *ReportHandler) ProductRanking(c *gin.Context) {
	var q reportapp.RankingQuery
	if !middleware.BindQuery(c, &q) {
		return
	}

	ranking, err := h.service.ProductRanking(c.Request.Context(), q)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, ranking)
}

// ABCCurve godoc
// @ID           getABCCurve
// @Summary      ABC curve
// @Description  Products by revenue share, classified A, B or C by cumulative share thresholds
// @Tags         reports
// @Produce      json
// @Param        from query string false "First day (YYYY-MM-DD)"
// @Param        to   query string false "Last day, inclusive (YYYY-MM-DD)"
// @Param        a    query number false "Class A threshold in percent" default(80)
// @Param        b    query number false "Class B threshold in percent" default(95)
// @Success      200 {object} APIResponse[report.ABCCurve]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reports/products/abc [get]
func (h *ReportHandler) ABCCurve(c *gin.Context) {
	var q reportapp.ABCQuery
	if !middleware.BindQuery(c, &q) {
		return
	}

	curve, err := h.service.ABCCurve(c.Request.Context(), q)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, curve)
}

// TimeSeries godoc
// @ID           getSalesTimeSeries
// @Summary      Sales time series
// @Description  Revenue, quantity and sale count per bucket, zero filled
// @Tags         reports
// @Produce      json
// @Param        from        query string false "First day (YYYY-MM-DD)"
// @Param        to          query string false "Last day, inclusive (YYYY-MM-DD)"
// @Param        granularity query string false "Bucket size" Enums(day, week, month)
// @Param        productId   query string false "Restrict to one product" format(uuid)
// @Success      200 {object} APIResponse[reportapp.TimeSeriesResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reports/products/timeseries [get]
func (h *ReportHandler) TimeSeries(c *gin.Context) {
	var q reportapp.TimeSeriesQuery
	if !middleware.BindQuery(c, &q) {
		return
	}

	series, err := h.service.TimeSeries(c.Request.Context(), q)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, series)
}

// DRE godoc
// @ID           getDRE
// @Summary      Income statement (DRE)
// @Tags         financial-reports
// @Produce      json
// @Param        from query string false "First day (YYYY-MM-DD)"
// @Param        to   query string false "Last day, inclusive (YYYY-MM-DD)"
// @Success      200 {object} APIResponse[report.DRE]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /financial/reports/dre [get]
func (h *ReportHandler) DRE(c *gin.Context) {
	var q reportapp.PeriodQuery
	if !middleware.BindQuery(c, &q) {
		return
	}

	dre, err := h.service.DRE(c.Request.Context(), q)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, dre)
}

// CashFlow godoc
// @ID           getCashFlow
// @Summary      Cash flow
// @Description  Inflows and outflows per bucket with running balance
// @Tags         financial-reports
// @Produce      json
// @Param        from        query string false "First day (YYYY-MM-DD)"
// @Param        to          query string false "Last day, inclusive (YYYY-MM-DD)"
// @Param        granularity query string false "Bucket size" Enums(day, week, month)
// @Success      200 {object} APIResponse[report.CashFlow]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /financial/reports/cash-flow [get]
func (h *ReportHandler) CashFlow(c *gin.Context) {
	var q reportapp.CashFlowQuery
	if !middleware.BindQuery(c, &q) {
		return
	}

	flow, err := h.service.CashFlow(c.Request.Context(), q)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, flow)
}

// Comparative godoc
// @ID           getComparativeDRE
// @Summary      Comparative income statement
// @Description  DRE of the period against the preceding period of equal length
// @Tags         financial-reports
// @Produce      json
// @Param        from query string false "First day (YYYY-MM-DD)"
// @Param        to   query string false "Last day, inclusive (YYYY-MM-DD)"
// @Success      200 {object} APIResponse[report.Comparative]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /financial/reports/comparative [get]
func (h *ReportHandler) Comparative(c *gin.Context) {
	var q reportapp.PeriodQuery
	if !middleware.BindQuery(c, &q) {
		return
	}

	cmp, err := h.service.Comparative(c.Request.Context(), q)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, cmp)
}
