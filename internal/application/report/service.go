// Package report serves the product and financial reports.
package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pdv/backend/internal/domain/report"
	"github.com/pdv/backend/internal/domain/shared"
	"github.com/pdv/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultPeriodDays is the window used when from and to are omitted
	DefaultPeriodDays = 30
	DefaultRankLimit  = 10
)

var (
	defaultThresholdA = decimal.NewFromInt(80)
	defaultThresholdB = decimal.NewFromInt(95)
)

// Service computes report read models
type Service struct {
	repo   report.QueryRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates a new report Service
func NewService(repo report.QueryRepository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// Period resolves the query dates into a half-open period. The to day is
// included; a missing bound falls back to the last DefaultPeriodDays days.
func (s *Service) Period(q PeriodQuery) (report.Period, error) {
	switch {
	case q.From == nil && q.To == nil:
		now := s.now().UTC()
		return report.LastDays(now, DefaultPeriodDays), nil
	case q.To == nil:
		now := s.now().UTC()
		end := report.LastDays(now, 1).To
		return report.NewPeriod(*q.From, end)
	case q.From == nil:
		end := q.To.AddDate(0, 0, 1)
		return report.NewPeriod(end.AddDate(0, 0, -DefaultPeriodDays), end)
	default:
		return report.NewPeriod(*q.From, q.To.AddDate(0, 0, 1))
	}
}

// ProductRanking ranks the products sold in the period
func (s *Service) ProductRanking(ctx context.Context, q RankingQuery) (*RankingResponse, error) {
	p, err := s.Period(q.PeriodQuery)
	if err != nil {
		return nil, err
	}
	order := report.RankingOrder(q.OrderBy)
	if order == "" {
		order = report.RankByRevenue
	}
	if !order.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "orderBy must be revenue, quantity or profit")
	}
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultRankLimit
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "report", "product_ranking")
	defer span.End()

	rows, err := s.repo.ProductSales(ctx, p, nil)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return &RankingResponse{
		From:    p.From,
		To:      p.To,
		OrderBy: order,
		Items:   report.RankProducts(rows, order, limit),
	}, nil
}

// ABCCurve classifies the products sold in the period
func (s *Service) ABCCurve(ctx context.Context, q ABCQuery) (*report.ABCCurve, error) {
	p, err := s.Period(q.PeriodQuery)
	if err != nil {
		return nil, err
	}
	a, b := defaultThresholdA, defaultThresholdB
	if q.A != nil {
		a = decimal.NewFromFloat(*q.A)
	}
	if q.B != nil {
		b = decimal.NewFromFloat(*q.B)
	}
	if !a.IsPositive() || !a.LessThan(b) || b.GreaterThan(decimal.NewFromInt(100)) {
		return nil, shared.NewDomainError("INVALID_INPUT", "Thresholds must satisfy 0 < a < b <= 100")
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "report", "abc_curve")
	defer span.End()

	rows, err := s.repo.ProductSales(ctx, p, nil)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	curve := report.ClassifyABC(rows, a, b)
	return &curve, nil
}

// TimeSeries buckets the sales of the period, optionally for a single product
func (s *Service) TimeSeries(ctx context.Context, q TimeSeriesQuery) (*TimeSeriesResponse, error) {
	p, err := s.Period(q.PeriodQuery)
	if err != nil {
		return nil, err
	}
	g, err := parseGranularity(q.Granularity)
	if err != nil {
		return nil, err
	}
	var productID *uuid.UUID
	if q.ProductID != "" {
		id, err := uuid.Parse(q.ProductID)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_INPUT", "productId must be a UUID")
		}
		productID = &id
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "report", "time_series", "granularity", string(g))
	defer span.End()

	lines, err := s.repo.SaleLines(ctx, p, productID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	points := report.BuildTimeSeries(p, g, lines)
	total := decimal.Zero
	for _, pt := range points {
		total = total.Add(pt.Revenue)
	}
	return &TimeSeriesResponse{
		From:         p.From,
		To:           p.To,
		Granularity:  g,
		ProductID:    q.ProductID,
		TotalRevenue: total,
		Points:       points,
	}, nil
}

// DRE builds the income statement of the period
func (s *Service) DRE(ctx context.Context, q PeriodQuery) (*report.DRE, error) {
	p, err := s.Period(q)
	if err != nil {
		return nil, err
	}
	ctx, span := telemetry.StartServiceSpan(ctx, "report", "dre")
	defer span.End()

	dre, err := s.buildDRE(ctx, p)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return &dre, nil
}

// Comparative lines up the DRE of the period with the preceding period of equal length
func (s *Service) Comparative(ctx context.Context, q PeriodQuery) (*report.Comparative, error) {
	p, err := s.Period(q)
	if err != nil {
		return nil, err
	}
	ctx, span := telemetry.StartServiceSpan(ctx, "report", "comparative")
	defer span.End()

	var current, previous report.DRE
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		current, err = s.buildDRE(gctx, p)
		return err
	})
	g.Go(func() error {
		var err error
		previous, err = s.buildDRE(gctx, p.Previous())
		return err
	})
	if err := g.Wait(); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	cmp := report.BuildComparative(current, previous)
	return &cmp, nil
}

// CashFlow buckets the realized inflows and outflows of the period
func (s *Service) CashFlow(ctx context.Context, q CashFlowQuery) (*report.CashFlow, error) {
	p, err := s.Period(q.PeriodQuery)
	if err != nil {
		return nil, err
	}
	g, err := parseGranularity(q.Granularity)
	if err != nil {
		return nil, err
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "report", "cash_flow", "granularity", string(g))
	defer span.End()

	movements, err := s.repo.CashMovements(ctx, p)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	cf := report.BuildCashFlow(p, g, movements)
	return &cf, nil
}

// buildDRE runs the three DRE queries concurrently
func (s *Service) buildDRE(ctx context.Context, p report.Period) (report.DRE, error) {
	var (
		totals   report.SalesTotals
		expenses []report.CategoryAmount
		incomes  []report.CategoryAmount
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		totals, err = s.repo.SalesTotals(gctx, p)
		return err
	})
	g.Go(func() error {
		var err error
		expenses, err = s.repo.ExpensesByCategory(gctx, p)
		return err
	})
	g.Go(func() error {
		var err error
		incomes, err = s.repo.IncomeByCategory(gctx, p)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("DRE query failed",
			zap.Time("from", p.From),
			zap.Time("to", p.To),
			zap.Error(err))
		return report.DRE{}, err
	}
	return report.BuildDRE(p, totals, expenses, incomes), nil
}

func parseGranularity(s string) (report.Granularity, error) {
	if s == "" {
		return report.GranularityDay, nil
	}
	g := report.Granularity(s)
	if !g.IsValid() {
		return "", shared.NewDomainError("INVALID_INPUT", "granularity must be day, week or month")
	}
	return g, nil
}
