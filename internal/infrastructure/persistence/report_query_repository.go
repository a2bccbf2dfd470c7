package persistence

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/pdv/backend/internal/domain/finance"
	"github.com/pdv/backend/internal/domain/report"
	"github.com/pdv/backend/internal/domain/sales"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// UncategorizedLabel groups financial records saved without a category
const UncategorizedLabel = "Sem categoria"

// GormReportQueryRepository implements report.QueryRepository. Queries only
// select raw rows; sums and grouping happen in Go so that postgres and sqlite
// return identical decimals.
type GormReportQueryRepository struct {
	db *gorm.DB
}

var _ report.QueryRepository = (*GormReportQueryRepository)(nil)

// NewGormReportQueryRepository creates a new GormReportQueryRepository
func NewGormReportQueryRepository(db *gorm.DB) *GormReportQueryRepository {
	return &GormReportQueryRepository{db: db}
}

type saleItemRow struct {
	SaleID      uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	UnitCost    decimal.Decimal
	Discount    decimal.Decimal
	Total       decimal.Decimal
	CompletedAt time.Time
}

func (r *GormReportQueryRepository) completedItems(ctx context.Context, p report.Period, productID *uuid.UUID) ([]saleItemRow, error) {
	query := r.db.WithContext(ctx).
		Table("sale_items AS i").
		Select("i.sale_id, i.product_id, i.product_name, i.quantity, i.unit_price, i.unit_cost, i.discount, i.total, s.completed_at").
		Joins("JOIN sales AS s ON s.id = i.sale_id").
		Where("s.status = ? AND s.completed_at >= ? AND s.completed_at < ?", sales.StatusCompleted, p.From, p.To)
	if productID != nil {
		query = query.Where("i.product_id = ?", *productID)
	}
	var rows []saleItemRow
	if err := query.Order("s.completed_at ASC, i.position ASC").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ProductSales groups completed sale items by product. Revenue is net of item discounts.
func (r *GormReportQueryRepository) ProductSales(ctx context.Context, p report.Period, productID *uuid.UUID) ([]report.ProductSales, error) {
	rows, err := r.completedItems(ctx, p, productID)
	if err != nil {
		return nil, err
	}

	byProduct := make(map[uuid.UUID]*report.ProductSales)
	saleSeen := make(map[uuid.UUID]map[uuid.UUID]bool)
	order := make([]uuid.UUID, 0)
	for _, row := range rows {
		ps, ok := byProduct[row.ProductID]
		if !ok {
			ps = &report.ProductSales{ProductID: row.ProductID, ProductName: row.ProductName}
			byProduct[row.ProductID] = ps
			saleSeen[row.ProductID] = make(map[uuid.UUID]bool)
			order = append(order, row.ProductID)
		}
		// the latest name wins when a product was renamed
		ps.ProductName = row.ProductName
		ps.Quantity = ps.Quantity.Add(row.Quantity)
		ps.Revenue = ps.Revenue.Add(row.Total)
		ps.Cost = ps.Cost.Add(row.UnitCost.Mul(row.Quantity))
		if !saleSeen[row.ProductID][row.SaleID] {
			saleSeen[row.ProductID][row.SaleID] = true
			ps.SalesCount++
		}
	}

	result := make([]report.ProductSales, 0, len(order))
	for _, id := range order {
		ps := byProduct[id]
		ps.Profit = ps.Revenue.Sub(ps.Cost)
		result = append(result, *ps)
	}
	return result, nil
}

// SaleLines lists completed sale items in completion order
func (r *GormReportQueryRepository) SaleLines(ctx context.Context, p report.Period, productID *uuid.UUID) ([]report.SaleLine, error) {
	rows, err := r.completedItems(ctx, p, productID)
	if err != nil {
		return nil, err
	}
	lines := make([]report.SaleLine, len(rows))
	for i, row := range rows {
		lines[i] = report.SaleLine{
			SaleID:    row.SaleID,
			ProductID: row.ProductID,
			SoldAt:    row.CompletedAt,
			Quantity:  row.Quantity,
			Revenue:   row.Total,
		}
	}
	return lines, nil
}

type saleTotalsRow struct {
	ID          uuid.UUID
	Discount    decimal.Decimal
	Total       decimal.Decimal
	CompletedAt time.Time
}

func (r *GormReportQueryRepository) completedSales(ctx context.Context, p report.Period) ([]saleTotalsRow, error) {
	var rows []saleTotalsRow
	err := r.db.WithContext(ctx).
		Table("sales").
		Select("id, discount, total, completed_at").
		Where("status = ? AND completed_at >= ? AND completed_at < ?", sales.StatusCompleted, p.From, p.To).
		Scan(&rows).Error
	return rows, err
}

// SalesTotals sums the revenue lines of completed sales
func (r *GormReportQueryRepository) SalesTotals(ctx context.Context, p report.Period) (report.SalesTotals, error) {
	var totals report.SalesTotals

	items, err := r.completedItems(ctx, p, nil)
	if err != nil {
		return totals, err
	}
	for _, it := range items {
		totals.GrossRevenue = totals.GrossRevenue.Add(it.UnitPrice.Mul(it.Quantity))
		totals.ItemDiscounts = totals.ItemDiscounts.Add(it.Discount)
		totals.COGS = totals.COGS.Add(it.UnitCost.Mul(it.Quantity))
	}

	salesRows, err := r.completedSales(ctx, p)
	if err != nil {
		return totals, err
	}
	for _, s := range salesRows {
		totals.SaleDiscounts = totals.SaleDiscounts.Add(s.Discount)
	}
	totals.SalesCount = int64(len(salesRows))
	return totals, nil
}

type categoryRow struct {
	Category  string
	Amount    decimal.Decimal
	SettledAt time.Time
}

func (r *GormReportQueryRepository) settledTransactions(ctx context.Context, p report.Period, kind finance.TransactionType) ([]categoryRow, error) {
	status := finance.StatusPaid
	if kind == finance.TransactionIncome {
		status = finance.StatusReceived
	}
	var rows []categoryRow
	err := r.db.WithContext(ctx).
		Table("financial_transactions").
		Select("category, amount, settled_at").
		Where("type = ? AND status = ? AND settled_at >= ? AND settled_at < ?", kind, status, p.From, p.To).
		Scan(&rows).Error
	return rows, err
}

func (r *GormReportQueryRepository) settlements(ctx context.Context, p report.Period, table, parent, fk string) ([]categoryRow, error) {
	var rows []categoryRow
	err := r.db.WithContext(ctx).
		Table(table+" AS s").
		Select("t.category, s.amount, s.settled_at").
		Joins("JOIN "+parent+" AS t ON t.id = s."+fk).
		Where("s.settled_at >= ? AND s.settled_at < ?", p.From, p.To).
		Scan(&rows).Error
	return rows, err
}

// ExpensesByCategory sums paid expenses and payable payments
func (r *GormReportQueryRepository) ExpensesByCategory(ctx context.Context, p report.Period) ([]report.CategoryAmount, error) {
	expenses, err := r.settledTransactions(ctx, p, finance.TransactionExpense)
	if err != nil {
		return nil, err
	}
	payments, err := r.settlements(ctx, p, "payable_payments", "accounts_payable", "payable_id")
	if err != nil {
		return nil, err
	}
	return groupByCategory(expenses, payments), nil
}

// IncomeByCategory sums received income transactions and receivable receipts
func (r *GormReportQueryRepository) IncomeByCategory(ctx context.Context, p report.Period) ([]report.CategoryAmount, error) {
	incomes, err := r.settledTransactions(ctx, p, finance.TransactionIncome)
	if err != nil {
		return nil, err
	}
	receipts, err := r.settlements(ctx, p, "receivable_receipts", "accounts_receivable", "receivable_id")
	if err != nil {
		return nil, err
	}
	return groupByCategory(incomes, receipts), nil
}

// CashMovements lists every settled inflow and outflow of the period
func (r *GormReportQueryRepository) CashMovements(ctx context.Context, p report.Period) ([]report.CashMovement, error) {
	var movements []report.CashMovement

	salesRows, err := r.completedSales(ctx, p)
	if err != nil {
		return nil, err
	}
	for _, s := range salesRows {
		movements = append(movements, report.CashMovement{
			At: s.CompletedAt, Amount: s.Total, Direction: report.FlowIn, Source: "sale",
		})
	}

	sources := []struct {
		source    string
		direction report.FlowDirection
		load      func() ([]categoryRow, error)
	}{
		{"income", report.FlowIn, func() ([]categoryRow, error) {
			return r.settledTransactions(ctx, p, finance.TransactionIncome)
		}},
		{"receipt", report.FlowIn, func() ([]categoryRow, error) {
			return r.settlements(ctx, p, "receivable_receipts", "accounts_receivable", "receivable_id")
		}},
		{"expense", report.FlowOut, func() ([]categoryRow, error) {
			return r.settledTransactions(ctx, p, finance.TransactionExpense)
		}},
		{"payment", report.FlowOut, func() ([]categoryRow, error) {
			return r.settlements(ctx, p, "payable_payments", "accounts_payable", "payable_id")
		}},
	}
	for _, src := range sources {
		rows, err := src.load()
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			movements = append(movements, report.CashMovement{
				At: row.SettledAt, Amount: row.Amount, Direction: src.direction, Source: src.source,
			})
		}
	}

	sort.SliceStable(movements, func(i, j int) bool {
		return movements[i].At.Before(movements[j].At)
	})
	return movements, nil
}

func groupByCategory(sets ...[]categoryRow) []report.CategoryAmount {
	totals := make(map[string]decimal.Decimal)
	order := make([]string, 0)
	for _, rows := range sets {
		for _, row := range rows {
			category := row.Category
			if category == "" {
				category = UncategorizedLabel
			}
			if _, ok := totals[category]; !ok {
				order = append(order, category)
			}
			totals[category] = totals[category].Add(row.Amount)
		}
	}
	result := make([]report.CategoryAmount, len(order))
	for i, category := range order {
		result[i] = report.CategoryAmount{Category: category, Amount: totals[category]}
	}
	return result
}
