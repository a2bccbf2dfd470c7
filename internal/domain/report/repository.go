package report

import (
	"context"

	"github.com/google/uuid"
)

// QueryRepository runs the read-side aggregations behind the reports.
// Only completed sales and settled financial records are counted.
type QueryRepository interface {
	// ProductSales groups completed sale items by product. productID narrows to one product.
	ProductSales(ctx context.Context, p Period, productID *uuid.UUID) ([]ProductSales, error)

	// SaleLines lists the completed sale items of the period
	SaleLines(ctx context.Context, p Period, productID *uuid.UUID) ([]SaleLine, error)

	SalesTotals(ctx context.Context, p Period) (SalesTotals, error)

	// ExpensesByCategory sums paid expenses and payable payments
	ExpensesByCategory(ctx context.Context, p Period) ([]CategoryAmount, error)

	// IncomeByCategory sums received income transactions and receivable receipts
	IncomeByCategory(ctx context.Context, p Period) ([]CategoryAmount, error)

	CashMovements(ctx context.Context, p Period) ([]CashMovement, error)
}
