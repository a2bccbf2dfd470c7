package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pdv/backend/internal/domain/finance"
	"github.com/pdv/backend/internal/domain/report"
	"github.com/pdv/backend/internal/domain/sales"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type reportFixture struct {
	db      *gorm.DB
	period  report.Period
	coffee  uuid.UUID
	sugar   uuid.UUID
	cashier uuid.UUID
}

func (f *reportFixture) sale(t *testing.T, at time.Time, discount string, lines ...sales.Item) *sales.Sale {
	t.Helper()
	s, err := sales.NewSale(f.cashier, lines, dec(discount), sales.PaymentPix, dec("0"))
	require.NoError(t, err)
	s.CompletedAt = &at
	require.NoError(t, NewGormSaleRepository(f.db).Create(context.Background(), s))
	return s
}

func (f *reportFixture) item(t *testing.T, product uuid.UUID, name, qty, price, cost, discount string) sales.Item {
	t.Helper()
	it, err := sales.NewItem(product, name, dec(qty), dec(price), dec(cost), dec(discount))
	require.NoError(t, err)
	return it
}

func setupReportFixture(t *testing.T) *reportFixture {
	f := &reportFixture{
		db:      setupTestDB(t),
		period:  report.Period{From: utcDate(2024, time.March, 1), To: utcDate(2024, time.April, 1)},
		coffee:  uuid.New(),
		sugar:   uuid.New(),
		cashier: uuid.New(),
	}

	inside := time.Date(2024, time.March, 10, 14, 0, 0, 0, time.UTC)
	// 2 x 10.00 - 1.00 item discount, 1 x 5.00; sale discount 2.00
	f.sale(t, inside, "2",
		f.item(t, f.coffee, "Café", "2", "10", "6", "1"),
		f.item(t, f.sugar, "Açúcar", "1", "5", "3", "0"),
	)
	f.sale(t, inside.Add(48*time.Hour), "0", f.item(t, f.coffee, "Café", "1", "10", "6", "0"))

	cancelled := f.sale(t, inside, "0", f.item(t, f.coffee, "Café", "5", "10", "6", "0"))
	require.NoError(t, cancelled.Cancel(uuid.New(), "teste"))
	require.NoError(t, NewGormSaleRepository(f.db).UpdateStatus(context.Background(), cancelled))

	f.sale(t, utcDate(2024, time.April, 2), "0", f.item(t, f.sugar, "Açúcar", "9", "5", "3", "0"))
	return f
}

func TestGormReportQueryRepository_ProductSales(t *testing.T) {
	f := setupReportFixture(t)
	repo := NewGormReportQueryRepository(f.db)

	rows, err := repo.ProductSales(context.Background(), f.period, nil)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byID := map[uuid.UUID]report.ProductSales{}
	for _, r := range rows {
		byID[r.ProductID] = r
	}
	coffee := byID[f.coffee]
	assert.True(t, dec("3").Equal(coffee.Quantity))
	assert.True(t, dec("29").Equal(coffee.Revenue), "revenue is net of item discounts: %s", coffee.Revenue)
	assert.True(t, dec("18").Equal(coffee.Cost))
	assert.True(t, dec("11").Equal(coffee.Profit))
	assert.Equal(t, int64(2), coffee.SalesCount)

	only, err := repo.ProductSales(context.Background(), f.period, &f.sugar)
	require.NoError(t, err)
	require.Len(t, only, 1)
	assert.True(t, dec("1").Equal(only[0].Quantity))
}

func TestGormReportQueryRepository_SaleLinesAndTotals(t *testing.T) {
	f := setupReportFixture(t)
	repo := NewGormReportQueryRepository(f.db)
	ctx := context.Background()

	lines, err := repo.SaleLines(ctx, f.period, &f.coffee)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.True(t, lines[0].SoldAt.Before(lines[1].SoldAt))

	totals, err := repo.SalesTotals(ctx, f.period)
	require.NoError(t, err)
	assert.Equal(t, int64(2), totals.SalesCount)
	assert.True(t, dec("35").Equal(totals.GrossRevenue), "gross %s", totals.GrossRevenue)
	assert.True(t, dec("1").Equal(totals.ItemDiscounts))
	assert.True(t, dec("2").Equal(totals.SaleDiscounts))
	assert.True(t, dec("21").Equal(totals.COGS))
}

func TestGormReportQueryRepository_FinanceAggregates(t *testing.T) {
	f := setupReportFixture(t)
	repo := NewGormReportQueryRepository(f.db)
	ctx := context.Background()
	paidAt := time.Date(2024, time.March, 15, 9, 0, 0, 0, time.UTC)

	txRepo := NewGormFinancialTransactionRepository(f.db)
	rent := newTestTransaction(t, finance.TransactionExpense, "1200", utcDate(2024, time.March, 5))
	require.NoError(t, rent.Settle(finance.MethodBankTransfer, paidAt))
	require.NoError(t, txRepo.Create(ctx, rent))
	openExpense := newTestTransaction(t, finance.TransactionExpense, "999", utcDate(2024, time.March, 5))
	require.NoError(t, txRepo.Create(ctx, openExpense))

	apRepo := NewGormAccountPayableRepository(f.db)
	ap, err := finance.NewAccountPayable(newTestTitleInput("Atacadão", "500", utcDate(2024, time.March, 20)), uuid.New())
	require.NoError(t, err)
	_, err = ap.RecordPayment(finance.SettlementInput{Amount: dec("300"), Method: finance.MethodPix, SettledAt: paidAt, RecordedBy: uuid.New()})
	require.NoError(t, err)
	require.NoError(t, apRepo.Create(ctx, ap))

	arRepo := NewGormAccountReceivableRepository(f.db)
	ar, err := finance.NewAccountReceivable(finance.TitleInput{
		Counterparty: "Cliente", Description: "Venda a prazo", TotalAmount: dec("80"), DueDate: utcDate(2024, time.March, 25),
	}, uuid.New())
	require.NoError(t, err)
	_, err = ar.RecordReceipt(finance.SettlementInput{Amount: dec("80"), Method: finance.MethodCash, SettledAt: paidAt, RecordedBy: uuid.New()})
	require.NoError(t, err)
	require.NoError(t, arRepo.Create(ctx, ar))

	expenses, err := repo.ExpensesByCategory(ctx, f.period)
	require.NoError(t, err)
	amounts := map[string]string{}
	for _, e := range expenses {
		amounts[e.Category] = e.Amount.String()
	}
	assert.Equal(t, map[string]string{"Aluguel": "1200", "Fornecedores": "300"}, amounts)

	incomes, err := repo.IncomeByCategory(ctx, f.period)
	require.NoError(t, err)
	require.Len(t, incomes, 1)
	assert.Equal(t, UncategorizedLabel, incomes[0].Category)
	assert.True(t, dec("80").Equal(incomes[0].Amount))

	movements, err := repo.CashMovements(ctx, f.period)
	require.NoError(t, err)
	// two sales, one receipt, one expense, one payment
	require.Len(t, movements, 5)
	for i := 1; i < len(movements); i++ {
		assert.False(t, movements[i].At.Before(movements[i-1].At))
	}
	var in, out int
	for _, m := range movements {
		if m.Direction == report.FlowIn {
			in++
		} else {
			out++
		}
	}
	assert.Equal(t, 3, in)
	assert.Equal(t, 2, out)
}
