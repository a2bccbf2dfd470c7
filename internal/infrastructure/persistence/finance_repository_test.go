package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pdv/backend/internal/domain/finance"
	"github.com/pdv/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTransaction(t *testing.T, kind finance.TransactionType, amount string, due time.Time) *finance.FinancialTransaction {
	t.Helper()
	tx, err := finance.NewFinancialTransaction(finance.TransactionInput{
		Type:        kind,
		Category:    "Aluguel",
		Description: "Aluguel da loja",
		Amount:      dec(amount),
		DueDate:     due,
	}, uuid.New())
	require.NoError(t, err)
	return tx
}

func newTestTitleInput(counterparty, total string, due time.Time) finance.TitleInput {
	return finance.TitleInput{
		Counterparty: counterparty,
		Document:     "NF-123",
		Description:  "Compra de mercadorias",
		Category:     "Fornecedores",
		TotalAmount:  dec(total),
		DueDate:      due,
	}
}

func TestGormFinancialTransactionRepository(t *testing.T) {
	repo := NewGormFinancialTransactionRepository(setupTestDB(t))
	ctx := context.Background()

	past := utcDate(2020, time.January, 10)
	future := time.Now().UTC().AddDate(0, 1, 0)

	overdue := newTestTransaction(t, finance.TransactionExpense, "1500", past)
	upcoming := newTestTransaction(t, finance.TransactionExpense, "300", future)
	income := newTestTransaction(t, finance.TransactionIncome, "80", past)
	for _, tx := range []*finance.FinancialTransaction{overdue, upcoming, income} {
		require.NoError(t, repo.Create(ctx, tx))
	}

	require.NoError(t, income.Settle(finance.MethodPix, time.Now().UTC()))
	require.NoError(t, repo.Update(ctx, income))

	t.Run("settle is persisted", func(t *testing.T) {
		found, err := repo.FindByID(ctx, income.ID)
		require.NoError(t, err)
		assert.Equal(t, finance.StatusReceived, found.Status)
		assert.Equal(t, finance.MethodPix, found.Method)
		assert.NotNil(t, found.SettledAt)
	})

	t.Run("overdue only returns open records past due", func(t *testing.T) {
		list, total, err := repo.FindAll(ctx, finance.TransactionFilter{Filter: shared.DefaultFilter(), Overdue: true})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, overdue.ID, list[0].ID)
	})

	t.Run("filters by type", func(t *testing.T) {
		kind := finance.TransactionExpense
		_, total, err := repo.FindAll(ctx, finance.TransactionFilter{Filter: shared.DefaultFilter(), Type: &kind})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
	})

	t.Run("date range applies to due date", func(t *testing.T) {
		from := utcDate(2020, time.January, 1)
		to := utcDate(2020, time.February, 1)
		_, total, err := repo.FindAll(ctx, finance.TransactionFilter{
			Filter:    shared.DefaultFilter(),
			DateRange: shared.DateRange{From: &from, To: &to},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
	})

	t.Run("missing transaction", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormAccountPayableRepository_PaymentsAreAppended(t *testing.T) {
	repo := NewGormAccountPayableRepository(setupTestDB(t))
	ctx := context.Background()

	ap, err := finance.NewAccountPayable(newTestTitleInput("Distribuidora Sul", "1000", utcDate(2030, time.March, 5)), uuid.New())
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, ap))

	_, err = ap.RecordPayment(finance.SettlementInput{Amount: dec("400"), Method: finance.MethodBoleto, RecordedBy: uuid.New()})
	require.NoError(t, err)
	require.NoError(t, repo.Update(ctx, ap))

	_, err = ap.RecordPayment(finance.SettlementInput{Amount: dec("600"), Method: finance.MethodPix, RecordedBy: uuid.New()})
	require.NoError(t, err)
	require.NoError(t, repo.Update(ctx, ap))

	found, err := repo.FindByID(ctx, ap.ID)
	require.NoError(t, err)
	assert.Equal(t, finance.StatusPaid, found.Status)
	assert.Equal(t, "Distribuidora Sul", found.Counterparty)
	require.Len(t, found.Settlements, 2)
	assert.True(t, dec("1000").Equal(found.SettledAmount))
	assert.True(t, found.Outstanding().IsZero())

	ghost, err := finance.NewAccountPayable(newTestTitleInput("Ninguém", "10", utcDate(2030, time.March, 5)), uuid.New())
	require.NoError(t, err)
	assert.ErrorIs(t, repo.Update(ctx, ghost), shared.ErrNotFound)
}

func TestGormAccountPayableRepository_FindAll(t *testing.T) {
	repo := NewGormAccountPayableRepository(setupTestDB(t))
	ctx := context.Background()

	late, err := finance.NewAccountPayable(newTestTitleInput("Atacadão", "250", utcDate(2021, time.May, 1)), uuid.New())
	require.NoError(t, err)
	onTime, err := finance.NewAccountPayable(newTestTitleInput("Padaria Central", "90", time.Now().UTC().AddDate(0, 0, 10)), uuid.New())
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, late))
	require.NoError(t, repo.Create(ctx, onTime))

	list, total, err := repo.FindAll(ctx, finance.TitleFilter{Filter: shared.DefaultFilter(), Overdue: true})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, late.ID, list[0].ID)

	filter := shared.DefaultFilter()
	filter.Search = "padaria"
	list, total, err = repo.FindAll(ctx, finance.TitleFilter{Filter: filter})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, onTime.ID, list[0].ID)
}

func TestGormAccountReceivableRepository(t *testing.T) {
	repo := NewGormAccountReceivableRepository(setupTestDB(t))
	ctx := context.Background()

	ar, err := finance.NewAccountReceivable(newTestTitleInput("Cliente Fiado", "300", utcDate(2030, time.June, 1)), uuid.New())
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, ar))

	_, err = ar.RecordReceipt(finance.SettlementInput{Amount: dec("100"), Method: finance.MethodCash, RecordedBy: uuid.New()})
	require.NoError(t, err)
	require.NoError(t, repo.Update(ctx, ar))

	found, err := repo.FindByID(ctx, ar.ID)
	require.NoError(t, err)
	assert.Equal(t, finance.StatusPartial, found.Status)
	require.Len(t, found.Settlements, 1)
	assert.True(t, dec("200").Equal(found.Outstanding()))

	status := finance.StatusPartial
	list, total, err := repo.FindAll(ctx, finance.TitleFilter{Filter: shared.DefaultFilter(), Status: &status})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, list[0].Settlements, 1)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
