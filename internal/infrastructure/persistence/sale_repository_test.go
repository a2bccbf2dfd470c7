package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pdv/backend/internal/domain/sales"
	"github.com/pdv/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSale(t *testing.T, cashierID uuid.UUID, lines ...sales.Item) *sales.Sale {
	t.Helper()
	if len(lines) == 0 {
		item, err := sales.NewItem(uuid.New(), "Café 500g", dec("2"), dec("10.50"), dec("6"), dec("1"))
		require.NoError(t, err)
		lines = []sales.Item{item}
	}
	s, err := sales.NewSale(cashierID, lines, dec("0"), sales.PaymentCash, dec("50"))
	require.NoError(t, err)
	return s
}

func TestGormSaleRepository_CreateAssignsSequentialNumbers(t *testing.T) {
	repo := NewGormSaleRepository(setupTestDB(t))
	ctx := context.Background()
	cashier := uuid.New()

	first := newTestSale(t, cashier)
	second := newTestSale(t, cashier)
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	assert.Equal(t, int64(1), first.Number)
	assert.Equal(t, int64(2), second.Number)
	assert.Equal(t, "V000002", second.Code())
}

func TestGormSaleRepository_FindByIDKeepsItemOrder(t *testing.T) {
	repo := NewGormSaleRepository(setupTestDB(t))
	ctx := context.Background()

	var items []sales.Item
	for _, name := range []string{"Pão", "Leite", "Queijo"} {
		it, err := sales.NewItem(uuid.New(), name, dec("1"), dec("5"), dec("3"), dec("0"))
		require.NoError(t, err)
		items = append(items, it)
	}
	sale := newTestSale(t, uuid.New(), items...)
	require.NoError(t, repo.Create(ctx, sale))

	found, err := repo.FindByID(ctx, sale.ID)
	require.NoError(t, err)
	require.Len(t, found.Items, 3)
	assert.Equal(t, "Pão", found.Items[0].ProductName)
	assert.Equal(t, "Queijo", found.Items[2].ProductName)
	assert.True(t, dec("15").Equal(found.Total))
	assert.Equal(t, sales.StatusCompleted, found.Status)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormSaleRepository_UpdateStatus(t *testing.T) {
	repo := NewGormSaleRepository(setupTestDB(t))
	ctx := context.Background()

	sale := newTestSale(t, uuid.New())
	require.NoError(t, repo.Create(ctx, sale))

	manager := uuid.New()
	require.NoError(t, sale.Cancel(manager, "cliente desistiu"))
	require.NoError(t, repo.UpdateStatus(ctx, sale))

	found, err := repo.FindByID(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, sales.StatusCancelled, found.Status)
	assert.Equal(t, "cliente desistiu", found.CancelReason)
	require.NotNil(t, found.CancelledBy)
	assert.Equal(t, manager, *found.CancelledBy)

	require.NoError(t, found.Reopen())
	require.NoError(t, repo.UpdateStatus(ctx, found))
	reopened, err := repo.FindByID(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, sales.StatusOpen, reopened.Status)
	assert.Nil(t, reopened.CancelledBy)
	assert.Nil(t, reopened.CompletedAt)

	ghost := newTestSale(t, uuid.New())
	assert.ErrorIs(t, repo.UpdateStatus(ctx, ghost), shared.ErrNotFound)
}

func TestGormSaleRepository_FindAll(t *testing.T) {
	repo := NewGormSaleRepository(setupTestDB(t))
	ctx := context.Background()

	alice, bob := uuid.New(), uuid.New()
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(ctx, newTestSale(t, alice)))
	}
	cancelled := newTestSale(t, bob)
	require.NoError(t, repo.Create(ctx, cancelled))
	require.NoError(t, cancelled.Cancel(bob, "erro de digitação"))
	require.NoError(t, repo.UpdateStatus(ctx, cancelled))

	t.Run("by cashier", func(t *testing.T) {
		list, total, err := repo.FindAll(ctx, sales.Filter{Filter: shared.DefaultFilter(), CashierID: &alice})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, list, 3)
		for _, s := range list {
			assert.NotEmpty(t, s.Items)
		}
	})

	t.Run("by status", func(t *testing.T) {
		status := sales.StatusCancelled
		list, total, err := repo.FindAll(ctx, sales.Filter{Filter: shared.DefaultFilter(), Status: &status})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, cancelled.ID, list[0].ID)
	})

	t.Run("by date range", func(t *testing.T) {
		future := time.Now().Add(time.Hour)
		_, total, err := repo.FindAll(ctx, sales.Filter{
			Filter:    shared.DefaultFilter(),
			DateRange: shared.DateRange{From: &future},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(0), total)
	})

	t.Run("orders by number", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.OrderBy = "number"
		filter.OrderDir = "asc"
		list, _, err := repo.FindAll(ctx, sales.Filter{Filter: filter})
		require.NoError(t, err)
		require.Len(t, list, 4)
		assert.Equal(t, int64(1), list[0].Number)
		assert.Equal(t, int64(4), list[3].Number)
	})
}
