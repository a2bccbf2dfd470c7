package finance

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pdv/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func txInput(kind TransactionType) TransactionInput {
	return TransactionInput{
		Type:        kind,
		Category:    "Aluguel",
		Description: "Aluguel da loja",
		Amount:      decimal.RequireFromString("1500.00"),
		DueDate:     time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC),
	}
}

func TestNewFinancialTransaction(t *testing.T) {
	tx, err := NewFinancialTransaction(txInput(TransactionExpense), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, StatusOpen, tx.Status)
	assert.Equal(t, "Aluguel da loja", tx.Description)

	_, err = NewFinancialTransaction(txInput(TransactionType("transfer")), uuid.New())
	assert.Error(t, err)

	in := txInput(TransactionIncome)
	in.Amount = decimal.Zero
	_, err = NewFinancialTransaction(in, uuid.New())
	assert.Error(t, err)
}

func TestFinancialTransaction_Lifecycle(t *testing.T) {
	t.Run("expense settles as paid", func(t *testing.T) {
		tx, err := NewFinancialTransaction(txInput(TransactionExpense), uuid.New())
		require.NoError(t, err)
		require.NoError(t, tx.Settle(MethodPix, time.Time{}))
		assert.Equal(t, StatusPaid, tx.Status)
		assert.NotNil(t, tx.SettledAt)
	})

	t.Run("income settles as received", func(t *testing.T) {
		tx, err := NewFinancialTransaction(txInput(TransactionIncome), uuid.New())
		require.NoError(t, err)
		require.NoError(t, tx.Settle(MethodCash, time.Now()))
		assert.Equal(t, StatusReceived, tx.Status)
	})

	t.Run("settled transaction cannot be cancelled or edited", func(t *testing.T) {
		tx, err := NewFinancialTransaction(txInput(TransactionExpense), uuid.New())
		require.NoError(t, err)
		require.NoError(t, tx.Settle(MethodPix, time.Now()))
		assert.ErrorIs(t, tx.Cancel("oops"), shared.ErrInvalidState)
		assert.ErrorIs(t, tx.Update(txInput(TransactionExpense)), shared.ErrInvalidState)
	})

	t.Run("cancel requires a reason and is irreversible", func(t *testing.T) {
		tx, err := NewFinancialTransaction(txInput(TransactionExpense), uuid.New())
		require.NoError(t, err)
		assert.Error(t, tx.Cancel(""))
		require.NoError(t, tx.Cancel("duplicated entry"))
		assert.Equal(t, StatusCancelled, tx.Status)
		assert.Equal(t, "duplicated entry", tx.CancelReason)

		assert.ErrorIs(t, tx.Cancel("again"), shared.ErrInvalidState)
		assert.ErrorIs(t, tx.Settle(MethodCash, time.Now()), shared.ErrInvalidState)
	})

	t.Run("type cannot change on update", func(t *testing.T) {
		tx, err := NewFinancialTransaction(txInput(TransactionExpense), uuid.New())
		require.NoError(t, err)
		assert.Error(t, tx.Update(txInput(TransactionIncome)))
	})
}

func TestFinancialTransaction_IsOverdue(t *testing.T) {
	tx, err := NewFinancialTransaction(txInput(TransactionExpense), uuid.New())
	require.NoError(t, err)

	dueDay := time.Date(2024, 5, 10, 18, 0, 0, 0, time.UTC)
	assert.False(t, tx.IsOverdue(dueDay), "due today is not overdue")
	assert.True(t, tx.IsOverdue(dueDay.AddDate(0, 0, 1)))

	require.NoError(t, tx.Settle(MethodCash, dueDay))
	assert.False(t, tx.IsOverdue(dueDay.AddDate(0, 1, 0)))
}
