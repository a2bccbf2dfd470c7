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

func titleInput() TitleInput {
	return TitleInput{
		Counterparty: "Distribuidora Central",
		Document:     "NF-1020",
		Description:  "Compra de mercadorias",
		Category:     "Fornecedores",
		TotalAmount:  decimal.RequireFromString("300.00"),
		DueDate:      time.Now().AddDate(0, 0, 10),
	}
}

func pay(amount string) SettlementInput {
	return SettlementInput{
		Amount:     decimal.RequireFromString(amount),
		Method:     MethodBankTransfer,
		RecordedBy: uuid.New(),
	}
}

func TestAccountPayable_RecordPayment(t *testing.T) {
	ap, err := NewAccountPayable(titleInput(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, StatusOpen, ap.Status)
	assert.True(t, ap.Outstanding().Equal(decimal.NewFromInt(300)))

	_, err = ap.RecordPayment(pay("0"))
	assert.Error(t, err)

	_, err = ap.RecordPayment(pay("300.01"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds outstanding")

	s, err := ap.RecordPayment(pay("100"))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, s.ID)
	assert.Equal(t, StatusPartial, ap.Status)
	assert.True(t, ap.Outstanding().Equal(decimal.NewFromInt(200)))

	_, err = ap.RecordPayment(pay("200"))
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, ap.Status)
	assert.NotNil(t, ap.SettledAt)
	assert.Len(t, ap.Settlements, 2)

	_, err = ap.RecordPayment(pay("1"))
	assert.ErrorIs(t, err, shared.ErrInvalidState)
}

func TestAccountPayable_Cancel(t *testing.T) {
	t.Run("cancels an open payable", func(t *testing.T) {
		ap, err := NewAccountPayable(titleInput(), uuid.New())
		require.NoError(t, err)
		require.NoError(t, ap.Cancel("supplier credit note"))
		assert.Equal(t, StatusCancelled, ap.Status)
		assert.True(t, ap.Outstanding().IsZero())
		assert.ErrorIs(t, ap.Cancel("again"), shared.ErrInvalidState)
	})

	t.Run("cancels a partially paid payable and keeps its payments", func(t *testing.T) {
		ap, err := NewAccountPayable(titleInput(), uuid.New())
		require.NoError(t, err)
		_, err = ap.RecordPayment(pay("40"))
		require.NoError(t, err)
		require.Equal(t, StatusPartial, ap.Status)

		require.NoError(t, ap.Cancel("renegotiated with supplier"))
		assert.Equal(t, StatusCancelled, ap.Status)
		assert.Equal(t, "renegotiated with supplier", ap.CancelReason)
		assert.NotNil(t, ap.CancelledAt)
		require.Len(t, ap.Settlements, 1)
		assert.True(t, ap.SettledAmount.Equal(decimal.NewFromInt(40)))

		_, err = ap.RecordPayment(pay("10"))
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})

	t.Run("rejects a fully paid payable", func(t *testing.T) {
		ap, err := NewAccountPayable(titleInput(), uuid.New())
		require.NoError(t, err)
		_, err = ap.RecordPayment(pay("300"))
		require.NoError(t, err)
		assert.ErrorIs(t, ap.Cancel("too late"), shared.ErrInvalidState)
	})

	t.Run("requires a reason", func(t *testing.T) {
		ap, err := NewAccountPayable(titleInput(), uuid.New())
		require.NoError(t, err)
		assert.Error(t, ap.Cancel(" "))
	})
}

func TestAccountReceivable_RecordReceipt(t *testing.T) {
	ar, err := NewAccountReceivable(titleInput(), uuid.New())
	require.NoError(t, err)

	_, err = ar.RecordReceipt(pay("300"))
	require.NoError(t, err)
	assert.Equal(t, StatusReceived, ar.Status)
	assert.Error(t, ar.Update(titleInput()), "received receivable cannot be edited")
}

func TestAccountReceivable_CancelPartiallyReceived(t *testing.T) {
	ar, err := NewAccountReceivable(titleInput(), uuid.New())
	require.NoError(t, err)
	_, err = ar.RecordReceipt(pay("120"))
	require.NoError(t, err)

	require.NoError(t, ar.Cancel("customer returned the goods"))
	assert.Equal(t, StatusCancelled, ar.Status)
	assert.Len(t, ar.Settlements, 1)
}

func TestTitle_Validation(t *testing.T) {
	in := titleInput()
	in.Counterparty = ""
	_, err := NewAccountPayable(in, uuid.New())
	assert.Error(t, err)

	in = titleInput()
	in.TotalAmount = decimal.NewFromInt(-5)
	_, err = NewAccountReceivable(in, uuid.New())
	assert.Error(t, err)
}

func TestTitle_IsOverdue(t *testing.T) {
	in := titleInput()
	in.DueDate = time.Now().AddDate(0, 0, -3)
	ap, err := NewAccountPayable(in, uuid.New())
	require.NoError(t, err)
	assert.True(t, ap.IsOverdue(time.Now()))

	require.NoError(t, ap.Cancel("not owed"))
	assert.False(t, ap.IsOverdue(time.Now()))
}
