package audit

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAction(t *testing.T) {
	a := NewAction("Sale", " Cancel ")
	assert.Equal(t, "sale", a.Entity)
	assert.Equal(t, "cancel", a.Verb)
	assert.Equal(t, "sale_cancel", a.String())
	assert.NoError(t, a.Validate())
	assert.Error(t, Action{Entity: "sale"}.Validate())
	assert.True(t, Action{}.IsZero())
}

func TestParseAction(t *testing.T) {
	t.Run("single word entity", func(t *testing.T) {
		a, err := ParseAction("sale_create")
		require.NoError(t, err)
		assert.Equal(t, Action{Entity: "sale", Verb: "create"}, a)
	})

	t.Run("multi word entity keeps its underscores", func(t *testing.T) {
		a, err := ParseAction("financial_transaction_cancel")
		require.NoError(t, err)
		assert.Equal(t, EntityFinancialTransaction, a.Entity)
		assert.Equal(t, VerbCancel, a.Verb)
	})

	for _, bad := range []string{"login", "", "_create", "sale_"} {
		t.Run("rejects "+bad, func(t *testing.T) {
			_, err := ParseAction(bad)
			assert.Error(t, err)
		})
	}
}

func TestNewLog(t *testing.T) {
	userID := uuid.New()

	t.Run("snapshots values and derives entity type", func(t *testing.T) {
		log, err := NewLog(Entry{
			UserID:      &userID,
			Action:      NewAction(EntitySale, VerbCancel),
			EntityID:    "abc",
			Description: "POST /api/v1/sales/abc/cancel",
			OldValue:    map[string]string{"status": "completed"},
			NewValue:    map[string]string{"status": "cancelled"},
		})
		require.NoError(t, err)

		assert.Equal(t, "sale", log.EntityType)
		assert.Equal(t, "sale_cancel", log.Action.String())
		assert.Equal(t, &userID, log.UserID)

		var old map[string]string
		require.NoError(t, json.Unmarshal(log.OldValue, &old))
		assert.Equal(t, "completed", old["status"])
		assert.JSONEq(t, `{"status":"cancelled"}`, string(log.NewValue))
	})

	t.Run("nil values stay empty", func(t *testing.T) {
		log, err := NewLog(Entry{Action: NewAction(EntityUser, VerbCreate)})
		require.NoError(t, err)
		assert.Nil(t, log.OldValue)
		assert.Nil(t, log.NewValue)
		assert.Nil(t, log.UserID)
	})

	t.Run("requires a complete action", func(t *testing.T) {
		_, err := NewLog(Entry{Action: Action{Verb: "create"}})
		assert.Error(t, err)
	})

	t.Run("truncates long user agents", func(t *testing.T) {
		log, err := NewLog(Entry{
			Action:    NewAction(EntityUser, VerbCreate),
			UserAgent: strings.Repeat("x", 900),
		})
		require.NoError(t, err)
		assert.Len(t, log.UserAgent, 500)
	})
}
