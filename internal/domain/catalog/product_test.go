package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() ProductInput {
	return ProductInput{
		SKU:      " cafe-01 ",
		Name:     "Cafe expresso",
		Category: "Bebidas",
		Price:    decimal.NewFromFloat(6.5),
		Cost:     decimal.NewFromFloat(2.1),
	}
}

func TestNewProduct(t *testing.T) {
	t.Run("normalizes sku and defaults unit", func(t *testing.T) {
		p, err := NewProduct(validInput())
		require.NoError(t, err)
		assert.Equal(t, "CAFE-01", p.SKU)
		assert.Equal(t, "un", p.Unit)
		assert.True(t, p.Active)
		assert.True(t, p.Margin().Equal(decimal.NewFromFloat(4.4)))
	})

	t.Run("rejects negative price", func(t *testing.T) {
		in := validInput()
		in.Price = decimal.NewFromInt(-1)
		_, err := NewProduct(in)
		assert.Error(t, err)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		in := validInput()
		in.Name = " "
		_, err := NewProduct(in)
		assert.Error(t, err)
	})

	t.Run("rejects empty sku", func(t *testing.T) {
		in := validInput()
		in.SKU = ""
		_, err := NewProduct(in)
		assert.Error(t, err)
	})
}

func TestProduct_Update(t *testing.T) {
	p, err := NewProduct(validInput())
	require.NoError(t, err)

	in := validInput()
	in.Name = "Cafe duplo"
	in.Price = decimal.NewFromInt(9)
	require.NoError(t, p.Update(in))
	assert.Equal(t, "Cafe duplo", p.Name)
	assert.True(t, p.Price.Equal(decimal.NewFromInt(9)))

	in.Cost = decimal.NewFromInt(-2)
	assert.Error(t, p.Update(in))
	assert.Equal(t, "Cafe duplo", p.Name, "failed update leaves product unchanged")

	p.SetActive(false)
	assert.False(t, p.Active)
}
