package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testCart() Cart {
	return Cart{Lines: []LineItem{
		{
			VariantID:       "v1",
			Price:           Money{Amount: 32.00, CurrencyCode: "USD"},
			SelectedOptions: []SelectedOption{{Name: "Shade", Value: "Fair"}},
			Quantity:        2,
		},
		{
			VariantID:       "v2",
			Price:           Money{Amount: 18.00, CurrencyCode: "USD"},
			SelectedOptions: []SelectedOption{{Name: "Shade", Value: "Light"}},
			Quantity:        1,
		},
	}}
}

func TestCart_Totals(t *testing.T) {
	cart := testCart()

	assert.InDelta(t, 82.00, cart.Subtotal(), 0.001)
	assert.Equal(t, 3, cart.ItemCount())
}

func TestCart_Totals_Empty(t *testing.T) {
	cart := Cart{}

	assert.Equal(t, 0.0, cart.Subtotal())
	assert.Equal(t, 0, cart.ItemCount())
}

func TestCart_LineIndex(t *testing.T) {
	cart := testCart()

	assert.Equal(t, 1, cart.LineIndex("v2"))
	assert.Equal(t, -1, cart.LineIndex("missing"))
}

func TestCart_Clone_DoesNotAlias(t *testing.T) {
	cart := testCart()
	clone := cart.Clone()

	clone.Lines[0].Quantity = 99
	clone.Lines[0].SelectedOptions[0].Value = "Tan"

	assert.Equal(t, 2, cart.Lines[0].Quantity)
	assert.Equal(t, "Fair", cart.Lines[0].SelectedOptions[0].Value)
}
