package service_test

import (
	"testing"

	"fsanano/storefront/internal/model"
	"fsanano/storefront/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func item(price string, qty int) model.CartItem {
	return model.CartItem{ProductID: 1, SizeID: 1, Quantity: qty, PricePerUnit: model.MustMoney(price)}
}

func TestPrice_Example(t *testing.T) {
	p := service.Price([]model.CartItem{item("10.00", 2), item("5.00", 1)})

	assert.Equal(t, "25.00", p.Subtotal.String())
	assert.Equal(t, "3.25", p.TaxAmount.String())
	assert.Equal(t, "28.25", p.Total.String())

	if assert.Len(t, p.Items, 2) {
		assert.Equal(t, "20.00", p.Items[0].Subtotal.String())
		assert.Equal(t, "2.60", p.Items[0].TaxAmount.String())
		assert.Equal(t, "5.00", p.Items[1].Subtotal.String())
		assert.Equal(t, "0.65", p.Items[1].TaxAmount.String())
	}
}

func TestPrice_EmptyCart(t *testing.T) {
	p := service.Price([]model.CartItem{})

	assert.Empty(t, p.Items)
	assert.True(t, p.Subtotal.IsZero())
	assert.True(t, p.TaxAmount.IsZero())
	assert.True(t, p.Total.IsZero())
	assert.Equal(t, "0.00", p.Total.String())
}

func TestPrice_RoundsPerItemHalfUp(t *testing.T) {
	// 0.05 * 0.13 = 0.0065 rounds up to 0.01
	p := service.Price([]model.CartItem{item("0.05", 1)})
	assert.Equal(t, "0.01", p.TaxAmount.String())

	// tax is rounded per line, so three 0.013 taxes sum to 0.03
	p = service.Price([]model.CartItem{item("0.10", 1), item("0.10", 1), item("0.10", 1)})
	assert.Equal(t, "0.30", p.Subtotal.String())
	assert.Equal(t, "0.03", p.TaxAmount.String())
	assert.Equal(t, "0.33", p.Total.String())
}

func TestPrice_TotalIsSubtotalPlusTax(t *testing.T) {
	carts := [][]model.CartItem{
		{item("19.99", 3)},
		{item("0.01", 1), item("1234.56", 7), item("3.333", 2)},
		{item("99.95", 1), item("0.00", 4)},
		{item("12.345", 9), item("7.77", 11)},
	}

	for _, cart := range carts {
		p := service.Price(cart)

		assert.True(t, p.Total.Equal(p.Subtotal.Add(p.TaxAmount.Decimal).Round(2)), "total %s", p.Total)

		subtotal, tax := decimal.Zero, decimal.Zero
		for _, it := range p.Items {
			want := it.PricePerUnit.Mul(decimal.NewFromInt(int64(it.Quantity))).Round(2)
			assert.True(t, it.Subtotal.Equal(want))
			assert.True(t, it.TaxAmount.Equal(want.Mul(service.TaxRate).Round(2)))
			subtotal = subtotal.Add(it.Subtotal.Decimal)
			tax = tax.Add(it.TaxAmount.Decimal)
		}
		assert.True(t, p.Subtotal.Equal(subtotal))
		assert.True(t, p.TaxAmount.Equal(tax))
	}
}

func TestPrice_IsDeterministic(t *testing.T) {
	cart := []model.CartItem{item("10.10", 3), item("2.49", 2)}
	assert.Equal(t, service.Price(cart), service.Price(cart))
}
