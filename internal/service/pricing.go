package service

import (
	"fsanano/storefront/internal/model"

	"github.com/shopspring/decimal"
)

// TaxRate is the fixed surcharge applied to every line item.
var TaxRate = decimal.RequireFromString("0.13")

// Pricing is the result of pricing a cart.
type Pricing struct {
	Items     []model.PricedItem
	Subtotal  model.Money
	TaxAmount model.Money
	Total     model.Money
}

// Price computes per-item subtotal and tax, each rounded half-up to cents,
// and aggregates them. It has no side effects.
func Price(items []model.CartItem) Pricing {
	p := Pricing{Items: make([]model.PricedItem, 0, len(items))}

	subtotal := decimal.Zero
	tax := decimal.Zero
	for _, it := range items {
		itemSubtotal := it.PricePerUnit.Mul(decimal.NewFromInt(int64(it.Quantity))).Round(2)
		itemTax := itemSubtotal.Mul(TaxRate).Round(2)

		p.Items = append(p.Items, model.PricedItem{
			CartItem:  it,
			Subtotal:  model.NewMoney(itemSubtotal),
			TaxAmount: model.NewMoney(itemTax),
		})
		subtotal = subtotal.Add(itemSubtotal)
		tax = tax.Add(itemTax)
	}

	p.Subtotal = model.NewMoney(subtotal)
	p.TaxAmount = model.NewMoney(tax)
	p.Total = model.NewMoney(subtotal.Add(tax).Round(2))
	return p
}
