package domain

import "github.com/shopspring/decimal"

// BasketEntry is one basket position: how many units and the unit price
// captured when the product was first added.
type BasketEntry struct {
	Count int             `db:"count"`
	Price decimal.Decimal `db:"price"`
}

// BasketState maps product id to its basket entry.
type BasketState map[int64]BasketEntry

// Len is the number of units across all entries.
func (b BasketState) Len() int {
	n := 0
	for _, e := range b {
		n += e.Count
	}
	return n
}

// Total is the sum of unit price times count.
func (b BasketState) Total() decimal.Decimal {
	total := decimal.Zero
	for _, e := range b {
		total = total.Add(e.Price.Mul(decimal.NewFromInt(int64(e.Count))))
	}
	return total
}
