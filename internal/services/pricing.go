package services

import (
	"fmt"

	"github.com/shopspring/decimal"

	"megano/internal/domain"
	"megano/internal/repos"
)

// PricingResolver decides what a product costs right now.
type PricingResolver struct {
	Sales *repos.SaleRepo
}

func NewPricingResolver(sales *repos.SaleRepo) *PricingResolver {
	return &PricingResolver{Sales: sales}
}

// EffectivePrice returns the price of the product's active sale, or the base
// price when no sale has status set. With several active sales the one ending
// last wins.
func (r *PricingResolver) EffectivePrice(p domain.Product) (decimal.Decimal, error) {
	sale, ok, err := r.Sales.ActiveForProduct(p.ID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("resolve price of product %d: %w", p.ID, err)
	}
	if !ok {
		return p.Price, nil
	}
	return sale.SalePrice, nil
}
