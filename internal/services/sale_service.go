package services

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"megano/internal/repos"
)

type SaleService struct {
	Sales *repos.SaleRepo
	Prods *repos.ProductRepo
	Now   func() time.Time
}

func NewSaleService(sales *repos.SaleRepo, prods *repos.ProductRepo) *SaleService {
	return &SaleService{Sales: sales, Prods: prods, Now: time.Now}
}

// Create adds a sale for a product. The sale price may not exceed the
// product price and the window must end in the future. An active sale
// conflicts with any unexpired active sale of the same product; expired
// ones are switched off instead.
func (s *SaleService) Create(productID int64, price decimal.Decimal, from, to time.Time, active bool) (int64, error) {
	p, err := s.Prods.Get(productID)
	if err != nil {
		return 0, notFound(err, ErrProductNotFound)
	}
	if price.IsNegative() || price.GreaterThan(p.Price) {
		return 0, ErrSalePrice
	}
	now := s.Now().UTC()
	from, to = from.UTC(), to.UTC()
	if from.After(to) || to.Before(now) {
		return 0, ErrSaleWindow
	}

	if active {
		sales, err := s.Sales.ListByProduct(productID)
		if err != nil {
			return 0, err
		}
		for _, sl := range sales {
			if !sl.Status {
				continue
			}
			end, err := time.Parse(repos.TimeLayout, sl.DateTo)
			if err != nil {
				return 0, fmt.Errorf("sale %d: bad end date: %w", sl.ID, err)
			}
			if end.Before(now) {
				if err := s.Sales.Deactivate(sl.ID); err != nil {
					return 0, err
				}
				continue
			}
			return 0, ErrSaleConflict
		}
	}
	return s.Sales.Create(productID, price, from.Format(repos.TimeLayout), to.Format(repos.TimeLayout), active)
}
