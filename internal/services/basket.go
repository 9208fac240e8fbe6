package services

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"megano/internal/domain"
	"megano/internal/repos"
)

// BasketStore persists basket state per session id.
type BasketStore interface {
	Get(sessionID string) (domain.BasketState, error)
	Put(sessionID string, state domain.BasketState) error
	Delete(sessionID string) error
}

// BasketLine is a basket entry joined with its product.
type BasketLine struct {
	Product domain.Product
	Count   int
	Price   decimal.Decimal
	Total   decimal.Decimal
}

type BasketService struct {
	Store   BasketStore
	Prods   *repos.ProductRepo
	Tags    *repos.TagRepo
	Pricing *PricingResolver
}

func NewBasketService(store BasketStore, prods *repos.ProductRepo, tags *repos.TagRepo, pricing *PricingResolver) *BasketService {
	return &BasketService{Store: store, Prods: prods, Tags: tags, Pricing: pricing}
}

// Add puts count units of a product into the basket. The unit price is
// resolved once, when the product first enters the basket. With replace the
// stored count is overwritten instead of incremented.
func (s *BasketService) Add(sessionID string, productID int64, count int, replace bool) error {
	if count <= 0 {
		return ErrInvalidQuantity
	}
	state, err := s.Store.Get(sessionID)
	if err != nil {
		return err
	}
	e, ok := state[productID]
	if !ok {
		p, err := s.Prods.Get(productID)
		if err != nil {
			return notFound(err, ErrProductNotFound)
		}
		price, err := s.Pricing.EffectivePrice(p)
		if err != nil {
			return err
		}
		e = domain.BasketEntry{Price: price}
	}
	if replace {
		e.Count = count
	} else {
		e.Count += count
	}
	state[productID] = e
	return s.Store.Put(sessionID, state)
}

// Remove takes count units out of the basket and drops the entry once
// nothing is left. Removing an absent product is a no-op.
func (s *BasketService) Remove(sessionID string, productID int64, count int) error {
	if count <= 0 {
		return ErrInvalidQuantity
	}
	state, err := s.Store.Get(sessionID)
	if err != nil {
		return err
	}
	e, ok := state[productID]
	if !ok {
		return nil
	}
	e.Count -= count
	if e.Count <= 0 {
		delete(state, productID)
	} else {
		state[productID] = e
	}
	return s.Store.Put(sessionID, state)
}

func (s *BasketService) Total(sessionID string) (decimal.Decimal, error) {
	state, err := s.Store.Get(sessionID)
	if err != nil {
		return decimal.Zero, err
	}
	return state.Total(), nil
}

// Len is the number of units in the basket.
func (s *BasketService) Len(sessionID string) (int, error) {
	state, err := s.Store.Get(sessionID)
	if err != nil {
		return 0, err
	}
	return state.Len(), nil
}

// Items reads the basket afresh and joins every entry with its product,
// ordered by product id. Entries whose product no longer exists are skipped.
func (s *BasketService) Items(sessionID string) ([]BasketLine, error) {
	state, err := s.Store.Get(sessionID)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(state))
	for id := range state {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	byID, err := s.Prods.GetMany(ids)
	if err != nil {
		return nil, fmt.Errorf("load basket products: %w", err)
	}
	ps := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ps = append(ps, p)
		}
	}
	if err := attachMedia(s.Prods, s.Tags, ps); err != nil {
		return nil, err
	}
	lines := make([]BasketLine, 0, len(ps))
	for _, p := range ps {
		e := state[p.ID]
		lines = append(lines, BasketLine{
			Product: p,
			Count:   e.Count,
			Price:   e.Price,
			Total:   e.Price.Mul(decimal.NewFromInt(int64(e.Count))),
		})
	}
	return lines, nil
}

func (s *BasketService) Clear(sessionID string) error {
	return s.Store.Delete(sessionID)
}
