package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"megano/internal/domain"
	"megano/internal/repos"
	"megano/internal/validate"
)

// LineItem is one product line as posted at checkout.
type LineItem struct {
	ProductID int64
	Price     decimal.Decimal
	Count     int
}

// OrderUpdate carries the editable delivery fields. Empty strings are left
// untouched.
type OrderUpdate struct {
	City         string
	Address      string
	DeliveryType string
	PaymentType  string
}

type OrderService struct {
	Orders  *repos.OrderRepo
	Prods   *repos.ProductRepo
	Tags    *repos.TagRepo
	Users   *repos.UserRepo
	Pricing *PricingResolver

	// TrustClientPrices snapshots the posted price instead of the resolved one.
	TrustClientPrices bool
}

func NewOrderService(orders *repos.OrderRepo, prods *repos.ProductRepo, tags *repos.TagRepo, users *repos.UserRepo, pricing *PricingResolver) *OrderService {
	return &OrderService{Orders: orders, Prods: prods, Tags: tags, Users: users, Pricing: pricing}
}

// CreateOrder stores an accepted order with one price/count snapshot per
// line. It returns the new id together with the snapshot total and the total
// the client claimed, so callers can flag tampering.
func (s *OrderService) CreateOrder(userID int64, items []LineItem) (int64, decimal.Decimal, decimal.Decimal, error) {
	zero := decimal.Zero
	if len(items) == 0 {
		return 0, zero, zero, ErrEmptyOrder
	}
	ids := make([]int64, 0, len(items))
	for _, it := range items {
		if it.Count <= 0 {
			return 0, zero, zero, ErrInvalidQuantity
		}
		if it.Price.IsNegative() {
			return 0, zero, zero, ErrInvalidPrice
		}
		ids = append(ids, it.ProductID)
	}
	prods, err := s.Prods.GetMany(ids)
	if err != nil {
		return 0, zero, zero, err
	}

	serverTotal, clientTotal := decimal.Zero, decimal.Zero
	lines := make([]domain.OrderLine, 0, len(items))
	for _, it := range items {
		p, ok := prods[it.ProductID]
		if !ok {
			return 0, zero, zero, fmt.Errorf("%w: %d", ErrProductNotFound, it.ProductID)
		}
		price := it.Price
		if !s.TrustClientPrices {
			if price, err = s.Pricing.EffectivePrice(p); err != nil {
				return 0, zero, zero, err
			}
		}
		line := domain.OrderLine{ProductID: p.ID, Price: price, Count: it.Count}
		lines = append(lines, line)
		serverTotal = serverTotal.Add(line.Total())
		clientTotal = clientTotal.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Count))))
	}

	id, err := s.Orders.Create(userID, lines)
	if err != nil {
		return 0, zero, zero, fmt.Errorf("create order: %w", err)
	}
	return id, serverTotal, clientTotal, nil
}

// Get loads an order owned by userID. Orders of other users are reported as
// missing.
func (s *OrderService) Get(userID, orderID int64) (domain.OrderDetail, error) {
	o, err := s.Orders.Get(orderID)
	if err != nil {
		return domain.OrderDetail{}, notFound(err, ErrOrderNotFound)
	}
	if o.UserID != userID {
		return domain.OrderDetail{}, ErrOrderNotFound
	}
	return s.detail(o)
}

// ListAccepted returns the user's orders still waiting for payment.
func (s *OrderService) ListAccepted(userID int64) ([]domain.OrderDetail, error) {
	orders, err := s.Orders.ListByUser(userID, domain.StatusAccepted)
	if err != nil {
		return nil, err
	}
	out := make([]domain.OrderDetail, 0, len(orders))
	for _, o := range orders {
		d, err := s.detail(o)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func (s *OrderService) detail(o domain.Order) (domain.OrderDetail, error) {
	d := domain.OrderDetail{Order: o}
	u, err := s.Users.ByID(o.UserID)
	if err != nil {
		return d, fmt.Errorf("load order owner: %w", err)
	}
	prof, err := s.Users.Profile(o.UserID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return d, err
	}
	d.FullName, d.Email, d.Phone = u.FullName(), u.Email, prof.Phone

	if d.Lines, err = s.Orders.Lines(o.ID); err != nil {
		return d, err
	}
	ids := make([]int64, 0, len(d.Lines))
	for _, l := range d.Lines {
		ids = append(ids, l.ProductID)
	}
	byID, err := s.Prods.GetMany(ids)
	if err != nil {
		return d, err
	}
	ps := make([]domain.Product, 0, len(byID))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ps = append(ps, p)
		}
	}
	if err := attachMedia(s.Prods, s.Tags, ps); err != nil {
		return d, err
	}
	d.Products = make(map[int64]domain.Product, len(ps))
	for _, p := range ps {
		d.Products[p.ID] = p
	}
	return d, nil
}

// UpdateFields overwrites the non-empty delivery fields of an owned order.
func (s *OrderService) UpdateFields(userID, orderID int64, upd OrderUpdate) (domain.OrderDetail, error) {
	if err := validate.OrderFields(upd.DeliveryType, upd.PaymentType).Err(); err != nil {
		return domain.OrderDetail{}, err
	}
	o, err := s.Orders.Get(orderID)
	if err != nil {
		return domain.OrderDetail{}, notFound(err, ErrOrderNotFound)
	}
	if o.UserID != userID {
		return domain.OrderDetail{}, ErrOrderNotFound
	}
	set := func(dst *string, v string) {
		if v = strings.TrimSpace(v); v != "" {
			*dst = v
		}
	}
	set(&o.City, upd.City)
	set(&o.Address, upd.Address)
	set(&o.DeliveryType, upd.DeliveryType)
	set(&o.PaymentType, upd.PaymentType)
	if err := s.Orders.Update(o); err != nil {
		return domain.OrderDetail{}, err
	}
	return s.detail(o)
}

// ConfirmPayment marks an owned order paid. Confirming a paid order again
// succeeds and leaves it paid; a canceled order cannot be paid.
func (s *OrderService) ConfirmPayment(userID, orderID int64) (domain.OrderStatus, error) {
	o, err := s.Orders.Get(orderID)
	if err != nil {
		return "", notFound(err, ErrOrderNotFound)
	}
	if o.UserID != userID {
		return "", ErrOrderNotFound
	}
	if o.Status == domain.StatusCanceled {
		return o.Status, ErrInvalidTransition
	}
	if err := s.Orders.UpdateStatus(o.ID, domain.StatusPaid); err != nil {
		return o.Status, err
	}
	return domain.StatusPaid, nil
}

// Cancel moves an accepted order to canceled.
func (s *OrderService) Cancel(orderID int64) error {
	o, err := s.Orders.Get(orderID)
	if err != nil {
		return notFound(err, ErrOrderNotFound)
	}
	if o.Status != domain.StatusAccepted {
		return ErrInvalidTransition
	}
	return s.Orders.UpdateStatus(o.ID, domain.StatusCanceled)
}
