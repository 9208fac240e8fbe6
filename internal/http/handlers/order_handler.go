package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	applog "megano/internal/log"
	"megano/internal/services"
	"megano/internal/validate"
)

type OrderHandler struct {
	Basket *services.BasketService
	Order  *services.OrderService
	Now    func() time.Time
}

type orderLineReq struct {
	ID    int64           `json:"id"`
	Price decimal.Decimal `json:"price"`
	Count int             `json:"count"`
}

type orderUpdateReq struct {
	City         string `json:"city"`
	Address      string `json:"address"`
	DeliveryType string `json:"deliveryType"`
	PaymentType  string `json:"paymentType"`
}

func orderID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	return id, err == nil && id > 0
}

func notFoundOrder(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": services.ErrOrderNotFound.Error()})
}

// GET /api/orders lists the caller's unpaid orders.
func (h *OrderHandler) List(c *fiber.Ctx) error {
	orders, err := h.Order.ListAccepted(userOf(c).ID)
	if err != nil {
		applog.Error(c, "orders.list.fail", err, nil)
		return err
	}
	out := make([]orderJSON, 0, len(orders))
	for _, o := range orders {
		out = append(out, orderView(o))
	}
	return c.JSON(out)
}

// POST /api/orders
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var req []orderLineReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "body", "expected a list of {id, price, count}")
	}
	items := make([]services.LineItem, 0, len(req))
	for _, l := range req {
		items = append(items, services.LineItem{ProductID: l.ID, Price: l.Price, Count: l.Count})
	}
	u := userOf(c)
	id, serverTotal, clientTotal, err := h.Order.CreateOrder(u.ID, items)
	if err != nil {
		return fail(c, "order.create", err)
	}
	applog.Audit(c, "order.create", map[string]any{
		"order_id":     id,
		"server_total": serverTotal.StringFixed(2),
		"client_total": clientTotal.StringFixed(2),
		"mismatch":     !serverTotal.Equal(clientTotal),
	})
	if sid := c.Cookies("sid"); sid != "" {
		if err := h.Basket.Clear(sid); err != nil {
			applog.Error(c, "basket.clear.fail", err, map[string]any{"order_id": id})
		}
	}
	return c.JSON(fiber.Map{"orderId": id})
}

// GET /api/order/:id
func (h *OrderHandler) View(c *fiber.Ctx) error {
	id, ok := orderID(c)
	if !ok {
		return notFoundOrder(c)
	}
	d, err := h.Order.Get(userOf(c).ID, id)
	if err != nil {
		if err == services.ErrOrderNotFound {
			applog.Security(c, "access.denied.order", nil)
		}
		return fail(c, "order.view", err)
	}
	return c.JSON(orderView(d))
}

// POST /api/order/:id
func (h *OrderHandler) Update(c *fiber.Ctx) error {
	id, ok := orderID(c)
	if !ok {
		return notFoundOrder(c)
	}
	var req orderUpdateReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "body", "malformed request")
	}
	d, err := h.Order.UpdateFields(userOf(c).ID, id, services.OrderUpdate{
		City:         req.City,
		Address:      req.Address,
		DeliveryType: req.DeliveryType,
		PaymentType:  req.PaymentType,
	})
	if err != nil {
		return fail(c, "order.update", err)
	}
	applog.Audit(c, "order.update", nil)
	return c.JSON(orderView(d))
}

// POST /api/payment/:id
func (h *OrderHandler) Pay(c *fiber.Ctx) error {
	id, ok := orderID(c)
	if !ok {
		return notFoundOrder(c)
	}
	var form validate.PaymentForm
	if err := c.BodyParser(&form); err != nil {
		return badRequest(c, "body", "malformed request")
	}
	now := time.Now
	if h.Now != nil {
		now = h.Now
	}
	if err := validate.Payment(form, now()).Err(); err != nil {
		return fail(c, "order.pay", err)
	}
	status, err := h.Order.ConfirmPayment(userOf(c).ID, id)
	if err != nil {
		return fail(c, "order.pay", err)
	}
	applog.Audit(c, "order.pay", nil)
	return c.JSON(fiber.Map{"orderId": id, "status": status})
}
