package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"megano/internal/domain"
	applog "megano/internal/log"
	"megano/internal/repos"
	"megano/internal/services"
	"megano/internal/validate"
)

type AdminHandler struct {
	Sales   *services.SaleService
	Orders  *services.OrderService
	Catalog *services.CatalogService
}

type saleReq struct {
	Product   int64           `json:"product"`
	SalePrice decimal.Decimal `json:"salePrice"`
	DateFrom  string          `json:"dateFrom"`
	DateTo    string          `json:"dateTo"`
	Status    *bool           `json:"status"`
}

var saleDateLayouts = []string{time.RFC3339, repos.TimeLayout, "2006-01-02T15:04", "2006-01-02"}

func parseSaleDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, l := range saleDateLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// POST /api/admin/sales
func (h *AdminHandler) CreateSale(c *fiber.Ctx) error {
	var req saleReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "body", "malformed request")
	}
	errs := validate.Errors{}
	from, ok := parseSaleDate(req.DateFrom)
	if !ok {
		errs["dateFrom"] = "enter a valid date"
	}
	to, ok := parseSaleDate(req.DateTo)
	if !ok {
		errs["dateTo"] = "enter a valid date"
	}
	if req.Product <= 0 {
		errs["product"] = "product is required"
	}
	if err := errs.Err(); err != nil {
		return fail(c, "admin.sale.create", err)
	}
	active := req.Status == nil || *req.Status

	id, err := h.Sales.Create(req.Product, req.SalePrice, from, to, active)
	if err != nil {
		return fail(c, "admin.sale.create", err)
	}
	applog.Audit(c, "admin.sale.create", map[string]any{"sale_id": id, "product_id": req.Product, "price": req.SalePrice.StringFixed(2)})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

// POST /api/admin/orders/:id/cancel
func (h *AdminHandler) CancelOrder(c *fiber.Ctx) error {
	id, ok := orderID(c)
	if !ok {
		return notFoundOrder(c)
	}
	if err := h.Orders.Cancel(id); err != nil {
		return fail(c, "admin.order.cancel", err)
	}
	applog.Audit(c, "admin.order.cancel", nil)
	return c.JSON(fiber.Map{"orderId": id, "status": "canceled"})
}

type categoryReq struct {
	Title  string       `json:"title"`
	Parent *int64       `json:"parent"`
	Image  domain.Image `json:"image"`
}

// POST /api/admin/categories
func (h *AdminHandler) CreateCategory(c *fiber.Ctx) error {
	var req categoryReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "body", "malformed request")
	}
	id, err := h.Catalog.CreateCategory(req.Title, req.Parent, req.Image)
	if err != nil {
		return fail(c, "admin.category.create", err)
	}
	applog.Audit(c, "admin.category.create", map[string]any{"category_id": id, "parent": req.Parent})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

// POST /api/admin/categories/:id/move with {"parent": id|null}
func (h *AdminHandler) MoveCategory(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": services.ErrCategoryNotFound.Error()})
	}
	var req struct {
		Parent *int64 `json:"parent"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "body", "malformed request")
	}
	if err := h.Catalog.MoveCategory(id, req.Parent); err != nil {
		return fail(c, "admin.category.move", err)
	}
	applog.Audit(c, "admin.category.move", map[string]any{"parent": req.Parent})
	return c.JSON(fiber.Map{"id": id, "parent": req.Parent})
}
