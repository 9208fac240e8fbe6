package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "megano/internal/log"
	"megano/internal/services"
)

type BasketHandler struct {
	Basket *services.BasketService
}

type basketReq struct {
	ID    int64 `json:"id" form:"id"`
	Count *int  `json:"count" form:"count"`
}

func (r basketReq) count() int {
	if r.Count == nil {
		return 1
	}
	return *r.Count
}

func (h *BasketHandler) respond(c *fiber.Ctx, sid string) error {
	lines, err := h.Basket.Items(sid)
	if err != nil {
		return err
	}
	return c.JSON(basketView(lines))
}

// GET /api/basket
func (h *BasketHandler) View(c *fiber.Ctx) error {
	return h.respond(c, ensureSID(c))
}

// POST /api/basket
func (h *BasketHandler) Add(c *fiber.Ctx) error {
	sid := ensureSID(c)
	var req basketReq
	if err := c.BodyParser(&req); err != nil || req.ID <= 0 {
		return badRequest(c, "id", "product id is required")
	}
	if err := h.Basket.Add(sid, req.ID, req.count(), false); err != nil {
		return fail(c, "basket.add", err)
	}
	applog.Info(c, "basket.add", map[string]any{"product_id": req.ID, "count": req.count()})
	return h.respond(c, sid)
}

// DELETE /api/basket
func (h *BasketHandler) Remove(c *fiber.Ctx) error {
	sid := ensureSID(c)
	var req basketReq
	if err := c.BodyParser(&req); err != nil || req.ID <= 0 {
		return badRequest(c, "id", "product id is required")
	}
	if err := h.Basket.Remove(sid, req.ID, req.count()); err != nil {
		return fail(c, "basket.remove", err)
	}
	applog.Info(c, "basket.remove", map[string]any{"product_id": req.ID, "count": req.count()})
	return h.respond(c, sid)
}
