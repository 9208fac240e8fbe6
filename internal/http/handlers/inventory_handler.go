package handlers

import (
	"database/sql"
	"errors"

	"github.com/gofiber/fiber/v2"

	applog "megano/internal/log"
	"megano/internal/repos"
)

// InventoryHandler lets admins correct stock counts.
type InventoryHandler struct {
	Prods *repos.ProductRepo
}

type stockReq struct {
	Count *int `json:"count" form:"count"`
}

// POST /api/admin/products/:id/stock
func (h *InventoryHandler) SetStock(c *fiber.Ctx) error {
	id, ok := productID(c)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "product not found"})
	}
	var req stockReq
	if err := c.BodyParser(&req); err != nil || req.Count == nil || *req.Count < 0 {
		return badRequest(c, "count", "count must be zero or more")
	}
	if err := h.Prods.SetStock(id, *req.Count); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "product not found"})
		}
		applog.Error(c, "admin.stock.save.fail", err, nil)
		return err
	}
	applog.Audit(c, "admin.stock.save", map[string]any{"count": *req.Count})
	return c.JSON(fiber.Map{"id": id, "count": *req.Count, "available": *req.Count > 0})
}
