package handlers

import (
	"strconv"

	"megano/internal/log"
	"megano/internal/services"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	Catalog *services.CatalogService
	Reviews *services.ReviewService
}

func productID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	return id, err == nil && id > 0
}

// GET /api/product/:id
func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	id, ok := productID(c)
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "product"})
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": services.ErrProductNotFound.Error()})
	}
	d, err := h.Catalog.Product(id)
	if err != nil {
		return fail(c, "product.detail", err)
	}
	return c.JSON(productDetailView(d))
}

type reviewReq struct {
	Author string `json:"author"`
	Email  string `json:"email"`
	Text   string `json:"text"`
	Rate   int    `json:"rate"`
}

// POST /api/product/:id/reviews
func (h *ProductHandler) CreateReview(c *fiber.Ctx) error {
	id, ok := productID(c)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": services.ErrProductNotFound.Error()})
	}
	var req reviewReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "body", "malformed request")
	}
	u := userOf(c)
	reviews, err := h.Reviews.Create(u.ID, id, req.Text, req.Rate)
	if err != nil {
		return fail(c, "review.create", err)
	}
	log.Audit(c, "review.create", map[string]any{"rate": req.Rate})
	return c.Status(fiber.StatusCreated).JSON(reviewViews(reviews))
}
