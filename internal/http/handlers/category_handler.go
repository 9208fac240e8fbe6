package handlers

import (
	"megano/internal/services"

	"github.com/gofiber/fiber/v2"
)

type CategoryHandler struct {
	Catalog *services.CatalogService
}

// Home serves the storefront shell; the page itself talks to /api.
func (h *CategoryHandler) Home(c *fiber.Ctx) error {
	return render(c, "index", fiber.Map{"Title": "Megano"})
}

// GET /api/categories
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	nodes, err := h.Catalog.Categories()
	if err != nil {
		return err
	}
	out := make([]categoryJSON, 0, len(nodes))
	for _, n := range nodes {
		v := categoryView(n.Category)
		v.Subcategories = make([]categoryJSON, 0, len(n.Subcategories))
		for _, sub := range n.Subcategories {
			v.Subcategories = append(v.Subcategories, categoryView(sub))
		}
		out = append(out, v)
	}
	return c.JSON(out)
}
