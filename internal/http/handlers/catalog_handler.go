package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"megano/internal/log"
	"megano/internal/services"
	"megano/internal/validate"
)

type CatalogHandler struct {
	Catalog *services.CatalogService
}

// filterParam reads name either bare or wrapped as filter[name].
func filterParam(c *fiber.Ctx, name string) string {
	if v := strings.TrimSpace(c.Query("filter[" + name + "]")); v != "" {
		return v
	}
	return strings.TrimSpace(c.Query(name))
}

func triState(s string) *bool {
	switch strings.ToLower(s) {
	case "true", "1":
		b := true
		return &b
	case "false", "0":
		b := false
		return &b
	}
	return nil
}

func intQuery(c *fiber.Ctx, keys ...string) int {
	for _, k := range keys {
		if n, err := strconv.Atoi(strings.TrimSpace(c.Query(k))); err == nil {
			return n
		}
	}
	return 0
}

func idList(raw [][]byte) ([]int64, bool) {
	var out []int64
	for _, b := range raw {
		for _, part := range strings.Split(string(b), ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				return nil, false
			}
			out = append(out, id)
		}
	}
	return out, true
}

func (h *CatalogHandler) query(c *fiber.Ctx) (services.CatalogQuery, error) {
	var q services.CatalogQuery
	if raw := filterParam(c, "name"); raw != "" {
		name, ok := validate.Q(raw)
		if !ok {
			return q, validate.Errors{"name": "enter a valid product name"}
		}
		q.Filter.Name = name
	}
	for key, dst := range map[string]**decimal.Decimal{"minPrice": &q.Filter.MinPrice, "maxPrice": &q.Filter.MaxPrice} {
		raw := filterParam(c, key)
		if raw == "" {
			continue
		}
		d, err := decimal.NewFromString(raw)
		if err != nil || d.IsNegative() {
			return q, validate.Errors{key: "enter a valid price"}
		}
		*dst = &d
	}
	q.Filter.FreeDelivery = triState(filterParam(c, "freeDelivery"))
	q.Filter.Available = triState(filterParam(c, "available"))

	if raw := filterParam(c, "category"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return q, validate.Errors{"category": "invalid category"}
		}
		q.CategoryID = &id
	}
	args := c.Context().QueryArgs()
	tags, ok := idList(append(args.PeekMulti("tags[]"), args.PeekMulti("tags")...))
	if !ok {
		return q, validate.Errors{"tags": "invalid tag id"}
	}
	q.Filter.TagIDs = tags

	switch s := c.Query("sort"); s {
	case "rating", "price", "reviews", "date":
		q.Sort.Field = s
		q.Sort.Desc = c.Query("sortType") == "dec"
	}
	q.Page = intQuery(c, "currentPage", "page")
	q.Limit = intQuery(c, "limit")
	return q, nil
}

// GET /api/catalog
func (h *CatalogHandler) List(c *fiber.Ctx) error {
	q, err := h.query(c)
	if err != nil {
		return fail(c, "catalog.list", err)
	}
	page, err := h.Catalog.List(q)
	if err != nil {
		log.Error(c, "catalog.list", err, nil)
		return err
	}
	return c.JSON(pageView(page, productView))
}

// GET /api/products/popular
func (h *CatalogHandler) Popular(c *fiber.Ctx) error {
	ps, err := h.Catalog.Popular()
	if err != nil {
		return err
	}
	return c.JSON(productViews(ps))
}

// GET /api/products/limited
func (h *CatalogHandler) Limited(c *fiber.Ctx) error {
	ps, err := h.Catalog.Limited()
	if err != nil {
		return err
	}
	return c.JSON(productViews(ps))
}

// GET /api/banners
func (h *CatalogHandler) Banners(c *fiber.Ctx) error {
	ps, err := h.Catalog.Banners()
	if err != nil {
		return err
	}
	return c.JSON(productViews(ps))
}

// GET /api/sales
func (h *CatalogHandler) Sales(c *fiber.Ctx) error {
	page, err := h.Catalog.ListSales(intQuery(c, "currentPage", "page"), intQuery(c, "limit"))
	if err != nil {
		return err
	}
	return c.JSON(pageView(page, saleView))
}

// GET /api/tags
func (h *CatalogHandler) Tags(c *fiber.Ctx) error {
	var cat *int64
	if raw := strings.TrimSpace(c.Query("category")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return badRequest(c, "category", "invalid category")
		}
		cat = &id
	}
	tags, err := h.Catalog.ListTags(cat)
	if err != nil {
		return err
	}
	return c.JSON(tags)
}
