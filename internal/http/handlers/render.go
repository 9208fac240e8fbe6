package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"megano/internal/domain"
	applog "megano/internal/log"
	"megano/internal/repos"
	"megano/internal/services"
	"megano/internal/validate"
)

const genericError = "Something went wrong. Please try again."

func render(c *fiber.Ctx, tmpl string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	if u := c.Locals("user"); u != nil {
		data["User"] = u
	}
	if tok, _ := c.Locals("CSRFToken").(string); tok != "" {
		data["CSRFToken"] = tok
	}
	return c.Render(tmpl, data)
}

// ErrorHandler logs unexpected errors and answers without internals: JSON
// under /api, the not-found template elsewhere.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := genericError
	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
		code, msg = fe.Code, fe.Message
	}
	if code >= fiber.StatusInternalServerError {
		applog.Error(c, "server.error", err, nil)
	}
	if strings.HasPrefix(c.Path(), "/api/") {
		return c.Status(code).JSON(fiber.Map{"error": msg})
	}
	if rerr := c.Status(code).Render("notfound", fiber.Map{"Message": msg}); rerr != nil {
		return c.Status(code).SendString(msg)
	}
	return nil
}

// fail turns service errors into client responses. Anything unknown goes to
// the app error handler.
func fail(c *fiber.Ctx, action string, err error) error {
	var verrs validate.Errors
	switch {
	case errors.As(err, &verrs):
		applog.Security(c, "validation.fail", map[string]any{"action": action, "fields": verrs})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": verrs})
	case errors.Is(err, services.ErrProductNotFound),
		errors.Is(err, services.ErrOrderNotFound),
		errors.Is(err, services.ErrCategoryNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrBadCreds):
		applog.Security(c, action+".fail", nil)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidQuantity),
		errors.Is(err, services.ErrInvalidPrice),
		errors.Is(err, services.ErrEmptyOrder),
		errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrSaleConflict),
		errors.Is(err, services.ErrSalePrice),
		errors.Is(err, services.ErrSaleWindow),
		errors.Is(err, services.ErrUsernameTaken),
		errors.Is(err, services.ErrPasswordMismatch),
		errors.Is(err, services.ErrCategoryCycle):
		applog.Security(c, action+".reject", map[string]any{"reason": err.Error()})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return err
}

func badRequest(c *fiber.Ctx, field, msg string) error {
	applog.Security(c, "validation.fail", map[string]any{"field": field})
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": validate.Errors{field: msg}})
}

// reformat re-renders a stored timestamp; unparsable values pass through.
func reformat(ts, layout string) string {
	t, err := time.Parse(repos.TimeLayout, ts)
	if err != nil {
		return ts
	}
	return t.Format(layout)
}

const (
	reviewDateLayout = "2006-01-02 15:04"
	saleDateLayout   = "02.01"
)

type productJSON struct {
	ID           int64          `json:"id"`
	Category     int64          `json:"category"`
	Price        string         `json:"price"`
	Count        int            `json:"count"`
	Date         string         `json:"date"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	FreeDelivery bool           `json:"freeDelivery"`
	Images       []domain.Image `json:"images"`
	Tags         []domain.Tag   `json:"tags"`
	Reviews      int            `json:"reviews"`
	Rating       *float64       `json:"rating"`
}

func productView(p domain.Product) productJSON {
	images, tags := p.Images, p.Tags
	if images == nil {
		images = []domain.Image{}
	}
	if tags == nil {
		tags = []domain.Tag{}
	}
	return productJSON{
		ID:           p.ID,
		Category:     p.CategoryID,
		Price:        p.Price.StringFixed(2),
		Count:        p.Count,
		Date:         reformat(p.CreatedAt, time.RFC3339),
		Title:        p.Title,
		Description:  p.Description,
		FreeDelivery: p.FreeDelivery,
		Images:       images,
		Tags:         tags,
		Reviews:      p.ReviewCount,
		Rating:       p.Rating,
	}
}

func productViews(ps []domain.Product) []productJSON {
	out := make([]productJSON, 0, len(ps))
	for _, p := range ps {
		out = append(out, productView(p))
	}
	return out
}

type reviewJSON struct {
	Author string `json:"author"`
	Email  string `json:"email"`
	Text   string `json:"text"`
	Rate   int    `json:"rate"`
	Date   string `json:"date"`
}

func reviewViews(rs []domain.Review) []reviewJSON {
	out := make([]reviewJSON, 0, len(rs))
	for _, r := range rs {
		out = append(out, reviewJSON{
			Author: r.Author,
			Email:  r.Email,
			Text:   r.Text,
			Rate:   r.Rate,
			Date:   reformat(r.CreatedAt, reviewDateLayout),
		})
	}
	return out
}

type productDetailJSON struct {
	productJSON
	FullDescription string                 `json:"fullDescription"`
	Reviews         []reviewJSON           `json:"reviews"`
	Specifications  []domain.Specification `json:"specifications"`
}

func productDetailView(d domain.ProductDetail) productDetailJSON {
	specs := d.Specifications
	if specs == nil {
		specs = []domain.Specification{}
	}
	return productDetailJSON{
		productJSON:     productView(d.Product),
		FullDescription: d.Description,
		Reviews:         reviewViews(d.Reviews),
		Specifications:  specs,
	}
}

type categoryJSON struct {
	ID            int64          `json:"id"`
	Title         string         `json:"title"`
	Image         domain.Image   `json:"image"`
	Subcategories []categoryJSON `json:"subcategories,omitempty"`
}

func categoryView(c domain.Category) categoryJSON {
	return categoryJSON{ID: c.ID, Title: c.Title, Image: domain.Image{Src: c.ImageSrc, Alt: c.ImageAlt}}
}

type saleJSON struct {
	ID        int64          `json:"id"`
	Price     string         `json:"price"`
	SalePrice string         `json:"salePrice"`
	DateFrom  string         `json:"dateFrom"`
	DateTo    string         `json:"dateTo"`
	Title     string         `json:"title"`
	Images    []domain.Image `json:"images"`
}

func saleView(s domain.SaleItem) saleJSON {
	return saleJSON{
		ID:        s.ProductID,
		Price:     s.Price.StringFixed(2),
		SalePrice: s.SalePrice.StringFixed(2),
		DateFrom:  reformat(s.DateFrom, saleDateLayout),
		DateTo:    reformat(s.DateTo, saleDateLayout),
		Title:     s.Title,
		Images:    s.Images,
	}
}

func basketView(lines []services.BasketLine) []productJSON {
	out := make([]productJSON, 0, len(lines))
	for _, l := range lines {
		v := productView(l.Product)
		v.Price = l.Price.StringFixed(2)
		v.Count = l.Count
		out = append(out, v)
	}
	return out
}

type orderJSON struct {
	ID           int64         `json:"id"`
	CreatedAt    string        `json:"createdAt"`
	FullName     string        `json:"fullName"`
	Email        string        `json:"email"`
	Phone        string        `json:"phone"`
	DeliveryType string        `json:"deliveryType"`
	PaymentType  string        `json:"paymentType"`
	TotalCost    string        `json:"totalCost"`
	Status       string        `json:"status"`
	City         string        `json:"city"`
	Address      string        `json:"address"`
	Products     []productJSON `json:"products"`
}

// orderView lists products with the price and count snapshotted at checkout.
func orderView(d domain.OrderDetail) orderJSON {
	products := make([]productJSON, 0, len(d.Lines))
	for _, l := range d.Lines {
		p, ok := d.Products[l.ProductID]
		if !ok {
			continue
		}
		v := productView(p)
		v.Price = l.Price.StringFixed(2)
		v.Count = l.Count
		products = append(products, v)
	}
	return orderJSON{
		ID:           d.ID,
		CreatedAt:    reformat(d.CreatedAt, reviewDateLayout),
		FullName:     d.FullName,
		Email:        d.Email,
		Phone:        d.Phone,
		DeliveryType: d.DeliveryType,
		PaymentType:  d.PaymentType,
		TotalCost:    d.TotalCost().StringFixed(2),
		Status:       string(d.Status),
		City:         d.City,
		Address:      d.Address,
		Products:     products,
	}
}

type profileJSON struct {
	FullName string       `json:"fullName"`
	Email    string       `json:"email"`
	Phone    string       `json:"phone"`
	Avatar   domain.Image `json:"avatar"`
}

func profileView(v services.ProfileView) profileJSON {
	return profileJSON{
		FullName: strings.TrimSpace(v.User.FirstName + " " + v.User.LastName),
		Email:    v.User.Email,
		Phone:    v.Profile.Phone,
		Avatar:   domain.Image{Src: v.Profile.AvatarSrc, Alt: v.Profile.AvatarAlt},
	}
}

func pageView[T, V any](p services.Page[T], conv func(T) V) fiber.Map {
	items := make([]V, 0, len(p.Items))
	for _, it := range p.Items {
		items = append(items, conv(it))
	}
	return fiber.Map{"items": items, "currentPage": p.CurrentPage, "lastPage": p.LastPage}
}
