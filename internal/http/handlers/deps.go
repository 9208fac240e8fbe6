package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/jmoiron/sqlx"

	"megano/internal/config"
	applog "megano/internal/log"
	"megano/internal/repos"
	"megano/internal/services"
)

type Deps struct {
	Auth *services.AuthService

	AuthHandler      *AuthHandler
	CategoryHandler  *CategoryHandler
	CatalogHandler   *CatalogHandler
	ProductHandler   *ProductHandler
	BasketHandler    *BasketHandler
	OrderHandler     *OrderHandler
	ProfileHandler   *ProfileHandler
	InventoryHandler *InventoryHandler
	AdminHandler     *AdminHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config, auth *services.AuthService) *Deps {
	catRepo := repos.NewCategoryRepo(db)
	prodRepo := repos.NewProductRepo(db)
	tagRepo := repos.NewTagRepo(db)
	saleRepo := repos.NewSaleRepo(db)
	reviewRepo := repos.NewReviewRepo(db)
	basketRepo := repos.NewBasketRepo(db)
	orderRepo := repos.NewOrderRepo(db)

	pricing := services.NewPricingResolver(saleRepo)
	catalogSvc := services.NewCatalogService(catRepo, prodRepo, tagRepo, saleRepo, reviewRepo)
	if cfg.PageSize > 0 {
		catalogSvc.PageSize = cfg.PageSize
	}
	reviewSvc := services.NewReviewService(reviewRepo, prodRepo)
	basketSvc := services.NewBasketService(basketRepo, prodRepo, tagRepo, pricing)
	orderSvc := services.NewOrderService(orderRepo, prodRepo, tagRepo, auth.Users, pricing)
	orderSvc.TrustClientPrices = cfg.TrustClientPrices
	saleSvc := services.NewSaleService(saleRepo, prodRepo)
	profileSvc := services.NewProfileService(auth.Users)

	return &Deps{
		Auth:             auth,
		AuthHandler:      &AuthHandler{Auth: auth},
		CategoryHandler:  &CategoryHandler{Catalog: catalogSvc},
		CatalogHandler:   &CatalogHandler{Catalog: catalogSvc},
		ProductHandler:   &ProductHandler{Catalog: catalogSvc, Reviews: reviewSvc},
		BasketHandler:    &BasketHandler{Basket: basketSvc},
		OrderHandler:     &OrderHandler{Basket: basketSvc, Order: orderSvc},
		ProfileHandler:   &ProfileHandler{Profiles: profileSvc, Auth: auth, MediaDir: cfg.MediaDir},
		InventoryHandler: &InventoryHandler{Prods: prodRepo},
		AdminHandler:     &AdminHandler{Sales: saleSvc, Orders: orderSvc, Catalog: catalogSvc},
	}
}

// Mount registers the JSON API under /api.
func Mount(app *fiber.App, d *Deps) fiber.Router {
	api := app.Group("/api", AttachUser(d.Auth))
	user := RequireUser(d.Auth)

	api.Get("/categories", d.CategoryHandler.List)
	api.Get("/catalog", d.CatalogHandler.List)
	api.Get("/products/popular", d.CatalogHandler.Popular)
	api.Get("/products/limited", d.CatalogHandler.Limited)
	api.Get("/sales", d.CatalogHandler.Sales)
	api.Get("/banners", d.CatalogHandler.Banners)
	api.Get("/tags", d.CatalogHandler.Tags)

	api.Get("/product/:id", d.ProductHandler.Detail)
	api.Post("/product/:id/reviews", user, d.ProductHandler.CreateReview)

	api.Get("/basket", d.BasketHandler.View)
	api.Post("/basket", d.BasketHandler.Add)
	api.Delete("/basket", d.BasketHandler.Remove)

	api.Get("/orders", user, d.OrderHandler.List)
	api.Post("/orders", user, d.OrderHandler.Create)
	api.Get("/order/:id", user, d.OrderHandler.View)
	api.Post("/order/:id", user, d.OrderHandler.Update)
	api.Post("/payment/:id", user, d.OrderHandler.Pay)

	// Sign-in is throttled per client.
	api.Post("/sign-in", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.sign_in.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "Too many attempts. Please try again later."})
		},
	}), d.AuthHandler.SignIn)
	api.Post("/sign-up", d.AuthHandler.SignUp)
	api.Post("/sign-out", d.AuthHandler.SignOut)

	api.Get("/profile", user, d.ProfileHandler.View)
	api.Post("/profile", user, d.ProfileHandler.Update)
	api.Post("/profile/password", user, d.ProfileHandler.Password)
	api.Post("/profile/avatar", user, d.ProfileHandler.Avatar)

	admin := api.Group("/admin", RequireAdmin(d.Auth))
	admin.Post("/sales", d.AdminHandler.CreateSale)
	admin.Post("/products/:id/stock", d.InventoryHandler.SetStock)
	admin.Post("/orders/:id/cancel", d.AdminHandler.CancelOrder)
	admin.Post("/categories", d.AdminHandler.CreateCategory)
	admin.Post("/categories/:id/move", d.AdminHandler.MoveCategory)

	return api
}
