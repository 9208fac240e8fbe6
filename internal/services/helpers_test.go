package services_test

import (
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"megano/internal/repos"
	"megano/internal/services"
)

type env struct {
	db      *sqlx.DB
	prods   *repos.ProductRepo
	sales   *repos.SaleRepo
	users   *repos.UserRepo
	pricing *services.PricingResolver
	basket  *services.BasketService
	orders  *services.OrderService
	catalog *services.CatalogService
	reviews *services.ReviewService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db, err := repos.OpenDB(":memory:", "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	e := &env{
		db:    db,
		prods: repos.NewProductRepo(db),
		sales: repos.NewSaleRepo(db),
		users: repos.NewUserRepo(db),
	}
	tags := repos.NewTagRepo(db)
	reviews := repos.NewReviewRepo(db)
	e.pricing = services.NewPricingResolver(e.sales)
	e.basket = services.NewBasketService(repos.NewBasketRepo(db), e.prods, tags, e.pricing)
	e.orders = services.NewOrderService(repos.NewOrderRepo(db), e.prods, tags, e.users, e.pricing)
	e.catalog = services.NewCatalogService(repos.NewCategoryRepo(db), e.prods, tags, e.sales, reviews)
	e.reviews = services.NewReviewService(reviews, e.prods)
	return e
}

// seeded ids
const (
	adminID = int64(1)
	aliceID = int64(2)

	laptopID  = int64(1)
	phoneID   = int64(2)
	caseID    = int64(3)
	lampID    = int64(4)
	knifeID   = int64(5)
	grinderID = int64(6)
)
