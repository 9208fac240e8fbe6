package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"megano/internal/domain"
	"megano/internal/repos"
	"megano/internal/services"
	"megano/internal/validate"
)

func productIDs(ps []domain.Product) []int64 {
	out := make([]int64, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

func TestCategoriesAreOneLevelDeep(t *testing.T) {
	e := newEnv(t)
	nodes, err := e.catalog.Categories()
	require.NoError(t, err)
	require.Len(t, nodes, 2)

	assert.Equal(t, "Electronics", nodes[0].Title)
	subs := []string{}
	for _, s := range nodes[0].Subcategories {
		subs = append(subs, s.Title)
	}
	assert.Equal(t, []string{"Laptops", "Phones"}, subs)
	assert.Equal(t, "Home", nodes[1].Title)
}

func TestCatalogCategoryFilterIncludesDirectChildrenOnly(t *testing.T) {
	e := newEnv(t)
	cat := int64(1)
	page, err := e.catalog.List(services.CatalogQuery{CategoryID: &cat})
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{laptopID, phoneID, lampID}, productIDs(page.Items))
	assert.Equal(t, 1, page.CurrentPage)
	assert.Equal(t, 1, page.LastPage)
}

func TestCatalogPaging(t *testing.T) {
	e := newEnv(t)
	page, err := e.catalog.List(services.CatalogQuery{Page: 2, Limit: 4})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 2, page.CurrentPage)
	assert.Equal(t, 2, page.LastPage)

	cat := int64(404)
	page, err = e.catalog.List(services.CatalogQuery{CategoryID: &cat})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, 1, page.LastPage)
}

func TestCatalogSortByPriceAscending(t *testing.T) {
	e := newEnv(t)
	page, err := e.catalog.List(services.CatalogQuery{Sort: repos.ProductSort{Field: "price"}, Limit: 3})
	require.NoError(t, err)
	assert.Equal(t, []int64{caseID, lampID, knifeID}, productIDs(page.Items))
	require.NotEmpty(t, page.Items[0].Tags)
}

func TestTagsForCategoryStopAtDirectChildren(t *testing.T) {
	e := newEnv(t)
	cat := int64(1)
	tags, err := e.catalog.ListTags(&cat)
	require.NoError(t, err)

	names := []string{}
	for _, tg := range tags {
		names = append(names, tg.Name)
	}
	assert.ElementsMatch(t, []string{"laptop", "premium", "phone", "budget", "lighting"}, names)
	assert.NotContains(t, names, "accessory", "grandchild category tags are excluded")

	all, err := e.catalog.ListTags(nil)
	require.NoError(t, err)
	assert.Len(t, all, 7)
}

func TestProductDetail(t *testing.T) {
	e := newEnv(t)
	d, err := e.catalog.Product(laptopID)
	require.NoError(t, err)
	assert.Equal(t, "Laptop Pro 14", d.Title)
	assert.Len(t, d.Specifications, 2)
	assert.Len(t, d.Images, 1)
	assert.Empty(t, d.Reviews)

	_, err = e.catalog.Product(999)
	assert.ErrorIs(t, err, services.ErrProductNotFound)
}

func TestPopularLimitedBannersSales(t *testing.T) {
	e := newEnv(t)

	pop, err := e.catalog.Popular()
	require.NoError(t, err)
	assert.Equal(t, caseID, pop[0].ID)

	lim, err := e.catalog.Limited()
	require.NoError(t, err)
	assert.Equal(t, caseID, lim[0].ID)

	banners, err := e.catalog.Banners()
	require.NoError(t, err)
	assert.Len(t, banners, 6)

	sales, err := e.catalog.ListSales(1, 0)
	require.NoError(t, err)
	require.Len(t, sales.Items, 1)
	assert.Equal(t, grinderID, sales.Items[0].ProductID)
	assert.Equal(t, "89.90", sales.Items[0].Price.StringFixed(2))
	assert.Equal(t, "69.90", sales.Items[0].SalePrice.StringFixed(2))
}

func TestReviewRecomputesRating(t *testing.T) {
	e := newEnv(t)

	_, err := e.reviews.Create(aliceID, knifeID, "sharp", 8)
	require.NoError(t, err)
	_, err = e.reviews.Create(adminID, knifeID, "fine", 7)
	require.NoError(t, err)
	list, err := e.reviews.Create(adminID, knifeID, "ok", 7)
	require.NoError(t, err)
	assert.Len(t, list, 3)

	p, err := e.prods.Get(knifeID)
	require.NoError(t, err)
	require.NotNil(t, p.Rating)
	assert.InDelta(t, 7.3, *p.Rating, 0.0001)
	assert.Equal(t, 3, p.ReviewCount)
}

func TestReviewValidation(t *testing.T) {
	e := newEnv(t)

	_, err := e.reviews.Create(aliceID, knifeID, "too much", 11)
	var verrs validate.Errors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "rate")

	_, err = e.reviews.Create(aliceID, 999, "ghost", 5)
	assert.ErrorIs(t, err, services.ErrProductNotFound)
}
