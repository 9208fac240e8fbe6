package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"megano/internal/repos"
	"megano/internal/services"
)

func TestSaleCreateValidation(t *testing.T) {
	e := newEnv(t)
	svc := services.NewSaleService(e.sales, e.prods)
	now := time.Now().UTC()

	_, err := svc.Create(lampID, dec("40.00"), now, now.AddDate(0, 0, 3), true)
	assert.ErrorIs(t, err, services.ErrSalePrice)

	_, err = svc.Create(lampID, dec("30.00"), now.AddDate(0, 0, 3), now, true)
	assert.ErrorIs(t, err, services.ErrSaleWindow)

	_, err = svc.Create(lampID, dec("30.00"), now.AddDate(0, 0, -5), now.AddDate(0, 0, -1), true)
	assert.ErrorIs(t, err, services.ErrSaleWindow)

	_, err = svc.Create(999, dec("1.00"), now, now.AddDate(0, 0, 1), true)
	assert.ErrorIs(t, err, services.ErrProductNotFound)

	id, err := svc.Create(lampID, dec("30.00"), now, now.AddDate(0, 0, 3), true)
	require.NoError(t, err)
	assert.Positive(t, id)

	p, err := e.prods.Get(lampID)
	require.NoError(t, err)
	price, err := e.pricing.EffectivePrice(p)
	require.NoError(t, err)
	assert.Equal(t, "30.00", price.StringFixed(2))
}

func TestSaleCreateConflictsWithActiveSale(t *testing.T) {
	e := newEnv(t)
	svc := services.NewSaleService(e.sales, e.prods)
	now := time.Now().UTC()

	_, err := svc.Create(grinderID, dec("59.90"), now, now.AddDate(0, 0, 3), true)
	assert.ErrorIs(t, err, services.ErrSaleConflict)

	// an inactive sale never conflicts
	_, err = svc.Create(grinderID, dec("59.90"), now, now.AddDate(0, 0, 3), false)
	assert.NoError(t, err)
}

func TestSaleCreateDeactivatesExpiredSale(t *testing.T) {
	e := newEnv(t)
	now := time.Now().UTC()
	old, err := e.sales.Create(knifeID, dec("45.00"),
		now.AddDate(0, 0, -10).Format(repos.TimeLayout), now.AddDate(0, 0, -2).Format(repos.TimeLayout), true)
	require.NoError(t, err)

	svc := services.NewSaleService(e.sales, e.prods)
	_, err = svc.Create(knifeID, dec("40.00"), now, now.AddDate(0, 0, 7), true)
	require.NoError(t, err)

	sales, err := e.sales.ListByProduct(knifeID)
	require.NoError(t, err)
	require.Len(t, sales, 2)
	assert.Equal(t, old, sales[0].ID)
	assert.False(t, sales[0].Status)
	assert.True(t, sales[1].Status)
}
