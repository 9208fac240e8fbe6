package handlers_test

import (
	"fmt"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderOut struct {
	ID        int64        `json:"id"`
	FullName  string       `json:"fullName"`
	Phone     string       `json:"phone"`
	TotalCost string       `json:"totalCost"`
	Status    string       `json:"status"`
	City      string       `json:"city"`
	Address   string       `json:"address"`
	Products  []productOut `json:"products"`
}

func validCard() map[string]string {
	return map[string]string{
		"number": "4111111111111111",
		"name":   "Alice Smith",
		"month":  "07",
		"year":   fmt.Sprintf("%02d", time.Now().Year()-2000+1),
		"code":   "123",
	}
}

func TestBasketAnonymousSession(t *testing.T) {
	a := newTestApp(t)

	resp, body := a.call(t, "POST", "/api/basket", map[string]int{"id": 6, "count": 2}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	sid := cookie(resp, "sid")
	require.NotEmpty(t, sid, "basket must open a session")

	lines := decode[[]productOut](t, body)
	require.Len(t, lines, 1)
	assert.Equal(t, "69.90", lines[0].Price, "sale price applies")
	assert.Equal(t, 2, lines[0].Count)

	_, body = a.call(t, "POST", "/api/basket", map[string]int{"id": 1}, sid)
	lines = decode[[]productOut](t, body)
	require.Len(t, lines, 2)
	assert.Equal(t, int64(1), lines[0].ID)
	assert.Equal(t, 1, lines[0].Count)

	_, body = a.call(t, "DELETE", "/api/basket", map[string]int{"id": 6, "count": 1}, sid)
	lines = decode[[]productOut](t, body)
	require.Len(t, lines, 2)
	assert.Equal(t, 1, lines[1].Count)

	_, body = a.call(t, "DELETE", "/api/basket", map[string]int{"id": 6, "count": 5}, sid)
	assert.Len(t, decode[[]productOut](t, body), 1)

	_, body = a.call(t, "GET", "/api/basket", nil, sid)
	assert.Len(t, decode[[]productOut](t, body), 1)

	// A different session sees its own, empty basket.
	_, body = a.call(t, "GET", "/api/basket", nil, "other")
	assert.Equal(t, "[]", string(body))
}

func TestBasketRejectsBadInput(t *testing.T) {
	a := newTestApp(t)

	resp, _ := a.call(t, "POST", "/api/basket", map[string]int{"id": 999}, "s1")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = a.call(t, "POST", "/api/basket", map[string]int{"id": 1, "count": 0}, "s1")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body := a.call(t, "POST", "/api/basket", map[string]int{"count": 1}, "s1")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), `"id"`)
}

func TestOrdersRequireLogin(t *testing.T) {
	a := newTestApp(t)
	for _, r := range []struct{ method, path string }{
		{"GET", "/api/orders"},
		{"POST", "/api/orders"},
		{"GET", "/api/order/1"},
		{"POST", "/api/payment/1"},
		{"GET", "/api/profile"},
	} {
		resp, _ := a.call(t, r.method, r.path, nil, "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, r.path)
	}
}

func TestCheckoutFlow(t *testing.T) {
	a := newTestApp(t)
	sid := a.signIn(t, "alice")

	_, _ = a.call(t, "POST", "/api/basket", map[string]int{"id": 6, "count": 2}, sid)
	_, _ = a.call(t, "POST", "/api/basket", map[string]int{"id": 2}, sid)

	// Client prices are ignored; the order snapshots the current ones.
	resp, body := a.call(t, "POST", "/api/orders", []map[string]any{
		{"id": 6, "price": "1.00", "count": 2},
		{"id": 2, "price": 1, "count": 1},
	}, sid)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	created := decode[struct {
		OrderID int64 `json:"orderId"`
	}](t, body)
	require.NotZero(t, created.OrderID)
	orderPath := "/api/order/" + strconv.FormatInt(created.OrderID, 10)

	_, body = a.call(t, "GET", "/api/basket", nil, sid)
	assert.Equal(t, "[]", string(body), "basket is cleared after checkout")

	resp, body = a.call(t, "GET", orderPath, nil, sid)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	o := decode[orderOut](t, body)
	assert.Equal(t, "339.79", o.TotalCost)
	assert.Equal(t, "accepted", o.Status)
	assert.Equal(t, "Alice Smith", o.FullName)
	assert.Equal(t, "5551234567", o.Phone)
	require.Len(t, o.Products, 2)
	assert.Equal(t, "69.90", o.Products[0].Price)

	resp, body = a.call(t, "POST", orderPath, map[string]string{
		"city": "Springfield", "address": "1 Main St", "deliveryType": "express", "paymentType": "online",
	}, sid)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	o = decode[orderOut](t, body)
	assert.Equal(t, "Springfield", o.City)

	resp, _ = a.call(t, "POST", orderPath, map[string]string{"deliveryType": "42"}, sid)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	_, body = a.call(t, "GET", "/api/orders", nil, sid)
	assert.Len(t, decode[[]orderOut](t, body), 1)

	payPath := "/api/payment/" + strconv.FormatInt(created.OrderID, 10)
	bad := validCard()
	bad["number"] = "4111"
	bad["month"] = "13"
	resp, body = a.call(t, "POST", payPath, bad, sid)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	errs := decode[struct {
		Errors map[string]string `json:"errors"`
	}](t, body)
	assert.Contains(t, errs.Errors, "number")
	assert.Contains(t, errs.Errors, "month")

	resp, body = a.call(t, "POST", payPath, validCard(), sid)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.JSONEq(t, fmt.Sprintf(`{"orderId":%d,"status":"paid"}`, created.OrderID), string(body))

	_, body = a.call(t, "GET", "/api/orders", nil, sid)
	assert.Equal(t, "[]", string(body), "paid orders leave the active list")
}

func TestOrderValidation(t *testing.T) {
	a := newTestApp(t)
	sid := a.signIn(t, "alice")

	resp, _ := a.call(t, "POST", "/api/orders", []map[string]any{}, sid)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = a.call(t, "POST", "/api/orders", []map[string]any{{"id": 1, "price": "1200", "count": -1}}, sid)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body := a.call(t, "POST", "/api/orders", []map[string]any{{"id": 1, "price": "-5", "count": 1}}, sid)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "price must not be negative")

	resp, _ = a.call(t, "POST", "/api/orders", []map[string]any{{"id": 404, "price": "1", "count": 1}}, sid)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = a.call(t, "POST", "/api/orders", map[string]any{"id": 1}, sid)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestOrdersAreOwnerScoped(t *testing.T) {
	a := newTestApp(t)
	alice := a.signIn(t, "alice")
	_, body := a.call(t, "POST", "/api/orders", []map[string]any{{"id": 4, "price": "35.50", "count": 1}}, alice)
	id := decode[struct {
		OrderID int64 `json:"orderId"`
	}](t, body).OrderID

	admin := a.signIn(t, "admin")
	resp, _ := a.call(t, "GET", "/api/order/"+strconv.FormatInt(id, 10), nil, admin)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, _ = a.call(t, "POST", "/api/payment/"+strconv.FormatInt(id, 10), validCard(), admin)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
