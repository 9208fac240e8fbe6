package validate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func goodCard() PaymentForm {
	return PaymentForm{Number: "4111111111111111", Name: "Alice Smith", Month: "07", Year: "27", Code: "123"}
}

func TestPaymentAcceptsValidCard(t *testing.T) {
	now := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)
	assert.Empty(t, Payment(goodCard(), now))
	assert.NoError(t, Payment(goodCard(), now).Err())
}

func TestPaymentFieldErrors(t *testing.T) {
	now := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		name  string
		edit  func(*PaymentForm)
		field string
	}{
		{"short number", func(f *PaymentForm) { f.Number = "411111111111111" }, "number"},
		{"letters in number", func(f *PaymentForm) { f.Number = "41111111111111ab" }, "number"},
		{"digits only name", func(f *PaymentForm) { f.Name = "12345" }, "name"},
		{"empty name", func(f *PaymentForm) { f.Name = " " }, "name"},
		{"month zero", func(f *PaymentForm) { f.Month = "00" }, "month"},
		{"month thirteen", func(f *PaymentForm) { f.Month = "13" }, "month"},
		{"month one digit", func(f *PaymentForm) { f.Month = "7" }, "month"},
		{"year past", func(f *PaymentForm) { f.Year = "25" }, "year"},
		{"year too far", func(f *PaymentForm) { f.Year = "32" }, "year"},
		{"year four digits", func(f *PaymentForm) { f.Year = "2027" }, "year"},
		{"code long", func(f *PaymentForm) { f.Code = "1234" }, "code"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := goodCard()
			tc.edit(&f)
			errs := Payment(f, now)
			assert.Len(t, errs, 1)
			assert.Contains(t, errs, tc.field)
		})
	}
}

func TestPaymentYearWindowEdges(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, y := range []string{"26", "31"} {
		f := goodCard()
		f.Year = y
		assert.NotContains(t, Payment(f, now), "year", y)
	}
}

func TestPhone(t *testing.T) {
	for _, ok := range []string{"", "5551234567", " 5551234567 "} {
		_, valid := Phone(ok)
		assert.True(t, valid, ok)
	}
	for _, bad := range []string{"555123456", "55512345678", "555-123-456", "phone12345"} {
		_, valid := Phone(bad)
		assert.False(t, valid, bad)
	}
}

func TestOrderFields(t *testing.T) {
	assert.Empty(t, OrderFields("express", "online"))
	assert.Empty(t, OrderFields("", ""))
	errs := OrderFields("1", "2")
	assert.Contains(t, errs, "deliveryType")
	assert.Contains(t, errs, "paymentType")
}

func TestRate(t *testing.T) {
	assert.True(t, Rate(0))
	assert.True(t, Rate(10))
	assert.False(t, Rate(-1))
	assert.False(t, Rate(11))
}

func TestPasswordAndUsername(t *testing.T) {
	assert.True(t, Password("Passw0rd!"))
	assert.False(t, Password("password"))
	assert.False(t, Password("Sh0rt!"))

	_, ok := Username("alice.smith@home")
	assert.True(t, ok)
	_, ok = Username("alice smith")
	assert.False(t, ok)
}

func TestErrorsMessageIsStable(t *testing.T) {
	err := Errors{"b": "second", "a": "first"}
	assert.Equal(t, "invalid input: a: first; b: second", err.Error())
	assert.Nil(t, Errors{}.Err())
}

func TestQ(t *testing.T) {
	q, ok := Q("  Laptop Pro  ")
	assert.True(t, ok)
	assert.Equal(t, "Laptop Pro", q)
	_, ok = Q("<script>")
	assert.False(t, ok)
}
