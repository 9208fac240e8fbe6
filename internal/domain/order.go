package domain

import "github.com/shopspring/decimal"

type OrderStatus string

const (
	StatusAccepted OrderStatus = "accepted"
	StatusCanceled OrderStatus = "canceled"
	StatusPaid     OrderStatus = "paid"
)

type Order struct {
	ID           int64       `db:"id"`
	UserID       int64       `db:"user_id"`
	City         string      `db:"city"`
	Address      string      `db:"address"`
	DeliveryType string      `db:"delivery_type"`
	PaymentType  string      `db:"payment_type"`
	Status       OrderStatus `db:"status"`
	CreatedAt    string      `db:"created_at"`
}

// OrderLine is the price/count snapshot of one product taken at checkout.
type OrderLine struct {
	OrderID   int64           `db:"order_id"`
	ProductID int64           `db:"product_id"`
	Price     decimal.Decimal `db:"price"`
	Count     int             `db:"count"`
}

func (l OrderLine) Total() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Count)))
}

// OrderDetail is an order with its snapshot lines, the products they point
// at and the owner's contact data.
type OrderDetail struct {
	Order
	FullName string
	Email    string
	Phone    string
	Lines    []OrderLine
	Products map[int64]Product
}

func (o OrderDetail) TotalCost() decimal.Decimal {
	total := decimal.Zero
	for _, l := range o.Lines {
		total = total.Add(l.Total())
	}
	return total
}
