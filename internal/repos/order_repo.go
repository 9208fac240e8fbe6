package repos

import (
	"github.com/jmoiron/sqlx"

	"megano/internal/domain"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

const orderCols = `id, user_id, city, address, delivery_type, payment_type, status, created_at`

// Create inserts an accepted order, links its products and stores one
// option row per line, all in one transaction.
func (r *OrderRepo) Create(userID int64, lines []domain.OrderLine) (int64, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.Exec(`
	  INSERT INTO orders(user_id, status, created_at)
	  VALUES(?, ?, ?)`, userID, string(domain.StatusAccepted), now())
	if err != nil {
		return 0, err
	}
	orderID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	for _, l := range lines {
		if _, err := tx.Exec(`
		  INSERT INTO order_products(order_id, product_id) VALUES(?, ?)
		  ON CONFLICT(order_id, product_id) DO NOTHING`, orderID, l.ProductID); err != nil {
			return 0, err
		}
		if _, err := tx.Exec(`
		  INSERT INTO order_options(order_id, product_id, price, count)
		  VALUES(?, ?, ?, ?)`, orderID, l.ProductID, l.Price, l.Count); err != nil {
			return 0, err
		}
	}
	return orderID, tx.Commit()
}

func (r *OrderRepo) Get(id int64) (domain.Order, error) {
	var o domain.Order
	err := r.db.Get(&o, `SELECT `+orderCols+` FROM orders WHERE id = ?`, id)
	return o, err
}

// Lines returns the option snapshots of an order in insertion order.
func (r *OrderRepo) Lines(orderID int64) ([]domain.OrderLine, error) {
	out := []domain.OrderLine{}
	err := r.db.Select(&out, `
	  SELECT order_id, product_id, price, count
	  FROM order_options
	  WHERE order_id = ?
	  ORDER BY id`, orderID)
	return out, err
}

// ListByUser returns a user's orders with the given status, oldest first.
func (r *OrderRepo) ListByUser(userID int64, status domain.OrderStatus) ([]domain.Order, error) {
	out := []domain.Order{}
	err := r.db.Select(&out, `
	  SELECT `+orderCols+`
	  FROM orders
	  WHERE user_id = ? AND status = ?
	  ORDER BY id`, userID, string(status))
	return out, err
}

// Update writes the editable delivery fields and the status.
func (r *OrderRepo) Update(o domain.Order) error {
	_, err := r.db.Exec(`
	  UPDATE orders
	  SET city = ?, address = ?, delivery_type = ?, payment_type = ?, status = ?
	  WHERE id = ?`, o.City, o.Address, o.DeliveryType, o.PaymentType, string(o.Status), o.ID)
	return err
}

func (r *OrderRepo) UpdateStatus(id int64, status domain.OrderStatus) error {
	_, err := r.db.Exec(`UPDATE orders SET status = ? WHERE id = ?`, string(status), id)
	return err
}
