package repos

import (
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"megano/internal/domain"
)

type SaleRepo struct{ db *sqlx.DB }

func NewSaleRepo(db *sqlx.DB) *SaleRepo { return &SaleRepo{db: db} }

const saleCols = `s.id, s.product_id, s.sale_price, s.date_from, s.date_to, s.status`

// ActiveForProduct returns the first status=true sale of the product, latest
// end date first. ok is false when the product has none.
func (r *SaleRepo) ActiveForProduct(productID int64) (domain.Sale, bool, error) {
	var out []domain.Sale
	if err := r.db.Select(&out, `
	  SELECT `+saleCols+`
	  FROM sales s
	  WHERE s.product_id = ? AND s.status = 1
	  ORDER BY s.date_to DESC, s.id
	  LIMIT 1`, productID); err != nil {
		return domain.Sale{}, false, err
	}
	if len(out) == 0 {
		return domain.Sale{}, false, nil
	}
	return out[0], true, nil
}

// ListActive pages through status=true sales joined with their product.
func (r *SaleRepo) ListActive(limit, offset int) ([]domain.SaleItem, int, error) {
	var total int
	if err := r.db.Get(&total, `SELECT COUNT(*) FROM sales WHERE status = 1`); err != nil {
		return nil, 0, err
	}
	out := []domain.SaleItem{}
	err := r.db.Select(&out, `
	  SELECT `+saleCols+`, p.title, p.price
	  FROM sales s JOIN products p ON p.id = s.product_id
	  WHERE s.status = 1
	  ORDER BY s.date_from, s.id
	  LIMIT ? OFFSET ?`, limit, offset)
	return out, total, err
}

func (r *SaleRepo) ListByProduct(productID int64) ([]domain.Sale, error) {
	out := []domain.Sale{}
	err := r.db.Select(&out, `SELECT `+saleCols+` FROM sales s WHERE s.product_id = ? ORDER BY s.id`, productID)
	return out, err
}

func (r *SaleRepo) Deactivate(id int64) error {
	_, err := r.db.Exec(`UPDATE sales SET status = 0 WHERE id = ?`, id)
	return err
}

func (r *SaleRepo) Create(productID int64, price decimal.Decimal, from, to string, status bool) (int64, error) {
	res, err := r.db.Exec(`
	  INSERT INTO sales(product_id, sale_price, date_from, date_to, status)
	  VALUES(?, ?, ?, ?, ?)`, productID, price, from, to, flag(status))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}
