package repos

import (
	"github.com/jmoiron/sqlx"

	"megano/internal/domain"
)

type ReviewRepo struct{ db *sqlx.DB }

func NewReviewRepo(db *sqlx.DB) *ReviewRepo { return &ReviewRepo{db: db} }

func (r *ReviewRepo) Create(userID, productID int64, text string, rate int) (int64, error) {
	res, err := r.db.Exec(`
	  INSERT INTO reviews(user_id, product_id, text, rate, created_at)
	  VALUES(?, ?, ?, ?, ?)`, userID, productID, text, rate, now())
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListByProduct returns reviews newest first with the author's display data.
func (r *ReviewRepo) ListByProduct(productID int64) ([]domain.Review, error) {
	out := []domain.Review{}
	err := r.db.Select(&out, `
	  SELECT rv.id, rv.user_id, rv.product_id, rv.text, rv.rate, rv.created_at,
	         CASE WHEN TRIM(u.first_name || ' ' || u.last_name) = '' THEN u.username
	              ELSE TRIM(u.first_name || ' ' || u.last_name) END AS author,
	         u.email
	  FROM reviews rv
	  JOIN users u ON u.id = rv.user_id
	  WHERE rv.product_id = ?
	  ORDER BY rv.created_at DESC, rv.id DESC`, productID)
	return out, err
}
