package repos

import (
	"github.com/jmoiron/sqlx"

	"megano/internal/domain"
)

type TagRepo struct{ db *sqlx.DB }

func NewTagRepo(db *sqlx.DB) *TagRepo { return &TagRepo{db: db} }

func (r *TagRepo) List() ([]domain.Tag, error) {
	out := []domain.Tag{}
	err := r.db.Select(&out, `SELECT id, name FROM tags ORDER BY name, id`)
	return out, err
}

// ListForCategories returns the distinct tags carried by products in any of
// the given categories.
func (r *TagRepo) ListForCategories(catIDs []int64) ([]domain.Tag, error) {
	out := []domain.Tag{}
	if len(catIDs) == 0 {
		return out, nil
	}
	q, args, err := sqlx.In(`
	  SELECT DISTINCT t.id, t.name
	  FROM tags t
	  JOIN product_tags pt ON pt.tag_id = t.id
	  JOIN products p ON p.id = pt.product_id
	  WHERE p.category_id IN (?)
	  ORDER BY t.name, t.id`, catIDs)
	if err != nil {
		return nil, err
	}
	err = r.db.Select(&out, r.db.Rebind(q), args...)
	return out, err
}

// ForProducts returns tags keyed by product id.
func (r *TagRepo) ForProducts(ids []int64) (map[int64][]domain.Tag, error) {
	out := map[int64][]domain.Tag{}
	if len(ids) == 0 {
		return out, nil
	}
	type row struct {
		ProductID int64 `db:"product_id"`
		domain.Tag
	}
	q, args, err := sqlx.In(`
	  SELECT pt.product_id, t.id, t.name
	  FROM product_tags pt JOIN tags t ON t.id = pt.tag_id
	  WHERE pt.product_id IN (?)
	  ORDER BY t.name, t.id`, ids)
	if err != nil {
		return nil, err
	}
	var rows []row
	if err := r.db.Select(&rows, r.db.Rebind(q), args...); err != nil {
		return nil, err
	}
	for _, x := range rows {
		out[x.ProductID] = append(out[x.ProductID], x.Tag)
	}
	return out, nil
}
