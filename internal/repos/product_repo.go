package repos

import (
	"database/sql"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"megano/internal/domain"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productCols = `
    p.id, p.category_id, p.price, p.count, p.title, p.description, p.free_delivery,
    p.available, p.rating, p.quantity_sold, COALESCE(p.created_at,'') AS created_at,
    (SELECT COUNT(*) FROM reviews rv WHERE rv.product_id = p.id) AS review_count`

// ProductFilter narrows a catalog listing. Nil pointers and empty slices
// mean "no constraint".
type ProductFilter struct {
	Name         string
	MinPrice     *decimal.Decimal
	MaxPrice     *decimal.Decimal
	FreeDelivery *bool
	Available    *bool
	CategoryIDs  []int64
	TagIDs       []int64
}

type ProductSort struct {
	Field string // rating | price | reviews | date
	Desc  bool
}

var sortColumns = map[string]string{
	"rating":  "p.rating",
	"price":   "p.price",
	"reviews": "review_count",
	"date":    "p.created_at",
}

func (f ProductFilter) where() (string, []any) {
	where := `1 = 1`
	args := []any{}
	if f.Name != "" {
		where += ` AND LOWER(p.title) LIKE ?`
		args = append(args, "%"+strings.ToLower(f.Name)+"%")
	}
	if f.MinPrice != nil {
		where += ` AND p.price >= ?`
		args = append(args, f.MinPrice.InexactFloat64())
	}
	if f.MaxPrice != nil {
		where += ` AND p.price <= ?`
		args = append(args, f.MaxPrice.InexactFloat64())
	}
	if f.FreeDelivery != nil {
		where += ` AND p.free_delivery = ?`
		args = append(args, flag(*f.FreeDelivery))
	}
	if f.Available != nil {
		where += ` AND p.available = ?`
		args = append(args, flag(*f.Available))
	}
	if len(f.CategoryIDs) > 0 {
		where += ` AND p.category_id IN (?)`
		args = append(args, f.CategoryIDs)
	}
	if len(f.TagIDs) > 0 {
		where += ` AND p.id IN (SELECT pt.product_id FROM product_tags pt WHERE pt.tag_id IN (?))`
		args = append(args, f.TagIDs)
	}
	return where, args
}

// List returns one page of products matching f plus the total match count.
func (r *ProductRepo) List(f ProductFilter, s ProductSort, limit, offset int) ([]domain.Product, int, error) {
	where, args := f.where()

	q, qargs, err := sqlx.In(`SELECT COUNT(*) FROM products p WHERE `+where, args...)
	if err != nil {
		return nil, 0, err
	}
	var total int
	if err := r.db.Get(&total, r.db.Rebind(q), qargs...); err != nil {
		return nil, 0, err
	}

	order := `p.title, p.id`
	if col, ok := sortColumns[s.Field]; ok {
		dir := "ASC"
		if s.Desc {
			dir = "DESC"
		}
		order = col + ` ` + dir + `, p.id`
	}
	q, qargs, err = sqlx.In(`
  SELECT `+productCols+`
  FROM products p
  WHERE `+where+`
  ORDER BY `+order+`
  LIMIT ? OFFSET ?`, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	out := []domain.Product{}
	if err := r.db.Select(&out, r.db.Rebind(q), qargs...); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *ProductRepo) Get(id int64) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `SELECT `+productCols+` FROM products p WHERE p.id = ?`, id)
	return p, err
}

// GetMany returns the products with the given ids keyed by id; unknown ids
// are simply missing from the map.
func (r *ProductRepo) GetMany(ids []int64) (map[int64]domain.Product, error) {
	out := map[int64]domain.Product{}
	if len(ids) == 0 {
		return out, nil
	}
	q, args, err := sqlx.In(`SELECT `+productCols+` FROM products p WHERE p.id IN (?)`, ids)
	if err != nil {
		return nil, err
	}
	var rows []domain.Product
	if err := r.db.Select(&rows, r.db.Rebind(q), args...); err != nil {
		return nil, err
	}
	for _, p := range rows {
		out[p.ID] = p
	}
	return out, nil
}

// Popular ranks by units sold; ties go to the lower rating first.
func (r *ProductRepo) Popular(limit int) ([]domain.Product, error) {
	return r.ordered(`p.quantity_sold DESC, p.rating ASC, p.id`, limit)
}

// Limited ranks by scarcity, best rated first among equals.
func (r *ProductRepo) Limited(limit int) ([]domain.Product, error) {
	return r.ordered(`p.count ASC, p.rating DESC, p.id`, limit)
}

func (r *ProductRepo) All() ([]domain.Product, error) {
	return r.ordered(`p.title, p.id`, -1)
}

func (r *ProductRepo) ordered(order string, limit int) ([]domain.Product, error) {
	out := []domain.Product{}
	err := r.db.Select(&out, `SELECT `+productCols+` FROM products p ORDER BY `+order+` LIMIT ?`, limit)
	return out, err
}

// Images returns product images keyed by product id.
func (r *ProductRepo) Images(ids []int64) (map[int64][]domain.Image, error) {
	out := map[int64][]domain.Image{}
	if len(ids) == 0 {
		return out, nil
	}
	type row struct {
		ProductID int64 `db:"product_id"`
		domain.Image
	}
	q, args, err := sqlx.In(`SELECT product_id, src, alt FROM product_images WHERE product_id IN (?) ORDER BY id`, ids)
	if err != nil {
		return nil, err
	}
	var rows []row
	if err := r.db.Select(&rows, r.db.Rebind(q), args...); err != nil {
		return nil, err
	}
	for _, x := range rows {
		out[x.ProductID] = append(out[x.ProductID], x.Image)
	}
	return out, nil
}

func (r *ProductRepo) Specifications(id int64) ([]domain.Specification, error) {
	out := []domain.Specification{}
	err := r.db.Select(&out, `
	  SELECT s.name, s.value
	  FROM specifications s
	  JOIN product_specifications ps ON ps.specification_id = s.id
	  WHERE ps.product_id = ?
	  ORDER BY s.name`, id)
	return out, err
}

// SetStock stores the stock count and keeps available = count > 0.
func (r *ProductRepo) SetStock(id int64, count int) error {
	res, err := r.db.Exec(`UPDATE products SET count = ?, available = ? WHERE id = ?`, count, flag(count > 0), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// RecomputeRating sets the product rating to the mean review rate rounded
// to one decimal, or NULL when there are no reviews. Exact ties round to
// even, so 7,7,7,8 rates 7.2.
func (r *ProductRepo) RecomputeRating(id int64) (*float64, error) {
	var agg struct {
		Sum   sql.NullInt64 `db:"total"`
		Count int64         `db:"n"`
	}
	if err := r.db.Get(&agg, `SELECT SUM(rate) AS total, COUNT(*) AS n FROM reviews WHERE product_id = ?`, id); err != nil {
		return nil, err
	}
	var rating *float64
	if agg.Count > 0 {
		v := roundHalfEven(float64(agg.Sum.Int64)/float64(agg.Count), 1)
		rating = &v
	}
	if _, err := r.db.Exec(`UPDATE products SET rating = ? WHERE id = ?`, rating, id); err != nil {
		return nil, err
	}
	return rating, nil
}

// roundHalfEven rounds v to prec decimals using its exact binary value, ties
// going to the even digit.
func roundHalfEven(v float64, prec int) float64 {
	out, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', prec, 64), 64)
	return out
}
