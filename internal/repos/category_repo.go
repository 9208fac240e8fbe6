package repos

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"megano/internal/domain"
)

type CategoryRepo struct{ db *sqlx.DB }

func NewCategoryRepo(db *sqlx.DB) *CategoryRepo { return &CategoryRepo{db: db} }

func (r *CategoryRepo) List() ([]domain.Category, error) {
	var out []domain.Category
	err := r.db.Select(&out, `
  SELECT id, title, parent_id, image_src, image_alt
  FROM categories
  ORDER BY title
`)
	return out, err
}

// Tree loads every category into an adjacency-list tree.
func (r *CategoryRepo) Tree() (*domain.CategoryTree, error) {
	cats, err := r.List()
	if err != nil {
		return nil, err
	}
	return domain.NewCategoryTree(cats)
}

// Create inserts a category after checking that the parent chain stays acyclic.
func (r *CategoryRepo) Create(c domain.Category) (int64, error) {
	if c.ParentID != nil {
		tree, err := r.Tree()
		if err != nil {
			return 0, err
		}
		if _, ok := tree.Get(*c.ParentID); !ok {
			return 0, fmt.Errorf("%w: parent %d", domain.ErrCategoryNotFound, *c.ParentID)
		}
	}
	res, err := r.db.Exec(`INSERT INTO categories(title,parent_id,image_src,image_alt) VALUES(?,?,?,?)`,
		c.Title, c.ParentID, c.ImageSrc, c.ImageAlt)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// Move re-parents a category; a nil parent makes it a root.
func (r *CategoryRepo) Move(id int64, parent *int64) error {
	tree, err := r.Tree()
	if err != nil {
		return err
	}
	if _, ok := tree.Get(id); !ok {
		return fmt.Errorf("%w: %d", domain.ErrCategoryNotFound, id)
	}
	if parent != nil {
		if _, ok := tree.Get(*parent); !ok {
			return fmt.Errorf("%w: parent %d", domain.ErrCategoryNotFound, *parent)
		}
		if !tree.CanAttach(id, *parent) {
			return fmt.Errorf("%w: %d under %d", domain.ErrCategoryCycle, id, *parent)
		}
	}
	_, err = r.db.Exec(`UPDATE categories SET parent_id=? WHERE id=?`, parent, id)
	return err
}
