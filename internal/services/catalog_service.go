package services

import (
	"strings"

	"megano/internal/domain"
	"megano/internal/repos"
	"megano/internal/validate"
)

const (
	topN         = 10
	maxPageLimit = 100
)

// Page is one page of a listing. LastPage is at least 1.
type Page[T any] struct {
	Items       []T
	CurrentPage int
	LastPage    int
}

func newPage[T any](items []T, total, page, limit int) Page[T] {
	last := (total + limit - 1) / limit
	if last < 1 {
		last = 1
	}
	return Page[T]{Items: items, CurrentPage: page, LastPage: last}
}

// CategoryNode is a category with its direct subcategories.
type CategoryNode struct {
	domain.Category
	Subcategories []domain.Category
}

// CatalogQuery describes a catalog listing request.
type CatalogQuery struct {
	Filter     repos.ProductFilter
	CategoryID *int64
	Sort       repos.ProductSort
	Page       int
	Limit      int
}

type CatalogService struct {
	Cats     *repos.CategoryRepo
	Prods    *repos.ProductRepo
	Tags     *repos.TagRepo
	Sales    *repos.SaleRepo
	Reviews  *repos.ReviewRepo
	PageSize int
}

func NewCatalogService(cats *repos.CategoryRepo, prods *repos.ProductRepo, tags *repos.TagRepo, sales *repos.SaleRepo, reviews *repos.ReviewRepo) *CatalogService {
	return &CatalogService{Cats: cats, Prods: prods, Tags: tags, Sales: sales, Reviews: reviews, PageSize: 20}
}

func (s *CatalogService) paging(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = s.PageSize
	}
	if limit <= 0 {
		limit = 20
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}

// Categories returns root categories with one level of children.
func (s *CatalogService) Categories() ([]CategoryNode, error) {
	tree, err := s.Cats.Tree()
	if err != nil {
		return nil, err
	}
	roots := tree.Roots()
	out := make([]CategoryNode, 0, len(roots))
	for _, c := range roots {
		out = append(out, CategoryNode{Category: c, Subcategories: tree.Children(c.ID)})
	}
	return out, nil
}

// List pages through the catalog. A category filter matches the category and
// its direct children.
func (s *CatalogService) List(q CatalogQuery) (Page[domain.Product], error) {
	page, limit := s.paging(q.Page, q.Limit)
	f := q.Filter
	if q.CategoryID != nil {
		tree, err := s.Cats.Tree()
		if err != nil {
			return Page[domain.Product]{}, err
		}
		f.CategoryIDs = tree.FilterSet(*q.CategoryID)
	}
	items, total, err := s.Prods.List(f, q.Sort, limit, (page-1)*limit)
	if err != nil {
		return Page[domain.Product]{}, err
	}
	if err := attachMedia(s.Prods, s.Tags, items); err != nil {
		return Page[domain.Product]{}, err
	}
	return newPage(items, total, page, limit), nil
}

func (s *CatalogService) Product(id int64) (domain.ProductDetail, error) {
	p, err := s.Prods.Get(id)
	if err != nil {
		return domain.ProductDetail{}, notFound(err, ErrProductNotFound)
	}
	ps := []domain.Product{p}
	if err := attachMedia(s.Prods, s.Tags, ps); err != nil {
		return domain.ProductDetail{}, err
	}
	d := domain.ProductDetail{Product: ps[0]}
	if d.Reviews, err = s.Reviews.ListByProduct(id); err != nil {
		return d, err
	}
	if d.Specifications, err = s.Prods.Specifications(id); err != nil {
		return d, err
	}
	return d, nil
}

// Popular lists the best sellers.
func (s *CatalogService) Popular() ([]domain.Product, error) {
	return s.withMedia(s.Prods.Popular(topN))
}

// Limited lists the products closest to selling out.
func (s *CatalogService) Limited() ([]domain.Product, error) {
	return s.withMedia(s.Prods.Limited(topN))
}

func (s *CatalogService) Banners() ([]domain.Product, error) {
	return s.withMedia(s.Prods.All())
}

func (s *CatalogService) withMedia(ps []domain.Product, err error) ([]domain.Product, error) {
	if err != nil {
		return nil, err
	}
	if err := attachMedia(s.Prods, s.Tags, ps); err != nil {
		return nil, err
	}
	return ps, nil
}

// ListSales pages through active sales, earliest start first.
func (s *CatalogService) ListSales(page, limit int) (Page[domain.SaleItem], error) {
	page, limit = s.paging(page, limit)
	items, total, err := s.Sales.ListActive(limit, (page-1)*limit)
	if err != nil {
		return Page[domain.SaleItem]{}, err
	}
	ids := make([]int64, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}
	imgs, err := s.Prods.Images(ids)
	if err != nil {
		return Page[domain.SaleItem]{}, err
	}
	for i := range items {
		items[i].Images = imgs[items[i].ProductID]
		if items[i].Images == nil {
			items[i].Images = []domain.Image{}
		}
	}
	return newPage(items, total, page, limit), nil
}

// ListTags lists all tags, or with a category only those carried by products of
// the category and its direct children.
func (s *CatalogService) ListTags(categoryID *int64) ([]domain.Tag, error) {
	if categoryID == nil {
		return s.Tags.List()
	}
	tree, err := s.Cats.Tree()
	if err != nil {
		return nil, err
	}
	return s.Tags.ListForCategories(tree.FilterSet(*categoryID))
}

// CreateCategory adds a category under parent, or as a root when parent is nil.
func (s *CatalogService) CreateCategory(title string, parent *int64, image domain.Image) (int64, error) {
	title, ok := validate.Name(title)
	if !ok {
		return 0, validate.Errors{"title": "title is required, up to 100 characters"}
	}
	return s.Cats.Create(domain.Category{
		Title:    title,
		ParentID: parent,
		ImageSrc: strings.TrimSpace(image.Src),
		ImageAlt: strings.TrimSpace(image.Alt),
	})
}

// MoveCategory re-parents a category. Moves that would put a category below
// itself fail with ErrCategoryCycle.
func (s *CatalogService) MoveCategory(id int64, parent *int64) error {
	return s.Cats.Move(id, parent)
}
