package domain

import "github.com/shopspring/decimal"

type Category struct {
	ID       int64  `db:"id"`
	Title    string `db:"title"`
	ParentID *int64 `db:"parent_id"`
	ImageSrc string `db:"image_src"`
	ImageAlt string `db:"image_alt"`
}

type Image struct {
	Src string `db:"src" json:"src"`
	Alt string `db:"alt" json:"alt"`
}

type Product struct {
	ID           int64           `db:"id"`
	CategoryID   int64           `db:"category_id"`
	Price        decimal.Decimal `db:"price"`
	Count        int             `db:"count"`
	Title        string          `db:"title"`
	Description  string          `db:"description"`
	FreeDelivery bool            `db:"free_delivery"`
	Available    bool            `db:"available"`
	Rating       *float64        `db:"rating"`
	QuantitySold int             `db:"quantity_sold"`
	ReviewCount  int             `db:"review_count"`
	CreatedAt    string          `db:"created_at"`

	// Filled by the catalog service, not by the product row itself.
	Images []Image `db:"-"`
	Tags   []Tag   `db:"-"`
}

type Tag struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

type Specification struct {
	Name  string `db:"name" json:"name"`
	Value string `db:"value" json:"value"`
}

type Review struct {
	ID        int64  `db:"id"`
	UserID    int64  `db:"user_id"`
	ProductID int64  `db:"product_id"`
	Author    string `db:"author"`
	Email     string `db:"email"`
	Text      string `db:"text"`
	Rate      int    `db:"rate"`
	CreatedAt string `db:"created_at"`
}

type Sale struct {
	ID        int64           `db:"id"`
	ProductID int64           `db:"product_id"`
	SalePrice decimal.Decimal `db:"sale_price"`
	DateFrom  string          `db:"date_from"`
	DateTo    string          `db:"date_to"`
	Status    bool            `db:"status"`
}

// ProductDetail is a product together with everything the detail page shows.
type ProductDetail struct {
	Product
	Reviews        []Review
	Specifications []Specification
}

// SaleItem joins an active sale with the product it discounts.
type SaleItem struct {
	Sale
	Title  string          `db:"title"`
	Price  decimal.Decimal `db:"price"`
	Images []Image         `db:"-"`
}
