package repos

import (
	_ "embed"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"megano/internal/domain"
)

//go:embed fixtures/catalog.yaml
var defaultFixtures []byte

type Fixtures struct {
	Categories []CategoryFixture `yaml:"categories"`
	Products   []ProductFixture  `yaml:"products"`
	Users      []UserFixture     `yaml:"users"`
}

type CategoryFixture struct {
	Title         string            `yaml:"title"`
	Image         domain.Image      `yaml:"image"`
	Subcategories []CategoryFixture `yaml:"subcategories"`
}

type ProductFixture struct {
	Title          string                 `yaml:"title"`
	Category       string                 `yaml:"category"`
	Price          string                 `yaml:"price"`
	Count          int                    `yaml:"count"`
	Description    string                 `yaml:"description"`
	FreeDelivery   bool                   `yaml:"freeDelivery"`
	QuantitySold   int                    `yaml:"quantitySold"`
	Images         []domain.Image         `yaml:"images"`
	Tags           []string               `yaml:"tags"`
	Specifications []domain.Specification `yaml:"specifications"`
	Sale           *SaleFixture           `yaml:"sale"`
}

type SaleFixture struct {
	Price  string `yaml:"price"`
	Days   int    `yaml:"days"`
	Active bool   `yaml:"active"`
}

type UserFixture struct {
	Username string `yaml:"username"`
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
	Phone    string `yaml:"phone"`
}

// LoadFixtures reads a YAML fixture file.
func LoadFixtures(path string) (*Fixtures, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixtures %s: %w", path, err)
	}
	return ParseFixtures(data)
}

// ParseFixtures parses YAML fixture data.
func ParseFixtures(data []byte) (*Fixtures, error) {
	var f Fixtures
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse fixtures YAML: %w", err)
	}
	return &f, nil
}

func seedIfEmpty(db *sqlx.DB, seedFile string) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM categories`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	var (
		f   *Fixtures
		err error
	)
	if seedFile != "" {
		f, err = LoadFixtures(seedFile)
	} else {
		f, err = ParseFixtures(defaultFixtures)
	}
	if err != nil {
		return err
	}
	log.Printf("[seed] inserting %d root categories, %d products, %d users", len(f.Categories), len(f.Products), len(f.Users))
	return Seed(db, f)
}

// Seed inserts fixtures in one transaction.
func Seed(db *sqlx.DB, f *Fixtures) error {
	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	catIDs := map[string]int64{}
	var insertCat func(c CategoryFixture, parent *int64) error
	insertCat = func(c CategoryFixture, parent *int64) error {
		res, err := tx.Exec(`INSERT INTO categories(title,parent_id,image_src,image_alt) VALUES(?,?,?,?)`,
			c.Title, parent, c.Image.Src, c.Image.Alt)
		if err != nil {
			return err
		}
		id, _ := res.LastInsertId()
		catIDs[c.Title] = id
		for _, sub := range c.Subcategories {
			if err := insertCat(sub, &id); err != nil {
				return err
			}
		}
		return nil
	}
	for _, c := range f.Categories {
		if err := insertCat(c, nil); err != nil {
			return err
		}
	}

	tagIDs := map[string]int64{}
	ts := now()
	for _, p := range f.Products {
		catID, ok := catIDs[p.Category]
		if !ok {
			return fmt.Errorf("product %q: unknown category %q", p.Title, p.Category)
		}
		price, err := decimal.NewFromString(p.Price)
		if err != nil {
			return fmt.Errorf("product %q: bad price: %w", p.Title, err)
		}
		res, err := tx.Exec(`
			INSERT INTO products(category_id,price,count,title,description,free_delivery,available,quantity_sold,created_at)
			VALUES(?,?,?,?,?,?,?,?,?)`,
			catID, price, p.Count, p.Title, p.Description, flag(p.FreeDelivery), flag(p.Count > 0), p.QuantitySold, ts)
		if err != nil {
			return err
		}
		pid, _ := res.LastInsertId()

		for _, img := range p.Images {
			if _, err := tx.Exec(`INSERT INTO product_images(product_id,src,alt) VALUES(?,?,?)`, pid, img.Src, img.Alt); err != nil {
				return err
			}
		}
		for _, name := range p.Tags {
			name = strings.TrimSpace(name)
			tid, ok := tagIDs[name]
			if !ok {
				res, err := tx.Exec(`INSERT INTO tags(name) VALUES(?)`, name)
				if err != nil {
					return err
				}
				tid, _ = res.LastInsertId()
				tagIDs[name] = tid
			}
			if _, err := tx.Exec(`INSERT INTO product_tags(tag_id,product_id) VALUES(?,?)`, tid, pid); err != nil {
				return err
			}
		}
		for _, s := range p.Specifications {
			res, err := tx.Exec(`INSERT INTO specifications(name,value) VALUES(?,?)`, s.Name, s.Value)
			if err != nil {
				return err
			}
			sid, _ := res.LastInsertId()
			if _, err := tx.Exec(`INSERT INTO product_specifications(specification_id,product_id) VALUES(?,?)`, sid, pid); err != nil {
				return err
			}
		}
		if p.Sale != nil {
			sp, err := decimal.NewFromString(p.Sale.Price)
			if err != nil {
				return fmt.Errorf("product %q: bad sale price: %w", p.Title, err)
			}
			from := time.Now().UTC()
			to := from.AddDate(0, 0, p.Sale.Days)
			if _, err := tx.Exec(`INSERT INTO sales(product_id,sale_price,date_from,date_to,status) VALUES(?,?,?,?,?)`,
				pid, sp, from.Format(TimeLayout), to.Format(TimeLayout), flag(p.Sale.Active)); err != nil {
				return err
			}
		}
	}

	for _, u := range f.Users {
		h, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		role := u.Role
		if role == "" {
			role = domain.RoleUser
		}
		first, last, _ := strings.Cut(strings.TrimSpace(u.Name), " ")
		res, err := tx.Exec(`
			INSERT INTO users(username,first_name,last_name,email,password_hash,role)
			VALUES(?,?,?,?,?,?)
			ON CONFLICT(username) DO NOTHING`,
			u.Username, first, last, u.Email, string(h), role)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			continue
		}
		uid, _ := res.LastInsertId()
		if _, err := tx.Exec(`INSERT INTO profiles(user_id,phone) VALUES(?,?)`, uid, u.Phone); err != nil {
			return err
		}
	}

	return tx.Commit()
}
