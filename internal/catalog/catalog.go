// Package catalog holds the product list the storefront sells from and
// the name search over it. The catalog is read-only after startup; an
// empty catalog is valid.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/TemiloluwaPraise/estheticalcosmetics/internal/domain"
	"github.com/TemiloluwaPraise/estheticalcosmetics/internal/pricing"
)

const defaultImage = "assets/images/shop/1.webp"

type Catalog struct {
	products []domain.Product
	byID     map[string]domain.Product
}

// New normalizes and indexes the given products. Products without an
// id get one derived from their name; products without an image get
// the default shop image.
func New(products []domain.Product) *Catalog {
	c := &Catalog{byID: make(map[string]domain.Product, len(products))}
	for _, p := range products {
		p = Normalize(p)
		if p.ID == "" {
			continue
		}
		if _, seen := c.byID[p.ID]; seen {
			continue
		}
		c.products = append(c.products, p)
		c.byID[p.ID] = p
	}
	return c
}

// LoadFile reads a JSON product list from disk.
func LoadFile(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	var products []domain.Product
	if err := json.Unmarshal(raw, &products); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file %s: %w", path, err)
	}
	return New(products), nil
}

// Normalize fills the derivable fields of a product record.
func Normalize(p domain.Product) domain.Product {
	if p.ID == "" {
		p.ID = pricing.Slugify(p.Name)
	}
	if p.Image == "" {
		p.Image = defaultImage
	}
	return p
}

// All returns the products in catalog order.
func (c *Catalog) All() []domain.Product {
	return append([]domain.Product(nil), c.products...)
}

// Get looks a product up by id.
func (c *Catalog) Get(id string) (domain.Product, bool) {
	p, ok := c.byID[id]
	return p, ok
}

// Search matches the query against product names, case-insensitively.
// An empty or blank query returns the whole catalog.
func (c *Catalog) Search(query string) []domain.Product {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return c.All()
	}
	var matches []domain.Product
	for _, p := range c.products {
		if strings.Contains(strings.ToLower(p.Name), query) {
			matches = append(matches, p)
		}
	}
	return matches
}

func (c *Catalog) Len() int {
	return len(c.products)
}
