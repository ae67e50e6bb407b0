// Package catalog holds the static product catalog and read-only queries
// over it: lookup, category filtering, related products, and search.
package catalog

import (
	_ "embed"
	"encoding/json"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/go-faster/errors"
)

// SuggestLimit caps the number of results returned by Suggest. Live search
// dropdowns show at most this many entries; full search is uncapped.
const SuggestLimit = 6

// minQueryLen is the minimum normalized query length for search. Shorter
// queries return no results; this throttles one-character lookups from the
// live search box and is not an error.
const minQueryLen = 2

//go:embed products.json
var embeddedProducts []byte

// Catalog is an ordered, immutable product table with an id index.
type Catalog struct {
	products []Product
	byID     map[string]int
}

// New builds a Catalog from the given products, preserving their order.
// Duplicate ids are rejected.
func New(products []Product) (*Catalog, error) {
	byID := make(map[string]int, len(products))
	for i, p := range products {
		if p.ID == "" {
			return nil, errors.Errorf("product at index %d has empty id", i)
		}
		if _, ok := byID[p.ID]; ok {
			return nil, errors.Errorf("duplicate product id %q", p.ID)
		}
		if !p.PriceUnit.Valid() {
			return nil, errors.Errorf("product %q has unknown price unit %q", p.ID, p.PriceUnit)
		}
		byID[p.ID] = i
	}
	return &Catalog{products: products, byID: byID}, nil
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// Default returns the catalog parsed from the embedded product table.
// The table is parsed once; subsequent calls return the same instance.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		var products []Product
		if err := json.Unmarshal(embeddedProducts, &products); err != nil {
			defaultErr = errors.Wrap(err, "parse embedded products")
			return
		}
		defaultCatalog, defaultErr = New(products)
	})
	return defaultCatalog, defaultErr
}

// Products returns all products in catalog order. The returned slice is
// shared; callers must not modify it.
func (c *Catalog) Products() []Product {
	return c.products
}

// GetByID returns the product with the given id, or nil when unknown.
func (c *Catalog) GetByID(id string) *Product {
	i, ok := c.byID[id]
	if !ok {
		return nil
	}
	return &c.products[i]
}

// ByCategory returns every product in the given category, in catalog order.
func (c *Catalog) ByCategory(category string) []Product {
	var out []Product
	for _, p := range c.products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

// Related returns the products whose ids appear in the source product's
// related-id list, in catalog order. Unknown ids yield an empty list.
func (c *Catalog) Related(id string) []Product {
	p := c.GetByID(id)
	if p == nil {
		return nil
	}
	related := make(map[string]struct{}, len(p.RelatedIDs))
	for _, rid := range p.RelatedIDs {
		related[rid] = struct{}{}
	}
	var out []Product
	for _, candidate := range c.products {
		if _, ok := related[candidate.ID]; ok {
			out = append(out, candidate)
		}
	}
	return out
}

// Search returns products whose name, description, or category contains the
// query, case-insensitively, in catalog order. Queries shorter than two
// characters after trimming return no results.
func (c *Catalog) Search(query string) []Product {
	q := strings.ToLower(strings.TrimSpace(query))
	if utf8.RuneCountInString(q) < minQueryLen {
		return nil
	}
	var out []Product
	for _, p := range c.products {
		if strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Description), q) ||
			strings.Contains(strings.ToLower(p.Category), q) {
			out = append(out, p)
		}
	}
	return out
}

// Suggest is Search capped to SuggestLimit results, for live suggestions.
func (c *Catalog) Suggest(query string) []Product {
	out := c.Search(query)
	if len(out) > SuggestLimit {
		out = out[:SuggestLimit]
	}
	return out
}

// categoryNames maps category slugs to display names for search results.
var categoryNames = map[string]string{
	"hydraulic-hoses":   "Hoses",
	"fittings":          "Fittings",
	"quick-disconnects": "Quick Disconnects",
	"adapters":          "Adapters",
}

// CategoryName returns the display name for a category slug, falling back
// to the slug itself.
func CategoryName(category string) string {
	if name, ok := categoryNames[category]; ok {
		return name
	}
	return category
}
