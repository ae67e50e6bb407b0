package catalog

import (
	"github.com/shopspring/decimal"
)

// PriceUnit describes how a product is priced: per discrete unit or per
// foot of length.
type PriceUnit string

const (
	// PerUnit products are priced per discrete unit.
	PerUnit PriceUnit = "each"
	// PerFoot products are priced per foot of length.
	PerFoot PriceUnit = "per foot"
)

// Valid reports whether u is one of the known pricing units.
func (u PriceUnit) Valid() bool {
	return u == PerUnit || u == PerFoot
}

// Spec is a single labelled specification entry on a product page.
type Spec struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Product is an immutable catalog entry. The catalog is reference data:
// products are loaded once at startup and never mutated at runtime.
type Product struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	LongDescription string          `json:"longDescription,omitempty"`
	Price           decimal.Decimal `json:"price"`
	PriceUnit       PriceUnit       `json:"priceUnit"`
	Image           string          `json:"image,omitempty"`
	Category        string          `json:"category"`
	Specs           []Spec          `json:"specs,omitempty"`
	RelatedIDs      []string        `json:"relatedIds,omitempty"`
}
