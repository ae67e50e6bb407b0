package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProducts() []Product {
	return []Product{
		{
			ID:          "hose-1",
			Name:        "SAE 100R2AT Hydraulic Hose",
			Description: "Two-wire braided hose",
			Price:       decimal.RequireFromString("12.99"),
			PriceUnit:   PerFoot,
			Category:    "hydraulic-hoses",
			RelatedIDs:  []string{"fit-1", "qd-1"},
		},
		{
			ID:          "fit-1",
			Name:        "JIC Female Swivel Fitting",
			Description: "37-degree flare fitting",
			Price:       decimal.RequireFromString("8.50"),
			PriceUnit:   PerUnit,
			Category:    "fittings",
			RelatedIDs:  []string{"hose-1"},
		},
		{
			ID:          "qd-1",
			Name:        "ISO 16028 Quick Coupler",
			Description: "Flat-face quick disconnect",
			Price:       decimal.RequireFromString("24.99"),
			PriceUnit:   PerUnit,
			Category:    "quick-disconnects",
			RelatedIDs:  []string{"hose-1", "fit-1"},
		},
		{
			ID:          "fit-2",
			Name:        "NPT to JIC Adapter",
			Description: "Steel adapter",
			Price:       decimal.RequireFromString("6.75"),
			PriceUnit:   PerUnit,
			Category:    "adapters",
			RelatedIDs:  nil,
		},
	}
}

func newTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := New(testProducts())
	require.NoError(t, err)
	return c
}

func TestNew_DuplicateID(t *testing.T) {
	products := testProducts()
	products = append(products, products[0])

	_, err := New(products)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate product id")
}

func TestNew_InvalidPriceUnit(t *testing.T) {
	products := testProducts()
	products[0].PriceUnit = "per meter"

	_, err := New(products)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "price unit")
}

func TestDefault_ParsesEmbeddedTable(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	assert.NotEmpty(t, c.Products())
	for _, p := range c.Products() {
		assert.True(t, p.PriceUnit.Valid(), "product %s", p.ID)
	}
}

func TestGetByID(t *testing.T) {
	c := newTestCatalog(t)

	p := c.GetByID("fit-1")
	require.NotNil(t, p)
	assert.Equal(t, "JIC Female Swivel Fitting", p.Name)

	assert.Nil(t, c.GetByID("missing"))
}

func TestByCategory(t *testing.T) {
	c := newTestCatalog(t)

	assert.Len(t, c.ByCategory("fittings"), 1)
	assert.Empty(t, c.ByCategory("nonexistent"))
}

func TestRelated(t *testing.T) {
	c := newTestCatalog(t)

	// Results follow catalog order, not related-id order.
	related := c.Related("qd-1")
	require.Len(t, related, 2)
	assert.Equal(t, "hose-1", related[0].ID)
	assert.Equal(t, "fit-1", related[1].ID)

	assert.Empty(t, c.Related("missing"))
	assert.Empty(t, c.Related("fit-2"))
}

func TestSearch(t *testing.T) {
	c := newTestCatalog(t)

	tests := []struct {
		name    string
		query   string
		wantIDs []string
	}{
		{name: "empty query", query: "", wantIDs: nil},
		{name: "single char throttled", query: "j", wantIDs: nil},
		{name: "whitespace only", query: "   ", wantIDs: nil},
		{name: "short after trim", query: " a ", wantIDs: nil},
		{name: "single multi-byte rune throttled", query: "ø", wantIDs: nil},
		{name: "match name case-insensitive", query: "jic", wantIDs: []string{"fit-1", "fit-2"}},
		{name: "match description", query: "braided", wantIDs: []string{"hose-1"}},
		{name: "match category", query: "quick-disc", wantIDs: []string{"qd-1"}},
		{name: "no match", query: "widget", wantIDs: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Search(tt.query)
			var ids []string
			for _, p := range got {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestSuggest_CapsResults(t *testing.T) {
	products := make([]Product, 0, SuggestLimit+3)
	for i := range SuggestLimit + 3 {
		products = append(products, Product{
			ID:        string(rune('a' + i)),
			Name:      "Hydraulic Hose",
			Price:     decimal.New(1, 0),
			PriceUnit: PerFoot,
			Category:  "hydraulic-hoses",
		})
	}
	c, err := New(products)
	require.NoError(t, err)

	assert.Len(t, c.Search("hose"), SuggestLimit+3)
	assert.Len(t, c.Suggest("hose"), SuggestLimit)
}

func TestCategoryName(t *testing.T) {
	assert.Equal(t, "Hoses", CategoryName("hydraulic-hoses"))
	assert.Equal(t, "unknown-slug", CategoryName("unknown-slug"))
}
