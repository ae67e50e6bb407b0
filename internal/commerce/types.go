package commerce

import "github.com/shopspring/decimal"

// Money is a decimal amount with its currency code, as returned by the
// Storefront API.
type Money struct {
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currencyCode"`
}

// Image is a remote product image. All fields besides URL may be absent.
type Image struct {
	ID      string `json:"id"`
	URL     string `json:"url"`
	AltText string `json:"altText"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
}

// SelectedOption is a variant option such as size or color.
type SelectedOption struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Variant is a purchasable product variant.
type Variant struct {
	ID               string           `json:"id"`
	Title            string           `json:"title"`
	AvailableForSale bool             `json:"availableForSale"`
	Price            Money            `json:"price"`
	CompareAtPrice   *Money           `json:"compareAtPrice"`
	SelectedOptions  []SelectedOption `json:"selectedOptions"`
	Image            *Image           `json:"image"`
}

// Metafield is a custom key/value field attached to a product.
type Metafield struct {
	Namespace string `json:"namespace"`
	Key       string `json:"key"`
	Value     string `json:"value"`
	Type      string `json:"type"`
}

// PriceRange holds the variant price bounds of a product.
type PriceRange struct {
	MinVariantPrice Money `json:"minVariantPrice"`
	MaxVariantPrice Money `json:"maxVariantPrice"`
}

// Product is a remote catalog product. Nested objects are optional: the
// backend may omit images, prices, or variants.
type Product struct {
	ID              string      `json:"id"`
	Handle          string      `json:"handle"`
	Title           string      `json:"title"`
	Description     string      `json:"description"`
	DescriptionHTML string      `json:"descriptionHtml"`
	ProductType     string      `json:"productType"`
	Tags            []string    `json:"tags"`
	FeaturedImage   *Image      `json:"featuredImage"`
	PriceRange      *PriceRange `json:"priceRange"`
	Variants        connection[Variant] `json:"variants"`
	Metafields      []Metafield `json:"metafields"`
}

// Collection is a remote product collection.
type Collection struct {
	ID          string `json:"id"`
	Handle      string `json:"handle"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       *Image `json:"image"`
	Products    connection[Product] `json:"products"`
}

// PageInfo is the cursor pagination envelope of a connection.
type PageInfo struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor"`
}

// connection mirrors the GraphQL edges/node relay shape.
type connection[T any] struct {
	PageInfo PageInfo  `json:"pageInfo"`
	Edges    []edge[T] `json:"edges"`
}

type edge[T any] struct {
	Node T `json:"node"`
}

// Nodes flattens the connection's edges.
func (c connection[T]) Nodes() []T {
	out := make([]T, len(c.Edges))
	for i, e := range c.Edges {
		out[i] = e.Node
	}
	return out
}

// Attribute is a key/value attribute on a cart line.
type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Merchandise identifies the variant a cart line refers to.
type Merchandise struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Product struct {
		ID            string `json:"id"`
		Title         string `json:"title"`
		Handle        string `json:"handle"`
		FeaturedImage *Image `json:"featuredImage"`
	} `json:"product"`
}

// Line is one line of a remote cart.
type Line struct {
	ID          string      `json:"id"`
	Quantity    int         `json:"quantity"`
	Attributes  []Attribute `json:"attributes"`
	Merchandise Merchandise `json:"merchandise"`
	Cost        struct {
		TotalAmount Money `json:"totalAmount"`
	} `json:"cost"`
}

// Cost is the remote cart's price breakdown. TotalTaxAmount may be absent
// until the backend has calculated taxes.
type Cost struct {
	SubtotalAmount Money  `json:"subtotalAmount"`
	TotalAmount    Money  `json:"totalAmount"`
	TotalTaxAmount *Money `json:"totalTaxAmount"`
}

// Cart is the remote cart snapshot. Its id is an opaque token issued by
// the backend and is valid only for as long as the backend accepts it.
type Cart struct {
	ID            string `json:"id"`
	CheckoutURL   string `json:"checkoutUrl"`
	TotalQuantity int    `json:"totalQuantity"`
	Cost          Cost   `json:"cost"`
	Lines         connection[Line] `json:"lines"`
}

// LineInput is the payload for adding a line to a remote cart.
type LineInput struct {
	MerchandiseID string      `json:"merchandiseId"`
	Quantity      int         `json:"quantity"`
	Attributes    []Attribute `json:"attributes,omitempty"`
}

// lineUpdateInput is the payload for changing an existing line's quantity.
type lineUpdateInput struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}
