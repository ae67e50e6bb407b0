package commerce

import (
	"context"

	"github.com/go-faster/errors"
)

// ProductsQuery narrows a Products call. Zero values mean no cursor and no
// search filter.
type ProductsQuery struct {
	First int
	After string
	Query string
}

// ProductsPage is one page of remote products.
type ProductsPage struct {
	Products    []Product `json:"products"`
	HasNextPage bool      `json:"hasNextPage"`
	EndCursor   string    `json:"endCursor"`
}

// Products lists remote products with cursor pagination. Returns an empty
// page when the backend is not configured.
func (c *Client) Products(ctx context.Context, q ProductsQuery) (ProductsPage, error) {
	if !c.cfg.Configured() {
		logNotConfigured(ctx, "products")
		return ProductsPage{}, nil
	}

	first := q.First
	if first <= 0 {
		first = 20
	}
	vars := map[string]any{"first": first}
	if q.After != "" {
		vars["after"] = q.After
	}
	if q.Query != "" {
		vars["query"] = q.Query
	}

	var resp struct {
		Products connection[Product] `json:"products"`
	}
	if err := c.do(ctx, queryProducts, vars, &resp); err != nil {
		return ProductsPage{}, errors.Wrap(err, "get products")
	}

	return ProductsPage{
		Products:    resp.Products.Nodes(),
		HasNextPage: resp.Products.PageInfo.HasNextPage,
		EndCursor:   resp.Products.PageInfo.EndCursor,
	}, nil
}

// ProductByHandle returns one remote product with its configurator
// metafields, or nil when it does not exist or the backend is not
// configured.
func (c *Client) ProductByHandle(ctx context.Context, handle string) (*Product, error) {
	if !c.cfg.Configured() {
		logNotConfigured(ctx, "product_by_handle")
		return nil, nil
	}

	var resp struct {
		ProductByHandle *Product `json:"productByHandle"`
	}
	if err := c.do(ctx, queryProductByHandle, map[string]any{"handle": handle}, &resp); err != nil {
		return nil, errors.Wrapf(err, "get product %q", handle)
	}
	return resp.ProductByHandle, nil
}

// CollectionByHandle returns one remote collection with up to first
// products, or nil when it does not exist or the backend is not
// configured.
func (c *Client) CollectionByHandle(ctx context.Context, handle string, first int) (*Collection, error) {
	if !c.cfg.Configured() {
		logNotConfigured(ctx, "collection_by_handle")
		return nil, nil
	}

	if first <= 0 {
		first = 20
	}
	var resp struct {
		CollectionByHandle *Collection `json:"collectionByHandle"`
	}
	vars := map[string]any{"handle": handle, "first": first}
	if err := c.do(ctx, queryCollectionByHandle, vars, &resp); err != nil {
		return nil, errors.Wrapf(err, "get collection %q", handle)
	}
	return resp.CollectionByHandle, nil
}
