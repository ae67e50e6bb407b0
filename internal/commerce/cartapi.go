package commerce

import (
	"context"

	"github.com/go-faster/errors"
)

// mutationPayload is the common shape of every cart mutation result.
type mutationPayload struct {
	Cart       *Cart         `json:"cart"`
	UserErrors UserErrorList `json:"userErrors"`
}

// cartMutation runs a cart mutation document and applies the user-error
// policy: any user error fails the operation as a whole and no cart is
// returned.
func (c *Client) cartMutation(ctx context.Context, doc, field string, vars any) (*Cart, error) {
	var resp map[string]mutationPayload
	if err := c.do(ctx, doc, vars, &resp); err != nil {
		return nil, err
	}
	p, ok := resp[field]
	if !ok {
		return nil, errors.Wrapf(ErrNoData, "missing %s payload", field)
	}
	if len(p.UserErrors) > 0 {
		return nil, p.UserErrors
	}
	return p.Cart, nil
}

// CartCreate submits the initial line list to the backend and returns the
// newly issued cart.
func (c *Client) CartCreate(ctx context.Context, lines []LineInput) (*Cart, error) {
	return c.cartMutation(ctx, mutationCartCreate, "cartCreate", map[string]any{
		"lines": lines,
	})
}

// CartLinesAdd appends lines to an existing cart.
func (c *Client) CartLinesAdd(ctx context.Context, cartID string, lines []LineInput) (*Cart, error) {
	return c.cartMutation(ctx, mutationCartLinesAdd, "cartLinesAdd", map[string]any{
		"cartId": cartID,
		"lines":  lines,
	})
}

// CartLinesUpdate changes the quantity of one line.
func (c *Client) CartLinesUpdate(ctx context.Context, cartID, lineID string, quantity int) (*Cart, error) {
	return c.cartMutation(ctx, mutationCartLinesUpdate, "cartLinesUpdate", map[string]any{
		"cartId": cartID,
		"lines":  []lineUpdateInput{{ID: lineID, Quantity: quantity}},
	})
}

// CartLinesRemove deletes one line.
func (c *Client) CartLinesRemove(ctx context.Context, cartID, lineID string) (*Cart, error) {
	return c.cartMutation(ctx, mutationCartLinesRemove, "cartLinesRemove", map[string]any{
		"cartId":  cartID,
		"lineIds": []string{lineID},
	})
}

// CartByID fetches the current cart snapshot. A null cart in the response
// means the backend no longer recognizes the id; this surfaces as
// ErrCartExpired.
func (c *Client) CartByID(ctx context.Context, cartID string) (*Cart, error) {
	var resp struct {
		Cart *Cart `json:"cart"`
	}
	if err := c.do(ctx, queryCart, map[string]any{"cartId": cartID}, &resp); err != nil {
		return nil, err
	}
	if resp.Cart == nil {
		return nil, ErrCartExpired
	}
	return resp.Cart, nil
}
