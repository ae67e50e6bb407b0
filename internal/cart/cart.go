// Package cart implements the local fallback cart: a client-scoped line
// item list usable without the commerce backend, persisted through a Store
// after every mutation.
package cart

import (
	"context"
	"encoding/json"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hydroflex/storefront/internal/catalog"
)

// Item is one cart line. Quantity is meaningful only for unit-priced
// items; Length only for length-priced items. TotalPrice is recomputed on
// every mutation and never left stale.
type Item struct {
	ID         string            `json:"id"`
	ProductID  string            `json:"productId"`
	Name       string            `json:"name"`
	Price      decimal.Decimal   `json:"price"`
	PriceUnit  catalog.PriceUnit `json:"priceUnit"`
	Quantity   int               `json:"quantity"`
	Length     int               `json:"length,omitempty"`
	TotalPrice decimal.Decimal   `json:"totalPrice"`
}

// recompute derives TotalPrice from the pricing unit.
func (it *Item) recompute() {
	switch it.PriceUnit {
	case catalog.PerFoot:
		it.TotalPrice = it.Price.Mul(decimal.NewFromInt(int64(it.Length)))
	default:
		it.TotalPrice = it.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
	}
}

// payload is the persisted blob shape.
type payload struct {
	Items []Item `json:"items"`
}

// Cart is a session-scoped local cart. Not safe for concurrent use; the
// owning session serializes access.
type Cart struct {
	store Store
	key   string
	items []Item

	newID func() string
}

// New creates an empty cart persisting under the given storage key.
func New(store Store, key string) *Cart {
	return &Cart{
		store: store,
		key:   key,
		newID: func() string { return uuid.New().String() },
	}
}

// Load restores items from the store. Missing or malformed data resets the
// cart to empty; corruption is never fatal.
func (c *Cart) Load(ctx context.Context) {
	c.items = nil
	raw, err := c.store.Load(ctx, c.key)
	if err != nil {
		return
	}
	var p payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return
	}
	c.items = p.Items
}

// Save persists the current items. Called after every mutation.
func (c *Cart) Save(ctx context.Context) error {
	raw, err := json.Marshal(payload{Items: c.items})
	if err != nil {
		return errors.Wrap(err, "marshal cart")
	}
	if err := c.store.Save(ctx, c.key, raw, c.Subtotal()); err != nil {
		return errors.Wrap(err, "save cart")
	}
	return nil
}

// AddItem adds a product to the cart and persists the result.
//
// Unit-priced items merge with an existing line for the same product by
// incrementing its quantity. Length-priced items merge only when the same
// product is already present with exactly the same length, in which case
// the existing line is updated in place; any other length creates a
// distinct line.
func (c *Cart) AddItem(ctx context.Context, p catalog.Product, quantity, length int) (Item, error) {
	if quantity <= 0 {
		quantity = 1
	}

	if idx := c.findMergeTarget(p, length); idx >= 0 {
		it := &c.items[idx]
		if p.PriceUnit == catalog.PerUnit {
			it.Quantity += quantity
		}
		it.recompute()
		if err := c.Save(ctx); err != nil {
			return Item{}, err
		}
		return *it, nil
	}

	it := Item{
		ID:        c.newID(),
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		PriceUnit: p.PriceUnit,
		Quantity:  quantity,
	}
	if p.PriceUnit == catalog.PerFoot {
		it.Quantity = 1
		it.Length = length
	}
	it.recompute()

	c.items = append(c.items, it)
	if err := c.Save(ctx); err != nil {
		return Item{}, err
	}
	return it, nil
}

// findMergeTarget returns the index of the line the add should merge into,
// or -1 when a new line is required.
func (c *Cart) findMergeTarget(p catalog.Product, length int) int {
	for i := range c.items {
		if c.items[i].ProductID != p.ID {
			continue
		}
		if p.PriceUnit == catalog.PerFoot {
			if c.items[i].Length == length {
				return i
			}
			continue
		}
		return i
	}
	return -1
}

// UpdateQuantity sets the quantity of a line. A non-positive quantity
// removes the line.
func (c *Cart) UpdateQuantity(ctx context.Context, itemID string, quantity int) error {
	idx := c.indexOf(itemID)
	if idx < 0 {
		return nil
	}
	if quantity <= 0 {
		return c.RemoveItem(ctx, itemID)
	}
	it := &c.items[idx]
	it.Quantity = quantity
	if it.PriceUnit == catalog.PerUnit {
		it.recompute()
	}
	return c.Save(ctx)
}

// UpdateLength sets the length of a length-priced line. A non-positive
// length removes the line. Unit-priced lines are left untouched.
func (c *Cart) UpdateLength(ctx context.Context, itemID string, length int) error {
	idx := c.indexOf(itemID)
	if idx < 0 || c.items[idx].PriceUnit != catalog.PerFoot {
		return nil
	}
	if length <= 0 {
		return c.RemoveItem(ctx, itemID)
	}
	it := &c.items[idx]
	it.Length = length
	it.recompute()
	return c.Save(ctx)
}

// RemoveItem deletes a line by id.
func (c *Cart) RemoveItem(ctx context.Context, itemID string) error {
	idx := c.indexOf(itemID)
	if idx < 0 {
		return nil
	}
	c.items = append(c.items[:idx], c.items[idx+1:]...)
	return c.Save(ctx)
}

// Clear removes every line.
func (c *Cart) Clear(ctx context.Context) error {
	c.items = nil
	return c.Save(ctx)
}

func (c *Cart) indexOf(itemID string) int {
	for i := range c.items {
		if c.items[i].ID == itemID {
			return i
		}
	}
	return -1
}

// Items returns the cart lines in insertion order. The returned slice is
// shared; callers must not modify it.
func (c *Cart) Items() []Item {
	return c.items
}

// LineCount returns the number of lines.
func (c *Cart) LineCount() int {
	return len(c.items)
}

// TotalUnits counts unit-priced items by quantity; each length-priced line
// counts as one regardless of length.
func (c *Cart) TotalUnits() int {
	total := 0
	for _, it := range c.items {
		if it.PriceUnit == catalog.PerFoot {
			total++
			continue
		}
		total += it.Quantity
	}
	return total
}

// Subtotal is the sum of all line totals.
func (c *Cart) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range c.items {
		sum = sum.Add(it.TotalPrice)
	}
	return sum
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}
