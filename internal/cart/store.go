package cart

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned by Store.Load when no cart is persisted under
// the given key.
var ErrNotFound = errors.New("cart not found")

// Store persists serialized cart payloads keyed by session. The subtotal
// accompanies each save so stores can index it without parsing the payload.
type Store interface {
	// Load returns the persisted payload for key, or ErrNotFound.
	Load(ctx context.Context, key string) ([]byte, error)
	// Save persists the payload for key, replacing any previous value.
	Save(ctx context.Context, key string, payload []byte, subtotal decimal.Decimal) error
	// Delete removes the payload for key. Deleting a missing key is not
	// an error.
	Delete(ctx context.Context, key string) error
}
