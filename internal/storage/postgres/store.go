package postgres

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/hydroflex/storefront/internal/cart"
)

var _ cart.Store = (*Store)(nil)

// Store persists cart payloads in the carts table. Each save refreshes the
// row's expiry; PurgeExpired reclaims abandoned carts.
type Store struct {
	pool *pgxpool.Pool
	ttl  time.Duration
}

// NewStore returns a Store whose rows expire ttl after their last save.
func NewStore(pool *pgxpool.Pool, ttl time.Duration) *Store {
	return &Store{pool: pool, ttl: ttl}
}

// Load returns the payload for key, or cart.ErrNotFound. Rows already past
// their expiry are treated as missing.
func (s *Store) Load(ctx context.Context, key string) ([]byte, error) {
	var payload []byte
	err := s.pool.QueryRow(ctx,
		`SELECT payload FROM carts WHERE key = $1 AND expires_at > now()`,
		key,
	).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, cart.ErrNotFound
		}
		return nil, errors.Wrapf(err, "load cart %q", key)
	}
	return payload, nil
}

// Save upserts the payload and subtotal for key, refreshing the expiry.
func (s *Store) Save(ctx context.Context, key string, payload []byte, subtotal decimal.Decimal) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO carts (key, payload, subtotal, updated_at, expires_at)
		 VALUES ($1, $2, $3, now(), now() + $4)
		 ON CONFLICT (key) DO UPDATE
		 SET payload = EXCLUDED.payload,
		     subtotal = EXCLUDED.subtotal,
		     updated_at = EXCLUDED.updated_at,
		     expires_at = EXCLUDED.expires_at`,
		key, payload, subtotal, s.ttl,
	)
	if err != nil {
		return errors.Wrapf(err, "save cart %q", key)
	}
	return nil
}

// Delete removes the row for key. Deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM carts WHERE key = $1`, key)
	if err != nil {
		return errors.Wrapf(err, "delete cart %q", key)
	}
	return nil
}

// PurgeExpired deletes rows past their expiry and returns how many were
// removed.
func (s *Store) PurgeExpired(ctx context.Context) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM carts WHERE expires_at <= now()`)
	if err != nil {
		return 0, errors.Wrap(err, "purge expired carts")
	}
	return tag.RowsAffected(), nil
}
