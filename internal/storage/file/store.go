// Package file implements a cart blob store on the local filesystem. It is
// the default store for single-node deployments without a database.
package file

import (
	"context"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/hydroflex/storefront/internal/cart"
)

var _ cart.Store = (*Store)(nil)

// Store persists each cart payload as one JSON file under a directory.
type Store struct {
	dir string
}

// New creates the directory when missing and returns the store.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create store directory")
	}
	return &Store{dir: dir}, nil
}

// path maps a storage key to a file name. Keys may contain characters that
// are unsafe in file names (session ids are UUIDs today, but the store
// does not rely on that), so anything outside [a-zA-Z0-9._-] is hex-escaped.
func (s *Store) path(key string) string {
	var b strings.Builder
	for i := 0; i < len(key); i++ {
		c := key[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '.', c == '_', c == '-':
			b.WriteByte(c)
		default:
			b.WriteByte('%')
			b.WriteString(hex.EncodeToString([]byte{c}))
		}
	}
	return filepath.Join(s.dir, b.String()+".json")
}

// Load returns the payload for key, or cart.ErrNotFound.
func (s *Store) Load(_ context.Context, key string) ([]byte, error) {
	raw, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, cart.ErrNotFound
		}
		return nil, errors.Wrap(err, "read cart file")
	}
	return raw, nil
}

// Save writes the payload atomically: to a temp file first, then renamed
// over the target. The subtotal is not indexed by this store.
func (s *Store) Save(_ context.Context, key string, payload []byte, _ decimal.Decimal) error {
	target := s.path(key)
	tmp, err := os.CreateTemp(s.dir, ".cart-*")
	if err != nil {
		return errors.Wrap(err, "create temp file")
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return errors.Wrap(err, "write cart file")
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return errors.Wrap(err, "close cart file")
	}
	if err := os.Rename(tmpName, target); err != nil {
		_ = os.Remove(tmpName)
		return errors.Wrap(err, "replace cart file")
	}
	return nil
}

// Delete removes the payload for key. Missing files are not an error.
func (s *Store) Delete(_ context.Context, key string) error {
	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "delete cart file")
	}
	return nil
}
