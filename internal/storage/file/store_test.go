package file

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hydroflex/storefront/internal/cart"
)

func TestStore_RoundTrip(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = s.Load(ctx, "missing")
	assert.ErrorIs(t, err, cart.ErrNotFound)

	payload := []byte(`{"items":[]}`)
	require.NoError(t, s.Save(ctx, "session-1", payload, decimal.Zero))

	got, err := s.Load(ctx, "session-1")
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	// Save replaces.
	require.NoError(t, s.Save(ctx, "session-1", []byte(`{}`), decimal.Zero))
	got, err = s.Load(ctx, "session-1")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{}`), got)

	require.NoError(t, s.Delete(ctx, "session-1"))
	_, err = s.Load(ctx, "session-1")
	assert.ErrorIs(t, err, cart.ErrNotFound)

	// Deleting a missing key is fine.
	require.NoError(t, s.Delete(ctx, "session-1"))
}

func TestStore_EscapesUnsafeKeys(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	key := "cart/../../etc:passwd"
	require.NoError(t, s.Save(ctx, key, []byte(`{"items":[]}`), decimal.Zero))

	got, err := s.Load(ctx, key)
	require.NoError(t, err)
	assert.NotEmpty(t, got)

	// A different unsafe key does not collide.
	_, err = s.Load(ctx, "cart/../../etc_passwd")
	assert.ErrorIs(t, err, cart.ErrNotFound)
}
