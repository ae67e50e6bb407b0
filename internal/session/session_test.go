package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hydroflex/storefront/internal/cart"
	"github.com/hydroflex/storefront/internal/catalog"
	"github.com/hydroflex/storefront/internal/commerce"
)

type memStore struct {
	data map[string][]byte
}

func (s *memStore) Load(_ context.Context, key string) ([]byte, error) {
	raw, ok := s.data[key]
	if !ok {
		return nil, cart.ErrNotFound
	}
	return raw, nil
}

func (s *memStore) Save(_ context.Context, key string, payload []byte, _ decimal.Decimal) error {
	s.data[key] = payload
	return nil
}

func (s *memStore) Delete(_ context.Context, key string) error {
	delete(s.data, key)
	return nil
}

func newManager() *Manager {
	store := &memStore{data: make(map[string][]byte)}
	client := commerce.NewClient(commerce.Config{}) // unconfigured
	return NewManager(store, client, time.Hour)
}

func TestResolve_CreatesOnce(t *testing.T) {
	m := newManager()
	ctx := context.Background()

	id := m.NewID()
	s1 := m.Resolve(ctx, id, "")
	s2 := m.Resolve(ctx, id, "")

	assert.Same(t, s1, s2)
	assert.Equal(t, 1, m.Len())
	assert.NotNil(t, s1.Cart)
	assert.NotNil(t, s1.Builder)
	assert.NotNil(t, s1.Remote)
}

func TestResolve_ReloadsPersistedCart(t *testing.T) {
	m := newManager()
	ctx := context.Background()
	id := m.NewID()

	s := m.Resolve(ctx, id, "")
	_, err := s.Cart.AddItem(ctx, catalog.Product{
		ID:        "fit-1",
		Name:      "Fitting",
		Price:     decimal.RequireFromString("8.50"),
		PriceUnit: catalog.PerUnit,
	}, 2, 0)
	require.NoError(t, err)

	// Simulate the session being evicted: a new resolve reloads the cart
	// from the store.
	m.evictIdle(time.Now().Add(2 * time.Hour))
	require.Equal(t, 0, m.Len())

	restored := m.Resolve(ctx, id, "")
	assert.Equal(t, 1, restored.Cart.LineCount())
	assert.Equal(t, "17.00", restored.Cart.Subtotal().StringFixed(2))
}

// blockingStore parks the first Load until released, so a second request
// for the same session can race creation-time loading.
type blockingStore struct {
	memStore
	gate    chan struct{}
	release chan struct{}
	once    sync.Once
}

func (s *blockingStore) Load(ctx context.Context, key string) ([]byte, error) {
	s.once.Do(func() {
		close(s.gate)
		<-s.release
	})
	return s.memStore.Load(ctx, key)
}

func TestResolve_ConcurrentCreateKeepsMutations(t *testing.T) {
	store := &blockingStore{
		memStore: memStore{data: make(map[string][]byte)},
		gate:     make(chan struct{}),
		release:  make(chan struct{}),
	}
	client := commerce.NewClient(commerce.Config{})
	m := NewManager(store, client, time.Hour)
	ctx := context.Background()
	id := m.NewID()

	// Persist a cart the session will restore on creation.
	seed := cart.New(&store.memStore, cartKeyPrefix+id)
	_, err := seed.AddItem(ctx, catalog.Product{
		ID:        "fit-1",
		Name:      "Fitting",
		Price:     decimal.RequireFromString("8.50"),
		PriceUnit: catalog.PerUnit,
	}, 1, 0)
	require.NoError(t, err)

	first := make(chan *Session)
	go func() {
		first <- m.Resolve(ctx, id, "")
	}()
	<-store.gate // first Resolve is parked inside Cart.Load

	done := make(chan struct{})
	go func() {
		defer close(done)
		s := m.Resolve(ctx, id, "")
		s.Lock.Lock()
		defer s.Lock.Unlock()
		_, err := s.Cart.AddItem(ctx, catalog.Product{
			ID:        "fit-2",
			Name:      "Other fitting",
			Price:     decimal.RequireFromString("7.50"),
			PriceUnit: catalog.PerUnit,
		}, 1, 0)
		assert.NoError(t, err)
	}()

	select {
	case <-done:
		t.Fatal("mutation ran before creation-time load finished")
	case <-time.After(50 * time.Millisecond):
	}

	close(store.release)
	s := <-first
	<-done

	s.Lock.Lock()
	defer s.Lock.Unlock()
	assert.Equal(t, 2, s.Cart.LineCount())
}

func TestEvictIdle_KeepsActiveSessions(t *testing.T) {
	m := newManager()
	ctx := context.Background()

	m.Resolve(ctx, "a", "")
	m.Resolve(ctx, "b", "")

	m.evictIdle(time.Now())
	assert.Equal(t, 2, m.Len())

	m.evictIdle(time.Now().Add(2 * time.Hour))
	assert.Equal(t, 0, m.Len())
}
