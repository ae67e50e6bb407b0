// Package session ties one visitor's state together: their local fallback
// cart, their configurator progress, and their remote cart manager. The
// HTTP layer resolves a session per request from a cookie; everything
// below it is plain method calls on the session's components.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hydroflex/storefront/internal/cart"
	"github.com/hydroflex/storefront/internal/commerce"
	"github.com/hydroflex/storefront/internal/configurator"
	"github.com/hydroflex/storefront/internal/notify"
)

// cartKeyPrefix namespaces cart blobs in the store.
const cartKeyPrefix = "storefront-cart:"

// Session is the per-visitor state. Lock serializes all cart and
// configurator mutations for the session; handlers hold it for the
// duration of one operation.
type Session struct {
	ID string

	// Lock guards Cart and Builder. The remote manager has its own
	// per-cart mutex.
	Lock sync.Mutex

	Cart    *cart.Cart
	Builder *configurator.Builder
	Remote  *commerce.Manager

	// Notify holds this visitor's notifications; they are never shared
	// across sessions.
	Notify *notify.Center

	lastSeen time.Time
}

// Manager owns the live session set. Sessions idle past the TTL are
// dropped from memory; their persisted carts survive in the store and are
// reloaded when the visitor returns.
type Manager struct {
	store  cart.Store
	client *commerce.Client
	ttl    time.Duration

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager creates a session manager backed by the given cart store and
// commerce client.
func NewManager(store cart.Store, client *commerce.Client, ttl time.Duration) *Manager {
	return &Manager{
		store:    store,
		client:   client,
		ttl:      ttl,
		sessions: make(map[string]*Session),
	}
}

// NewID returns a fresh session identifier.
func (m *Manager) NewID() string {
	return uuid.New().String()
}

// Resolve returns the session for id, creating it when unknown. A created
// session loads its persisted cart and initializes its remote cart manager
// from remoteCartID (the value of the cart-id cookie, empty when absent).
// The session lock is held across creation-time loading, so a concurrent
// request for the same id blocks on its first mutation until the persisted
// state is in place.
func (m *Manager) Resolve(ctx context.Context, id, remoteCartID string) *Session {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if !ok {
		s = &Session{
			ID:      id,
			Cart:    cart.New(m.store, cartKeyPrefix+id),
			Builder: configurator.New(),
			Remote:  commerce.NewManager(m.client, remoteCartID),
			Notify:  notify.NewCenter(),
		}
		s.Lock.Lock()
		m.sessions[id] = s
	}
	s.lastSeen = time.Now()
	m.mu.Unlock()

	if !ok {
		s.Cart.Load(ctx)
		s.Remote.Init(ctx)
		s.Lock.Unlock()
	}
	return s
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// StartCleanup evicts idle sessions every interval until ctx is done.
func (m *Manager) StartCleanup(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				m.evictIdle(now)
			}
		}
	}()
}

func (m *Manager) evictIdle(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.sessions {
		if now.Sub(s.lastSeen) > m.ttl {
			delete(m.sessions, id)
		}
	}
}
