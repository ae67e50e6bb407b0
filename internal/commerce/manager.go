package commerce

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/go-faster/sdk/zctx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CartAPI is the slice of the client the cart manager depends on.
type CartAPI interface {
	Configured() bool
	CartCreate(ctx context.Context, lines []LineInput) (*Cart, error)
	CartLinesAdd(ctx context.Context, cartID string, lines []LineInput) (*Cart, error)
	CartLinesUpdate(ctx context.Context, cartID, lineID string, quantity int) (*Cart, error)
	CartLinesRemove(ctx context.Context, cartID, lineID string) (*Cart, error)
	CartByID(ctx context.Context, cartID string) (*Cart, error)
}

var _ CartAPI = (*Client)(nil)

// Manager drives one session's remote cart. It owns the persisted cart id
// and the in-memory snapshot, creates the cart lazily on first add, and
// replaces the snapshot wholesale with whatever the backend returns after
// a successful mutation.
//
// The internal mutex serializes mutations per cart id so two concurrent
// requests cannot race and silently overwrite each other's snapshot.
type Manager struct {
	api CartAPI

	mu      sync.Mutex
	cartID  string
	cart    *Cart
	lastErr string

	// busy is read by other goroutines while a mutation holds mu, so it
	// lives outside the mutex.
	busy atomic.Bool
}

// NewManager creates a Manager. cartID is the persisted identifier
// restored from the session cookie, or empty when none exists.
func NewManager(api CartAPI, cartID string) *Manager {
	return &Manager{api: api, cartID: cartID}
}

// Configured reports whether the backend is usable.
func (m *Manager) Configured() bool {
	return m.api.Configured()
}

// begin marks a call in flight and clears the last error.
// Callers must hold m.mu.
func (m *Manager) begin() {
	m.busy.Store(true)
	m.lastErr = ""
}

// finish clears the busy flag and records err as the last error.
// Callers must hold m.mu.
func (m *Manager) finish(err error) error {
	m.busy.Store(false)
	if err != nil {
		m.lastErr = err.Error()
	}
	return err
}

// Init restores the cart from a persisted identifier. Every fetch failure
// is collapsed into "cart gone": the identifier and snapshot are cleared
// and never retried with a stale id. A transient network failure also
// drops the cart.
func (m *Manager) Init(ctx context.Context) {
	if !m.api.Configured() {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cartID == "" {
		return
	}

	m.begin()
	cart, err := m.api.CartByID(ctx, m.cartID)
	if err != nil {
		zctx.From(ctx).Info("Stored cart no longer valid, clearing",
			zap.String("cart_id", m.cartID),
			zap.Error(err),
		)
		m.cartID = ""
		m.cart = nil
		_ = m.finish(nil) // expiry is not an error state
		return
	}
	m.cart = cart
	_ = m.finish(nil)
}

// AddLines adds lines to the remote cart, creating the cart on first use.
// A no-op when the backend is not configured.
func (m *Manager) AddLines(ctx context.Context, lines []LineInput) error {
	if !m.api.Configured() {
		logNotConfigured(ctx, "cart_add_lines")
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.begin()

	if m.cartID == "" {
		cart, err := m.api.CartCreate(ctx, lines)
		if err != nil {
			return m.finish(err)
		}
		if cart != nil {
			m.cart = cart
			m.cartID = cart.ID
		}
		return m.finish(nil)
	}

	cart, err := m.api.CartLinesAdd(ctx, m.cartID, lines)
	if err != nil {
		return m.finish(err)
	}
	m.cart = cart
	return m.finish(nil)
}

// UpdateLine changes a line's quantity. A no-op without a live cart id or
// when the backend is not configured.
func (m *Manager) UpdateLine(ctx context.Context, lineID string, quantity int) error {
	if !m.api.Configured() {
		logNotConfigured(ctx, "cart_update_line")
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cartID == "" {
		return nil
	}

	m.begin()
	cart, err := m.api.CartLinesUpdate(ctx, m.cartID, lineID, quantity)
	if err != nil {
		return m.finish(err)
	}
	m.cart = cart
	return m.finish(nil)
}

// RemoveLine deletes a line. A no-op without a live cart id or when the
// backend is not configured.
func (m *Manager) RemoveLine(ctx context.Context, lineID string) error {
	if !m.api.Configured() {
		logNotConfigured(ctx, "cart_remove_line")
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cartID == "" {
		return nil
	}

	m.begin()
	cart, err := m.api.CartLinesRemove(ctx, m.cartID, lineID)
	if err != nil {
		return m.finish(err)
	}
	m.cart = cart
	return m.finish(nil)
}

// Refresh re-fetches the cart snapshot. Unlike Init it surfaces the fetch
// error and leaves the identifier untouched; the caller owns the expiry
// policy.
func (m *Manager) Refresh(ctx context.Context) error {
	if !m.api.Configured() {
		logNotConfigured(ctx, "cart_refresh")
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cartID == "" {
		return nil
	}

	m.begin()
	cart, err := m.api.CartByID(ctx, m.cartID)
	if err != nil {
		return m.finish(err)
	}
	m.cart = cart
	return m.finish(nil)
}

// Reset drops the identifier and snapshot, e.g. after checkout completes.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cartID = ""
	m.cart = nil
	m.lastErr = ""
}

// CartID returns the current persisted identifier, empty when none.
func (m *Manager) CartID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cartID
}

// Snapshot returns the last known cart, or nil.
func (m *Manager) Snapshot() *Cart {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cart
}

// Lines returns the lines of the last known cart.
func (m *Manager) Lines() []Line {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cart == nil {
		return nil
	}
	return m.cart.Lines.Nodes()
}

// TotalQuantity returns the cart's total quantity, zero when absent.
func (m *Manager) TotalQuantity() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cart == nil {
		return 0
	}
	return m.cart.TotalQuantity
}

// CheckoutURL returns the cart's checkout URL, empty when absent.
func (m *Manager) CheckoutURL() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cart == nil {
		return ""
	}
	return m.cart.CheckoutURL
}

// Subtotal returns the cart's subtotal amount, zero when absent.
func (m *Manager) Subtotal() decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cart == nil {
		return decimal.Zero
	}
	return m.cart.Cost.SubtotalAmount.Amount
}

// Total returns the cart's total amount, zero when absent.
func (m *Manager) Total() decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cart == nil {
		return decimal.Zero
	}
	return m.cart.Cost.TotalAmount.Amount
}

// Busy reports whether a call is currently in flight.
func (m *Manager) Busy() bool {
	return m.busy.Load()
}

// LastError returns the message of the most recent failed operation,
// cleared at the start of every call.
func (m *Manager) LastError() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}
