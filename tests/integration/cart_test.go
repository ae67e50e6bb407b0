//go:build integration

package integration

import (
	"net/http"
	"testing"
)

func TestCartStartsEmpty(t *testing.T) {
	resp := doGet(t, newSession(t), "/api/cart")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	cart := decodeJSON[cartResponse](t, resp)
	if cart.Source != "local" {
		t.Errorf("source: got %q, want local", cart.Source)
	}
	if len(cart.Lines) != 0 {
		t.Errorf("expected empty cart, got %d lines", len(cart.Lines))
	}
}

func TestCartAddAndMerge(t *testing.T) {
	session := newSession(t)

	resp := do(t, session, http.MethodPost, "/api/cart/items", map[string]any{
		"productId": "2", "quantity": 2,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("add: expected 200, got %d", resp.StatusCode)
	}
	cart := decodeJSON[cartResponse](t, resp)
	resp.Body.Close()
	if len(cart.Lines) != 1 || cart.Lines[0].Quantity != 2 {
		t.Fatalf("unexpected cart after first add: %+v", cart)
	}

	// same product merges into the existing line
	resp = do(t, session, http.MethodPost, "/api/cart/items", map[string]any{
		"productId": "2", "quantity": 3,
	})
	cart = decodeJSON[cartResponse](t, resp)
	resp.Body.Close()
	if len(cart.Lines) != 1 {
		t.Fatalf("expected 1 merged line, got %d", len(cart.Lines))
	}
	if cart.Lines[0].Quantity != 5 {
		t.Errorf("quantity: got %d, want 5", cart.Lines[0].Quantity)
	}
}

func TestCartLengthPricedLines(t *testing.T) {
	session := newSession(t)

	// product 1 is per-foot priced at 12.99
	resp := do(t, session, http.MethodPost, "/api/cart/items", map[string]any{
		"productId": "1", "length": 10,
	})
	cart := decodeJSON[cartResponse](t, resp)
	resp.Body.Close()
	if len(cart.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(cart.Lines))
	}
	if cart.Lines[0].Length != 10 {
		t.Errorf("length: got %d, want 10", cart.Lines[0].Length)
	}
	if cart.Lines[0].Total != "129.90" {
		t.Errorf("total: got %q, want 129.90", cart.Lines[0].Total)
	}

	// a different length makes a separate line
	resp = do(t, session, http.MethodPost, "/api/cart/items", map[string]any{
		"productId": "1", "length": 4,
	})
	cart = decodeJSON[cartResponse](t, resp)
	resp.Body.Close()
	if len(cart.Lines) != 2 {
		t.Fatalf("expected 2 lines for distinct lengths, got %d", len(cart.Lines))
	}
}

func TestCartUpdateAndRemove(t *testing.T) {
	session := newSession(t)

	resp := do(t, session, http.MethodPost, "/api/cart/items", map[string]any{
		"productId": "3", "quantity": 1,
	})
	cart := decodeJSON[cartResponse](t, resp)
	resp.Body.Close()
	lineID := cart.Lines[0].ID

	resp = do(t, session, http.MethodPatch, "/api/cart/items/"+lineID, map[string]any{
		"quantity": 4,
	})
	cart = decodeJSON[cartResponse](t, resp)
	resp.Body.Close()
	if cart.Lines[0].Quantity != 4 {
		t.Errorf("quantity: got %d, want 4", cart.Lines[0].Quantity)
	}

	// zero quantity removes the line
	resp = do(t, session, http.MethodPatch, "/api/cart/items/"+lineID, map[string]any{
		"quantity": 0,
	})
	cart = decodeJSON[cartResponse](t, resp)
	resp.Body.Close()
	if len(cart.Lines) != 0 {
		t.Errorf("expected empty cart after zero-quantity update, got %d lines", len(cart.Lines))
	}
}

func TestCartPersistsAcrossRequests(t *testing.T) {
	session := newSession(t)

	resp := do(t, session, http.MethodPost, "/api/cart/items", map[string]any{
		"productId": "4", "quantity": 2,
	})
	resp.Body.Close()

	resp = doGet(t, session, "/api/cart")
	defer resp.Body.Close()
	cart := decodeJSON[cartResponse](t, resp)
	if len(cart.Lines) != 1 || cart.Lines[0].Quantity != 2 {
		t.Fatalf("cart did not persist: %+v", cart)
	}
}

func TestCartsAreSessionScoped(t *testing.T) {
	first := newSession(t)
	resp := do(t, first, http.MethodPost, "/api/cart/items", map[string]any{
		"productId": "2", "quantity": 1,
	})
	resp.Body.Close()

	second := newSession(t)
	resp = doGet(t, second, "/api/cart")
	defer resp.Body.Close()
	cart := decodeJSON[cartResponse](t, resp)
	if len(cart.Lines) != 0 {
		t.Fatalf("second session sees %d lines from first session", len(cart.Lines))
	}
}

func TestCheckoutWithoutBackend(t *testing.T) {
	resp := do(t, newSession(t), http.MethodPost, "/api/cart/checkout", nil)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
}
