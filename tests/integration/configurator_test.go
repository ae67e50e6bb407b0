//go:build integration

package integration

import (
	"net/http"
	"testing"
)

func TestConfiguratorWizard(t *testing.T) {
	session := newSession(t)

	resp := doGet(t, session, "/api/configurator")
	state := decodeJSON[configuratorStateResponse](t, resp)
	resp.Body.Close()
	if state.Step != 1 || state.TotalSteps != 4 {
		t.Fatalf("unexpected initial state: %+v", state)
	}
	if state.CanAdvance {
		t.Error("empty configuration must not advance past step 1")
	}

	// the guard blocks Next until a hose type is picked
	resp = do(t, session, http.MethodPost, "/api/configurator/next", nil)
	state = decodeJSON[configuratorStateResponse](t, resp)
	resp.Body.Close()
	if state.Step != 1 {
		t.Fatalf("step advanced without a hose type: %d", state.Step)
	}

	resp = do(t, session, http.MethodPost, "/api/configurator/hose-type", map[string]string{"id": "r2at"})
	resp.Body.Close()
	resp = do(t, session, http.MethodPost, "/api/configurator/next", nil)
	state = decodeJSON[configuratorStateResponse](t, resp)
	resp.Body.Close()
	if state.Step != 2 {
		t.Fatalf("expected step 2, got %d", state.Step)
	}

	resp = do(t, session, http.MethodPost, "/api/configurator/diameter", map[string]string{"id": "0.5"})
	resp.Body.Close()
	resp = do(t, session, http.MethodPost, "/api/configurator/length", map[string]int{"feet": 6})
	state = decodeJSON[configuratorStateResponse](t, resp)
	resp.Body.Close()
	if state.Length != 6 {
		t.Fatalf("length: got %d, want 6", state.Length)
	}

	do(t, session, http.MethodPost, "/api/configurator/next", nil).Body.Close()
	resp = do(t, session, http.MethodPost, "/api/configurator/fittings", map[string]string{
		"fittingA": "jic-female",
		"fittingB": "jic-male",
	})
	state = decodeJSON[configuratorStateResponse](t, resp)
	resp.Body.Close()
	if !state.IsComplete {
		t.Fatal("configuration should be complete")
	}

	// 12.99 * 1.3 * 6 + 8.50 + 7.50
	if state.Price != "117.32" {
		t.Errorf("price: got %q, want 117.32", state.Price)
	}
	if len(state.Attributes) != 6 {
		t.Fatalf("expected 6 attributes, got %d", len(state.Attributes))
	}

	// the completed configuration lands in the cart as one line
	resp = do(t, session, http.MethodPost, "/api/configurator/add-to-cart", map[string]string{})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("add-to-cart: expected 200, got %d", resp.StatusCode)
	}
	cart := decodeJSON[cartResponse](t, resp)
	resp.Body.Close()
	if len(cart.Lines) != 1 {
		t.Fatalf("expected 1 cart line, got %d", len(cart.Lines))
	}
	if cart.Lines[0].Total != "117.32" {
		t.Errorf("line total: got %q, want 117.32", cart.Lines[0].Total)
	}
}

func TestConfiguratorStepJumpBypassesGuards(t *testing.T) {
	session := newSession(t)

	resp := do(t, session, http.MethodPost, "/api/configurator/step/4", nil)
	state := decodeJSON[configuratorStateResponse](t, resp)
	resp.Body.Close()
	if state.Step != 4 {
		t.Fatalf("direct jump failed: step %d", state.Step)
	}

	resp = do(t, session, http.MethodPost, "/api/configurator/step/7", nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("out-of-range jump: expected 400, got %d", resp.StatusCode)
	}
}
