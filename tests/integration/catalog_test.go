//go:build integration

package integration

import (
	"net/http"
	"testing"
)

func TestListProducts(t *testing.T) {
	resp := doGet(t, newSession(t), "/api/products")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	products := decodeJSON[[]productResponse](t, resp)
	if len(products) != 4 {
		t.Fatalf("expected 4 products, got %d", len(products))
	}
}

func TestGetProduct(t *testing.T) {
	resp := doGet(t, newSession(t), "/api/products/1")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	p := decodeJSON[productResponse](t, resp)
	if p.ID != "1" {
		t.Errorf("id: got %q, want %q", p.ID, "1")
	}
	if p.Name != "SAE 100R2AT Hydraulic Hose" {
		t.Errorf("name: got %q", p.Name)
	}
	if p.PriceUnit != "per foot" {
		t.Errorf("priceUnit: got %q, want %q", p.PriceUnit, "per foot")
	}
	if p.CategoryName == "" {
		t.Error("categoryName is empty")
	}
}

func TestGetProductNotFound(t *testing.T) {
	resp := doGet(t, newSession(t), "/api/products/999")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}

	body := decodeJSON[errorResponse](t, resp)
	if body.Code != http.StatusNotFound {
		t.Errorf("code: got %d, want 404", body.Code)
	}
}

func TestRelatedProducts(t *testing.T) {
	resp := doGet(t, newSession(t), "/api/products/1/related")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	related := decodeJSON[[]productResponse](t, resp)
	if len(related) != 2 {
		t.Fatalf("expected 2 related products, got %d", len(related))
	}
}

func TestSearch(t *testing.T) {
	// single character queries are below the throttle and return nothing
	resp := doGet(t, newSession(t), "/api/search?q=h")
	short := decodeJSON[[]productResponse](t, resp)
	resp.Body.Close()
	if len(short) != 0 {
		t.Fatalf("expected no results for 1-char query, got %d", len(short))
	}

	resp = doGet(t, newSession(t), "/api/search?q=hose")
	defer resp.Body.Close()
	results := decodeJSON[[]productResponse](t, resp)
	if len(results) == 0 {
		t.Fatal("expected search results for 'hose'")
	}
}
