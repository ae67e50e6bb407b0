package handler

import (
	"net/http"

	"github.com/hydroflex/storefront/internal/catalog"
)

// productView is a catalog product as returned to clients.
type productView struct {
	catalog.Product
	CategoryName string `json:"categoryName"`
}

func toView(p catalog.Product) productView {
	return productView{Product: p, CategoryName: catalog.CategoryName(p.Category)}
}

func toViews(products []catalog.Product) []productView {
	out := make([]productView, len(products))
	for i, p := range products {
		out[i] = toView(p)
	}
	return out
}

// listProducts returns the full catalog, optionally filtered by category.
func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	if category := r.URL.Query().Get("category"); category != "" {
		respond(r.Context(), w, http.StatusOK, toViews(h.catalog.ByCategory(category)))
		return
	}
	respond(r.Context(), w, http.StatusOK, toViews(h.catalog.Products()))
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	p := h.catalog.GetByID(r.PathValue("id"))
	if p == nil {
		respondError(r.Context(), w, http.StatusNotFound, "product not found")
		return
	}
	respond(r.Context(), w, http.StatusOK, toView(*p))
}

// relatedProducts returns the product's related entries in catalog order.
// Unknown product ids yield an empty list, not an error.
func (h *Handler) relatedProducts(w http.ResponseWriter, r *http.Request) {
	respond(r.Context(), w, http.StatusOK, toViews(h.catalog.Related(r.PathValue("id"))))
}

func (h *Handler) productsByCategory(w http.ResponseWriter, r *http.Request) {
	category := r.PathValue("category")
	respond(r.Context(), w, http.StatusOK, struct {
		Category string        `json:"category"`
		Name     string        `json:"name"`
		Products []productView `json:"products"`
	}{
		Category: category,
		Name:     catalog.CategoryName(category),
		Products: toViews(h.catalog.ByCategory(category)),
	})
}

// search returns full matches for q. Queries under the minimum length
// return an empty list.
func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	respond(r.Context(), w, http.StatusOK, toViews(h.catalog.Search(r.URL.Query().Get("q"))))
}

// suggest returns at most catalog.SuggestLimit matches for typeahead.
func (h *Handler) suggest(w http.ResponseWriter, r *http.Request) {
	respond(r.Context(), w, http.StatusOK, toViews(h.catalog.Suggest(r.URL.Query().Get("q"))))
}
