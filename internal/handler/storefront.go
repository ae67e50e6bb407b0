package handler

import (
	"net/http"
	"strconv"

	"github.com/hydroflex/storefront/internal/commerce"
)

// remoteProducts proxies a product page from the commerce backend. With no
// backend configured the page is empty rather than an error, so the same
// UI works in both deployments.
func (h *Handler) remoteProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withTimeout(r.Context())
	defer cancel()

	q := r.URL.Query()
	first, _ := strconv.Atoi(q.Get("first"))
	page, err := h.client.Products(ctx, commerce.ProductsQuery{
		First: first,
		After: q.Get("after"),
		Query: q.Get("query"),
	})
	if err != nil {
		respondError(r.Context(), w, statusForCommerce(err), err.Error())
		return
	}
	respond(r.Context(), w, http.StatusOK, page)
}

func (h *Handler) remoteProductByHandle(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withTimeout(r.Context())
	defer cancel()

	p, err := h.client.ProductByHandle(ctx, r.PathValue("handle"))
	if err != nil {
		respondError(r.Context(), w, statusForCommerce(err), err.Error())
		return
	}
	if p == nil {
		respondError(r.Context(), w, http.StatusNotFound, "product not found")
		return
	}
	respond(r.Context(), w, http.StatusOK, p)
}

func (h *Handler) remoteCollection(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withTimeout(r.Context())
	defer cancel()

	first, _ := strconv.Atoi(r.URL.Query().Get("first"))
	c, err := h.client.CollectionByHandle(ctx, r.PathValue("handle"), first)
	if err != nil {
		respondError(r.Context(), w, statusForCommerce(err), err.Error())
		return
	}
	if c == nil {
		respondError(r.Context(), w, http.StatusNotFound, "collection not found")
		return
	}
	respond(r.Context(), w, http.StatusOK, c)
}
