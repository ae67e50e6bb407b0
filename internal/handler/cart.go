package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/hydroflex/storefront/internal/commerce"
	"github.com/hydroflex/storefront/internal/notify"
	"github.com/hydroflex/storefront/internal/session"
)

// cartLineView is one cart line, normalized across the local and remote
// representations.
type cartLineView struct {
	ID         string               `json:"id"`
	Title      string               `json:"title"`
	Quantity   int                  `json:"quantity"`
	Length     int                  `json:"length,omitempty"`
	Attributes []commerce.Attribute `json:"attributes,omitempty"`
	Total      decimal.Decimal      `json:"total"`
}

// cartView is the unified cart body. Source tells the client which cart
// answered: "remote" when a commerce backend is configured, "local"
// otherwise.
type cartView struct {
	Source        string          `json:"source"`
	Lines         []cartLineView  `json:"lines"`
	TotalQuantity int             `json:"totalQuantity"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Total         decimal.Decimal `json:"total"`
	CheckoutURL   string          `json:"checkoutUrl,omitempty"`
	Busy          bool            `json:"busy"`
	LastError     string          `json:"lastError,omitempty"`
}

func (h *Handler) cartViewFor(s *session.Session) cartView {
	if h.client.Configured() {
		lines := s.Remote.Lines()
		views := make([]cartLineView, len(lines))
		for i, l := range lines {
			views[i] = cartLineView{
				ID:         l.ID,
				Title:      l.Merchandise.Product.Title,
				Quantity:   l.Quantity,
				Attributes: l.Attributes,
				Total:      l.Cost.TotalAmount.Amount,
			}
		}
		return cartView{
			Source:        "remote",
			Lines:         views,
			TotalQuantity: s.Remote.TotalQuantity(),
			Subtotal:      s.Remote.Subtotal(),
			Total:         s.Remote.Total(),
			CheckoutURL:   s.Remote.CheckoutURL(),
			Busy:          s.Remote.Busy(),
			LastError:     s.Remote.LastError(),
		}
	}

	items := s.Cart.Items()
	views := make([]cartLineView, len(items))
	for i, it := range items {
		views[i] = cartLineView{
			ID:       it.ID,
			Title:    it.Name,
			Quantity: it.Quantity,
			Length:   it.Length,
			Total:    it.TotalPrice,
		}
	}
	subtotal := s.Cart.Subtotal()
	return cartView{
		Source:        "local",
		Lines:         views,
		TotalQuantity: s.Cart.TotalUnits(),
		Subtotal:      subtotal,
		Total:         subtotal,
	}
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	s := h.resolveSession(w, r)
	s.Lock.Lock()
	defer s.Lock.Unlock()
	h.syncCartCookie(w, s)
	respond(r.Context(), w, http.StatusOK, h.cartViewFor(s))
}

// addItemRequest covers both cart backends. ProductID addresses the local
// catalog; MerchandiseID addresses a remote variant. Length applies to
// length-priced local products only.
type addItemRequest struct {
	ProductID     string               `json:"productId,omitempty"`
	MerchandiseID string               `json:"merchandiseId,omitempty"`
	Quantity      int                  `json:"quantity"`
	Length        int                  `json:"length,omitempty"`
	Attributes    []commerce.Attribute `json:"attributes,omitempty"`
}

func (h *Handler) addCartItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := decode(r, &req); err != nil {
		respondError(r.Context(), w, http.StatusBadRequest, "invalid request body")
		return
	}

	s := h.resolveSession(w, r)
	s.Lock.Lock()
	defer s.Lock.Unlock()

	ctx, cancel := withTimeout(r.Context())
	defer cancel()

	if h.client.Configured() {
		if req.MerchandiseID == "" {
			respondError(r.Context(), w, http.StatusBadRequest, "merchandiseId is required")
			return
		}
		qty := req.Quantity
		if qty <= 0 {
			qty = 1
		}
		err := s.Remote.AddLines(ctx, []commerce.LineInput{{
			MerchandiseID: req.MerchandiseID,
			Quantity:      qty,
			Attributes:    req.Attributes,
		}})
		h.syncCartCookie(w, s)
		if err != nil {
			s.Notify.Publish(notify.Error, err.Error(), 0)
			respondError(r.Context(), w, statusForCommerce(err), err.Error())
			return
		}
		s.Notify.Publish(notify.Success, "Added to cart", 0)
		respond(r.Context(), w, http.StatusOK, h.cartViewFor(s))
		return
	}

	if req.ProductID == "" {
		respondError(r.Context(), w, http.StatusBadRequest, "productId is required")
		return
	}
	p := h.catalog.GetByID(req.ProductID)
	if p == nil {
		respondError(r.Context(), w, http.StatusNotFound, "product not found")
		return
	}
	if _, err := s.Cart.AddItem(ctx, *p, req.Quantity, req.Length); err != nil {
		respondError(r.Context(), w, http.StatusInternalServerError, "could not save cart")
		return
	}
	s.Notify.Publish(notify.Success, p.Name+" added to cart", 0)
	respond(r.Context(), w, http.StatusOK, h.cartViewFor(s))
}

// updateItemRequest changes a line. Quantity and Length are pointers so a
// request can change one without touching the other.
type updateItemRequest struct {
	Quantity *int `json:"quantity,omitempty"`
	Length   *int `json:"length,omitempty"`
}

func (h *Handler) updateCartItem(w http.ResponseWriter, r *http.Request) {
	var req updateItemRequest
	if err := decode(r, &req); err != nil {
		respondError(r.Context(), w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Quantity == nil && req.Length == nil {
		respondError(r.Context(), w, http.StatusBadRequest, "quantity or length is required")
		return
	}
	itemID := r.PathValue("id")

	s := h.resolveSession(w, r)
	s.Lock.Lock()
	defer s.Lock.Unlock()

	ctx, cancel := withTimeout(r.Context())
	defer cancel()

	if h.client.Configured() {
		if req.Quantity == nil {
			respondError(r.Context(), w, http.StatusBadRequest, "quantity is required")
			return
		}
		err := s.Remote.UpdateLine(ctx, itemID, *req.Quantity)
		h.syncCartCookie(w, s)
		if err != nil {
			s.Notify.Publish(notify.Error, err.Error(), 0)
			respondError(r.Context(), w, statusForCommerce(err), err.Error())
			return
		}
		respond(r.Context(), w, http.StatusOK, h.cartViewFor(s))
		return
	}

	var err error
	switch {
	case req.Length != nil:
		err = s.Cart.UpdateLength(ctx, itemID, *req.Length)
	default:
		err = s.Cart.UpdateQuantity(ctx, itemID, *req.Quantity)
	}
	if err != nil {
		respondError(r.Context(), w, http.StatusInternalServerError, "could not save cart")
		return
	}
	respond(r.Context(), w, http.StatusOK, h.cartViewFor(s))
}

func (h *Handler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	itemID := r.PathValue("id")

	s := h.resolveSession(w, r)
	s.Lock.Lock()
	defer s.Lock.Unlock()

	ctx, cancel := withTimeout(r.Context())
	defer cancel()

	if h.client.Configured() {
		err := s.Remote.RemoveLine(ctx, itemID)
		h.syncCartCookie(w, s)
		if err != nil {
			s.Notify.Publish(notify.Error, err.Error(), 0)
			respondError(r.Context(), w, statusForCommerce(err), err.Error())
			return
		}
		respond(r.Context(), w, http.StatusOK, h.cartViewFor(s))
		return
	}

	if err := s.Cart.RemoveItem(ctx, itemID); err != nil {
		respondError(r.Context(), w, http.StatusInternalServerError, "could not save cart")
		return
	}
	respond(r.Context(), w, http.StatusOK, h.cartViewFor(s))
}

// clearCart empties the cart. On the remote path the cart is abandoned,
// not mutated line by line; the backend expires it on its own schedule.
func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	s := h.resolveSession(w, r)
	s.Lock.Lock()
	defer s.Lock.Unlock()

	if h.client.Configured() {
		s.Remote.Reset()
		h.syncCartCookie(w, s)
		respond(r.Context(), w, http.StatusOK, h.cartViewFor(s))
		return
	}

	ctx, cancel := withTimeout(r.Context())
	defer cancel()
	if err := s.Cart.Clear(ctx); err != nil {
		respondError(r.Context(), w, http.StatusInternalServerError, "could not save cart")
		return
	}
	respond(r.Context(), w, http.StatusOK, h.cartViewFor(s))
}

// checkout hands the client the backend checkout URL. The local cart has
// no checkout; callers get a conflict until a backend is configured.
func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	s := h.resolveSession(w, r)
	s.Lock.Lock()
	defer s.Lock.Unlock()

	if !h.client.Configured() {
		respondError(r.Context(), w, http.StatusConflict, "checkout requires a commerce backend")
		return
	}

	ctx, cancel := withTimeout(r.Context())
	defer cancel()
	if err := s.Remote.Refresh(ctx); err != nil {
		if errors.Is(err, commerce.ErrCartExpired) {
			s.Remote.Reset()
			h.syncCartCookie(w, s)
			respondError(r.Context(), w, http.StatusConflict, "cart has expired")
			return
		}
		respondError(r.Context(), w, statusForCommerce(err), err.Error())
		return
	}

	url := s.Remote.CheckoutURL()
	if url == "" {
		respondError(r.Context(), w, http.StatusConflict, "cart is empty")
		return
	}
	respond(r.Context(), w, http.StatusOK, struct {
		URL string `json:"url"`
	}{URL: url})
}

// statusForCommerce maps commerce errors onto HTTP statuses. User errors
// are the caller's fault; everything else is a gateway problem.
func statusForCommerce(err error) int {
	var userErrs commerce.UserErrorList
	switch {
	case errors.Is(err, commerce.ErrNotConfigured):
		return http.StatusConflict
	case errors.Is(err, commerce.ErrCartExpired):
		return http.StatusConflict
	case errors.As(err, &userErrs):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}

