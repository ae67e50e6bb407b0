// Package handler exposes the storefront over HTTP. Requests are tied to a
// visitor session resolved from a cookie; cart endpoints transparently use
// the remote commerce backend when one is configured and fall back to the
// local cart otherwise.
package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/hydroflex/storefront/internal/catalog"
	"github.com/hydroflex/storefront/internal/commerce"
	"github.com/hydroflex/storefront/internal/session"
)

const (
	// sessionCookie identifies the visitor session.
	sessionCookie = "storefront_session"
	// cartIDCookie mirrors the remote cart identifier so the cart
	// survives server restarts. Kept for a week, like the backend cart.
	cartIDCookie = "storefront_cart_id"

	cartIDCookieMaxAge = 7 * 24 * 3600
)

// Handler serves the storefront API.
type Handler struct {
	catalog  *catalog.Catalog
	sessions *session.Manager
	client   *commerce.Client

	// secureCookies marks cookies Secure; disabled in local development.
	secureCookies bool
}

// NewHandler constructs a Handler with the required dependencies.
func NewHandler(
	cat *catalog.Catalog,
	sessions *session.Manager,
	client *commerce.Client,
	secureCookies bool,
) *Handler {
	return &Handler{
		catalog:       cat,
		sessions:      sessions,
		client:        client,
		secureCookies: secureCookies,
	}
}

// Routes registers every endpoint on a fresh mux.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/products", h.listProducts)
	mux.HandleFunc("GET /api/products/{id}", h.getProduct)
	mux.HandleFunc("GET /api/products/{id}/related", h.relatedProducts)
	mux.HandleFunc("GET /api/search", h.search)
	mux.HandleFunc("GET /api/search/suggest", h.suggest)
	mux.HandleFunc("GET /api/categories/{category}", h.productsByCategory)

	mux.HandleFunc("GET /api/cart", h.getCart)
	mux.HandleFunc("POST /api/cart/items", h.addCartItem)
	mux.HandleFunc("PATCH /api/cart/items/{id}", h.updateCartItem)
	mux.HandleFunc("DELETE /api/cart/items/{id}", h.removeCartItem)
	mux.HandleFunc("DELETE /api/cart", h.clearCart)
	mux.HandleFunc("POST /api/cart/checkout", h.checkout)

	mux.HandleFunc("GET /api/configurator/options", h.configuratorOptions)
	mux.HandleFunc("GET /api/configurator", h.configuratorState)
	mux.HandleFunc("POST /api/configurator/hose-type", h.selectHoseType)
	mux.HandleFunc("POST /api/configurator/diameter", h.selectDiameter)
	mux.HandleFunc("POST /api/configurator/length", h.setLength)
	mux.HandleFunc("POST /api/configurator/fittings", h.selectFittings)
	mux.HandleFunc("POST /api/configurator/next", h.configuratorNext)
	mux.HandleFunc("POST /api/configurator/prev", h.configuratorPrev)
	mux.HandleFunc("POST /api/configurator/step/{step}", h.configuratorGoTo)
	mux.HandleFunc("POST /api/configurator/reset", h.configuratorReset)
	mux.HandleFunc("POST /api/configurator/add-to-cart", h.configuratorAddToCart)

	mux.HandleFunc("GET /api/storefront/products", h.remoteProducts)
	mux.HandleFunc("GET /api/storefront/products/{handle}", h.remoteProductByHandle)
	mux.HandleFunc("GET /api/storefront/collections/{handle}", h.remoteCollection)

	mux.HandleFunc("GET /api/notifications", h.listNotifications)
	mux.HandleFunc("DELETE /api/notifications/{id}", h.dismissNotification)

	return mux
}

// resolveSession reads the session cookie, minting a new session id when
// absent, and returns the live session. The remote cart id cookie seeds the
// remote manager on first resolution.
func (h *Handler) resolveSession(w http.ResponseWriter, r *http.Request) *session.Session {
	var id string
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		id = c.Value
	} else {
		id = h.sessions.NewID()
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
			Secure:   h.secureCookies,
			SameSite: http.SameSiteLaxMode,
		})
	}

	var remoteCartID string
	if c, err := r.Cookie(cartIDCookie); err == nil {
		remoteCartID = c.Value
	}

	return h.sessions.Resolve(r.Context(), id, remoteCartID)
}

// syncCartCookie keeps the cart-id cookie aligned with the remote manager.
// An empty id clears the cookie.
func (h *Handler) syncCartCookie(w http.ResponseWriter, s *session.Session) {
	id := s.Remote.CartID()
	c := &http.Cookie{
		Name:     cartIDCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   cartIDCookieMaxAge,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	}
	if id == "" {
		c.MaxAge = -1
	}
	http.SetCookie(w, c)
}

// errorResponse is the error body for every endpoint.
type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func respond(ctx context.Context, w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zctx.From(ctx).Warn("encode response", zap.Error(err))
	}
}

func respondError(ctx context.Context, w http.ResponseWriter, status int, message string) {
	respond(ctx, w, status, errorResponse{Code: status, Message: message})
}

// decode reads a JSON request body into dst.
func decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// withTimeout bounds handler work that may call the commerce backend.
func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, 15*time.Second)
}
