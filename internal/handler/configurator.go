package handler

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hydroflex/storefront/internal/catalog"
	"github.com/hydroflex/storefront/internal/commerce"
	"github.com/hydroflex/storefront/internal/configurator"
	"github.com/hydroflex/storefront/internal/notify"
	"github.com/hydroflex/storefront/internal/session"
)

// configuratorOptionsView lists everything selectable in the wizard.
type configuratorOptionsView struct {
	HoseTypes []configurator.HoseType `json:"hoseTypes"`
	Diameters []configurator.Diameter `json:"diameters"`
	Fittings  []configurator.Fitting  `json:"fittings"`
	MinLength int                     `json:"minLength"`
	MaxLength int                     `json:"maxLength"`
}

func (h *Handler) configuratorOptions(w http.ResponseWriter, r *http.Request) {
	respond(r.Context(), w, http.StatusOK, configuratorOptionsView{
		HoseTypes: configurator.HoseTypes(),
		Diameters: configurator.Diameters(),
		Fittings:  configurator.Fittings(),
		MinLength: configurator.MinLength,
		MaxLength: configurator.MaxLength,
	})
}

// configuratorStateView is the wizard state after any operation.
type configuratorStateView struct {
	Step               int                      `json:"step"`
	TotalSteps         int                      `json:"totalSteps"`
	HoseType           *configurator.HoseType   `json:"hoseType"`
	Diameter           *configurator.Diameter   `json:"diameter"`
	Length             int                      `json:"length"`
	FittingA           *configurator.Fitting    `json:"fittingA"`
	FittingB           *configurator.Fitting    `json:"fittingB"`
	CompatibleFittings []configurator.Fitting   `json:"compatibleFittings"`
	Price              decimal.Decimal          `json:"price"`
	CanAdvance         bool                     `json:"canAdvance"`
	IsComplete         bool                     `json:"isComplete"`
	Attributes         []configurator.Attribute `json:"attributes,omitempty"`
}

func builderView(b *configurator.Builder) configuratorStateView {
	return configuratorStateView{
		Step:               b.Step(),
		TotalSteps:         configurator.TotalSteps,
		HoseType:           b.HoseType(),
		Diameter:           b.Diameter(),
		Length:             b.Length(),
		FittingA:           b.FittingA(),
		FittingB:           b.FittingB(),
		CompatibleFittings: b.CompatibleFittings(),
		Price:              b.Price(),
		CanAdvance:         b.CanAdvance(),
		IsComplete:         b.IsComplete(),
		Attributes:         b.CartAttributes(),
	}
}

func (h *Handler) configuratorState(w http.ResponseWriter, r *http.Request) {
	s := h.resolveSession(w, r)
	s.Lock.Lock()
	defer s.Lock.Unlock()
	respond(r.Context(), w, http.StatusOK, builderView(s.Builder))
}

// selectRequest carries the id of the chosen option.
type selectRequest struct {
	ID string `json:"id"`
}

// withBuilder runs fn against the session's builder under the session lock
// and writes the resulting state, or a 400 with fn's error.
func (h *Handler) withBuilder(w http.ResponseWriter, r *http.Request, fn func(*session.Session) error) {
	s := h.resolveSession(w, r)
	s.Lock.Lock()
	defer s.Lock.Unlock()
	if err := fn(s); err != nil {
		respondError(r.Context(), w, http.StatusBadRequest, err.Error())
		return
	}
	respond(r.Context(), w, http.StatusOK, builderView(s.Builder))
}

func (h *Handler) selectHoseType(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if err := decode(r, &req); err != nil {
		respondError(r.Context(), w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.withBuilder(w, r, func(s *session.Session) error {
		return s.Builder.SelectHoseType(req.ID)
	})
}

func (h *Handler) selectDiameter(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if err := decode(r, &req); err != nil {
		respondError(r.Context(), w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.withBuilder(w, r, func(s *session.Session) error {
		return s.Builder.SelectDiameter(req.ID)
	})
}

func (h *Handler) setLength(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Feet int `json:"feet"`
	}
	if err := decode(r, &req); err != nil {
		respondError(r.Context(), w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.withBuilder(w, r, func(s *session.Session) error {
		s.Builder.SetLength(req.Feet)
		return nil
	})
}

// selectFittings sets either or both hose ends in one call.
func (h *Handler) selectFittings(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FittingA string `json:"fittingA,omitempty"`
		FittingB string `json:"fittingB,omitempty"`
	}
	if err := decode(r, &req); err != nil {
		respondError(r.Context(), w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.withBuilder(w, r, func(s *session.Session) error {
		if req.FittingA != "" {
			if err := s.Builder.SelectFittingA(req.FittingA); err != nil {
				return err
			}
		}
		if req.FittingB != "" {
			if err := s.Builder.SelectFittingB(req.FittingB); err != nil {
				return err
			}
		}
		return nil
	})
}

func (h *Handler) configuratorNext(w http.ResponseWriter, r *http.Request) {
	h.withBuilder(w, r, func(s *session.Session) error {
		s.Builder.Next()
		return nil
	})
}

func (h *Handler) configuratorPrev(w http.ResponseWriter, r *http.Request) {
	h.withBuilder(w, r, func(s *session.Session) error {
		s.Builder.Prev()
		return nil
	})
}

func (h *Handler) configuratorGoTo(w http.ResponseWriter, r *http.Request) {
	step, err := strconv.Atoi(r.PathValue("step"))
	if err != nil {
		respondError(r.Context(), w, http.StatusBadRequest, "invalid step")
		return
	}
	h.withBuilder(w, r, func(s *session.Session) error {
		return s.Builder.GoTo(step)
	})
}

func (h *Handler) configuratorReset(w http.ResponseWriter, r *http.Request) {
	h.withBuilder(w, r, func(s *session.Session) error {
		s.Builder.Reset()
		return nil
	})
}

// configuratorAddToCart turns a completed configuration into a cart line.
// On the remote path the caller supplies the merchandise id of the custom
// assembly variant; locally a synthetic unit-priced line is created. The
// builder resets after a successful add.
func (h *Handler) configuratorAddToCart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MerchandiseID string `json:"merchandiseId,omitempty"`
	}
	if err := decode(r, &req); err != nil {
		respondError(r.Context(), w, http.StatusBadRequest, "invalid request body")
		return
	}

	s := h.resolveSession(w, r)
	s.Lock.Lock()
	defer s.Lock.Unlock()

	if !s.Builder.IsComplete() {
		respondError(r.Context(), w, http.StatusConflict, "configuration is incomplete")
		return
	}

	ctx, cancel := withTimeout(r.Context())
	defer cancel()

	if h.client.Configured() {
		if req.MerchandiseID == "" {
			respondError(r.Context(), w, http.StatusBadRequest, "merchandiseId is required")
			return
		}
		attrs := s.Builder.CartAttributes()
		lineAttrs := make([]commerce.Attribute, len(attrs))
		for i, a := range attrs {
			lineAttrs[i] = commerce.Attribute{Key: a.Key, Value: a.Value}
		}
		err := s.Remote.AddLines(ctx, []commerce.LineInput{{
			MerchandiseID: req.MerchandiseID,
			Quantity:      1,
			Attributes:    lineAttrs,
		}})
		h.syncCartCookie(w, s)
		if err != nil {
			s.Notify.Publish(notify.Error, err.Error(), 0)
			respondError(r.Context(), w, statusForCommerce(err), err.Error())
			return
		}
		s.Notify.Publish(notify.Success, "Custom hose assembly added to cart", 0)
		s.Builder.Reset()
		respond(r.Context(), w, http.StatusOK, h.cartViewFor(s))
		return
	}

	assembly := catalog.Product{
		ID:        "custom-" + uuid.New().String(),
		Name:      s.Builder.Description(),
		Price:     s.Builder.Price(),
		PriceUnit: catalog.PerUnit,
		Category:  "custom-assemblies",
	}
	if _, err := s.Cart.AddItem(ctx, assembly, 1, 0); err != nil {
		respondError(r.Context(), w, http.StatusInternalServerError, "could not save cart")
		return
	}
	s.Notify.Publish(notify.Success, "Custom hose assembly added to cart", 0)
	s.Builder.Reset()
	respond(r.Context(), w, http.StatusOK, h.cartViewFor(s))
}
