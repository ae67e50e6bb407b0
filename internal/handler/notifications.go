package handler

import "net/http"

func (h *Handler) listNotifications(w http.ResponseWriter, r *http.Request) {
	s := h.resolveSession(w, r)
	respond(r.Context(), w, http.StatusOK, s.Notify.Active())
}

func (h *Handler) dismissNotification(w http.ResponseWriter, r *http.Request) {
	s := h.resolveSession(w, r)
	s.Notify.Dismiss(r.PathValue("id"))
	respond(r.Context(), w, http.StatusNoContent, nil)
}
