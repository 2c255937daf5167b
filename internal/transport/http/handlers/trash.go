package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrsync/internal/transport/http/api"
	"hrsync/internal/transport/http/middleware"
)

func (h *Handler) handleListTrash(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	if !h.requireUser(w, r) {
		return
	}

	items, err := h.Service.DeletedItems(r.Context(), h.Session)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, items, reqID)
}

func (h *Handler) handleRestore(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	if !h.requireUser(w, r) {
		return
	}

	id := chi.URLParam(r, "itemID")
	if err := h.Service.Restore(r.Context(), h.Session, id); err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, map[string]string{"id": id, "status": "restored"}, reqID)
}

func (h *Handler) handleListActivity(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	if !h.requireUser(w, r) {
		return
	}

	entries, err := h.Service.ListActivity(r.Context(), h.Session)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, entries, reqID)
}
