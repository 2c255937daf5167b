package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrsync/internal/csvio"
	"hrsync/internal/domain/sync"
	"hrsync/internal/transport/http/api"
	"hrsync/internal/transport/http/middleware"
)

func (h *Handler) handleListLeave(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	if !h.requireUser(w, r) {
		return
	}

	requests, err := h.Service.ListLeaveRequests(r.Context(), h.Session)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, requests, reqID)
}

func (h *Handler) handleCreateLeave(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	if !h.requireUser(w, r) {
		return
	}

	var input sync.CreateLeaveInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.Fail(w, http.StatusBadRequest, "bad_request", "invalid JSON body", reqID)
		return
	}

	req, err := h.Service.CreateLeaveRequest(r.Context(), h.Session, input)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Created(w, req, reqID)
}

func (h *Handler) handleApproveLeave(w http.ResponseWriter, r *http.Request) {
	h.setLeaveStatus(w, r, sync.LeaveStatusApproved)
}

func (h *Handler) handleRejectLeave(w http.ResponseWriter, r *http.Request) {
	h.setLeaveStatus(w, r, sync.LeaveStatusRejected)
}

func (h *Handler) setLeaveStatus(w http.ResponseWriter, r *http.Request, status string) {
	reqID := middleware.GetRequestID(r.Context())
	if !h.requireUser(w, r) {
		return
	}

	id := chi.URLParam(r, "requestID")
	if err := h.Service.UpdateLeaveStatus(r.Context(), h.Session, id, status); err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, map[string]string{"id": id, "status": status}, reqID)
}

func (h *Handler) handleDeleteLeave(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	if !h.requireUser(w, r) {
		return
	}

	if err := h.Service.DeleteLeaveRequest(r.Context(), h.Session, chi.URLParam(r, "requestID")); err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, map[string]string{"status": "deleted"}, reqID)
}

func (h *Handler) handleExportLeave(w http.ResponseWriter, r *http.Request) {
	if !h.requireUser(w, r) {
		return
	}

	requests, err := h.Service.ListLeaveRequests(r.Context(), h.Session)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="leave_requests.csv"`)
	_ = csvio.ExportLeave(w, requests)
}

func (h *Handler) handleLeaveTemplate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="leave_template.csv"`)
	_ = csvio.WriteLeaveTemplate(w)
}

func (h *Handler) handleImportLeave(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	if !h.requireUser(w, r) {
		return
	}

	inputs, err := csvio.ParseLeave(r.Body)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "bad_csv", err.Error(), reqID)
		return
	}

	result, err := h.Service.ImportLeaveRequests(r.Context(), h.Session, inputs)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, result, reqID)
}
