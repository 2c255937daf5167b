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

func (h *Handler) handleListPayroll(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	if !h.requireUser(w, r) {
		return
	}

	rows, err := h.Service.ListPayroll(r.Context(), h.Session)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, rows, reqID)
}

func (h *Handler) handleCreatePayroll(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	if !h.requireUser(w, r) {
		return
	}

	var input sync.CreatePayrollInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.Fail(w, http.StatusBadRequest, "bad_request", "invalid JSON body", reqID)
		return
	}

	row, err := h.Service.CreatePayroll(r.Context(), h.Session, input)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Created(w, row, reqID)
}

func (h *Handler) handleUpdatePayroll(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	if !h.requireUser(w, r) {
		return
	}

	var row sync.PayrollData
	if err := json.NewDecoder(r.Body).Decode(&row); err != nil {
		api.Fail(w, http.StatusBadRequest, "bad_request", "invalid JSON body", reqID)
		return
	}
	row.ID = chi.URLParam(r, "payrollID")

	if err := h.Service.UpdatePayroll(r.Context(), h.Session, row); err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, row, reqID)
}

func (h *Handler) handleProcessPayroll(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	if !h.requireUser(w, r) {
		return
	}

	id := chi.URLParam(r, "payrollID")
	if err := h.Service.ProcessPayroll(r.Context(), h.Session, id); err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, map[string]string{"id": id, "status": sync.PayrollStatusPaid}, reqID)
}

func (h *Handler) handleDeletePayroll(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	if !h.requireUser(w, r) {
		return
	}

	if err := h.Service.DeletePayroll(r.Context(), h.Session, chi.URLParam(r, "payrollID")); err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, map[string]string{"status": "deleted"}, reqID)
}

func (h *Handler) handlePayslip(w http.ResponseWriter, r *http.Request) {
	if !h.requireUser(w, r) {
		return
	}

	path, err := h.Service.ExportPayslipPDF(r.Context(), h.Session, chi.URLParam(r, "payrollID"), h.PayslipDir)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="payslip.pdf"`)
	http.ServeFile(w, r, path)
}

func (h *Handler) handleExportPayroll(w http.ResponseWriter, r *http.Request) {
	if !h.requireUser(w, r) {
		return
	}

	rows, err := h.Service.ListPayroll(r.Context(), h.Session)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="payroll.csv"`)
	_ = csvio.ExportPayroll(w, rows)
}
