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

func (h *Handler) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	if !h.requireUser(w, r) {
		return
	}

	employees, err := h.Service.ListEmployees(r.Context(), h.Session)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, employees, reqID)
}

func (h *Handler) handleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	if !h.requireUser(w, r) {
		return
	}

	var input sync.CreateEmployeeInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.Fail(w, http.StatusBadRequest, "bad_request", "invalid JSON body", reqID)
		return
	}

	emp, err := h.Service.CreateEmployee(r.Context(), h.Session, input)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Created(w, emp, reqID)
}

func (h *Handler) handleUpdateEmployee(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	if !h.requireUser(w, r) {
		return
	}

	var emp sync.Employee
	if err := json.NewDecoder(r.Body).Decode(&emp); err != nil {
		api.Fail(w, http.StatusBadRequest, "bad_request", "invalid JSON body", reqID)
		return
	}
	emp.ID = chi.URLParam(r, "employeeID")

	if err := h.Service.UpdateEmployee(r.Context(), h.Session, emp); err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, emp, reqID)
}

func (h *Handler) handleDeleteEmployee(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	if !h.requireUser(w, r) {
		return
	}

	if err := h.Service.DeleteEmployee(r.Context(), h.Session, chi.URLParam(r, "employeeID")); err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, map[string]string{"status": "deleted"}, reqID)
}

func (h *Handler) handleExportEmployees(w http.ResponseWriter, r *http.Request) {
	if !h.requireUser(w, r) {
		return
	}

	employees, err := h.Service.ListEmployees(r.Context(), h.Session)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="employees.csv"`)
	_ = csvio.ExportEmployees(w, employees)
}

func (h *Handler) handleEmployeeTemplate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="employee_template.csv"`)
	_ = csvio.WriteEmployeeTemplate(w)
}

func (h *Handler) handleImportEmployees(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	if !h.requireUser(w, r) {
		return
	}

	inputs, err := csvio.ParseEmployees(r.Body)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "bad_csv", err.Error(), reqID)
		return
	}

	result, err := h.Service.ImportEmployees(r.Context(), h.Session, inputs)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, result, reqID)
}
