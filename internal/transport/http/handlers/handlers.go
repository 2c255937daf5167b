package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrsync/internal/bus"
	"hrsync/internal/domain/sync"
	"hrsync/internal/remote"
	"hrsync/internal/session"
	"hrsync/internal/transport/http/api"
	"hrsync/internal/transport/http/middleware"
)

// Handler exposes the sync service over HTTP to the local UI. The daemon
// represents one client instance, so it carries exactly one session; a
// bearer token for a different user is rejected rather than silently
// reading another user's cache.
type Handler struct {
	Service    *sync.Service
	Auth       *remote.Auth
	Session    *session.Session
	Bus        *bus.Bus
	PayslipDir string
}

func NewHandler(service *sync.Service, auth *remote.Auth, sess *session.Session, eventBus *bus.Bus, payslipDir string) *Handler {
	return &Handler{Service: service, Auth: auth, Session: sess, Bus: eventBus, PayslipDir: payslipDir}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/signup", h.handleSignUp)
	r.Post("/auth/signin", h.handleSignIn)
	r.Post("/auth/signout", h.handleSignOut)

	r.Route("/employees", func(r chi.Router) {
		r.Get("/", h.handleListEmployees)
		r.Post("/", h.handleCreateEmployee)
		r.Get("/export", h.handleExportEmployees)
		r.Get("/template", h.handleEmployeeTemplate)
		r.Post("/import", h.handleImportEmployees)
		r.Put("/{employeeID}", h.handleUpdateEmployee)
		r.Delete("/{employeeID}", h.handleDeleteEmployee)
	})

	r.Route("/leave", func(r chi.Router) {
		r.Get("/", h.handleListLeave)
		r.Post("/", h.handleCreateLeave)
		r.Get("/export", h.handleExportLeave)
		r.Get("/template", h.handleLeaveTemplate)
		r.Post("/import", h.handleImportLeave)
		r.Post("/{requestID}/approve", h.handleApproveLeave)
		r.Post("/{requestID}/reject", h.handleRejectLeave)
		r.Delete("/{requestID}", h.handleDeleteLeave)
	})

	r.Route("/payroll", func(r chi.Router) {
		r.Get("/", h.handleListPayroll)
		r.Post("/", h.handleCreatePayroll)
		r.Get("/export", h.handleExportPayroll)
		r.Put("/{payrollID}", h.handleUpdatePayroll)
		r.Post("/{payrollID}/process", h.handleProcessPayroll)
		r.Get("/{payrollID}/payslip", h.handlePayslip)
		r.Delete("/{payrollID}", h.handleDeletePayroll)
	})

	r.Route("/trash", func(r chi.Router) {
		r.Get("/", h.handleListTrash)
		r.Post("/{itemID}/restore", h.handleRestore)
	})

	r.Get("/activity", h.handleListActivity)
	r.Get("/events", h.handleEvents)
}

// requireUser checks the bearer identity against the daemon's session.
func (h *Handler) requireUser(w http.ResponseWriter, r *http.Request) bool {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return false
	}
	bound, ok := h.Session.UserID()
	if !ok || bound != user.UserID {
		api.Fail(w, http.StatusUnauthorized, "session_mismatch", "token does not match the active session", reqID)
		return false
	}
	return true
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	reqID := middleware.GetRequestID(r.Context())

	var validation *sync.ValidationError
	switch {
	case errors.As(err, &validation):
		api.FailWithDetails(w, http.StatusBadRequest, "validation_error", "payload validation failed",
			map[string]any{"fields": validation.Fields}, reqID)
	case errors.Is(err, sync.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "no such record", reqID)
	case errors.Is(err, sync.ErrNoSession):
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
	default:
		api.Fail(w, http.StatusInternalServerError, "internal_error", "could not complete action, please retry", reqID)
	}
}
