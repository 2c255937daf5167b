package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"hrsync/internal/bus"
	"hrsync/internal/remote"
	"hrsync/internal/transport/http/api"
	"hrsync/internal/transport/http/middleware"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) handleSignUp(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Fail(w, http.StatusBadRequest, "bad_request", "invalid JSON body", reqID)
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		api.Fail(w, http.StatusBadRequest, "validation_error", "email and password are required", reqID)
		return
	}

	userID, err := h.Auth.SignUp(r.Context(), req.Email, req.Password)
	if errors.Is(err, remote.ErrEmailTaken) {
		api.Fail(w, http.StatusConflict, "email_taken", "email already registered", reqID)
		return
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Created(w, map[string]string{"userId": userID}, reqID)
}

func (h *Handler) handleSignIn(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Fail(w, http.StatusBadRequest, "bad_request", "invalid JSON body", reqID)
		return
	}

	token, userID, err := h.Auth.SignIn(r.Context(), req.Email, req.Password)
	if errors.Is(err, remote.ErrInvalidCredentials) {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password", reqID)
		return
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.Session.Bind(userID)
	if err := h.Service.EnsureUser(r.Context(), h.Session); err != nil {
		h.Session.Clear()
		h.fail(w, r, err)
		return
	}
	h.Bus.Publish(bus.TopicAuthChanged, map[string]string{"userId": userID, "state": "signed_in"})

	api.Success(w, map[string]string{"token": token, "userId": userID}, reqID)
}

func (h *Handler) handleSignOut(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	if !h.requireUser(w, r) {
		return
	}
	user, _ := middleware.GetUser(r.Context())

	if err := h.Auth.SignOut(r.Context(), user.Token); err != nil {
		h.fail(w, r, err)
		return
	}
	h.Session.Clear()
	h.Bus.Publish(bus.TopicAuthChanged, map[string]string{"userId": user.UserID, "state": "signed_out"})

	api.Success(w, map[string]string{"status": "signed out"}, reqID)
}
