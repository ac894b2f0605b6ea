package handler

import (
	"net/http"

	"github.com/eventup/eventup/internal/model"
	"github.com/eventup/eventup/internal/service"
)

// AuthHandler holds HTTP handlers for registration and login.
type AuthHandler struct {
	svc *service.AuthService
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

type authResponse struct {
	User        *model.User `json:"user"`
	AccessToken string      `json:"access_token"`
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterInput
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	user, token, err := h.svc.Register(r.Context(), req)
	if err != nil {
		writeServiceError(w, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, authResponse{User: user, AccessToken: token})
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	user, token, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, authResponse{User: user, AccessToken: token})
}

// ListParticipants handles GET /users/participants (admin), used by the
// admin reservation form.
func (h *AuthHandler) ListParticipants(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.ListParticipants(r.Context())
	if err != nil {
		writeServiceError(w, err, http.StatusInternalServerError)
		return
	}
	if users == nil {
		users = []model.User{}
	}
	writeJSON(w, http.StatusOK, users)
}
