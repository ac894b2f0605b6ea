package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/eventup/eventup/internal/model"
	"github.com/eventup/eventup/internal/service"
)

// ReservationHandler holds HTTP handlers for the reservation lifecycle.
type ReservationHandler struct {
	svc *service.ReservationService
}

// NewReservationHandler constructs a ReservationHandler.
func NewReservationHandler(svc *service.ReservationService) *ReservationHandler {
	return &ReservationHandler{svc: svc}
}

// Create handles POST /reservations
// Books one place on an event for the authenticated user.
func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal, _ := PrincipalFromContext(r.Context())

	var req struct {
		EventID string `json:"event_id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.EventID == "" {
		writeError(w, http.StatusBadRequest, "event_id is required")
		return
	}

	reservation, err := h.svc.Create(r.Context(), req.EventID, principal.UserID)
	if err != nil {
		writeServiceError(w, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, reservation)
}

// AdminCreate handles POST /reservations/admin/create (admin)
// Books a place on behalf of a chosen participant.
func (h *ReservationHandler) AdminCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EventID string `json:"event_id"`
		UserID  string `json:"user_id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.EventID == "" || req.UserID == "" {
		writeError(w, http.StatusBadRequest, "event_id and user_id are required")
		return
	}

	reservation, err := h.svc.Create(r.Context(), req.EventID, req.UserID)
	if err != nil {
		writeServiceError(w, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, reservation)
}

// ListMine handles GET /reservations/me
func (h *ReservationHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	principal, _ := PrincipalFromContext(r.Context())
	h.writeList(w, r, func() ([]model.Reservation, error) {
		return h.svc.ListByUser(r.Context(), principal.UserID)
	})
}

// ListAll handles GET /reservations/admin (admin)
func (h *ReservationHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	h.writeList(w, r, func() ([]model.Reservation, error) {
		return h.svc.ListAll(r.Context())
	})
}

// ListByEvent handles GET /reservations/admin/by-event/{eventID} (admin)
func (h *ReservationHandler) ListByEvent(w http.ResponseWriter, r *http.Request) {
	h.writeList(w, r, func() ([]model.Reservation, error) {
		return h.svc.ListByEvent(r.Context(), chi.URLParam(r, "eventID"))
	})
}

// ListByParticipant handles GET /reservations/admin/by-participant/{userID} (admin)
func (h *ReservationHandler) ListByParticipant(w http.ResponseWriter, r *http.Request) {
	h.writeList(w, r, func() ([]model.Reservation, error) {
		return h.svc.ListByUser(r.Context(), chi.URLParam(r, "userID"))
	})
}

func (h *ReservationHandler) writeList(w http.ResponseWriter, _ *http.Request, fetch func() ([]model.Reservation, error)) {
	reservations, err := fetch()
	if err != nil {
		writeServiceError(w, err, http.StatusInternalServerError)
		return
	}
	if reservations == nil {
		reservations = []model.Reservation{}
	}
	writeJSON(w, http.StatusOK, reservations)
}

// Get handles GET /reservations/{id}
// Admins see any reservation; participants only their own.
func (h *ReservationHandler) Get(w http.ResponseWriter, r *http.Request) {
	reservation, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"), h.ownerID(r))
	if err != nil {
		writeServiceError(w, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, reservation)
}

// Confirm handles POST /reservations/{id}/confirm
func (h *ReservationHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	principal, _ := PrincipalFromContext(r.Context())
	reservation, err := h.svc.Confirm(r.Context(), chi.URLParam(r, "id"), principal.UserID)
	if err != nil {
		writeServiceError(w, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, reservation)
}

// Cancel handles POST /reservations/{id}/cancel
func (h *ReservationHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	principal, _ := PrincipalFromContext(r.Context())
	reservation, err := h.svc.Cancel(r.Context(), chi.URLParam(r, "id"), principal.UserID)
	if err != nil {
		writeServiceError(w, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, reservation)
}

// Update handles PATCH /reservations/{id}
// A status patch routes through the state machine (confirm or cancel).
func (h *ReservationHandler) Update(w http.ResponseWriter, r *http.Request) {
	principal, _ := PrincipalFromContext(r.Context())

	var req struct {
		Status model.ReservationStatus `json:"status"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	reservation, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), req.Status, principal.UserID)
	if err != nil {
		writeServiceError(w, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, reservation)
}

// AdminConfirm handles POST /reservations/{id}/admin/confirm (admin)
func (h *ReservationHandler) AdminConfirm(w http.ResponseWriter, r *http.Request) {
	reservation, err := h.svc.AdminConfirm(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, reservation)
}

// AdminRefuse handles POST /reservations/{id}/admin/refuse (admin)
func (h *ReservationHandler) AdminRefuse(w http.ResponseWriter, r *http.Request) {
	reservation, err := h.svc.AdminRefuse(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, reservation)
}

// AdminCancel handles POST /reservations/{id}/admin/cancel (admin)
func (h *ReservationHandler) AdminCancel(w http.ResponseWriter, r *http.Request) {
	reservation, err := h.svc.AdminCancel(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, reservation)
}

// Ticket handles GET /reservations/{id}/ticket
// Streams the PDF ticket for a confirmed reservation.
func (h *ReservationHandler) Ticket(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	pdf, err := h.svc.Ticket(r.Context(), id, h.ownerID(r))
	if err != nil {
		writeServiceError(w, err, http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="ticket-`+id+`.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

// ownerID returns the principal's user id, or "" for admins so ownership
// checks are skipped.
func (h *ReservationHandler) ownerID(r *http.Request) string {
	principal, _ := PrincipalFromContext(r.Context())
	if principal.IsAdmin() {
		return ""
	}
	return principal.UserID
}
