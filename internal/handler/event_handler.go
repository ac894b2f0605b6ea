package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/eventup/eventup/internal/model"
	"github.com/eventup/eventup/internal/service"
)

// EventHandler holds HTTP handlers for the event lifecycle.
type EventHandler struct {
	svc *service.EventService
}

// NewEventHandler constructs an EventHandler.
func NewEventHandler(svc *service.EventService) *EventHandler {
	return &EventHandler{svc: svc}
}

// Create handles POST /events (admin)
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.CreateEventInput
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	event, err := h.svc.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, event)
}

// List handles GET /events (admin, drafts included)
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	events, err := h.svc.List(r.Context())
	if err != nil {
		writeServiceError(w, err, http.StatusInternalServerError)
		return
	}
	if events == nil {
		events = []model.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}

// ListPublished handles GET /events/published (public)
func (h *EventHandler) ListPublished(w http.ResponseWriter, r *http.Request) {
	events, err := h.svc.ListPublished(r.Context())
	if err != nil {
		writeServiceError(w, err, http.StatusInternalServerError)
		return
	}
	if events == nil {
		events = []model.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}

// Get handles GET /events/{id}
func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	event, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// Update handles PATCH /events/{id} (admin)
func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateEventInput
	if err := decodeJSON(r, &req); err != nil {
		// A "status" field lands here: only publish/cancel change status.
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	event, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeServiceError(w, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// Delete handles DELETE /events/{id} (admin, drafts only)
func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err, http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Publish handles POST /events/{id}/publish (admin)
func (h *EventHandler) Publish(w http.ResponseWriter, r *http.Request) {
	event, err := h.svc.Publish(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// Cancel handles POST /events/{id}/cancel (admin)
func (h *EventHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	event, err := h.svc.Cancel(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, event)
}
