package handler

import (
	"net/http"

	"github.com/eventup/eventup/internal/service"
)

// AdminHandler serves the admin dashboard statistics.
type AdminHandler struct {
	svc *service.AdminService
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(svc *service.AdminService) *AdminHandler {
	return &AdminHandler{svc: svc}
}

// Stats handles GET /admin/stats (admin)
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		writeServiceError(w, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
