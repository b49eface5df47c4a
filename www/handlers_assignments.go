package www

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"fleetdispatch/store"
)

func (h *Handlers) apiCreateAssignment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		VehicleID     int64  `json:"vehicle_id"`
		OrderID       string `json:"order_id"`
		ScheduledDate string `json:"scheduled_date"`
	}
	if err := decodeJSON(r, &req); err != nil {
		h.jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	detail, err := h.engine.Dispatcher().AssignVehicle(req.VehicleID, req.OrderID, req.ScheduledDate, h.getUsername(r))
	if err != nil {
		h.jsonDomainError(w, err)
		return
	}
	h.jsonOK(w, detail)
}

func (h *Handlers) apiUpdateAssignmentStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		VehicleID int64  `json:"vehicle_id"`
		OrderID   string `json:"order_id"`
		Status    string `json:"status"`
		Notes     string `json:"notes"`
	}
	if err := decodeJSON(r, &req); err != nil {
		h.jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	detail, err := h.engine.Dispatcher().SetAssignmentStatus(req.VehicleID, req.OrderID, req.Status, req.Notes, h.getUsername(r))
	if err != nil {
		h.jsonDomainError(w, err)
		return
	}
	h.jsonOK(w, detail)
}

func (h *Handlers) apiGetAssignment(w http.ResponseWriter, r *http.Request) {
	orderID := r.URL.Query().Get("orderId")
	if orderID == "" {
		h.jsonError(w, "orderId is required", http.StatusBadRequest)
		return
	}
	vehicle, assignment, err := h.engine.Dispatcher().GetAssignmentForOrder(orderID)
	if err != nil {
		h.jsonDomainError(w, err)
		return
	}
	h.jsonOK(w, map[string]any{
		"vehicle":    vehicle,
		"assignment": assignment,
	})
}

func (h *Handlers) apiListAssignments(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	limit := 100
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 {
			limit = n
		}
	}
	assignments, err := h.engine.DB().ListAssignments(status, limit)
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.jsonOK(w, assignments)
}

func (h *Handlers) apiAssignmentHistory(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "ref")
	a, err := h.engine.DB().GetAssignmentByReference(ref)
	if err != nil {
		h.jsonError(w, "not found", http.StatusNotFound)
		return
	}
	history, err := h.engine.DB().ListAssignmentHistory(a.ID)
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if history == nil {
		history = []*store.AssignmentHistory{}
	}
	h.jsonOK(w, history)
}
