package www

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"fleetdispatch/dispatch"
)

func (h *Handlers) vehicleID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.jsonError(w, "invalid vehicle id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func (h *Handlers) apiListVehicles(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	vehicles, err := h.engine.Dispatcher().ListVehicles(status)
	if err != nil {
		h.jsonDomainError(w, err)
		return
	}
	h.jsonOK(w, vehicles)
}

func (h *Handlers) apiCreateVehicle(w http.ResponseWriter, r *http.Request) {
	var in dispatch.VehicleInput
	if err := decodeJSON(r, &in); err != nil {
		h.jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	v, err := h.engine.Dispatcher().CreateVehicle(in, h.getUsername(r))
	if err != nil {
		h.jsonDomainError(w, err)
		return
	}
	h.jsonOK(w, v)
}

func (h *Handlers) apiGetVehicle(w http.ResponseWriter, r *http.Request) {
	id, ok := h.vehicleID(w, r)
	if !ok {
		return
	}
	detail, err := h.engine.Dispatcher().GetVehicleDetail(id)
	if err != nil {
		h.jsonDomainError(w, err)
		return
	}
	h.jsonOK(w, detail)
}

func (h *Handlers) apiUpdateVehicle(w http.ResponseWriter, r *http.Request) {
	id, ok := h.vehicleID(w, r)
	if !ok {
		return
	}
	var upd dispatch.VehicleUpdate
	if err := decodeJSON(r, &upd); err != nil {
		h.jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	v, err := h.engine.Dispatcher().UpdateVehicle(id, upd, h.getUsername(r))
	if err != nil {
		h.jsonDomainError(w, err)
		return
	}
	h.jsonOK(w, v)
}

func (h *Handlers) apiListMaintenance(w http.ResponseWriter, r *http.Request) {
	id, ok := h.vehicleID(w, r)
	if !ok {
		return
	}
	records, err := h.engine.DB().ListMaintenanceRecords(id)
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.jsonOK(w, records)
}

func (h *Handlers) apiAddMaintenance(w http.ResponseWriter, r *http.Request) {
	id, ok := h.vehicleID(w, r)
	if !ok {
		return
	}
	var req struct {
		ServiceDate string  `json:"service_date"`
		Description string  `json:"description"`
		Cost        float64 `json:"cost"`
		NextDueDate string  `json:"next_due_date"`
	}
	if err := decodeJSON(r, &req); err != nil {
		h.jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	detail, err := h.engine.Dispatcher().AddMaintenanceRecord(id, req.ServiceDate, req.Description, req.Cost, req.NextDueDate, h.getUsername(r))
	if err != nil {
		h.jsonDomainError(w, err)
		return
	}
	h.jsonOK(w, detail)
}
