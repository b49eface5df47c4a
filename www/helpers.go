package www

import (
	"encoding/json"
	"errors"
	"net/http"

	"fleetdispatch/dispatch"
)

func (h *Handlers) jsonOK(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func (h *Handlers) jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func (h *Handlers) jsonCodedError(w http.ResponseWriter, msg, code string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg, "code": code})
}

// jsonDomainError maps dispatch errors onto HTTP status codes with a
// machine-readable code. Anything not recognized is a 500.
func (h *Handlers) jsonDomainError(w http.ResponseWriter, err error) {
	var (
		ve *dispatch.ValidationError
		nf *dispatch.NotFoundError
		pe *dispatch.PreconditionError
		ce *dispatch.ConflictError
	)
	switch {
	case errors.As(err, &ve):
		h.jsonCodedError(w, ve.Error(), "validation", http.StatusBadRequest)
	case errors.As(err, &nf):
		h.jsonCodedError(w, nf.Error(), "not_found", http.StatusNotFound)
	case errors.As(err, &pe):
		h.jsonCodedError(w, pe.Error(), "precondition", http.StatusUnprocessableEntity)
	case errors.As(err, &ce):
		h.jsonCodedError(w, ce.Error(), "conflict", http.StatusConflict)
	default:
		h.jsonCodedError(w, err.Error(), "internal", http.StatusInternalServerError)
	}
}

func decodeJSON(r *http.Request, dst any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
