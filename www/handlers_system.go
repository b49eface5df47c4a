package www

import (
	"net/http"
	"strconv"
)

func (h *Handlers) apiFleetState(w http.ResponseWriter, r *http.Request) {
	states, err := h.engine.Live().GetFleetState()
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.jsonOK(w, states)
}

func (h *Handlers) apiListAudit(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 {
			limit = n
		}
	}
	entries, err := h.engine.DB().ListAuditLog(limit)
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.jsonOK(w, entries)
}

func (h *Handlers) apiHealthCheck(w http.ResponseWriter, r *http.Request) {
	dbOK := h.engine.DB().Ping() == nil
	redisOK := h.engine.Live().Ping() == nil
	ordersOK := h.engine.Backend().Ping() == nil
	h.jsonOK(w, map[string]any{
		"status":    "ok",
		"database":  dbOK,
		"redis":     redisOK,
		"orders":    ordersOK,
		"messaging": h.engine.MsgClient().IsConnected(),
	})
}
