package www

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"

	"fleetdispatch/engine"
)

type Handlers struct {
	engine   *engine.Engine
	sessions *sessions.CookieStore
	eventHub *EventHub
}

func NewRouter(eng *engine.Engine) (http.Handler, func()) {
	hub := NewEventHub()
	hub.Start()
	hub.SetupEngineListeners(eng)

	h := &Handlers{
		engine:   eng,
		sessions: newSessionStore(eng.AppConfig().Web.SessionSecret),
		eventHub: hub,
	}

	h.ensureDefaultAdmin(eng.DB())

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	// SSE
	r.Get("/events", hub.SSEHandler)

	// Session endpoints
	r.Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)

	// Read API (no auth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/vehicles", h.apiListVehicles)
		r.Get("/vehicles/{id}", h.apiGetVehicle)
		r.Get("/vehicles/{id}/maintenance", h.apiListMaintenance)
		r.Get("/assign", h.apiGetAssignment)
		r.Get("/assignments", h.apiListAssignments)
		r.Get("/assignments/{ref}/history", h.apiAssignmentHistory)
		r.Get("/fleetstate", h.apiFleetState)
		r.Get("/health", h.apiHealthCheck)
	})

	// Mutating API (session required)
	r.Group(func(r chi.Router) {
		r.Use(h.requireAuth)
		r.Post("/api/vehicles", h.apiCreateVehicle)
		r.Put("/api/vehicles/{id}", h.apiUpdateVehicle)
		r.Post("/api/assign", h.apiCreateAssignment)
		r.Put("/api/assign", h.apiUpdateAssignmentStatus)
		r.Post("/api/vehicles/{id}/maintenance", h.apiAddMaintenance)
		r.Get("/api/audit", h.apiListAudit)
	})

	stopFn := func() {
		hub.Stop()
	}

	return r, stopFn
}
