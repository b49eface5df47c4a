package www

import (
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"fleetdispatch/engine"
)

type SSEEvent struct {
	Event string
	Data  string
}

type EventHub struct {
	mu        sync.RWMutex
	clients   map[chan SSEEvent]struct{}
	broadcast chan SSEEvent
	stopChan  chan struct{}
}

func NewEventHub() *EventHub {
	return &EventHub{
		clients:   make(map[chan SSEEvent]struct{}),
		broadcast: make(chan SSEEvent, 256),
		stopChan:  make(chan struct{}),
	}
}

func (h *EventHub) Start() {
	go h.run()
}

func (h *EventHub) Stop() {
	select {
	case h.stopChan <- struct{}{}:
	default:
	}
}

func (h *EventHub) run() {
	keepalive := time.NewTicker(30 * time.Second)
	defer keepalive.Stop()

	for {
		select {
		case <-h.stopChan:
			return
		case evt := <-h.broadcast:
			h.mu.RLock()
			for ch := range h.clients {
				select {
				case ch <- evt:
				default:
					// drop if full
				}
			}
			h.mu.RUnlock()
		case <-keepalive.C:
			h.mu.RLock()
			for ch := range h.clients {
				select {
				case ch <- SSEEvent{Event: "keepalive", Data: "ping"}:
				default:
				}
			}
			h.mu.RUnlock()
		}
	}
}

func (h *EventHub) Broadcast(event, data string) {
	select {
	case h.broadcast <- SSEEvent{Event: event, Data: data}:
	default:
	}
}

func (h *EventHub) AddClient() chan SSEEvent {
	ch := make(chan SSEEvent, 64)
	h.mu.Lock()
	h.clients[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *EventHub) RemoveClient(ch chan SSEEvent) {
	h.mu.Lock()
	delete(h.clients, ch)
	h.mu.Unlock()
	close(ch)
}

func (h *EventHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// SetupEngineListeners wires engine events to SSE broadcasts.
func (h *EventHub) SetupEngineListeners(eng *engine.Engine) {
	eng.Events.SubscribeTypes(func(evt engine.Event) {
		ev := evt.Payload.(engine.VehicleCreatedEvent)
		h.Broadcast("vehicle-update", fmt.Sprintf(`{"type":"created","vehicle_id":%d,"registration_no":"%s"}`, ev.VehicleID, ev.RegistrationNo))
	}, engine.EventVehicleCreated)

	eng.Events.SubscribeTypes(func(evt engine.Event) {
		ev := evt.Payload.(engine.VehicleUpdatedEvent)
		h.Broadcast("vehicle-update", fmt.Sprintf(`{"type":"updated","vehicle_id":%d,"registration_no":"%s"}`, ev.VehicleID, ev.RegistrationNo))
	}, engine.EventVehicleUpdated)

	eng.Events.SubscribeTypes(func(evt engine.Event) {
		ev := evt.Payload.(engine.VehicleStatusChangedEvent)
		h.Broadcast("vehicle-update", fmt.Sprintf(`{"type":"status_changed","vehicle_id":%d,"new_status":"%s"}`, ev.VehicleID, ev.NewStatus))
	}, engine.EventVehicleStatusChanged)

	eng.Events.SubscribeTypes(func(evt engine.Event) {
		ev := evt.Payload.(engine.AssignmentCreatedEvent)
		h.Broadcast("assignment-update", fmt.Sprintf(`{"type":"created","vehicle_id":%d,"order_id":"%s","reference":"%s"}`, ev.VehicleID, ev.OrderID, ev.Reference))
	}, engine.EventAssignmentCreated)

	eng.Events.SubscribeTypes(func(evt engine.Event) {
		ev := evt.Payload.(engine.DeliveryStatusChangedEvent)
		h.Broadcast("assignment-update", fmt.Sprintf(`{"type":"status_changed","vehicle_id":%d,"order_id":"%s","new_status":"%s"}`, ev.VehicleID, ev.OrderID, ev.NewStatus))
	}, engine.EventDeliveryStatusChanged)

	eng.Events.SubscribeTypes(func(evt engine.Event) {
		ev := evt.Payload.(engine.MaintenanceAddedEvent)
		h.Broadcast("maintenance-update", fmt.Sprintf(`{"vehicle_id":%d,"record_id":%d}`, ev.VehicleID, ev.RecordID))
	}, engine.EventMaintenanceAdded)

	eng.Events.SubscribeTypes(func(evt engine.Event) {
		h.Broadcast("system-status", `{"orders":"connected"}`)
	}, engine.EventOrdersConnected)

	eng.Events.SubscribeTypes(func(evt engine.Event) {
		h.Broadcast("system-status", `{"orders":"disconnected"}`)
	}, engine.EventOrdersDisconnected)

	eng.Events.SubscribeTypes(func(evt engine.Event) {
		h.Broadcast("system-status", `{"messaging":"connected"}`)
	}, engine.EventMessagingConnected)

	eng.Events.SubscribeTypes(func(evt engine.Event) {
		h.Broadcast("system-status", `{"messaging":"disconnected"}`)
	}, engine.EventMessagingDisconnected)
}

// SSEHandler serves the SSE endpoint.
func (h *EventHub) SSEHandler(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := h.AddClient()
	defer h.RemoveClient(ch)

	for {
		select {
		case <-r.Context().Done():
			return
		case evt := <-ch:
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", evt.Event, evt.Data); err != nil {
				log.Printf("sse: write error: %v", err)
				return
			}
			flusher.Flush()
		}
	}
}
