package messaging

import (
	"encoding/json"
	"time"
)

// DeliveryEvent is published when an assignment reaches a terminal delivery
// status. The order-admin service consumes these to reconcile its own order
// lifecycle.
type DeliveryEvent struct {
	EventID    string    `json:"event_id"`
	Reference  string    `json:"assignment_ref"`
	OrderID    string    `json:"order_id"`
	VehicleID  int64     `json:"vehicle_id"`
	Status     string    `json:"status"`
	Notes      string    `json:"notes,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (e DeliveryEvent) Encode() ([]byte, error) {
	return json.Marshal(e)
}

func DecodeDeliveryEvent(data []byte) (*DeliveryEvent, error) {
	var e DeliveryEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
