package livestate

import "time"

type VehicleState struct {
	VehicleID      int64          `json:"vehicle_id"`
	RegistrationNo string         `json:"registration_no"`
	Status         string         `json:"status"`
	BodyType       string         `json:"body_type"`
	Location       string         `json:"location"`
	DriverName     string         `json:"driver_name"`
	Deliveries     []DeliveryItem `json:"deliveries"`
	ActiveCount    int            `json:"active_count"`
}

type DeliveryItem struct {
	AssignmentID  int64      `json:"assignment_id"`
	OrderID       string     `json:"order_id"`
	Reference     string     `json:"reference"`
	Status        string     `json:"status"`
	ScheduledDate string     `json:"scheduled_date,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

type VehicleMeta struct {
	VehicleID      int64  `json:"vehicle_id"`
	RegistrationNo string `json:"registration_no"`
	Status         string `json:"status"`
	BodyType       string `json:"body_type"`
	Location       string `json:"location"`
	DriverName     string `json:"driver_name"`
}
