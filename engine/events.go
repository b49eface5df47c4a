package engine

const (
	EventVehicleCreated EventType = iota + 1
	EventVehicleUpdated
	EventVehicleStatusChanged
	EventAssignmentCreated
	EventDeliveryStatusChanged
	EventMaintenanceAdded
	EventOrdersConnected
	EventOrdersDisconnected
	EventMessagingConnected
	EventMessagingDisconnected
)

// --- Event payloads ---

type VehicleCreatedEvent struct {
	VehicleID      int64
	RegistrationNo string
}

type VehicleUpdatedEvent struct {
	VehicleID      int64
	RegistrationNo string
}

type VehicleStatusChangedEvent struct {
	VehicleID int64
	OldStatus string
	NewStatus string
	Actor     string
}

type AssignmentCreatedEvent struct {
	AssignmentID  int64
	VehicleID     int64
	OrderID       string
	Reference     string
	ScheduledDate string
}

type DeliveryStatusChangedEvent struct {
	AssignmentID int64
	VehicleID    int64
	OrderID      string
	OldStatus    string
	NewStatus    string
}

type MaintenanceAddedEvent struct {
	RecordID    int64
	VehicleID   int64
	NextDueDate string
}

type ConnectionEvent struct {
	Detail string
}
