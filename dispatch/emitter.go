package dispatch

// Emitter receives domain events from the dispatcher. The engine bridges it
// onto the event bus; tests use a recording mock.
type Emitter interface {
	EmitVehicleCreated(vehicleID int64, registrationNo string)
	EmitVehicleUpdated(vehicleID int64, registrationNo string)
	EmitVehicleStatusChanged(vehicleID int64, oldStatus, newStatus, actor string)
	EmitAssignmentCreated(assignmentID, vehicleID int64, orderID, reference, scheduledDate string)
	EmitDeliveryStatusChanged(assignmentID, vehicleID int64, orderID, oldStatus, newStatus string)
	EmitMaintenanceAdded(recordID, vehicleID int64, nextDueDate string)
}
