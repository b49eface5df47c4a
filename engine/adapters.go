package engine

// dispatchEmitter bridges the dispatch package's emitter interface to the EventBus.
type dispatchEmitter struct {
	bus *EventBus
}

func (e *dispatchEmitter) EmitVehicleCreated(vehicleID int64, registrationNo string) {
	e.bus.Emit(Event{Type: EventVehicleCreated, Payload: VehicleCreatedEvent{
		VehicleID:      vehicleID,
		RegistrationNo: registrationNo,
	}})
}

func (e *dispatchEmitter) EmitVehicleUpdated(vehicleID int64, registrationNo string) {
	e.bus.Emit(Event{Type: EventVehicleUpdated, Payload: VehicleUpdatedEvent{
		VehicleID:      vehicleID,
		RegistrationNo: registrationNo,
	}})
}

func (e *dispatchEmitter) EmitVehicleStatusChanged(vehicleID int64, oldStatus, newStatus, actor string) {
	e.bus.Emit(Event{Type: EventVehicleStatusChanged, Payload: VehicleStatusChangedEvent{
		VehicleID: vehicleID,
		OldStatus: oldStatus,
		NewStatus: newStatus,
		Actor:     actor,
	}})
}

func (e *dispatchEmitter) EmitAssignmentCreated(assignmentID, vehicleID int64, orderID, reference, scheduledDate string) {
	e.bus.Emit(Event{Type: EventAssignmentCreated, Payload: AssignmentCreatedEvent{
		AssignmentID:  assignmentID,
		VehicleID:     vehicleID,
		OrderID:       orderID,
		Reference:     reference,
		ScheduledDate: scheduledDate,
	}})
}

func (e *dispatchEmitter) EmitDeliveryStatusChanged(assignmentID, vehicleID int64, orderID, oldStatus, newStatus string) {
	e.bus.Emit(Event{Type: EventDeliveryStatusChanged, Payload: DeliveryStatusChangedEvent{
		AssignmentID: assignmentID,
		VehicleID:    vehicleID,
		OrderID:      orderID,
		OldStatus:    oldStatus,
		NewStatus:    newStatus,
	}})
}

func (e *dispatchEmitter) EmitMaintenanceAdded(recordID, vehicleID int64, nextDueDate string) {
	e.bus.Emit(Event{Type: EventMaintenanceAdded, Payload: MaintenanceAddedEvent{
		RecordID:    recordID,
		VehicleID:   vehicleID,
		NextDueDate: nextDueDate,
	}})
}
