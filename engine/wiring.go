package engine

func (e *Engine) wireEventHandlers() {
	// Keep the Redis mirror current whenever a vehicle record changes
	e.Events.SubscribeTypes(func(evt Event) {
		switch ev := evt.Payload.(type) {
		case VehicleCreatedEvent:
			e.live.RefreshVehicle(ev.VehicleID)
		case VehicleUpdatedEvent:
			e.live.RefreshVehicle(ev.VehicleID)
		case VehicleStatusChangedEvent:
			e.live.RefreshVehicle(ev.VehicleID)
		case MaintenanceAddedEvent:
			e.live.RefreshVehicle(ev.VehicleID)
		}
	}, EventVehicleCreated, EventVehicleUpdated, EventVehicleStatusChanged, EventMaintenanceAdded)

	// New assignments and delivery status changes also affect the mirror
	e.Events.SubscribeTypes(func(evt Event) {
		ev := evt.Payload.(AssignmentCreatedEvent)
		e.live.RefreshVehicle(ev.VehicleID)
		e.logFn("engine: assignment %s created for vehicle %d (order %s)", ev.Reference, ev.VehicleID, ev.OrderID)
	}, EventAssignmentCreated)

	e.Events.SubscribeTypes(func(evt Event) {
		ev := evt.Payload.(DeliveryStatusChangedEvent)
		e.live.RefreshVehicle(ev.VehicleID)
		e.logFn("engine: delivery for order %s on vehicle %d: %s -> %s", ev.OrderID, ev.VehicleID, ev.OldStatus, ev.NewStatus)
	}, EventDeliveryStatusChanged)

	// Connection changes: log only
	e.Events.SubscribeTypes(func(evt Event) {
		ev := evt.Payload.(ConnectionEvent)
		e.logFn("engine: %s", ev.Detail)
	}, EventOrdersConnected, EventOrdersDisconnected, EventMessagingConnected, EventMessagingDisconnected)
}
