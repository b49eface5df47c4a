package dispatch

// Vehicle operational status. Independent of any assignment's delivery
// status; admin actions may set any value at any time.
const (
	VehicleAvailable    = "Available"
	VehicleOnDelivery   = "On Delivery"
	VehicleMaintenance  = "Maintenance"
	VehicleOutOfService = "Out of Service"
)

// Per-assignment delivery status. Every assignment starts at Pending.
const (
	DeliveryPending   = "Pending"
	DeliveryInTransit = "In Transit"
	DeliveryDelivered = "Delivered"
	DeliveryFailed    = "Failed"
)

// Vehicle body types.
const (
	BodyVan        = "Van"
	BodyTruck      = "Truck"
	BodyLorry      = "Lorry"
	BodyMotorcycle = "Motorcycle"
)

// Administrative fleet groupings.
const (
	LocationHongKong       = "Hong Kong"
	LocationKowloon        = "Kowloon"
	LocationNewTerritories = "New Territories"
)

var validVehicleStatuses = map[string]bool{
	VehicleAvailable:    true,
	VehicleOnDelivery:   true,
	VehicleMaintenance:  true,
	VehicleOutOfService: true,
}

var validDeliveryStatuses = map[string]bool{
	DeliveryPending:   true,
	DeliveryInTransit: true,
	DeliveryDelivered: true,
	DeliveryFailed:    true,
}

var validBodyTypes = map[string]bool{
	BodyVan:        true,
	BodyTruck:      true,
	BodyLorry:      true,
	BodyMotorcycle: true,
}

var validLocations = map[string]bool{
	LocationHongKong:       true,
	LocationKowloon:        true,
	LocationNewTerritories: true,
}

// allowedTransitions is the delivery status machine. Forward-only: skipping
// In Transit is allowed (a same-day delivery may be confirmed directly), but
// Delivered and Failed are terminal.
var allowedTransitions = map[string][]string{
	DeliveryPending:   {DeliveryInTransit, DeliveryDelivered, DeliveryFailed},
	DeliveryInTransit: {DeliveryDelivered, DeliveryFailed},
	DeliveryDelivered: {},
	DeliveryFailed:    {},
}

// CanTransition reports whether from -> to is an allowed delivery status change.
func CanTransition(from, to string) bool {
	if from == to {
		return true
	}
	allowed, ok := allowedTransitions[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminalDeliveryStatus reports whether the status closes an assignment.
func IsTerminalDeliveryStatus(s string) bool {
	return s == DeliveryDelivered || s == DeliveryFailed
}
