package orders

import "time"

// Order status lifecycle owned by the order-admin service. This subsystem
// only reads it; the single state that admits a vehicle assignment is
// StatusProcessing.
const (
	StatusPending             = "pending"
	StatusPendingVerification = "pending_payment_verification"
	StatusProcessing          = "processing"
	StatusShipped             = "shipped"
	StatusDelivered           = "delivered"
	StatusCancelled           = "cancelled"
)

// Order is the slice of the order-admin document this subsystem cares about.
type Order struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	Customer string `json:"customer,omitempty"`
	Total    string `json:"total,omitempty"`
}

// Backend is the interface to the order-admin collaborator. The production
// implementation is the HTTP Client; tests substitute a mock.
type Backend interface {
	// GetOrder fetches a single order by its id.
	GetOrder(orderID string) (*Order, error)

	// Ping checks connectivity to the order-admin service.
	Ping() error

	// Name returns a human-readable name for the collaborator.
	Name() string

	// Reconfigure applies base URL / timeout changes at runtime.
	Reconfigure(baseURL string, timeout time.Duration)
}
