package dispatch

import "testing"

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{DeliveryPending, DeliveryInTransit, true},
		{DeliveryPending, DeliveryDelivered, true},
		{DeliveryPending, DeliveryFailed, true},
		{DeliveryInTransit, DeliveryDelivered, true},
		{DeliveryInTransit, DeliveryFailed, true},
		{DeliveryInTransit, DeliveryPending, false},
		{DeliveryDelivered, DeliveryInTransit, false},
		{DeliveryDelivered, DeliveryFailed, false},
		{DeliveryFailed, DeliveryPending, false},
		{DeliveryFailed, DeliveryDelivered, false},
		{DeliveryPending, DeliveryPending, true},
		{DeliveryDelivered, DeliveryDelivered, true},
		{"bogus", DeliveryDelivered, false},
	}
	for _, c := range cases {
		if got := CanTransition(c.from, c.to); got != c.want {
			t.Errorf("CanTransition(%q, %q) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestIsTerminalDeliveryStatus(t *testing.T) {
	if !IsTerminalDeliveryStatus(DeliveryDelivered) {
		t.Error("Delivered should be terminal")
	}
	if !IsTerminalDeliveryStatus(DeliveryFailed) {
		t.Error("Failed should be terminal")
	}
	if IsTerminalDeliveryStatus(DeliveryPending) {
		t.Error("Pending should not be terminal")
	}
	if IsTerminalDeliveryStatus(DeliveryInTransit) {
		t.Error("In Transit should not be terminal")
	}
}

func TestStatusConstants(t *testing.T) {
	vehicle := []string{VehicleAvailable, VehicleOnDelivery, VehicleMaintenance, VehicleOutOfService}
	wantVehicle := []string{"Available", "On Delivery", "Maintenance", "Out of Service"}
	for i, s := range vehicle {
		if s != wantVehicle[i] {
			t.Errorf("vehicle status[%d] = %q, want %q", i, s, wantVehicle[i])
		}
	}

	delivery := []string{DeliveryPending, DeliveryInTransit, DeliveryDelivered, DeliveryFailed}
	wantDelivery := []string{"Pending", "In Transit", "Delivered", "Failed"}
	for i, s := range delivery {
		if s != wantDelivery[i] {
			t.Errorf("delivery status[%d] = %q, want %q", i, s, wantDelivery[i])
		}
	}
}
