package dispatch

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/google/uuid"

	"fleetdispatch/messaging"
	"fleetdispatch/orders"
	"fleetdispatch/store"
)

const dateLayout = "2006-01-02"

// Dispatcher binds orders to vehicles and drives delivery status changes.
type Dispatcher struct {
	db              *store.DB
	backend         orders.Backend
	emitter         Emitter
	deliveriesTopic string
	now             func() time.Time
}

func NewDispatcher(db *store.DB, backend orders.Backend, emitter Emitter, deliveriesTopic string) *Dispatcher {
	return &Dispatcher{
		db:              db,
		backend:         backend,
		emitter:         emitter,
		deliveriesTopic: deliveriesTopic,
		now:             time.Now,
	}
}

// AssignVehicle appends a Pending assignment for the order to the vehicle.
// The order must be in processing state with the order-admin service, the
// scheduled date must not be in the past, and the order must not already
// carry an active assignment. The vehicle's own status is left untouched.
func (d *Dispatcher) AssignVehicle(vehicleID int64, orderID, scheduledDate, actor string) (*VehicleDetail, error) {
	if orderID == "" {
		return nil, &ValidationError{Field: "order_id", Reason: "required"}
	}

	if _, err := d.db.GetVehicle(vehicleID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Entity: "vehicle", Key: strconv.FormatInt(vehicleID, 10)}
		}
		return nil, err
	}

	order, err := d.backend.GetOrder(orderID)
	if err != nil {
		return nil, &NotFoundError{Entity: "order", Key: orderID}
	}
	if order.Status != orders.StatusProcessing {
		return nil, &PreconditionError{Reason: fmt.Sprintf("order %s has status %q, want %q", orderID, order.Status, orders.StatusProcessing)}
	}

	if scheduledDate != "" {
		day, err := time.ParseInLocation(dateLayout, scheduledDate, time.Local)
		if err != nil {
			return nil, &ValidationError{Field: "scheduled_date", Reason: "must be an ISO-8601 date (YYYY-MM-DD)"}
		}
		// Compare calendar days in local time; Truncate would cut at the
		// UTC midnight, which lands mid-day in other zones.
		y, m, dd := d.now().In(time.Local).Date()
		today := time.Date(y, m, dd, 0, 0, 0, 0, time.Local)
		if day.Before(today) {
			return nil, &PreconditionError{Reason: fmt.Sprintf("scheduled date %s is in the past", scheduledDate)}
		}
	}

	existing, err := d.db.GetActiveAssignmentForOrder(orderID)
	if err == nil {
		return nil, &ConflictError{Reason: fmt.Sprintf("order %s already has active assignment %s", orderID, existing.Reference)}
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	a := &store.Assignment{
		VehicleID:     vehicleID,
		OrderID:       orderID,
		Reference:     fmt.Sprintf("asg-%d-%s", vehicleID, uuid.New().String()[:8]),
		Status:        DeliveryPending,
		ScheduledDate: scheduledDate,
	}
	if err := d.db.CreateAssignment(a); err != nil {
		return nil, err
	}
	d.db.AppendAssignmentHistory(a.ID, DeliveryPending, "assignment created")
	d.db.AppendAudit(store.AuditEntityAssignment, a.ID, store.AuditActionCreated, "", orderID, actor)

	d.emitter.EmitAssignmentCreated(a.ID, vehicleID, orderID, a.Reference, scheduledDate)
	log.Printf("dispatch: order %s assigned to vehicle %d (%s)", orderID, vehicleID, a.Reference)

	return d.GetVehicleDetail(vehicleID)
}

// GetAssignmentForOrder finds the vehicle carrying the order, if any.
func (d *Dispatcher) GetAssignmentForOrder(orderID string) (*store.Vehicle, *store.Assignment, error) {
	a, err := d.db.GetAssignmentForOrder(orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, &NotFoundError{Entity: "assignment for order", Key: orderID}
		}
		return nil, nil, err
	}
	v, err := d.db.GetVehicle(a.VehicleID)
	if err != nil {
		return nil, nil, err
	}
	return v, a, nil
}

// SetAssignmentStatus applies a delivery status change to the assignment
// identified by (vehicleID, orderID). The store-level conditional update
// keyed on the current status makes concurrent writers lose cleanly rather
// than silently overwrite. Reaching a terminal status stamps completed_at
// and enqueues a delivery event for the order-admin service; the order's own
// lifecycle remains that collaborator's responsibility.
func (d *Dispatcher) SetAssignmentStatus(vehicleID int64, orderID, newStatus, notes, actor string) (*VehicleDetail, error) {
	if !validDeliveryStatuses[newStatus] {
		return nil, &ValidationError{Field: "status", Reason: fmt.Sprintf("unknown delivery status %q", newStatus)}
	}

	a, err := d.db.GetAssignment(vehicleID, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Entity: "assignment", Key: fmt.Sprintf("vehicle %d order %s", vehicleID, orderID)}
		}
		return nil, err
	}

	if !CanTransition(a.Status, newStatus) {
		return nil, &PreconditionError{Reason: fmt.Sprintf("delivery status %s cannot change to %s", a.Status, newStatus)}
	}

	if a.Status != newStatus {
		ok, err := d.db.TransitionAssignmentStatus(vehicleID, orderID, a.Status, newStatus)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, &ConflictError{Reason: fmt.Sprintf("assignment %s changed concurrently", a.Reference)}
		}
		d.db.AppendAssignmentHistory(a.ID, newStatus, "status changed by "+actor)
		d.db.AppendAudit(store.AuditEntityAssignment, a.ID, store.AuditActionStatusChanged, a.Status, newStatus, actor)
		d.emitter.EmitDeliveryStatusChanged(a.ID, vehicleID, orderID, a.Status, newStatus)

		if IsTerminalDeliveryStatus(newStatus) {
			d.db.CompleteAssignment(a.ID)
			d.enqueueDeliveryEvent(a, newStatus, notes)
		}
	}
	if notes != "" {
		if err := d.db.UpdateAssignmentNotes(a.ID, notes); err != nil {
			return nil, err
		}
	}

	return d.GetVehicleDetail(vehicleID)
}

// AddMaintenanceRecord appends an entry to the vehicle's maintenance log.
func (d *Dispatcher) AddMaintenanceRecord(vehicleID int64, serviceDate, description string, cost float64, nextDueDate, actor string) (*VehicleDetail, error) {
	if _, err := d.db.GetVehicle(vehicleID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Entity: "vehicle", Key: strconv.FormatInt(vehicleID, 10)}
		}
		return nil, err
	}
	if _, err := time.ParseInLocation(dateLayout, serviceDate, time.Local); err != nil {
		return nil, &ValidationError{Field: "service_date", Reason: "must be an ISO-8601 date (YYYY-MM-DD)"}
	}
	if nextDueDate != "" {
		if _, err := time.ParseInLocation(dateLayout, nextDueDate, time.Local); err != nil {
			return nil, &ValidationError{Field: "next_due_date", Reason: "must be an ISO-8601 date (YYYY-MM-DD)"}
		}
	}
	if cost < 0 {
		return nil, &ValidationError{Field: "cost", Reason: "must not be negative"}
	}

	m := &store.MaintenanceRecord{
		VehicleID:   vehicleID,
		ServiceDate: serviceDate,
		Description: description,
		Cost:        cost,
		NextDueDate: nextDueDate,
	}
	if err := d.db.AddMaintenanceRecord(m); err != nil {
		return nil, err
	}
	d.db.AppendAudit(store.AuditEntityMaintenance, m.ID, store.AuditActionCreated, "", description, actor)
	d.emitter.EmitMaintenanceAdded(m.ID, vehicleID, nextDueDate)

	return d.GetVehicleDetail(vehicleID)
}

func (d *Dispatcher) enqueueDeliveryEvent(a *store.Assignment, status, notes string) {
	evt := messaging.DeliveryEvent{
		EventID:    uuid.NewString(),
		Reference:  a.Reference,
		OrderID:    a.OrderID,
		VehicleID:  a.VehicleID,
		Status:     status,
		Notes:      notes,
		OccurredAt: d.now(),
	}
	data, err := evt.Encode()
	if err != nil {
		log.Printf("dispatch: encode delivery event for %s: %v", a.Reference, err)
		return
	}
	if err := d.db.EnqueueOutbox(d.deliveriesTopic, data, "delivery."+status); err != nil {
		log.Printf("dispatch: enqueue delivery event for %s: %v", a.Reference, err)
	}
}
