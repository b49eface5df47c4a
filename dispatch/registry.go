package dispatch

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"fleetdispatch/store"
)

// VehicleInput carries all fields of a vehicle create request.
type VehicleInput struct {
	RegistrationNo   string `json:"registration_no"`
	Owner            string `json:"owner"`
	Make             string `json:"make"`
	Model            string `json:"model"`
	MakeYear         int    `json:"make_year"`
	ChassisNo        string `json:"chassis_no"`
	WeightKg         int    `json:"weight_kg"`
	CylinderCc       int    `json:"cylinder_cc"`
	BodyType         string `json:"body_type"`
	DriverName       string `json:"driver_name"`
	DriverLicenseNo  string `json:"driver_license_no"`
	DriverContactNo  string `json:"driver_contact_no"`
	DriverEmail      string `json:"driver_email"`
	AssignedLocation string `json:"assigned_location"`
}

// VehicleUpdate carries a partial update; nil fields are left unchanged.
type VehicleUpdate struct {
	RegistrationNo   *string `json:"registration_no"`
	Owner            *string `json:"owner"`
	Make             *string `json:"make"`
	Model            *string `json:"model"`
	MakeYear         *int    `json:"make_year"`
	ChassisNo        *string `json:"chassis_no"`
	WeightKg         *int    `json:"weight_kg"`
	CylinderCc       *int    `json:"cylinder_cc"`
	BodyType         *string `json:"body_type"`
	Status           *string `json:"status"`
	DriverName       *string `json:"driver_name"`
	DriverLicenseNo  *string `json:"driver_license_no"`
	DriverContactNo  *string `json:"driver_contact_no"`
	DriverEmail      *string `json:"driver_email"`
	AssignedLocation *string `json:"assigned_location"`
}

// VehicleDetail is the full vehicle record with its nested collections.
type VehicleDetail struct {
	*store.Vehicle
	Assignments []*store.Assignment        `json:"assigned_orders"`
	Maintenance []*store.MaintenanceRecord `json:"maintenance_records"`
}

// CreateVehicle validates and persists a new vehicle. Status always starts
// at Available.
func (d *Dispatcher) CreateVehicle(in VehicleInput, actor string) (*store.Vehicle, error) {
	if err := validateVehicleInput(&in); err != nil {
		return nil, err
	}
	if _, err := d.db.GetVehicleByRegistration(in.RegistrationNo); err == nil {
		return nil, &ConflictError{Reason: fmt.Sprintf("registration %q already exists", in.RegistrationNo)}
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	v := &store.Vehicle{
		RegistrationNo:   in.RegistrationNo,
		Owner:            in.Owner,
		Make:             in.Make,
		Model:            in.Model,
		MakeYear:         in.MakeYear,
		ChassisNo:        in.ChassisNo,
		WeightKg:         in.WeightKg,
		CylinderCc:       in.CylinderCc,
		BodyType:         in.BodyType,
		Status:           VehicleAvailable,
		DriverName:       in.DriverName,
		DriverLicenseNo:  in.DriverLicenseNo,
		DriverContactNo:  in.DriverContactNo,
		DriverEmail:      in.DriverEmail,
		AssignedLocation: in.AssignedLocation,
	}
	if err := d.db.CreateVehicle(v); err != nil {
		return nil, err
	}
	d.db.AppendAudit(store.AuditEntityVehicle, v.ID, store.AuditActionCreated, "", v.RegistrationNo, actor)
	d.emitter.EmitVehicleCreated(v.ID, v.RegistrationNo)
	return d.db.GetVehicle(v.ID)
}

// UpdateVehicle merges the partial update into the stored record and
// re-validates before persisting.
func (d *Dispatcher) UpdateVehicle(id int64, upd VehicleUpdate, actor string) (*store.Vehicle, error) {
	v, err := d.db.GetVehicle(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Entity: "vehicle", Key: strconv.FormatInt(id, 10)}
		}
		return nil, err
	}

	oldStatus := v.Status
	oldRegistration := v.RegistrationNo
	applyVehicleUpdate(v, &upd)

	in := VehicleInput{
		RegistrationNo:   v.RegistrationNo,
		Owner:            v.Owner,
		Make:             v.Make,
		Model:            v.Model,
		MakeYear:         v.MakeYear,
		ChassisNo:        v.ChassisNo,
		WeightKg:         v.WeightKg,
		CylinderCc:       v.CylinderCc,
		BodyType:         v.BodyType,
		DriverName:       v.DriverName,
		DriverLicenseNo:  v.DriverLicenseNo,
		DriverContactNo:  v.DriverContactNo,
		DriverEmail:      v.DriverEmail,
		AssignedLocation: v.AssignedLocation,
	}
	if err := validateVehicleInput(&in); err != nil {
		return nil, err
	}
	if !validVehicleStatuses[v.Status] {
		return nil, &ValidationError{Field: "status", Reason: fmt.Sprintf("unknown vehicle status %q", v.Status)}
	}
	if v.RegistrationNo != oldRegistration {
		if _, err := d.db.GetVehicleByRegistration(v.RegistrationNo); err == nil {
			return nil, &ConflictError{Reason: fmt.Sprintf("registration %q already exists", v.RegistrationNo)}
		} else if !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
	}

	if err := d.db.UpdateVehicle(v); err != nil {
		return nil, err
	}
	if v.Status != oldStatus {
		d.db.AppendAudit(store.AuditEntityVehicle, v.ID, store.AuditActionStatusChanged, oldStatus, v.Status, actor)
		d.emitter.EmitVehicleStatusChanged(v.ID, oldStatus, v.Status, actor)
	}
	d.emitter.EmitVehicleUpdated(v.ID, v.RegistrationNo)
	return d.db.GetVehicle(v.ID)
}

// SetVehicleStatus overwrites the vehicle's operational status. Assignments
// are never touched; the two status vocabularies stay independent.
func (d *Dispatcher) SetVehicleStatus(vehicleID int64, newStatus, actor string) (*store.Vehicle, error) {
	if !validVehicleStatuses[newStatus] {
		return nil, &ValidationError{Field: "status", Reason: fmt.Sprintf("unknown vehicle status %q", newStatus)}
	}
	v, err := d.db.GetVehicle(vehicleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Entity: "vehicle", Key: strconv.FormatInt(vehicleID, 10)}
		}
		return nil, err
	}
	if err := d.db.UpdateVehicleStatus(vehicleID, newStatus); err != nil {
		return nil, err
	}
	d.db.AppendAudit(store.AuditEntityVehicle, vehicleID, store.AuditActionStatusChanged, v.Status, newStatus, actor)
	d.emitter.EmitVehicleStatusChanged(vehicleID, v.Status, newStatus, actor)
	return d.db.GetVehicle(vehicleID)
}

// GetVehicleDetail returns the vehicle with its assignments and maintenance log.
func (d *Dispatcher) GetVehicleDetail(id int64) (*VehicleDetail, error) {
	v, err := d.db.GetVehicle(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Entity: "vehicle", Key: strconv.FormatInt(id, 10)}
		}
		return nil, err
	}
	assignments, err := d.db.ListAssignmentsByVehicle(id)
	if err != nil {
		return nil, err
	}
	maintenance, err := d.db.ListMaintenanceRecords(id)
	if err != nil {
		return nil, err
	}
	return &VehicleDetail{Vehicle: v, Assignments: assignments, Maintenance: maintenance}, nil
}

// ListVehicles returns vehicles, optionally filtered by operational status.
func (d *Dispatcher) ListVehicles(status string) ([]*store.Vehicle, error) {
	if status != "" && !validVehicleStatuses[status] {
		return nil, &ValidationError{Field: "status", Reason: fmt.Sprintf("unknown vehicle status %q", status)}
	}
	return d.db.ListVehicles(status)
}

func validateVehicleInput(in *VehicleInput) error {
	required := []struct{ field, value string }{
		{"registration_no", in.RegistrationNo},
		{"owner", in.Owner},
		{"make", in.Make},
		{"model", in.Model},
		{"chassis_no", in.ChassisNo},
		{"driver_name", in.DriverName},
		{"driver_license_no", in.DriverLicenseNo},
		{"driver_contact_no", in.DriverContactNo},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return &ValidationError{Field: r.field, Reason: "required"}
		}
	}
	if in.MakeYear <= 0 {
		return &ValidationError{Field: "make_year", Reason: "must be a positive number"}
	}
	if in.WeightKg <= 0 {
		return &ValidationError{Field: "weight_kg", Reason: "must be a positive number"}
	}
	if in.CylinderCc <= 0 {
		return &ValidationError{Field: "cylinder_cc", Reason: "must be a positive number"}
	}
	if !validBodyTypes[in.BodyType] {
		return &ValidationError{Field: "body_type", Reason: fmt.Sprintf("unknown body type %q", in.BodyType)}
	}
	if !validLocations[in.AssignedLocation] {
		return &ValidationError{Field: "assigned_location", Reason: fmt.Sprintf("unknown location %q", in.AssignedLocation)}
	}
	return nil
}

func applyVehicleUpdate(v *store.Vehicle, upd *VehicleUpdate) {
	if upd.RegistrationNo != nil {
		v.RegistrationNo = *upd.RegistrationNo
	}
	if upd.Owner != nil {
		v.Owner = *upd.Owner
	}
	if upd.Make != nil {
		v.Make = *upd.Make
	}
	if upd.Model != nil {
		v.Model = *upd.Model
	}
	if upd.MakeYear != nil {
		v.MakeYear = *upd.MakeYear
	}
	if upd.ChassisNo != nil {
		v.ChassisNo = *upd.ChassisNo
	}
	if upd.WeightKg != nil {
		v.WeightKg = *upd.WeightKg
	}
	if upd.CylinderCc != nil {
		v.CylinderCc = *upd.CylinderCc
	}
	if upd.BodyType != nil {
		v.BodyType = *upd.BodyType
	}
	if upd.Status != nil {
		v.Status = *upd.Status
	}
	if upd.DriverName != nil {
		v.DriverName = *upd.DriverName
	}
	if upd.DriverLicenseNo != nil {
		v.DriverLicenseNo = *upd.DriverLicenseNo
	}
	if upd.DriverContactNo != nil {
		v.DriverContactNo = *upd.DriverContactNo
	}
	if upd.DriverEmail != nil {
		v.DriverEmail = *upd.DriverEmail
	}
	if upd.AssignedLocation != nil {
		v.AssignedLocation = *upd.AssignedLocation
	}
}
