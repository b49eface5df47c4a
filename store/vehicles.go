package store

import (
	"database/sql"
	"fmt"
	"time"
)

type Vehicle struct {
	ID               int64     `json:"id"`
	RegistrationNo   string    `json:"registration_no"`
	Owner            string    `json:"owner"`
	Make             string    `json:"make"`
	Model            string    `json:"model"`
	MakeYear         int       `json:"make_year"`
	ChassisNo        string    `json:"chassis_no"`
	WeightKg         int       `json:"weight_kg"`
	CylinderCc       int       `json:"cylinder_cc"`
	BodyType         string    `json:"body_type"`
	Status           string    `json:"status"`
	DriverName       string    `json:"driver_name"`
	DriverLicenseNo  string    `json:"driver_license_no"`
	DriverContactNo  string    `json:"driver_contact_no"`
	DriverEmail      string    `json:"driver_email,omitempty"`
	AssignedLocation string    `json:"assigned_location"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

const vehicleSelectCols = `id, registration_no, owner, make, model, make_year, chassis_no, weight_kg, cylinder_cc, body_type, status, driver_name, driver_license_no, driver_contact_no, driver_email, assigned_location, created_at, updated_at`

func scanVehicle(row interface{ Scan(...any) error }) (*Vehicle, error) {
	var v Vehicle
	var createdAt, updatedAt any
	err := row.Scan(&v.ID, &v.RegistrationNo, &v.Owner, &v.Make, &v.Model, &v.MakeYear,
		&v.ChassisNo, &v.WeightKg, &v.CylinderCc, &v.BodyType, &v.Status,
		&v.DriverName, &v.DriverLicenseNo, &v.DriverContactNo, &v.DriverEmail,
		&v.AssignedLocation, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	v.CreatedAt = parseTime(createdAt)
	v.UpdatedAt = parseTime(updatedAt)
	return &v, nil
}

func scanVehicles(rows *sql.Rows) ([]*Vehicle, error) {
	var vehicles []*Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}

func (db *DB) CreateVehicle(v *Vehicle) error {
	result, err := db.Exec(db.Q(`INSERT INTO vehicles (registration_no, owner, make, model, make_year, chassis_no, weight_kg, cylinder_cc, body_type, status, driver_name, driver_license_no, driver_contact_no, driver_email, assigned_location) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		v.RegistrationNo, v.Owner, v.Make, v.Model, v.MakeYear, v.ChassisNo,
		v.WeightKg, v.CylinderCc, v.BodyType, v.Status,
		v.DriverName, v.DriverLicenseNo, v.DriverContactNo, v.DriverEmail, v.AssignedLocation)
	if err != nil {
		return fmt.Errorf("create vehicle: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("create vehicle last id: %w", err)
	}
	v.ID = id
	return nil
}

func (db *DB) UpdateVehicle(v *Vehicle) error {
	_, err := db.Exec(db.Q(`UPDATE vehicles SET registration_no=?, owner=?, make=?, model=?, make_year=?, chassis_no=?, weight_kg=?, cylinder_cc=?, body_type=?, status=?, driver_name=?, driver_license_no=?, driver_contact_no=?, driver_email=?, assigned_location=?, updated_at=datetime('now','localtime') WHERE id=?`),
		v.RegistrationNo, v.Owner, v.Make, v.Model, v.MakeYear, v.ChassisNo,
		v.WeightKg, v.CylinderCc, v.BodyType, v.Status,
		v.DriverName, v.DriverLicenseNo, v.DriverContactNo, v.DriverEmail, v.AssignedLocation, v.ID)
	if err != nil {
		return fmt.Errorf("update vehicle: %w", err)
	}
	return nil
}

func (db *DB) UpdateVehicleStatus(id int64, status string) error {
	_, err := db.Exec(db.Q(`UPDATE vehicles SET status=?, updated_at=datetime('now','localtime') WHERE id=?`),
		status, id)
	return err
}

func (db *DB) GetVehicle(id int64) (*Vehicle, error) {
	row := db.QueryRow(db.Q(fmt.Sprintf(`SELECT %s FROM vehicles WHERE id=?`, vehicleSelectCols)), id)
	return scanVehicle(row)
}

func (db *DB) GetVehicleByRegistration(registrationNo string) (*Vehicle, error) {
	row := db.QueryRow(db.Q(fmt.Sprintf(`SELECT %s FROM vehicles WHERE registration_no=?`, vehicleSelectCols)), registrationNo)
	return scanVehicle(row)
}

func (db *DB) ListVehicles(status string) ([]*Vehicle, error) {
	var rows *sql.Rows
	var err error
	if status != "" {
		rows, err = db.Query(db.Q(fmt.Sprintf(`SELECT %s FROM vehicles WHERE status=? ORDER BY registration_no`, vehicleSelectCols)), status)
	} else {
		rows, err = db.Query(fmt.Sprintf(`SELECT %s FROM vehicles ORDER BY registration_no`, vehicleSelectCols))
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanVehicles(rows)
}

func (db *DB) ListVehiclesByLocation(location string) ([]*Vehicle, error) {
	rows, err := db.Query(db.Q(fmt.Sprintf(`SELECT %s FROM vehicles WHERE assigned_location=? ORDER BY registration_no`, vehicleSelectCols)), location)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanVehicles(rows)
}
