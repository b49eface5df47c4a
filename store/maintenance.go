package store

import (
	"fmt"
	"time"
)

// MaintenanceRecord is an append-only log entry; the store exposes no update
// or delete for it.
type MaintenanceRecord struct {
	ID          int64     `json:"id"`
	VehicleID   int64     `json:"vehicle_id"`
	ServiceDate string    `json:"service_date"`
	Description string    `json:"description"`
	Cost        float64   `json:"cost"`
	NextDueDate string    `json:"next_due_date,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (db *DB) AddMaintenanceRecord(m *MaintenanceRecord) error {
	result, err := db.Exec(db.Q(`INSERT INTO maintenance_records (vehicle_id, service_date, description, cost, next_due_date) VALUES (?, ?, ?, ?, ?)`),
		m.VehicleID, m.ServiceDate, m.Description, m.Cost, m.NextDueDate)
	if err != nil {
		return fmt.Errorf("add maintenance record: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("add maintenance record last id: %w", err)
	}
	m.ID = id
	return nil
}

func (db *DB) ListMaintenanceRecords(vehicleID int64) ([]*MaintenanceRecord, error) {
	rows, err := db.Query(db.Q(`SELECT id, vehicle_id, service_date, description, cost, next_due_date, created_at FROM maintenance_records WHERE vehicle_id=? ORDER BY id`), vehicleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var records []*MaintenanceRecord
	for rows.Next() {
		var m MaintenanceRecord
		var createdAt any
		if err := rows.Scan(&m.ID, &m.VehicleID, &m.ServiceDate, &m.Description, &m.Cost, &m.NextDueDate, &createdAt); err != nil {
			return nil, err
		}
		m.CreatedAt = parseTime(createdAt)
		records = append(records, &m)
	}
	return records, rows.Err()
}
