package store

import (
	"database/sql"
	"fmt"
	"time"
)

type Assignment struct {
	ID            int64      `json:"id"`
	VehicleID     int64      `json:"vehicle_id"`
	OrderID       string     `json:"order_id"`
	Reference     string     `json:"reference"`
	Status        string     `json:"status"`
	ScheduledDate string     `json:"scheduled_date,omitempty"`
	DeliveryNotes string     `json:"delivery_notes,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

type AssignmentHistory struct {
	ID           int64     `json:"id"`
	AssignmentID int64     `json:"assignment_id"`
	Status       string    `json:"status"`
	Detail       string    `json:"detail"`
	CreatedAt    time.Time `json:"created_at"`
}

const assignmentSelectCols = `id, vehicle_id, order_id, reference, status, scheduled_date, delivery_notes, created_at, updated_at, completed_at`

func scanAssignment(row interface{ Scan(...any) error }) (*Assignment, error) {
	var a Assignment
	var createdAt, updatedAt, completedAt any
	err := row.Scan(&a.ID, &a.VehicleID, &a.OrderID, &a.Reference, &a.Status,
		&a.ScheduledDate, &a.DeliveryNotes, &createdAt, &updatedAt, &completedAt)
	if err != nil {
		return nil, err
	}
	a.CreatedAt = parseTime(createdAt)
	a.UpdatedAt = parseTime(updatedAt)
	a.CompletedAt = parseTimePtr(completedAt)
	return &a, nil
}

func scanAssignments(rows *sql.Rows) ([]*Assignment, error) {
	var assignments []*Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

func (db *DB) CreateAssignment(a *Assignment) error {
	result, err := db.Exec(db.Q(`INSERT INTO assignments (vehicle_id, order_id, reference, status, scheduled_date, delivery_notes) VALUES (?, ?, ?, ?, ?, ?)`),
		a.VehicleID, a.OrderID, a.Reference, a.Status, a.ScheduledDate, a.DeliveryNotes)
	if err != nil {
		return fmt.Errorf("create assignment: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("create assignment last id: %w", err)
	}
	a.ID = id
	return nil
}

func (db *DB) GetAssignment(vehicleID int64, orderID string) (*Assignment, error) {
	row := db.QueryRow(db.Q(fmt.Sprintf(`SELECT %s FROM assignments WHERE vehicle_id=? AND order_id=? ORDER BY id DESC LIMIT 1`, assignmentSelectCols)), vehicleID, orderID)
	return scanAssignment(row)
}

func (db *DB) GetAssignmentByReference(reference string) (*Assignment, error) {
	row := db.QueryRow(db.Q(fmt.Sprintf(`SELECT %s FROM assignments WHERE reference=?`, assignmentSelectCols)), reference)
	return scanAssignment(row)
}

// GetAssignmentForOrder returns the most recent assignment referencing the order,
// regardless of which vehicle carries it.
func (db *DB) GetAssignmentForOrder(orderID string) (*Assignment, error) {
	row := db.QueryRow(db.Q(fmt.Sprintf(`SELECT %s FROM assignments WHERE order_id=? ORDER BY id DESC LIMIT 1`, assignmentSelectCols)), orderID)
	return scanAssignment(row)
}

// GetActiveAssignmentForOrder returns a non-terminal assignment for the order, if any.
func (db *DB) GetActiveAssignmentForOrder(orderID string) (*Assignment, error) {
	row := db.QueryRow(db.Q(fmt.Sprintf(`SELECT %s FROM assignments WHERE order_id=? AND status NOT IN ('Delivered', 'Failed') ORDER BY id DESC LIMIT 1`, assignmentSelectCols)), orderID)
	return scanAssignment(row)
}

func (db *DB) ListAssignmentsByVehicle(vehicleID int64) ([]*Assignment, error) {
	rows, err := db.Query(db.Q(fmt.Sprintf(`SELECT %s FROM assignments WHERE vehicle_id=? ORDER BY id`, assignmentSelectCols)), vehicleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAssignments(rows)
}

func (db *DB) ListAssignments(status string, limit int) ([]*Assignment, error) {
	var rows *sql.Rows
	var err error
	if status != "" {
		rows, err = db.Query(db.Q(fmt.Sprintf(`SELECT %s FROM assignments WHERE status=? ORDER BY id DESC LIMIT ?`, assignmentSelectCols)), status, limit)
	} else {
		rows, err = db.Query(db.Q(fmt.Sprintf(`SELECT %s FROM assignments ORDER BY id DESC LIMIT ?`, assignmentSelectCols)), limit)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAssignments(rows)
}

func (db *DB) CountActiveAssignments(vehicleID int64) (int, error) {
	var count int
	err := db.QueryRow(db.Q(`SELECT COUNT(*) FROM assignments WHERE vehicle_id=? AND status NOT IN ('Delivered', 'Failed')`), vehicleID).Scan(&count)
	return count, err
}

// TransitionAssignmentStatus updates the assignment's delivery status only when
// its current status still matches from. The conditional WHERE is the
// concurrency token: a concurrent writer that got there first leaves this
// update with zero affected rows.
func (db *DB) TransitionAssignmentStatus(vehicleID int64, orderID, from, to string) (bool, error) {
	result, err := db.Exec(db.Q(`UPDATE assignments SET status=?, updated_at=datetime('now','localtime') WHERE vehicle_id=? AND order_id=? AND status=?`),
		to, vehicleID, orderID, from)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CompleteAssignment stamps completed_at on a terminal assignment.
func (db *DB) CompleteAssignment(id int64) error {
	_, err := db.Exec(db.Q(`UPDATE assignments SET completed_at=datetime('now','localtime'), updated_at=datetime('now','localtime') WHERE id=?`), id)
	return err
}

func (db *DB) UpdateAssignmentNotes(id int64, notes string) error {
	_, err := db.Exec(db.Q(`UPDATE assignments SET delivery_notes=?, updated_at=datetime('now','localtime') WHERE id=?`),
		notes, id)
	return err
}

func (db *DB) AppendAssignmentHistory(assignmentID int64, status, detail string) error {
	_, err := db.Exec(db.Q(`INSERT INTO assignment_history (assignment_id, status, detail) VALUES (?, ?, ?)`),
		assignmentID, status, detail)
	return err
}

func (db *DB) ListAssignmentHistory(assignmentID int64) ([]*AssignmentHistory, error) {
	rows, err := db.Query(db.Q(`SELECT id, assignment_id, status, detail, created_at FROM assignment_history WHERE assignment_id=? ORDER BY id`), assignmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var history []*AssignmentHistory
	for rows.Next() {
		var h AssignmentHistory
		var createdAt any
		if err := rows.Scan(&h.ID, &h.AssignmentID, &h.Status, &h.Detail, &createdAt); err != nil {
			return nil, err
		}
		h.CreatedAt = parseTime(createdAt)
		history = append(history, &h)
	}
	return history, rows.Err()
}
