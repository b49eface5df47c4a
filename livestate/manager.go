package livestate

import (
	"context"
	"log"

	"fleetdispatch/dispatch"
	"fleetdispatch/store"
)

// Manager provides write-through vehicle state: SQL is authoritative, Redis
// mirrors it for cheap fleet-wide reads.
type Manager struct {
	db    *store.DB
	redis *RedisStore
}

func NewManager(db *store.DB, redis *RedisStore) *Manager {
	return &Manager{db: db, redis: redis}
}

// Ping reports whether the Redis mirror is reachable.
func (m *Manager) Ping() error {
	return m.redis.Ping(context.Background())
}

// GetVehicleState reads vehicle state from Redis, falls back to SQL.
func (m *Manager) GetVehicleState(vehicleID int64) (*VehicleState, error) {
	ctx := context.Background()

	meta, err := m.redis.GetVehicleMeta(ctx, vehicleID)
	if err == nil && meta != nil {
		items, _ := m.redis.GetDeliveries(ctx, vehicleID)
		count, _ := m.redis.GetActiveCount(ctx, vehicleID)
		return &VehicleState{
			VehicleID:      meta.VehicleID,
			RegistrationNo: meta.RegistrationNo,
			Status:         meta.Status,
			BodyType:       meta.BodyType,
			Location:       meta.Location,
			DriverName:     meta.DriverName,
			Deliveries:     items,
			ActiveCount:    count,
		}, nil
	}

	// Fall back to SQL
	return m.getVehicleStateFromSQL(vehicleID)
}

// GetFleetState reads all vehicle states, preferring Redis.
func (m *Manager) GetFleetState() (map[int64]*VehicleState, error) {
	ctx := context.Background()
	states := make(map[int64]*VehicleState)

	vehicleIDs, err := m.redis.GetAllVehicleIDs(ctx)
	if err == nil && len(vehicleIDs) > 0 {
		for _, id := range vehicleIDs {
			state, err := m.GetVehicleState(id)
			if err == nil {
				states[id] = state
			}
		}
		return states, nil
	}

	// Fall back to SQL
	vehicles, err := m.db.ListVehicles("")
	if err != nil {
		return nil, err
	}
	for _, v := range vehicles {
		state, err := m.getVehicleStateFromSQL(v.ID)
		if err != nil {
			continue
		}
		states[v.ID] = state
	}
	return states, nil
}

// SyncRedisFromSQL rebuilds all Redis state from SQL. Called on startup.
func (m *Manager) SyncRedisFromSQL() error {
	ctx := context.Background()
	m.redis.FlushAll(ctx)

	vehicles, err := m.db.ListVehicles("")
	if err != nil {
		return err
	}

	for _, v := range vehicles {
		if err := m.redis.UpdateVehicleMeta(ctx, v.ID, metaFromVehicle(v)); err != nil {
			log.Printf("livestate: sync meta for vehicle %d: %v", v.ID, err)
			continue
		}
		m.refreshVehicleRedis(v.ID)
	}

	log.Printf("livestate: synced %d vehicles to redis", len(vehicles))
	return nil
}

// RefreshVehicle updates both the Redis meta and the delivery list for a
// vehicle from its DB records.
func (m *Manager) RefreshVehicle(vehicleID int64) {
	v, err := m.db.GetVehicle(vehicleID)
	if err != nil {
		return
	}
	ctx := context.Background()
	m.redis.UpdateVehicleMeta(ctx, v.ID, metaFromVehicle(v))
	m.refreshVehicleRedis(vehicleID)
}

func (m *Manager) refreshVehicleRedis(vehicleID int64) {
	ctx := context.Background()
	assignments, err := m.db.ListAssignmentsByVehicle(vehicleID)
	if err != nil {
		log.Printf("livestate: refresh redis for vehicle %d: %v", vehicleID, err)
		return
	}

	items := make([]DeliveryItem, len(assignments))
	active := 0
	for i, a := range assignments {
		items[i] = DeliveryItem{
			AssignmentID:  a.ID,
			OrderID:       a.OrderID,
			Reference:     a.Reference,
			Status:        a.Status,
			ScheduledDate: a.ScheduledDate,
			CreatedAt:     a.CreatedAt,
			CompletedAt:   a.CompletedAt,
		}
		if !dispatch.IsTerminalDeliveryStatus(a.Status) {
			active++
		}
	}

	m.redis.SetDeliveries(ctx, vehicleID, items)
	m.redis.SetActiveCount(ctx, vehicleID, active)
}

func (m *Manager) getVehicleStateFromSQL(vehicleID int64) (*VehicleState, error) {
	v, err := m.db.GetVehicle(vehicleID)
	if err != nil {
		return nil, err
	}
	assignments, err := m.db.ListAssignmentsByVehicle(vehicleID)
	if err != nil {
		return nil, err
	}

	items := make([]DeliveryItem, len(assignments))
	active := 0
	for i, a := range assignments {
		items[i] = DeliveryItem{
			AssignmentID:  a.ID,
			OrderID:       a.OrderID,
			Reference:     a.Reference,
			Status:        a.Status,
			ScheduledDate: a.ScheduledDate,
			CreatedAt:     a.CreatedAt,
			CompletedAt:   a.CompletedAt,
		}
		if !dispatch.IsTerminalDeliveryStatus(a.Status) {
			active++
		}
	}

	return &VehicleState{
		VehicleID:      v.ID,
		RegistrationNo: v.RegistrationNo,
		Status:         v.Status,
		BodyType:       v.BodyType,
		Location:       v.AssignedLocation,
		DriverName:     v.DriverName,
		Deliveries:     items,
		ActiveCount:    active,
	}, nil
}

func metaFromVehicle(v *store.Vehicle) *VehicleMeta {
	return &VehicleMeta{
		VehicleID:      v.ID,
		RegistrationNo: v.RegistrationNo,
		Status:         v.Status,
		BodyType:       v.BodyType,
		Location:       v.AssignedLocation,
		DriverName:     v.DriverName,
	}
}
