package livestate

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func deliveriesKey(vehicleID int64) string {
	return fmt.Sprintf("fleetdispatch:vehicle:%d:deliveries", vehicleID)
}

func metaKey(vehicleID int64) string {
	return fmt.Sprintf("fleetdispatch:vehicle:%d:meta", vehicleID)
}

func countKey(vehicleID int64) string {
	return fmt.Sprintf("fleetdispatch:vehicle:%d:active", vehicleID)
}

const allVehiclesKey = "fleetdispatch:vehicles"

func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisStore) SetDeliveries(ctx context.Context, vehicleID int64, items []DeliveryItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, deliveriesKey(vehicleID), data, 0).Err()
}

func (r *RedisStore) GetDeliveries(ctx context.Context, vehicleID int64) ([]DeliveryItem, error) {
	data, err := r.client.Get(ctx, deliveriesKey(vehicleID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var items []DeliveryItem
	return items, json.Unmarshal(data, &items)
}

func (r *RedisStore) UpdateVehicleMeta(ctx context.Context, vehicleID int64, meta *VehicleMeta) error {
	data, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	pipe := r.client.Pipeline()
	pipe.Set(ctx, metaKey(vehicleID), data, 0)
	pipe.SAdd(ctx, allVehiclesKey, vehicleID)
	_, err = pipe.Exec(ctx)
	return err
}

func (r *RedisStore) GetVehicleMeta(ctx context.Context, vehicleID int64) (*VehicleMeta, error) {
	data, err := r.client.Get(ctx, metaKey(vehicleID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var meta VehicleMeta
	return &meta, json.Unmarshal(data, &meta)
}

func (r *RedisStore) SetActiveCount(ctx context.Context, vehicleID int64, count int) error {
	return r.client.Set(ctx, countKey(vehicleID), count, 0).Err()
}

func (r *RedisStore) GetActiveCount(ctx context.Context, vehicleID int64) (int, error) {
	val, err := r.client.Get(ctx, countKey(vehicleID)).Int()
	if err == redis.Nil {
		return 0, nil
	}
	return val, err
}

func (r *RedisStore) GetAllVehicleIDs(ctx context.Context) ([]int64, error) {
	members, err := r.client.SMembers(ctx, allVehiclesKey).Result()
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *RedisStore) RemoveVehicle(ctx context.Context, vehicleID int64) error {
	pipe := r.client.Pipeline()
	pipe.Del(ctx, deliveriesKey(vehicleID), metaKey(vehicleID), countKey(vehicleID))
	pipe.SRem(ctx, allVehiclesKey, vehicleID)
	_, err := pipe.Exec(ctx)
	return err
}

func (r *RedisStore) FlushAll(ctx context.Context) error {
	ids, err := r.GetAllVehicleIDs(ctx)
	if err != nil {
		return err
	}
	for _, id := range ids {
		r.RemoveVehicle(ctx, id)
	}
	return r.client.Del(ctx, allVehiclesKey).Err()
}
