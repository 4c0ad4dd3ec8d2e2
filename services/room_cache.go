package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"hotel-admin/models"
)

// RoomCache holds the admin room list between mutations.
//
// Get reports a generation on a miss. Set only stores when the generation is still current,
// so a list read from the database before an Invalidate is never written back after it.
type RoomCache interface {
	Get(ctx context.Context) (rooms []models.RoomType, generation int64, hit bool)
	Set(ctx context.Context, generation int64, rooms []models.RoomType)
	Invalidate(ctx context.Context)
}

type NoopRoomCache struct{}

func (NoopRoomCache) Get(context.Context) ([]models.RoomType, int64, bool) { return nil, 0, false }
func (NoopRoomCache) Set(context.Context, int64, []models.RoomType)        {}
func (NoopRoomCache) Invalidate(context.Context)                           {}

const (
	roomListKey    = "hotel-admin:room-types"
	roomListGenKey = "hotel-admin:room-types:gen"

	// noGeneration never matches, so a Set after a failed generation read is dropped.
	noGeneration int64 = -1
)

var errStaleRoomList = errors.New("room list generation changed")

// RedisRoomCache stores the room list as JSON. Redis errors are logged and treated as misses.
type RedisRoomCache struct {
	Client *redis.Client
	TTL    time.Duration
	Log    *zap.Logger
}

func NewRedisRoomCache(client *redis.Client, ttl time.Duration, log *zap.Logger) *RedisRoomCache {
	return &RedisRoomCache{Client: client, TTL: ttl, Log: log}
}

// NewRedisClient connects and pings, failing fast on a bad address.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

func (c *RedisRoomCache) Get(ctx context.Context) ([]models.RoomType, int64, bool) {
	raw, err := c.Client.Get(ctx, roomListKey).Bytes()
	if err == nil {
		var rooms []models.RoomType
		decodeErr := json.Unmarshal(raw, &rooms)
		if decodeErr == nil {
			return rooms, 0, true
		}
		c.Log.Warn("room cache payload corrupt", zap.Error(decodeErr))
	} else if err != redis.Nil {
		c.Log.Warn("room cache get failed", zap.Error(err))
		return nil, noGeneration, false
	}
	return nil, c.generation(ctx), false
}

func (c *RedisRoomCache) generation(ctx context.Context) int64 {
	gen, err := c.Client.Get(ctx, roomListGenKey).Int64()
	if err == redis.Nil {
		return 0
	}
	if err != nil {
		c.Log.Warn("room cache generation read failed", zap.Error(err))
		return noGeneration
	}
	return gen
}

// Set writes under WATCH on the generation key; an Invalidate in between aborts the write.
func (c *RedisRoomCache) Set(ctx context.Context, generation int64, rooms []models.RoomType) {
	if generation == noGeneration {
		return
	}
	raw, err := json.Marshal(rooms)
	if err != nil {
		c.Log.Warn("room cache encode failed", zap.Error(err))
		return
	}

	err = c.Client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, roomListGenKey).Int64()
		if err != nil && err != redis.Nil {
			return err
		}
		if current != generation {
			return errStaleRoomList
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, roomListKey, raw, c.TTL)
			return nil
		})
		return err
	}, roomListGenKey)

	switch {
	case err == nil:
	case errors.Is(err, errStaleRoomList), errors.Is(err, redis.TxFailedErr):
		c.Log.Debug("room list changed while loading, not cached")
	default:
		c.Log.Warn("room cache set failed", zap.Error(err))
	}
}

func (c *RedisRoomCache) Invalidate(ctx context.Context) {
	_, err := c.Client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Incr(ctx, roomListGenKey)
		p.Del(ctx, roomListKey)
		return nil
	})
	if err != nil {
		c.Log.Warn("room cache invalidate failed", zap.Error(err))
	}
}
