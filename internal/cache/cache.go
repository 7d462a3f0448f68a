package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dharmasatrya/smarttrip/internal/models"
)

// Cache stores optimizer answers as JSON under opaque keys.
type Cache interface {
	Get(ctx context.Context, key string, dest any) bool
	Set(ctx context.Context, key string, value any) error
	Close() error
}

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Host: "localhost",
		Port: "6379",
		TTL:  30 * time.Minute,
	}
}

func NewRedisCache(cfg RedisConfig) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Host + ":" + cfg.Port,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return &RedisCache{
		client: client,
		ttl:    cfg.TTL,
	}, nil
}

func (c *RedisCache) Get(ctx context.Context, key string, dest any) bool {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(data, dest) == nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, c.ttl).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

type NoOpCache struct{}

func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

func (c *NoOpCache) Get(ctx context.Context, key string, dest any) bool {
	return false
}

func (c *NoOpCache) Set(ctx context.Context, key string, value any) error {
	return nil
}

func (c *NoOpCache) Close() error {
	return nil
}

// RequestKey hashes every field of req that changes the optimizer's answer.
// encoding/json writes map keys sorted, so equal allocations hash equally.
func RequestKey(namespace string, req models.TripRequest) string {
	keyData := struct {
		Origin      string
		Destination string
		Stops       []string
		Departure   string
		Adults      int
		Children    int
		Days        map[string]int
		Meals       bool
		Lodging     bool
		Transport   bool
		Options     int
	}{
		Origin:      req.Origin,
		Destination: req.Destination,
		Stops:       req.Stops,
		Departure:   req.DepartureDate,
		Adults:      req.Adults,
		Children:    req.Children,
		Days:        req.DaysPerCity,
		Meals:       req.IncludeMeals,
		Lodging:     req.IncludeLodging,
		Transport:   req.IncludeLocalTransport,
		Options:     req.OptionCount,
	}

	data, _ := json.Marshal(keyData)
	hash := sha256.Sum256(data)
	return "trip:" + namespace + ":" + hex.EncodeToString(hash[:])
}
