package pubmed

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache keeps recent search payloads in Redis so repeated tool calls
// for the same query do not hit NCBI again within the TTL.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, key string) (*Payload, bool) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var payload Payload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, false
	}
	return &payload, true
}

func (c *RedisCache) Set(ctx context.Context, key string, payload *Payload) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	// Best effort; a failed write just means the next search is live.
	c.client.Set(ctx, key, data, c.ttl)
}
