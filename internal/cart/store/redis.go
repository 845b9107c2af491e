package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fekuna/penstore/internal/cart"
	"github.com/fekuna/penstore/internal/model"
	"github.com/fekuna/penstore/pkg/cache"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const redisPrefix = "cart:"

// RedisStore keeps HTTP session carts; every write refreshes the TTL.
type RedisStore struct {
	client *cache.RedisClient
	ttl    time.Duration
}

func NewRedisStore(client *cache.RedisClient, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Get(ctx context.Context, key string) (*model.Cart, error) {
	data, err := s.client.Client.Get(ctx, redisPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return &model.Cart{}, nil
	}
	if err != nil {
		return nil, err
	}
	return decode(data)
}

func (s *RedisStore) Put(ctx context.Context, key string, c *model.Cart) error {
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return s.client.Client.Set(ctx, redisPrefix+key, data, s.ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.client.Client.Del(ctx, redisPrefix+key).Err()
}

func decode(data []byte) (*model.Cart, error) {
	var c model.Cart
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, errors.Wrap(cart.ErrCorrupt, err.Error())
	}
	c.Normalize()
	return &c, nil
}
