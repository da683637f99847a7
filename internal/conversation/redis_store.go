package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const redisKeyPrefix = "barbershop:conversation:"

// RedisStore хранит состояния в Redis с TTL на ключ
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Load(ctx context.Context, identity string) (*State, bool, error) {
	data, err := s.client.Get(ctx, redisKeyPrefix+identity).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get conversation state: %w", err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, false, fmt.Errorf("decode conversation state: %w", err)
	}
	return &state, true, nil
}

func (s *RedisStore) Save(ctx context.Context, identity string, state *State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode conversation state: %w", err)
	}
	// ttl = 0 в go-redis означает ключ без срока
	if err := s.client.Set(ctx, redisKeyPrefix+identity, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("set conversation state: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, identity string) error {
	if err := s.client.Del(ctx, redisKeyPrefix+identity).Err(); err != nil {
		return fmt.Errorf("delete conversation state: %w", err)
	}
	return nil
}
