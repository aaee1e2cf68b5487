package lockout

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore хранит записи о попытках в Redis, что позволяет разделять
// счётчики блокировок между несколькими экземплярами сервиса.
// TTL ключа совпадает с окном блокировки, поэтому Redis сам подчищает
// просроченные записи.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore создает RedisStore поверх готового клиента.
// Prefix разделяет пространства ключей, например "lockout:login" и "lockout:register".
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: prefix,
	}
}

func (s *RedisStore) key(key string) string {
	return s.prefix + ":" + key
}

// Get возвращает запись по ключу либо nil, если записи нет.
func (s *RedisStore) Get(ctx context.Context, key string) (*Attempt, error) {
	const op = "lockout.RedisStore.Get"
	val, err := s.client.Get(ctx, s.key(key)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var attempt Attempt
	if err := json.Unmarshal([]byte(val), &attempt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &attempt, nil
}

// Set сохраняет запись с заданным TTL.
func (s *RedisStore) Set(ctx context.Context, key string, attempt *Attempt, ttl time.Duration) error {
	const op = "lockout.RedisStore.Set"
	data, err := json.Marshal(attempt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.client.Set(ctx, s.key(key), data, ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Delete удаляет запись по ключу.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	const op = "lockout.RedisStore.Delete"
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
