// blacklist реализует чёрный список access-токенов поверх Redis.
//
// Запись живёт ровно столько, сколько осталось жить самому токену:
// TTL вычисляется вызывающей стороной из claim exp, поэтому запись
// не может ни пережить токен, ни исчезнуть раньше него.
package blacklist

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Ledger — минимальный контракт чёрного списка токенов.
type Ledger interface {
	// Add помещает токен в чёрный список на ttl.
	// ttl <= 0 означает, что токен уже истёк — вставка пропускается.
	Add(ctx context.Context, token string, ttl time.Duration) error
	// Contains возвращает признак присутствия токена в чёрном списке.
	Contains(ctx context.Context, token string) (bool, error)
	// Close закрывает клиент Redis.
	Close() error
}

type redisLedger struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisLedger создаёт клиент Redis из URL (например, redis://:pass@host:6379/0).
// Если prefix пустой — используется "blacklist:".
func NewRedisLedger(redisURL, prefix string) (Ledger, error) {
	if prefix == "" {
		prefix = "blacklist:"
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opt)

	// Fail-fast на старте.
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return &redisLedger{rdb: rdb, prefix: prefix}, nil
}

func (l *redisLedger) key(token string) string { return l.prefix + token }

func (l *redisLedger) Add(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	return l.rdb.Set(ctx, l.key(token), "true", ttl).Err()
}

func (l *redisLedger) Contains(ctx context.Context, token string) (bool, error) {
	n, err := l.rdb.Exists(ctx, l.key(token)).Result()
	if err != nil {
		return false, err
	}

	return n > 0, nil
}

func (l *redisLedger) Close() error { return l.rdb.Close() }
