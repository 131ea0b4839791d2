package chatinfra

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/pyguy/pybot/pkg/chat"
	"github.com/pyguy/pybot/pkg/errx"
	"github.com/redis/go-redis/v9"
)

const historyKeyPrefix = "chat_history:"

// casRetries bounds the optimistic-lock retry loop on contended appends
const casRetries = 5

// RedisHistoryRepository stores one history record per session in Redis.
// Append runs as a WATCH-guarded transaction so concurrent appends to the
// same session never lose updates.
type RedisHistoryRepository struct {
	client   *redis.Client
	maxTurns int
	ttl      time.Duration
}

// NewRedisHistoryRepository creates a Redis-backed repository. A zero ttl
// keeps records until an explicit reset.
func NewRedisHistoryRepository(client *redis.Client, maxTurns int, ttl time.Duration) *RedisHistoryRepository {
	return &RedisHistoryRepository{
		client:   client,
		maxTurns: maxTurns,
		ttl:      ttl,
	}
}

func historyKey(sessionID string) string {
	return historyKeyPrefix + sessionID
}

// decodeHistory turns a stored value into a valid history, reseeding on any
// shape problem
func decodeHistory(raw string) chat.History {
	var h chat.History
	if err := json.Unmarshal([]byte(raw), &h); err != nil {
		return chat.Seeded()
	}
	return h.Repair()
}

// Load returns the stored history or a freshly seeded one
func (r *RedisHistoryRepository) Load(ctx context.Context, sessionID string) (chat.History, error) {
	raw, err := r.client.Get(ctx, historyKey(sessionID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return chat.Seeded(), nil
		}
		return nil, errx.Wrap(err, "failed to load history from redis", errx.TypeInternal).
			WithDetail("session_id", sessionID)
	}

	return decodeHistory(raw), nil
}

// Append appends and trims inside a WATCH transaction, retrying on conflict
func (r *RedisHistoryRepository) Append(ctx context.Context, sessionID string, msg chat.Message) (chat.History, error) {
	key := historyKey(sessionID)

	var result chat.History
	txn := func(tx *redis.Tx) error {
		history := chat.Seeded()
		raw, err := tx.Get(ctx, key).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if err == nil {
			history = decodeHistory(raw)
		}

		history = history.Append(msg, r.maxTurns)
		encoded, err := json.Marshal(history)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, encoded, r.ttl)
			return nil
		})
		if err != nil {
			return err
		}

		result = history
		return nil
	}

	for attempt := 0; attempt < casRetries; attempt++ {
		err := r.client.Watch(ctx, txn, key)
		if err == nil {
			return result, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return nil, errx.Wrap(err, "failed to append history in redis", errx.TypeInternal).
			WithDetail("session_id", sessionID)
	}

	return nil, errx.Wrap(redis.TxFailedErr, "append retries exhausted", errx.TypeInternal).
		WithDetail("session_id", sessionID)
}

// Reset deletes the session record; the next Load reseeds
func (r *RedisHistoryRepository) Reset(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, historyKey(sessionID)).Err(); err != nil {
		return errx.Wrap(err, "failed to reset history in redis", errx.TypeInternal).
			WithDetail("session_id", sessionID)
	}
	return nil
}
