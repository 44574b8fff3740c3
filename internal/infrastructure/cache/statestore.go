// Package cache holds the Redis-backed short-lived stores.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ngoinfo/grantpilot/internal/shared/biztime"
)

// StateInfo is the payload stored per OAuth state value.
type StateInfo struct {
	CodeVerifier string    `json:"code_verifier"`
	CreatedAt    time.Time `json:"created_at"`
}

// RedisStateStore keeps OAuth login state in Redis so callbacks can
// land on any instance. Entries expire after the configured TTL and
// are deleted on first read.
type RedisStateStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisStateStore(client *redis.Client, prefix string, ttl time.Duration) *RedisStateStore {
	return &RedisStateStore{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (s *RedisStateStore) Set(ctx context.Context, state string, codeVerifier string) error {
	if state == "" {
		return errors.New("state cannot be empty")
	}
	if codeVerifier == "" {
		return errors.New("code_verifier cannot be empty")
	}

	stateInfo := StateInfo{
		CodeVerifier: codeVerifier,
		CreatedAt:    biztime.NowUTC(),
	}

	data, err := json.Marshal(stateInfo)
	if err != nil {
		return fmt.Errorf("failed to marshal state info: %w", err)
	}

	if err := s.client.Set(ctx, s.prefix+state, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store state in redis: %w", err)
	}

	return nil
}

// VerifyAndGet atomically reads and deletes the state via GETDEL, so a
// state value can only ever complete one callback.
func (s *RedisStateStore) VerifyAndGet(ctx context.Context, state string) (*StateInfo, error) {
	if state == "" {
		return nil, errors.New("state cannot be empty")
	}

	data, err := s.client.GetDel(ctx, s.prefix+state).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, errors.New("state not found or expired")
		}
		return nil, fmt.Errorf("failed to retrieve state from redis: %w", err)
	}

	var stateInfo StateInfo
	if err := json.Unmarshal([]byte(data), &stateInfo); err != nil {
		return nil, fmt.Errorf("failed to unmarshal state info: %w", err)
	}

	return &stateInfo, nil
}
