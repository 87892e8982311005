package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"redis_backed_model/internal/core"
	"redis_backed_model/pkg"
	"redis_backed_model/src/logger"
)

// RedisStore executes model commands against Redis and reads stored hashes
type RedisStore struct {
	client  *redis.Client
	metrics *Metrics
}

// NewRedisStore connects to the Redis server at redisURL
func NewRedisStore(ctx context.Context, redisURL string, metrics *Metrics) (*RedisStore, error) {
	if redisURL == "" {
		return nil, fmt.Errorf("REDIS_URL is required")
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse REDIS_URL: %w", err)
	}

	client := redis.NewClient(opts)

	// Test connection
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisStoreFromClient(client, metrics), nil
}

// NewRedisStoreFromClient wraps an existing client
func NewRedisStoreFromClient(client *redis.Client, metrics *Metrics) *RedisStore {
	return &RedisStore{client: client, metrics: metrics}
}

// HGetAll returns every field of the hash at key, empty if the key is absent
func (r *RedisStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	fields, err := r.client.HGetAll(ctx, key).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		r.metrics.observeLookup(lookupError)
		logger.Error().Err(err).Str("key", key).Msg("hgetall failed")
		return nil, fmt.Errorf("failed to read hash %s: %w", key, err)
	}
	if len(fields) == 0 {
		r.metrics.observeLookup(lookupMiss)
		return map[string]string{}, nil
	}
	r.metrics.observeLookup(lookupHit)
	return fields, nil
}

// Execute sends one command
func (r *RedisStore) Execute(ctx context.Context, cmd pkg.Command) error {
	logger.Debug().Str("command", cmd.String()).Msg("executing command")
	err := r.client.Do(ctx, cmd.RedisArgs()...).Err()
	r.metrics.observeCommand(cmd.Kind, err)
	if err != nil {
		logger.Error().Err(err).Str("command", cmd.String()).Msg("command failed")
		return fmt.Errorf("failed to execute %s: %w", cmd.Kind, err)
	}
	return nil
}

// ExecuteAll sends the commands in one pipeline, in order. The pipeline is not
// a transaction: commands before a failure may already be applied.
func (r *RedisStore) ExecuteAll(ctx context.Context, cmds []pkg.Command) error {
	if len(cmds) == 0 {
		return nil
	}

	results, err := r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, cmd := range cmds {
			pipe.Do(ctx, cmd.RedisArgs()...)
		}
		return nil
	})
	for i, res := range results {
		if i < len(cmds) {
			r.metrics.observeCommand(cmds[i].Kind, res.Err())
		}
	}
	if err != nil {
		logger.Error().Err(err).Int("commands", len(cmds)).Msg("pipeline failed")
		return fmt.Errorf("failed to execute pipeline: %w", err)
	}

	logger.Debug().Int("commands", len(cmds)).Msg("pipeline executed")
	return nil
}

// Save serializes the entity and sends its commands
func (r *RedisStore) Save(ctx context.Context, e *core.Entity) error {
	cmds, err := core.Serialize(e)
	if err != nil {
		return err
	}
	return r.ExecuteAll(ctx, cmds)
}

// Ping tests Redis connection
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (r *RedisStore) Close() error {
	return r.client.Close()
}
