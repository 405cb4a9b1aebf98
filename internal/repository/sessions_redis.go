package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/homely/homely-back/internal/domain"
)

// sessionKey is the fixed name the persisted session lives under.
const sessionKey = "homely_current_user"

type RedisSessionsConfig struct {
	Addr     string
	Password string
	DB       int
}

// RedisSessionsRepository persists the session in Redis so it survives API
// restarts.
type RedisSessionsRepository struct {
	client *redis.Client
}

func NewRedisSessionsRepository(ctx context.Context, cfg RedisSessionsConfig) (*RedisSessionsRepository, error) {
	if cfg.Addr == "" {
		return nil, errors.New("redis address is required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisSessionsRepository{client: client}, nil
}

func (r *RedisSessionsRepository) Close() error {
	return r.client.Close()
}

func (r *RedisSessionsRepository) SaveSession(ctx context.Context, profile domain.UserProfile) error {
	encoded, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := r.client.Set(ctx, sessionKey, encoded, 0).Err(); err != nil {
		return storeErr("save session", err)
	}
	return nil
}

func (r *RedisSessionsRepository) GetSession(ctx context.Context) (domain.UserProfile, bool, error) {
	raw, err := r.client.Get(ctx, sessionKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.UserProfile{}, false, nil
	}
	if err != nil {
		return domain.UserProfile{}, false, storeErr("get session", err)
	}

	var profile domain.UserProfile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return domain.UserProfile{}, false, fmt.Errorf("decode session: %w", err)
	}
	return profile, true, nil
}

func (r *RedisSessionsRepository) DeleteSession(ctx context.Context) error {
	if err := r.client.Del(ctx, sessionKey).Err(); err != nil {
		return storeErr("delete session", err)
	}
	return nil
}
