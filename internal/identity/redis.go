package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/kpidesk/internal/domain"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "profile:"

// RedisProvider reads the profile of one user from a shared Redis, where it
// is kept as JSON under profile:<userID>. When the key is missing it defers
// to fallback, if any.
type RedisProvider struct {
	client   *redis.Client
	userID   string
	fallback Provider
}

// NewRedisProvider connects to redisURL and checks the connection.
func NewRedisProvider(redisURL, userID string, fallback Provider) (*RedisProvider, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return NewRedisProviderWithClient(client, userID, fallback), nil
}

// NewRedisProviderWithClient wraps an existing client.
func NewRedisProviderWithClient(client *redis.Client, userID string, fallback Provider) *RedisProvider {
	return &RedisProvider{client: client, userID: userID, fallback: fallback}
}

func key(userID string) string {
	return keyPrefix + userID
}

func (p *RedisProvider) Current(ctx context.Context) (domain.Profile, error) {
	if p.userID == "" {
		return p.fromFallback(ctx)
	}
	raw, err := p.client.Get(ctx, key(p.userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return p.fromFallback(ctx)
	}
	if err != nil {
		return domain.Profile{}, fmt.Errorf("get profile %s: %w", p.userID, err)
	}

	var profile domain.Profile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return domain.Profile{}, fmt.Errorf("decode profile %s: %w", p.userID, err)
	}
	if profile.UserID == "" {
		profile.UserID = p.userID
	}
	return profile, nil
}

func (p *RedisProvider) fromFallback(ctx context.Context) (domain.Profile, error) {
	if p.fallback == nil {
		return domain.Profile{}, ErrUnknownUser
	}
	return p.fallback.Current(ctx)
}

// Save stores profile under its UserID.
func (p *RedisProvider) Save(ctx context.Context, profile domain.Profile) error {
	if profile.UserID == "" {
		return fmt.Errorf("save profile: %w", ErrUnknownUser)
	}
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	if err := p.client.Set(ctx, key(profile.UserID), data, 0).Err(); err != nil {
		return fmt.Errorf("set profile %s: %w", profile.UserID, err)
	}
	return nil
}

// Close releases the underlying client.
func (p *RedisProvider) Close() error {
	return p.client.Close()
}
