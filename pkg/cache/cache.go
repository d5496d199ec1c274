package cache

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/edgecloak/edgecloak/pkg/common"
	"github.com/edgecloak/edgecloak/pkg/domain/telemetry"
	"github.com/go-redis/redis/v8"
)

const (
	HostPolicyKeyPattern = "hostpolicy:%s"
	TelemetryKeyPattern  = "telemetry:%s"
)

// Cache wraps the redis client shared by the hostname→policy binding and the
// client-telemetry store. Policy records themselves are deliberately not
// cached here: the pipeline reads them fresh each request so operator
// toggles (lockdown above all) take effect immediately.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCache(config common.CacheConfig) (*Cache, error) {
	options := &redis.Options{
		Addr:     fmt.Sprintf("%s:%d", config.Host, config.Port),
		Password: config.Password,
		DB:       config.DB,
	}
	if config.TLS {
		options.TLSConfig = &tls.Config{
			InsecureSkipVerify: true, // #nosec G402
		}
	}
	client := redis.NewClient(options)

	return &Cache{
		client: client,
		ttl:    5 * time.Minute,
	}, nil
}

// NewCacheWithClient is used by tests to inject a mock client.
func NewCacheWithClient(client *redis.Client) *Cache {
	return &Cache{client: client, ttl: 5 * time.Minute}
}

func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	return c.client.Get(ctx, key).Result()
}

func (c *Cache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return c.client.Set(ctx, key, value, expiration).Err()
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

// GetPolicyID returns the cached policy id bound to a hostname, "" on miss.
func (c *Cache) GetPolicyID(ctx context.Context, hostname string) (string, error) {
	id, err := c.Get(ctx, fmt.Sprintf(HostPolicyKeyPattern, hostname))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", err
	}
	return id, nil
}

func (c *Cache) SavePolicyID(ctx context.Context, hostname, policyID string) error {
	return c.Set(ctx, fmt.Sprintf(HostPolicyKeyPattern, hostname), policyID, common.HostPolicyCacheTTL)
}

// DeletePolicyID drops the hostname binding, used when it turns out stale.
func (c *Cache) DeletePolicyID(ctx context.Context, hostname string) error {
	return c.Delete(ctx, fmt.Sprintf(HostPolicyKeyPattern, hostname))
}

func (c *Cache) SaveTelemetry(ctx context.Context, clientIP string, data *telemetry.ClientTelemetry) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal telemetry: %w", err)
	}
	return c.Set(ctx, fmt.Sprintf(TelemetryKeyPattern, clientIP), string(payload), common.TelemetryTTL)
}

func (c *Cache) GetTelemetry(ctx context.Context, clientIP string) (*telemetry.ClientTelemetry, error) {
	res, err := c.Get(ctx, fmt.Sprintf(TelemetryKeyPattern, clientIP))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	data := new(telemetry.ClientTelemetry)
	if err := json.Unmarshal([]byte(res), data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal telemetry: %w", err)
	}
	return data, nil
}

func (c *Cache) Client() *redis.Client {
	return c.client
}
