// Package redis wraps go-redis with the configuration surface this SDK needs.
package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sistematransporte/transporte-go/log"
)

// ErrNil reports a missing key, re-exported from go-redis.
var ErrNil = redis.Nil

// Config holds Redis connection settings.
type Config struct {
	// Addrs is the address list: one entry for standalone, several for
	// cluster, sentinel addresses when MasterName is set.
	Addrs []string

	// MasterName enables sentinel mode.
	MasterName string

	Username string
	Password string
	DB       int

	// Timeouts in milliseconds; zero means the go-redis default.
	DialTimeout  int64
	ReadTimeout  int64
	WriteTimeout int64
}

// Client is a thin wrapper over redis.UniversalClient.
type Client struct {
	client redis.UniversalClient
	config *Config
	logger *log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithClientLogger sets a custom logger.
func WithClientLogger(logger *log.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a Redis client and verifies connectivity with a ping.
func New(cfg *Config, opts ...Option) (*Client, error) {
	if cfg == nil || len(cfg.Addrs) == 0 {
		return nil, ErrInvalidConfig
	}

	client := &Client{
		config: cfg,
		logger: log.G,
		client: redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs:        cfg.Addrs,
			MasterName:   cfg.MasterName,
			Username:     cfg.Username,
			Password:     cfg.Password,
			DB:           cfg.DB,
			DialTimeout:  time.Duration(cfg.DialTimeout) * time.Millisecond,
			ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Millisecond,
			WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Millisecond,
		}),
	}

	for _, opt := range opts {
		opt(client)
	}

	if err := client.Ping(context.Background()); err != nil {
		client.client.Close()
		return nil, err
	}

	client.logger.Debug().Interface("addrs", cfg.Addrs).Msg("redis client created")
	return client, nil
}

// Single creates a standalone-mode configuration.
func Single(addr string) *Config {
	return &Config{Addrs: []string{addr}}
}

// UniversalClient exposes the underlying go-redis client.
func (c *Client) UniversalClient() redis.UniversalClient {
	return c.client
}

// Ping verifies the connection.
func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close releases the client's resources.
func (c *Client) Close() error {
	return c.client.Close()
}
