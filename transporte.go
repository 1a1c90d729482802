// Package transporte is the Go client SDK for the public transport
// administrative backend. It bundles session management (login, logout,
// token refresh), an HTTP transport that attaches bearer tokens and
// recovers from 401s with a shared refresh, typed feature clients and a
// navigation guard.
package transporte

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/sistematransporte/transporte-go/api"
	"github.com/sistematransporte/transporte-go/auth"
	authstore "github.com/sistematransporte/transporte-go/auth/store"
	redisstore "github.com/sistematransporte/transporte-go/auth/store/redis"
	"github.com/sistematransporte/transporte-go/config"
	"github.com/sistematransporte/transporte-go/core/validator"
	"github.com/sistematransporte/transporte-go/errors"
	"github.com/sistematransporte/transporte-go/guard"
	"github.com/sistematransporte/transporte-go/log"
	sdkredis "github.com/sistematransporte/transporte-go/store/redis"
	thttp "github.com/sistematransporte/transporte-go/transport/http"
	"github.com/sistematransporte/transporte-go/transport/http/metrics"
)

// Config is the SDK configuration.
type Config struct {
	// BaseURL is the backend root, e.g. "http://127.0.0.1:8000".
	BaseURL string `mapstructure:"base_url" validate:"required,url"`

	// StoragePath is where the file session store keeps its state.
	// Ignored when Redis is enabled or a custom store is injected.
	StoragePath string `mapstructure:"storage_path"`

	// PublicPaths overrides the built-in allow-list of unauthenticated
	// backend paths.
	PublicPaths []string `mapstructure:"public_paths"`

	// RequestTimeout bounds every outgoing call, zero means no limit.
	RequestTimeout time.Duration `mapstructure:"request_timeout"`

	// RefreshTimeout bounds the background token refresh.
	RefreshTimeout time.Duration `mapstructure:"refresh_timeout"`

	LogLevel       string `mapstructure:"log_level"`
	MetricsEnabled bool   `mapstructure:"metrics_enabled"`

	Redis RedisConfig `mapstructure:"redis"`
}

// RedisConfig selects the Redis session store instead of the file store.
type RedisConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Addr      string `mapstructure:"addr"`
	Username  string `mapstructure:"username"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// DefaultConfig returns a working configuration for the given backend.
func DefaultConfig(baseURL string) Config {
	return Config{
		BaseURL:        baseURL,
		StoragePath:    defaultStoragePath(),
		RequestTimeout: 30 * time.Second,
		RefreshTimeout: thttp.DefaultRefreshTimeout,
		LogLevel:       "info",
	}
}

func defaultStoragePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "transporte", "session.json")
}

// LoadConfig reads the SDK configuration from a YAML file, with environment
// overrides and defaults applied.
func LoadConfig(filename string, paths ...string) (*Config, error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}

	var cfg Config
	v := viper.New()
	c := config.New(&cfg,
		config.WithViper(v),
		config.WithDefaults(map[string]any{
			"storage_path":    defaultStoragePath(),
			"request_timeout": "30s",
			"refresh_timeout": "15s",
			"log_level":       "info",
		}),
		config.WithLoader(config.NewFileLoader(filename, paths, v, validator.Validate)),
	)
	if err := c.Load(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Client is the assembled SDK: session service, feature clients and guard
// sharing one authenticated transport.
type Client struct {
	cfg     Config
	logger  *log.Logger
	store   auth.Store
	redis   *sdkredis.Client
	metrics *metrics.Metrics

	base        *http.Client
	onForbidden func(*http.Request)

	Auth  *auth.Service
	API   *api.Client
	Guard *guard.Guard
	HTTP  *thttp.Client
}

// Option configures the SDK client.
type Option func(*Client)

// WithStore injects a custom session store.
func WithStore(s auth.Store) Option {
	return func(c *Client) {
		c.store = s
	}
}

// WithHTTPClient sets the underlying HTTP client; its transport becomes the
// base the auth transport wraps, and its timeout is kept.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.base = hc
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *log.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithOnForbidden sets the hook invoked when the backend answers 403,
// typically wired to a navigation handler showing the unauthorized page.
func WithOnForbidden(fn func(*http.Request)) Option {
	return func(c *Client) {
		c.onForbidden = fn
	}
}

// New assembles the SDK from the configuration. The session hydrates from
// the store, so a still-valid stored token comes back authenticated.
func New(cfg Config, opts ...Option) (*Client, error) {
	if err := validator.Validate.Struct(cfg); err != nil {
		return nil, errors.BadRequest("%v", err)
	}

	c := &Client{
		cfg:    cfg,
		logger: log.G,
	}
	for _, opt := range opts {
		opt(c)
	}

	if cfg.LogLevel != "" {
		if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
			c.logger.Logger = c.logger.Logger.Level(lvl)
		}
	}

	if err := c.buildStore(); err != nil {
		return nil, err
	}

	c.metrics = metrics.NewMetrics("transporte", cfg.MetricsEnabled)

	// The transport needs session hooks and the session needs the transport,
	// so the hooks close over svc and bind once it exists. No request flows
	// before New returns.
	var svc *auth.Service
	tr := thttp.NewTransport(c.transportOptions(&svc)...)

	timeout := cfg.RequestTimeout
	if c.base != nil && c.base.Timeout > 0 {
		timeout = c.base.Timeout
	}
	c.HTTP = thttp.New(thttp.WithClient(&http.Client{Transport: tr, Timeout: timeout}))

	svc, err := auth.NewService(c.store, c.HTTP, cfg.BaseURL, auth.WithLogger(c.logger))
	if err != nil {
		return nil, err
	}

	c.Auth = svc
	c.API = api.New(c.HTTP, cfg.BaseURL, api.WithLogger(c.logger))
	c.Guard = guard.New(svc, guard.WithLogger(c.logger))

	return c, nil
}

// NewFromFile loads the configuration from a YAML file and assembles the SDK.
func NewFromFile(filename string, paths []string, opts ...Option) (*Client, error) {
	cfg, err := LoadConfig(filename, paths...)
	if err != nil {
		return nil, err
	}
	return New(*cfg, opts...)
}

// buildStore picks the session store: injected > redis > file.
func (c *Client) buildStore() error {
	if c.store != nil {
		return nil
	}

	if c.cfg.Redis.Enabled {
		rcfg := sdkredis.Single(c.cfg.Redis.Addr)
		rcfg.Username = c.cfg.Redis.Username
		rcfg.Password = c.cfg.Redis.Password
		rcfg.DB = c.cfg.Redis.DB

		rc, err := sdkredis.New(rcfg, sdkredis.WithClientLogger(c.logger))
		if err != nil {
			return err
		}
		c.redis = rc

		var sopts []redisstore.Option
		if c.cfg.Redis.KeyPrefix != "" {
			sopts = append(sopts, redisstore.WithKeyPrefix(c.cfg.Redis.KeyPrefix))
		}
		c.store = redisstore.New(rc, sopts...)
		return nil
	}

	path := c.cfg.StoragePath
	if path == "" {
		path = defaultStoragePath()
	}
	fs, err := authstore.NewFileStore(path)
	if err != nil {
		return err
	}
	c.store = fs
	return nil
}

// transportOptions wires the auth transport against the session service
// pointer, which is assigned right after the transport is built.
func (c *Client) transportOptions(svc **auth.Service) []thttp.TransportOption {
	opts := []thttp.TransportOption{
		thttp.WithTokenSource(func() string {
			if *svc == nil {
				return ""
			}
			return (*svc).AccessToken()
		}),
		thttp.WithRefreshFunc(func(ctx context.Context) (string, error) {
			if *svc == nil {
				return "", auth.ErrNoRefreshToken
			}
			if _, err := (*svc).Refresh(ctx); err != nil {
				return "", err
			}
			return (*svc).AccessToken(), nil
		}),
		thttp.WithRefreshTimeout(c.cfg.RefreshTimeout),
		thttp.WithTransportLogger(c.logger),
		thttp.WithMetrics(c.metrics),
	}

	if c.base != nil && c.base.Transport != nil {
		opts = append(opts, thttp.WithBase(c.base.Transport))
	}
	if len(c.cfg.PublicPaths) > 0 {
		opts = append(opts, thttp.WithPublicPaths(c.cfg.PublicPaths))
	}
	if c.onForbidden != nil {
		opts = append(opts, thttp.WithOnForbidden(c.onForbidden))
	}

	return opts
}

// Close releases held resources, currently only the Redis connection.
func (c *Client) Close() error {
	if c.redis != nil {
		return c.redis.Close()
	}
	return nil
}
