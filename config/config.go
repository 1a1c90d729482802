package config

import (
	"sync"

	"github.com/spf13/viper"

	"github.com/sistematransporte/transporte-go/core/validator"
	"github.com/sistematransporte/transporte-go/log"
)

// Config manages loading and reloading of a configuration target
type Config struct {
	mu       sync.RWMutex        // protects concurrent access to target
	viper    *viper.Viper        // viper instance for configuration management
	validate validator.Validator // validator for configuration validation
	target   any                 // destination where the configuration is unmarshalled
	loader   Loader              // loader responsible for loading configuration
	defaults map[string]any      // default values applied before loading
}

// New creates a new Config instance with the given options
// If no loader is provided, a default FileLoader will be created with:
//   - filename: "transporte.yaml"
//   - paths: ["."]
func New(target any, opts ...Option) *Config {
	c := &Config{
		viper:    viper.New(),
		validate: validator.Validate,
		target:   target,
	}

	for _, opt := range opts {
		opt(c)
	}

	for key, value := range c.defaults {
		c.viper.SetDefault(key, value)
	}

	if c.loader == nil {
		c.loader = NewFileLoader("transporte.yaml", []string{"."}, c.viper, c.validate)
	}

	return c
}

// Load reads the configuration using the configured loader
func (c *Config) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.loader.Load(c.target)
}

// Reload reloads the configuration from the loader
func (c *Config) Reload() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.loader.Load(c.target)
}

// Watch sets up automatic configuration reloading on change
func (c *Config) Watch() error {
	return c.loader.Watch(func() {
		log.Info().Msg("config change detected")

		if err := c.Reload(); err != nil {
			log.Error().Err(err).Msg("failed to reload config after change")
			return
		}

		log.Info().Msg("config reloaded successfully")
	})
}

// GetViper returns the underlying viper instance
func (c *Config) GetViper() *viper.Viper {
	return c.viper
}
