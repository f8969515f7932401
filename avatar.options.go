package avatar

import (
	"go.uber.org/zap"
)

// Option is a functional option for configuring the Engine.
type Option func(*engineConfig)

// engineConfig holds the internal configuration for an Engine.
type engineConfig struct {
	tagConfig Config
	markdown  bool
	logger    *zap.Logger
}

// defaultEngineConfig returns the default engine configuration.
func defaultEngineConfig() *engineConfig {
	return &engineConfig{
		tagConfig: DefaultConfig(),
		markdown:  true,
	}
}

// WithConfig replaces the avatar tag configuration.
// Default: DefaultConfig()
func WithConfig(cfg Config) Option {
	return func(c *engineConfig) {
		c.tagConfig = cfg
	}
}

// WithAvatarsURL sets the avatar base URL override. Empty keeps the default CDN.
func WithAvatarsURL(baseURL string) Option {
	return func(c *engineConfig) {
		c.tagConfig.AvatarsURL = baseURL
	}
}

// WithShardStrategy sets the shard hash used for subdomain-isolated hosts.
// Default: ShardStrategyCRC32
func WithShardStrategy(strategy ShardStrategy) Option {
	return func(c *engineConfig) {
		c.tagConfig.ShardStrategy = strategy
	}
}

// WithMarkdown enables or disables markdown conversion of .md pages.
// Default: true
func WithMarkdown(enabled bool) Option {
	return func(c *engineConfig) {
		c.markdown = enabled
	}
}

// WithLogger sets the logger for the engine.
// Default: nil (no logging)
func WithLogger(logger *zap.Logger) Option {
	return func(c *engineConfig) {
		c.logger = logger
	}
}
