package avatar

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ShardStrategy selects how a username is mapped to one of the CDN shards.
type ShardStrategy string

const (
	// ShardStrategyCRC32 hashes the scale-1 request path with CRC-32 (IEEE).
	// This is the mapping the public GitHub avatar CDN caches are keyed on.
	ShardStrategyCRC32 ShardStrategy = "crc32"
	// ShardStrategyCodePointSum sums the code points of the username.
	ShardStrategyCodePointSum ShardStrategy = "codepoint-sum"
)

// Config holds the operator settings consumed by the avatar tag.
// The zero value renders against the default GitHub avatar CDN.
type Config struct {
	// AvatarsURL overrides the avatar host. Empty means the default
	// avatars{0-3}.githubusercontent.com shards.
	AvatarsURL string `yaml:"avatars_url" toml:"avatars_url" json:"avatars_url,omitempty"`

	// ShardStrategy selects the shard hash. Empty means ShardStrategyCRC32.
	ShardStrategy ShardStrategy `yaml:"shard_strategy" toml:"shard_strategy" json:"shard_strategy,omitempty"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{ShardStrategy: ShardStrategyCRC32}
}

// WithEnv returns a copy of c with AvatarsURL taken from PAGES_AVATARS_URL
// when lookup reports a non-empty value. Pass os.LookupEnv at the process edge.
func (c Config) WithEnv(lookup func(string) (string, bool)) Config {
	if lookup == nil {
		return c
	}
	if v, ok := lookup(EnvAvatarsURL); ok && strings.TrimSpace(v) != "" {
		c.AvatarsURL = strings.TrimSpace(v)
	}
	return c
}

// Validate checks the base URL shape and shard strategy.
func (c Config) Validate() error {
	switch c.ShardStrategy {
	case "", ShardStrategyCRC32, ShardStrategyCodePointSum:
	default:
		return NewUnknownShardStrategyError(c.ShardStrategy)
	}

	base := strings.TrimSpace(c.AvatarsURL)
	if base == "" {
		return nil
	}

	// The shard placeholder is not a valid host character.
	u, err := url.Parse(strings.ReplaceAll(base, ShardPlaceholder, "0"))
	if err != nil {
		return NewInvalidAvatarsURLError(base, ReasonUnparseable)
	}
	if u.Scheme != SchemeHTTP && u.Scheme != SchemeHTTPS {
		return NewInvalidAvatarsURLError(base, ReasonNotAbsolute)
	}
	if u.Host == "" {
		return NewInvalidAvatarsURLError(base, ReasonUnsupportedHost)
	}
	return nil
}

// LoadConfig reads a site configuration file. The format is chosen by
// extension: .yml/.yaml for YAML, .toml for TOML.
func LoadConfig(path string) (Config, error) {
	var format string
	switch strings.ToLower(filepath.Ext(path)) {
	case FileExtensionYAML, FileExtensionYML:
		format = ConfigFormatYAML
	case FileExtensionTOML:
		format = ConfigFormatTOML
	default:
		return Config{}, NewConfigError(ErrMsgUnsupportedFormat, path, nil)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, NewConfigError(ErrMsgConfigReadFailed, path, err)
	}

	cfg, err := ParseConfig(data, format)
	if err != nil {
		return Config{}, NewConfigError(ErrMsgConfigDecodeFailed, path, err)
	}
	return cfg, nil
}

// ParseConfig decodes configuration data in the given format ("yaml" or "toml").
// Unknown keys are ignored so the avatar settings can live in a larger site config.
func ParseConfig(data []byte, format string) (Config, error) {
	cfg := DefaultConfig()

	switch format {
	case ConfigFormatYAML:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, err
		}
	case ConfigFormatTOML:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, err
		}
	default:
		return Config{}, NewUnsupportedConfigFormatError(format)
	}

	if cfg.ShardStrategy == "" {
		cfg.ShardStrategy = ShardStrategyCRC32
	}
	cfg.AvatarsURL = strings.TrimSpace(cfg.AvatarsURL)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
