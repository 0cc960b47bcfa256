// Package config loads pic.toml and resolves the effective options of a
// diagram.
//
// The configuration is read once at startup and never mutated afterwards.
// It maps language keys to [Profile] records:
//
//	[languages.dot]
//	program = ["dot", "-Tsvg"]
//	align = "center"
//
//	[languages.pic]
//	program = "m4 | dpic -v"
//	shell = true
//	prolog = ".PS\n"
//	epilog = "\n.PE\n"
//
// A [Resolver] merges a profile with the options given on a single
// directive; see [Resolver.Resolve].
package config

import (
	"os"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/pic/pkg/errors"
)

// DefaultFile is the configuration file looked up when --config is not given.
const DefaultFile = "pic.toml"

// DefaultTimeout bounds a single renderer process.
const DefaultTimeout = 15 * time.Second

// Default values for the build section.
const (
	DefaultSource    = "docs"
	DefaultOutput    = "_site"
	DefaultJobs      = 4
	DefaultDirective = "pic"
)

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Config is the decoded pic.toml.
type Config struct {
	Render    RenderConfig       `toml:"render"`
	Cache     CacheConfig        `toml:"cache"`
	Build     BuildConfig        `toml:"build"`
	Languages map[string]Profile `toml:"languages"`

	// Path is the file the config was loaded from, empty for defaults.
	Path string `toml:"-"`
	// ModTime is the config file's modification time. Pages built before
	// it are rebuilt.
	ModTime time.Time `toml:"-"`
}

// RenderConfig holds renderer-wide settings.
type RenderConfig struct {
	Timeout time.Duration `toml:"timeout"`
}

// CacheConfig selects and configures the render cache.
type CacheConfig struct {
	Backend       string        `toml:"backend"`
	Dir           string        `toml:"dir"`
	TTL           time.Duration `toml:"ttl"`
	Namespace     string        `toml:"namespace"`
	RedisAddr     string        `toml:"redis-addr"`
	RedisPassword string        `toml:"redis-password"`
	RedisDB       int           `toml:"redis-db"`
}

// BuildConfig holds site builder settings.
type BuildConfig struct {
	Source    string `toml:"source"`
	Output    string `toml:"output"`
	Jobs      int    `toml:"jobs"`
	Directive string `toml:"directive"`
	Title     string `toml:"title"`
}

// Default returns a configuration without any language profiles.
func Default() *Config {
	c := &Config{}
	c.SetDefaults()
	return c
}

// Load reads and validates a TOML configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "configuration file %s not found (run 'pic init' to create one)", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "reading %s", path)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, err
	}
	c.Path = path
	if info, err := os.Stat(path); err == nil {
		c.ModTime = info.ModTime()
	}
	return c, nil
}

// Parse decodes and validates TOML configuration data.
// Unknown keys are rejected so typos in option names surface early.
func Parse(data []byte) (*Config, error) {
	var c Config
	md, err := toml.Decode(string(data), &c)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parsing configuration")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown configuration keys: %s", strings.Join(keys, ", "))
	}
	c.SetDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// SetDefaults fills zero values. It is idempotent.
func (c *Config) SetDefaults() {
	if c.Render.Timeout == 0 {
		c.Render.Timeout = DefaultTimeout
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = CacheFile
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = 7 * 24 * time.Hour
	}
	if c.Build.Source == "" {
		c.Build.Source = DefaultSource
	}
	if c.Build.Output == "" {
		c.Build.Output = DefaultOutput
	}
	if c.Build.Jobs <= 0 {
		c.Build.Jobs = DefaultJobs
	}
	if c.Build.Directive == "" {
		c.Build.Directive = DefaultDirective
	}
	if c.Languages == nil {
		c.Languages = map[string]Profile{}
	}
}

// Validate checks every section.
func (c *Config) Validate() error {
	if c.Render.Timeout < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "render.timeout must be positive")
	}
	switch c.Cache.Backend {
	case CacheFile, CacheNone:
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.redis-addr is required for the redis backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "cache.backend: %q is not one of file, redis, none", c.Cache.Backend)
	}
	if err := errors.ValidateLanguageKey(c.Build.Directive); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "build.directive")
	}
	for _, lang := range c.LanguageKeys() {
		if err := c.Languages[lang].Validate(lang); err != nil {
			return err
		}
	}
	return nil
}

// LanguageKeys returns the configured language keys in sorted order.
func (c *Config) LanguageKeys() []string {
	keys := make([]string, 0, len(c.Languages))
	for k := range c.Languages {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
