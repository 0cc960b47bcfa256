// Package cli implements the pic command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pic/pkg/buildinfo"
	"github.com/matzehuels/pic/pkg/cache"
	"github.com/matzehuels/pic/pkg/config"
	"github.com/matzehuels/pic/pkg/observability"
	"github.com/matzehuels/pic/pkg/render"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "pic"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	noCache    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "pic renders diagrams embedded in Markdown",
		Long: `pic builds Markdown documentation into HTML, replacing diagram directives
with the output of little-language renderers such as graphviz, pic or plantuml.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			if c.Logger.GetLevel() <= log.DebugLevel {
				observability.NewLogHooks(c.Logger).Install()
			}
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "configuration file (default ./"+config.DefaultFile+" if present)")
	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "disable the render cache")

	root.AddCommand(c.buildCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.languagesCommand())
	root.AddCommand(c.initCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Environment
// =============================================================================

// env bundles what commands need to render diagrams.
type env struct {
	cfg      *config.Config
	resolver *config.Resolver
	invoker  *render.Invoker
	cache    cache.Cache
}

func (e *env) Close() error {
	return e.cache.Close()
}

// newEnv loads the configuration and wires the render cache and invoker.
func (c *CLI) newEnv(ctx context.Context) (*env, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	rc, err := newCache(ctx, cfg, c.noCache)
	if err != nil {
		return nil, err
	}

	inv := render.NewInvoker(rc, loggerFromContext(ctx))
	inv.Timeout = cfg.Render.Timeout
	inv.CacheTTL = cfg.Cache.TTL

	return &env{
		cfg:      cfg,
		resolver: config.NewResolver(cfg.Languages),
		invoker:  inv,
		cache:    rc,
	}, nil
}

// loadConfig reads --config, or ./pic.toml when it exists. Without either
// the defaults apply and no language is configured.
func (c *CLI) loadConfig() (*config.Config, error) {
	if c.configPath != "" {
		return config.Load(c.configPath)
	}
	if _, err := os.Stat(config.DefaultFile); err == nil {
		return config.Load(config.DefaultFile)
	}
	c.Logger.Debug("no configuration file, using defaults", "file", config.DefaultFile)
	return config.Default(), nil
}

// newCache opens the configured render cache backend.
func newCache(ctx context.Context, cfg *config.Config, noCache bool) (cache.Cache, error) {
	if noCache || cfg.Cache.Backend == config.CacheNone {
		return cache.NewNullCache(), nil
	}

	var c cache.Cache
	switch cfg.Cache.Backend {
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
		if err != nil {
			return nil, err
		}
		c = rc
	default:
		dir := cfg.Cache.Dir
		if dir == "" {
			d, err := cacheDir()
			if err != nil {
				return cache.NewNullCache(), nil
			}
			dir = d
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, err
		}
		c = fc
	}

	if cfg.Cache.Namespace != "" {
		c = cache.NewScopedCache(c, cfg.Cache.Namespace)
	}
	return c, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/pic/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
