// Package cli implements the canister command-line interface.
//
// # Commands
//
//   - search: search packages by name or identifier
//   - package: show one package
//   - repo: show one repository
//   - check: ask the legacy API whether a repository is safe
//   - cache: manage the HTTP response cache
//   - completion: generate shell completion scripts
//
// # Configuration
//
// Settings come from ~/.config/canister/config.toml (or --config) and
// CANISTER_* environment variables; see package config. Flags override both.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// logs every HTTP request with its request ID.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/canister/pkg/buildinfo"
	"github.com/matzehuels/canister/pkg/cache"
	"github.com/matzehuels/canister/pkg/config"
	"github.com/matzehuels/canister/pkg/integrations"
	"github.com/matzehuels/canister/pkg/integrations/canister"
	"github.com/matzehuels/canister/pkg/observability"
)

// appName is the application name used for directories and display.
const appName = "canister"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	generation string
	baseURL    string
	noCache    bool
	refresh    bool

	cfg *config.Config
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
		Use:               appName,
		Short:             "Canister searches the jailbreak package index",
		Long:              `Canister is a CLI for the Canister API, which indexes jailbreak tweaks and the APT repositories that host them.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return c.setup(cmd.Context()) },
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "config file (default ~/.config/canister/config.toml)")
	flags.StringVar(&c.generation, "api", "", "API generation: v1 or v2")
	flags.StringVar(&c.baseURL, "base-url", "", "override the API base URL")
	flags.BoolVar(&c.noCache, "no-cache", false, "disable the response cache")
	flags.BoolVar(&c.refresh, "refresh", false, "ignore cached responses")

	root.AddCommand(c.searchCommand())
	root.AddCommand(c.packageCommand())
	root.AddCommand(c.repoCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads configuration and installs logging hooks.
func (c *CLI) setup(ctx context.Context) error {
	cfg, err := config.Load(ctx, c.configPath)
	if err != nil {
		return err
	}
	if c.generation != "" {
		cfg.Generation = c.generation
	}
	if c.baseURL != "" {
		cfg.BaseURL = c.baseURL
	}
	c.cfg = cfg

	// The more verbose of --verbose and log.level wins.
	if lvl, err := log.ParseLevel(cfg.Log.Level); err == nil && lvl < c.Logger.GetLevel() {
		c.Logger.SetLevel(lvl)
	}

	hooks := newHookLogger(c.Logger)
	observability.SetHTTPHooks(hooks)
	observability.SetCacheHooks(hooks)
	return nil
}

// requestContext applies --refresh to ctx.
func (c *CLI) requestContext(ctx context.Context) context.Context {
	if c.refresh {
		return integrations.WithRefresh(ctx)
	}
	return ctx
}

// newClient creates a client for the configured generation. A non-empty gen
// overrides the configuration; the configured base URL is only used when the
// generations agree. The returned closer releases the client and its cache.
func (c *CLI) newClient(ctx context.Context, gen canister.Generation) (*canister.Client, func(), error) {
	cfg := c.cfg
	if cfg == nil {
		cfg = &config.Config{Generation: string(canister.V2)}
	}

	configured, err := canister.ParseGeneration(cfg.Generation)
	if err != nil {
		return nil, nil, err
	}
	if gen == "" {
		gen = configured
	}

	opts := []canister.Option{
		canister.WithGeneration(gen),
		canister.WithTimeout(cfg.Timeout),
	}
	if cfg.BaseURL != "" && gen == configured {
		opts = append(opts, canister.WithBaseURL(cfg.BaseURL))
	}

	backend, err := c.openCache(ctx)
	if err != nil {
		return nil, nil, err
	}
	opts = append(opts, canister.WithCache(backend, cfg.Cache.TTL))

	client, err := canister.NewClient(opts...)
	if err != nil {
		backend.Close()
		return nil, nil, err
	}
	c.Logger.Debug("client ready", "api", gen, "base_url", client.BaseURL(), "cache", c.cacheBackend())

	closer := func() {
		client.Close()
		backend.Close()
	}
	return client, closer, nil
}

func (c *CLI) cacheBackend() string {
	if c.noCache || c.cfg == nil {
		return config.CacheNone
	}
	return c.cfg.Cache.Backend
}

// openCache opens the configured cache backend. A Redis backend that cannot
// be reached degrades to no cache with a warning.
func (c *CLI) openCache(ctx context.Context) (cache.Cache, error) {
	switch c.cacheBackend() {
	case config.CacheFile:
		dir, err := c.cfg.CacheDir()
		if err != nil {
			c.Logger.Warn("no cache directory, caching disabled", "err", err)
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     c.cfg.Cache.RedisAddr,
			Password: c.cfg.Cache.RedisPassword,
			DB:       c.cfg.Cache.RedisDB,
		})
		if err != nil {
			c.Logger.Warn("redis unavailable, caching disabled", "addr", c.cfg.Cache.RedisAddr, "err", err)
			return cache.NewNullCache(), nil
		}
		return rc, nil
	default:
		return cache.NewNullCache(), nil
	}
}
