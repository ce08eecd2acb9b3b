// Package cli implements the pysearch command-line interface.
//
// The root command performs the search itself: it queries the package
// index's search endpoint (or resolves requirement files), aggregates
// the per-version hits into ranked package records, and prints a
// terminal-formatted report. Supporting subcommands manage the HTTP
// response cache and generate shell completions.
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/pysearch/pysearch/pkg/buildinfo"
	"github.com/pysearch/pysearch/pkg/cache"
)

// appName is the application name used for directories and display.
const appName = "pysearch"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
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
// The root command itself runs the search.
func (c *CLI) RootCommand() *cobra.Command {
	opts := &searchOpts{}

	root := &cobra.Command{
		Use:   "pysearch [flags] <query>...",
		Short: "Search a Python package index for packages",
		Long: `Search a Python package index for packages whose name or summary
contains the query terms, and print a ranked report. Locally installed
packages are annotated with their installed and latest versions.

With --files, search for the packages listed in pip requirement files
instead of free-text query terms.`,
		Example: `  pysearch requests
  pysearch web framework
  pysearch -f requirements.txt
  pysearch --index https://test.pypi.org/pypi flask`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSearch(cmd.Context(), args, opts)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.Flags().StringVar(&opts.index, "index", "", "base URL of the package index (default "+defaultIndexURL+")")
	root.Flags().StringArrayVarP(&opts.files, "files", "f", nil, "search packages from the given requirement file (repeatable)")
	root.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the response cache")
	root.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cached responses")

	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newBackend selects the cache backend from config and flags.
// Backend failures degrade to weaker backends instead of aborting the
// search: redis falls back to files, files fall back to no cache.
func (c *CLI) newBackend(ctx context.Context, cfg Config, noCache bool) cache.Cache {
	if noCache || cfg.Cache.Backend == "none" {
		return cache.NewNullCache()
	}

	if cfg.Cache.Backend == "redis" {
		backend, err := cache.NewRedisCache(ctx, cfg.Cache.RedisAddr)
		if err == nil {
			return backend
		}
		c.Logger.Warnf("Redis cache unavailable, falling back to file cache: %v", err)
	}

	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache()
	}
	backend, err := cache.NewFileCache(dir)
	if err != nil {
		return cache.NewNullCache()
	}
	return backend
}

// cacheDir returns the cache directory using XDG standard (~/.cache/pysearch/).
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
