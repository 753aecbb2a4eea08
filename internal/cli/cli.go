// Package cli implements the relmap command-line interface.
//
// This package provides commands for building relationship graphs from
// interface tables, inspecting table columns, rendering stored graphs, and
// running the web UI. The CLI is built using cobra and supports verbose
// logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - build: Derive a graph from a CSV table and render it
//   - columns: Inspect the columns of a CSV table
//   - render: Re-render a previously exported graph
//   - serve: Run the upload web UI
//   - cache: Manage the artifact cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/relmap/internal/config"
	"github.com/matzehuels/relmap/pkg/buildinfo"
	"github.com/matzehuels/relmap/pkg/cache"
	"github.com/matzehuels/relmap/pkg/pipeline"
)

// appName is the application name used for directories and display.
const appName = "relmap"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config
}

// New creates a new CLI instance with a default logger and the user's
// configuration file applied. A broken configuration file downgrades to
// the defaults with a warning rather than blocking every command.
func New(w io.Writer, level log.Level) *CLI {
	c := &CLI{
		Logger: newLogger(w, level),
	}
	cfg, err := config.LoadDefault()
	if err != nil {
		c.Logger.Warn("ignoring configuration file", "err", err)
		cfg = config.Default()
	}
	c.Config = cfg
	return c
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Relmap visualizes interface relationship tables as graphs",
		Long:         `Relmap derives an interactive relationship graph from a CSV table of interfaces, systems, and sub-topics, and renders it as HTML, SVG, PNG, or DOT.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.buildCommand())
	root.AddCommand(c.columnsCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newRunner creates a pipeline runner for CLI use, honoring the configured
// cache backend.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	store, err := c.newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, nil, c.Logger), nil
}

func (c *CLI) newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.Config.Cache.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		return cache.NewRedisCache(context.Background(), c.Config.Cache.RedisAddr)
	default:
		dir, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	}
}

// cacheDir returns the cache directory using XDG standard (~/.cache/relmap/).
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

// pipelineDefaults builds the base pipeline options from the configuration.
func (c *CLI) pipelineDefaults() pipeline.Options {
	return pipeline.Options{
		Formats:  c.Config.Render.Formats,
		Title:    c.Config.Render.Title,
		Height:   c.Config.Render.Height,
		Directed: c.Config.Render.Directed,
		Engine:   c.Config.Render.Engine,
		Logger:   c.Logger,
	}
}

// parseFormats parses a comma-separated format string into a slice.
// An empty string keeps the configured defaults.
func parseFormats(s string, fallback []string) []string {
	if s == "" {
		return fallback
	}
	return splitList(s)
}

// parseGroups parses a comma-separated grouping column list.
func parseGroups(s string) []string {
	return splitList(s)
}

// splitList splits a comma-separated flag value, trimming whitespace and
// dropping empty items.
func splitList(s string) []string {
	var items []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// outputBase derives the base output path from the output flag and input
// file. An explicit output keeps its directory and name; otherwise the
// input path with its extension stripped is used.
func outputBase(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
