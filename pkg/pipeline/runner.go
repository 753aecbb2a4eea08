package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/relmap/pkg/builder"
	"github.com/matzehuels/relmap/pkg/cache"
	"github.com/matzehuels/relmap/pkg/graph"
	"github.com/matzehuels/relmap/pkg/render/dot"
	"github.com/matzehuels/relmap/pkg/render/html"
	"github.com/matzehuels/relmap/pkg/table"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete ingest → build → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Ingest
	ingestStart := time.Now()
	tbl, raw, err := r.Ingest(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("ingest: %w", err)
	}
	result.Stats.IngestTime = time.Since(ingestStart)
	result.Stats.RowCount = len(tbl.Rows)
	result.GroupColumns = tbl.GroupColumns()

	r.Logger.Info("ingested table",
		"rows", len(tbl.Rows),
		"groups", len(result.GroupColumns),
		"duration", result.Stats.IngestTime)

	// Stage 2: Build
	buildStart := time.Now()
	g, buildHit, err := r.BuildWithCacheInfo(ctx, tbl, raw, opts)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	result.Graph = g
	result.Stats.BuildTime = time.Since(buildStart)
	result.Stats.NodeCount = g.NodeCount()
	result.Stats.EdgeCount = g.EdgeCount()
	result.CacheInfo.BuildHit = buildHit

	// Compute graph hash for cache keys and server responses
	if graphData, err := graph.Marshal(g); err == nil {
		result.GraphHash = cache.Hash(graphData)
	}

	r.Logger.Info("built graph",
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"duration", result.Stats.BuildTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, g, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Ingest parses the CSV input into a table and returns the raw bytes read,
// which feed the build stage's cache key.
func (r *Runner) Ingest(ctx context.Context, opts Options) (*table.Table, []byte, error) {
	if err := opts.ValidateForIngest(); err != nil {
		return nil, nil, err
	}

	raw := opts.Data
	if opts.Path != "" {
		data, err := os.ReadFile(opts.Path)
		if err != nil {
			return nil, nil, err
		}
		raw = data
	}

	tbl, err := table.ReadCSV(bytes.NewReader(raw))
	if err != nil {
		return nil, nil, err
	}
	return tbl, raw, nil
}

// BuildWithCacheInfo derives the graph with caching and returns cache hit
// info. raw is the CSV input the table was parsed from; its content hash
// keys the cache entry.
//
// Schema errors never come from the cache path: a table that fails
// validation fails every time, before any cache lookup matters.
func (r *Runner) BuildWithCacheInfo(ctx context.Context, tbl *table.Table, raw []byte, opts Options) (*graph.Graph, bool, error) {
	r.applyLogger(&opts)

	cacheKey := r.Keyer.GraphKey(cache.Hash(raw), opts.GraphKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			g, err := graph.Read(bytes.NewReader(data))
			if err == nil {
				return g, true, nil // Cache hit
			}
		}
	}

	g, err := builder.Build(tbl, opts.Groups)
	if err != nil {
		return nil, false, err
	}

	// Cache the result
	if data, err := graph.Marshal(g); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLGraph)
	}

	return g, false, nil // Cache miss
}

// Build is a convenience wrapper that calls BuildWithCacheInfo and discards
// the cache hit info.
func (r *Runner) Build(ctx context.Context, tbl *table.Table, raw []byte, opts Options) (*graph.Graph, error) {
	g, _, err := r.BuildWithCacheInfo(ctx, tbl, raw, opts)
	return g, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache
// hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, g *graph.Graph, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	// Compute cache key from the serialized graph
	graphData, err := graph.Marshal(g)
	if err != nil {
		return nil, false, fmt.Errorf("serialize graph for cache key: %w", err)
	}
	graphHash := cache.Hash(graphData)

	// Try to get all formats from cache
	allCached := true
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(graphHash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			artifacts[format] = data
		} else {
			allCached = false
			break
		}
	}

	if allCached && len(artifacts) == len(opts.Formats) {
		return artifacts, true, nil // All artifacts from cache
	}

	// Render all formats
	rendered := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := renderArtifact(g, graphData, format, opts)
		if err != nil {
			return nil, false, fmt.Errorf("render %s: %w", format, err)
		}
		rendered[format] = data
	}

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(graphHash, opts.ArtifactKeyOpts(format))
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact)
	}

	return rendered, false, nil // Cache miss
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Render(ctx context.Context, g *graph.Graph, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, g, opts)
	return artifacts, err
}

// renderArtifact produces one output format. graphData is the serialized
// graph, reused for the JSON format.
func renderArtifact(g *graph.Graph, graphData []byte, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatJSON:
		return graphData, nil
	case FormatHTML:
		return html.Render(g, html.Options{
			Title:    opts.Title,
			Height:   opts.Height,
			Directed: opts.Directed,
		})
	case FormatDOT:
		out, err := dot.ToDOT(g, dot.Options{Engine: opts.Engine})
		if err != nil {
			return nil, err
		}
		return []byte(out), nil
	case FormatSVG, FormatPNG:
		out, err := dot.ToDOT(g, dot.Options{Engine: opts.Engine})
		if err != nil {
			return nil, err
		}
		if format == FormatSVG {
			return dot.RenderSVG(out)
		}
		return dot.RenderPNG(out)
	default:
		return nil, fmt.Errorf("invalid format: %q", format)
	}
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
