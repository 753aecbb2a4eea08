// Package pipeline provides the core ingest → build → render pipeline.
//
// Both the CLI and the server run graphs through this package so caching
// and validation behave identically everywhere.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Ingest: Parse the CSV input into a table
//  2. Build: Derive the relationship graph from the table
//  3. Render: Generate output in various formats (HTML, SVG, PNG, DOT, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Path:    "interfaces.csv",
//	    Groups:  []string{"Critical"},
//	    Formats: []string{"html"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	page := result.Artifacts["html"]
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/relmap/pkg/cache"
	"github.com/matzehuels/relmap/pkg/graph"
)

// Format constants for output formats.
const (
	FormatHTML = "html"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatDOT  = "dot"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatHTML: true,
	FormatSVG:  true,
	FormatPNG:  true,
	FormatDOT:  true,
	FormatJSON: true,
}

// Default values shared by CLI and server.
const (
	// DefaultTitle is the document title for HTML artifacts.
	DefaultTitle = "Interface Relationship Graph"

	// DefaultHeight is the CSS canvas height for HTML artifacts.
	DefaultHeight = "800px"

	// DefaultEngine is the Graphviz layout engine for SVG/PNG/DOT artifacts.
	DefaultEngine = "fdp"
)

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for server requests.
type Options struct {
	// Ingest options. Exactly one of Path or Data must be set: Path reads
	// a CSV file, Data carries in-memory CSV bytes (server uploads).
	Path string `json:"path,omitempty"`
	Data []byte `json:"data,omitempty"`

	// Build options
	Groups  []string `json:"groups,omitempty"`
	Refresh bool     `json:"refresh,omitempty"` // bypass cached graphs

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Title    string   `json:"title,omitempty"`
	Height   string   `json:"height,omitempty"`
	Directed bool     `json:"directed,omitempty"`
	Engine   string   `json:"engine,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the derived relationship graph.
	Graph *graph.Graph

	// GraphHash is the content hash of the serialized graph.
	GraphHash string

	// GroupColumns lists the grouping columns found in the input table,
	// whether selected or not.
	GroupColumns []string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	RowCount   int
	NodeCount  int
	EdgeCount  int
	IngestTime time.Duration
	BuildTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	BuildHit  bool // Whether the derived graph came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: html, svg, png, dot, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. Idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForIngest(); err != nil {
		return err
	}
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForIngest checks required fields for ingestion.
func (o *Options) ValidateForIngest() error {
	if o.Path == "" && len(o.Data) == 0 {
		return fmt.Errorf("path or data is required")
	}
	if o.Path != "" && len(o.Data) > 0 {
		return fmt.Errorf("path and data are mutually exclusive")
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatHTML}
	}
	if o.Title == "" {
		o.Title = DefaultTitle
	}
	if o.Height == "" {
		o.Height = DefaultHeight
	}
	if o.Engine == "" {
		o.Engine = DefaultEngine
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}

// GraphKeyOpts returns cache key options for the build stage.
func (o *Options) GraphKeyOpts() cache.GraphKeyOpts {
	return cache.GraphKeyOpts{
		Groups: o.Groups,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:   format,
		Title:    o.Title,
		Height:   o.Height,
		Directed: o.Directed,
		Engine:   o.Engine,
	}
}
