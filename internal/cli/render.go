package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/relmap/pkg/graph"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string // output file path or base path for multiple formats
	formats  string // comma-separated output formats
	title    string // HTML document title
	height   string // HTML canvas height
	engine   string // Graphviz layout engine
	directed bool   // draw arrowheads
	noCache  bool   // disable the cache for this run
}

// renderCommand creates the render command for re-rendering exported graphs.
// A graph exported with "build -f json" can be rendered to any other format
// without re-reading the original table.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [graph.json]",
		Short: "Render a previously exported graph",
		Long: `Render reads a graph exported as JSON and renders it to the requested
formats. The original CSV table is not needed.

Examples:
  relmap build interfaces.csv -f json
  relmap render interfaces.json -f svg,png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): html (default), svg, png, dot (comma-separated)")
	cmd.Flags().StringVar(&opts.title, "title", "", "document title for HTML output")
	cmd.Flags().StringVar(&opts.height, "height", "", "canvas height for HTML output (e.g. 600px)")
	cmd.Flags().StringVar(&opts.engine, "engine", "", "Graphviz engine for svg/png/dot: fdp (default), neato, dot")
	cmd.Flags().BoolVar(&opts.directed, "directed", false, "draw edge direction")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching for this run")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)

	g, err := graph.ReadFile(input)
	if err != nil {
		return err
	}
	logger.Info("loaded graph", "nodes", g.NodeCount(), "edges", g.EdgeCount())

	pipeOpts := c.pipelineDefaults()
	pipeOpts.Formats = parseFormats(opts.formats, pipeOpts.Formats)
	if opts.title != "" {
		pipeOpts.Title = opts.title
	}
	if opts.height != "" {
		pipeOpts.Height = opts.height
	}
	if opts.engine != "" {
		pipeOpts.Engine = opts.engine
	}
	if opts.directed {
		pipeOpts.Directed = true
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	track := newProgress(logger)
	artifacts, cached, err := runner.RenderWithCacheInfo(ctx, g, pipeOpts)
	if err != nil {
		return err
	}
	track.done(fmt.Sprintf("Rendered %d format(s)", len(artifacts)))

	printSuccess("Rendered graph")
	printStats(g.NodeCount(), g.EdgeCount(), cached)

	base := outputBase(opts.output, input)
	for _, format := range pipeOpts.Formats {
		path := base + "." + format
		if opts.output != "" && len(pipeOpts.Formats) == 1 {
			path = opts.output
		}
		if err := os.WriteFile(path, artifacts[format], 0644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	return nil
}
