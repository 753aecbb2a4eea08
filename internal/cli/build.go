package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/relmap/pkg/builder"
	"github.com/matzehuels/relmap/pkg/pipeline"
	"github.com/matzehuels/relmap/pkg/table"
)

// buildOpts holds the command-line flags for the build command.
type buildOpts struct {
	output      string // output file path or base path for multiple formats
	formats     string // comma-separated output formats
	groups      string // comma-separated grouping columns
	title       string // HTML document title
	height      string // HTML canvas height
	engine      string // Graphviz layout engine for svg/png/dot
	directed    bool   // draw arrowheads
	interactive bool   // pick grouping columns in a TUI
	noCache     bool   // disable the cache for this run
	refresh     bool   // bypass cached graphs
}

// buildCommand creates the build command: CSV in, rendered graph out.
func (c *CLI) buildCommand() *cobra.Command {
	var opts buildOpts

	cmd := &cobra.Command{
		Use:   "build [file]",
		Short: "Build a relationship graph from a CSV table",
		Long: `Build derives the relationship graph from a CSV interface table and
renders it to one or more output formats.

The table must carry the ID, Interface, System, and Sub-Topics columns.
Additional columns can be materialized as group nodes with --groups, or
picked interactively with --interactive.

Examples:
  relmap build interfaces.csv
  relmap build interfaces.csv -f html,svg,json -o out/graph
  relmap build interfaces.csv --groups Critical,Deprecated
  relmap build interfaces.csv --interactive`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBuild(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): html (default), svg, png, dot, json (comma-separated)")
	cmd.Flags().StringVarP(&opts.groups, "groups", "g", "", "grouping column(s) to materialize (comma-separated)")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "pick grouping columns interactively")
	cmd.Flags().StringVar(&opts.title, "title", "", "document title for HTML output")
	cmd.Flags().StringVar(&opts.height, "height", "", "canvas height for HTML output (e.g. 600px)")
	cmd.Flags().StringVar(&opts.engine, "engine", "", "Graphviz engine for svg/png/dot: fdp (default), neato, dot")
	cmd.Flags().BoolVar(&opts.directed, "directed", false, "draw edge direction")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching for this run")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "rebuild even if a cached graph exists")

	return cmd
}

func (c *CLI) runBuild(ctx context.Context, input string, opts *buildOpts) error {
	logger := loggerFromContext(ctx)

	pipeOpts := c.pipelineDefaults()
	pipeOpts.Path = input
	pipeOpts.Groups = parseGroups(opts.groups)
	pipeOpts.Refresh = opts.refresh
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

	if opts.interactive {
		selected, err := c.pickGroups(input, pipeOpts.Groups)
		if err != nil {
			return err
		}
		pipeOpts.Groups = selected
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	track := newProgress(logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Building %s", input))
	spinner.Start()

	result, err := runner.Execute(ctx, pipeOpts)
	if err != nil {
		spinner.Stop()
		var schemaErr *builder.SchemaError
		if errors.As(err, &schemaErr) {
			printError("Invalid table: %s", schemaErr.Error())
			printDetail("Required columns: %s", strings.Join(builder.RequiredColumns(), ", "))
			return err
		}
		return err
	}
	spinner.Stop()
	track.done(fmt.Sprintf("Built graph from %d rows", result.Stats.RowCount))

	printSuccess("Built relationship graph")
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.BuildHit)

	if len(result.GroupColumns) > 0 && len(pipeOpts.Groups) == 0 {
		printDetail("Grouping columns available: %s (use --groups or --interactive)",
			strings.Join(result.GroupColumns, ", "))
	}

	base := outputBase(opts.output, input)
	var htmlPath string
	for _, format := range pipeOpts.Formats {
		path := base + "." + format
		if opts.output != "" && len(pipeOpts.Formats) == 1 {
			path = opts.output
		}
		if err := os.WriteFile(path, result.Artifacts[format], 0644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		if format == pipeline.FormatHTML {
			htmlPath = path
		}
		printFile(path)
	}

	if htmlPath != "" {
		printNextStep("Open it", htmlPath)
	}
	return nil
}

// pickGroups reads the table header and runs the interactive selector.
func (c *CLI) pickGroups(input string, preselected []string) ([]string, error) {
	tbl, err := table.ReadCSVFile(input)
	if err != nil {
		return nil, err
	}
	columns := tbl.GroupColumns()
	if len(columns) == 0 {
		printWarning("No grouping columns in %s", input)
		return nil, nil
	}
	return selectGroupsInteractive(columns, preselected)
}
