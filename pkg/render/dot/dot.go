// Package dot renders relationship graphs to Graphviz DOT and, through
// goccy/go-graphviz, to SVG and PNG.
//
// Layout is fully delegated to Graphviz; this package only maps node types
// and edge kinds to visual attributes.
package dot

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/relmap/pkg/graph"
)

// Options configures DOT generation.
type Options struct {
	// Engine selects the Graphviz layout engine. Defaults to "fdp", the
	// closest match to the force-directed display the HTML renderer uses.
	Engine string
}

// ToDOT converts a graph to Graphviz DOT format.
// The resulting DOT string can be rendered with [RenderSVG] or [RenderPNG].
// Returns an error if the graph contains a node type or edge kind this
// renderer does not know how to style.
func ToDOT(g *graph.Graph, opts Options) (string, error) {
	engine := opts.Engine
	if engine == "" {
		engine = "fdp"
	}

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	fmt.Fprintf(&buf, "  layout=%s;\n", engine)
	buf.WriteString("  bgcolor=\"#222222\";\n")
	buf.WriteString("  node [style=filled, fontcolor=white, fontsize=12];\n")
	buf.WriteString("  edge [color=\"#cccccc\"];\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		attrs, err := nodeAttrs(n)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.Key, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		attrs, err := edgeAttrs(e)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&buf, "  %q -- %q [%s];\n", e.Source, e.Target, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}

// nodeAttrs maps a node type to DOT attributes. The switch is exhaustive on
// purpose: a new node type must be given a style here before it renders.
func nodeAttrs(n *graph.Node) ([]string, error) {
	attrs := []string{fmt.Sprintf("label=%q", n.DisplayLabel())}
	switch n.Type {
	case graph.NodeInterface:
		attrs = append(attrs, "shape=box", `fillcolor="#00A0B0"`, "fontsize=16")
	case graph.NodeSystem:
		attrs = append(attrs, "shape=ellipse", `fillcolor="#EDC951"`, "fontcolor=black")
	case graph.NodeSubTopic:
		attrs = append(attrs, "shape=ellipse", `fillcolor="#CBE86B"`, "fontcolor=black", "fontsize=10")
	case graph.NodeGroup:
		attrs = append(attrs, "shape=star", `fillcolor="#FF69B4"`)
	default:
		return nil, fmt.Errorf("no DOT style for node type %s", n.Type)
	}
	if n.Count > 0 {
		attrs = append(attrs, fmt.Sprintf("tooltip=%q", fmt.Sprintf("%s (%d rows)", n.DisplayLabel(), n.Count)))
	}
	return attrs, nil
}

// edgeAttrs maps an edge kind to DOT attributes.
func edgeAttrs(e graph.Edge) ([]string, error) {
	switch e.Kind {
	case graph.EdgeHierarchy:
		return []string{`color="#cccccc4d"`}, nil
	case graph.EdgeRelation:
		attrs := []string{`color="#FF4500"`, "style=dashed", "penwidth=2.5"}
		if e.Title != "" {
			attrs = append(attrs, fmt.Sprintf("tooltip=%q", e.Title))
		}
		return attrs, nil
	case graph.EdgeGroup:
		return []string{`color="#FF69B480"`, "style=dashed", "penwidth=1.5"}, nil
	default:
		return nil, fmt.Errorf("no DOT style for edge kind %s", e.Kind)
	}
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	return render(dot, graphviz.SVG)
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(dot string) ([]byte, error) {
	return render(dot, graphviz.PNG)
}

func render(dot string, format graphviz.Format) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
