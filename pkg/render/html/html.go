// Package html renders relationship graphs as self-contained interactive
// HTML documents.
//
// The artifact embeds the graph as vis-network node/edge data and delegates
// all layout to the library's forceAtlas2Based physics in the browser. One
// file, no server required.
package html

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"

	"github.com/matzehuels/relmap/pkg/graph"
)

// Options configures the HTML artifact.
type Options struct {
	// Title is the document title. Defaults to "Interface Relationship Graph".
	Title string
	// Height is the CSS height of the network canvas. Defaults to "800px".
	Height string
	// Directed draws arrowheads on edges. The default is an undirected
	// display; the model still carries direction.
	Directed bool
}

func (o *Options) setDefaults() {
	if o.Title == "" {
		o.Title = "Interface Relationship Graph"
	}
	if o.Height == "" {
		o.Height = "800px"
	}
}

// visNode is the vis-network node representation.
type visNode struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Size  int    `json:"size"`
	Color string `json:"color"`
	Shape string `json:"shape,omitempty"`
	Title string `json:"title,omitempty"`
}

// visEdge is the vis-network edge representation.
type visEdge struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Color  string  `json:"color"`
	Width  float64 `json:"width"`
	Dashes bool    `json:"dashes,omitempty"`
	Title  string  `json:"title,omitempty"`
	Arrows string  `json:"arrows,omitempty"`
}

// Render produces the complete HTML document for a graph.
// Returns an error if the graph contains a node type or edge kind this
// renderer does not know how to style.
func Render(g *graph.Graph, opts Options) ([]byte, error) {
	opts.setDefaults()

	nodes := make([]visNode, 0, g.NodeCount())
	for _, n := range g.Nodes() {
		vn, err := styleNode(n)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, vn)
	}

	edges := make([]visEdge, 0, g.EdgeCount())
	for _, e := range g.Edges() {
		ve, err := styleEdge(e, opts.Directed)
		if err != nil {
			return nil, err
		}
		edges = append(edges, ve)
	}

	nodeJSON, err := json.Marshal(nodes)
	if err != nil {
		return nil, fmt.Errorf("encode nodes: %w", err)
	}
	edgeJSON, err := json.Marshal(edges)
	if err != nil {
		return nil, fmt.Errorf("encode edges: %w", err)
	}

	var buf bytes.Buffer
	err = pageTemplate.Execute(&buf, pageData{
		Title:  opts.Title,
		Height: opts.Height,
		Nodes:  template.JS(nodeJSON),
		Edges:  template.JS(edgeJSON),
	})
	if err != nil {
		return nil, fmt.Errorf("execute template: %w", err)
	}
	return buf.Bytes(), nil
}

// styleNode assigns visual attributes per node type. The switch is
// exhaustive: an unstyled node type is an error, not an invisible node.
func styleNode(n *graph.Node) (visNode, error) {
	vn := visNode{ID: n.Key, Label: n.DisplayLabel()}
	switch n.Type {
	case graph.NodeInterface:
		vn.Size = 25
		vn.Color = "#00A0B0"
		vn.Title = fmt.Sprintf("Interface: %s (%d rows)", n.Key, n.Count)
	case graph.NodeSystem:
		vn.Size = 15
		vn.Color = "#EDC951"
		vn.Title = fmt.Sprintf("System: %s (%d rows)", n.Key, n.Count)
	case graph.NodeSubTopic:
		vn.Size = 8
		vn.Color = "#CBE86B"
		vn.Title = fmt.Sprintf("Sub-Topic: %s", n.DisplayLabel())
	case graph.NodeGroup:
		vn.Size = 20
		vn.Shape = "star"
		vn.Color = "#FF69B4"
		vn.Title = fmt.Sprintf("Group: %s", n.Key)
	default:
		return visNode{}, fmt.Errorf("no HTML style for node type %s", n.Type)
	}
	return vn, nil
}

// styleEdge assigns visual attributes per edge kind.
func styleEdge(e graph.Edge, directed bool) (visEdge, error) {
	ve := visEdge{From: e.Source, To: e.Target}
	if directed {
		ve.Arrows = "to"
	}
	switch e.Kind {
	case graph.EdgeHierarchy:
		ve.Color = "rgba(204, 204, 204, 0.3)"
		ve.Width = 1
	case graph.EdgeRelation:
		ve.Color = "#FF4500"
		ve.Width = 2.5
		ve.Dashes = true
		ve.Title = e.Title
	case graph.EdgeGroup:
		ve.Color = "rgba(255, 105, 180, 0.5)"
		ve.Width = 1.5
		ve.Dashes = true
	default:
		return visEdge{}, fmt.Errorf("no HTML style for edge kind %s", e.Kind)
	}
	return ve, nil
}

// pageData is the template input.
type pageData struct {
	Title  string
	Height string
	Nodes  template.JS
	Edges  template.JS
}

// pageTemplate is the self-contained document. vis-network is loaded from
// its CDN; everything else is inline.
var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<script src="https://unpkg.com/vis-network@9.1.9/standalone/umd/vis-network.min.js"></script>
<style>
  body { margin: 0; background-color: #222222; }
  #network { width: 100%; height: {{.Height}}; }
</style>
</head>
<body>
<div id="network"></div>
<script>
  var nodes = new vis.DataSet({{.Nodes}});
  var edges = new vis.DataSet({{.Edges}});
  var container = document.getElementById("network");
  var options = {
    nodes: { font: { color: "white" } },
    physics: {
      forceAtlas2Based: {
        gravitationalConstant: -100,
        centralGravity: 0.01,
        springLength: 100,
        springConstant: 0.08,
        avoidOverlap: 0.5
      },
      solver: "forceAtlas2Based",
      stabilization: { iterations: 1000 }
    }
  };
  new vis.Network(container, { nodes: nodes, edges: edges }, options);
</script>
</body>
</html>
`))
