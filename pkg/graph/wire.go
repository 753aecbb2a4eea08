package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// =============================================================================
// Wire Format
// =============================================================================

// WireGraph is the canonical serialization format for relationship graphs.
// Used for CLI artifacts, HTTP responses, and cache entries.
//
// The format is human-readable and designed for round-trip fidelity:
// build → export → re-import produces identical results.
type WireGraph struct {
	Nodes []WireNode `json:"nodes"`
	Edges []WireEdge `json:"edges"`
}

// WireNode is the serialized form of a [Node].
type WireNode struct {
	Key   string   `json:"key"`
	Type  NodeType `json:"type"`
	Label string   `json:"label,omitempty"`
	Count int      `json:"count,omitempty"`
}

// WireEdge is the serialized form of an [Edge].
type WireEdge struct {
	Source string   `json:"source"`
	Target string   `json:"target"`
	Kind   EdgeKind `json:"kind"`
	Title  string   `json:"title,omitempty"`
}

// FromGraph converts a Graph to its serialization format.
// Node and edge order matches the graph's insertion order, so output is
// deterministic for a fixed build.
func FromGraph(g *Graph) WireGraph {
	nodes := g.Nodes()
	out := WireGraph{
		Nodes: make([]WireNode, len(nodes)),
		Edges: make([]WireEdge, g.EdgeCount()),
	}
	for i, n := range nodes {
		out.Nodes[i] = WireNode{Key: n.Key, Type: n.Type, Label: n.Label, Count: n.Count}
	}
	for i, e := range g.Edges() {
		out.Edges[i] = WireEdge{Source: e.Source, Target: e.Target, Kind: e.Kind, Title: e.Title}
	}
	return out
}

// ToGraph converts a WireGraph back into a Graph.
// Returns an error if the data violates graph constraints (duplicate keys,
// edges referencing missing nodes).
func ToGraph(wg WireGraph) (*Graph, error) {
	g := New()
	for _, wn := range wg.Nodes {
		n := Node{Key: wn.Key, Type: wn.Type, Label: wn.Label, Count: wn.Count}
		if err := g.AddNode(n); err != nil {
			return nil, fmt.Errorf("add node %s: %w", wn.Key, err)
		}
	}
	for _, we := range wg.Edges {
		e := Edge{Source: we.Source, Target: we.Target, Kind: we.Kind, Title: we.Title}
		if err := g.AddEdge(e); err != nil {
			return nil, fmt.Errorf("add edge %s -> %s: %w", we.Source, we.Target, err)
		}
	}
	return g, nil
}

// =============================================================================
// Serialization API
// =============================================================================

// Marshal converts a graph to indented JSON bytes.
func Marshal(g *Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write writes a graph as JSON to an io.Writer.
// Use [Marshal] for in-memory serialization or [WriteFile] for files.
func Write(g *Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(FromGraph(g)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteFile writes a graph to a JSON file.
// The file is created with 0644 permissions.
func WriteFile(g *Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(g, f)
}

// Read decodes a JSON graph from an io.Reader.
// Returns validation errors for data that violates graph constraints.
func Read(r io.Reader) (*Graph, error) {
	var wg WireGraph
	if err := json.NewDecoder(r).Decode(&wg); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return ToGraph(wg)
}

// ReadFile reads a JSON file and returns the decoded graph.
func ReadFile(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}
