package graph

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrInvalidNodeKey is returned by [Graph.AddNode] when the node key is
	// empty. All nodes must have non-empty identifiers.
	ErrInvalidNodeKey = errors.New("node key must not be empty")

	// ErrDuplicateNodeKey is returned by [Graph.AddNode] when a node with
	// the same key already exists. Node keys are unique across the graph.
	ErrDuplicateNodeKey = errors.New("duplicate node key")

	// ErrUnknownSourceNode is returned by [Graph.AddEdge] when the Source
	// node does not exist in the graph.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.AddEdge] when the Target
	// node does not exist in the graph.
	ErrUnknownTargetNode = errors.New("unknown target node")
)

// NodeType is the enumerated discriminant for graph nodes. Renderers switch
// exhaustively over it, so an unhandled variant surfaces as an error instead
// of being silently skipped.
type NodeType int

const (
	// NodeInterface is a top-level interface node, deduplicated across rows.
	NodeInterface NodeType = iota
	// NodeSystem is a mid-level system node, deduplicated across rows.
	NodeSystem
	// NodeSubTopic is a leaf node unique per source row.
	NodeSubTopic
	// NodeGroup is a synthetic hub node materialized from a boolean
	// grouping column.
	NodeGroup
)

// nodeTypeNames maps NodeType values to their wire representation.
var nodeTypeNames = map[NodeType]string{
	NodeInterface: "interface",
	NodeSystem:    "system",
	NodeSubTopic:  "subtopic",
	NodeGroup:     "group",
}

// String returns the wire name of the node type.
func (t NodeType) String() string {
	if s, ok := nodeTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("nodetype(%d)", int(t))
}

// MarshalText implements encoding.TextMarshaler for JSON round-trips.
func (t NodeType) MarshalText() ([]byte, error) {
	s, ok := nodeTypeNames[t]
	if !ok {
		return nil, fmt.Errorf("unknown node type %d", int(t))
	}
	return []byte(s), nil
}

// UnmarshalText implements encoding.TextUnmarshaler for JSON round-trips.
func (t *NodeType) UnmarshalText(text []byte) error {
	for typ, name := range nodeTypeNames {
		if name == string(text) {
			*t = typ
			return nil
		}
	}
	return fmt.Errorf("unknown node type %q", text)
}

// EdgeKind is the enumerated discriminant for graph edges.
type EdgeKind int

const (
	// EdgeHierarchy is a structural edge derived from a row's
	// Interface/System/Sub-Topic fields, directed coarse → fine.
	EdgeHierarchy EdgeKind = iota
	// EdgeRelation is a cross-cutting edge derived from the Relationship
	// column, connecting two sub-topic nodes.
	EdgeRelation
	// EdgeGroup connects a group hub node to a flagged sub-topic node.
	EdgeGroup
)

// edgeKindNames maps EdgeKind values to their wire representation.
var edgeKindNames = map[EdgeKind]string{
	EdgeHierarchy: "hierarchy",
	EdgeRelation:  "relation",
	EdgeGroup:     "group",
}

// String returns the wire name of the edge kind.
func (k EdgeKind) String() string {
	if s, ok := edgeKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("edgekind(%d)", int(k))
}

// MarshalText implements encoding.TextMarshaler for JSON round-trips.
func (k EdgeKind) MarshalText() ([]byte, error) {
	s, ok := edgeKindNames[k]
	if !ok {
		return nil, fmt.Errorf("unknown edge kind %d", int(k))
	}
	return []byte(s), nil
}

// UnmarshalText implements encoding.TextUnmarshaler for JSON round-trips.
func (k *EdgeKind) UnmarshalText(text []byte) error {
	for kind, name := range edgeKindNames {
		if name == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown edge kind %q", text)
}

// Node represents a vertex in the relationship graph.
//
// Key is the unique identifier: the raw field value for interface and system
// nodes, the disambiguated "<sub-topic> (<id>)" form for sub-topic nodes, and
// the grouping column name for group nodes. Label is the human-readable
// display text; for sub-topic nodes it differs from Key. Count tracks how
// many rows reference an interface or system node.
type Node struct {
	Key   string
	Type  NodeType
	Label string
	Count int
}

// DisplayLabel returns the label if set, otherwise the key.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.Key
}

// Edge represents a directed connection between two nodes. Direction always
// flows coarse → fine for hierarchy edges; renderers configured for
// undirected display may ignore it.
type Edge struct {
	Source string
	Target string
	Kind   EdgeKind
	Title  string // optional tooltip text
}

// Graph is the node/edge collection built from one input table.
//
// Nodes are indexed by key and kept in insertion order so that builds over
// the same table produce byte-identical serializations. The zero value is
// not usable - use [New].
//
// Graph is not safe for concurrent mutation without external
// synchronization; a fully built graph is safe for concurrent reads.
type Graph struct {
	nodes map[string]*Node
	order []string
	edges []Edge
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{nodes: make(map[string]*Node)}
}

// AddNode adds a node to the graph. Returns ErrInvalidNodeKey if the key is
// empty, or ErrDuplicateNodeKey if a node with the same key already exists.
func (g *Graph) AddNode(n Node) error {
	if n.Key == "" {
		return ErrInvalidNodeKey
	}
	if _, exists := g.nodes[n.Key]; exists {
		return ErrDuplicateNodeKey
	}
	node := &n
	g.nodes[node.Key] = node
	g.order = append(g.order, node.Key)
	return nil
}

// AddEdge adds a directed edge between two existing nodes.
// Returns ErrUnknownSourceNode or ErrUnknownTargetNode if an endpoint is
// missing. Parallel edges between the same nodes are allowed.
func (g *Graph) AddEdge(e Edge) error {
	if _, ok := g.nodes[e.Source]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := g.nodes[e.Target]; !ok {
		return ErrUnknownTargetNode
	}
	g.edges = append(g.edges, e)
	return nil
}

// Node returns the node with the given key and true, or nil and false if not
// found. The pointer refers to the live node, so Count mutations during the
// build are visible.
func (g *Graph) Node(key string) (*Node, bool) {
	n, ok := g.nodes[key]
	return n, ok
}

// Has reports whether a node with the given key exists.
func (g *Graph) Has(key string) bool {
	_, ok := g.nodes[key]
	return ok
}

// Nodes returns all nodes in insertion order.
// The returned slice contains pointers to the actual node structs.
func (g *Graph) Nodes() []*Node {
	nodes := make([]*Node, len(g.order))
	for i, key := range g.order {
		nodes[i] = g.nodes[key]
	}
	return nodes
}

// NodesOfType returns the nodes with the given type, in insertion order.
func (g *Graph) NodesOfType(t NodeType) []*Node {
	var nodes []*Node
	for _, key := range g.order {
		if n := g.nodes[key]; n.Type == t {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

// Edges returns a copy of all edges in insertion order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// EdgesOfKind returns the edges with the given kind, in insertion order.
func (g *Graph) EdgesOfKind(k EdgeKind) []Edge {
	var edges []Edge
	for _, e := range g.edges {
		if e.Kind == k {
			edges = append(edges, e)
		}
	}
	return edges
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int { return len(g.edges) }
