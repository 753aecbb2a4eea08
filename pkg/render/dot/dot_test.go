package dot

import (
	"strings"
	"testing"

	"github.com/matzehuels/relmap/pkg/graph"
)

// testGraph builds a small graph with every node type and edge kind.
func testGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New()
	nodes := []graph.Node{
		{Key: "OrderAPI", Type: graph.NodeInterface, Count: 2},
		{Key: "Billing", Type: graph.NodeSystem, Count: 1},
		{Key: "Invoices (#1)", Type: graph.NodeSubTopic, Label: "Invoices"},
		{Key: "Tracking (#2)", Type: graph.NodeSubTopic, Label: "Tracking"},
		{Key: "Critical", Type: graph.NodeGroup},
	}
	for _, n := range nodes {
		if err := g.AddNode(n); err != nil {
			t.Fatalf("AddNode(%s): %v", n.Key, err)
		}
	}
	edges := []graph.Edge{
		{Source: "OrderAPI", Target: "Billing", Kind: graph.EdgeHierarchy},
		{Source: "Billing", Target: "Invoices (#1)", Kind: graph.EdgeHierarchy},
		{Source: "Invoices (#1)", Target: "Tracking (#2)", Kind: graph.EdgeRelation, Title: "Relation: #1 -> #2"},
		{Source: "Critical", Target: "Invoices (#1)", Kind: graph.EdgeGroup},
	}
	for _, e := range edges {
		if err := g.AddEdge(e); err != nil {
			t.Fatalf("AddEdge(%s -> %s): %v", e.Source, e.Target, err)
		}
	}
	return g
}

func TestToDOT(t *testing.T) {
	out, err := ToDOT(testGraph(t), Options{})
	if err != nil {
		t.Fatalf("ToDOT: %v", err)
	}

	// Undirected graph with the default force-directed engine
	if !strings.HasPrefix(out, "graph G {") {
		t.Error("output should open an undirected graph")
	}
	if !strings.Contains(out, "layout=fdp") {
		t.Error("default engine should be fdp")
	}
	if !strings.Contains(out, `"OrderAPI" -- "Billing"`) {
		t.Error("hierarchy edge missing")
	}

	// Sub-topic nodes render their display label, not their key
	if !strings.Contains(out, `"Invoices (#1)" [label="Invoices"`) {
		t.Error("sub-topic node should use its display label")
	}

	// Type styling
	if !strings.Contains(out, `fillcolor="#00A0B0"`) {
		t.Error("interface color missing")
	}
	if !strings.Contains(out, "shape=star") {
		t.Error("group node should be a star")
	}

	// Relation edge styling and tooltip
	if !strings.Contains(out, `color="#FF4500"`) || !strings.Contains(out, `tooltip="Relation: #1 -> #2"`) {
		t.Error("relation edge styling or tooltip missing")
	}
}

func TestToDOTEngineOverride(t *testing.T) {
	out, err := ToDOT(testGraph(t), Options{Engine: "neato"})
	if err != nil {
		t.Fatalf("ToDOT: %v", err)
	}
	if !strings.Contains(out, "layout=neato") {
		t.Error("engine override not applied")
	}
}

func TestToDOTUnknownNodeType(t *testing.T) {
	g := graph.New()
	if err := g.AddNode(graph.Node{Key: "x", Type: graph.NodeType(99)}); err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	if _, err := ToDOT(g, Options{}); err == nil {
		t.Fatal("unknown node type should fail rendering")
	}
}

func TestToDOTEmptyGraph(t *testing.T) {
	out, err := ToDOT(graph.New(), Options{})
	if err != nil {
		t.Fatalf("ToDOT: %v", err)
	}
	if !strings.HasPrefix(out, "graph G {") || !strings.HasSuffix(strings.TrimSpace(out), "}") {
		t.Errorf("empty graph should still be a valid document:\n%s", out)
	}
}
