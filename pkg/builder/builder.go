// Package builder derives a relationship graph from tabular rows.
//
// Build is a pure transformation: it walks the table in row order,
// registers interface/system/sub-topic nodes, emits hierarchy edges,
// resolves the Relationship column into cross-cutting relation edges, and
// optionally materializes boolean grouping columns as group hub nodes.
//
// Relation edges connect sub-topic keys on both ends (not systems): the
// Relationship column references a row, and the row's unique node is its
// sub-topic. Hierarchy edges are directed coarse → fine
// (Interface → System → Sub-Topic).
package builder

import (
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/relmap/pkg/errors"
	"github.com/matzehuels/relmap/pkg/graph"
	"github.com/matzehuels/relmap/pkg/table"
)

// requiredColumns must all be present in the input table's header.
var requiredColumns = []string{
	table.ColID,
	table.ColInterface,
	table.ColSystem,
	table.ColSubTopics,
}

// RequiredColumns returns the column names every input table must carry.
func RequiredColumns() []string {
	return slices.Clone(requiredColumns)
}

// SchemaError reports required columns missing from the input table.
// It is fatal to the build: no partial graph is returned alongside it.
type SchemaError struct {
	Missing []string // missing column names, in required-column order
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Missing, ", "))
}

// Unwrap exposes the structured error code so callers can match with
// errors.Is(err, errors.ErrCodeInvalidSchema).
func (e *SchemaError) Unwrap() error {
	return errors.New(errors.ErrCodeInvalidSchema, "%s", e.Error())
}

// Build derives the complete node set and edge list from a table.
//
// selectedGroups names the grouping columns to materialize as group nodes;
// names not present in the table are silently ignored, and an empty slice
// skips the group pass entirely.
//
// Build either returns a complete, consistent graph or fails fast with a
// [*SchemaError] before doing any work. All other data anomalies degrade
// gracefully: dangling or malformed relationship references are omitted
// from the edge set, and duplicate row IDs resolve last-write-wins.
//
// The function is deterministic for a fixed table: nodes appear in first-
// reference order and edges in emission order, so repeated builds
// serialize identically. The input table is never mutated.
func Build(t *table.Table, selectedGroups []string) (*graph.Graph, error) {
	if err := validateSchema(t); err != nil {
		return nil, err
	}

	g := graph.New()

	// Pass 1: nodes and hierarchy edges, in row order.
	for _, row := range t.Rows {
		subKey := subTopicKey(row)

		registerCounted(g, row.Interface, graph.NodeInterface)
		registerCounted(g, row.System, graph.NodeSystem)
		if !g.Has(subKey) {
			g.AddNode(graph.Node{Key: subKey, Type: graph.NodeSubTopic, Label: row.SubTopic})
		}

		if row.Interface != "" && row.System != "" {
			g.AddEdge(graph.Edge{Source: row.Interface, Target: row.System, Kind: graph.EdgeHierarchy})
		}
		if row.System != "" {
			g.AddEdge(graph.Edge{Source: row.System, Target: subKey, Kind: graph.EdgeHierarchy})
		}
	}

	// Pass 2: row ID → sub-topic key index. Duplicate IDs are a data-quality
	// issue, not an error: the later row wins.
	index := make(map[string]string, len(t.Rows))
	for _, row := range t.Rows {
		index[row.ID] = subTopicKey(row)
	}

	// Pass 3: relationship resolution. Unresolvable references are omitted,
	// never fatal.
	for _, row := range t.Rows {
		if row.Relationship == "" {
			continue
		}
		targetID := normalizeReference(row.Relationship)
		source, okSrc := index[row.ID]
		target, okDst := index[targetID]
		if !okSrc || !okDst {
			continue
		}
		g.AddEdge(graph.Edge{
			Source: source,
			Target: target,
			Kind:   graph.EdgeRelation,
			Title:  fmt.Sprintf("Relation: %s -> %s", row.ID, targetID),
		})
	}

	// Pass 4: group materialization for the selected columns.
	for _, name := range selectedGroups {
		if !t.HasColumn(name) {
			continue
		}
		if !g.Has(name) {
			g.AddNode(graph.Node{Key: name, Type: graph.NodeGroup})
		}
		for _, row := range t.Rows {
			if !row.InGroup(name) {
				continue
			}
			if subKey := subTopicKey(row); g.Has(subKey) {
				g.AddEdge(graph.Edge{Source: name, Target: subKey, Kind: graph.EdgeGroup})
			}
		}
	}

	return g, nil
}

// validateSchema checks that all required columns exist, reporting every
// missing column in one error.
func validateSchema(t *table.Table) error {
	var missing []string
	for _, col := range requiredColumns {
		if !t.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return &SchemaError{Missing: missing}
	}
	return nil
}

// subTopicKey derives the globally unique sub-topic node key for a row.
// Suffixing the row ID disambiguates repeated sub-topic text.
func subTopicKey(row table.Row) string {
	return fmt.Sprintf("%s (%s)", row.SubTopic, row.ID)
}

// registerCounted registers a deduplicated node and increments its row
// reference count. Empty values register nothing.
func registerCounted(g *graph.Graph, key string, t graph.NodeType) {
	if key == "" {
		return
	}
	if !g.Has(key) {
		g.AddNode(graph.Node{Key: key, Type: t})
	}
	if n, ok := g.Node(key); ok {
		n.Count++
	}
}

// normalizeReference turns a loosely formatted relationship cell into a
// candidate row ID.
//
// Values carrying a '#' marker keep their token with whitespace removed, so
// "#10" and "# 10" both resolve to "#10". Bare values are reduced to their
// digits and re-prefixed ("10", "row 10" → "#10"). References that resolve
// to no row are simply dropped by the caller.
func normalizeReference(raw string) string {
	if strings.Contains(raw, "#") {
		return strings.Join(strings.Fields(raw), "")
	}
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	return "#" + digits.String()
}
