// Package table provides CSV ingestion for relationship data.
//
// The ingestion layer is responsible for parsing, encoding, and type
// coercion only. It delivers typed [Row] records to the builder and makes
// no judgement about which columns are required - schema validation is the
// builder's concern, so a file missing a required column still parses here.
//
// Any column outside the standard set (ID, Interface, System, Topics,
// Sub-Topics, Relationship, Remark) is treated as a boolean grouping
// column; its cells are coerced to membership flags.
package table

import "slices"

// Standard column names recognized by the ingestion layer.
const (
	ColID           = "ID"
	ColInterface    = "Interface"
	ColSystem       = "System"
	ColTopics       = "Topics"
	ColSubTopics    = "Sub-Topics"
	ColRelationship = "Relationship"
	ColRemark       = "Remark"
)

// standardColumns is the set of columns that are not grouping candidates.
var standardColumns = map[string]bool{
	ColID:           true,
	ColInterface:    true,
	ColSystem:       true,
	ColTopics:       true,
	ColSubTopics:    true,
	ColRelationship: true,
	ColRemark:       true,
}

// IsStandardColumn reports whether name belongs to the standard column set.
func IsStandardColumn(name string) bool { return standardColumns[name] }

// Row is one typed record from the input table.
//
// Topics and Relationship may be empty; Groups holds the coerced boolean
// cells of every non-standard column, keyed by column name.
type Row struct {
	ID           string
	Interface    string
	System       string
	Topics       string
	SubTopic     string
	Relationship string
	Groups       map[string]bool
}

// InGroup reports whether the row is flagged true in the named grouping
// column. Missing columns report false.
func (r Row) InGroup(name string) bool { return r.Groups[name] }

// Table is an ordered sequence of rows plus the source column set.
type Table struct {
	Columns []string // header names in file order
	Rows    []Row
}

// HasColumn reports whether the table's header contains the named column.
func (t *Table) HasColumn(name string) bool {
	return slices.Contains(t.Columns, name)
}

// GroupColumns returns the available grouping columns: every header column
// outside the standard set, in file order. This feeds the configuration
// surface that lets a caller pick groups to materialize.
func (t *Table) GroupColumns() []string {
	var groups []string
	for _, c := range t.Columns {
		if !standardColumns[c] {
			groups = append(groups, c)
		}
	}
	return groups
}
