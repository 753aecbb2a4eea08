package table

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/matzehuels/relmap/pkg/errors"
)

// ReadCSV parses relationship data from CSV.
//
// The first record is the header; remaining records become rows in file
// order. Cells in standard columns are kept as trimmed strings; cells in
// every other column are coerced to booleans (TRUE/true/1/yes/x count as
// membership, anything else as false, matching the loose conventions of
// hand-maintained spreadsheets).
//
// Parse failures return an error with code [errors.ErrCodeInvalidInput].
// Missing required columns do not fail here - the builder reports those as
// a schema error.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New(errors.ErrCodeInvalidInput, "empty CSV: missing header row")
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read CSV header")
	}

	cols := make([]string, len(header))
	for i, h := range header {
		cols[i] = strings.TrimSpace(h)
	}

	t := &Table{Columns: cols}
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read CSV record")
		}
		t.Rows = append(t.Rows, rowFromRecord(cols, record))
	}
	return t, nil
}

// ReadCSVFile reads and parses the CSV file at path.
func ReadCSVFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	return ReadCSV(f)
}

// rowFromRecord maps one CSV record onto a typed Row using the header.
func rowFromRecord(cols, record []string) Row {
	row := Row{Groups: make(map[string]bool)}
	for i, col := range cols {
		if i >= len(record) {
			break
		}
		value := strings.TrimSpace(record[i])
		switch col {
		case ColID:
			row.ID = value
		case ColInterface:
			row.Interface = value
		case ColSystem:
			row.System = value
		case ColTopics:
			row.Topics = value
		case ColSubTopics:
			row.SubTopic = value
		case ColRelationship:
			row.Relationship = value
		case ColRemark:
			// tolerated but unused
		default:
			row.Groups[col] = parseFlag(value)
		}
	}
	return row
}

// parseFlag coerces a grouping cell to a membership flag.
func parseFlag(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "y", "x":
		return true
	}
	return false
}
