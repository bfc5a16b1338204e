package scenario

import (
	"fmt"
	"strconv"
	"strings"
)

// Policy labels the simulated tax-benefit regime a scenario file belongs to.
type Policy string

const (
	// PolicyUC is the reform scenario with universal credit in payment.
	PolicyUC Policy = "UC"
	// PolicyLBA is the counterfactual scenario under legacy benefit arrangements.
	PolicyLBA Policy = "LBA"
)

// Key identifies one scenario table: a simulated year under one policy.
type Key struct {
	Year   int
	Policy Policy
}

func (k Key) String() string {
	return fmt.Sprintf("%d/%s", k.Year, k.Policy)
}

// Table holds one scenario file's rows fully in memory. Scenario files are
// modest in size, so there is no streaming path.
type Table struct {
	Path   string
	Header []string
	Rows   [][]string

	idx map[string]int
}

// NewTable builds a Table from a header row and data rows, indexing columns
// by lower-cased name.
func NewTable(path string, header []string, rows [][]string) *Table {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return &Table{Path: path, Header: header, Rows: rows, idx: idx}
}

// Require verifies that every named column exists, returning a LoadError
// naming the first missing one.
func (t *Table) Require(cols ...string) error {
	for _, c := range cols {
		if _, ok := t.idx[c]; !ok {
			return &LoadError{Path: t.Path, Reason: fmt.Sprintf("missing column %q", c)}
		}
	}
	return nil
}

// Col returns the named column's value in row. The caller must have checked
// the column with Require; unknown columns return the empty string.
func (t *Table) Col(row []string, name string) string {
	i, ok := t.idx[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// Float parses the named column of row as a float64.
func (t *Table) Float(row []string, name string) (float64, error) {
	s := t.Col(row, name)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &LoadError{Path: t.Path, Reason: fmt.Sprintf("column %q: bad numeric value %q", name, s)}
	}
	return v, nil
}

// Int parses the named column of row as an int. Values written in float
// notation by the simulator (e.g. "3.0") are accepted.
func (t *Table) Int(row []string, name string) (int, error) {
	s := t.Col(row, name)
	if v, err := strconv.Atoi(s); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int(f)) {
		return 0, &LoadError{Path: t.Path, Reason: fmt.Sprintf("column %q: bad integer value %q", name, s)}
	}
	return int(f), nil
}

// Int64 parses the named column of row as an int64 identifier.
func (t *Table) Int64(row []string, name string) (int64, error) {
	s := t.Col(row, name)
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int64(f)) {
		return 0, &LoadError{Path: t.Path, Reason: fmt.Sprintf("column %q: bad identifier %q", name, s)}
	}
	return int64(f), nil
}
