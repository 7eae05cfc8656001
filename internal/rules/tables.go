// Package rules loads and types the sheet-backed rule tables that drive
// sharing decisions: which categories are shared, per user, and each user's
// budget, flags, shared account, and share percentage.
package rules

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Range names of the two rule tables inside the configuration workbook.
const (
	CategoryMappingsRange = "Category Mappings"
	UserSettingsRange     = "Users"
)

// Column names of the category mappings table.
const (
	ColShared = "Shared"
	ColAlias  = "Alias"
)

// Column names of the user settings table.
const (
	ColUserNumber      = "User Number"
	ColBudgetName      = "Budget Name"
	ColSharedFlag      = "Shared Flag"
	ColToShareFlag     = "To Share Flag"
	ColSharedAccount   = "Shared Account"
	ColSharePercentage = "Share Percentage"
)

// DefaultAlias marks the mapping row whose per-user value is the fallback
// target category for otherwise unmapped source categories.
const DefaultAlias = "default"

// RowSource supplies the raw cell values of one named table. Implementations
// read Google Sheets or a local workbook.
type RowSource interface {
	Rows(ctx context.Context, spreadsheetID, rangeName string) ([][]string, error)
}

// Table is a loosely typed sheet: ordered headers plus rows keyed by header.
// Rows shorter than the header row read as empty cells; extra cells are
// dropped.
type Table struct {
	headers []string
	rows    []map[string]string
}

// NewTable builds a Table from raw cell values, treating the first row as
// headers.
func NewTable(values [][]string) *Table {
	t := &Table{}
	if len(values) == 0 {
		return t
	}
	t.headers = append([]string(nil), values[0]...)
	for _, raw := range values[1:] {
		row := make(map[string]string, len(t.headers))
		for i, header := range t.headers {
			if i < len(raw) {
				row[header] = raw[i]
			} else {
				row[header] = ""
			}
		}
		t.rows = append(t.rows, row)
	}
	return t
}

// Empty reports whether the table has no data rows.
func (t *Table) Empty() bool {
	return t == nil || len(t.rows) == 0
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rows)
}

// Headers returns a copy of the header row.
func (t *Table) Headers() []string {
	if t == nil {
		return nil
	}
	return append([]string(nil), t.headers...)
}

// HasColumn reports whether a header with the given name exists.
func (t *Table) HasColumn(name string) bool {
	if t == nil {
		return false
	}
	for _, header := range t.headers {
		if header == name {
			return true
		}
	}
	return false
}

// Row returns a copy of row i so callers cannot mutate table state.
func (t *Table) Row(i int) map[string]string {
	row := make(map[string]string, len(t.rows[i]))
	for k, v := range t.rows[i] {
		row[k] = v
	}
	return row
}

// Truthy reports whether a cell holds a truthy marker: true, 1, yes, or y,
// case-insensitively.
func Truthy(cell string) bool {
	switch strings.ToLower(strings.TrimSpace(cell)) {
	case "true", "1", "yes", "y":
		return true
	}
	return false
}

// UserColumn names the per-user column of the category mappings table.
func UserColumn(n int) string {
	return fmt.Sprintf("User %d", n)
}

// parseUserNumber reads a user number cell. Numeric cells with a fractional
// part of zero count, mirroring the sheet's habit of storing "1.0".
func parseUserNumber(cell string) (int, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil {
		return 0, false
	}
	n := int(f)
	if float64(n) != f {
		return 0, false
	}
	return n, true
}
