package rules

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dvloznov/budget-share/internal/logger"
)

// MappingRule is one typed row of the category mappings table.
type MappingRule struct {
	Shared bool
	Alias  string
	// Users holds the per-user category name cells keyed by user number.
	Users map[int]string
}

// CategoryTable is the typed view of the category mappings table.
type CategoryTable struct {
	table *Table
	rules []MappingRule
}

// LoadCategoryTable fetches the category mappings table from src. A sheet
// with no data rows loads as an empty table; missing columns are tolerated
// and simply disable the lookups that need them.
func LoadCategoryTable(ctx context.Context, src RowSource, spreadsheetID string) (*CategoryTable, error) {
	log := logger.FromContext(ctx)

	values, err := src.Rows(ctx, spreadsheetID, CategoryMappingsRange)
	if err != nil {
		return nil, fmt.Errorf("load %s table: %w", CategoryMappingsRange, err)
	}

	ct := NewCategoryTable(values)
	if ct.Empty() {
		log.Warn().Msg("Category mappings table has no data rows")
		return ct, nil
	}

	log.Debug().
		Int("rows", ct.table.Len()).
		Strs("columns", ct.table.Headers()).
		Msg("Loaded category mappings")
	return ct, nil
}

// NewCategoryTable types pre-fetched cell values; used by tests and callers
// that already hold the raw sheet.
func NewCategoryTable(values [][]string) *CategoryTable {
	table := NewTable(values)
	ct := &CategoryTable{table: table}
	userCols := userColumns(table.headers)
	for _, row := range table.rows {
		rule := MappingRule{
			Shared: Truthy(row[ColShared]),
			Alias:  strings.TrimSpace(row[ColAlias]),
			Users:  make(map[int]string, len(userCols)),
		}
		for n, col := range userCols {
			rule.Users[n] = row[col]
		}
		ct.rules = append(ct.rules, rule)
	}
	return ct
}

// Empty reports whether the table has no mapping rows.
func (ct *CategoryTable) Empty() bool {
	return ct == nil || ct.table.Empty()
}

// HasSharedColumn reports whether the Shared column exists.
func (ct *CategoryTable) HasSharedColumn() bool {
	return ct != nil && ct.table.HasColumn(ColShared)
}

// HasUserColumn reports whether the User {n} column exists.
func (ct *CategoryTable) HasUserColumn(n int) bool {
	return ct != nil && ct.table.HasColumn(UserColumn(n))
}

// Rules returns the typed mapping rows in sheet order.
func (ct *CategoryTable) Rules() []MappingRule {
	if ct == nil {
		return nil
	}
	return append([]MappingRule(nil), ct.rules...)
}

// SharedNamesForUser returns the lowercased category names marked shared for
// the given user, de-duplicated, in sheet order. Returns nil when the Shared
// or User {n} column is missing, which disables category-based matching.
func (ct *CategoryTable) SharedNamesForUser(n int) []string {
	if ct.Empty() || !ct.HasSharedColumn() || !ct.HasUserColumn(n) {
		return nil
	}
	seen := make(map[string]bool)
	var names []string
	for _, rule := range ct.rules {
		if !rule.Shared {
			continue
		}
		name := strings.ToLower(strings.TrimSpace(rule.Users[n]))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

// MapTarget maps a source user's category name to the target user's category
// name. The first rule whose source cell is a non-empty, case-insensitive
// substring of sourceName decides; when its target cell is empty, or no rule
// matches, the row aliased "default" supplies the fallback. Returns false
// when no name could be produced.
func (ct *CategoryTable) MapTarget(sourceName string, sourceNum, targetNum int) (string, bool) {
	if ct.Empty() || !ct.HasUserColumn(sourceNum) || !ct.HasUserColumn(targetNum) {
		return "", false
	}

	source := strings.ToLower(strings.TrimSpace(sourceName))
	for _, rule := range ct.rules {
		cell := strings.ToLower(strings.TrimSpace(rule.Users[sourceNum]))
		if source == "" || cell == "" || !strings.Contains(source, cell) {
			continue
		}
		if mapped := strings.TrimSpace(rule.Users[targetNum]); mapped != "" {
			return mapped, true
		}
		// Only the first matching rule is considered.
		break
	}

	return ct.defaultTarget(targetNum)
}

// defaultTarget returns the target cell of the first row aliased "default".
func (ct *CategoryTable) defaultTarget(targetNum int) (string, bool) {
	if !ct.table.HasColumn(ColAlias) {
		return "", false
	}
	for _, rule := range ct.rules {
		if strings.ToLower(rule.Alias) != DefaultAlias {
			continue
		}
		if name := strings.TrimSpace(rule.Users[targetNum]); name != "" {
			return name, true
		}
		return "", false
	}
	return "", false
}

// userColumns maps user numbers to their "User {n}" headers.
func userColumns(headers []string) map[int]string {
	cols := make(map[int]string)
	for _, header := range headers {
		rest, ok := strings.CutPrefix(header, "User ")
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(rest))
		if err != nil {
			continue
		}
		cols[n] = header
	}
	return cols
}
