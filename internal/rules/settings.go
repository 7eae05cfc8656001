package rules

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dvloznov/budget-share/internal/domain"
	"github.com/dvloznov/budget-share/internal/logger"
)

// Settings is one user's typed row of the settings table. String fields hold
// the trimmed cell values; comparisons lowercase at the point of use.
type Settings struct {
	UserNumber      int
	BudgetName      string
	SharedFlag      string
	ToShareFlag     string
	SharedAccount   string
	SharePercentage string
}

// SharePct parses the user's share fraction. Empty and malformed cells both
// default to 0 and return an error so callers can log the degenerate split
// loudly.
func (s Settings) SharePct() (float64, error) {
	raw := strings.TrimSpace(s.SharePercentage)
	if raw == "" {
		return 0, fmt.Errorf("share percentage for user %d is empty", s.UserNumber)
	}
	pct, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("share percentage %q for user %d is not numeric", raw, s.UserNumber)
	}
	return pct, nil
}

// SettingsTable is the typed view of the user settings table. Rows are keyed
// by user number; the first row wins on duplicates.
type SettingsTable struct {
	table  *Table
	users  []Settings
	byUser map[int]Settings
}

// LoadSettingsTable fetches and types the user settings table. A sheet with
// no data rows loads as an empty table. A non-empty sheet without the
// "User Number" column fails with domain.ErrConfigMissing; rows whose user
// number does not parse are skipped.
func LoadSettingsTable(ctx context.Context, src RowSource, spreadsheetID string) (*SettingsTable, error) {
	values, err := src.Rows(ctx, spreadsheetID, UserSettingsRange)
	if err != nil {
		return nil, fmt.Errorf("load %s table: %w", UserSettingsRange, err)
	}
	return NewSettingsTable(ctx, values)
}

// NewSettingsTable types pre-fetched cell values.
func NewSettingsTable(ctx context.Context, values [][]string) (*SettingsTable, error) {
	log := logger.FromContext(ctx)

	table := NewTable(values)
	st := &SettingsTable{table: table, byUser: make(map[int]Settings)}
	if table.Empty() {
		log.Warn().Msg("User settings table has no data rows")
		return st, nil
	}
	if !table.HasColumn(ColUserNumber) {
		return nil, fmt.Errorf("%s table lacks the %q column: %w",
			UserSettingsRange, ColUserNumber, domain.ErrConfigMissing)
	}

	for _, row := range table.rows {
		n, ok := parseUserNumber(row[ColUserNumber])
		if !ok {
			log.Debug().
				Str("user_number", row[ColUserNumber]).
				Msg("Skipping settings row with non-numeric user number")
			continue
		}
		if _, dup := st.byUser[n]; dup {
			log.Warn().
				Int("user_num", n).
				Msg("Duplicate user number in settings; keeping the first row")
			continue
		}
		s := Settings{
			UserNumber:      n,
			BudgetName:      strings.TrimSpace(row[ColBudgetName]),
			SharedFlag:      strings.TrimSpace(row[ColSharedFlag]),
			ToShareFlag:     strings.TrimSpace(row[ColToShareFlag]),
			SharedAccount:   strings.TrimSpace(row[ColSharedAccount]),
			SharePercentage: strings.TrimSpace(row[ColSharePercentage]),
		}
		st.byUser[n] = s
		st.users = append(st.users, s)
	}

	log.Debug().Int("users", len(st.users)).Msg("Loaded user settings")
	return st, nil
}

// Empty reports whether the table holds no usable rows.
func (st *SettingsTable) Empty() bool {
	return st == nil || len(st.users) == 0
}

// ByUser returns the settings row for a user number.
func (st *SettingsTable) ByUser(n int) (Settings, bool) {
	if st == nil {
		return Settings{}, false
	}
	s, ok := st.byUser[n]
	return s, ok
}

// Users returns every parsed settings row in sheet order.
func (st *SettingsTable) Users() []Settings {
	if st == nil {
		return nil
	}
	return append([]Settings(nil), st.users...)
}
