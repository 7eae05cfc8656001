package rules

import (
	"context"
	"errors"
	"testing"

	"github.com/dvloznov/budget-share/internal/domain"
)

type fakeRowSource struct {
	values [][]string
	err    error
	calls  []string
}

func (f *fakeRowSource) Rows(ctx context.Context, spreadsheetID, rangeName string) ([][]string, error) {
	f.calls = append(f.calls, spreadsheetID+"/"+rangeName)
	if f.err != nil {
		return nil, f.err
	}
	return f.values, nil
}

func TestNewTable_ParsesHeaders(t *testing.T) {
	table := NewTable([][]string{
		{"Category", "Bucket"},
		{"Rent", "Housing"},
		{"Coffee", "Food"},
	})

	if table.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", table.Len())
	}
	headers := table.Headers()
	if len(headers) != 2 || headers[0] != "Category" || headers[1] != "Bucket" {
		t.Errorf("Headers() = %v", headers)
	}
	if got := table.Row(0)["Category"]; got != "Rent" {
		t.Errorf("Row(0)[Category] = %q, want Rent", got)
	}
}

func TestNewTable_RaggedRows(t *testing.T) {
	table := NewTable([][]string{
		{"A", "B", "C"},
		{"1"},
		{"2", "3", "4", "extra"},
	})

	if got := table.Row(0)["B"]; got != "" {
		t.Errorf("short row cell = %q, want empty", got)
	}
	if got := table.Row(1)["C"]; got != "4" {
		t.Errorf("Row(1)[C] = %q, want 4", got)
	}
}

func TestNewTable_Empty(t *testing.T) {
	if !NewTable(nil).Empty() {
		t.Error("nil values should build an empty table")
	}
	// A headers-only sheet has no data rows.
	if !NewTable([][]string{{"A", "B"}}).Empty() {
		t.Error("headers-only values should build an empty table")
	}
}

func TestTruthy(t *testing.T) {
	truthy := []string{"true", "TRUE", "1", "yes", "Y", " y "}
	for _, v := range truthy {
		if !Truthy(v) {
			t.Errorf("Truthy(%q) = false, want true", v)
		}
	}
	falsy := []string{"", "false", "0", "no", "shared", "2"}
	for _, v := range falsy {
		if Truthy(v) {
			t.Errorf("Truthy(%q) = true, want false", v)
		}
	}
}

func TestLoadCategoryTable(t *testing.T) {
	src := &fakeRowSource{values: [][]string{
		{"Alias", "Shared", "User 1", "User 2"},
		{"", "true", "Rent", "Rent"},
	}}

	ct, err := LoadCategoryTable(context.Background(), src, "sheet-123")
	if err != nil {
		t.Fatalf("LoadCategoryTable() error: %v", err)
	}
	if ct.Empty() {
		t.Error("expected a non-empty table")
	}
	if len(src.calls) != 1 || src.calls[0] != "sheet-123/Category Mappings" {
		t.Errorf("calls = %v, want the Category Mappings range", src.calls)
	}
}

func TestLoadCategoryTable_EmptySheet(t *testing.T) {
	src := &fakeRowSource{}

	ct, err := LoadCategoryTable(context.Background(), src, "sheet-123")
	if err != nil {
		t.Fatalf("LoadCategoryTable() error: %v", err)
	}
	if !ct.Empty() {
		t.Error("expected an empty table")
	}
}

func TestLoadCategoryTable_SourceError(t *testing.T) {
	src := &fakeRowSource{err: errors.New("boom")}

	if _, err := LoadCategoryTable(context.Background(), src, "sheet-123"); err == nil {
		t.Error("expected the source error to propagate")
	}
}

func TestSharedNamesForUser(t *testing.T) {
	ct := NewCategoryTable([][]string{
		{"User 1", "User 2", "Shared"},
		{"Rent", "Groceries", "TRUE"},
		{"Coffee", "Rent", "false"},
		{"Fuel", "Gym", "true"},
	})

	user1 := ct.SharedNamesForUser(1)
	if len(user1) != 2 || user1[0] != "rent" || user1[1] != "fuel" {
		t.Errorf("SharedNamesForUser(1) = %v, want [rent fuel]", user1)
	}
	user2 := ct.SharedNamesForUser(2)
	if len(user2) != 2 || user2[0] != "groceries" || user2[1] != "gym" {
		t.Errorf("SharedNamesForUser(2) = %v, want [groceries gym]", user2)
	}
	if got := ct.SharedNamesForUser(3); got != nil {
		t.Errorf("SharedNamesForUser(3) = %v, want nil for missing column", got)
	}
}

func TestSharedNamesForUser_MissingSharedColumn(t *testing.T) {
	ct := NewCategoryTable([][]string{
		{"User 1", "User 2"},
		{"Rent", "Groceries"},
	})

	if got := ct.SharedNamesForUser(1); got != nil {
		t.Errorf("SharedNamesForUser(1) = %v, want nil", got)
	}
}

func TestMapTarget(t *testing.T) {
	ct := NewCategoryTable([][]string{
		{"Alias", "Shared", "User 1", "User 2"},
		{"", "true", "Dining", "Eating Out"},
		{"", "true", "Groceries", ""},
		{"default", "", "Misc 1", "Misc 2"},
	})

	tests := []struct {
		name     string
		source   string
		wantName string
		wantOK   bool
	}{
		{"substring of source name", "Dining Out", "Eating Out", true},
		{"case-insensitive", "DINING downtown", "Eating Out", true},
		{"empty target cell falls to default", "Groceries", "Misc 2", true},
		{"no rule matches falls to default", "Utilities", "Misc 2", true},
		{"empty source name falls to default", "", "Misc 2", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ct.MapTarget(tt.source, 1, 2)
			if ok != tt.wantOK || got != tt.wantName {
				t.Errorf("MapTarget(%q, 1, 2) = (%q, %v), want (%q, %v)",
					tt.source, got, ok, tt.wantName, tt.wantOK)
			}
		})
	}
}

func TestMapTarget_FirstMatchingRuleWins(t *testing.T) {
	ct := NewCategoryTable([][]string{
		{"Alias", "Shared", "User 1", "User 2"},
		{"", "true", "Co", "First"},
		{"", "true", "Coffee", "Second"},
	})

	got, ok := ct.MapTarget("Coffee Shop", 1, 2)
	if !ok || got != "First" {
		t.Errorf("MapTarget() = (%q, %v), want (First, true)", got, ok)
	}
}

func TestMapTarget_NoDefault(t *testing.T) {
	ct := NewCategoryTable([][]string{
		{"Alias", "Shared", "User 1", "User 2"},
		{"", "true", "Dining", "Eating Out"},
	})

	if got, ok := ct.MapTarget("Utilities", 1, 2); ok {
		t.Errorf("MapTarget() = (%q, true), want no match", got)
	}
}

func TestMapTarget_MissingUserColumn(t *testing.T) {
	ct := NewCategoryTable([][]string{
		{"Alias", "Shared", "User 1", "User 2"},
		{"default", "", "Misc 1", "Misc 2"},
	})

	// Even the default cannot apply without both user columns.
	if got, ok := ct.MapTarget("Rent", 1, 3); ok {
		t.Errorf("MapTarget() = (%q, true), want no match", got)
	}
}

func TestNewSettingsTable(t *testing.T) {
	st, err := NewSettingsTable(context.Background(), [][]string{
		{"User Number", "Budget Name", "Shared Flag", "To Share Flag", "Shared Account", "Share Percentage"},
		{"1", "Alice Budget", "purple", "blue", "Joint", "0.5"},
		{"2.0", "Bob Budget", "orange", "green", "Joint", "0.4"},
		{"x", "Bad Row", "", "", "", ""},
		{"1", "Duplicate", "", "", "", ""},
	})
	if err != nil {
		t.Fatalf("NewSettingsTable() error: %v", err)
	}

	if got := len(st.Users()); got != 2 {
		t.Fatalf("Users() count = %d, want 2", got)
	}

	alice, ok := st.ByUser(1)
	if !ok {
		t.Fatal("ByUser(1) not found")
	}
	if alice.BudgetName != "Alice Budget" {
		t.Errorf("ByUser(1).BudgetName = %q, want the first row kept", alice.BudgetName)
	}

	bob, ok := st.ByUser(2)
	if !ok {
		t.Fatal("ByUser(2) not found: fractional-zero user numbers should parse")
	}
	if bob.SharedFlag != "orange" {
		t.Errorf("ByUser(2).SharedFlag = %q, want orange", bob.SharedFlag)
	}

	if _, ok := st.ByUser(3); ok {
		t.Error("ByUser(3) should not exist")
	}
}

func TestNewSettingsTable_MissingUserNumberColumn(t *testing.T) {
	_, err := NewSettingsTable(context.Background(), [][]string{
		{"Budget Name", "Shared Flag"},
		{"Alice Budget", "purple"},
	})
	if !errors.Is(err, domain.ErrConfigMissing) {
		t.Errorf("error = %v, want ErrConfigMissing", err)
	}
}

func TestNewSettingsTable_EmptySheet(t *testing.T) {
	st, err := NewSettingsTable(context.Background(), nil)
	if err != nil {
		t.Fatalf("NewSettingsTable() error: %v", err)
	}
	if !st.Empty() {
		t.Error("expected an empty table")
	}
}

func TestSharePct(t *testing.T) {
	tests := []struct {
		name    string
		cell    string
		want    float64
		wantErr bool
	}{
		{"fraction", "0.5", 0.5, false},
		{"zero is explicit", "0", 0, false},
		{"empty defaults with error", "", 0, true},
		{"garbage defaults with error", "half", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Settings{UserNumber: 1, SharePercentage: tt.cell}
			got, err := s.SharePct()
			if (err != nil) != tt.wantErr {
				t.Fatalf("SharePct() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("SharePct() = %v, want %v", got, tt.want)
			}
		})
	}
}
