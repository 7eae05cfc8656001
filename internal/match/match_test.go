package match

import (
	"errors"
	"testing"

	"github.com/dvloznov/budget-share/internal/domain"
)

func TestResolveID_Substring(t *testing.T) {
	entries := []Entry{
		{ID: "acc-1", Name: "Shared Checking"},
		{ID: "acc-2", Name: "Checking"},
		{ID: "acc-3", Name: "Savings"},
	}

	tests := []struct {
		name   string
		query  string
		wantID string
	}{
		{"case-insensitive hit", "savings", "acc-3"},
		{"partial name", "shared", "acc-1"},
		{"first hit wins in entry order", "checking", "acc-1"},
		{"surrounding whitespace trimmed", "  Savings ", "acc-3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveID(entries, tt.query)
			if err != nil {
				t.Fatalf("ResolveID(%q) error: %v", tt.query, err)
			}
			if got != tt.wantID {
				t.Errorf("ResolveID(%q) = %q, want %q", tt.query, got, tt.wantID)
			}
		})
	}
}

func TestResolveID_ClosestName(t *testing.T) {
	entries := []Entry{
		{ID: "cat-1", Name: "Groceries"},
		{ID: "cat-2", Name: "Dining Out"},
	}

	// "grocery" is not a substring of any entry but is close to "groceries".
	got, err := ResolveID(entries, "grocery")
	if err != nil {
		t.Fatalf("ResolveID() error: %v", err)
	}
	if got != "cat-1" {
		t.Errorf("ResolveID() = %q, want cat-1", got)
	}
}

func TestResolveID_ClosestNamePrefersHigherSimilarity(t *testing.T) {
	entries := []Entry{
		{ID: "cat-1", Name: "Rant"},
		{ID: "cat-2", Name: "Rent"},
	}

	got, err := ResolveID(entries, "renz")
	if err != nil {
		t.Fatalf("ResolveID() error: %v", err)
	}
	if got != "cat-2" {
		t.Errorf("ResolveID() = %q, want cat-2", got)
	}
}

func TestResolveID_Unresolved(t *testing.T) {
	entries := []Entry{
		{ID: "cat-1", Name: "Groceries"},
		{ID: "cat-2", Name: "Dining Out"},
	}

	tests := []struct {
		name  string
		query string
	}{
		{"nothing close", "utilities"},
		{"empty name", ""},
		{"whitespace only", "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResolveID(entries, tt.query)
			if !errors.Is(err, domain.ErrLookupUnresolved) {
				t.Errorf("ResolveID(%q) error = %v, want ErrLookupUnresolved", tt.query, err)
			}
		})
	}
}

func TestResolveID_NoEntries(t *testing.T) {
	if _, err := ResolveID(nil, "anything"); !errors.Is(err, domain.ErrLookupUnresolved) {
		t.Errorf("ResolveID with no entries = %v, want ErrLookupUnresolved", err)
	}
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"rent", "rent", 1},
		{"", "", 0},
		{"rent", "rant", 0.75},
	}

	for _, tt := range tests {
		if got := similarity(tt.a, tt.b); got != tt.want {
			t.Errorf("similarity(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
