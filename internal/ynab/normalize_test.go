package ynab

import (
	"errors"
	"testing"

	"github.com/dvloznov/budget-share/internal/domain"
)

func strPtr(s string) *string { return &s }
func amtPtr(n int64) *int64   { return &n }

func TestNormalize_OwnCategory(t *testing.T) {
	raw := TransactionDetail{
		ID:           "tx-1",
		Date:         "2026-01-15",
		Amount:       amtPtr(-12340),
		Memo:         strPtr("weekly shop"),
		Cleared:      strPtr("cleared"),
		Approved:     true,
		AccountName:  "Checking",
		PayeeName:    strPtr("Local Market"),
		CategoryName: strPtr("Groceries"),
	}

	tx, err := Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize() error: %v", err)
	}

	if tx.ID != "tx-1" {
		t.Errorf("ID = %q, want tx-1", tx.ID)
	}
	if tx.Date.String() != "2026-01-15" {
		t.Errorf("Date = %s, want 2026-01-15", tx.Date)
	}
	if tx.TotalAmount == nil || *tx.TotalAmount != -12340 {
		t.Errorf("TotalAmount = %v, want -12340", tx.TotalAmount)
	}
	if tx.Cleared == nil || *tx.Cleared != "cleared" {
		t.Errorf("Cleared = %v, want cleared", tx.Cleared)
	}
	if len(tx.Categories) != 1 {
		t.Fatalf("Categories count = %d, want 1", len(tx.Categories))
	}
	cat := tx.Categories[0]
	if cat.CategoryName != "Groceries" {
		t.Errorf("CategoryName = %q, want Groceries", cat.CategoryName)
	}
	if cat.Amount == nil || *cat.Amount != -12340 {
		t.Errorf("category Amount = %v, want -12340", cat.Amount)
	}
	if cat.Memo != "weekly shop" {
		t.Errorf("category Memo = %q, want 'weekly shop'", cat.Memo)
	}
}

func TestNormalize_NilFieldsBecomeEmpty(t *testing.T) {
	raw := TransactionDetail{
		ID:           "tx-2",
		Date:         "2026-02-01",
		CategoryName: strPtr("Rent"),
	}

	tx, err := Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize() error: %v", err)
	}

	if tx.PayeeName != "" {
		t.Errorf("PayeeName = %q, want empty", tx.PayeeName)
	}
	if tx.FlagColor != "" {
		t.Errorf("FlagColor = %q, want empty", tx.FlagColor)
	}
	if tx.Cleared != nil {
		t.Errorf("Cleared = %v, want nil", tx.Cleared)
	}
	if tx.TotalAmount != nil {
		t.Errorf("TotalAmount = %v, want nil", tx.TotalAmount)
	}
	if tx.Categories[0].Memo != "" {
		t.Errorf("category Memo = %q, want empty", tx.Categories[0].Memo)
	}
}

func TestNormalize_SplitSentinelExcluded(t *testing.T) {
	tests := []struct {
		name string
		raw  TransactionDetail
	}{
		{
			name: "own category named Split",
			raw: TransactionDetail{
				ID:           "tx-3",
				Date:         "2026-01-01",
				CategoryName: strPtr("Split"),
			},
		},
		{
			name: "own category named SPLIT",
			raw: TransactionDetail{
				ID:           "tx-4",
				Date:         "2026-01-01",
				CategoryName: strPtr("SPLIT"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx, err := Normalize(tt.raw)
			if err != nil {
				t.Fatalf("Normalize() error: %v", err)
			}
			if len(tx.Categories) != 0 {
				t.Errorf("Categories count = %d, want 0", len(tx.Categories))
			}
		})
	}
}

func TestNormalize_Subtransactions(t *testing.T) {
	raw := TransactionDetail{
		ID:     "tx-5",
		Date:   "2026-03-10",
		Amount: amtPtr(-30000),
		Subtransactions: []SubTransaction{
			{CategoryName: strPtr("Dining Out"), Amount: amtPtr(-10000), Memo: strPtr("dinner")},
			{CategoryName: strPtr("Split"), Amount: amtPtr(-30000)},
			{CategoryName: nil, Amount: amtPtr(-5000)},
			{CategoryName: strPtr("Groceries"), Amount: amtPtr(-20000), Deleted: true},
		},
	}

	tx, err := Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize() error: %v", err)
	}

	if len(tx.Categories) != 2 {
		t.Fatalf("Categories count = %d, want 2", len(tx.Categories))
	}
	if tx.Categories[0].CategoryName != "Dining Out" || tx.Categories[1].CategoryName != "Groceries" {
		t.Errorf("category names = %q, %q", tx.Categories[0].CategoryName, tx.Categories[1].CategoryName)
	}
	if !tx.Categories[1].Deleted {
		t.Error("expected deleted flag preserved on second entry")
	}
	// The parent amount stays on the transaction, not the entries.
	if *tx.TotalAmount != -30000 {
		t.Errorf("TotalAmount = %d, want -30000", *tx.TotalAmount)
	}
	if *tx.Categories[0].Amount != -10000 {
		t.Errorf("first entry amount = %d, want -10000", *tx.Categories[0].Amount)
	}
}

func TestNormalize_SymbolStripping(t *testing.T) {
	tests := []struct {
		name     string
		category string
		want     string
	}{
		{"emoji between words", "Coffee☕Shop", "Coffee Shop"},
		{"astral emoji with space", "🍕 Pizza", "Pizza"},
		{"emoji with variation selector", "Travel ✈️ Fund", "Travel Fund"},
		{"plain name untouched", "Rent & Utilities", "Rent & Utilities"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := TransactionDetail{
				ID:           "tx-6",
				Date:         "2026-01-01",
				CategoryName: strPtr(tt.category),
			}
			tx, err := Normalize(raw)
			if err != nil {
				t.Fatalf("Normalize() error: %v", err)
			}
			if len(tx.Categories) != 1 {
				t.Fatalf("Categories count = %d, want 1", len(tx.Categories))
			}
			if got := tx.Categories[0].CategoryName; got != tt.want {
				t.Errorf("CategoryName = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalize_PureEmojiCategoryDropped(t *testing.T) {
	raw := TransactionDetail{
		ID:           "tx-7",
		Date:         "2026-01-01",
		CategoryName: strPtr("🎉🎉"),
	}

	tx, err := Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize() error: %v", err)
	}
	if len(tx.Categories) != 0 {
		t.Errorf("Categories count = %d, want 0", len(tx.Categories))
	}
}

func TestNormalize_AccountNameStripped(t *testing.T) {
	raw := TransactionDetail{
		ID:           "tx-8",
		Date:         "2026-01-01",
		AccountName:  "Joint 💰 Account",
		PayeeName:    strPtr("🍕 Pizza Palace"),
		CategoryName: strPtr("Dining Out"),
	}

	tx, err := Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize() error: %v", err)
	}
	if tx.AccountName != "Joint Account" {
		t.Errorf("AccountName = %q, want 'Joint Account'", tx.AccountName)
	}
	// Payee names pass through verbatim.
	if tx.PayeeName != "🍕 Pizza Palace" {
		t.Errorf("PayeeName = %q, want verbatim", tx.PayeeName)
	}
}

func TestNormalize_BadDate(t *testing.T) {
	raw := TransactionDetail{ID: "tx-9", Date: "not-a-date"}

	_, err := Normalize(raw)
	if !errors.Is(err, domain.ErrNormalization) {
		t.Errorf("Normalize() error = %v, want ErrNormalization", err)
	}
}
