package ynab

import (
	"fmt"
	"strings"
	"unicode"

	"cloud.google.com/go/civil"

	"github.com/dvloznov/budget-share/internal/domain"
)

// splitSentinel is the synthetic category name the provider assigns to the
// parent of a split transaction. It carries no information, so normalization
// excludes it.
const splitSentinel = "split"

// Normalize maps a raw provider transaction into the canonical domain shape.
// Category entries come from subtransactions when present, otherwise from the
// transaction's own category fields; entries named after the split sentinel
// or whose cleaned name is empty are omitted. An unparseable date returns an
// error wrapping domain.ErrNormalization.
func Normalize(raw TransactionDetail) (domain.Transaction, error) {
	date, err := civil.ParseDate(raw.Date)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("transaction %q has unparseable date %q: %w",
			raw.ID, raw.Date, domain.ErrNormalization)
	}

	var categories []domain.CategoryEntry
	if len(raw.Subtransactions) > 0 {
		for _, sub := range raw.Subtransactions {
			name := stripSymbols(stringValue(sub.CategoryName))
			if name == "" || strings.EqualFold(name, splitSentinel) {
				continue
			}
			categories = append(categories, domain.CategoryEntry{
				CategoryName: name,
				Amount:       sub.Amount,
				Memo:         stringValue(sub.Memo),
				Deleted:      sub.Deleted,
			})
		}
	} else {
		name := stripSymbols(stringValue(raw.CategoryName))
		if name != "" && !strings.EqualFold(name, splitSentinel) {
			categories = append(categories, domain.CategoryEntry{
				CategoryName: name,
				Amount:       raw.Amount,
				Memo:         stringValue(raw.Memo),
				Deleted:      raw.Deleted,
			})
		}
	}

	return domain.Transaction{
		ID:          raw.ID,
		Date:        date,
		TotalAmount: raw.Amount,
		Cleared:     raw.Cleared,
		Approved:    raw.Approved,
		PayeeName:   stringValue(raw.PayeeName),
		AccountName: stripSymbols(raw.AccountName),
		FlagColor:   stringValue(raw.FlagColor),
		Deleted:     raw.Deleted,
		Categories:  categories,
	}, nil
}

// stripSymbols replaces emoji and other symbol runes with spaces so adjacent
// words stay separated, then collapses whitespace runs and trims the ends.
func stripSymbols(s string) string {
	if s == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if isSymbolRune(r) {
			b.WriteRune(' ')
			continue
		}
		b.WriteRune(r)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func isSymbolRune(r rune) bool {
	switch {
	case r >= 0x10000: // astral plane: emoji and pictographs
		return true
	case r >= 0xFE00 && r <= 0xFE0F: // variation selectors
		return true
	case r == 0x200D: // zero-width joiner
		return true
	case unicode.Is(unicode.So, r): // BMP symbols such as ☕
		return true
	}
	return false
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
