package share

import (
	"context"
	"fmt"
	"strings"

	"github.com/dvloznov/budget-share/internal/domain"
	"github.com/dvloznov/budget-share/internal/logger"
	"github.com/dvloznov/budget-share/internal/match"
	"github.com/dvloznov/budget-share/internal/rules"
	"github.com/dvloznov/budget-share/internal/ynab"
)

// SplitBetweenUsers derives the records that settle the given shared
// transactions between a source and a target user.
//
// Transactions already flagged with the source user's Shared Flag are
// skipped. For the rest the engine synthesizes a source-side debit on the
// source's shared account (amounts scaled by -share percentage) and a
// target-side record on the target's shared account with category names
// mapped through the rule table. When a transaction already lives on the
// source's shared account, no source record is emitted and the target
// mirrors the original sign-flipped. Account lookup failures skip the single
// affected transaction; unresolvable categories are dropped individually.
func SplitBetweenUsers(ctx context.Context, txs []domain.Transaction, source, target domain.UserRef, cats *rules.CategoryTable, settings *rules.SettingsTable, budgets BudgetReader) ([]SplitGroup, error) {
	log := logger.FromContext(ctx)
	log.Debug().
		Int("source_user", source.UserNum).
		Int("target_user", target.UserNum).
		Int("transactions", len(txs)).
		Msg("Splitting transactions between users")

	sourceRow, ok := settings.ByUser(source.UserNum)
	if !ok {
		return nil, fmt.Errorf("no user settings for user %d: %w", source.UserNum, domain.ErrUserNotFound)
	}
	targetRow, ok := settings.ByUser(target.UserNum)
	if !ok {
		return nil, fmt.Errorf("no user settings for user %d: %w", target.UserNum, domain.ErrUserNotFound)
	}

	sharedFlag := strings.ToLower(sourceRow.SharedFlag)
	sharedPct, err := targetRow.SharePct()
	if err != nil {
		log.Warn().Err(err).
			Int("target_user", target.UserNum).
			Msg("Share percentage unusable; splitting at 0")
		sharedPct = 0
	}
	sourceShared := sourceRow.SharedAccount
	targetShared := targetRow.SharedAccount

	// One account list and one flattened category list per budget; every
	// name lookup below resolves against these.
	sourceAccounts, err := budgets.Accounts(ctx, source.BudgetID)
	if err != nil {
		return nil, fmt.Errorf("accounts for budget %s: %w", source.BudgetID, err)
	}
	targetAccounts, err := budgets.Accounts(ctx, target.BudgetID)
	if err != nil {
		return nil, fmt.Errorf("accounts for budget %s: %w", target.BudgetID, err)
	}
	sourceCategories, err := budgets.Categories(ctx, source.BudgetID)
	if err != nil {
		return nil, fmt.Errorf("categories for budget %s: %w", source.BudgetID, err)
	}
	targetCategories, err := budgets.Categories(ctx, target.BudgetID)
	if err != nil {
		return nil, fmt.Errorf("categories for budget %s: %w", target.BudgetID, err)
	}

	sourceAccountEntries := accountEntries(sourceAccounts)
	targetAccountEntries := accountEntries(targetAccounts)
	sourceCatalog := categoryEntries(sourceCategories)
	targetCatalog := categoryEntries(targetCategories)

	mapTargetName := func(name string) (string, bool) {
		return cats.MapTarget(name, source.UserNum, target.UserNum)
	}

	var groups []SplitGroup
	for _, tx := range txs {
		flag := strings.ToLower(strings.TrimSpace(tx.FlagColor))
		if sharedFlag != "" && flag == sharedFlag {
			log.Debug().Str("id", tx.ID).Msg("Skipping transaction already split")
			continue
		}

		// A transaction already on the shared account needs no mirrored
		// source-side debit.
		skipSource := containsFold(tx.AccountName, sourceShared)

		var sourceAccountID string
		if !skipSource {
			id, err := match.ResolveID(sourceAccountEntries, sourceShared)
			if err != nil {
				log.Warn().Err(err).
					Str("account", sourceShared).
					Str("id", tx.ID).
					Msg("Skipping transaction; source shared account not resolvable")
				continue
			}
			sourceAccountID = id
		}
		targetAccountID, err := match.ResolveID(targetAccountEntries, targetShared)
		if err != nil {
			log.Warn().Err(err).
				Str("account", targetShared).
				Str("id", tx.ID).
				Msg("Skipping transaction; target shared account not resolvable")
			continue
		}

		var sourceRecord *Record
		if !skipSource {
			lines := buildRecordCategories(ctx, tx.Categories, sourceCatalog, keepName, -sharedPct)
			rec := synthesizeRecord(tx, source, sourceShared, sourceAccountID, lines)
			sourceRecord = &rec
		}

		targetMultiplier := sharedPct
		if skipSource {
			targetMultiplier = -1.0
		}
		targetLines := buildRecordCategories(ctx, tx.Categories, targetCatalog, mapTargetName, targetMultiplier)

		groups = append(groups, SplitGroup{
			Original: NewRecord(tx, source),
			Source:   sourceRecord,
			Target:   synthesizeRecord(tx, target, targetShared, targetAccountID, targetLines),
		})
	}

	return groups, nil
}

// synthesizeRecord derives a new, not-yet-created record from tx: same date
// and payee, no id, no flag, the side's shared account, and the built
// category lines with their summed total.
func synthesizeRecord(tx domain.Transaction, user domain.UserRef, accountName, accountID string, lines []RecordCategory) Record {
	rec := NewRecord(tx, user)
	rec.ID = ""
	rec.FlagColor = ""
	rec.AccountName = accountName
	rec.AccountID = accountID
	rec.Categories = lines

	var total float64
	for _, line := range lines {
		total += line.Amount
	}
	rec.TotalAmount = total
	return rec
}

// buildRecordCategories constructs one side's category lines: names mapped
// through mapName, amounts scaled by multiplier, ids resolved against the
// side's category catalog. Lines whose mapped name is empty or unresolvable
// are dropped.
func buildRecordCategories(ctx context.Context, entries []domain.CategoryEntry, catalog []match.Entry, mapName func(string) (string, bool), multiplier float64) []RecordCategory {
	log := logger.FromContext(ctx)

	var built []RecordCategory
	for _, cat := range entries {
		name := strings.TrimSpace(cat.CategoryName)
		if name == "" {
			continue
		}
		mapped, ok := mapName(name)
		if !ok {
			continue
		}
		id, err := match.ResolveID(catalog, mapped)
		if err != nil {
			log.Debug().Err(err).Str("category", mapped).Msg("Dropping unresolvable category")
			continue
		}
		var amount float64
		if cat.Amount != nil {
			amount = float64(*cat.Amount)
		}
		built = append(built, RecordCategory{
			CategoryName: mapped,
			CategoryID:   id,
			Amount:       amount * multiplier,
			Memo:         cat.Memo,
			Deleted:      cat.Deleted,
		})
	}
	return built
}

// keepName is the identity mapping used for the source side, which keeps its
// own category names.
func keepName(name string) (string, bool) {
	return name, true
}

// containsFold reports whether needle is a non-empty, case-insensitive
// substring of haystack after trimming.
func containsFold(haystack, needle string) bool {
	h := strings.ToLower(strings.TrimSpace(haystack))
	n := strings.ToLower(strings.TrimSpace(needle))
	return h != "" && n != "" && strings.Contains(h, n)
}

func accountEntries(accounts []ynab.Account) []match.Entry {
	entries := make([]match.Entry, 0, len(accounts))
	for _, a := range accounts {
		entries = append(entries, match.Entry{ID: a.ID, Name: a.Name})
	}
	return entries
}

func categoryEntries(categories []ynab.Category) []match.Entry {
	entries := make([]match.Entry, 0, len(categories))
	for _, c := range categories {
		entries = append(entries, match.Entry{ID: c.ID, Name: c.Name})
	}
	return entries
}
