package share

import (
	"context"
	"fmt"
	"strings"

	"github.com/dvloznov/budget-share/internal/domain"
	"github.com/dvloznov/budget-share/internal/logger"
	"github.com/dvloznov/budget-share/internal/rules"
)

// FilterSharedTransactions returns the transactions relevant to the given
// user's share: those whose category names contain a category marked shared
// for that user, plus those flagged with the user's To Share Flag.
// Transactions already sitting in the user's shared account are excluded
// unless they carry the flag. Order follows the input; duplicate ids
// collapse to the first occurrence.
func FilterSharedTransactions(ctx context.Context, txs []domain.Transaction, userNum int, cats *rules.CategoryTable, settings *rules.SettingsTable) ([]domain.Transaction, error) {
	log := logger.FromContext(ctx)
	log.Debug().
		Int("user_num", userNum).
		Int("transactions", len(txs)).
		Msg("Filtering shared transactions")

	if userNum < 1 {
		return nil, fmt.Errorf("user number must be >= 1, got %d: %w", userNum, domain.ErrInvalidArgument)
	}
	if cats.Empty() && settings.Empty() {
		log.Debug().Msg("No category mappings or user settings found")
		return nil, nil
	}

	sharedNames := cats.SharedNamesForUser(userNum)

	var toShareFlag, sharedAccount string
	if s, ok := settings.ByUser(userNum); ok {
		toShareFlag = strings.ToLower(s.ToShareFlag)
		sharedAccount = strings.ToLower(s.SharedAccount)
	}

	var filtered []domain.Transaction
	seen := make(map[string]bool)
	for _, tx := range txs {
		// Shared-account transactions only count when explicitly flagged.
		if txOnSharedAccount(tx, sharedAccount) && !txMatchesFlag(tx, toShareFlag) {
			continue
		}
		if !txHasSharedCategory(tx, sharedNames) && !txMatchesFlag(tx, toShareFlag) {
			continue
		}
		if tx.ID != "" {
			if seen[tx.ID] {
				continue
			}
			seen[tx.ID] = true
		}
		filtered = append(filtered, tx)
	}
	return filtered, nil
}

// txHasSharedCategory reports whether any category name contains one of the
// user's shared category names as a substring.
func txHasSharedCategory(tx domain.Transaction, sharedNames []string) bool {
	for _, cat := range tx.Categories {
		name := strings.ToLower(strings.TrimSpace(cat.CategoryName))
		if name == "" {
			continue
		}
		for _, shared := range sharedNames {
			if strings.Contains(name, shared) {
				return true
			}
		}
	}
	return false
}

// txMatchesFlag reports whether the transaction carries the user's To Share
// Flag. An empty flag setting matches nothing.
func txMatchesFlag(tx domain.Transaction, toShareFlag string) bool {
	if toShareFlag == "" {
		return false
	}
	flag := strings.ToLower(strings.TrimSpace(tx.FlagColor))
	return flag != "" && flag == toShareFlag
}

// txOnSharedAccount reports whether the transaction's account name contains
// the user's shared account name. An empty setting matches nothing.
func txOnSharedAccount(tx domain.Transaction, sharedAccount string) bool {
	if sharedAccount == "" {
		return false
	}
	account := strings.ToLower(strings.TrimSpace(tx.AccountName))
	return account != "" && strings.Contains(account, sharedAccount)
}
