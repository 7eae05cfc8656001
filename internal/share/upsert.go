package share

import (
	"context"
	"strings"

	"github.com/dvloznov/budget-share/internal/logger"
	"github.com/dvloznov/budget-share/internal/rules"
	"github.com/dvloznov/budget-share/internal/ynab"
)

// UpsertSharedTransactions reconciles derived records against the budgeting
// service. Records carrying a provider id get their flag set to the owner's
// Shared Flag, which marks them as split for later runs; the rest are
// created in their budget. Per-record failures are logged and skipped so one
// bad record never fails the batch; the returned results cover only the
// records that succeeded.
func UpsertSharedTransactions(ctx context.Context, records []Record, settings *rules.SettingsTable, budgets BudgetWriter) []UpsertResult {
	log := logger.FromContext(ctx)

	var results []UpsertResult
	for _, rec := range records {
		if rec.UserNum == 0 || rec.BudgetID == "" {
			log.Debug().Str("id", rec.ID).Msg("Skipping record missing user number or budget id")
			continue
		}

		sharedFlag := sharedFlagForUser(settings, rec.UserNum)

		if rec.ID != "" {
			resp, err := budgets.UpdateTransactionFlag(ctx, rec.BudgetID, rec.ID, sharedFlag)
			if err != nil {
				log.Warn().Err(err).Str("id", rec.ID).Msg("Failed to update transaction flag")
				continue
			}
			results = append(results, UpsertResult{
				Action:        ActionUpdate,
				BudgetID:      rec.BudgetID,
				TransactionID: rec.ID,
				Response:      resp,
			})
			continue
		}

		if rec.AccountID == "" {
			log.Debug().Int("user_num", rec.UserNum).Msg("Skipping create; record has no account id")
			continue
		}

		resp, err := budgets.CreateTransaction(ctx, rec.BudgetID, newTransactionBody(rec))
		if err != nil {
			log.Warn().Err(err).Int("user_num", rec.UserNum).Msg("Failed to create transaction")
			continue
		}
		results = append(results, UpsertResult{
			Action:   ActionCreate,
			BudgetID: rec.BudgetID,
			Response: resp,
		})
	}
	return results
}

// sharedFlagForUser returns the user's Shared Flag lower-cased, or "" when
// the user has no settings row.
func sharedFlagForUser(settings *rules.SettingsTable, userNum int) string {
	s, ok := settings.ByUser(userNum)
	if !ok {
		return ""
	}
	return strings.ToLower(s.SharedFlag)
}

// newTransactionBody builds the provider create body for a record. Scaled
// amounts are truncated toward zero here, at the final cast to the
// provider's integer milliunits. A single category line collapses into the
// body itself with its memo appended; multiple lines become subtransactions.
func newTransactionBody(rec Record) ynab.NewTransaction {
	body := ynab.NewTransaction{
		AccountID: rec.AccountID,
		Date:      rec.Date.String(),
		Amount:    int64(rec.TotalAmount),
		PayeeName: rec.PayeeName,
		Memo:      rec.Memo,
	}

	if len(rec.Categories) == 1 {
		cat := rec.Categories[0]
		body.CategoryID = cat.CategoryID
		body.Memo += cat.Memo
		return body
	}
	for _, cat := range rec.Categories {
		body.Subtransactions = append(body.Subtransactions, ynab.NewSubTransaction{
			Amount:     int64(cat.Amount),
			CategoryID: cat.CategoryID,
			Memo:       cat.Memo,
		})
	}
	return body
}
