package share

import (
	"cloud.google.com/go/civil"

	"github.com/dvloznov/budget-share/internal/domain"
	"github.com/dvloznov/budget-share/internal/ynab"
)

// Reconcile actions reported in UpsertResult.
const (
	ActionUpdate = "update"
	ActionCreate = "create"
)

// RecordCategory is one category line of a derived record. Amounts are
// floats because scaling by a share fraction produces fractional milliunits;
// truncation to the provider's integer type happens only when a create body
// is built.
type RecordCategory struct {
	CategoryName string  `json:"category_name"`
	CategoryID   string  `json:"category_id,omitempty"`
	Amount       float64 `json:"amount"`
	Memo         string  `json:"memo"`
	Deleted      bool    `json:"deleted"`
}

// Record is a transaction tagged with the budget and user it belongs to.
// Originals keep their provider id; synthesized source/target records carry
// no id and no flag until reconciliation assigns one.
type Record struct {
	ID          string           `json:"id,omitempty"`
	Date        civil.Date       `json:"date"`
	TotalAmount float64          `json:"total_amount"`
	Cleared     string           `json:"cleared,omitempty"`
	Approved    bool             `json:"approved"`
	PayeeName   string           `json:"payee_name,omitempty"`
	AccountName string           `json:"account_name"`
	AccountID   string           `json:"account_id,omitempty"`
	FlagColor   string           `json:"flag_color,omitempty"`
	Memo        string           `json:"memo,omitempty"`
	Deleted     bool             `json:"deleted"`
	BudgetID    string           `json:"budget_id"`
	UserNum     int              `json:"user_num"`
	Categories  []RecordCategory `json:"categories"`
}

// NewRecord tags a normalized transaction with the budget and user it came
// from.
func NewRecord(tx domain.Transaction, user domain.UserRef) Record {
	rec := Record{
		ID:          tx.ID,
		Date:        tx.Date,
		Approved:    tx.Approved,
		PayeeName:   tx.PayeeName,
		AccountName: tx.AccountName,
		FlagColor:   tx.FlagColor,
		Deleted:     tx.Deleted,
		BudgetID:    user.BudgetID,
		UserNum:     user.UserNum,
	}
	if tx.TotalAmount != nil {
		rec.TotalAmount = float64(*tx.TotalAmount)
	}
	if tx.Cleared != nil {
		rec.Cleared = *tx.Cleared
	}
	for _, cat := range tx.Categories {
		line := RecordCategory{
			CategoryName: cat.CategoryName,
			Memo:         cat.Memo,
			Deleted:      cat.Deleted,
		}
		if cat.Amount != nil {
			line.Amount = float64(*cat.Amount)
		}
		rec.Categories = append(rec.Categories, line)
	}
	return rec
}

// SplitGroup bundles the records derived from one shared transaction: the
// original (re-flagged on reconcile so later runs skip it), an optional
// synthesized source-side debit, and the synthesized target-side record.
type SplitGroup struct {
	Original Record  `json:"original"`
	Source   *Record `json:"source"`
	Target   Record  `json:"target"`
}

// Flatten returns the group's records in reconcile order: the original
// first, then the synthesized rows.
func (g SplitGroup) Flatten() []Record {
	records := []Record{g.Original}
	if g.Source != nil {
		records = append(records, *g.Source)
	}
	return append(records, g.Target)
}

// UserShared is one user's share-relevant transactions for a feed window.
type UserShared struct {
	User         domain.UserRef       `json:"user"`
	Transactions []domain.Transaction `json:"shared_transactions"`
}

// UpsertResult reports one successful reconcile action.
type UpsertResult struct {
	Action        string                         `json:"action"`
	BudgetID      string                         `json:"budget_id"`
	TransactionID string                         `json:"transaction_id,omitempty"`
	Response      *ynab.SaveTransactionsResponse `json:"response,omitempty"`
}
