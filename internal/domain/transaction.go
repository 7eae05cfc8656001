package domain

import (
	"cloud.google.com/go/civil"
)

// Transaction is the canonical transaction shape every downstream component
// consumes. It is produced by normalizing a raw budgeting-service record and
// is provider-neutral: raw provider payloads never cross this boundary.
type Transaction struct {
	ID          string          `json:"id"`           // provider id, empty for synthesized records
	Date        civil.Date      `json:"date"`         // calendar date, no time component
	TotalAmount *int64          `json:"total_amount"` // minor currency units, nil when unknown
	Cleared     *string         `json:"cleared"`      // provider-defined, passed through verbatim
	Approved    bool            `json:"approved"`
	PayeeName   string          `json:"payee_name"`
	AccountName string          `json:"account_name"` // symbol-stripped
	FlagColor   string          `json:"flag_color"`   // may be empty
	Deleted     bool            `json:"deleted"`
	Categories  []CategoryEntry `json:"categories"`
}

// CategoryEntry is one category line of a transaction. Single-category
// transactions carry exactly one entry; provider-side splits carry one
// entry per subtransaction.
type CategoryEntry struct {
	CategoryName string `json:"category_name"` // symbol-stripped, never empty
	Amount       *int64 `json:"amount"`        // minor currency units, nil when unknown
	Memo         string `json:"memo"`
	Deleted      bool   `json:"deleted"`
}

// UserRef identifies a participating user and the budget their shared
// transactions live in.
type UserRef struct {
	UserNum  int    `json:"user_num"`
	BudgetID string `json:"budget_id"`
}
