package ynab

// Wire types for the budgeting service's v1 REST API.
// Amounts are integer milliunits throughout.

// TransactionDetail is the provider's transaction read model.
type TransactionDetail struct {
	ID              string           `json:"id"`
	Date            string           `json:"date"`
	Amount          *int64           `json:"amount"`
	Memo            *string          `json:"memo"`
	Cleared         *string          `json:"cleared"`
	Approved        bool             `json:"approved"`
	FlagColor       *string          `json:"flag_color"`
	AccountID       string           `json:"account_id"`
	AccountName     string           `json:"account_name"`
	PayeeName       *string          `json:"payee_name"`
	CategoryName    *string          `json:"category_name"`
	Deleted         bool             `json:"deleted"`
	Subtransactions []SubTransaction `json:"subtransactions"`
}

// SubTransaction is one split line of a provider-side split transaction.
type SubTransaction struct {
	ID           string  `json:"id"`
	Amount       *int64  `json:"amount"`
	Memo         *string `json:"memo"`
	CategoryID   *string `json:"category_id"`
	CategoryName *string `json:"category_name"`
	Deleted      bool    `json:"deleted"`
}

// Account is one budget account.
type Account struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Closed  bool   `json:"closed"`
	Deleted bool   `json:"deleted"`
}

// Category is one budget category, flattened out of its group.
type Category struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Hidden  bool   `json:"hidden"`
	Deleted bool   `json:"deleted"`
}

// CategoryGroup is the provider's grouping of categories.
type CategoryGroup struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Categories []Category `json:"categories"`
}

// BudgetSummary is one budget as listed by GET /budgets.
type BudgetSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// NewTransaction is the create payload for POST /budgets/{id}/transactions.
type NewTransaction struct {
	AccountID       string              `json:"account_id"`
	Date            string              `json:"date"`
	Amount          int64               `json:"amount"`
	PayeeName       string              `json:"payee_name,omitempty"`
	CategoryID      string              `json:"category_id,omitempty"`
	Memo            string              `json:"memo,omitempty"`
	FlagColor       string              `json:"flag_color,omitempty"`
	Subtransactions []NewSubTransaction `json:"subtransactions,omitempty"`
}

// NewSubTransaction is one split line of a created transaction.
type NewSubTransaction struct {
	Amount     int64  `json:"amount"`
	CategoryID string `json:"category_id,omitempty"`
	Memo       string `json:"memo"`
}

// SaveTransactionsResponse is the provider's reply to transaction writes.
type SaveTransactionsResponse struct {
	Data SaveTransactionsData `json:"data"`
}

// SaveTransactionsData carries whichever result fields the provider filled in.
type SaveTransactionsData struct {
	TransactionIDs     []string            `json:"transaction_ids,omitempty"`
	Transaction        *TransactionDetail  `json:"transaction,omitempty"`
	Transactions       []TransactionDetail `json:"transactions,omitempty"`
	DuplicateImportIDs []string            `json:"duplicate_import_ids,omitempty"`
}

type transactionsResponse struct {
	Data struct {
		Transactions []TransactionDetail `json:"transactions"`
	} `json:"data"`
}

type accountsResponse struct {
	Data struct {
		Accounts []Account `json:"accounts"`
	} `json:"data"`
}

type categoriesResponse struct {
	Data struct {
		CategoryGroups []CategoryGroup `json:"category_groups"`
	} `json:"data"`
}

type budgetsResponse struct {
	Data struct {
		Budgets []BudgetSummary `json:"budgets"`
	} `json:"data"`
}

type flagUpdate struct {
	ID        string `json:"id"`
	FlagColor string `json:"flag_color"`
}

type flagUpdatePayload struct {
	Transactions []flagUpdate `json:"transactions"`
}

type createPayload struct {
	Transaction NewTransaction `json:"transaction"`
}
