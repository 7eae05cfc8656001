// Package share derives and reconciles shared transactions between users:
// it filters each user's feed down to share-relevant transactions, splits
// them across budgets per the rule tables, and upserts the derived records
// back into the budgeting service.
package share

import (
	"context"

	"cloud.google.com/go/civil"

	"github.com/dvloznov/budget-share/internal/domain"
	"github.com/dvloznov/budget-share/internal/ynab"
)

// BudgetReader lists the accounts and categories of one budget. The split
// engine fetches each list once per budget and resolves names locally, so a
// split call costs a bounded number of round trips.
type BudgetReader interface {
	Accounts(ctx context.Context, budgetID string) ([]ynab.Account, error)
	Categories(ctx context.Context, budgetID string) ([]ynab.Category, error)
}

// BudgetWriter creates transactions and re-flags existing ones.
type BudgetWriter interface {
	CreateTransaction(ctx context.Context, budgetID string, tx ynab.NewTransaction) (*ynab.SaveTransactionsResponse, error)
	UpdateTransactionFlag(ctx context.Context, budgetID, transactionID, flagColor string) (*ynab.SaveTransactionsResponse, error)
}

// BudgetService is the full provider surface the service layer drives: both
// halves plus the transaction feed and budget resolution.
type BudgetService interface {
	BudgetReader
	BudgetWriter
	Transactions(ctx context.Context, budgetID string, since civil.Date) ([]domain.Transaction, error)
	BudgetIDByName(ctx context.Context, name string) (string, error)
}
