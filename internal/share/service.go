package share

import (
	"context"
	"fmt"
	"sync"
	"time"

	"cloud.google.com/go/civil"

	"github.com/dvloznov/budget-share/internal/domain"
	"github.com/dvloznov/budget-share/internal/logger"
	"github.com/dvloznov/budget-share/internal/rules"
)

// defaultLookbackDays is how far back the feed window reaches when the
// caller does not name a start date.
const defaultLookbackDays = 7

// DefaultSince returns the default feed window start relative to now.
func DefaultSince(now time.Time) civil.Date {
	return civil.DateOf(now.AddDate(0, 0, -defaultLookbackDays))
}

// Service runs the full collect, split and reconcile cycle against loaded
// rule tables and a budgeting client.
type Service struct {
	Budgets  BudgetService
	Cats     *rules.CategoryTable
	Settings *rules.SettingsTable

	// Workers bounds concurrent pair splits; zero or negative means one.
	Workers int
}

// CollectShared fetches every configured user's transaction feed since the
// given date and filters it down to their share-relevant transactions. A
// feed or budget-resolution failure aborts the collection; a partial roster
// would silently drop splits.
func (s *Service) CollectShared(ctx context.Context, since civil.Date) ([]UserShared, error) {
	log := logger.FromContext(ctx)

	var users []UserShared
	for _, settings := range s.Settings.Users() {
		budgetID, err := s.Budgets.BudgetIDByName(ctx, settings.BudgetName)
		if err != nil {
			return nil, fmt.Errorf("resolve budget for user %d: %w", settings.UserNumber, err)
		}
		txs, err := s.Budgets.Transactions(ctx, budgetID, since)
		if err != nil {
			return nil, fmt.Errorf("transactions for user %d: %w", settings.UserNumber, err)
		}
		shared, err := FilterSharedTransactions(ctx, txs, settings.UserNumber, s.Cats, s.Settings)
		if err != nil {
			return nil, err
		}

		log.Info().
			Int("user_num", settings.UserNumber).
			Str("budget_id", budgetID).
			Int("fetched", len(txs)).
			Int("shared", len(shared)).
			Msg("Collected shared transactions")

		users = append(users, UserShared{
			User:         domain.UserRef{UserNum: settings.UserNumber, BudgetID: budgetID},
			Transactions: shared,
		})
	}
	return users, nil
}

// SplitAll derives split groups for every ordered pair of users. Pair
// failures do not stop other pairs; they are joined into the returned error
// alongside whatever groups did get built.
func (s *Service) SplitAll(ctx context.Context, users []UserShared) ([]SplitGroup, error) {
	var (
		mu     sync.Mutex
		groups []SplitGroup
	)

	err := RunPairs(ctx, EnumeratePairs(users), s.Workers, func(ctx context.Context, pair Pair) error {
		grouped, err := SplitBetweenUsers(ctx, pair.Source.Transactions, pair.Source.User, pair.Target.User, s.Cats, s.Settings, s.Budgets)
		if err != nil {
			return fmt.Errorf("split user %d into user %d: %w", pair.Source.User.UserNum, pair.Target.User.UserNum, err)
		}

		logger.FromContext(ctx).Info().
			Int("source_user", pair.Source.User.UserNum).
			Int("target_user", pair.Target.User.UserNum).
			Int("source_records", countSourceRecords(grouped)).
			Int("target_records", len(grouped)).
			Msg("Split pair")

		mu.Lock()
		groups = append(groups, grouped...)
		mu.Unlock()
		return nil
	})
	return groups, err
}

// Reconcile flattens the groups and upserts every record: originals get
// re-flagged, synthesized records get created.
func (s *Service) Reconcile(ctx context.Context, groups []SplitGroup) []UpsertResult {
	var records []Record
	for _, group := range groups {
		records = append(records, group.Flatten()...)
	}
	return UpsertSharedTransactions(ctx, records, s.Settings, s.Budgets)
}

func countSourceRecords(groups []SplitGroup) int {
	var n int
	for _, g := range groups {
		if g.Source != nil {
			n++
		}
	}
	return n
}
