// Package ynab is a client for the budgeting service's REST API.
package ynab

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"

	"github.com/dvloznov/budget-share/internal/domain"
	"github.com/dvloznov/budget-share/internal/logger"
	"github.com/dvloznov/budget-share/internal/match"
)

// DefaultBaseURL is the production API endpoint.
const DefaultBaseURL = "https://api.ynab.com/v1"

// transactionsPageSize is the provider's fixed page size for transaction lists.
const transactionsPageSize = 200

// Client talks to the budgeting service. All methods are safe for concurrent
// use.
type Client struct {
	baseURL string
	token   string
	httpc   *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a non-default endpoint.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient substitutes the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpc = h }
}

// NewClient creates a client authenticating with the given bearer token.
func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		token:   token,
		httpc:   &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Transactions fetches every transaction on or after since, following
// pagination, and returns them normalized. Records that fail normalization
// are dropped with a warning rather than failing the whole fetch.
func (c *Client) Transactions(ctx context.Context, budgetID string, since civil.Date) ([]domain.Transaction, error) {
	log := logger.FromContext(ctx)

	var all []domain.Transaction
	var lastFirstID string
	page := 1

	for {
		query := url.Values{}
		query.Set("since_date", since.String())
		query.Set("page", strconv.Itoa(page))

		var resp transactionsResponse
		if err := c.get(ctx, fmt.Sprintf("budgets/%s/transactions", budgetID), query, &resp); err != nil {
			return nil, fmt.Errorf("fetch transactions for budget %s: %w", budgetID, err)
		}

		raws := resp.Data.Transactions
		if len(raws) == 0 {
			break
		}

		// Stop if the API ignores the page parameter to avoid looping forever.
		if lastFirstID != "" && raws[0].ID == lastFirstID {
			break
		}
		lastFirstID = raws[0].ID

		for _, raw := range raws {
			tx, err := Normalize(raw)
			if err != nil {
				log.Warn().
					Err(err).
					Str("transaction_id", raw.ID).
					Msg("Dropping transaction that failed normalization")
				continue
			}
			all = append(all, tx)
		}

		// A short page is the last page.
		if len(raws) < transactionsPageSize {
			break
		}
		page++
	}

	log.Debug().
		Str("budget_id", budgetID).
		Str("since", since.String()).
		Int("count", len(all)).
		Msg("Fetched transactions")
	return all, nil
}

// Accounts lists the accounts of a budget.
func (c *Client) Accounts(ctx context.Context, budgetID string) ([]Account, error) {
	var resp accountsResponse
	if err := c.get(ctx, fmt.Sprintf("budgets/%s/accounts", budgetID), nil, &resp); err != nil {
		return nil, fmt.Errorf("fetch accounts for budget %s: %w", budgetID, err)
	}
	return resp.Data.Accounts, nil
}

// Categories lists the categories of a budget, flattened across groups.
func (c *Client) Categories(ctx context.Context, budgetID string) ([]Category, error) {
	var resp categoriesResponse
	if err := c.get(ctx, fmt.Sprintf("budgets/%s/categories", budgetID), nil, &resp); err != nil {
		return nil, fmt.Errorf("fetch categories for budget %s: %w", budgetID, err)
	}
	var flattened []Category
	for _, group := range resp.Data.CategoryGroups {
		flattened = append(flattened, group.Categories...)
	}
	return flattened, nil
}

// Budgets lists the budgets visible to the token.
func (c *Client) Budgets(ctx context.Context) ([]BudgetSummary, error) {
	var resp budgetsResponse
	if err := c.get(ctx, "budgets", nil, &resp); err != nil {
		return nil, fmt.Errorf("fetch budgets: %w", err)
	}
	return resp.Data.Budgets, nil
}

// BudgetIDByName resolves a possibly partial budget name to its id.
func (c *Client) BudgetIDByName(ctx context.Context, name string) (string, error) {
	budgets, err := c.Budgets(ctx)
	if err != nil {
		return "", err
	}
	if len(budgets) == 0 {
		return "", fmt.Errorf("no budgets returned: %w", domain.ErrLookupUnresolved)
	}

	entries := make([]match.Entry, 0, len(budgets))
	for _, b := range budgets {
		entries = append(entries, match.Entry{ID: b.ID, Name: b.Name})
	}
	id, err := match.ResolveID(entries, name)
	if err != nil {
		return "", fmt.Errorf("budget %q: %w", name, err)
	}
	return id, nil
}

// CreateTransaction creates a transaction in the given budget.
func (c *Client) CreateTransaction(ctx context.Context, budgetID string, tx NewTransaction) (*SaveTransactionsResponse, error) {
	var resp SaveTransactionsResponse
	path := fmt.Sprintf("budgets/%s/transactions", budgetID)
	if err := c.do(ctx, http.MethodPost, path, nil, createPayload{Transaction: tx}, &resp); err != nil {
		return nil, fmt.Errorf("create transaction in budget %s: %w", budgetID, err)
	}
	return &resp, nil
}

// UpdateTransactionFlag sets the flag color of an existing transaction.
func (c *Client) UpdateTransactionFlag(ctx context.Context, budgetID, transactionID, flagColor string) (*SaveTransactionsResponse, error) {
	payload := flagUpdatePayload{
		Transactions: []flagUpdate{{ID: transactionID, FlagColor: flagColor}},
	}
	var resp SaveTransactionsResponse
	path := fmt.Sprintf("budgets/%s/transactions", budgetID)
	if err := c.do(ctx, http.MethodPatch, path, nil, payload, &resp); err != nil {
		return nil, fmt.Errorf("update flag on transaction %s: %w", transactionID, err)
	}
	return &resp, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("build %s %s request: %w", method, path, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w: %v", method, path, domain.ErrRemoteCall, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%s %s returned status %d: %s: %w",
			method, path, resp.StatusCode, strings.TrimSpace(string(data)), domain.ErrRemoteCall)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}
