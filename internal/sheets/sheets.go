// Package sheets provides the row sources the rule tables are loaded
// from: the Google Sheets API for the hosted spreadsheet and a local
// .xlsx workbook for offline runs.
package sheets

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/dvloznov/budget-share/internal/domain"
)

// Client reads cell ranges from a Google Sheets spreadsheet using a
// service account.
type Client struct {
	svc *sheets.Service
}

// NewClient builds a Sheets API client authenticated with the service
// account credentials file. The system only reads rule tables, so the
// client asks for the read-only scope.
func NewClient(ctx context.Context, credentialsFile string) (*Client, error) {
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheets.SpreadsheetsReadonlyScope),
	)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return &Client{svc: svc}, nil
}

// Rows fetches the given range and flattens every cell to its string
// form. The API omits trailing empty cells, so rows come back ragged;
// table parsing pads them.
func (c *Client) Rows(ctx context.Context, spreadsheetID, rangeName string) ([][]string, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(spreadsheetID, rangeName).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get values %q: %w: %v", rangeName, domain.ErrRemoteCall, err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, 0, len(raw))
		for _, cell := range raw {
			if cell == nil {
				row = append(row, "")
				continue
			}
			row = append(row, fmt.Sprint(cell))
		}
		rows = append(rows, row)
	}
	return rows, nil
}
