package sheets

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Workbook reads rule tables from a local .xlsx file. Range names map
// to sheet names and the spreadsheet ID is ignored, so a workbook can
// stand in for the hosted spreadsheet during local runs.
type Workbook struct {
	path string
}

// NewWorkbook returns a row source backed by the workbook at path.
func NewWorkbook(path string) *Workbook {
	return &Workbook{path: path}
}

// Rows reads every row of the named sheet.
func (w *Workbook) Rows(_ context.Context, _ string, rangeName string) ([][]string, error) {
	f, err := excelize.OpenFile(w.path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", w.path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(rangeName)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", rangeName, err)
	}
	return rows, nil
}
