package parsers

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/username/stokdash/src/models"
)

// XLSXSalesParser decodes the first worksheet of an Excel workbook into the
// same raw table shape the CSV parser produces.
type XLSXSalesParser struct{}

func NewXLSXSalesParser() *XLSXSalesParser { return &XLSXSalesParser{} }

func (p *XLSXSalesParser) Parse(file io.Reader) (*models.RawTable, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrEmptyTable)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: sheet %q has no header row", ErrEmptyTable, sheets[0])
	}

	return &models.RawTable{Headers: cleanHeaders(rows[0]), Rows: rows[1:]}, nil
}
