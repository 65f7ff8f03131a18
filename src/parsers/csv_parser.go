package parsers

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/username/stokdash/src/models"
)

// CSVSalesParser decodes a comma-separated sales report. The first row is
// the header; ragged data rows are tolerated (short rows read as empty
// cells downstream).
type CSVSalesParser struct{}

func NewCSVSalesParser() *CSVSalesParser { return &CSVSalesParser{} }

func (p *CSVSalesParser) Parse(file io.Reader) (*models.RawTable, error) {
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: file is empty", ErrEmptyTable)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV records: %w", err)
	}

	return &models.RawTable{Headers: cleanHeaders(header), Rows: rows}, nil
}
