package parsers

import (
	"errors"
	"io"
	"strings"

	"github.com/username/stokdash/src/models"
	"github.com/username/stokdash/src/security/validation"
)

// Source formats the factory knows how to decode.
const (
	SourceCSV  = "csv"
	SourceXLSX = "xlsx"
)

// ErrEmptyTable is returned when a file carries no header row at all.
var ErrEmptyTable = errors.New("uploaded file has no table")

// Parser decodes one uploaded report file into a raw table.
type Parser interface {
	Parse(file io.Reader) (*models.RawTable, error)
}

// cleanHeaders trims and strips unprintables (including a UTF-8 BOM) from
// every header cell so role matching works on what the user sees.
func cleanHeaders(raw []string) []string {
	headers := make([]string, len(raw))
	for i, h := range raw {
		headers[i] = strings.TrimSpace(validation.StripUnprintable(h))
	}
	return headers
}
