package parsers

import "fmt"

// GetParser returns the decoder for an upload source format.
func GetParser(source string) (Parser, error) {
	switch source {
	case SourceCSV:
		return NewCSVSalesParser(), nil
	case SourceXLSX:
		return NewXLSXSalesParser(), nil
	default:
		return nil, fmt.Errorf("no parser available for source: %s", source)
	}
}
