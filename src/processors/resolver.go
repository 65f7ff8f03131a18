package processors

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/username/stokdash/src/models"
)

// Logical column roles expected in an uploaded sales report.
const (
	roleProduk      = "Produk"
	roleStockKeluar = "Stock Keluar"
	roleStockMasuk  = "Stock Masuk"
	roleStockAkhir  = "Stock Akhir"
	roleHarga       = "Harga"
	roleValueTotal  = "Value Total"

	// Spreadsheet exports often ship their index column under this header.
	unnamedHeader = "Unnamed: 0"
)

// ErrNoIdentifierColumn is returned when no column can serve as the product
// identifier. The upload is rejected; the process stays available.
var ErrNoIdentifierColumn = errors.New("no identifier column found")

// ColumnRef points a logical role at an actual column. Index -1 means the
// role is absent and its values default to zero.
type ColumnRef struct {
	Index int
	Name  string
}

func (c ColumnRef) Present() bool { return c.Index >= 0 }

// ResolvedColumns maps every logical role onto the uploaded table.
type ResolvedColumns struct {
	Produk      ColumnRef
	StockKeluar ColumnRef
	StockMasuk  ColumnRef
	StockAkhir  ColumnRef
	Harga       ColumnRef
	ValueTotal  ColumnRef
}

// Mapping renders the resolution for the report payload.
func (r ResolvedColumns) Mapping() models.ColumnMapping {
	return models.ColumnMapping{
		Produk:      r.Produk.Name,
		StockKeluar: r.StockKeluar.Name,
		StockMasuk:  r.StockMasuk.Name,
		StockAkhir:  r.StockAkhir.Name,
		Harga:       r.Harga.Name,
		ValueTotal:  r.ValueTotal.Name,
	}
}

// ResolveColumns maps the expected logical columns onto whatever headers the
// uploaded table actually has. Numeric roles tolerate absence; the identifier
// must resolve. When no "Produk" header exists the resolver accepts an
// "Unnamed: 0" index column, then falls back to the first column whose
// non-empty cells do not all parse as numbers.
func ResolveColumns(table *models.RawTable) (ResolvedColumns, error) {
	absent := ColumnRef{Index: -1}
	resolved := ResolvedColumns{
		Produk:      absent,
		StockKeluar: absent,
		StockMasuk:  absent,
		StockAkhir:  absent,
		Harga:       absent,
		ValueTotal:  absent,
	}

	for i, h := range table.Headers {
		name := strings.TrimSpace(h)
		ref := ColumnRef{Index: i, Name: name}
		switch name {
		case roleProduk:
			if !resolved.Produk.Present() {
				resolved.Produk = ref
			}
		case roleStockKeluar:
			if !resolved.StockKeluar.Present() {
				resolved.StockKeluar = ref
			}
		case roleStockMasuk:
			if !resolved.StockMasuk.Present() {
				resolved.StockMasuk = ref
			}
		case roleStockAkhir:
			if !resolved.StockAkhir.Present() {
				resolved.StockAkhir = ref
			}
		case roleHarga:
			if !resolved.Harga.Present() {
				resolved.Harga = ref
			}
		case roleValueTotal:
			if !resolved.ValueTotal.Present() {
				resolved.ValueTotal = ref
			}
		}
	}

	if !resolved.Produk.Present() {
		for i, h := range table.Headers {
			if strings.TrimSpace(h) == unnamedHeader {
				resolved.Produk = ColumnRef{Index: i, Name: unnamedHeader}
				break
			}
		}
	}

	if !resolved.Produk.Present() && len(table.Rows) == 0 && len(table.Headers) > 0 {
		// A zero-row table has no cell values to inspect; the first column
		// serves as the identifier.
		resolved.Produk = ColumnRef{Index: 0, Name: strings.TrimSpace(table.Headers[0])}
	}

	if !resolved.Produk.Present() {
		for i := range table.Headers {
			if columnIsNumeric(table, i) {
				continue
			}
			resolved.Produk = ColumnRef{Index: i, Name: strings.TrimSpace(table.Headers[i])}
			break
		}
	}

	if !resolved.Produk.Present() {
		return ResolvedColumns{}, fmt.Errorf("%w: every column parses as numeric", ErrNoIdentifierColumn)
	}
	return resolved, nil
}

// columnIsNumeric reports whether every non-empty cell in the column parses
// as a plain number. An all-empty column counts as numeric and is skipped by
// the identifier fallback.
func columnIsNumeric(table *models.RawTable, col int) bool {
	for row := range table.Rows {
		cell := strings.TrimSpace(table.Cell(row, col))
		if cell == "" {
			continue
		}
		if _, err := strconv.ParseFloat(cell, 64); err != nil {
			return false
		}
	}
	return true
}
