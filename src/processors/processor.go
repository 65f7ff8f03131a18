package processors

import (
	"sort"
	"strconv"
	"strings"

	"github.com/username/stokdash/src/models"
	"github.com/username/stokdash/src/security/validation"
)

// RecordProcessor runs the cleaning and derivation pipeline over a raw table.
type RecordProcessor struct{}

func NewRecordProcessor() *RecordProcessor { return &RecordProcessor{} }

// Process resolves the table's columns, cleans every row and derives the
// table-level aggregates. Records come back in summary order, highest stock
// out first; aggregates keep first-seen input order.
func (p *RecordProcessor) Process(table *models.RawTable) (*models.Report, error) {
	resolved, err := ResolveColumns(table)
	if err != nil {
		return nil, err
	}

	records := make([]models.CleanedRecord, 0, len(table.Rows))
	for i := range table.Rows {
		records = append(records, p.cleanRow(table, resolved, i))
	}

	aggregates := Aggregate(records)

	sort.SliceStable(records, func(a, b int) bool {
		return records[a].StockKeluar > records[b].StockKeluar
	})

	return &models.Report{
		RowCount:   len(records),
		Columns:    resolved.Mapping(),
		Records:    records,
		Aggregates: aggregates,
	}, nil
}

// cleanRow builds the cleaned record for one input row.
func (p *RecordProcessor) cleanRow(table *models.RawTable, cols ResolvedColumns, row int) models.CleanedRecord {
	rec := models.CleanedRecord{
		Produk:      p.identifier(table, cols, row),
		StockKeluar: ParseQuantity(table.Cell(row, cols.StockKeluar.Index)),
		StockMasuk:  ParseQuantity(table.Cell(row, cols.StockMasuk.Index)),
		StockAkhir:  ParseQuantity(table.Cell(row, cols.StockAkhir.Index)),
	}

	if cols.Harga.Present() {
		rec.Harga = table.Cell(row, cols.Harga.Index)
		rec.HargaNum = NormalizeRupiah(rec.Harga)
	}

	// A non-blank Value Total cell wins, even when it normalizes to 0.
	// Blank cells (and an absent column) fall back to stock out x unit
	// price, row by row.
	if cols.ValueTotal.Present() {
		rec.ValueTotal = table.Cell(row, cols.ValueTotal.Index)
	}
	if strings.TrimSpace(rec.ValueTotal) != "" {
		rec.ValueNum = NormalizeRupiah(rec.ValueTotal)
	} else {
		rec.ValueNum = rec.StockKeluar * rec.HargaNum
	}

	return rec
}

// identifier returns the sanitized product cell, or the 1-based row position
// when the cell is blank. Every record stays addressable in the aggregates.
func (p *RecordProcessor) identifier(table *models.RawTable, cols ResolvedColumns, row int) string {
	raw := table.Cell(row, cols.Produk.Index)
	cleaned := strings.TrimSpace(validation.StripUnprintable(raw))
	if cleaned == "" {
		return strconv.Itoa(row + 1)
	}
	return validation.SanitizeForFormulaInjection(cleaned)
}

// Aggregate computes the table-level figures from cleaned records. It is
// idempotent: recomputing over the same records yields the same result.
func Aggregate(records []models.CleanedRecord) models.Aggregates {
	agg := models.Aggregates{
		ZeroMovers:  []string{},
		MinusMovers: []string{},
	}
	seenZero := make(map[string]bool)
	seenMinus := make(map[string]bool)

	for _, rec := range records {
		agg.TotalStockKeluar += rec.StockKeluar
		agg.TotalStockMasuk += rec.StockMasuk
		agg.TotalValue += rec.ValueNum

		if rec.StockKeluar == 0 && !seenZero[rec.Produk] {
			seenZero[rec.Produk] = true
			agg.ZeroMovers = append(agg.ZeroMovers, rec.Produk)
		}
		if (rec.StockKeluar < 0 || rec.ValueNum < 0) && !seenMinus[rec.Produk] {
			seenMinus[rec.Produk] = true
			agg.MinusMovers = append(agg.MinusMovers, rec.Produk)
		}
	}
	return agg
}
