package processors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/stokdash/src/models"
)

func TestProcessDerivesValueFromStockAndPrice(t *testing.T) {
	table := &models.RawTable{
		Headers: []string{"Produk", "Stock Keluar", "Harga"},
		Rows: [][]string{
			{"A", "10", "Rp1.000"},
			{"B", "0", "Rp500"},
		},
	}

	report, err := NewRecordProcessor().Process(table)
	require.NoError(t, err)

	require.Equal(t, 2, report.RowCount)
	require.Len(t, report.Records, 2)

	// Records are sorted by stock out, highest first.
	assert.Equal(t, "A", report.Records[0].Produk)
	assert.Equal(t, float64(10000), report.Records[0].ValueNum)
	assert.Equal(t, "B", report.Records[1].Produk)
	assert.Equal(t, float64(0), report.Records[1].ValueNum)

	assert.Equal(t, float64(10000), report.Aggregates.TotalValue)
	assert.Equal(t, float64(10), report.Aggregates.TotalStockKeluar)
	assert.Equal(t, []string{"B"}, report.Aggregates.ZeroMovers)
	assert.Empty(t, report.Aggregates.MinusMovers)
}

func TestProcessValueTotalBranches(t *testing.T) {
	tests := []struct {
		name       string
		valueCell  string
		stock      string
		harga      string
		wantValue  float64
		wantRawSet bool
	}{
		{"populated cell wins", "Rp50.000", "10", "Rp1.000", 50000, true},
		{"populated zero cell still wins", "0", "10", "Rp1.000", 0, true},
		{"unparseable cell normalizes to zero and wins", "n/a", "10", "Rp1.000", 0, true},
		{"blank cell falls back to derivation", "", "10", "Rp1.000", 10000, false},
		{"whitespace cell falls back to derivation", "   ", "10", "Rp1.000", 10000, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := &models.RawTable{
				Headers: []string{"Produk", "Stock Keluar", "Harga", "Value Total"},
				Rows:    [][]string{{"X", tt.stock, tt.harga, tt.valueCell}},
			}

			report, err := NewRecordProcessor().Process(table)
			require.NoError(t, err)
			require.Len(t, report.Records, 1)

			rec := report.Records[0]
			assert.Equal(t, tt.wantValue, rec.ValueNum)
			if tt.wantRawSet {
				assert.Equal(t, tt.valueCell, rec.ValueTotal)
			} else {
				assert.Empty(t, rec.ValueTotal)
			}
		})
	}
}

func TestProcessAbsentValueTotalColumn(t *testing.T) {
	table := &models.RawTable{
		Headers: []string{"Produk", "Stock Keluar", "Harga"},
		Rows:    [][]string{{"A", "4", "Rp2.500"}},
	}

	report, err := NewRecordProcessor().Process(table)
	require.NoError(t, err)
	assert.Equal(t, float64(10000), report.Records[0].ValueNum)
	assert.Empty(t, report.Records[0].ValueTotal)
}

func TestProcessAbsentColumnsDefaultToZero(t *testing.T) {
	table := &models.RawTable{
		Headers: []string{"Produk"},
		Rows:    [][]string{{"Solo"}},
	}

	report, err := NewRecordProcessor().Process(table)
	require.NoError(t, err)

	rec := report.Records[0]
	assert.Equal(t, "Solo", rec.Produk)
	assert.Zero(t, rec.StockKeluar)
	assert.Zero(t, rec.StockMasuk)
	assert.Zero(t, rec.StockAkhir)
	assert.Zero(t, rec.HargaNum)
	assert.Zero(t, rec.ValueNum)
	assert.Empty(t, rec.Harga)
}

func TestProcessBlankIdentifierUsesRowPosition(t *testing.T) {
	table := &models.RawTable{
		Headers: []string{"Produk", "Stock Keluar"},
		Rows: [][]string{
			{"Kopi", "1"},
			{"", "2"},
			{"   ", "3"},
		},
	}

	report, err := NewRecordProcessor().Process(table)
	require.NoError(t, err)

	produk := make([]string, 0, len(report.Records))
	for _, rec := range report.Records {
		produk = append(produk, rec.Produk)
	}
	// Rows 2 and 3 had blank identifiers; they carry their 1-based position.
	assert.ElementsMatch(t, []string{"Kopi", "2", "3"}, produk)
}

func TestProcessSanitizesFormulaIdentifier(t *testing.T) {
	table := &models.RawTable{
		Headers: []string{"Produk", "Stock Keluar"},
		Rows:    [][]string{{"=SUM(A1:A9)", "1"}},
	}

	report, err := NewRecordProcessor().Process(table)
	require.NoError(t, err)
	assert.Equal(t, "'=SUM(A1:A9)", report.Records[0].Produk)
}

func TestProcessShortRowsReadAsEmptyCells(t *testing.T) {
	table := &models.RawTable{
		Headers: []string{"Produk", "Stock Keluar", "Harga"},
		Rows: [][]string{
			{"A", "2", "Rp100"},
			{"B"}, // ragged row, missing both numeric cells
		},
	}

	report, err := NewRecordProcessor().Process(table)
	require.NoError(t, err)

	var b models.CleanedRecord
	for _, rec := range report.Records {
		if rec.Produk == "B" {
			b = rec
		}
	}
	assert.Zero(t, b.StockKeluar)
	assert.Zero(t, b.HargaNum)
	assert.Zero(t, b.ValueNum)
}

func TestProcessSortsByStockKeluarDescending(t *testing.T) {
	table := &models.RawTable{
		Headers: []string{"Produk", "Stock Keluar"},
		Rows: [][]string{
			{"low", "1"},
			{"high", "9"},
			{"mid", "5"},
		},
	}

	report, err := NewRecordProcessor().Process(table)
	require.NoError(t, err)

	got := []string{report.Records[0].Produk, report.Records[1].Produk, report.Records[2].Produk}
	assert.Equal(t, []string{"high", "mid", "low"}, got)
}

func TestProcessAggregatesKeepInputOrder(t *testing.T) {
	// Sorting the records must not reorder the mover lists.
	table := &models.RawTable{
		Headers: []string{"Produk", "Stock Keluar"},
		Rows: [][]string{
			{"zzz", "0"},
			{"aaa", "0"},
			{"neg", "-2"},
			{"pos", "7"},
		},
	}

	report, err := NewRecordProcessor().Process(table)
	require.NoError(t, err)
	assert.Equal(t, []string{"zzz", "aaa"}, report.Aggregates.ZeroMovers)
	assert.Equal(t, []string{"neg"}, report.Aggregates.MinusMovers)
}

func TestProcessZeroRowTable(t *testing.T) {
	table := &models.RawTable{
		Headers: []string{"Qty", "Harga"},
	}

	report, err := NewRecordProcessor().Process(table)
	require.NoError(t, err)
	assert.Zero(t, report.RowCount)
	assert.Empty(t, report.Records)
	assert.Equal(t, []string{}, report.Aggregates.ZeroMovers)
	assert.Zero(t, report.Aggregates.TotalValue)
}

func TestAggregateDedupesMovers(t *testing.T) {
	records := []models.CleanedRecord{
		{Produk: "A", StockKeluar: 0},
		{Produk: "A", StockKeluar: 0},
		{Produk: "B", StockKeluar: -1, ValueNum: -100},
		{Produk: "B", StockKeluar: -1, ValueNum: -100},
	}

	agg := Aggregate(records)
	assert.Equal(t, []string{"A"}, agg.ZeroMovers)
	assert.Equal(t, []string{"B"}, agg.MinusMovers)
	assert.Equal(t, float64(-2), agg.TotalStockKeluar)
	assert.Equal(t, float64(-200), agg.TotalValue)
}

func TestAggregateNegativeValueOnlyIsMinusMover(t *testing.T) {
	records := []models.CleanedRecord{
		{Produk: "refund", StockKeluar: 2, ValueNum: -5000},
	}

	agg := Aggregate(records)
	assert.Equal(t, []string{"refund"}, agg.MinusMovers)
	assert.Empty(t, agg.ZeroMovers)
}

func TestAggregateIsIdempotent(t *testing.T) {
	records := []models.CleanedRecord{
		{Produk: "A", StockKeluar: 3, StockMasuk: 1, ValueNum: 300},
		{Produk: "B", StockKeluar: 0, ValueNum: 0},
	}

	first := Aggregate(records)
	second := Aggregate(records)
	assert.Equal(t, first, second)
}

func TestProcessNoIdentifierColumn(t *testing.T) {
	table := &models.RawTable{
		Headers: []string{"Qty", "Total"},
		Rows:    [][]string{{"1", "100"}},
	}

	_, err := NewRecordProcessor().Process(table)
	assert.ErrorIs(t, err, ErrNoIdentifierColumn)
}
