package models

import "time"

// RawTable is the untyped tabular content of an uploaded report file.
// Column order is preserved; it drives the identifier fallback.
type RawTable struct {
	Headers []string
	Rows    [][]string
}

// Cell returns the value at (row, col), tolerating short rows.
func (t *RawTable) Cell(row, col int) string {
	if col < 0 || row < 0 || row >= len(t.Rows) {
		return ""
	}
	r := t.Rows[row]
	if col >= len(r) {
		return ""
	}
	return r[col]
}

// CleanedRecord is one sales row after normalization and derivation.
type CleanedRecord struct {
	Produk      string  `json:"produk"`       // product identifier, never empty
	StockKeluar float64 `json:"stock_keluar"` // units sold out
	StockMasuk  float64 `json:"stock_masuk"`  // units received
	StockAkhir  float64 `json:"stock_akhir"`  // ending stock
	Harga       string  `json:"harga"`        // raw price cell as uploaded
	HargaNum    float64 `json:"harga_num"`    // normalized unit price
	ValueTotal  string  `json:"value_total"`  // raw total cell, "" when the column is absent
	ValueNum    float64 `json:"value_num"`    // parsed total, or stock keluar x harga
}

// ColumnMapping reports which uploaded header filled each logical role.
// An empty string means the role was absent and its values defaulted.
type ColumnMapping struct {
	Produk      string `json:"produk"`
	StockKeluar string `json:"stock_keluar"`
	StockMasuk  string `json:"stock_masuk"`
	StockAkhir  string `json:"stock_akhir"`
	Harga       string `json:"harga"`
	ValueTotal  string `json:"value_total"`
}

// Aggregates are the table-level figures derived from the cleaned records.
type Aggregates struct {
	TotalStockKeluar float64  `json:"total_stock_keluar"`
	TotalStockMasuk  float64  `json:"total_stock_masuk"`
	TotalValue       float64  `json:"total_value"`
	ZeroMovers       []string `json:"zero_movers"`  // products with no stock out
	MinusMovers      []string `json:"minus_movers"` // products with negative stock out or value
}

// Report is the full result of one pipeline pass, cached per session.
type Report struct {
	SessionID   string          `json:"session_id"`
	Source      string          `json:"source"` // csv or xlsx
	GeneratedAt time.Time       `json:"generated_at"`
	RowCount    int             `json:"row_count"`
	Columns     ColumnMapping   `json:"columns"`
	Records     []CleanedRecord `json:"records"` // sorted by StockKeluar descending
	Aggregates  Aggregates      `json:"aggregates"`
}

// TopMover is one product's grouped total for a dashboard ranking.
type TopMover struct {
	Produk string  `json:"produk"`
	Total  float64 `json:"total"`
}

// KPIs are the headline dashboard numbers.
type KPIs struct {
	TotalStockKeluar float64 `json:"total_stock_keluar"`
	TotalStockMasuk  float64 `json:"total_stock_masuk"`
	TotalValue       float64 `json:"total_value"`
	ZeroMoverCount   int     `json:"zero_mover_count"`
	MinusMoverCount  int     `json:"minus_mover_count"`
	RowCount         int     `json:"row_count"`
}

// MoverDetail pairs a mover identifier list with the matching records.
type MoverDetail struct {
	Produk  []string        `json:"produk"`
	Records []CleanedRecord `json:"records"`
}
