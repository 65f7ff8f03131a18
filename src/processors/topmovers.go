package processors

import (
	"errors"
	"fmt"
	"sort"

	"github.com/username/stokdash/src/models"
	"github.com/username/stokdash/src/utils"
)

// Metrics accepted by TopMovers.
const (
	MetricStockKeluar = "stock_keluar"
	MetricValue       = "value"
)

// Bounds of the dashboard's top-N ranking widget.
const (
	TopMoversMin     = 5
	TopMoversMax     = 30
	TopMoversDefault = 10
)

// ErrInvalidMetric is returned for a metric name TopMovers does not know.
var ErrInvalidMetric = errors.New("invalid top mover metric")

// TopMovers groups records by product, sums the chosen metric and returns
// the top groups in descending order. limit <= 0 means the default; other
// values are clamped to the widget bounds. Ties keep first-seen order.
func TopMovers(records []models.CleanedRecord, metric string, limit int) ([]models.TopMover, error) {
	var value func(models.CleanedRecord) float64
	switch metric {
	case MetricStockKeluar:
		value = func(r models.CleanedRecord) float64 { return r.StockKeluar }
	case MetricValue:
		value = func(r models.CleanedRecord) float64 { return r.ValueNum }
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidMetric, metric)
	}

	if limit <= 0 {
		limit = TopMoversDefault
	}
	limit = utils.ClampInt(limit, TopMoversMin, TopMoversMax)

	totals := make(map[string]float64)
	order := make([]string, 0)
	for _, rec := range records {
		if _, seen := totals[rec.Produk]; !seen {
			order = append(order, rec.Produk)
		}
		totals[rec.Produk] += value(rec)
	}

	movers := make([]models.TopMover, 0, len(order))
	for _, produk := range order {
		movers = append(movers, models.TopMover{Produk: produk, Total: totals[produk]})
	}
	sort.SliceStable(movers, func(a, b int) bool { return movers[a].Total > movers[b].Total })

	if len(movers) > limit {
		movers = movers[:limit]
	}
	return movers, nil
}
