// src/handlers/dashboard_handler.go
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/username/stokdash/src/apierror"
	"github.com/username/stokdash/src/logger"
	"github.com/username/stokdash/src/models"
	"github.com/username/stokdash/src/processors"
	"github.com/username/stokdash/src/services"
	"github.com/username/stokdash/src/utils"
)

type DashboardHandler struct {
	uploadService services.UploadService
}

func NewDashboardHandler(service services.UploadService) *DashboardHandler {
	return &DashboardHandler{
		uploadService: service,
	}
}

// Routes mounts the per-session dashboard endpoints.
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Route("/{sessionID}", func(r chi.Router) {
		r.Get("/", h.HandleGetReport)
		r.Get("/kpis", h.HandleGetKPIs)
		r.Get("/top-movers", h.HandleGetTopMovers)
		r.Get("/zero-movers", h.HandleGetZeroMovers)
		r.Get("/minus-movers", h.HandleGetMinusMovers)
		r.Get("/records", h.HandleGetRecords)
	})
	return r
}

// sessionReport loads the session's report, rendering the error response on
// failure.
func (h *DashboardHandler) sessionReport(w http.ResponseWriter, r *http.Request) (*models.Report, bool) {
	sessionID := chi.URLParam(r, "sessionID")
	report, err := h.uploadService.GetReport(sessionID)
	if err != nil {
		if errors.Is(err, services.ErrReportNotFound) {
			render.Render(w, r, apierror.NotFound(fmt.Sprintf("no report for session %s, upload a file first", sessionID)))
		} else {
			logger.L.Error("Error retrieving session report", "sessionID", sessionID, "error", err)
			render.Render(w, r, apierror.Internal("error retrieving session report"))
		}
		return nil, false
	}
	return report, true
}

// HandleGetReport serves the session's full cleaned report with ETag support.
func (h *DashboardHandler) HandleGetReport(w http.ResponseWriter, r *http.Request) {
	report, ok := h.sessionReport(w, r)
	if !ok {
		return
	}
	logger.L.Debug("Handling GetReport request with ETag support", "sessionID", report.SessionID)

	currentETag, etagErr := utils.GenerateETag(report)
	if etagErr != nil {
		logger.L.Error("Failed to generate ETag for session report", "sessionID", report.SessionID, "error", etagErr)
	}

	w.Header().Set("Cache-Control", "no-cache, private")

	if etagErr == nil && currentETag != "" {
		quotedETag := fmt.Sprintf("\"%s\"", currentETag)
		w.Header().Set("ETag", quotedETag)
		clientETag := r.Header.Get("If-None-Match")
		for _, cETag := range strings.Split(clientETag, ",") {
			if strings.TrimSpace(cETag) == quotedETag {
				logger.L.Info("ETag match for session report", "sessionID", report.SessionID, "etag", currentETag)
				w.WriteHeader(http.StatusNotModified)
				return
			}
		}
		if clientETag != "" {
			logger.L.Debug("ETag mismatch", "sessionID", report.SessionID, "clientETags", clientETag, "serverETag", quotedETag)
		}
	} else {
		logger.L.Warn("Proceeding without ETag check due to ETag generation error or empty ETag", "sessionID", report.SessionID)
	}

	render.JSON(w, r, report)
}

// HandleGetKPIs serves the headline dashboard numbers, rounded for display.
func (h *DashboardHandler) HandleGetKPIs(w http.ResponseWriter, r *http.Request) {
	report, ok := h.sessionReport(w, r)
	if !ok {
		return
	}

	agg := report.Aggregates
	render.JSON(w, r, models.KPIs{
		TotalStockKeluar: utils.RoundFloat(agg.TotalStockKeluar, 2),
		TotalStockMasuk:  utils.RoundFloat(agg.TotalStockMasuk, 2),
		TotalValue:       utils.RoundFloat(agg.TotalValue, 2),
		ZeroMoverCount:   len(agg.ZeroMovers),
		MinusMoverCount:  len(agg.MinusMovers),
		RowCount:         report.RowCount,
	})
}

// HandleGetTopMovers ranks the session's products by ?metric, truncated to
// ?limit.
func (h *DashboardHandler) HandleGetTopMovers(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	metric := r.URL.Query().Get("metric")
	if metric == "" {
		metric = processors.MetricStockKeluar
	}

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil {
			render.Render(w, r, apierror.BadRequest(fmt.Sprintf("invalid limit %q, expected an integer", limitStr)))
			return
		}
		limit = parsed
	}

	movers, err := h.uploadService.TopMovers(sessionID, metric, limit)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrReportNotFound):
			render.Render(w, r, apierror.NotFound(fmt.Sprintf("no report for session %s, upload a file first", sessionID)))
		case errors.Is(err, processors.ErrInvalidMetric):
			render.Render(w, r, apierror.BadRequest(err.Error()))
		default:
			logger.L.Error("Error ranking top movers", "sessionID", sessionID, "metric", metric, "error", err)
			render.Render(w, r, apierror.Internal("error ranking top movers"))
		}
		return
	}

	if movers == nil {
		movers = []models.TopMover{}
	}
	render.JSON(w, r, movers)
}

// HandleGetZeroMovers lists the products that recorded no outgoing stock.
func (h *DashboardHandler) HandleGetZeroMovers(w http.ResponseWriter, r *http.Request) {
	report, ok := h.sessionReport(w, r)
	if !ok {
		return
	}
	render.JSON(w, r, moverDetail(report.Aggregates.ZeroMovers, report.Records, func(rec models.CleanedRecord) bool {
		return rec.StockKeluar == 0
	}))
}

// HandleGetMinusMovers lists the products with negative stock out or value.
func (h *DashboardHandler) HandleGetMinusMovers(w http.ResponseWriter, r *http.Request) {
	report, ok := h.sessionReport(w, r)
	if !ok {
		return
	}
	render.JSON(w, r, moverDetail(report.Aggregates.MinusMovers, report.Records, func(rec models.CleanedRecord) bool {
		return rec.StockKeluar < 0 || rec.ValueNum < 0
	}))
}

// HandleGetRecords serves the cleaned record list on its own.
func (h *DashboardHandler) HandleGetRecords(w http.ResponseWriter, r *http.Request) {
	report, ok := h.sessionReport(w, r)
	if !ok {
		return
	}
	records := report.Records
	if records == nil {
		records = []models.CleanedRecord{}
	}
	render.JSON(w, r, records)
}

func moverDetail(produk []string, records []models.CleanedRecord, match func(models.CleanedRecord) bool) models.MoverDetail {
	detail := models.MoverDetail{Produk: produk, Records: []models.CleanedRecord{}}
	if detail.Produk == nil {
		detail.Produk = []string{}
	}
	for _, rec := range records {
		if match(rec) {
			detail.Records = append(detail.Records, rec)
		}
	}
	return detail
}
