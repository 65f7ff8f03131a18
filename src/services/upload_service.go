package services

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/username/stokdash/src/logger"
	"github.com/username/stokdash/src/metrics"
	"github.com/username/stokdash/src/models"
	"github.com/username/stokdash/src/parsers"
	"github.com/username/stokdash/src/processors"
)

// Each session holds at most one report; a new upload replaces it.
const ckSessionReport = "report_session_%s"

var (
	ErrParsingFailed    = errors.New("file parsing failed")
	ErrProcessingFailed = errors.New("report processing failed")
	ErrReportNotFound   = errors.New("no report for session")
)

type uploadServiceImpl struct {
	processor   *processors.RecordProcessor
	reportCache *cache.Cache
}

func NewUploadService(processor *processors.RecordProcessor, reportCache *cache.Cache) UploadService {
	return &uploadServiceImpl{
		processor:   processor,
		reportCache: reportCache,
	}
}

// ProcessUpload parses one uploaded report, runs the cleaning pipeline and
// stores the result as the session's current report.
func (s *uploadServiceImpl) ProcessUpload(fileReader io.Reader, sessionID string, source string) (*models.Report, error) {
	overallStartTime := time.Now()
	logger.L.Info("ProcessUpload START", "sessionID", sessionID, "source", source)

	parser, err := parsers.GetParser(source)
	if err != nil {
		metrics.IncParseError("unknown_source")
		return nil, fmt.Errorf("%w: %v", ErrParsingFailed, err)
	}

	table, err := parser.Parse(fileReader)
	if err != nil {
		metrics.IncParseError(source)
		return nil, fmt.Errorf("%w: %v", ErrParsingFailed, err)
	}

	report, err := s.processor.Process(table)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProcessingFailed, err)
	}
	report.SessionID = sessionID
	report.Source = source
	report.GeneratedAt = time.Now().UTC()

	s.reportCache.Set(sessionReportKey(sessionID), report, cache.DefaultExpiration)
	metrics.AddRowsProcessed(report.RowCount)

	logger.L.Info("ProcessUpload END", "sessionID", sessionID, "rows", report.RowCount, "duration", time.Since(overallStartTime))
	return report, nil
}

// GetReport returns the session's current report if it hasn't expired.
func (s *uploadServiceImpl) GetReport(sessionID string) (*models.Report, error) {
	if cached, found := s.reportCache.Get(sessionReportKey(sessionID)); found {
		if report, ok := cached.(*models.Report); ok {
			logger.L.Debug("Cache hit for session report", "sessionID", sessionID)
			return report, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrReportNotFound, sessionID)
}

// TopMovers ranks the session's products by the chosen metric.
func (s *uploadServiceImpl) TopMovers(sessionID string, metric string, limit int) ([]models.TopMover, error) {
	report, err := s.GetReport(sessionID)
	if err != nil {
		return nil, err
	}
	return processors.TopMovers(report.Records, metric, limit)
}

// InvalidateSession drops the session's report ahead of its TTL.
func (s *uploadServiceImpl) InvalidateSession(sessionID string) {
	s.reportCache.Delete(sessionReportKey(sessionID))
	logger.L.Debug("Session report invalidated", "sessionID", sessionID)
}

func sessionReportKey(sessionID string) string {
	return fmt.Sprintf(ckSessionReport, sessionID)
}
