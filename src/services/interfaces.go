package services

import (
	"io"

	"github.com/username/stokdash/src/models"
)

// UploadService runs the cleaning pipeline over uploaded reports and keeps
// each session's latest report available to the dashboard endpoints.
type UploadService interface {
	ProcessUpload(fileReader io.Reader, sessionID string, source string) (*models.Report, error)
	GetReport(sessionID string) (*models.Report, error)
	TopMovers(sessionID string, metric string, limit int) ([]models.TopMover, error)
	InvalidateSession(sessionID string)
}
