// src/handlers/upload_handler.go
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/username/stokdash/src/apierror"
	"github.com/username/stokdash/src/config"
	"github.com/username/stokdash/src/logger"
	"github.com/username/stokdash/src/metrics"
	"github.com/username/stokdash/src/models"
	"github.com/username/stokdash/src/parsers"
	"github.com/username/stokdash/src/processors"
	"github.com/username/stokdash/src/security/validation"
	"github.com/username/stokdash/src/services"
)

type UploadHandler struct {
	uploadService services.UploadService
}

func NewUploadHandler(service services.UploadService) *UploadHandler {
	return &UploadHandler{
		uploadService: service,
	}
}

// Routes mounts the upload endpoints.
func (h *UploadHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.HandleUpload)
	return r
}

// HandleUpload accepts one multipart sales report, runs the cleaning
// pipeline and answers with the session's report.
func (h *UploadHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	report, apiErr := h.processUploadRequest(r)
	if apiErr != nil {
		metrics.ObserveUpload(metrics.ResultError, time.Since(start))
		render.Render(w, r, apiErr)
		return
	}

	metrics.ObserveUpload(metrics.ResultSuccess, time.Since(start))
	render.Status(r, http.StatusOK)
	render.JSON(w, r, report)
}

func (h *UploadHandler) processUploadRequest(r *http.Request) (*models.Report, *apierror.APIError) {
	if err := r.ParseMultipartForm(config.Cfg.MaxUploadSizeBytes); err != nil {
		logger.L.Warn("Failed to parse multipart form or request too large", "error", err, "limit", config.Cfg.MaxUploadSizeBytes)
		return nil, apierror.BadRequest(fmt.Sprintf("Failed to parse form or request too large (max %d MB)", config.Cfg.MaxUploadSizeBytes/(1024*1024)))
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		logger.L.Warn("Failed to retrieve file from request", "error", err)
		return nil, apierror.BadRequest("Failed to retrieve file from request. Ensure 'file' field is used.")
	}
	defer file.Close()

	if fileHeader.Size > config.Cfg.MaxUploadSizeBytes {
		logger.L.Warn("Uploaded file header reports size too large", "fileSize", fileHeader.Size, "limit", config.Cfg.MaxUploadSizeBytes)
		return nil, apierror.BadRequest(fmt.Sprintf("File too large, max %d MB (header check)", config.Cfg.MaxUploadSizeBytes/(1024*1024)))
	}

	source, err := sourceFromFilename(fileHeader.Filename)
	if err != nil {
		logger.L.Warn("Unsupported report file extension", "filename", fileHeader.Filename, "error", err)
		return nil, apierror.BadRequest(err.Error())
	}

	clientContentType := fileHeader.Header.Get("Content-Type")
	if err := validation.ValidateClientContentType(clientContentType); err != nil {
		logger.L.Warn("Invalid client-declared file type", "contentType", clientContentType, "error", err)
		return nil, apierror.BadRequest(err.Error())
	}
	logger.L.Debug("Client-declared Content-Type validated", "contentType", clientContentType)

	detectedContentType, err := validation.ValidateFileContentByMagicBytes(file, source)
	if err != nil {
		logger.L.Warn("Server-side file content validation failed", "filename", fileHeader.Filename, "error", err)
		return nil, apierror.BadRequest(err.Error())
	}
	logger.L.Info("File content validated by magic bytes", "filename", fileHeader.Filename, "clientType", clientContentType, "detectedType", detectedContentType)

	sessionID := strings.TrimSpace(r.FormValue("session_id"))
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	logger.L.Info("Processing upload request", "sessionID", sessionID, "filename", fileHeader.Filename, "source", source)
	report, err := h.uploadService.ProcessUpload(file, sessionID, source)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrParsingFailed):
			logger.L.Warn("Upload processing failed due to parse errors", "sessionID", sessionID, "filename", fileHeader.Filename, "error", err)
			return nil, apierror.BadRequest(fmt.Sprintf("Error parsing report file: %v", err))
		case errors.Is(err, processors.ErrNoIdentifierColumn):
			logger.L.Warn("Upload rejected, report has no usable identifier column", "sessionID", sessionID, "filename", fileHeader.Filename, "error", err)
			return nil, apierror.UnprocessableEntity(fmt.Sprintf("Report schema problem: %v", err))
		case errors.Is(err, services.ErrProcessingFailed):
			logger.L.Warn("Upload processing failed during record cleaning", "sessionID", sessionID, "filename", fileHeader.Filename, "error", err)
			return nil, apierror.UnprocessableEntity(fmt.Sprintf("Error processing records in file: %v", err))
		default:
			logger.L.Error("Internal error processing upload", "sessionID", sessionID, "filename", fileHeader.Filename, "error", err)
			return nil, apierror.Internal("An internal error occurred while processing the file. Please try again later.")
		}
	}

	return report, nil
}

// sourceFromFilename picks the parser source from the upload's extension.
func sourceFromFilename(name string) (string, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".txt":
		return parsers.SourceCSV, nil
	case ".xlsx":
		return parsers.SourceXLSX, nil
	default:
		return "", fmt.Errorf("unsupported report file extension on %q, expected .csv or .xlsx", name)
	}
}
