package validation

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/username/stokdash/src/logger"
)

// AllowedClientContentTypes is a map for quick lookup of allowed
// client-declared MIME types on report uploads.
var AllowedClientContentTypes = map[string]bool{
	"text/csv":                 true,
	"application/csv":          true,
	"application/vnd.ms-excel": true, // often used for CSV by older Excel
	"text/plain":               true, // CSVs are often plain text
	"application/octet-stream": true, // fallback, magic bytes decide
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true, // .xlsx
	"application/zip": true, // some clients declare raw zip for .xlsx
}

// ValidateClientContentType checks the Content-Type header provided by the client.
func ValidateClientContentType(contentType string) error {
	mediaType := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	if allowed, exists := AllowedClientContentTypes[mediaType]; !exists || !allowed {
		logger.L.Warn("Disallowed client-declared Content-Type", "contentType", contentType)
		return fmt.Errorf("client-declared file type '%s' is not allowed for report upload", contentType)
	}
	return nil
}

// Detected content types that can plausibly be each source format. CSVs sniff
// as text; XLSX workbooks are zip containers. octet-stream is a generic
// fallback either way; the parser is the final arbiter.
var (
	csvDetectedTypes = map[string]bool{
		"text/plain":               true,
		"text/csv":                 true,
		"application/csv":          true,
		"application/octet-stream": true,
	}
	xlsxDetectedTypes = map[string]bool{
		"application/zip":          true,
		"application/octet-stream": true,
	}
)

// ValidateFileContentByMagicBytes checks the actual file content signature
// (magic bytes) against the declared source format. It returns the detected
// content type and an error when the content cannot be that kind of report.
func ValidateFileContentByMagicBytes(file io.ReadSeeker, source string) (string, error) {
	if file == nil {
		return "", fmt.Errorf("file is nil")
	}

	buffer := make([]byte, 512) // first 512 bytes are enough for MIME detection
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read file for content type checking: %w", err)
	}

	// Reset the read pointer so the parser sees the full file.
	if _, seekErr := file.Seek(0, io.SeekStart); seekErr != nil {
		return "", fmt.Errorf("failed to reset file read pointer: %w", seekErr)
	}

	detectedContentType := http.DetectContentType(buffer[:n])
	detectedContentType = strings.ToLower(strings.Split(detectedContentType, ";")[0])

	var allowed map[string]bool
	switch source {
	case "csv":
		allowed = csvDetectedTypes
	case "xlsx":
		allowed = xlsxDetectedTypes
	default:
		return detectedContentType, fmt.Errorf("unknown upload source format '%s'", source)
	}

	if !allowed[detectedContentType] {
		logger.L.Warn("Disallowed detected file content type (magic bytes)",
			"detectedContentType", detectedContentType, "source", source)
		return detectedContentType, fmt.Errorf("detected file content type '%s' is not consistent with a %s report", detectedContentType, source)
	}

	logger.L.Debug("File content type (magic bytes) validated", "detectedContentType", detectedContentType)
	return detectedContentType, nil
}
