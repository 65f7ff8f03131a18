package apierror

import (
	"net/http"

	"github.com/go-chi/render"
)

// APIError is the JSON error payload every endpoint renders on failure.
type APIError struct {
	StatusCode int    `json:"-"`
	ErrorCode  string `json:"error"`
	Message    string `json:"message"`
}

// Render implements render.Renderer.
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

func BadRequest(message string) *APIError {
	return &APIError{StatusCode: http.StatusBadRequest, ErrorCode: "BAD_REQUEST", Message: message}
}

func UnprocessableEntity(message string) *APIError {
	return &APIError{StatusCode: http.StatusUnprocessableEntity, ErrorCode: "UNPROCESSABLE_ENTITY", Message: message}
}

func NotFound(message string) *APIError {
	return &APIError{StatusCode: http.StatusNotFound, ErrorCode: "NOT_FOUND", Message: message}
}

func Internal(message string) *APIError {
	return &APIError{StatusCode: http.StatusInternalServerError, ErrorCode: "INTERNAL_ERROR", Message: message}
}
