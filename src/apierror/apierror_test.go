package apierror

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderSetsStatusAndPayload(t *testing.T) {
	tests := []struct {
		name       string
		apiErr     *APIError
		wantStatus int
		wantCode   string
	}{
		{"bad request", BadRequest("nope"), http.StatusBadRequest, "BAD_REQUEST"},
		{"unprocessable", UnprocessableEntity("schema"), http.StatusUnprocessableEntity, "UNPROCESSABLE_ENTITY"},
		{"not found", NotFound("gone"), http.StatusNotFound, "NOT_FOUND"},
		{"internal", Internal("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rr := httptest.NewRecorder()
			require.NoError(t, render.Render(rr, req, tt.apiErr))

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.wantCode)
			assert.NotContains(t, rr.Body.String(), "status_code")
		})
	}
}
