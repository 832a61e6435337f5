package errors

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIError(t *testing.T) {
	err := New(http.StatusBadRequest, "INVALID_REQUEST", "bad input")
	assert.Equal(t, "bad input", err.Error())
	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Equal(t, "INVALID_REQUEST", err.ErrorCode)
}

func TestNewWithDetails(t *testing.T) {
	err := NewWithDetails(http.StatusUnprocessableEntity, "NO_USABLE_DATA", "nothing parsed", "check sheet names")
	assert.Equal(t, "check sheet names", err.Details)

	data, jsonErr := json.Marshal(err)
	require.NoError(t, jsonErr)
	assert.Contains(t, string(data), `"details":"check sheet names"`)
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, ErrReportNotFound)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "REPORT_NOT_FOUND", resp.Error.ErrorCode)
}

func TestProblemDetailsMarshalIncludesExtensions(t *testing.T) {
	pd := NewProblemDetails(http.StatusNotFound, TypeReportNotFound, "Not Found", "report gone", "/api/reports/x").
		WithExtension("trace_id", "abc-123")

	data, err := json.Marshal(pd)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, TypeReportNotFound, decoded["type"])
	assert.Equal(t, "abc-123", decoded["trace_id"])
	assert.Equal(t, float64(http.StatusNotFound), decoded["status"])
}

func TestErrorToProblem(t *testing.T) {
	h := NewErrorHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), false)
	req := httptest.NewRequest(http.MethodGet, "/api/reports/x", nil)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{"api error maps by code", ErrNoUsableData, http.StatusUnprocessableEntity, TypeNoUsableData},
		{"report not found", ErrReportNotFound, http.StatusNotFound, TypeReportNotFound},
		{"upload too large", ErrUploadTooLarge, http.StatusRequestEntityTooLarge, TypePayloadTooLarge},
		{"plain not found", fmt.Errorf("widget not found"), http.StatusNotFound, TypeNotFound},
		{"parse failure text", fmt.Errorf("cannot parse data: no sheets matched"), http.StatusUnprocessableEntity, TypeNoUsableData},
		{"unknown error", fmt.Errorf("boom"), http.StatusInternalServerError, TypeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			problem := h.ErrorToProblem(tt.err, req)
			assert.Equal(t, tt.wantStatus, problem.Status)
			assert.Equal(t, tt.wantType, problem.Type)
		})
	}
}

func TestHandleErrorRendersProblem(t *testing.T) {
	h := NewErrorHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), false)
	req := httptest.NewRequest(http.MethodPost, "/api/reports", nil)
	rec := httptest.NewRecorder()

	h.HandleError(rec, req, ErrNoUploadFiles)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	assert.Equal(t, "NO_UPLOAD_FILES", decoded["error_code"])
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := fmt.Errorf("underlying")
	err := NewParsingError("sheet unreadable", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "PARSING")
	assert.Contains(t, err.Error(), "underlying")
}

func TestAppErrorWithContext(t *testing.T) {
	err := NewRenderError("chart failed", nil).WithContext("slide", 2)
	assert.Equal(t, 2, err.Context["slide"])
}
