package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"optiqc/internal/dataprocessing"
	apierrors "optiqc/internal/errors"
	"optiqc/internal/report"
	"optiqc/internal/services"
)

type stubReportService struct {
	deck    []byte
	summary *services.Summary
	err     error
	inputs  int
}

func (s *stubReportService) Generate(ctx context.Context, inputs []dataprocessing.Input) ([]byte, *services.Summary, error) {
	s.inputs = len(inputs)
	return s.deck, s.summary, s.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestHandler(svc ReportServiceInterface) (*ReportHandler, *services.ReportStore) {
	logger := testLogger()
	store := services.NewReportStore(time.Minute, logger)
	h := NewReportHandler(svc, store, logger, apierrors.NewErrorHandler(logger, false), nil, 8<<20)
	return h, store
}

// xlsxStub returns bytes that pass the workbook signature check.
func xlsxStub(payload string) []byte {
	return append([]byte{0x50, 0x4B, 0x03, 0x04}, payload...)
}

func multipartUpload(t *testing.T, field string, files map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, content := range files {
		part, err := mw.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestGenerateReportSuccess(t *testing.T) {
	svc := &stubReportService{
		deck: []byte("pptx-bytes"),
		summary: &services.Summary{
			ReportID:    "5f7b2671-7a3c-4a53-9cf1-0a6a67b6c14a",
			Rows:        6,
			PreAAFound:  true,
			Message:     "Successfully ingested 6 rows (PreAA data included)",
			GeneratedAt: time.Now(),
		},
	}
	h, store := newTestHandler(svc)

	body, contentType := multipartUpload(t, "files", map[string][]byte{
		"RAA_export.xlsx": xlsxStub("workbook"),
	})
	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.GenerateReport(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 1, svc.inputs)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp["status"])
	assert.Equal(t, "/api/reports/5f7b2671-7a3c-4a53-9cf1-0a6a67b6c14a/download", resp["download_url"])

	// deck is downloadable afterwards
	stored, err := store.Get("5f7b2671-7a3c-4a53-9cf1-0a6a67b6c14a")
	require.NoError(t, err)
	assert.Equal(t, []byte("pptx-bytes"), stored.Deck)
}

func TestGenerateReportRejectsNonWorkbook(t *testing.T) {
	h, _ := newTestHandler(&stubReportService{})

	body, contentType := multipartUpload(t, "files", map[string][]byte{
		"notes.txt": []byte("plain text"),
	})
	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.GenerateReport(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateReportRejectsRenamedCSV(t *testing.T) {
	h, _ := newTestHandler(&stubReportService{})

	body, contentType := multipartUpload(t, "files", map[string][]byte{
		"renamed.xlsx": []byte("side,station,value\n"),
	})
	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.GenerateReport(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "not an xlsx workbook")
}

func TestGenerateReportNoFiles(t *testing.T) {
	h, _ := newTestHandler(&stubReportService{})

	body, contentType := multipartUpload(t, "other_field", map[string][]byte{
		"RAA_export.xlsx": []byte("workbook"),
	})
	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.GenerateReport(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "NO_UPLOAD_FILES")
}

func TestGenerateReportNoUsableData(t *testing.T) {
	svc := &stubReportService{err: services.ErrNoData, summary: &services.Summary{}}
	h, _ := newTestHandler(svc)

	body, contentType := multipartUpload(t, "files", map[string][]byte{
		"empty.xlsx": xlsxStub("workbook"),
	})
	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.GenerateReport(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "no-usable-data")
}

func TestDownloadReport(t *testing.T) {
	h, store := newTestHandler(&stubReportService{})
	store.Put(services.Summary{ReportID: "2671a0d3-32b5-4b53-b1a7-1a6567b6c14a"}, []byte("deck"))

	r := chi.NewRouter()
	r.Mount("/api/reports", h.Routes())

	req := httptest.NewRequest(http.MethodGet, "/api/reports/2671a0d3-32b5-4b53-b1a7-1a6567b6c14a/download", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, report.MIMEType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), report.ReportFileName)
	assert.Equal(t, "deck", rec.Body.String())
}

func TestDownloadReportInlineDisposition(t *testing.T) {
	h, store := newTestHandler(&stubReportService{})
	store.Put(services.Summary{ReportID: "2671a0d3-32b5-4b53-b1a7-1a6567b6c14a"}, []byte("deck"))

	r := chi.NewRouter()
	r.Mount("/api/reports", h.Routes())

	req := httptest.NewRequest(http.MethodGet, "/api/reports/2671a0d3-32b5-4b53-b1a7-1a6567b6c14a/download?disposition=inline", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Contains(t, rec.Header().Get("Content-Disposition"), "inline")
}

func TestDownloadReportRejectsUnknownDisposition(t *testing.T) {
	h, store := newTestHandler(&stubReportService{})
	store.Put(services.Summary{ReportID: "2671a0d3-32b5-4b53-b1a7-1a6567b6c14a"}, []byte("deck"))

	r := chi.NewRouter()
	r.Mount("/api/reports", h.Routes())

	req := httptest.NewRequest(http.MethodGet, "/api/reports/2671a0d3-32b5-4b53-b1a7-1a6567b6c14a/download?disposition=preview", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "disposition")
}

func TestDownloadReportUnknownID(t *testing.T) {
	h, _ := newTestHandler(&stubReportService{})

	r := chi.NewRouter()
	r.Mount("/api/reports", h.Routes())

	req := httptest.NewRequest(http.MethodGet, "/api/reports/2671a0d3-32b5-4b53-b1a7-1a6567b6c14a/download", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "REPORT_NOT_FOUND")
}

func TestReportCtxRejectsBadID(t *testing.T) {
	h, _ := newTestHandler(&stubReportService{})

	r := chi.NewRouter()
	r.Mount("/api/reports", h.Routes())

	req := httptest.NewRequest(http.MethodGet, "/api/reports/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListReports(t *testing.T) {
	h, store := newTestHandler(&stubReportService{})
	store.Put(services.Summary{ReportID: "a", GeneratedAt: time.Now()}, nil)
	store.Put(services.Summary{ReportID: "b", GeneratedAt: time.Now().Add(time.Second)}, nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.ListReports(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
}

func TestListReportsLimit(t *testing.T) {
	h, store := newTestHandler(&stubReportService{})
	store.Put(services.Summary{ReportID: "a", GeneratedAt: time.Now()}, nil)
	store.Put(services.Summary{ReportID: "b", GeneratedAt: time.Now().Add(time.Second)}, nil)

	req := httptest.NewRequest(http.MethodGet, "/?limit=1", nil)
	rec := httptest.NewRecorder()
	h.ListReports(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Count int                `json:"count"`
		Data  []services.Summary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
	// newest first
	assert.Equal(t, "b", resp.Data[0].ReportID)
}

func TestListReportsRejectsBadLimit(t *testing.T) {
	h, _ := newTestHandler(&stubReportService{})

	req := httptest.NewRequest(http.MethodGet, "/?limit=zero", nil)
	rec := httptest.NewRecorder()
	h.ListReports(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
