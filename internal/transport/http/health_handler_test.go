package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"optiqc/internal/services"
)

func newHealthHandler(store *services.ReportStore) *HealthHandler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := services.NewHealthService("1.2.0", "2026-01-01T00:00:00Z", "abc123", store, logger)
	return NewHealthHandler(svc, logger)
}

func TestHealthCheck(t *testing.T) {
	h := newHealthHandler(nil)

	rec := httptest.NewRecorder()
	h.HealthCheck(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var status services.HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "ok", status.Status)
	assert.Equal(t, "1.2.0", status.Version)
}

func TestReadinessCheckWithStore(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := services.NewReportStore(time.Minute, logger)
	h := newHealthHandler(store)

	rec := httptest.NewRecorder()
	h.ReadinessCheck(rec, httptest.NewRequest(http.MethodGet, "/api/health/ready", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ready"`)
}

func TestReadinessCheckWithoutStore(t *testing.T) {
	h := newHealthHandler(nil)

	rec := httptest.NewRecorder()
	h.ReadinessCheck(rec, httptest.NewRequest(http.MethodGet, "/api/health/ready", nil))

	assert.Contains(t, rec.Body.String(), "not_ready")
}

func TestVersion(t *testing.T) {
	h := newHealthHandler(nil)

	rec := httptest.NewRecorder()
	h.Version(rec, httptest.NewRequest(http.MethodGet, "/api/version", nil))

	var info map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, "1.2.0", info["version"])
	assert.Equal(t, "abc123", info["build_id"])
}
