package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthHandler(t *testing.T) {
	ok := func(ctx context.Context) error { return nil }
	down := func(ctx context.Context) error { return errors.New("connection refused") }

	rec := httptest.NewRecorder()
	healthHandler(healthCheck{"database", ok}, healthCheck{"redis", ok}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "dev", body["version"])

	rec = httptest.NewRecorder()
	healthHandler(healthCheck{"database", ok}, healthCheck{"redis", down}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, "ok", body["database"])
	assert.Equal(t, "connection refused", body["redis"])
}

func TestStatsHandler(t *testing.T) {
	app := &App{}
	app.requestCount.Add(3)
	app.errorCount.Add(1)

	rec := httptest.NewRecorder()
	app.statsHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.EqualValues(t, 3, body["request_count"])
	assert.EqualValues(t, 1, body["error_count"])
}
