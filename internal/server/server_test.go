package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pageza/recipeshare/backend/config"
	"github.com/pageza/recipeshare/backend/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Environment:        config.Test,
		ServerHost:         "localhost",
		ServerPort:         "0",
		JWTSecret:          "test-secret",
		JWTTTL:             time.Hour,
		CORSAllowedOrigins: []string{"http://localhost:8081"},
		PageSizeDefault:    10,
		PageSizeMax:        50,
	}
}

func TestHealth(t *testing.T) {
	db := testhelpers.NewSQLiteDB(t)
	srv := New(testConfig(), db, nil, nil)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy","checks":{"database":"ok"}}`, w.Body.String())
}

func TestHealthReportsDatabaseOutage(t *testing.T) {
	db := testhelpers.NewSQLiteDB(t)
	srv := New(testConfig(), db, nil, nil)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRoutesAndMetrics(t *testing.T) {
	db := testhelpers.NewSQLiteDB(t)
	srv := New(testConfig(), db, nil, nil)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/categories", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), `recipeshare_http_requests_total{method="GET",route="/api/v1/categories",status="200"}`))
}

func TestStartAndShutdown(t *testing.T) {
	db := testhelpers.NewSQLiteDB(t)
	srv := New(testConfig(), db, nil, nil)

	done := make(chan error, 1)
	go func() { done <- srv.Start() }()
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, srv.Shutdown(t.Context()))
	assert.NoError(t, <-done)
}
