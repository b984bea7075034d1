package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorway/tutorway-api/internal/api/shared"
	"github.com/tutorway/tutorway-api/internal/platform/logger"
)

func newBufferLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		entries = append(entries, entry)
	}
	return entries
}

func TestTraceMiddleware_GeneratesTraceID(t *testing.T) {
	t.Parallel()

	log, buf := newBufferLogger()

	var gotTraceID string
	var ctxLogger *slog.Logger
	handler := TraceMiddleware(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTraceID = shared.GetTraceID(r.Context())
		ctxLogger = logger.FromContext(r.Context())
		ctxLogger.Info("inside handler")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/usuarios", nil))

	require.Len(t, gotTraceID, shared.TraceIDLength*2)
	assert.Equal(t, gotTraceID, w.Header().Get(TraceIDHeader))
	require.NotNil(t, ctxLogger)

	entries := decodeLines(t, buf)
	require.Len(t, entries, 2)
	for _, entry := range entries {
		assert.Equal(t, gotTraceID, entry["trace_id"])
	}
}

func TestTraceMiddleware_ReusesRequestID(t *testing.T) {
	t.Parallel()

	log, _ := newBufferLogger()

	var gotTraceID string
	inner := TraceMiddleware(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTraceID = shared.GetTraceID(r.Context())
	}))
	handler := chimiddleware.RequestID(inner)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(chimiddleware.RequestIDHeader, "client-supplied-id")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, "client-supplied-id", gotTraceID)
	assert.Equal(t, "client-supplied-id", w.Header().Get(TraceIDHeader))
}

func TestRequestLogger(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		status    int
		wantLevel string
	}{
		{name: "success", status: http.StatusOK, wantLevel: "INFO"},
		{name: "client error", status: http.StatusNotFound, wantLevel: "WARN"},
		{name: "server error", status: http.StatusInternalServerError, wantLevel: "ERROR"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			log, buf := newBufferLogger()
			handler := RequestLogger(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte("body"))
			}))

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/usuarios/apagar/1", nil))

			entries := decodeLines(t, buf)
			require.Len(t, entries, 1)
			entry := entries[0]
			assert.Equal(t, "request completed", entry["msg"])
			assert.Equal(t, tc.wantLevel, entry["level"])
			assert.Equal(t, float64(tc.status), entry["status"])
			assert.Equal(t, float64(4), entry["bytes"])
			assert.Equal(t, http.MethodDelete, entry["method"])
		})
	}
}

func TestRequestLogger_ImplicitOK(t *testing.T) {
	t.Parallel()

	log, buf := newBufferLogger()
	handler := RequestLogger(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	entries := decodeLines(t, buf)
	require.Len(t, entries, 1)
	assert.Equal(t, float64(http.StatusOK), entries[0]["status"])
}
