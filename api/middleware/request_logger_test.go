// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wasabi-swap-team/wasabix-yum-polygon/log"
)

func TestRequestLoggerHandler(t *testing.T) {
	tests := []struct {
		name                 string
		delay                time.Duration
		enabled              bool
		slowQueriesThreshold time.Duration
		shouldLog            bool
	}{
		{"logging enabled", 0, true, 0, true},
		{"logging disabled", 0, false, 0, false},
		{"slow request over threshold", 15 * time.Millisecond, false, 10 * time.Millisecond, true},
		{"fast request under threshold", 0, false, time.Second, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var (
				buf     bytes.Buffer
				level   slog.LevelVar
				enabled atomic.Bool
			)
			enabled.Store(tt.enabled)
			logger := log.NewLogger(log.NewJSONHandler(&buf, &level))

			var gotBody string
			handler := RequestLoggerMiddleware(logger, &enabled, tt.slowQueriesThreshold)(
				http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					time.Sleep(tt.delay)
					body, _ := io.ReadAll(r.Body)
					gotBody = string(body)
					w.WriteHeader(http.StatusOK)
				}),
			)

			req := httptest.NewRequest(http.MethodPost, "/pools/1/claim", strings.NewReader(`{"caller":"0x01"}`))
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, `{"caller":"0x01"}`, gotBody)
			if tt.shouldLog {
				assert.Contains(t, buf.String(), "API Request")
				assert.Contains(t, buf.String(), "/pools/1/claim")
				assert.NotEmpty(t, rr.Header().Get(RequestIDHeader))
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}

func TestRequestIDPassthrough(t *testing.T) {
	var enabled atomic.Bool
	enabled.Store(true)
	var buf bytes.Buffer
	logger := log.NewLogger(log.NewJSONHandler(&buf, new(slog.LevelVar)))

	handler := RequestLoggerMiddleware(logger, &enabled, 0)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/pools", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, "req-1", rr.Header().Get(RequestIDHeader))
	assert.Contains(t, buf.String(), "req-1")
}

func TestRequestLoggerStatusAndRoute(t *testing.T) {
	var enabled atomic.Bool
	enabled.Store(true)
	var buf bytes.Buffer
	logger := log.NewLogger(log.NewJSONHandler(&buf, new(slog.LevelVar)))

	router := mux.NewRouter()
	router.Use(RequestLoggerMiddleware(logger, &enabled, 0))
	router.Path("/pools/{id}").Methods(http.MethodGet).Name("GET /pools/{id}").
		HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/pools/7", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "GET /pools/{id}", entry["route"])
	assert.Equal(t, float64(http.StatusNotFound), entry["status"])
	assert.Equal(t, "/pools/7", entry["uri"])
}

func TestRequestLoggerBodyCap(t *testing.T) {
	var enabled atomic.Bool
	enabled.Store(true)
	var buf bytes.Buffer
	logger := log.NewLogger(log.NewJSONHandler(&buf, new(slog.LevelVar)))

	var got int
	handler := RequestLoggerMiddleware(logger, &enabled, 0)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		got = len(b)
	}))
	big := strings.Repeat("x", maxLoggedBody*2)
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", strings.NewReader(big)))

	assert.Equal(t, len(big), got)
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Len(t, entry["body"], maxLoggedBody)
}
