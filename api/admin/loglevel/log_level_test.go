// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package loglevel

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogLevelHandler(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		body           any
		expectedStatus int
		expectedLevel  string
		expectedError  string
	}{
		{
			name:           "set level to debug",
			method:         http.MethodPost,
			body:           Request{Level: "debug"},
			expectedStatus: http.StatusOK,
			expectedLevel:  "DEBUG",
		},
		{
			name:           "set level to error",
			method:         http.MethodPost,
			body:           Request{Level: "error"},
			expectedStatus: http.StatusOK,
			expectedLevel:  "ERROR",
		},
		{
			name:           "invalid level",
			method:         http.MethodPost,
			body:           Request{Level: "verbose"},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Invalid verbosity level",
		},
		{
			name:           "unknown field",
			method:         http.MethodPost,
			body:           map[string]string{"lvl": "debug"},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Invalid request body",
		},
		{
			name:           "get current level",
			method:         http.MethodGet,
			expectedStatus: http.StatusOK,
			expectedLevel:  "INFO",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logLevel slog.LevelVar
			logLevel.Set(slog.LevelInfo)

			var body bytes.Buffer
			if tt.body != nil {
				require.NoError(t, json.NewEncoder(&body).Encode(tt.body))
			}

			rr := httptest.NewRecorder()
			router := mux.NewRouter()
			New(&logLevel).Mount(router, "/admin/loglevel")
			router.ServeHTTP(rr, httptest.NewRequest(tt.method, "/admin/loglevel", &body))

			assert.Equal(t, tt.expectedStatus, rr.Code)
			if tt.expectedError != "" {
				assert.Contains(t, rr.Body.String(), tt.expectedError)
				return
			}
			var resp Response
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, tt.expectedLevel, resp.CurrentLevel)
			assert.Equal(t, tt.expectedLevel, logLevel.Level().String())
		})
	}
}
