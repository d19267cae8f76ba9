// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package apilogs

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggle(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		start    bool
		body     string
		wantCode int
		want     bool
	}{
		{"enable", http.MethodPost, false, `{"enabled":true}`, http.StatusOK, true},
		{"disable", http.MethodPost, true, `{"enabled":false}`, http.StatusOK, false},
		{"get", http.MethodGet, true, "", http.StatusOK, true},
		{"missing field", http.MethodPost, true, `{}`, http.StatusBadRequest, true},
		{"bad body", http.MethodPost, false, `{"enabled":"yes"}`, http.StatusBadRequest, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var enabled atomic.Bool
			enabled.Store(tt.start)

			router := mux.NewRouter()
			New(&enabled).Mount(router, "/admin/apilogs")
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest(tt.method, "/admin/apilogs", strings.NewReader(tt.body)))

			assert.Equal(t, tt.wantCode, rr.Code)
			assert.Equal(t, tt.want, enabled.Load())
			if tt.wantCode == http.StatusOK {
				var resp LogStatus
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
				assert.Equal(t, tt.want, resp.Enabled)
			}
		})
	}
}
