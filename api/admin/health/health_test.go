// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wasabi-swap-team/wasabix-yum-polygon/test/testchain"
)

func getHealth(t *testing.T, router *mux.Router) (int, *Status) {
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/admin/health", nil))

	var s Status
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &s))
	return rr.Code, &s
}

func TestHealth(t *testing.T) {
	chain, err := testchain.NewDefault()
	require.NoError(t, err)
	defer chain.Close()

	router := mux.NewRouter()
	New(chain.Runtime()).Mount(router, "/admin/health")

	code, s := getHealth(t, router)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, s.Healthy)
	assert.Equal(t, uint64(1), s.CallSeq)
	assert.Equal(t, chain.Now(), s.ClockTime)

	chain.Runtime().Close()
	code, s = getHealth(t, router)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.False(t, s.Healthy)
	assert.Equal(t, "runtime closed", s.Error)
}
