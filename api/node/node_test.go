// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

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

func TestNodeInfo(t *testing.T) {
	chain, err := testchain.NewDefault()
	require.NoError(t, err)
	defer chain.Close()

	info := Info{Name: "devnet", Version: "test", GenesisID: chain.Genesis().ID()}
	router := mux.NewRouter()
	New(chain.Runtime(), info).Mount(router, "/node")

	chain.Advance(30)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/node/info", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var status Status
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &status))
	assert.Equal(t, info, status.Info)
	assert.Equal(t, uint64(1), status.CallSeq)
	assert.Equal(t, chain.Now()-30, status.CallTime)
	assert.Equal(t, chain.Now(), status.Now)
}
