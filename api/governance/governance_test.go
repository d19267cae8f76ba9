// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package governance

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wasabi-swap-team/wasabix-yum-polygon/api/utils"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/builtin"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/genesis"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/test/testchain"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/yum"
)

func initRouter(t *testing.T) *mux.Router {
	chain, err := testchain.NewDefault()
	require.NoError(t, err)
	t.Cleanup(chain.Close)

	router := mux.NewRouter()
	New(chain.Runtime(), "pools", func(c *builtin.Contracts) builtin.Governed { return c.Pools }).
		Mount(router, "/pools/governance")
	New(chain.Runtime(), "vesting", func(c *builtin.Contracts) builtin.Governed { return c.Vesting }).
		Mount(router, "/vesting/governance")
	return router
}

func request(t *testing.T, router *mux.Router, method, path string, body any) (int, []byte) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(method, path, &buf))
	return rr.Code, rr.Body.Bytes()
}

func getGovernance(t *testing.T, router *mux.Router, path string) *Governance {
	code, body := request(t, router, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, code, string(body))

	var g Governance
	require.NoError(t, json.Unmarshal(body, &g))
	return &g
}

func caller(addr yum.Address) utils.CallRequest {
	return utils.CallRequest{Caller: &addr}
}

func TestHandover(t *testing.T) {
	router := initRouter(t)
	accs := genesis.DevAccounts()

	g := getGovernance(t, router, "/pools/governance")
	assert.Equal(t, accs[0].Address, g.Governor)
	assert.True(t, g.PendingGovernor.IsZero())
	assert.Equal(t, accs[1].Address, g.Sentinel)
	assert.False(t, g.Paused)

	code, _ := request(t, router, http.MethodPost, "/pools/governance/pending", &AddressRequest{caller(accs[2].Address), accs[2].Address})
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = request(t, router, http.MethodPost, "/pools/governance/pending", &AddressRequest{caller(accs[0].Address), yum.Address{}})
	assert.Equal(t, http.StatusBadRequest, code)

	code, body := request(t, router, http.MethodPost, "/pools/governance/pending", &AddressRequest{caller(accs[0].Address), accs[2].Address})
	require.Equal(t, http.StatusOK, code, string(body))

	code, _ = request(t, router, http.MethodPost, "/pools/governance/accept", caller(accs[3].Address))
	assert.Equal(t, http.StatusForbidden, code)

	code, body = request(t, router, http.MethodPost, "/pools/governance/accept", caller(accs[2].Address))
	require.Equal(t, http.StatusOK, code, string(body))

	g = getGovernance(t, router, "/pools/governance")
	assert.Equal(t, accs[2].Address, g.Governor)
	assert.True(t, g.PendingGovernor.IsZero())

	// governance of the sink is independent
	g = getGovernance(t, router, "/vesting/governance")
	assert.Equal(t, accs[0].Address, g.Governor)
}

func TestPause(t *testing.T) {
	router := initRouter(t)
	accs := genesis.DevAccounts()

	code, _ := request(t, router, http.MethodPost, "/vesting/governance/pause", &PauseRequest{caller(accs[4].Address), true})
	assert.Equal(t, http.StatusForbidden, code)

	// the sentinel may pause
	code, body := request(t, router, http.MethodPost, "/vesting/governance/pause", &PauseRequest{caller(accs[1].Address), true})
	require.Equal(t, http.StatusOK, code, string(body))
	assert.True(t, getGovernance(t, router, "/vesting/governance").Paused)
	assert.False(t, getGovernance(t, router, "/pools/governance").Paused)

	code, body = request(t, router, http.MethodPost, "/vesting/governance/sentinel", &AddressRequest{caller(accs[0].Address), accs[4].Address})
	require.Equal(t, http.StatusOK, code, string(body))

	code, body = request(t, router, http.MethodPost, "/vesting/governance/pause", &PauseRequest{caller(accs[4].Address), false})
	require.Equal(t, http.StatusOK, code, string(body))
	assert.False(t, getGovernance(t, router, "/vesting/governance").Paused)
}
