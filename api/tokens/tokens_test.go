// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tokens

import (
	"bytes"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wasabi-swap-team/wasabix-yum-polygon/api/utils"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/genesis"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/test/datagen"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/test/testchain"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/yum"
)

var (
	governor = genesis.DevAccounts()[0].Address
	alice    = genesis.DevAccounts()[2].Address
	bob      = genesis.DevAccounts()[3].Address
)

func initTokens(t *testing.T) *mux.Router {
	chain, err := testchain.NewDefault()
	require.NoError(t, err)
	t.Cleanup(chain.Close)

	router := mux.NewRouter()
	New(chain.Runtime()).Mount(router, "/tokens")
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

func caller(addr yum.Address) utils.CallRequest {
	return utils.CallRequest{Caller: &addr}
}

func amount(v int64) *math.HexOrDecimal256 {
	return (*math.HexOrDecimal256)(big.NewInt(v))
}

func balanceOf(t *testing.T, router *mux.Router, token, holder yum.Address) *big.Int {
	code, body := request(t, router, http.MethodGet, "/tokens/"+token.String()+"/balances/"+holder.String(), nil)
	require.Equal(t, http.StatusOK, code, string(body))

	var b Balance
	require.NoError(t, json.Unmarshal(body, &b))
	return (*big.Int)(b.Balance)
}

func TestGetToken(t *testing.T) {
	router := initTokens(t)

	code, body := request(t, router, http.MethodGet, "/tokens/"+genesis.DevStakeToken.String(), nil)
	require.Equal(t, http.StatusOK, code, string(body))

	var tok Token
	require.NoError(t, json.Unmarshal(body, &tok))
	assert.Equal(t, "WASABI-LP", tok.Symbol)
	assert.Equal(t, uint8(18), tok.Decimals)
	assert.Equal(t, governor, tok.Owner)
	supply, _ := new(big.Int).SetString("4000000000000000000000000", 10)
	assert.Equal(t, supply, (*big.Int)(tok.TotalSupply))

	code, _ = request(t, router, http.MethodGet, "/tokens/"+datagen.RandAddress().String(), nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestTransferAndMint(t *testing.T) {
	router := initTokens(t)
	token := genesis.DevRewardToken

	assert.Zero(t, balanceOf(t, router, token, alice).Sign())

	code, _ := request(t, router, http.MethodPost, "/tokens/"+token.String()+"/mint", &TransferRequest{caller(alice), alice, amount(100)})
	assert.Equal(t, http.StatusForbidden, code)

	code, body := request(t, router, http.MethodPost, "/tokens/"+token.String()+"/mint", &TransferRequest{caller(governor), alice, amount(100)})
	require.Equal(t, http.StatusOK, code, string(body))

	code, body = request(t, router, http.MethodPost, "/tokens/"+token.String()+"/transfer", &TransferRequest{caller(alice), bob, amount(40)})
	require.Equal(t, http.StatusOK, code, string(body))

	code, _ = request(t, router, http.MethodPost, "/tokens/"+token.String()+"/transfer", &TransferRequest{caller(alice), bob, amount(61)})
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = request(t, router, http.MethodPost, "/tokens/"+token.String()+"/burn", &BurnRequest{caller(bob), amount(10)})
	require.Equal(t, http.StatusOK, code, string(body))

	assert.Equal(t, big.NewInt(60), balanceOf(t, router, token, alice))
	assert.Equal(t, big.NewInt(30), balanceOf(t, router, token, bob))

	code, _ = request(t, router, http.MethodPost, "/tokens/"+datagen.RandAddress().String()+"/transfer", &TransferRequest{caller(alice), bob, amount(1)})
	assert.Equal(t, http.StatusNotFound, code)
}

func TestApprove(t *testing.T) {
	router := initTokens(t)
	token := genesis.DevStakeToken

	code, body := request(t, router, http.MethodPost, "/tokens/"+token.String()+"/approve", &ApproveRequest{caller(alice), bob, amount(5)})
	require.Equal(t, http.StatusOK, code, string(body))

	code, body = request(t, router, http.MethodGet, "/tokens/"+token.String()+"/allowances/"+alice.String()+"/"+bob.String(), nil)
	require.Equal(t, http.StatusOK, code, string(body))

	var a Allowance
	require.NoError(t, json.Unmarshal(body, &a))
	assert.Equal(t, big.NewInt(5), (*big.Int)(a.Allowance))

	code, _ = request(t, router, http.MethodPost, "/tokens/"+token.String()+"/approve", &ApproveRequest{caller(alice), yum.Address{}, amount(5)})
	assert.Equal(t, http.StatusBadRequest, code)
}
