// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tokens

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/wasabi-swap-team/wasabix-yum-polygon/api/utils"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/yum"
)

type Token struct {
	Address     yum.Address           `json:"address"`
	Name        string                `json:"name"`
	Symbol      string                `json:"symbol"`
	Decimals    uint8                 `json:"decimals"`
	Owner       yum.Address           `json:"owner"`
	TotalSupply *math.HexOrDecimal256 `json:"totalSupply"`
}

type Balance struct {
	Token   yum.Address           `json:"token"`
	Address yum.Address           `json:"address"`
	Balance *math.HexOrDecimal256 `json:"balance"`
}

type Allowance struct {
	Token     yum.Address           `json:"token"`
	Owner     yum.Address           `json:"owner"`
	Spender   yum.Address           `json:"spender"`
	Allowance *math.HexOrDecimal256 `json:"allowance"`
}

type TransferRequest struct {
	utils.CallRequest
	To     yum.Address           `json:"to"`
	Amount *math.HexOrDecimal256 `json:"amount"`
}

type ApproveRequest struct {
	utils.CallRequest
	Spender yum.Address           `json:"spender"`
	Amount  *math.HexOrDecimal256 `json:"amount"`
}

type BurnRequest struct {
	utils.CallRequest
	Amount *math.HexOrDecimal256 `json:"amount"`
}
