// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vesting

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/wasabi-swap-team/wasabix-yum-polygon/api/utils"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/yum"
)

type Config struct {
	Token              yum.Address           `json:"token"`
	Duration           uint64                `json:"duration"`
	Window             uint64                `json:"window"`
	AccumulatedPenalty *math.HexOrDecimal256 `json:"accumulatedPenalty"`
}

// Entry is the vesting state of one user. The amounts are zero for a user without entry.
type Entry struct {
	User      yum.Address           `json:"user"`
	Status    string                `json:"status"`
	Principal *math.HexOrDecimal256 `json:"principal"`
	Withdrawn *math.HexOrDecimal256 `json:"withdrawn"`
	VestStart uint64                `json:"vestStart"`
	Available *math.HexOrDecimal256 `json:"available"`
	Penalty   *math.HexOrDecimal256 `json:"penalty"`
}

type Source struct {
	Address yum.Address `json:"address"`
	Allowed bool        `json:"allowed"`
}

type WithdrawRequest struct {
	utils.CallRequest
	Amount *math.HexOrDecimal256 `json:"amount"`
}

type TransferPenaltyRequest struct {
	utils.CallRequest
	To yum.Address `json:"to"`
}

type SourceRequest struct {
	utils.CallRequest
	Source
}

type ScheduleRequest struct {
	utils.CallRequest
	Duration uint64 `json:"duration"`
	Window   uint64 `json:"window"`
}
