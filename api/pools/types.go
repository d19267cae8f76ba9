// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pools

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/wasabi-swap-team/wasabix-yum-polygon/api/utils"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/builtin/pools"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/builtin/pools/feediscount"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/yum"
)

type Pool struct {
	ID                uint64                `json:"id"`
	Asset             yum.Address           `json:"asset"`
	Weight            uint64                `json:"weight"`
	TotalStaked       *math.HexOrDecimal256 `json:"totalStaked"`
	TotalWorking      *math.HexOrDecimal256 `json:"totalWorking"`
	AccRewardPerShare *math.HexOrDecimal256 `json:"accRewardPerShare"`
	LastAccrual       uint64                `json:"lastAccrual"`
	VestingEnabled    bool                  `json:"vestingEnabled"`
	LockDuration      uint64                `json:"lockDuration"`
	EarlyFeeBps       uint64                `json:"earlyFeeBps"`
	UserCount         uint64                `json:"userCount"`
}

func convertPool(id uint64, p *pools.Pool) *Pool {
	return &Pool{
		ID:                id,
		Asset:             p.Asset,
		Weight:            p.Weight,
		TotalStaked:       utils.BigHex(p.TotalStaked),
		TotalWorking:      utils.BigHex(p.TotalWorking),
		AccRewardPerShare: utils.BigHex(p.AccRewardPerShare),
		LastAccrual:       p.LastAccrual,
		VestingEnabled:    p.VestingEnabled,
		LockDuration:      p.LockDuration,
		EarlyFeeBps:       p.EarlyFeeBps,
		UserCount:         p.UserCount,
	}
}

type DiscountTable struct {
	Thresholds []*math.HexOrDecimal256 `json:"thresholds"`
	Discounts  []uint64                `json:"discounts"`
}

func convertTable(t *feediscount.Table) *DiscountTable {
	out := &DiscountTable{
		Thresholds: make([]*math.HexOrDecimal256, 0, len(t.Thresholds)),
		Discounts:  append([]uint64{}, t.Discounts...),
	}
	for _, th := range t.Thresholds {
		out.Thresholds = append(out.Thresholds, utils.BigHex(th))
	}
	return out
}

type Config struct {
	RewardToken    yum.Address           `json:"rewardToken"`
	BoostToken     yum.Address           `json:"boostToken"`
	RewardVesting  yum.Address           `json:"rewardVesting"`
	FeeCollector   yum.Address           `json:"feeCollector"`
	RewardRate     *math.HexOrDecimal256 `json:"rewardRate"`
	TotalWeight    uint64                `json:"totalWeight"`
	WithdrawFeeBps uint64                `json:"withdrawFeeBps"`
	PoolCount      uint64                `json:"poolCount"`
	DiscountTable  *DiscountTable        `json:"discountTable"`
}

type Position struct {
	Pool             uint64                `json:"pool"`
	User             yum.Address           `json:"user"`
	Staked           *math.HexOrDecimal256 `json:"staked"`
	Working          *math.HexOrDecimal256 `json:"working"`
	RewardDebt       *math.HexOrDecimal256 `json:"rewardDebt"`
	LastDepositTime  uint64                `json:"lastDepositTime"`
	Claimed          *math.HexOrDecimal256 `json:"claimed"`
	Pending          *math.HexOrDecimal256 `json:"pending"`
	AccumulatedPower *math.HexOrDecimal256 `json:"accumulatedPower"`
}

type Users struct {
	Total uint64        `json:"total"`
	Users []yum.Address `json:"users"`
}

type CreatePoolRequest struct {
	utils.CallRequest
	Asset          yum.Address `json:"asset"`
	Weight         uint64      `json:"weight"`
	VestingEnabled bool        `json:"vestingEnabled"`
	LockDuration   uint64      `json:"lockDuration"`
	EarlyFeeBps    uint64      `json:"earlyFeeBps"`
}

type WeightRequest struct {
	utils.CallRequest
	Weight uint64 `json:"weight"`
}

type ParamsRequest struct {
	utils.CallRequest
	VestingEnabled bool   `json:"vestingEnabled"`
	LockDuration   uint64 `json:"lockDuration"`
	EarlyFeeBps    uint64 `json:"earlyFeeBps"`
}

type AmountRequest struct {
	utils.CallRequest
	Amount *math.HexOrDecimal256 `json:"amount"`
}

type FeeRequest struct {
	utils.CallRequest
	Bps uint64 `json:"bps"`
}

type AddressRequest struct {
	utils.CallRequest
	Address yum.Address `json:"address"`
}

type DiscountTableRequest struct {
	utils.CallRequest
	DiscountTable
}
