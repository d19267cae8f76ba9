// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pools

import (
	"math/big"

	"github.com/wasabi-swap-team/wasabix-yum-polygon/yum"
)

// Pool is a staking pool for one asset.
type Pool struct {
	Asset             yum.Address
	Weight            uint64
	TotalStaked       *big.Int
	TotalWorking      *big.Int
	AccRewardPerShare *big.Int // scaled by yum.AccPrecision
	LastAccrual       uint64
	VestingEnabled    bool
	LockDuration      uint64
	EarlyFeeBps       uint64
	UserCount         uint64
}

func newPool(asset yum.Address, weight uint64, now uint64) *Pool {
	return &Pool{
		Asset:             asset,
		Weight:            weight,
		TotalStaked:       new(big.Int),
		TotalWorking:      new(big.Int),
		AccRewardPerShare: new(big.Int),
		LastAccrual:       now,
	}
}

// accrue brings the reward accumulator up to now.
// Rewards of periods without any working supply are not distributed.
func (p *Pool) accrue(rate *big.Int, totalWeight uint64, now uint64) {
	if now <= p.LastAccrual {
		return
	}
	if p.TotalWorking.Sign() > 0 && totalWeight > 0 && p.Weight > 0 && rate.Sign() > 0 {
		reward := new(big.Int).Mul(rate, new(big.Int).SetUint64(now-p.LastAccrual))
		reward.Mul(reward, new(big.Int).SetUint64(p.Weight))
		reward.Div(reward, new(big.Int).SetUint64(totalWeight))

		reward.Mul(reward, yum.AccPrecision)
		reward.Div(reward, p.TotalWorking)
		p.AccRewardPerShare = new(big.Int).Add(p.AccRewardPerShare, reward)
	}
	p.LastAccrual = now
}
