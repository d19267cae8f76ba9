// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pools

import (
	"encoding/binary"
	"math/big"

	"github.com/wasabi-swap-team/wasabix-yum-polygon/yum"
)

// Position is the stake of a user in a pool.
type Position struct {
	Staked          *big.Int
	Working         *big.Int
	RewardDebt      *big.Int
	LastDepositTime uint64
	Claimed         *big.Int // lifetime reward paid out
}

func newPosition() *Position {
	return &Position{
		Staked:     new(big.Int),
		Working:    new(big.Int),
		RewardDebt: new(big.Int),
		Claimed:    new(big.Int),
	}
}

// pending returns the reward accrued since the last checkpoint, never negative.
func (p *Position) pending(acc *big.Int) *big.Int {
	reward := new(big.Int).Mul(p.Working, acc)
	reward.Div(reward, yum.AccPrecision)
	reward.Sub(reward, p.RewardDebt)
	if reward.Sign() < 0 {
		return new(big.Int)
	}
	return reward
}

// checkpoint resets the reward debt to the current accumulator.
func (p *Position) checkpoint(acc *big.Int) {
	debt := new(big.Int).Mul(p.Working, acc)
	p.RewardDebt = debt.Div(debt, yum.AccPrecision)
}

type positionKey struct {
	pool uint64
	user yum.Address
}

func (k positionKey) Bytes() []byte {
	return append(binary.BigEndian.AppendUint64(nil, k.pool), k.user.Bytes()...)
}

type userIndexKey struct {
	pool  uint64
	index uint64
}

func (k userIndexKey) Bytes() []byte {
	return binary.BigEndian.AppendUint64(binary.BigEndian.AppendUint64(nil, k.pool), k.index)
}
