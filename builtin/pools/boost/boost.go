// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package boost

import (
	"math/big"
)

var (
	// BasePercent is the share of the stake that always counts.
	BasePercent = big.NewInt(40)
	// BoostPercent scales the share of the pool granted by the boost balance.
	BoostPercent = big.NewInt(60)

	hundred = big.NewInt(100)
)

// WorkingAmount returns the boosted stake of a user:
//
//	min(stake, stake*40% + poolTotalStaked*boostBalance/boostTotalSupply*60%)
//
// The boost term is zero when either the balance or the supply is zero.
func WorkingAmount(stake, boostBalance, poolTotalStaked, boostTotalSupply *big.Int) *big.Int {
	working := new(big.Int).Mul(stake, BasePercent)
	working.Div(working, hundred)

	if boostBalance.Sign() > 0 && boostTotalSupply.Sign() > 0 {
		term := new(big.Int).Mul(poolTotalStaked, boostBalance)
		term.Div(term, boostTotalSupply)
		term.Mul(term, BoostPercent)
		term.Div(term, hundred)
		working.Add(working, term)
	}

	if working.Cmp(stake) > 0 {
		return new(big.Int).Set(stake)
	}
	return working
}
