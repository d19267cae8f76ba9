// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package yum

import "math/big"

// Fixed-point and basis-point scales.
var (
	// AccPrecision scales accumulated reward per working share.
	AccPrecision = big.NewInt(1e18)
	// FractionPrecision scales vesting fractions.
	FractionPrecision = big.NewInt(1e18)
	// FeeDenominator is the basis-point denominator of fee rates.
	FeeDenominator = big.NewInt(10000)
	// DiscountDenominator is the percentage denominator of fee discounts.
	DiscountDenominator = big.NewInt(100)

	// MaxUint256 is 2^256-1, treated as an unlimited allowance.
	MaxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
)

const (
	// MaxFeeBps bounds every fee rate expressed in basis points.
	MaxFeeBps uint64 = 10000
	// DefaultWithdrawFeeBps is 0.5%.
	DefaultWithdrawFeeBps uint64 = 50
	// DefaultVestingDuration is the granularity of blended vesting timestamps.
	DefaultVestingDuration uint64 = 60
	// DefaultVestingWindow is the time for an entry to become fully available.
	DefaultVestingWindow uint64 = 300
)
