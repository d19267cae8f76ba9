// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package feediscount

import (
	"math/big"
	"sort"

	"github.com/wasabi-swap-team/wasabix-yum-polygon/builtin/reverts"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/yum"
)

// Table maps boost balance thresholds to withdrawal fee discounts in percent.
type Table struct {
	Thresholds []*big.Int
	Discounts  []uint64
}

// New validates and builds a table. Thresholds must be strictly ascending and discounts at most 100.
func New(thresholds []*big.Int, discounts []uint64) (*Table, error) {
	if len(thresholds) != len(discounts) {
		return nil, reverts.ErrLengthMismatch
	}
	for i, th := range thresholds {
		if th == nil || th.Sign() < 0 {
			return nil, reverts.ErrInvalidAmount
		}
		if i > 0 && th.Cmp(thresholds[i-1]) <= 0 {
			return nil, reverts.ErrUnsortedThresholds
		}
	}
	for _, d := range discounts {
		if d > yum.DiscountDenominator.Uint64() {
			return nil, reverts.ErrInvalidDiscount
		}
	}

	t := &Table{
		Thresholds: make([]*big.Int, len(thresholds)),
		Discounts:  append([]uint64(nil), discounts...),
	}
	for i, th := range thresholds {
		t.Thresholds[i] = new(big.Int).Set(th)
	}
	return t, nil
}

// Default returns the table the registry starts with.
func Default() *Table {
	thresholds := []int64{50, 100, 500, 1000, 2000, 3500, 6000, 9000, 11000}
	t := &Table{
		Thresholds: make([]*big.Int, len(thresholds)),
		Discounts:  []uint64{10, 15, 20, 30, 50, 60, 70, 80, 91},
	}
	for i, th := range thresholds {
		t.Thresholds[i] = new(big.Int).Mul(big.NewInt(th), big.NewInt(1e18))
	}
	return t
}

// Lookup returns the discount of the highest threshold not above balance, 0 below the first one.
func (t *Table) Lookup(balance *big.Int) uint64 {
	if t == nil {
		return 0
	}
	// first index whose threshold exceeds the balance
	i := sort.Search(len(t.Thresholds), func(i int) bool {
		return t.Thresholds[i].Cmp(balance) > 0
	})
	if i == 0 {
		return 0
	}
	return t.Discounts[i-1]
}

// EffectiveFee returns amount*feeBps/10000 reduced by the discount for balance, truncated.
func (t *Table) EffectiveFee(amount *big.Int, feeBps uint64, balance *big.Int) *big.Int {
	fee := new(big.Int).Mul(amount, new(big.Int).SetUint64(feeBps))
	fee.Div(fee, yum.FeeDenominator)

	discount := t.Lookup(balance)
	fee.Mul(fee, new(big.Int).SetUint64(yum.DiscountDenominator.Uint64()-discount))
	return fee.Div(fee, yum.DiscountDenominator)
}
