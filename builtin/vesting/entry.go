// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vesting

import (
	"math/big"

	"github.com/wasabi-swap-team/wasabix-yum-polygon/yum"
)

// Status is the vesting state of a user.
type Status uint8

const (
	Idle Status = iota
	Accruing
	FullyVested
)

func (s Status) String() string {
	switch s {
	case Accruing:
		return "accruing"
	case FullyVested:
		return "fully-vested"
	default:
		return "idle"
	}
}

// Entry merges every earning pushed for a user.
type Entry struct {
	Principal *big.Int
	VestStart uint64 // amount weighted start time
	Withdrawn *big.Int
}

// Remaining returns the value not yet withdrawn or forfeited.
func (e *Entry) Remaining() *big.Int {
	return new(big.Int).Sub(e.Principal, e.Withdrawn)
}

var half = new(big.Int).Rsh(yum.FractionPrecision, 1)

// Knee returns the elapsed time until which the fraction stays at one half.
func Knee(window uint64) uint64 {
	return window / 3 * 2
}

// Fraction returns the share of the remaining value withdrawable without penalty, scaled by
// yum.FractionPrecision. It holds at one half until Knee(window), then rises linearly to one at window.
func Fraction(elapsed, window uint64) *big.Int {
	if window == 0 || elapsed >= window {
		return new(big.Int).Set(yum.FractionPrecision)
	}
	knee := Knee(window)
	if elapsed <= knee {
		return new(big.Int).Set(half)
	}
	f := new(big.Int).Mul(half, new(big.Int).SetUint64(elapsed-knee))
	f.Div(f, new(big.Int).SetUint64(window-knee))
	return f.Add(f, half)
}

// fraction returns the current fraction of the entry.
func (e *Entry) fraction(now, window uint64) *big.Int {
	var elapsed uint64
	if now > e.VestStart {
		elapsed = now - e.VestStart
	}
	return Fraction(elapsed, window)
}

// available splits the remaining value into the withdrawable amount and the penalty.
func (e *Entry) available(now, window uint64) (*big.Int, *big.Int) {
	remaining := e.Remaining()
	amount := new(big.Int).Mul(remaining, e.fraction(now, window))
	amount.Div(amount, yum.FractionPrecision)
	return amount, remaining.Sub(remaining, amount)
}

// consume returns how much of the remaining value a withdrawal of amount uses up.
func (e *Entry) consume(amount *big.Int, now, window uint64) *big.Int {
	f := e.fraction(now, window)
	consumed := new(big.Int).Mul(amount, yum.FractionPrecision)
	consumed.Add(consumed, new(big.Int).Sub(f, big.NewInt(1)))
	consumed.Div(consumed, f)
	if remaining := e.Remaining(); consumed.Cmp(remaining) > 0 {
		return remaining
	}
	return consumed
}

// merge adds amount earned at ts, blending the start time by value.
func (e *Entry) merge(amount *big.Int, ts uint64) {
	remaining := e.Remaining()
	if remaining.Sign() == 0 {
		e.Principal = new(big.Int).Set(amount)
		e.Withdrawn = new(big.Int)
		e.VestStart = ts
		return
	}
	start := new(big.Int).Mul(remaining, new(big.Int).SetUint64(e.VestStart))
	start.Add(start, new(big.Int).Mul(amount, new(big.Int).SetUint64(ts)))
	start.Div(start, new(big.Int).Add(remaining, amount))

	e.VestStart = start.Uint64()
	e.Principal = new(big.Int).Add(e.Principal, amount)
}
