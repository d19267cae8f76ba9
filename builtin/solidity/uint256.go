// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"errors"
	"math/big"

	"github.com/holiman/uint256"

	"github.com/wasabi-swap-team/wasabix-yum-polygon/yum"
)

var (
	ErrOverflow  = errors.New("uint256 overflow")
	ErrUnderflow = errors.New("uint256 underflow")
	ErrNegative  = errors.New("uint256 negative value")
)

// Uint256 stores an unsigned 256-bit word at a fixed slot. Arithmetic is checked.
type Uint256 struct {
	context *Context
	pos     yum.Bytes32
}

func NewUint256(context *Context, pos yum.Bytes32) *Uint256 {
	return &Uint256{context: context, pos: pos}
}

func (u *Uint256) get() (*uint256.Int, error) {
	storage, err := u.context.st.GetStorage(u.context.addr, u.pos)
	if err != nil {
		return nil, err
	}
	return new(uint256.Int).SetBytes32(storage[:]), nil
}

func (u *Uint256) set(v *uint256.Int) {
	u.context.st.SetStorage(u.context.addr, u.pos, yum.Bytes32(v.Bytes32()))
}

// Get returns the stored value, zero if unset.
func (u *Uint256) Get() (*big.Int, error) {
	v, err := u.get()
	if err != nil {
		return nil, err
	}
	return v.ToBig(), nil
}

// Set stores value.
func (u *Uint256) Set(value *big.Int) error {
	v, err := toUint256(value)
	if err != nil {
		return err
	}
	u.set(v)
	return nil
}

// Add adds value to the stored word.
func (u *Uint256) Add(value *big.Int) error {
	cur, err := u.get()
	if err != nil {
		return err
	}
	sum, err := CheckedAdd(cur.ToBig(), value)
	if err != nil {
		return err
	}
	return u.Set(sum)
}

// Sub subtracts value from the stored word.
func (u *Uint256) Sub(value *big.Int) error {
	cur, err := u.get()
	if err != nil {
		return err
	}
	diff, err := CheckedSub(cur.ToBig(), value)
	if err != nil {
		return err
	}
	return u.Set(diff)
}

func toUint256(v *big.Int) (*uint256.Int, error) {
	if v.Sign() < 0 {
		return nil, ErrNegative
	}
	z, overflow := uint256.FromBig(v)
	if overflow {
		return nil, ErrOverflow
	}
	return z, nil
}

// CheckedAdd returns a+b, failing if the result does not fit in 256 bits.
func CheckedAdd(a, b *big.Int) (*big.Int, error) {
	x, err := toUint256(a)
	if err != nil {
		return nil, err
	}
	y, err := toUint256(b)
	if err != nil {
		return nil, err
	}
	z, overflow := new(uint256.Int).AddOverflow(x, y)
	if overflow {
		return nil, ErrOverflow
	}
	return z.ToBig(), nil
}

// CheckedSub returns a-b, failing if b > a.
func CheckedSub(a, b *big.Int) (*big.Int, error) {
	x, err := toUint256(a)
	if err != nil {
		return nil, err
	}
	y, err := toUint256(b)
	if err != nil {
		return nil, err
	}
	z, underflow := new(uint256.Int).SubOverflow(x, y)
	if underflow {
		return nil, ErrUnderflow
	}
	return z.ToBig(), nil
}
