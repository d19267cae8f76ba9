// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/wasabi-swap-team/wasabix-yum-polygon/yum"
)

// Raw stores a single rlp encoded value at a fixed slot.
type Raw[T any] struct {
	context *Context
	pos     yum.Bytes32
}

func NewRaw[T any](context *Context, pos yum.Bytes32) *Raw[T] {
	return &Raw[T]{context: context, pos: pos}
}

// Get returns the stored value, or the zero value of T if unset.
func (r *Raw[T]) Get() (value T, err error) {
	err = r.context.st.DecodeStorage(r.context.addr, r.pos, func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &value)
	})
	return
}

// Upsert stores the value.
func (r *Raw[T]) Upsert(value T) error {
	return r.context.st.EncodeStorage(r.context.addr, r.pos, func() ([]byte, error) {
		return rlp.EncodeToBytes(value)
	})
}

// Delete clears the slot.
func (r *Raw[T]) Delete() {
	r.context.st.SetRawStorage(r.context.addr, r.pos, nil)
}
