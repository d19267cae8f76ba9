// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"encoding/binary"

	"github.com/wasabi-swap-team/wasabix-yum-polygon/cache"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/yum"
)

// Key is a mapping key.
type Key interface {
	Bytes() []byte
}

// Uint64Key is an integer mapping key.
type Uint64Key uint64

func (k Uint64Key) Bytes() []byte {
	return binary.BigEndian.AppendUint64(nil, uint64(k))
}

// Slot derives a named storage slot.
func Slot(name string) yum.Bytes32 {
	return yum.BytesToBytes32([]byte(name))
}

var positions = cache.MustNewLRU[string, yum.Bytes32](16384)

// position returns the storage position of key under basePos.
func position(key []byte, basePos yum.Bytes32) yum.Bytes32 {
	k := string(key) + string(basePos[:])
	if pos, ok := positions.Get(k); ok {
		return pos
	}
	pos := yum.Blake2b(key, basePos[:])
	positions.Add(k, pos)
	return pos
}
