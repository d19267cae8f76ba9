// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

const (
	indexBits = 24
	indexMask = 1<<indexBits - 1
	maxCall   = 1<<(63-indexBits) - 1
)

// sequence orders events by call then by position in the call.
type sequence int64

func newSequence(callSeq uint64, index uint32) sequence {
	if callSeq > maxCall {
		panic("call sequence too large")
	}
	if index&indexMask != index {
		panic("index too large")
	}
	return sequence(callSeq<<indexBits) | sequence(index)
}

func (s sequence) CallSeq() uint64 {
	return uint64(s) >> indexBits
}

func (s sequence) Index() uint32 {
	return uint32(s & indexMask)
}
