// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package yum

// Event is emitted by a contract during a call.
// Topics[0] is the keccak hash of the event signature.
type Event struct {
	Address Address
	Topics  []Bytes32
	Data    []byte
}

// Events slice of events.
type Events []*Event

// Filter returns events matching the given address and first topic.
func (es Events) Filter(addr Address, topic0 Bytes32) Events {
	var out Events
	for _, e := range es {
		if e.Address == addr && len(e.Topics) > 0 && e.Topics[0] == topic0 {
			out = append(out, e)
		}
	}
	return out
}
