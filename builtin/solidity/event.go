// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/wasabi-swap-team/wasabix-yum-polygon/yum"
)

// Event describes an event type by its signature, e.g. "Deposited(uint256,address,uint256)".
type Event struct {
	signature string
	id        yum.Bytes32
}

func NewEvent(signature string) *Event {
	return &Event{signature: signature, id: yum.Keccak256([]byte(signature))}
}

// ID is the first topic of emitted events.
func (e *Event) ID() yum.Bytes32 {
	return e.id
}

func (e *Event) Signature() string {
	return e.signature
}

// Emit records an event. Data values are rlp encoded as a list.
func (e *Event) Emit(ctx *Context, topics []yum.Bytes32, data ...any) error {
	encoded, err := rlp.EncodeToBytes(data)
	if err != nil {
		return err
	}
	ctx.st.AddEvent(&yum.Event{
		Address: ctx.addr,
		Topics:  append([]yum.Bytes32{e.id}, topics...),
		Data:    encoded,
	})
	return nil
}

// AddressTopic converts an address to an event topic.
func AddressTopic(addr yum.Address) yum.Bytes32 {
	return yum.BytesToBytes32(addr.Bytes())
}

// Uint64Topic converts an integer to an event topic.
func Uint64Topic(v uint64) yum.Bytes32 {
	return yum.BytesToBytes32(Uint64Key(v).Bytes())
}
