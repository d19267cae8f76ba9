// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/wasabi-swap-team/wasabix-yum-polygon/yum"
)

type LogMeta struct {
	CallSeq  uint64      `json:"callSeq"`
	CallTime uint64      `json:"callTime"`
	Method   string      `json:"method"`
	Caller   yum.Address `json:"caller"`
	Index    uint32      `json:"index"`
}

// EventMessage is an event pushed to subscribers.
type EventMessage struct {
	Address yum.Address   `json:"address"`
	Topics  []yum.Bytes32 `json:"topics"`
	Data    hexutil.Bytes `json:"data"`
	Meta    LogMeta       `json:"meta"`
}

// EventFilter selects events by contract address and positional topics. Nil fields match anything.
type EventFilter struct {
	Address *yum.Address
	Topics  [5]*yum.Bytes32
}

func (f *EventFilter) Match(ev *yum.Event) bool {
	if f.Address != nil && *f.Address != ev.Address {
		return false
	}
	for i, topic := range f.Topics {
		if topic == nil {
			continue
		}
		if i >= len(ev.Topics) || ev.Topics[i] != *topic {
			return false
		}
	}
	return true
}
