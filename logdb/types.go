// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"github.com/wasabi-swap-team/wasabix-yum-polygon/yum"
)

// Event represents yum.Event that can be stored in db.
type Event struct {
	CallSeq  uint64
	Index    uint32
	CallTime uint64
	Method   string
	Caller   yum.Address
	Address  yum.Address // always a contract address
	Topics   [5]*yum.Bytes32
	Data     []byte
}

type RangeType string

const (
	Call RangeType = "call"
	Time RangeType = "time"
)

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

type Range struct {
	Unit RangeType
	From uint64
	To   uint64
}

type Options struct {
	Offset uint64
	Limit  uint64
}

type EventCriteria struct {
	Address *yum.Address // always a contract address
	Topics  [5]*yum.Bytes32
}

// EventFilter filter
type EventFilter struct {
	CriteriaSet []*EventCriteria
	Range       *Range
	Options     *Options
	Order       Order // default asc
}
