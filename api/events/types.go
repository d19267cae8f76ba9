// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"fmt"
	"math"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/wasabi-swap-team/wasabix-yum-polygon/logdb"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/yum"
)

type EventCriteria struct {
	Address *yum.Address `json:"address"`
	TopicSet
}

type TopicSet struct {
	Topic0 *yum.Bytes32 `json:"topic0"`
	Topic1 *yum.Bytes32 `json:"topic1"`
	Topic2 *yum.Bytes32 `json:"topic2"`
	Topic3 *yum.Bytes32 `json:"topic3"`
	Topic4 *yum.Bytes32 `json:"topic4"`
}

type Range struct {
	Unit logdb.RangeType `json:"unit"`
	From *uint64         `json:"from,omitempty"`
	To   *uint64         `json:"to,omitempty"`
}

type Options struct {
	Offset uint64 `json:"offset"`
	Limit  uint64 `json:"limit"`
}

type EventFilter struct {
	CriteriaSet []*EventCriteria `json:"criteriaSet"`
	Range       *Range           `json:"range"`
	Options     *Options         `json:"options"`
	Order       logdb.Order      `json:"order"`
}

type LogMeta struct {
	CallSeq  uint64      `json:"callSeq"`
	CallTime uint64      `json:"callTime"`
	Method   string      `json:"method"`
	Caller   yum.Address `json:"caller"`
	Index    uint32      `json:"index"`
}

type FilteredEvent struct {
	Address yum.Address   `json:"address"`
	Topics  []yum.Bytes32 `json:"topics"`
	Data    hexutil.Bytes `json:"data"`
	Meta    LogMeta       `json:"meta"`
}

func convertRange(r *Range) (*logdb.Range, error) {
	if r == nil {
		return nil, nil
	}
	out := &logdb.Range{Unit: r.Unit, To: math.MaxInt64}
	switch r.Unit {
	case logdb.Call, logdb.Time:
	case "":
		out.Unit = logdb.Call
	default:
		return nil, fmt.Errorf("range.unit: unsupported %q", r.Unit)
	}
	if r.From != nil {
		out.From = *r.From
	}
	if r.To != nil {
		out.To = min(*r.To, math.MaxInt64)
	}
	if out.From > out.To {
		return nil, fmt.Errorf("range.to must be greater than or equal to range.from")
	}
	return out, nil
}

func convertFilter(ef *EventFilter) (*logdb.EventFilter, error) {
	rng, err := convertRange(ef.Range)
	if err != nil {
		return nil, err
	}
	f := &logdb.EventFilter{
		Range: rng,
		Order: ef.Order,
	}
	switch ef.Order {
	case logdb.ASC, logdb.DESC:
	case "":
		f.Order = logdb.ASC
	default:
		return nil, fmt.Errorf("order: unsupported %q", ef.Order)
	}
	if ef.Options != nil {
		f.Options = &logdb.Options{Offset: ef.Options.Offset, Limit: ef.Options.Limit}
	}
	for i, c := range ef.CriteriaSet {
		if c == nil {
			return nil, fmt.Errorf("criteriaSet[%d]: null not allowed", i)
		}
		f.CriteriaSet = append(f.CriteriaSet, &logdb.EventCriteria{
			Address: c.Address,
			Topics:  [5]*yum.Bytes32{c.Topic0, c.Topic1, c.Topic2, c.Topic3, c.Topic4},
		})
	}
	return f, nil
}

func convertEvent(e *logdb.Event) *FilteredEvent {
	fe := &FilteredEvent{
		Address: e.Address,
		Data:    e.Data,
		Meta: LogMeta{
			CallSeq:  e.CallSeq,
			CallTime: e.CallTime,
			Method:   e.Method,
			Caller:   e.Caller,
			Index:    e.Index,
		},
		Topics: make([]yum.Bytes32, 0, len(e.Topics)),
	}
	for _, topic := range e.Topics {
		if topic != nil {
			fe.Topics = append(fe.Topics, *topic)
		}
	}
	return fe
}
