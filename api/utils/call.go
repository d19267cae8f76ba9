// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"

	"github.com/wasabi-swap-team/wasabix-yum-polygon/runtime"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/yum"
)

// CallRequest is embedded by every mutating request.
// The service trusts callers to be who they claim.
type CallRequest struct {
	Caller *yum.Address `json:"caller"`
}

// CallerOf returns the acting address of a request.
func (c *CallRequest) CallerOf() (yum.Address, error) {
	if c.Caller == nil {
		return yum.Address{}, BadRequest(errors.New("caller: required"))
	}
	return *c.Caller, nil
}

// Event is an event emitted by a call.
type Event struct {
	Address yum.Address   `json:"address"`
	Topics  []yum.Bytes32 `json:"topics"`
	Data    hexutil.Bytes `json:"data"`
}

// Receipt describes a committed call.
type Receipt struct {
	CallSeq     uint64      `json:"callSeq"`
	CallTime    uint64      `json:"callTime"`
	Method      string      `json:"method"`
	Caller      yum.Address `json:"caller"`
	Events      []*Event    `json:"events"`
	StateDigest yum.Bytes32 `json:"stateDigest"`
}

// ConvertReceipt converts a runtime receipt for responses.
func ConvertReceipt(r *runtime.Receipt) *Receipt {
	events := make([]*Event, 0, len(r.Events))
	for _, e := range r.Events {
		events = append(events, &Event{
			Address: e.Address,
			Topics:  e.Topics,
			Data:    e.Data,
		})
	}
	return &Receipt{
		CallSeq:     r.CallSeq,
		CallTime:    r.CallTime,
		Method:      r.Method,
		Caller:      r.Caller,
		Events:      events,
		StateDigest: r.StateDigest,
	}
}

// Exec runs fn as one call of req's caller and responds the receipt.
func Exec(w http.ResponseWriter, rt *runtime.Runtime, method string, req *CallRequest, fn runtime.Func) error {
	caller, err := req.CallerOf()
	if err != nil {
		return err
	}
	receipt, err := rt.Exec(method, caller, fn)
	if err != nil {
		return err
	}
	return WriteJSON(w, ConvertReceipt(receipt))
}
