// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/wasabi-swap-team/wasabix-yum-polygon/yum"
)

// Address stores an address at a fixed slot.
type Address struct {
	context *Context
	pos     yum.Bytes32
}

func NewAddress(context *Context, pos yum.Bytes32) *Address {
	return &Address{context: context, pos: pos}
}

func (a *Address) Get() (yum.Address, error) {
	storage, err := a.context.st.GetStorage(a.context.addr, a.pos)
	if err != nil {
		return yum.Address{}, err
	}
	return yum.BytesToAddress(storage.Bytes()), nil
}

func (a *Address) Set(addr yum.Address) {
	a.context.st.SetStorage(a.context.addr, a.pos, yum.BytesToBytes32(addr.Bytes()))
}
