// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/wasabi-swap-team/wasabix-yum-polygon/state"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/yum"
)

// Context is the storage scope of one builtin contract.
type Context struct {
	addr yum.Address
	st   *state.State
}

// NewContext scopes st to the contract at addr.
func NewContext(addr yum.Address, st *state.State) *Context {
	return &Context{addr, st}
}

func (c *Context) Address() yum.Address { return c.addr }
func (c *Context) State() *state.State  { return c.st }

// Atomic runs fn from a checkpoint of the shared state. When fn fails the
// state rolls back to it, taking writes to other contracts and emitted
// events with it.
func (c *Context) Atomic(fn func() error) (err error) {
	cp := c.st.NewCheckpoint()
	defer func() {
		if err != nil {
			c.st.RevertTo(cp)
		}
	}()
	return fn()
}
