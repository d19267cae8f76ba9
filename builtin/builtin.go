// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/wasabi-swap-team/wasabix-yum-polygon/builtin/governance"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/builtin/pools"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/builtin/token"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/builtin/vesting"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/state"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/yum"
)

// Builtin contracts binding.
var (
	Pools   = &poolsContract{yum.BytesToAddress([]byte("StakingPools"))}
	Vesting = &vestingContract{yum.BytesToAddress([]byte("RewardVesting"))}
)

type (
	poolsContract   struct{ Address yum.Address }
	vestingContract struct{ Address yum.Address }
)

func (p *poolsContract) WithState(state *state.State) *pools.Pools {
	return pools.New(p.Address, state, &poolsEnv{state})
}

func (v *vestingContract) WithState(state *state.State) *vesting.Vesting {
	return vesting.New(v.Address, state, &vestingEnv{state})
}

// Governed is implemented by contracts holding a governance capability.
type Governed interface {
	Address() yum.Address
	Governance() *governance.Governance
	SetPendingGovernor(caller, addr yum.Address) error
	AcceptGovernor(caller yum.Address) error
	SetSentinel(caller, addr yum.Address) error
	SetPause(caller yum.Address, paused bool) error
}

var (
	_ Governed = (*pools.Pools)(nil)
	_ Governed = (*vesting.Vesting)(nil)
)

// Contracts binds every contract to one state, so a failing call reverts all of them together.
type Contracts struct {
	State   *state.State
	Pools   *pools.Pools
	Vesting *vesting.Vesting
}

func New(state *state.State) *Contracts {
	return &Contracts{
		State:   state,
		Pools:   Pools.WithState(state),
		Vesting: Vesting.WithState(state),
	}
}

// Token returns the ledger of the token at addr.
func (c *Contracts) Token(addr yum.Address) *token.Token {
	return token.New(addr, c.State)
}

type poolsEnv struct {
	state *state.State
}

func (e *poolsEnv) Token(addr yum.Address) pools.Ledger {
	return token.New(addr, e.state)
}

func (e *poolsEnv) Sink(addr yum.Address) pools.Sink {
	return vesting.New(addr, e.state, &vestingEnv{e.state})
}

type vestingEnv struct {
	state *state.State
}

func (e *vestingEnv) Token(addr yum.Address) vesting.Ledger {
	return token.New(addr, e.state)
}
