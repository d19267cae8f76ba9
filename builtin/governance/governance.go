// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package governance implements the administrative capability shared by the pool registry and the
// vesting sink: a governor with two-step handover, a sentinel and a pause switch.
package governance

import (
	"github.com/wasabi-swap-team/wasabix-yum-polygon/builtin/reverts"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/builtin/solidity"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/yum"
)

var (
	slotGovernor        = solidity.Slot("governance")
	slotPendingGovernor = solidity.Slot("pending-governance")
	slotSentinel        = solidity.Slot("sentinel")
	slotPaused          = solidity.Slot("paused")

	PendingGovernanceUpdatedEvent = solidity.NewEvent("PendingGovernanceUpdated(address)")
	GovernanceUpdatedEvent        = solidity.NewEvent("GovernanceUpdated(address)")
	SentinelUpdatedEvent          = solidity.NewEvent("SentinelUpdated(address)")
	PauseUpdatedEvent             = solidity.NewEvent("PauseUpdated(bool)")
)

// Governance is stored at the address of the contract it guards.
type Governance struct {
	sctx     *solidity.Context
	governor *solidity.Address
	pending  *solidity.Address
	sentinel *solidity.Address
	paused   *solidity.Raw[bool]
}

func New(sctx *solidity.Context) *Governance {
	return &Governance{
		sctx:     sctx,
		governor: solidity.NewAddress(sctx, slotGovernor),
		pending:  solidity.NewAddress(sctx, slotPendingGovernor),
		sentinel: solidity.NewAddress(sctx, slotSentinel),
		paused:   solidity.NewRaw[bool](sctx, slotPaused),
	}
}

// Initialize sets the first governor and sentinel.
func (g *Governance) Initialize(governor, sentinel yum.Address) error {
	if governor.IsZero() {
		return reverts.ErrZeroAddress
	}
	g.governor.Set(governor)
	g.sentinel.Set(sentinel)
	return nil
}

func (g *Governance) Governor() (yum.Address, error) {
	return g.governor.Get()
}

func (g *Governance) PendingGovernor() (yum.Address, error) {
	return g.pending.Get()
}

func (g *Governance) Sentinel() (yum.Address, error) {
	return g.sentinel.Get()
}

func (g *Governance) IsPaused() (bool, error) {
	return g.paused.Get()
}

// SetPendingGovernor nominates the next governor.
func (g *Governance) SetPendingGovernor(caller, addr yum.Address) error {
	if err := g.RequireGovernor(caller); err != nil {
		return err
	}
	if addr.IsZero() {
		return reverts.ErrZeroPendingGovernor
	}
	g.pending.Set(addr)
	return PendingGovernanceUpdatedEvent.Emit(g.sctx, nil, addr)
}

// AcceptGovernor completes the handover. Only the pending governor may call it.
func (g *Governance) AcceptGovernor(caller yum.Address) error {
	pending, err := g.pending.Get()
	if err != nil {
		return err
	}
	if pending.IsZero() || caller != pending {
		return reverts.ErrOnlyGovernance
	}
	g.governor.Set(pending)
	g.pending.Set(yum.Address{})
	return GovernanceUpdatedEvent.Emit(g.sctx, nil, pending)
}

func (g *Governance) SetSentinel(caller, addr yum.Address) error {
	if err := g.RequireGovernor(caller); err != nil {
		return err
	}
	if addr.IsZero() {
		return reverts.ErrZeroAddress
	}
	g.sentinel.Set(addr)
	return SentinelUpdatedEvent.Emit(g.sctx, nil, addr)
}

// SetPause toggles the pause switch. Governor or sentinel.
func (g *Governance) SetPause(caller yum.Address, paused bool) error {
	if err := g.RequireGovernorOrSentinel(caller); err != nil {
		return err
	}
	if err := g.paused.Upsert(paused); err != nil {
		return err
	}
	return PauseUpdatedEvent.Emit(g.sctx, nil, paused)
}

func (g *Governance) RequireGovernor(caller yum.Address) error {
	gov, err := g.governor.Get()
	if err != nil {
		return err
	}
	if caller != gov {
		return reverts.ErrOnlyGovernance
	}
	return nil
}

func (g *Governance) RequireGovernorOrSentinel(caller yum.Address) error {
	gov, err := g.governor.Get()
	if err != nil {
		return err
	}
	if caller == gov {
		return nil
	}
	sentinel, err := g.sentinel.Get()
	if err != nil {
		return err
	}
	if sentinel.IsZero() || caller != sentinel {
		return reverts.ErrOnlyGovernance
	}
	return nil
}

func (g *Governance) RequireNotPaused() error {
	paused, err := g.paused.Get()
	if err != nil {
		return err
	}
	if paused {
		return reverts.ErrPaused
	}
	return nil
}

func (g *Governance) RequirePaused() error {
	paused, err := g.paused.Get()
	if err != nil {
		return err
	}
	if !paused {
		return reverts.ErrNotPaused
	}
	return nil
}
