// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package vesting implements the reward vesting sink. Pushed earnings become withdrawable
// gradually and early withdrawals forfeit part of their value as penalty.
package vesting

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/wasabi-swap-team/wasabix-yum-polygon/builtin/governance"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/builtin/reverts"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/builtin/solidity"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/log"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/state"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/yum"
)

var (
	logger = log.WithContext("pkg", "vesting")

	slotConfig  = solidity.Slot("config")
	slotEntries = solidity.Slot("entries")
	slotPenalty = solidity.Slot("accumulated-penalty")
	slotSources = solidity.Slot("sources")

	EarningAddedEvent       = solidity.NewEvent("EarningAdded(address,uint256)")
	EarningWithdrawnEvent   = solidity.NewEvent("EarningWithdrawn(address,uint256,uint256)")
	PenaltyTransferredEvent = solidity.NewEvent("PenaltyTransferred(address,uint256)")
	SourceUpdatedEvent      = solidity.NewEvent("SourceUpdated(address,bool)")
	ScheduleUpdatedEvent    = solidity.NewEvent("ScheduleUpdated(uint256,uint256)")
)

// Ledger is the token interface of the vested asset.
type Ledger interface {
	Transfer(from, to yum.Address, amount *big.Int) error
	TransferFrom(spender, from, to yum.Address, amount *big.Int) error
}

// Env resolves the vested token.
type Env interface {
	Token(addr yum.Address) Ledger
}

// Config holds the sink parameters.
type Config struct {
	Token yum.Address
	// Duration is the granularity of earning timestamps.
	Duration uint64
	// Window is the time for an entry to become fully withdrawable.
	Window uint64
}

// Params initializes the sink.
type Params struct {
	Governor yum.Address
	Sentinel yum.Address
	Token    yum.Address
	Duration uint64
	Window   uint64
	Sources  []yum.Address
}

// Vesting implements the reward vesting contract.
type Vesting struct {
	sctx       *solidity.Context
	env        Env
	governance *governance.Governance
	config     *solidity.Raw[*Config]
	entries    *solidity.Mapping[yum.Address, *Entry]
	penalty    *solidity.Uint256
	sources    *solidity.Mapping[yum.Address, bool]
}

// New create a new instance.
func New(addr yum.Address, state *state.State, env Env) *Vesting {
	sctx := solidity.NewContext(addr, state)
	return &Vesting{
		sctx:       sctx,
		env:        env,
		governance: governance.New(sctx),
		config:     solidity.NewRaw[*Config](sctx, slotConfig),
		entries:    solidity.NewMapping[yum.Address, *Entry](sctx, slotEntries),
		penalty:    solidity.NewUint256(sctx, slotPenalty),
		sources:    solidity.NewMapping[yum.Address, bool](sctx, slotSources),
	}
}

func (v *Vesting) Address() yum.Address {
	return v.sctx.Address()
}

func (v *Vesting) Governance() *governance.Governance {
	return v.governance
}

// Initialize sets up the sink. Zero duration and window take the defaults.
func (v *Vesting) Initialize(params *Params) error {
	return v.sctx.Atomic(func() error {
		cfg, err := v.config.Get()
		if err != nil {
			return err
		}
		if cfg != nil {
			return errors.New("vesting already initialized")
		}
		if params.Token.IsZero() {
			return reverts.ErrZeroAddress
		}
		if err := v.governance.Initialize(params.Governor, params.Sentinel); err != nil {
			return err
		}
		cfg = &Config{Token: params.Token, Duration: params.Duration, Window: params.Window}
		if cfg.Duration == 0 {
			cfg.Duration = yum.DefaultVestingDuration
		}
		if cfg.Window == 0 {
			cfg.Window = yum.DefaultVestingWindow
		}
		if err := v.config.Upsert(cfg); err != nil {
			return err
		}
		for _, src := range params.Sources {
			if err := v.sources.Upsert(src, true); err != nil {
				return err
			}
		}
		return nil
	})
}

func (v *Vesting) Config() (*Config, error) {
	cfg, err := v.config.Get()
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, errors.New("vesting not initialized")
	}
	return cfg, nil
}

func (v *Vesting) IsSource(addr yum.Address) (bool, error) {
	return v.sources.Get(addr)
}

// SetSource allows or denies addr to push earnings. Governor only.
func (v *Vesting) SetSource(caller, source yum.Address, allowed bool) error {
	if source.IsZero() {
		return reverts.ErrZeroAddress
	}
	return v.sctx.Atomic(func() error {
		if err := v.governance.RequireGovernor(caller); err != nil {
			return err
		}
		if allowed {
			if err := v.sources.Upsert(source, true); err != nil {
				return err
			}
		} else {
			v.sources.Delete(source)
		}
		logger.Info("earning source updated", "source", source, "allowed", allowed)
		return SourceUpdatedEvent.Emit(v.sctx, []yum.Bytes32{solidity.AddressTopic(source)}, allowed)
	})
}

// SetSchedule changes the timestamp granularity and the vesting window. Governor only.
func (v *Vesting) SetSchedule(caller yum.Address, duration, window uint64) error {
	if duration == 0 {
		return reverts.ErrInvalidAmount
	}
	return v.sctx.Atomic(func() error {
		if err := v.governance.RequireGovernor(caller); err != nil {
			return err
		}
		cfg, err := v.Config()
		if err != nil {
			return err
		}
		cfg.Duration, cfg.Window = duration, window
		if err := v.config.Upsert(cfg); err != nil {
			return err
		}
		logger.Info("vesting schedule updated", "duration", duration, "window", window)
		return ScheduleUpdatedEvent.Emit(v.sctx, nil, duration, window)
	})
}

// AddEarning pulls amount from caller and vests it for user. Registered sources only.
func (v *Vesting) AddEarning(caller, user yum.Address, amount *big.Int, now uint64) error {
	if amount == nil || amount.Sign() <= 0 {
		return reverts.ErrInvalidAmount
	}
	if user.IsZero() {
		return reverts.ErrZeroAddress
	}
	return v.sctx.Atomic(func() error {
		if err := v.governance.RequireNotPaused(); err != nil {
			return err
		}
		allowed, err := v.sources.Get(caller)
		if err != nil {
			return err
		}
		if !allowed {
			return reverts.ErrUnknownSource
		}
		cfg, err := v.Config()
		if err != nil {
			return err
		}
		if err := v.env.Token(cfg.Token).TransferFrom(v.Address(), caller, v.Address(), amount); err != nil {
			return err
		}

		entry, err := v.entries.Get(user)
		if err != nil {
			return err
		}
		if entry == nil {
			entry = &Entry{Principal: new(big.Int), Withdrawn: new(big.Int)}
		}
		ts := now
		if cfg.Duration > 0 {
			ts = now - now%cfg.Duration
		}
		logger.Debug("adding earning", "user", user, "amount", amount, "ts", ts)
		entry.merge(amount, ts)
		if err := v.entries.Upsert(user, entry); err != nil {
			return err
		}
		logger.Info("earning added", "user", user, "amount", amount, "principal", entry.Principal, "vestStart", entry.VestStart)
		return EarningAddedEvent.Emit(v.sctx, []yum.Bytes32{solidity.AddressTopic(user)}, amount)
	})
}

// WithdrawEarning pays amount to user. The unvested share of the value it consumes is kept as penalty.
func (v *Vesting) WithdrawEarning(user yum.Address, amount *big.Int, now uint64) error {
	if amount == nil || amount.Sign() <= 0 {
		return reverts.ErrInvalidAmount
	}
	return v.sctx.Atomic(func() error {
		if err := v.governance.RequireNotPaused(); err != nil {
			return err
		}
		cfg, err := v.Config()
		if err != nil {
			return err
		}
		entry, err := v.entries.Get(user)
		if err != nil {
			return err
		}
		if entry == nil {
			return reverts.ErrInsufficientAvailable
		}
		available, _ := entry.available(now, cfg.Window)
		if amount.Cmp(available) > 0 {
			return reverts.ErrInsufficientAvailable
		}

		consumed := entry.consume(amount, now, cfg.Window)
		penalty := new(big.Int).Sub(consumed, amount)
		logger.Debug("withdrawing earning", "user", user, "amount", amount, "penalty", penalty)

		entry.Withdrawn = new(big.Int).Add(entry.Withdrawn, consumed)
		if entry.Remaining().Sign() == 0 {
			v.entries.Delete(user)
		} else if err := v.entries.Update(user, entry); err != nil {
			return err
		}
		if err := v.penalty.Add(penalty); err != nil {
			return err
		}
		if err := v.env.Token(cfg.Token).Transfer(v.Address(), user, amount); err != nil {
			return err
		}
		logger.Info("earning withdrawn", "user", user, "amount", amount, "penalty", penalty)
		return EarningWithdrawnEvent.Emit(v.sctx, []yum.Bytes32{solidity.AddressTopic(user)}, amount, penalty)
	})
}

// TransferPenalty pays the whole accumulated penalty to to. Governor only.
func (v *Vesting) TransferPenalty(caller, to yum.Address) error {
	if to.IsZero() {
		return reverts.ErrZeroAddress
	}
	return v.sctx.Atomic(func() error {
		if err := v.governance.RequireGovernor(caller); err != nil {
			return err
		}
		cfg, err := v.Config()
		if err != nil {
			return err
		}
		amount, err := v.penalty.Get()
		if err != nil {
			return err
		}
		if err := v.penalty.Set(new(big.Int)); err != nil {
			return err
		}
		if amount.Sign() > 0 {
			if err := v.env.Token(cfg.Token).Transfer(v.Address(), to, amount); err != nil {
				return err
			}
		}
		logger.Info("penalty transferred", "to", to, "amount", amount)
		return PenaltyTransferredEvent.Emit(v.sctx, []yum.Bytes32{solidity.AddressTopic(to)}, amount)
	})
}

// AccumulatedPenalty returns the forfeited value not yet transferred out.
func (v *Vesting) AccumulatedPenalty() (*big.Int, error) {
	return v.penalty.Get()
}

// Entry returns the vesting entry of user, nil if there is none.
func (v *Vesting) Entry(user yum.Address) (*Entry, error) {
	return v.entries.Get(user)
}

// AvailableEarning returns what user can withdraw at now and the penalty a full withdrawal would leave.
func (v *Vesting) AvailableEarning(user yum.Address, now uint64) (*big.Int, *big.Int, error) {
	cfg, err := v.Config()
	if err != nil {
		return nil, nil, err
	}
	entry, err := v.entries.Get(user)
	if err != nil {
		return nil, nil, err
	}
	if entry == nil {
		return new(big.Int), new(big.Int), nil
	}
	amount, penalty := entry.available(now, cfg.Window)
	return amount, penalty, nil
}

// Status returns the vesting state of user at now.
func (v *Vesting) Status(user yum.Address, now uint64) (Status, error) {
	cfg, err := v.Config()
	if err != nil {
		return Idle, err
	}
	entry, err := v.entries.Get(user)
	if err != nil {
		return Idle, err
	}
	if entry == nil {
		return Idle, nil
	}
	if entry.fraction(now, cfg.Window).Cmp(yum.FractionPrecision) < 0 {
		return Accruing, nil
	}
	return FullyVested, nil
}

func (v *Vesting) SetPendingGovernor(caller, addr yum.Address) error {
	return v.sctx.Atomic(func() error { return v.governance.SetPendingGovernor(caller, addr) })
}

func (v *Vesting) AcceptGovernor(caller yum.Address) error {
	return v.sctx.Atomic(func() error { return v.governance.AcceptGovernor(caller) })
}

func (v *Vesting) SetSentinel(caller, addr yum.Address) error {
	return v.sctx.Atomic(func() error { return v.governance.SetSentinel(caller, addr) })
}

func (v *Vesting) SetPause(caller yum.Address, paused bool) error {
	return v.sctx.Atomic(func() error { return v.governance.SetPause(caller, paused) })
}
