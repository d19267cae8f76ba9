// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package pools implements the staking pool registry. Rewards are minted at a global rate, split
// between pools by weight and within a pool by boosted working stake.
package pools

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/wasabi-swap-team/wasabix-yum-polygon/builtin/governance"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/builtin/pools/feediscount"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/builtin/reverts"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/builtin/solidity"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/log"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/state"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/yum"
)

var (
	logger = log.WithContext("pkg", "pools")

	slotConfig        = solidity.Slot("config")
	slotDiscountTable = solidity.Slot("discount-table")
	slotPoolCount     = solidity.Slot("pool-count")
	slotPools         = solidity.Slot("pools")
	slotAssets        = solidity.Slot("assets")
	slotPositions     = solidity.Slot("positions")
	slotUsers         = solidity.Slot("users")
)

// Config holds the registry wide parameters.
type Config struct {
	RewardToken    yum.Address
	BoostToken     yum.Address
	RewardVesting  yum.Address
	FeeCollector   yum.Address
	RewardRate     *big.Int
	TotalWeight    uint64
	WithdrawFeeBps uint64
}

// Params initializes the registry.
type Params struct {
	Governor      yum.Address
	Sentinel      yum.Address
	RewardToken   yum.Address
	BoostToken    yum.Address
	RewardVesting yum.Address
	FeeCollector  yum.Address
	RewardRate    *big.Int
	// WithdrawFeeBps defaults to 50 when nil.
	WithdrawFeeBps *uint64
	// DiscountTable defaults to feediscount.Default() when nil.
	DiscountTable *feediscount.Table
}

// Pools implements the staking pool registry contract.
type Pools struct {
	sctx          *solidity.Context
	env           Env
	governance    *governance.Governance
	config        *solidity.Raw[*Config]
	discountTable *solidity.Raw[*feediscount.Table]
	poolCount     *solidity.Raw[uint64]
	pools         *solidity.Mapping[solidity.Uint64Key, *Pool]
	assets        *solidity.Mapping[yum.Address, uint64]
	positions     *solidity.Mapping[positionKey, *Position]
	users         *solidity.Mapping[userIndexKey, yum.Address]
}

// New create a new instance.
func New(addr yum.Address, state *state.State, env Env) *Pools {
	sctx := solidity.NewContext(addr, state)
	return &Pools{
		sctx:          sctx,
		env:           env,
		governance:    governance.New(sctx),
		config:        solidity.NewRaw[*Config](sctx, slotConfig),
		discountTable: solidity.NewRaw[*feediscount.Table](sctx, slotDiscountTable),
		poolCount:     solidity.NewRaw[uint64](sctx, slotPoolCount),
		pools:         solidity.NewMapping[solidity.Uint64Key, *Pool](sctx, slotPools),
		assets:        solidity.NewMapping[yum.Address, uint64](sctx, slotAssets),
		positions:     solidity.NewMapping[positionKey, *Position](sctx, slotPositions),
		users:         solidity.NewMapping[userIndexKey, yum.Address](sctx, slotUsers),
	}
}

func (p *Pools) Address() yum.Address {
	return p.sctx.Address()
}

func (p *Pools) Governance() *governance.Governance {
	return p.governance
}

// Initialize sets up the registry and lets the reward vesting sink pull minted rewards.
func (p *Pools) Initialize(params *Params) error {
	return p.sctx.Atomic(func() error {
		cfg, err := p.config.Get()
		if err != nil {
			return err
		}
		if cfg != nil {
			return errors.New("pools already initialized")
		}
		if params.RewardToken.IsZero() || params.FeeCollector.IsZero() {
			return reverts.ErrZeroAddress
		}
		if err := p.governance.Initialize(params.Governor, params.Sentinel); err != nil {
			return err
		}

		rate := params.RewardRate
		if rate == nil {
			rate = new(big.Int)
		}
		fee := yum.DefaultWithdrawFeeBps
		if params.WithdrawFeeBps != nil {
			fee = *params.WithdrawFeeBps
		}
		if fee > yum.MaxFeeBps {
			return reverts.ErrInvalidFee
		}
		table := params.DiscountTable
		if table == nil {
			table = feediscount.Default()
		} else if table, err = feediscount.New(table.Thresholds, table.Discounts); err != nil {
			return err
		}

		if err := p.config.Upsert(&Config{
			RewardToken:    params.RewardToken,
			BoostToken:     params.BoostToken,
			RewardVesting:  params.RewardVesting,
			FeeCollector:   params.FeeCollector,
			RewardRate:     new(big.Int).Set(rate),
			WithdrawFeeBps: fee,
		}); err != nil {
			return err
		}
		if err := p.discountTable.Upsert(table); err != nil {
			return err
		}
		if !params.RewardVesting.IsZero() {
			return p.env.Token(params.RewardToken).Approve(p.Address(), params.RewardVesting, yum.MaxUint256)
		}
		return nil
	})
}

// Config returns the registry parameters.
func (p *Pools) Config() (*Config, error) {
	cfg, err := p.config.Get()
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, errors.New("pools not initialized")
	}
	return cfg, nil
}

func (p *Pools) DiscountTable() (*feediscount.Table, error) {
	return p.discountTable.Get()
}

func (p *Pools) PoolCount() (uint64, error) {
	return p.poolCount.Get()
}

// Pool returns the stored pool, reverts.ErrUnknownPool if absent.
func (p *Pools) Pool(id uint64) (*Pool, error) {
	pool, err := p.pools.Get(solidity.Uint64Key(id))
	if err != nil {
		return nil, err
	}
	if pool == nil {
		return nil, reverts.ErrUnknownPool
	}
	return pool, nil
}

// PoolByAsset returns the id of the pool staking asset.
func (p *Pools) PoolByAsset(asset yum.Address) (uint64, bool, error) {
	exists, err := p.assets.Exists(asset)
	if err != nil || !exists {
		return 0, false, err
	}
	id, err := p.assets.Get(asset)
	return id, err == nil, err
}

// CreatePool appends a pool for asset. Governor only.
func (p *Pools) CreatePool(caller, asset yum.Address, weight uint64, vestingEnabled bool, lockDuration, earlyFeeBps uint64, now uint64) (uint64, error) {
	var id uint64
	err := p.sctx.Atomic(func() error {
		if err := p.governance.RequireGovernor(caller); err != nil {
			return err
		}
		if asset.IsZero() {
			return reverts.ErrZeroAddress
		}
		if earlyFeeBps > yum.MaxFeeBps {
			return reverts.ErrInvalidFee
		}
		if _, exists, err := p.PoolByAsset(asset); err != nil {
			return err
		} else if exists {
			return reverts.ErrPoolExists
		}

		cfg, err := p.Config()
		if err != nil {
			return err
		}
		if err := p.massUpdate(cfg, now); err != nil {
			return err
		}

		if id, err = p.poolCount.Get(); err != nil {
			return err
		}
		pool := newPool(asset, weight, now)
		pool.VestingEnabled = vestingEnabled
		pool.LockDuration = lockDuration
		pool.EarlyFeeBps = earlyFeeBps

		logger.Debug("creating pool", "pool", id, "asset", asset, "weight", weight)
		if err := p.pools.Insert(solidity.Uint64Key(id), pool); err != nil {
			return err
		}
		if err := p.assets.Insert(asset, id); err != nil {
			return err
		}
		if err := p.poolCount.Upsert(id + 1); err != nil {
			return err
		}
		cfg.TotalWeight += weight
		if err := p.config.Upsert(cfg); err != nil {
			return err
		}
		logger.Info("pool created", "pool", id, "asset", asset, "totalWeight", cfg.TotalWeight)
		return PoolCreatedEvent.Emit(p.sctx, []yum.Bytes32{solidity.Uint64Topic(id), solidity.AddressTopic(asset)}, weight)
	})
	return id, err
}

// SetPoolWeight changes the allocation weight of a pool after accruing every pool. Governor only.
func (p *Pools) SetPoolWeight(caller yum.Address, id uint64, weight uint64, now uint64) error {
	return p.sctx.Atomic(func() error {
		if err := p.governance.RequireGovernor(caller); err != nil {
			return err
		}
		cfg, err := p.Config()
		if err != nil {
			return err
		}
		if err := p.massUpdate(cfg, now); err != nil {
			return err
		}
		pool, err := p.Pool(id)
		if err != nil {
			return err
		}

		logger.Debug("updating pool weight", "pool", id, "from", pool.Weight, "to", weight)
		cfg.TotalWeight = cfg.TotalWeight - pool.Weight + weight
		pool.Weight = weight
		if err := p.pools.Update(solidity.Uint64Key(id), pool); err != nil {
			return err
		}
		if err := p.config.Upsert(cfg); err != nil {
			return err
		}
		logger.Info("pool weight updated", "pool", id, "weight", weight, "totalWeight", cfg.TotalWeight)
		return PoolWeightUpdatedEvent.Emit(p.sctx, []yum.Bytes32{solidity.Uint64Topic(id)}, weight)
	})
}

// SetPoolParams changes the vesting flag and the early withdrawal terms of a pool. Governor only.
func (p *Pools) SetPoolParams(caller yum.Address, id uint64, vestingEnabled bool, lockDuration, earlyFeeBps uint64) error {
	return p.sctx.Atomic(func() error {
		if err := p.governance.RequireGovernor(caller); err != nil {
			return err
		}
		if earlyFeeBps > yum.MaxFeeBps {
			return reverts.ErrInvalidFee
		}
		pool, err := p.Pool(id)
		if err != nil {
			return err
		}
		pool.VestingEnabled = vestingEnabled
		pool.LockDuration = lockDuration
		pool.EarlyFeeBps = earlyFeeBps
		if err := p.pools.Update(solidity.Uint64Key(id), pool); err != nil {
			return err
		}
		logger.Info("pool params updated", "pool", id, "vesting", vestingEnabled, "lock", lockDuration, "earlyFeeBps", earlyFeeBps)
		return PoolParamsUpdatedEvent.Emit(p.sctx, []yum.Bytes32{solidity.Uint64Topic(id)}, vestingEnabled, lockDuration, earlyFeeBps)
	})
}

// SetRewardRate changes the global reward rate after accruing every pool at the old one. Governor only.
func (p *Pools) SetRewardRate(caller yum.Address, rate *big.Int, now uint64) error {
	if rate == nil || rate.Sign() < 0 {
		return reverts.ErrInvalidAmount
	}
	return p.sctx.Atomic(func() error {
		if err := p.governance.RequireGovernor(caller); err != nil {
			return err
		}
		cfg, err := p.Config()
		if err != nil {
			return err
		}
		if err := p.massUpdate(cfg, now); err != nil {
			return err
		}
		logger.Debug("updating reward rate", "from", cfg.RewardRate, "to", rate)
		cfg.RewardRate = new(big.Int).Set(rate)
		if err := p.config.Upsert(cfg); err != nil {
			return err
		}
		logger.Info("reward rate updated", "rate", rate)
		return RewardRateUpdatedEvent.Emit(p.sctx, nil, rate)
	})
}

// SetWithdrawFee changes the base withdrawal fee in basis points. Governor only.
func (p *Pools) SetWithdrawFee(caller yum.Address, bps uint64) error {
	if bps > yum.MaxFeeBps {
		return reverts.ErrInvalidFee
	}
	return p.updateConfig(caller, func(cfg *Config) error {
		cfg.WithdrawFeeBps = bps
		logger.Info("withdraw fee updated", "bps", bps)
		return WithdrawFeeUpdatedEvent.Emit(p.sctx, nil, bps)
	})
}

// SetFeeCollector changes the receiver of withdrawal fees. Governor only.
func (p *Pools) SetFeeCollector(caller, collector yum.Address) error {
	if collector.IsZero() {
		return reverts.ErrZeroAddress
	}
	return p.updateConfig(caller, func(cfg *Config) error {
		cfg.FeeCollector = collector
		logger.Info("fee collector updated", "collector", collector)
		return FeeCollectorUpdatedEvent.Emit(p.sctx, []yum.Bytes32{solidity.AddressTopic(collector)})
	})
}

// SetFeeDiscountTable replaces the boost balance discount tiers. Governor only.
func (p *Pools) SetFeeDiscountTable(caller yum.Address, thresholds []*big.Int, discounts []uint64) error {
	return p.sctx.Atomic(func() error {
		if err := p.governance.RequireGovernor(caller); err != nil {
			return err
		}
		table, err := feediscount.New(thresholds, discounts)
		if err != nil {
			return err
		}
		if err := p.discountTable.Upsert(table); err != nil {
			return err
		}
		logger.Info("fee discount table updated", "tiers", len(table.Thresholds))
		return FeeDiscountTableUpdatedEvent.Emit(p.sctx, nil, table.Thresholds, table.Discounts)
	})
}

// SetRewardVesting switches the sink of vesting pools. Only while paused, by governor or sentinel.
func (p *Pools) SetRewardVesting(caller, sink yum.Address) error {
	if sink.IsZero() {
		return reverts.ErrZeroAddress
	}
	return p.sctx.Atomic(func() error {
		if err := p.governance.RequirePaused(); err != nil {
			return err
		}
		if err := p.governance.RequireGovernorOrSentinel(caller); err != nil {
			return err
		}
		cfg, err := p.Config()
		if err != nil {
			return err
		}
		reward := p.env.Token(cfg.RewardToken)
		if !cfg.RewardVesting.IsZero() {
			if err := reward.Approve(p.Address(), cfg.RewardVesting, new(big.Int)); err != nil {
				return err
			}
		}
		if err := reward.Approve(p.Address(), sink, yum.MaxUint256); err != nil {
			return err
		}
		cfg.RewardVesting = sink
		if err := p.config.Upsert(cfg); err != nil {
			return err
		}
		logger.Info("reward vesting updated", "sink", sink)
		return RewardVestingUpdatedEvent.Emit(p.sctx, []yum.Bytes32{solidity.AddressTopic(sink)})
	})
}

func (p *Pools) SetPendingGovernor(caller, addr yum.Address) error {
	return p.sctx.Atomic(func() error { return p.governance.SetPendingGovernor(caller, addr) })
}

func (p *Pools) AcceptGovernor(caller yum.Address) error {
	return p.sctx.Atomic(func() error { return p.governance.AcceptGovernor(caller) })
}

func (p *Pools) SetSentinel(caller, addr yum.Address) error {
	return p.sctx.Atomic(func() error { return p.governance.SetSentinel(caller, addr) })
}

func (p *Pools) SetPause(caller yum.Address, paused bool) error {
	return p.sctx.Atomic(func() error { return p.governance.SetPause(caller, paused) })
}

func (p *Pools) updateConfig(caller yum.Address, update func(cfg *Config) error) error {
	return p.sctx.Atomic(func() error {
		if err := p.governance.RequireGovernor(caller); err != nil {
			return err
		}
		cfg, err := p.Config()
		if err != nil {
			return err
		}
		if err := update(cfg); err != nil {
			return err
		}
		return p.config.Upsert(cfg)
	})
}

// massUpdate accrues every pool up to now.
func (p *Pools) massUpdate(cfg *Config, now uint64) error {
	count, err := p.poolCount.Get()
	if err != nil {
		return err
	}
	for id := range count {
		pool, err := p.Pool(id)
		if err != nil {
			return err
		}
		pool.accrue(cfg.RewardRate, cfg.TotalWeight, now)
		if err := p.pools.Update(solidity.Uint64Key(id), pool); err != nil {
			return err
		}
	}
	return nil
}
