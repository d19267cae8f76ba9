// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pools

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/wasabi-swap-team/wasabix-yum-polygon/builtin/pools/boost"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/builtin/reverts"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/builtin/solidity"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/yum"
)

// settlement carries the records of one user action between load and store.
type settlement struct {
	cfg      *Config
	id       uint64
	pool     *Pool
	user     yum.Address
	position *Position
	isNew    bool
	pending  *big.Int
}

// settle loads the pool and position, accrues the pool and computes the pending reward
// under the current working amount.
func (p *Pools) settle(id uint64, user yum.Address, now uint64) (*settlement, error) {
	if err := p.governance.RequireNotPaused(); err != nil {
		return nil, err
	}
	cfg, err := p.Config()
	if err != nil {
		return nil, err
	}
	pool, err := p.Pool(id)
	if err != nil {
		return nil, err
	}
	pool.accrue(cfg.RewardRate, cfg.TotalWeight, now)

	pos, err := p.positions.Get(positionKey{id, user})
	if err != nil {
		return nil, err
	}
	s := &settlement{cfg: cfg, id: id, pool: pool, user: user, position: pos}
	if pos == nil {
		s.position = newPosition()
		s.isNew = true
	}
	s.pending = s.position.pending(pool.AccRewardPerShare)
	return s, nil
}

// commit recomputes the working amount, resets the checkpoint, stores the records and pays the
// pending reward.
func (p *Pools) commit(s *settlement, now uint64) error {
	if err := p.updateWorking(s); err != nil {
		return err
	}
	s.position.checkpoint(s.pool.AccRewardPerShare)
	s.position.Claimed = new(big.Int).Add(s.position.Claimed, s.pending)

	if s.isNew {
		if err := p.users.Insert(userIndexKey{s.id, s.pool.UserCount}, s.user); err != nil {
			return err
		}
		s.pool.UserCount++
	}
	if err := p.pools.Update(solidity.Uint64Key(s.id), s.pool); err != nil {
		return err
	}
	if err := p.positions.Upsert(positionKey{s.id, s.user}, s.position); err != nil {
		return err
	}
	return p.payReward(s, now)
}

// updateWorking applies the boosted working amount of the user to the pool total.
func (p *Pools) updateWorking(s *settlement) error {
	balance, supply := new(big.Int), new(big.Int)
	if !s.cfg.BoostToken.IsZero() {
		var err error
		boostToken := p.env.Token(s.cfg.BoostToken)
		if balance, err = boostToken.BalanceOf(s.user); err != nil {
			return err
		}
		if supply, err = boostToken.TotalSupply(); err != nil {
			return err
		}
	}
	working := boost.WorkingAmount(s.position.Staked, balance, s.pool.TotalStaked, supply)

	total := new(big.Int).Sub(s.pool.TotalWorking, s.position.Working)
	s.pool.TotalWorking = total.Add(total, working)
	s.position.Working = working
	return nil
}

// payReward mints the pending reward to the user, or through the sink for vesting pools.
func (p *Pools) payReward(s *settlement, now uint64) error {
	if s.pending.Sign() == 0 {
		return nil
	}
	reward := p.env.Token(s.cfg.RewardToken)
	if s.pool.VestingEnabled {
		if s.cfg.RewardVesting.IsZero() {
			return errors.Wrap(reverts.ErrZeroAddress, "reward vesting")
		}
		if err := reward.Mint(p.Address(), p.Address(), s.pending); err != nil {
			return err
		}
		if err := p.env.Sink(s.cfg.RewardVesting).AddEarning(p.Address(), s.user, s.pending, now); err != nil {
			return err
		}
	} else if err := reward.Mint(p.Address(), s.user, s.pending); err != nil {
		return err
	}
	return RewardPaidEvent.Emit(p.sctx, []yum.Bytes32{solidity.Uint64Topic(s.id), solidity.AddressTopic(s.user)}, s.pending, s.pool.VestingEnabled)
}

// Deposit stakes amount of the pool asset. The asset is pulled with an allowance granted to the registry.
func (p *Pools) Deposit(user yum.Address, id uint64, amount *big.Int, now uint64) error {
	if amount == nil || amount.Sign() <= 0 {
		return reverts.ErrInvalidAmount
	}
	return p.sctx.Atomic(func() error {
		s, err := p.settle(id, user, now)
		if err != nil {
			return err
		}
		logger.Debug("depositing", "pool", id, "user", user, "amount", amount, "pending", s.pending)

		if err := p.env.Token(s.pool.Asset).TransferFrom(p.Address(), user, p.Address(), amount); err != nil {
			return err
		}
		s.position.Staked = new(big.Int).Add(s.position.Staked, amount)
		s.pool.TotalStaked = new(big.Int).Add(s.pool.TotalStaked, amount)
		s.position.LastDepositTime = now

		if err := p.commit(s, now); err != nil {
			return err
		}
		logger.Info("deposited", "pool", id, "user", user, "amount", amount, "working", s.position.Working)
		return DepositedEvent.Emit(p.sctx, []yum.Bytes32{solidity.Uint64Topic(id), solidity.AddressTopic(user)}, amount)
	})
}

// Withdraw unstakes amount. The withdrawal fee, discounted by the boost balance, goes to the fee collector.
func (p *Pools) Withdraw(user yum.Address, id uint64, amount *big.Int, now uint64) error {
	if amount == nil || amount.Sign() <= 0 {
		return reverts.ErrInvalidAmount
	}
	return p.sctx.Atomic(func() error {
		s, err := p.settle(id, user, now)
		if err != nil {
			return err
		}
		if amount.Cmp(s.position.Staked) > 0 {
			return reverts.ErrInsufficientBalance
		}
		logger.Debug("withdrawing", "pool", id, "user", user, "amount", amount, "pending", s.pending)

		fee, err := p.withdrawFee(s, amount, now)
		if err != nil {
			return err
		}
		s.position.Staked = new(big.Int).Sub(s.position.Staked, amount)
		s.pool.TotalStaked = new(big.Int).Sub(s.pool.TotalStaked, amount)
		if err := p.commit(s, now); err != nil {
			return err
		}

		asset := p.env.Token(s.pool.Asset)
		if err := asset.Transfer(p.Address(), user, new(big.Int).Sub(amount, fee)); err != nil {
			return err
		}
		if fee.Sign() > 0 {
			if err := asset.Transfer(p.Address(), s.cfg.FeeCollector, fee); err != nil {
				return err
			}
		}
		logger.Info("withdrawn", "pool", id, "user", user, "amount", amount, "fee", fee, "working", s.position.Working)
		return WithdrawnEvent.Emit(p.sctx, []yum.Bytes32{solidity.Uint64Topic(id), solidity.AddressTopic(user)}, amount, fee)
	})
}

// withdrawFee returns the discounted base fee plus the early withdrawal fee while the position is locked.
func (p *Pools) withdrawFee(s *settlement, amount *big.Int, now uint64) (*big.Int, error) {
	table, err := p.discountTable.Get()
	if err != nil {
		return nil, err
	}
	balance := new(big.Int)
	if !s.cfg.BoostToken.IsZero() {
		if balance, err = p.env.Token(s.cfg.BoostToken).BalanceOf(s.user); err != nil {
			return nil, err
		}
	}
	fee := table.EffectiveFee(amount, s.cfg.WithdrawFeeBps, balance)

	if s.pool.EarlyFeeBps > 0 && s.locked(now) {
		early := new(big.Int).Mul(amount, new(big.Int).SetUint64(s.pool.EarlyFeeBps))
		fee.Add(fee, early.Div(early, yum.FeeDenominator))
	}
	if fee.Cmp(amount) > 0 {
		fee.Set(amount)
	}
	return fee, nil
}

// locked reports whether the position's last deposit is still inside the pool's lock window.
func (s *settlement) locked(now uint64) bool {
	last := s.position.LastDepositTime
	return now < last || now-last < s.pool.LockDuration
}

// Claim pays the pending reward and refreshes the working amount. Nothing pending is a no-op.
func (p *Pools) Claim(user yum.Address, id uint64, now uint64) error {
	return p.sctx.Atomic(func() error {
		s, err := p.settle(id, user, now)
		if err != nil {
			return err
		}
		if s.isNew {
			return nil
		}
		logger.Debug("claiming", "pool", id, "user", user, "pending", s.pending)
		if err := p.commit(s, now); err != nil {
			return err
		}
		logger.Info("claimed", "pool", id, "user", user, "amount", s.pending, "working", s.position.Working)
		return nil
	})
}

// UserPosition returns the position of user, zero valued if the user never deposited.
func (p *Pools) UserPosition(id uint64, user yum.Address) (*Position, error) {
	if _, err := p.Pool(id); err != nil {
		return nil, err
	}
	pos, err := p.positions.Get(positionKey{id, user})
	if err != nil {
		return nil, err
	}
	if pos == nil {
		return newPosition(), nil
	}
	return pos, nil
}

// PendingReward returns the reward user could claim at now.
func (p *Pools) PendingReward(id uint64, user yum.Address, now uint64) (*big.Int, error) {
	cfg, err := p.Config()
	if err != nil {
		return nil, err
	}
	pool, err := p.Pool(id)
	if err != nil {
		return nil, err
	}
	pool.accrue(cfg.RewardRate, cfg.TotalWeight, now)

	pos, err := p.UserPosition(id, user)
	if err != nil {
		return nil, err
	}
	return pos.pending(pool.AccRewardPerShare), nil
}

// AccumulatedPower returns the lifetime reward of user in the pool: paid plus pending.
func (p *Pools) AccumulatedPower(id uint64, user yum.Address, now uint64) (*big.Int, error) {
	pending, err := p.PendingReward(id, user, now)
	if err != nil {
		return nil, err
	}
	pos, err := p.UserPosition(id, user)
	if err != nil {
		return nil, err
	}
	return pending.Add(pending, pos.Claimed), nil
}

func (p *Pools) PoolUserCount(id uint64) (uint64, error) {
	pool, err := p.Pool(id)
	if err != nil {
		return 0, err
	}
	return pool.UserCount, nil
}

// PoolUser returns the index-th user that deposited into the pool.
func (p *Pools) PoolUser(id uint64, index uint64) (yum.Address, error) {
	pool, err := p.Pool(id)
	if err != nil {
		return yum.Address{}, err
	}
	if index >= pool.UserCount {
		return yum.Address{}, reverts.New(reverts.Validation, "user index out of range")
	}
	return p.users.Get(userIndexKey{id, index})
}

// AccruedPool returns the pool as it would be after accruing up to now.
func (p *Pools) AccruedPool(id uint64, now uint64) (*Pool, error) {
	cfg, err := p.Config()
	if err != nil {
		return nil, err
	}
	pool, err := p.Pool(id)
	if err != nil {
		return nil, err
	}
	pool.accrue(cfg.RewardRate, cfg.TotalWeight, now)
	return pool, nil
}
