// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package scenario

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/wasabi-swap-team/wasabix-yum-polygon/builtin"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/yum"
)

// call binds the arguments of a step to the contracts of one runtime call.
type call struct {
	c        *builtin.Contracts
	now      uint64
	caller   yum.Address
	args     *Args
	accounts map[string]yum.Address
}

func (c *call) ref(r Ref) (yum.Address, error) {
	return r.resolve(c.accounts)
}

func contract(c *builtin.Contracts, name string) (builtin.Governed, error) {
	switch name {
	case "", "pools":
		return c.Pools, nil
	case "vesting":
		return c.Vesting, nil
	default:
		return nil, errors.Errorf("unknown contract %q", name)
	}
}

var calls = map[string]func(c *call) error{
	"deposit": func(c *call) error {
		amount, err := c.args.Amount.value()
		if err != nil {
			return err
		}
		return c.c.Pools.Deposit(c.caller, c.args.Pool, amount, c.now)
	},
	"withdraw": func(c *call) error {
		amount, err := c.args.Amount.value()
		if err != nil {
			return err
		}
		return c.c.Pools.Withdraw(c.caller, c.args.Pool, amount, c.now)
	},
	"claim": func(c *call) error {
		return c.c.Pools.Claim(c.caller, c.args.Pool, c.now)
	},
	"createPool": func(c *call) error {
		asset, err := c.ref(c.args.Token)
		if err != nil {
			return err
		}
		_, err = c.c.Pools.CreatePool(c.caller, asset, c.args.Weight, c.args.VestingEnabled, c.args.LockDuration, c.args.FeeBps, c.now)
		return err
	},
	"setPoolWeight": func(c *call) error {
		return c.c.Pools.SetPoolWeight(c.caller, c.args.Pool, c.args.Weight, c.now)
	},
	"setPoolParams": func(c *call) error {
		return c.c.Pools.SetPoolParams(c.caller, c.args.Pool, c.args.VestingEnabled, c.args.LockDuration, c.args.FeeBps)
	},
	"setRewardRate": func(c *call) error {
		rate, err := c.args.Amount.value()
		if err != nil {
			return err
		}
		return c.c.Pools.SetRewardRate(c.caller, rate, c.now)
	},
	"setWithdrawFee": func(c *call) error {
		return c.c.Pools.SetWithdrawFee(c.caller, c.args.FeeBps)
	},
	"setFeeCollector": func(c *call) error {
		to, err := c.ref(c.args.To)
		if err != nil {
			return err
		}
		return c.c.Pools.SetFeeCollector(c.caller, to)
	},
	"setFeeDiscountTable": func(c *call) error {
		thresholds := make([]*big.Int, 0, len(c.args.Thresholds))
		for _, th := range c.args.Thresholds {
			v, err := th.value()
			if err != nil {
				return err
			}
			thresholds = append(thresholds, v)
		}
		return c.c.Pools.SetFeeDiscountTable(c.caller, thresholds, c.args.Discounts)
	},
	"setRewardVesting": func(c *call) error {
		to, err := c.ref(c.args.To)
		if err != nil {
			return err
		}
		return c.c.Pools.SetRewardVesting(c.caller, to)
	},
	"setPendingGovernor": func(c *call) error {
		gc, err := contract(c.c, c.args.Contract)
		if err != nil {
			return err
		}
		to, err := c.ref(c.args.To)
		if err != nil {
			return err
		}
		return gc.SetPendingGovernor(c.caller, to)
	},
	"acceptGovernor": func(c *call) error {
		gc, err := contract(c.c, c.args.Contract)
		if err != nil {
			return err
		}
		return gc.AcceptGovernor(c.caller)
	},
	"setSentinel": func(c *call) error {
		gc, err := contract(c.c, c.args.Contract)
		if err != nil {
			return err
		}
		to, err := c.ref(c.args.To)
		if err != nil {
			return err
		}
		return gc.SetSentinel(c.caller, to)
	},
	"setPause": func(c *call) error {
		gc, err := contract(c.c, c.args.Contract)
		if err != nil {
			return err
		}
		return gc.SetPause(c.caller, c.args.Paused)
	},
	"withdrawEarning": func(c *call) error {
		amount, err := c.args.Amount.value()
		if err != nil {
			return err
		}
		return c.c.Vesting.WithdrawEarning(c.caller, amount, c.now)
	},
	"transferPenalty": func(c *call) error {
		to, err := c.ref(c.args.To)
		if err != nil {
			return err
		}
		return c.c.Vesting.TransferPenalty(c.caller, to)
	},
	"setSource": func(c *call) error {
		src, err := c.ref(c.args.Account)
		if err != nil {
			return err
		}
		return c.c.Vesting.SetSource(c.caller, src, c.args.Allowed)
	},
	"transfer": func(c *call) error {
		tok, to, amount, err := c.tokenArgs()
		if err != nil {
			return err
		}
		return c.c.Token(tok).Transfer(c.caller, to, amount)
	},
	"approve": func(c *call) error {
		tok, to, amount, err := c.tokenArgs()
		if err != nil {
			return err
		}
		return c.c.Token(tok).Approve(c.caller, to, amount)
	},
	"mint": func(c *call) error {
		tok, to, amount, err := c.tokenArgs()
		if err != nil {
			return err
		}
		return c.c.Token(tok).Mint(c.caller, to, amount)
	},
}

func (c *call) tokenArgs() (tok, to yum.Address, amount *big.Int, err error) {
	if tok, err = c.ref(c.args.Token); err != nil {
		return
	}
	if to, err = c.ref(c.args.To); err != nil {
		return
	}
	amount, err = c.args.Amount.value()
	return
}
