// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package scenario

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/pkg/errors"

	"github.com/wasabi-swap-team/wasabix-yum-polygon/builtin"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/builtin/pools"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/yum"
)

// lookup reads one value from committed state.
type lookup struct {
	c        *builtin.Contracts
	now      uint64
	exp      *Expect
	accounts map[string]yum.Address
}

func (p *lookup) account() (yum.Address, error) {
	return p.exp.Account.resolve(p.accounts)
}

func (p *lookup) position() (*pools.Position, error) {
	user, err := p.account()
	if err != nil {
		return nil, err
	}
	return p.c.Pools.UserPosition(p.exp.Pool, user)
}

func (p *lookup) pool() (*pools.Pool, error) {
	return p.c.Pools.AccruedPool(p.exp.Pool, p.now)
}

func (p *lookup) available() (*big.Int, *big.Int, error) {
	user, err := p.account()
	if err != nil {
		return nil, nil, err
	}
	return p.c.Vesting.AvailableEarning(user, p.now)
}

var checks = map[string]func(p *lookup) (any, error){
	"staked": func(p *lookup) (any, error) {
		pos, err := p.position()
		if err != nil {
			return nil, err
		}
		return pos.Staked, nil
	},
	"working": func(p *lookup) (any, error) {
		pos, err := p.position()
		if err != nil {
			return nil, err
		}
		return pos.Working, nil
	},
	"claimed": func(p *lookup) (any, error) {
		pos, err := p.position()
		if err != nil {
			return nil, err
		}
		return pos.Claimed, nil
	},
	"pending": func(p *lookup) (any, error) {
		user, err := p.account()
		if err != nil {
			return nil, err
		}
		return p.c.Pools.PendingReward(p.exp.Pool, user, p.now)
	},
	"accumulatedPower": func(p *lookup) (any, error) {
		user, err := p.account()
		if err != nil {
			return nil, err
		}
		return p.c.Pools.AccumulatedPower(p.exp.Pool, user, p.now)
	},
	"totalStaked": func(p *lookup) (any, error) {
		pool, err := p.pool()
		if err != nil {
			return nil, err
		}
		return pool.TotalStaked, nil
	},
	"totalWorking": func(p *lookup) (any, error) {
		pool, err := p.pool()
		if err != nil {
			return nil, err
		}
		return pool.TotalWorking, nil
	},
	"poolUserCount": func(p *lookup) (any, error) {
		n, err := p.c.Pools.PoolUserCount(p.exp.Pool)
		return new(big.Int).SetUint64(n), err
	},
	"balance": func(p *lookup) (any, error) {
		tok, err := p.exp.Token.resolve(p.accounts)
		if err != nil {
			return nil, err
		}
		user, err := p.account()
		if err != nil {
			return nil, err
		}
		return p.c.Token(tok).BalanceOf(user)
	},
	"totalSupply": func(p *lookup) (any, error) {
		tok, err := p.exp.Token.resolve(p.accounts)
		if err != nil {
			return nil, err
		}
		return p.c.Token(tok).TotalSupply()
	},
	"governor": func(p *lookup) (any, error) {
		gc, err := contract(p.c, p.exp.Contract)
		if err != nil {
			return nil, err
		}
		return gc.Governance().Governor()
	},
	"pendingGovernor": func(p *lookup) (any, error) {
		gc, err := contract(p.c, p.exp.Contract)
		if err != nil {
			return nil, err
		}
		return gc.Governance().PendingGovernor()
	},
	"paused": func(p *lookup) (any, error) {
		gc, err := contract(p.c, p.exp.Contract)
		if err != nil {
			return nil, err
		}
		return gc.Governance().IsPaused()
	},
	"vestingAvailable": func(p *lookup) (any, error) {
		amount, _, err := p.available()
		return amount, err
	},
	"vestingPenalty": func(p *lookup) (any, error) {
		_, penalty, err := p.available()
		return penalty, err
	},
	"vestingPrincipal": func(p *lookup) (any, error) {
		user, err := p.account()
		if err != nil {
			return nil, err
		}
		entry, err := p.c.Vesting.Entry(user)
		if err != nil || entry == nil {
			return new(big.Int), err
		}
		return entry.Principal, nil
	},
	"vestingStatus": func(p *lookup) (any, error) {
		user, err := p.account()
		if err != nil {
			return nil, err
		}
		status, err := p.c.Vesting.Status(user, p.now)
		return status.String(), err
	},
	"accumulatedPenalty": func(p *lookup) (any, error) {
		return p.c.Vesting.AccumulatedPenalty()
	},
}

// match compares a looked up value with its expected text.
func match(got any, want string, accounts map[string]yum.Address) (bool, error) {
	switch v := got.(type) {
	case *big.Int:
		w, err := Amount(want).value()
		if err != nil {
			return false, err
		}
		if v == nil {
			v = new(big.Int)
		}
		return v.Cmp(w) == 0, nil
	case yum.Address:
		w, err := Ref(want).resolve(accounts)
		if err != nil {
			return false, err
		}
		return v == w, nil
	case bool:
		w, err := strconv.ParseBool(want)
		if err != nil {
			return false, errors.Wrap(err, "expected bool")
		}
		return v == w, nil
	case string:
		return v == want, nil
	default:
		return false, errors.Errorf("unsupported value %v", got)
	}
}

func format(v any) string {
	return fmt.Sprintf("%v", v)
}
