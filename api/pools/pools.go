// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pools

import (
	"math/big"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/wasabi-swap-team/wasabix-yum-polygon/api/utils"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/builtin"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/builtin/reverts"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/runtime"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/yum"
)

const maxUsersLimit = 1000

type Pools struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Pools {
	return &Pools{rt}
}

// view runs fn on the latest state, reporting an unknown pool as not found.
func (p *Pools) view(fn runtime.Func) error {
	err := p.rt.View(fn)
	if errors.Is(err, reverts.ErrUnknownPool) {
		return utils.NotFound(err)
	}
	return err
}

func (p *Pools) handleGetPools(w http.ResponseWriter, _ *http.Request) error {
	var out []*Pool
	if err := p.view(func(c *builtin.Contracts, now uint64) error {
		count, err := c.Pools.PoolCount()
		if err != nil {
			return err
		}
		out = make([]*Pool, 0, count)
		for id := range count {
			pool, err := c.Pools.AccruedPool(id, now)
			if err != nil {
				return err
			}
			out = append(out, convertPool(id, pool))
		}
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, out)
}

func (p *Pools) handleGetConfig(w http.ResponseWriter, _ *http.Request) error {
	var out *Config
	if err := p.view(func(c *builtin.Contracts, _ uint64) error {
		cfg, err := c.Pools.Config()
		if err != nil {
			return err
		}
		table, err := c.Pools.DiscountTable()
		if err != nil {
			return err
		}
		count, err := c.Pools.PoolCount()
		if err != nil {
			return err
		}
		out = &Config{
			RewardToken:    cfg.RewardToken,
			BoostToken:     cfg.BoostToken,
			RewardVesting:  cfg.RewardVesting,
			FeeCollector:   cfg.FeeCollector,
			RewardRate:     utils.BigHex(cfg.RewardRate),
			TotalWeight:    cfg.TotalWeight,
			WithdrawFeeBps: cfg.WithdrawFeeBps,
			PoolCount:      count,
			DiscountTable:  convertTable(table),
		}
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, out)
}

func (p *Pools) handleGetPool(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.Uint64Var(req, "id")
	if err != nil {
		return err
	}
	var out *Pool
	if err := p.view(func(c *builtin.Contracts, now uint64) error {
		pool, err := c.Pools.AccruedPool(id, now)
		if err != nil {
			return err
		}
		out = convertPool(id, pool)
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, out)
}

func (p *Pools) handleGetUsers(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.Uint64Var(req, "id")
	if err != nil {
		return err
	}
	offset, err := utils.Uint64Query(req, "offset", 0)
	if err != nil {
		return err
	}
	limit, err := utils.Uint64Query(req, "limit", 100)
	if err != nil {
		return err
	}
	if limit > maxUsersLimit {
		return utils.BadRequest(errors.Errorf("limit: exceeds %d", maxUsersLimit))
	}

	var out Users
	if err := p.view(func(c *builtin.Contracts, _ uint64) error {
		count, err := c.Pools.PoolUserCount(id)
		if err != nil {
			return err
		}
		out.Total = count
		out.Users = make([]yum.Address, 0, min(limit, count-min(offset, count)))
		for i := offset; i < count && i-offset < limit; i++ {
			user, err := c.Pools.PoolUser(id, i)
			if err != nil {
				return err
			}
			out.Users = append(out.Users, user)
		}
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, &out)
}

func (p *Pools) handleGetPosition(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.Uint64Var(req, "id")
	if err != nil {
		return err
	}
	user, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	var out *Position
	if err := p.view(func(c *builtin.Contracts, now uint64) error {
		pos, err := c.Pools.UserPosition(id, user)
		if err != nil {
			return err
		}
		pending, err := c.Pools.PendingReward(id, user, now)
		if err != nil {
			return err
		}
		out = &Position{
			Pool:             id,
			User:             user,
			Staked:           utils.BigHex(pos.Staked),
			Working:          utils.BigHex(pos.Working),
			RewardDebt:       utils.BigHex(pos.RewardDebt),
			LastDepositTime:  pos.LastDepositTime,
			Claimed:          utils.BigHex(pos.Claimed),
			Pending:          utils.BigHex(pending),
			AccumulatedPower: utils.BigHex(new(big.Int).Add(pending, pos.Claimed)),
		}
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, out)
}

func (p *Pools) handleCreatePool(w http.ResponseWriter, req *http.Request) error {
	var body CreatePoolRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	return utils.Exec(w, p.rt, "createPool", &body.CallRequest, func(c *builtin.Contracts, now uint64) error {
		_, err := c.Pools.CreatePool(*body.Caller, body.Asset, body.Weight, body.VestingEnabled, body.LockDuration, body.EarlyFeeBps, now)
		return err
	})
}

func (p *Pools) handleSetWeight(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.Uint64Var(req, "id")
	if err != nil {
		return err
	}
	var body WeightRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	return utils.Exec(w, p.rt, "setPoolWeight", &body.CallRequest, func(c *builtin.Contracts, now uint64) error {
		return c.Pools.SetPoolWeight(*body.Caller, id, body.Weight, now)
	})
}

func (p *Pools) handleSetParams(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.Uint64Var(req, "id")
	if err != nil {
		return err
	}
	var body ParamsRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	return utils.Exec(w, p.rt, "setPoolParams", &body.CallRequest, func(c *builtin.Contracts, _ uint64) error {
		return c.Pools.SetPoolParams(*body.Caller, id, body.VestingEnabled, body.LockDuration, body.EarlyFeeBps)
	})
}

func (p *Pools) handleDeposit(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.Uint64Var(req, "id")
	if err != nil {
		return err
	}
	var body AmountRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	amount, err := utils.Amount(body.Amount, "amount")
	if err != nil {
		return err
	}
	return utils.Exec(w, p.rt, "deposit", &body.CallRequest, func(c *builtin.Contracts, now uint64) error {
		return c.Pools.Deposit(*body.Caller, id, amount, now)
	})
}

func (p *Pools) handleWithdraw(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.Uint64Var(req, "id")
	if err != nil {
		return err
	}
	var body AmountRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	amount, err := utils.Amount(body.Amount, "amount")
	if err != nil {
		return err
	}
	return utils.Exec(w, p.rt, "withdraw", &body.CallRequest, func(c *builtin.Contracts, now uint64) error {
		return c.Pools.Withdraw(*body.Caller, id, amount, now)
	})
}

func (p *Pools) handleClaim(w http.ResponseWriter, req *http.Request) error {
	id, err := utils.Uint64Var(req, "id")
	if err != nil {
		return err
	}
	var body utils.CallRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	return utils.Exec(w, p.rt, "claim", &body, func(c *builtin.Contracts, now uint64) error {
		return c.Pools.Claim(*body.Caller, id, now)
	})
}

func (p *Pools) handleSetRewardRate(w http.ResponseWriter, req *http.Request) error {
	var body AmountRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	rate, err := utils.Amount(body.Amount, "amount")
	if err != nil {
		return err
	}
	return utils.Exec(w, p.rt, "setRewardRate", &body.CallRequest, func(c *builtin.Contracts, now uint64) error {
		return c.Pools.SetRewardRate(*body.Caller, rate, now)
	})
}

func (p *Pools) handleSetWithdrawFee(w http.ResponseWriter, req *http.Request) error {
	var body FeeRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	return utils.Exec(w, p.rt, "setWithdrawFee", &body.CallRequest, func(c *builtin.Contracts, _ uint64) error {
		return c.Pools.SetWithdrawFee(*body.Caller, body.Bps)
	})
}

func (p *Pools) handleSetFeeCollector(w http.ResponseWriter, req *http.Request) error {
	var body AddressRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	return utils.Exec(w, p.rt, "setFeeCollector", &body.CallRequest, func(c *builtin.Contracts, _ uint64) error {
		return c.Pools.SetFeeCollector(*body.Caller, body.Address)
	})
}

func (p *Pools) handleSetDiscountTable(w http.ResponseWriter, req *http.Request) error {
	var body DiscountTableRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	thresholds := make([]*big.Int, 0, len(body.Thresholds))
	for _, th := range body.Thresholds {
		v, err := utils.Amount(th, "thresholds")
		if err != nil {
			return err
		}
		thresholds = append(thresholds, v)
	}
	return utils.Exec(w, p.rt, "setFeeDiscountTable", &body.CallRequest, func(c *builtin.Contracts, _ uint64) error {
		return c.Pools.SetFeeDiscountTable(*body.Caller, thresholds, body.Discounts)
	})
}

func (p *Pools) handleSetRewardVesting(w http.ResponseWriter, req *http.Request) error {
	var body AddressRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	return utils.Exec(w, p.rt, "setRewardVesting", &body.CallRequest, func(c *builtin.Contracts, _ uint64) error {
		return c.Pools.SetRewardVesting(*body.Caller, body.Address)
	})
}

func (p *Pools) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /pools").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetPools))
	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /pools").
		HandlerFunc(utils.WrapHandlerFunc(p.handleCreatePool))

	sub.Path("/config").
		Methods(http.MethodGet).
		Name("GET /pools/config").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetConfig))
	sub.Path("/config/reward-rate").
		Methods(http.MethodPost).
		Name("POST /pools/config/reward-rate").
		HandlerFunc(utils.WrapHandlerFunc(p.handleSetRewardRate))
	sub.Path("/config/withdraw-fee").
		Methods(http.MethodPost).
		Name("POST /pools/config/withdraw-fee").
		HandlerFunc(utils.WrapHandlerFunc(p.handleSetWithdrawFee))
	sub.Path("/config/fee-collector").
		Methods(http.MethodPost).
		Name("POST /pools/config/fee-collector").
		HandlerFunc(utils.WrapHandlerFunc(p.handleSetFeeCollector))
	sub.Path("/config/discount-table").
		Methods(http.MethodPost).
		Name("POST /pools/config/discount-table").
		HandlerFunc(utils.WrapHandlerFunc(p.handleSetDiscountTable))
	sub.Path("/config/reward-vesting").
		Methods(http.MethodPost).
		Name("POST /pools/config/reward-vesting").
		HandlerFunc(utils.WrapHandlerFunc(p.handleSetRewardVesting))

	sub.Path("/{id:[0-9]+}").
		Methods(http.MethodGet).
		Name("GET /pools/{id}").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetPool))
	sub.Path("/{id:[0-9]+}/users").
		Methods(http.MethodGet).
		Name("GET /pools/{id}/users").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetUsers))
	sub.Path("/{id:[0-9]+}/users/{address}").
		Methods(http.MethodGet).
		Name("GET /pools/{id}/users/{address}").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetPosition))
	sub.Path("/{id:[0-9]+}/weight").
		Methods(http.MethodPost).
		Name("POST /pools/{id}/weight").
		HandlerFunc(utils.WrapHandlerFunc(p.handleSetWeight))
	sub.Path("/{id:[0-9]+}/params").
		Methods(http.MethodPost).
		Name("POST /pools/{id}/params").
		HandlerFunc(utils.WrapHandlerFunc(p.handleSetParams))
	sub.Path("/{id:[0-9]+}/deposit").
		Methods(http.MethodPost).
		Name("POST /pools/{id}/deposit").
		HandlerFunc(utils.WrapHandlerFunc(p.handleDeposit))
	sub.Path("/{id:[0-9]+}/withdraw").
		Methods(http.MethodPost).
		Name("POST /pools/{id}/withdraw").
		HandlerFunc(utils.WrapHandlerFunc(p.handleWithdraw))
	sub.Path("/{id:[0-9]+}/claim").
		Methods(http.MethodPost).
		Name("POST /pools/{id}/claim").
		HandlerFunc(utils.WrapHandlerFunc(p.handleClaim))
}
