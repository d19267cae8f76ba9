// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vesting

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/wasabi-swap-team/wasabix-yum-polygon/api/utils"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/builtin"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/runtime"
)

type Vesting struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Vesting {
	return &Vesting{rt}
}

func (v *Vesting) handleGetConfig(w http.ResponseWriter, _ *http.Request) error {
	var out *Config
	if err := v.rt.View(func(c *builtin.Contracts, _ uint64) error {
		cfg, err := c.Vesting.Config()
		if err != nil {
			return err
		}
		penalty, err := c.Vesting.AccumulatedPenalty()
		if err != nil {
			return err
		}
		out = &Config{
			Token:              cfg.Token,
			Duration:           cfg.Duration,
			Window:             cfg.Window,
			AccumulatedPenalty: utils.BigHex(penalty),
		}
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, out)
}

func (v *Vesting) handleGetEntry(w http.ResponseWriter, req *http.Request) error {
	user, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	out := &Entry{User: user}
	if err := v.rt.View(func(c *builtin.Contracts, now uint64) error {
		entry, err := c.Vesting.Entry(user)
		if err != nil {
			return err
		}
		if entry != nil {
			out.Principal = utils.BigHex(entry.Principal)
			out.Withdrawn = utils.BigHex(entry.Withdrawn)
			out.VestStart = entry.VestStart
		} else {
			out.Principal = utils.BigHex(nil)
			out.Withdrawn = utils.BigHex(nil)
		}
		available, penalty, err := c.Vesting.AvailableEarning(user, now)
		if err != nil {
			return err
		}
		out.Available = utils.BigHex(available)
		out.Penalty = utils.BigHex(penalty)

		status, err := c.Vesting.Status(user, now)
		if err != nil {
			return err
		}
		out.Status = status.String()
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, out)
}

func (v *Vesting) handleGetSource(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	out := &Source{Address: addr}
	if err := v.rt.View(func(c *builtin.Contracts, _ uint64) (err error) {
		out.Allowed, err = c.Vesting.IsSource(addr)
		return
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, out)
}

func (v *Vesting) handleWithdraw(w http.ResponseWriter, req *http.Request) error {
	var body WithdrawRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	amount, err := utils.Amount(body.Amount, "amount")
	if err != nil {
		return err
	}
	return utils.Exec(w, v.rt, "withdrawEarning", &body.CallRequest, func(c *builtin.Contracts, now uint64) error {
		return c.Vesting.WithdrawEarning(*body.Caller, amount, now)
	})
}

func (v *Vesting) handleTransferPenalty(w http.ResponseWriter, req *http.Request) error {
	var body TransferPenaltyRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	return utils.Exec(w, v.rt, "transferPenalty", &body.CallRequest, func(c *builtin.Contracts, _ uint64) error {
		return c.Vesting.TransferPenalty(*body.Caller, body.To)
	})
}

func (v *Vesting) handleSetSource(w http.ResponseWriter, req *http.Request) error {
	var body SourceRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	return utils.Exec(w, v.rt, "setSource", &body.CallRequest, func(c *builtin.Contracts, _ uint64) error {
		return c.Vesting.SetSource(*body.Caller, body.Address, body.Allowed)
	})
}

func (v *Vesting) handleSetSchedule(w http.ResponseWriter, req *http.Request) error {
	var body ScheduleRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	return utils.Exec(w, v.rt, "setSchedule", &body.CallRequest, func(c *builtin.Contracts, _ uint64) error {
		return c.Vesting.SetSchedule(*body.Caller, body.Duration, body.Window)
	})
}

func (v *Vesting) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /vesting").
		HandlerFunc(utils.WrapHandlerFunc(v.handleGetConfig))
	sub.Path("/withdraw").
		Methods(http.MethodPost).
		Name("POST /vesting/withdraw").
		HandlerFunc(utils.WrapHandlerFunc(v.handleWithdraw))
	sub.Path("/penalty/transfer").
		Methods(http.MethodPost).
		Name("POST /vesting/penalty/transfer").
		HandlerFunc(utils.WrapHandlerFunc(v.handleTransferPenalty))
	sub.Path("/sources").
		Methods(http.MethodPost).
		Name("POST /vesting/sources").
		HandlerFunc(utils.WrapHandlerFunc(v.handleSetSource))
	sub.Path("/sources/{address}").
		Methods(http.MethodGet).
		Name("GET /vesting/sources/{address}").
		HandlerFunc(utils.WrapHandlerFunc(v.handleGetSource))
	sub.Path("/schedule").
		Methods(http.MethodPost).
		Name("POST /vesting/schedule").
		HandlerFunc(utils.WrapHandlerFunc(v.handleSetSchedule))
	sub.Path("/entries/{address}").
		Methods(http.MethodGet).
		Name("GET /vesting/entries/{address}").
		HandlerFunc(utils.WrapHandlerFunc(v.handleGetEntry))
}
