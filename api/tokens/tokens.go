// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tokens

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/wasabi-swap-team/wasabix-yum-polygon/api/utils"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/builtin"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/builtin/token"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/runtime"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/yum"
)

type Tokens struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Tokens {
	return &Tokens{rt}
}

// ledger returns the token at addr, not found if it was never initialized.
func ledger(c *builtin.Contracts, addr yum.Address) (*token.Token, error) {
	t := c.Token(addr)
	exists, err := t.Exists()
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, utils.NotFound(errors.New("token not found"))
	}
	return t, nil
}

func (t *Tokens) handleGetToken(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "token")
	if err != nil {
		return err
	}
	var out *Token
	if err := t.rt.View(func(c *builtin.Contracts, _ uint64) error {
		tok, err := ledger(c, addr)
		if err != nil {
			return err
		}
		meta, err := tok.Metadata()
		if err != nil {
			return err
		}
		supply, err := tok.TotalSupply()
		if err != nil {
			return err
		}
		out = &Token{
			Address:     addr,
			Name:        meta.Name,
			Symbol:      meta.Symbol,
			Decimals:    meta.Decimals,
			Owner:       meta.Owner,
			TotalSupply: utils.BigHex(supply),
		}
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, out)
}

func (t *Tokens) handleGetBalance(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "token")
	if err != nil {
		return err
	}
	holder, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	out := &Balance{Token: addr, Address: holder}
	if err := t.rt.View(func(c *builtin.Contracts, _ uint64) error {
		tok, err := ledger(c, addr)
		if err != nil {
			return err
		}
		balance, err := tok.BalanceOf(holder)
		if err != nil {
			return err
		}
		out.Balance = utils.BigHex(balance)
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, out)
}

func (t *Tokens) handleGetAllowance(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "token")
	if err != nil {
		return err
	}
	owner, err := utils.AddressVar(req, "owner")
	if err != nil {
		return err
	}
	spender, err := utils.AddressVar(req, "spender")
	if err != nil {
		return err
	}
	out := &Allowance{Token: addr, Owner: owner, Spender: spender}
	if err := t.rt.View(func(c *builtin.Contracts, _ uint64) error {
		tok, err := ledger(c, addr)
		if err != nil {
			return err
		}
		allowance, err := tok.Allowance(owner, spender)
		if err != nil {
			return err
		}
		out.Allowance = utils.BigHex(allowance)
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, out)
}

func (t *Tokens) handleTransfer(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "token")
	if err != nil {
		return err
	}
	var body TransferRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	amount, err := utils.Amount(body.Amount, "amount")
	if err != nil {
		return err
	}
	return utils.Exec(w, t.rt, "transfer", &body.CallRequest, func(c *builtin.Contracts, _ uint64) error {
		tok, err := ledger(c, addr)
		if err != nil {
			return err
		}
		return tok.Transfer(*body.Caller, body.To, amount)
	})
}

func (t *Tokens) handleApprove(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "token")
	if err != nil {
		return err
	}
	var body ApproveRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	amount, err := utils.Amount(body.Amount, "amount")
	if err != nil {
		return err
	}
	return utils.Exec(w, t.rt, "approve", &body.CallRequest, func(c *builtin.Contracts, _ uint64) error {
		tok, err := ledger(c, addr)
		if err != nil {
			return err
		}
		return tok.Approve(*body.Caller, body.Spender, amount)
	})
}

func (t *Tokens) handleMint(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "token")
	if err != nil {
		return err
	}
	var body TransferRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	amount, err := utils.Amount(body.Amount, "amount")
	if err != nil {
		return err
	}
	return utils.Exec(w, t.rt, "mint", &body.CallRequest, func(c *builtin.Contracts, _ uint64) error {
		tok, err := ledger(c, addr)
		if err != nil {
			return err
		}
		return tok.Mint(*body.Caller, body.To, amount)
	})
}

func (t *Tokens) handleBurn(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "token")
	if err != nil {
		return err
	}
	var body BurnRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	amount, err := utils.Amount(body.Amount, "amount")
	if err != nil {
		return err
	}
	return utils.Exec(w, t.rt, "burn", &body.CallRequest, func(c *builtin.Contracts, _ uint64) error {
		tok, err := ledger(c, addr)
		if err != nil {
			return err
		}
		return tok.Burn(*body.Caller, amount)
	})
}

func (t *Tokens) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{token}").
		Methods(http.MethodGet).
		Name("GET /tokens/{token}").
		HandlerFunc(utils.WrapHandlerFunc(t.handleGetToken))
	sub.Path("/{token}/balances/{address}").
		Methods(http.MethodGet).
		Name("GET /tokens/{token}/balances/{address}").
		HandlerFunc(utils.WrapHandlerFunc(t.handleGetBalance))
	sub.Path("/{token}/allowances/{owner}/{spender}").
		Methods(http.MethodGet).
		Name("GET /tokens/{token}/allowances/{owner}/{spender}").
		HandlerFunc(utils.WrapHandlerFunc(t.handleGetAllowance))
	sub.Path("/{token}/transfer").
		Methods(http.MethodPost).
		Name("POST /tokens/{token}/transfer").
		HandlerFunc(utils.WrapHandlerFunc(t.handleTransfer))
	sub.Path("/{token}/approve").
		Methods(http.MethodPost).
		Name("POST /tokens/{token}/approve").
		HandlerFunc(utils.WrapHandlerFunc(t.handleApprove))
	sub.Path("/{token}/mint").
		Methods(http.MethodPost).
		Name("POST /tokens/{token}/mint").
		HandlerFunc(utils.WrapHandlerFunc(t.handleMint))
	sub.Path("/{token}/burn").
		Methods(http.MethodPost).
		Name("POST /tokens/{token}/burn").
		HandlerFunc(utils.WrapHandlerFunc(t.handleBurn))
}
