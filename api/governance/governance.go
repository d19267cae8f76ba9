// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package governance

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wasabi-swap-team/wasabix-yum-polygon/api/utils"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/builtin"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/runtime"
)

// Selector picks the governed contract.
type Selector func(c *builtin.Contracts) builtin.Governed

// API serves the governance capability of one contract.
type API struct {
	rt   *runtime.Runtime
	name string
	pick Selector
}

// New creates the api of the contract picked by sel. name prefixes route and method names.
func New(rt *runtime.Runtime, name string, sel Selector) *API {
	return &API{rt, name, sel}
}

func (a *API) handleGet(w http.ResponseWriter, _ *http.Request) error {
	var out *Governance
	if err := a.rt.View(func(c *builtin.Contracts, _ uint64) (err error) {
		out, err = Convert(a.pick(c).Governance())
		return
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, out)
}

func (a *API) handleSetPending(w http.ResponseWriter, req *http.Request) error {
	var body AddressRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(err)
	}
	return utils.Exec(w, a.rt, a.name+".setPendingGovernor", &body.CallRequest, func(c *builtin.Contracts, _ uint64) error {
		return a.pick(c).SetPendingGovernor(*body.Caller, body.Address)
	})
}

func (a *API) handleAccept(w http.ResponseWriter, req *http.Request) error {
	var body utils.CallRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(err)
	}
	return utils.Exec(w, a.rt, a.name+".acceptGovernor", &body, func(c *builtin.Contracts, _ uint64) error {
		return a.pick(c).AcceptGovernor(*body.Caller)
	})
}

func (a *API) handleSetSentinel(w http.ResponseWriter, req *http.Request) error {
	var body AddressRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(err)
	}
	return utils.Exec(w, a.rt, a.name+".setSentinel", &body.CallRequest, func(c *builtin.Contracts, _ uint64) error {
		return a.pick(c).SetSentinel(*body.Caller, body.Address)
	})
}

func (a *API) handleSetPause(w http.ResponseWriter, req *http.Request) error {
	var body PauseRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(err)
	}
	return utils.Exec(w, a.rt, a.name+".setPause", &body.CallRequest, func(c *builtin.Contracts, _ uint64) error {
		return a.pick(c).SetPause(*body.Caller, body.Paused)
	})
}

func (a *API) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /" + a.name + "/governance").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGet))
	sub.Path("/pending").
		Methods(http.MethodPost).
		Name("POST /" + a.name + "/governance/pending").
		HandlerFunc(utils.WrapHandlerFunc(a.handleSetPending))
	sub.Path("/accept").
		Methods(http.MethodPost).
		Name("POST /" + a.name + "/governance/accept").
		HandlerFunc(utils.WrapHandlerFunc(a.handleAccept))
	sub.Path("/sentinel").
		Methods(http.MethodPost).
		Name("POST /" + a.name + "/governance/sentinel").
		HandlerFunc(utils.WrapHandlerFunc(a.handleSetSentinel))
	sub.Path("/pause").
		Methods(http.MethodPost).
		Name("POST /" + a.name + "/governance/pause").
		HandlerFunc(utils.WrapHandlerFunc(a.handleSetPause))
}
