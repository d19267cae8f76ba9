// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wasabi-swap-team/wasabix-yum-polygon/api/utils"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/builtin"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/runtime"
)

type Status struct {
	Healthy   bool   `json:"healthy"`
	CallSeq   uint64 `json:"callSeq"`
	CallTime  uint64 `json:"callTime"`
	ClockTime uint64 `json:"clockTime"`
	Error     string `json:"error,omitempty"`
}

type API struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *API {
	return &API{rt}
}

// status checks the runtime by reading the registry config.
func (h *API) status() *Status {
	s := &Status{
		CallSeq:   h.rt.CallSeq(),
		CallTime:  h.rt.CallTime(),
		ClockTime: h.rt.Now(),
	}
	if h.rt.Closed() {
		s.Error = "runtime closed"
		return s
	}
	if err := h.rt.View(func(c *builtin.Contracts, _ uint64) error {
		_, err := c.Pools.Config()
		return err
	}); err != nil {
		s.Error = err.Error()
		return s
	}
	s.Healthy = true
	return s
}

func (h *API) handleGetHealth(w http.ResponseWriter, _ *http.Request) error {
	s := h.status()
	if !s.Healthy {
		w.Header().Set("Content-Type", utils.JSONContentType)
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	return utils.WriteJSON(w, s)
}

func (h *API) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /admin/health").
		HandlerFunc(utils.WrapHandlerFunc(h.handleGetHealth))
}
