// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package apilogs

import (
	"net/http"
	"sync/atomic"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/wasabi-swap-team/wasabix-yum-polygon/api/utils"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/log"
)

var logger = log.WithContext("pkg", "apilogs")

// LogStatus tells whether API requests are logged.
type LogStatus struct {
	Enabled bool `json:"enabled"`
}

type toggleRequest struct {
	Enabled *bool `json:"enabled"`
}

// Toggle switches API request logging at runtime.
type Toggle struct {
	enabled *atomic.Bool
}

func New(enabled *atomic.Bool) *Toggle {
	return &Toggle{enabled}
}

func (a *Toggle) handleGetStatus(w http.ResponseWriter, _ *http.Request) error {
	return utils.WriteJSON(w, LogStatus{Enabled: a.enabled.Load()})
}

func (a *Toggle) handleSetStatus(w http.ResponseWriter, r *http.Request) error {
	var req toggleRequest
	if err := utils.ParseJSON(r.Body, &req); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if req.Enabled == nil {
		return utils.BadRequest(errors.New("enabled: required"))
	}
	if prev := a.enabled.Swap(*req.Enabled); prev != *req.Enabled {
		logger.Info("api logs updated", "enabled", *req.Enabled)
	}
	return utils.WriteJSON(w, LogStatus{Enabled: *req.Enabled})
}

func (a *Toggle) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /admin/apilogs").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetStatus))
	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /admin/apilogs").
		HandlerFunc(utils.WrapHandlerFunc(a.handleSetStatus))
}
