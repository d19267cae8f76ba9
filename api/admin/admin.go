// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package admin serves the operator endpoints of a running node.
package admin

import (
	"log/slog"
	"net/http"
	"sort"
	"sync/atomic"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/wasabi-swap-team/wasabix-yum-polygon/api/admin/apilogs"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/api/admin/health"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/api/admin/loglevel"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/api/utils"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/runtime"
)

const pathPrefix = "/admin"

// New returns the admin handler. GET /admin lists the names of every
// mounted route.
func New(rt *runtime.Runtime, logLevel *slog.LevelVar, apiLogs *atomic.Bool) http.HandlerFunc {
	router := mux.NewRouter()
	sub := router.PathPrefix(pathPrefix).Subrouter()

	loglevel.New(logLevel).Mount(sub, "/loglevel")
	apilogs.New(apiLogs).Mount(sub, "/apilogs")
	health.New(rt).Mount(sub, "/health")

	routes := routeNames(router)
	router.Path(pathPrefix).
		Methods(http.MethodGet).
		Name("GET /admin").
		HandlerFunc(utils.WrapHandlerFunc(func(w http.ResponseWriter, _ *http.Request) error {
			return utils.WriteJSON(w, routes)
		}))

	return handlers.CompressHandler(router).ServeHTTP
}

func routeNames(router *mux.Router) []string {
	var names []string
	_ = router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		if name := route.GetName(); name != "" {
			names = append(names, name)
		}
		return nil
	})
	sort.Strings(names)
	return names
}
