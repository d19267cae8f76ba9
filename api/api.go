// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"net/http/pprof"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/wasabi-swap-team/wasabix-yum-polygon/api/events"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/api/governance"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/api/middleware"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/api/node"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/api/pools"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/api/subscriptions"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/api/tokens"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/api/vesting"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/builtin"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/log"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/runtime"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins       string
	BacktraceLimit       uint64
	PprofOn              bool
	SkipLogs             bool
	EnableReqLogger      *atomic.Bool
	SlowQueriesThreshold time.Duration
	EnableMetrics        bool
	LogsLimit            uint64
}

// New return api router
func New(
	rt *runtime.Runtime,
	info node.Info,
	opts Options,
) (http.HandlerFunc, func()) {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	pools.New(rt).
		Mount(router, "/pools")
	governance.New(rt, "pools", func(c *builtin.Contracts) builtin.Governed { return c.Pools }).
		Mount(router, "/pools/governance")
	vesting.New(rt).
		Mount(router, "/vesting")
	governance.New(rt, "vesting", func(c *builtin.Contracts) builtin.Governed { return c.Vesting }).
		Mount(router, "/vesting/governance")
	tokens.New(rt).
		Mount(router, "/tokens")

	if !opts.SkipLogs {
		events.New(rt.LogDB(), opts.LogsLimit).
			Mount(router, "/logs/event")
	}
	node.New(rt, info).
		Mount(router, "/node")
	subs := subscriptions.New(rt, origins, opts.BacktraceLimit)
	subs.Mount(router, "/subscriptions")

	if opts.PprofOn {
		router.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		router.HandleFunc("/debug/pprof/profile", pprof.Profile)
		router.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		router.HandleFunc("/debug/pprof/trace", pprof.Trace)
		router.PathPrefix("/debug/pprof/").HandlerFunc(pprof.Index)
	}

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
	}

	enableReqLogger := opts.EnableReqLogger
	if enableReqLogger == nil {
		enableReqLogger = &atomic.Bool{}
	}
	router.Use(middleware.RequestLoggerMiddleware(logger, enableReqLogger, opts.SlowQueriesThreshold))

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type", "x-genesis-id"}),
		handlers.ExposedHeaders([]string{"x-genesis-id", "x-yum-ver"}),
	)(handler)

	genesisID := info.GenesisID.String()
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("x-genesis-id", genesisID)
		w.Header().Set("x-yum-ver", info.Version)
		handler.ServeHTTP(w, r)
	}, subs.Close // subscriptions handles hijacked conns, which need to be closed
}
