// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/wasabi-swap-team/wasabix-yum-polygon/api"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/api/admin"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/api/node"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/genesis"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/log"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/logdb"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/lvldb"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/metrics"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/state"
)

var (
	version   string
	gitCommit string
	gitTag    string

	logger = log.WithContext("pkg", "main")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "Yum",
		Usage:     "Node of the WasabiX yum staking pools",
		Copyright: "2025 WasabiX",
		Flags: []cli.Flag{
			dataDirFlag,
			genesisFlag,
			persistFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiBacktraceLimitFlag,
			apiLogsLimitFlag,
			enableAPILogsFlag,
			apiSlowQueriesThresholdFlag,
			verbosityFlag,
			jsonLogsFlag,
			pprofFlag,
			skipLogsFlag,
			cacheFlag,
			enableMetricsFlag,
			metricsAddrFlag,
			enableAdminFlag,
			adminAddrFlag,
			skipNTPCheckFlag,
			ntpCheckScheduleFlag,
		},
		Action: defaultAction,
		Commands: []cli.Command{
			{
				Name:      "replay",
				Usage:     "replay scenario files against a fresh in-memory state",
				ArgsUsage: "<file>...",
				Flags: []cli.Flag{
					dumpFlag,
					goldenFlag,
					workersFlag,
					verbosityFlag,
					jsonLogsFlag,
				},
				Action: replayAction,
			},
			{
				Name:   "genesis",
				Usage:  "print the default devnet genesis",
				Action: genesisAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()
	defer func() { logger.Info("exited") }()

	logLevel, err := initLogger(ctx)
	if err != nil {
		return err
	}
	gene, err := selectGenesis(ctx)
	if err != nil {
		return err
	}
	sched := cron.New()
	if !ctx.Bool(skipNTPCheckFlag.Name) {
		go checkClockOffset()
		if _, err := sched.AddFunc(ctx.String(ntpCheckScheduleFlag.Name), checkClockOffset); err != nil {
			return errors.WithMessage(err, ntpCheckScheduleFlag.Name)
		}
	}

	cacheMB, err := readIntFromUInt64Flag(ctx.Uint64(cacheFlag.Name))
	if err != nil {
		return err
	}
	cacheMB = normalizeCacheSize(cacheMB)
	logger.Debug("cache size(MB)", "size", cacheMB)

	var (
		mainDB      *lvldb.LevelDB
		logDB       *logdb.LogDB
		instanceDir string
	)
	if ctx.Bool(persistFlag.Name) {
		if instanceDir, err = makeInstanceDir(ctx, gene); err != nil {
			return err
		}
		if mainDB, err = openMainDB(instanceDir, cacheMB); err != nil {
			return err
		}
		if !ctx.Bool(skipLogsFlag.Name) {
			if logDB, err = openLogDB(instanceDir); err != nil {
				mainDB.Close()
				return err
			}
		}
	} else {
		instanceDir = "Memory"
		if mainDB, err = lvldb.NewMem(); err != nil {
			return err
		}
		if !ctx.Bool(skipLogsFlag.Name) {
			if logDB, err = logdb.NewMem(); err != nil {
				mainDB.Close()
				return err
			}
		}
	}
	defer func() { logger.Info("closing main database..."); mainDB.Close() }()
	if logDB != nil {
		defer func() { logger.Info("closing log database..."); logDB.Close() }()
	}

	if _, err := sched.AddFunc(storeStatsSchedule, func() { logStoreStats(mainDB) }); err != nil {
		return err
	}
	sched.Start()
	defer func() { <-sched.Stop().Done() }()

	rt, err := initRuntime(gene, mainDB, state.NewStater(mainDB, cacheMB/2), logDB)
	if err != nil {
		return err
	}
	defer func() { logger.Info("closing runtime..."); rt.Close() }()

	enableMetrics := ctx.Bool(enableMetricsFlag.Name)
	if enableMetrics {
		metrics.InitializePrometheusMetrics()
	}

	apiLogs := &atomic.Bool{}
	apiLogs.Store(ctx.Bool(enableAPILogsFlag.Name))

	handler, closeSubs := api.New(
		rt,
		node.Info{Name: gene.Name(), Version: fullVersion(), GenesisID: gene.ID()},
		api.Options{
			AllowedOrigins:       ctx.String(apiCorsFlag.Name),
			BacktraceLimit:       ctx.Uint64(apiBacktraceLimitFlag.Name),
			PprofOn:              ctx.Bool(pprofFlag.Name),
			SkipLogs:             logDB == nil,
			EnableReqLogger:      apiLogs,
			SlowQueriesThreshold: time.Duration(ctx.Uint64(apiSlowQueriesThresholdFlag.Name)) * time.Millisecond,
			EnableMetrics:        enableMetrics,
			LogsLimit:            ctx.Uint64(apiLogsLimitFlag.Name),
		},
	)
	// subscriptions hold hijacked conns the API server does not close
	defer closeSubs()

	group, groupCtx := errgroup.WithContext(exitSignal)
	urls := make(map[string]string)

	urls["api"], err = serve(groupCtx, group, "API", ctx.String(apiAddrFlag.Name),
		&http.Server{Handler: handler, ReadHeaderTimeout: time.Second})
	if err != nil {
		return err
	}

	if enableMetrics {
		router := mux.NewRouter()
		router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())
		url, err := serve(groupCtx, group, "metrics", ctx.String(metricsAddrFlag.Name),
			&http.Server{Handler: handlers.CompressHandler(router), ReadHeaderTimeout: time.Second, ReadTimeout: 5 * time.Second})
		if err != nil {
			return err
		}
		urls["metrics"] = url + "/metrics"
	}

	if ctx.Bool(enableAdminFlag.Name) {
		url, err := serve(groupCtx, group, "admin", ctx.String(adminAddrFlag.Name),
			&http.Server{Handler: admin.New(rt, logLevel, apiLogs), ReadHeaderTimeout: time.Second, ReadTimeout: 5 * time.Second})
		if err != nil {
			return err
		}
		urls["admin"] = url + "/admin"
	}

	printStartupMessage(gene, rt, instanceDir, urls)

	return group.Wait()
}

func genesisAction(*cli.Context) error {
	data, err := genesis.DevnetConfig().Marshal()
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}
