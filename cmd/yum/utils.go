// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net"
	"net/http"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/beevik/ntp"
	"github.com/elastic/gosigar"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/wasabi-swap-team/wasabix-yum-polygon/genesis"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/log"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/logdb"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/lvldb"
	yumrt "github.com/wasabi-swap-team/wasabix-yum-polygon/runtime"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/state"
)

// maxClockOffset is the largest tolerated drift of the local clock.
const maxClockOffset = 5 * time.Second

func fatal(args ...any) {
	var w io.Writer
	if runtime.GOOS == "windows" {
		// The SameFile check below doesn't work on Windows.
		// stdout is unlikely to get redirected though, so just print there.
		w = os.Stdout
	} else {
		outf, _ := os.Stdout.Stat()
		errf, _ := os.Stderr.Stat()
		if outf != nil && errf != nil && os.SameFile(outf, errf) {
			w = os.Stderr
		} else {
			w = io.MultiWriter(os.Stdout, os.Stderr)
		}
	}
	fmt.Fprint(w, "Fatal: ")
	fmt.Fprintln(w, args...)
	os.Exit(1)
}

func readIntFromUInt64Flag(val uint64) (int, error) {
	if val > math.MaxInt {
		return 0, fmt.Errorf("value %d exceeds max int", val)
	}
	return int(val), nil
}

func initLogger(ctx *cli.Context) (*slog.LevelVar, error) {
	verbosity, err := readIntFromUInt64Flag(ctx.Uint64(verbosityFlag.Name))
	if err != nil {
		return nil, errors.WithMessage(err, verbosityFlag.Name)
	}
	var level slog.LevelVar
	level.Set(log.FromLegacyLevel(verbosity))

	var handler slog.Handler
	if ctx.Bool(jsonLogsFlag.Name) {
		handler = log.NewJSONHandler(os.Stdout, &level)
	} else {
		handler = log.NewTerminalHandler(os.Stdout, &level)
	}
	log.SetDefault(log.NewLogger(handler))
	return &level, nil
}

func defaultDataDir() string {
	// Try to place the data folder in the user's home dir
	if home := homeDir(); home != "" {
		switch runtime.GOOS {
		case "darwin":
			return filepath.Join(home, "Library", "Application Support", "org.wasabix.yum")
		case "windows":
			return filepath.Join(home, "AppData", "Roaming", "org.wasabix.yum")
		default:
			return filepath.Join(home, ".org.wasabix.yum")
		}
	}
	// As we cannot guess a stable location, return empty and handle later
	return ""
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

func selectGenesis(ctx *cli.Context) (*genesis.Genesis, error) {
	path := ctx.String(genesisFlag.Name)
	if path == "" {
		return genesis.NewDevnet(), nil
	}
	config, err := genesis.Load(path)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return genesis.New(name, config)
}

func makeInstanceDir(ctx *cli.Context, gene *genesis.Genesis) (string, error) {
	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		return "", fmt.Errorf("unable to infer default data dir, use -%s to specify", dataDirFlag.Name)
	}
	instanceDir := filepath.Join(dataDir, fmt.Sprintf("instance-%x", gene.ID().Bytes()[24:]))
	if err := os.MkdirAll(instanceDir, 0o700); err != nil {
		return "", errors.Wrapf(err, "create instance dir [%v]", instanceDir)
	}
	return instanceDir, nil
}

func normalizeCacheSize(sizeMB int) int {
	if sizeMB < 128 {
		sizeMB = 128
	}

	var mem gosigar.Mem
	if err := mem.Get(); err != nil {
		logger.Warn("failed to get total mem:", "err", err)
	} else {
		// limit to 1/2 os physical ram
		limitMB := int(mem.Total / 1024 / 1024 / 2)
		if sizeMB > limitMB {
			sizeMB = limitMB
			logger.Warn("cache size(MB) limited", "limit", limitMB)
		}
	}
	return sizeMB
}

func openMainDB(instanceDir string, cacheMB int) (*lvldb.LevelDB, error) {
	dir := filepath.Join(instanceDir, "main.db")
	db, err := lvldb.New(dir, lvldb.Options{
		CacheSize:              cacheMB / 2,
		OpenFilesCacheCapacity: 512,
	})
	if err != nil {
		return nil, errors.WithMessagef(err, "open main database [%v]", dir)
	}
	return db, nil
}

func openLogDB(instanceDir string) (*logdb.LogDB, error) {
	dir := filepath.Join(instanceDir, "logs.db")
	db, err := logdb.New(dir)
	if err != nil {
		return nil, errors.WithMessagef(err, "open log database [%v]", dir)
	}
	return db, nil
}

// initRuntime opens the runtime and builds the genesis state on the first run.
func initRuntime(gene *genesis.Genesis, db *lvldb.LevelDB, stater *state.Stater, logDB *logdb.LogDB) (*yumrt.Runtime, error) {
	rt, err := yumrt.New(db, stater, logDB, yumrt.SystemClock{})
	if err != nil {
		return nil, err
	}
	if rt.CallSeq() == 0 {
		if _, err := gene.Build(rt); err != nil {
			rt.Close()
			return nil, errors.WithMessage(err, "build genesis")
		}
		logger.Info("genesis built", "id", gene.ID(), "name", gene.Name())
	}
	return rt, nil
}

func checkClockOffset() {
	resp, err := ntp.Query("pool.ntp.org")
	if err != nil {
		logger.Debug("failed to access NTP", "err", err)
		return
	}
	offset := resp.ClockOffset
	if offset < 0 {
		offset = -offset
	}
	if offset > maxClockOffset {
		logger.Warn("clock offset detected", "offset", common.PrettyDuration(resp.ClockOffset))
	}
}

const storeStatsSchedule = "@every 10m"

func logStoreStats(db *lvldb.LevelDB) {
	stats, err := db.Stats()
	if err != nil {
		logger.Debug("failed to read store stats", "err", err)
		return
	}
	logger.Debug("store stats",
		"levels", stats.Levels,
		"size", common.StorageSize(stats.SizeBytes),
		"compactions", stats.Compactions,
		"read", common.StorageSize(stats.ReadBytes),
		"written", common.StorageSize(stats.WriteBytes),
	)
}

func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

		sig := <-exitSignalCh
		logger.Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}

// serve runs handler on addr until ctx is done.
func serve(ctx context.Context, group *errgroup.Group, name, addr string, srv *http.Server) (string, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", errors.Wrapf(err, "listen %s addr [%v]", name, addr)
	}
	group.Go(func() error {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrapf(err, "%s server", name)
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		logger.Info("stopping " + name + " server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return "http://" + listener.Addr().String(), nil
}

func printStartupMessage(gene *genesis.Genesis, rt *yumrt.Runtime, instanceDir string, urls map[string]string) {
	fmt.Printf(`Starting %v
    Network      [ %v %v ]
    Latest call  [ #%v @%v ]
    Instance dir [ %v ]
    API portal   [ %v ]
`,
		"Yum/"+fullVersion(),
		gene.ID(), gene.Name(),
		rt.CallSeq(), time.Unix(int64(rt.CallTime()), 0),
		instanceDir,
		urls["api"])
	if u, ok := urls["metrics"]; ok {
		fmt.Printf("    Metrics      [ %v ]\n", u)
	}
	if u, ok := urls["admin"]; ok {
		fmt.Printf("    Admin        [ %v ]\n", u)
	}
}
