// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"math/big"
	"os"
	"sync"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"
	"gopkg.in/cheggaaa/pb.v1"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/wasabi-swap-team/wasabix-yum-polygon/builtin"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/builtin/pools"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/builtin/vesting"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/co"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/runtime"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/scenario"
)

var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// stateDump is the part of the final state printed by --dump.
type stateDump struct {
	Config             *pools.Config
	Pools              []*pools.Pool
	Vesting            *vesting.Config
	AccumulatedPenalty *big.Int
}

type replayed struct {
	file   string
	result *scenario.Result
	err    error
}

func replayAction(ctx *cli.Context) error {
	if _, err := initLogger(ctx); err != nil {
		return err
	}
	files := ctx.Args()
	if len(files) == 0 {
		return errors.New("no scenario file given")
	}
	golden := ctx.String(goldenFlag.Name)
	if golden != "" && len(files) > 1 {
		return errors.New("--golden takes a single scenario file")
	}

	scenarios := make([]*scenario.Scenario, len(files))
	total := 0
	for i, file := range files {
		sc, err := scenario.Load(file)
		if err != nil {
			return errors.WithMessage(err, file)
		}
		scenarios[i] = sc
		total += len(sc.Steps)
	}

	bar := pb.New(total)
	bar.ShowSpeed = true
	bar.Start()

	results := make([]replayed, len(files))
	var mu sync.Mutex
	co.Parallel(ctx.Int(workersFlag.Name), func(queue co.Enqueue) {
		for i := range scenarios {
			queue(func() {
				res, err := scenario.Run(scenarios[i], func(int) { bar.Increment() })
				mu.Lock()
				results[i] = replayed{files[i], res, err}
				mu.Unlock()
			})
		}
	})
	bar.Finish()

	failed := 0
	for _, r := range results {
		if r.err != nil {
			fmt.Printf("%s: %v\n", r.file, r.err)
			failed++
			continue
		}
		fmt.Printf("%s: %d calls, %d reverted, %d failures\n", r.file, r.result.Calls, r.result.Reverted, len(r.result.Failures))
		for _, f := range r.result.Failures {
			fmt.Println("    " + f.String())
		}
		if len(r.result.Failures) > 0 {
			failed++
		}
	}
	defer func() {
		for _, r := range results {
			if r.result != nil {
				r.result.Close()
			}
		}
	}()

	if ctx.Bool(dumpFlag.Name) || golden != "" {
		for _, r := range results {
			if r.result == nil {
				continue
			}
			dump, err := dumpState(r.result.Runtime)
			if err != nil {
				return errors.WithMessage(err, r.file)
			}
			if ctx.Bool(dumpFlag.Name) {
				fmt.Printf("%s:\n%s", r.file, dump)
			}
			if golden != "" {
				if err := compareGolden(golden, dump); err != nil {
					return err
				}
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d scenarios failed", failed, len(files))
	}
	return nil
}

func dumpState(rt *runtime.Runtime) (string, error) {
	var d stateDump
	if err := rt.View(func(c *builtin.Contracts, now uint64) error {
		var err error
		if d.Config, err = c.Pools.Config(); err != nil {
			return err
		}
		count, err := c.Pools.PoolCount()
		if err != nil {
			return err
		}
		for id := range count {
			pool, err := c.Pools.AccruedPool(id, now)
			if err != nil {
				return err
			}
			d.Pools = append(d.Pools, pool)
		}
		if d.Vesting, err = c.Vesting.Config(); err != nil {
			return err
		}
		d.AccumulatedPenalty, err = c.Vesting.AccumulatedPenalty()
		return err
	}); err != nil {
		return "", err
	}
	return dumpConfig.Sdump(&d), nil
}

// compareGolden returns an error carrying the unified diff when dump differs from the golden file.
func compareGolden(path, dump string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "read golden file")
	}
	if string(data) == dump {
		return nil
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(data)),
		B:        difflib.SplitLines(dump),
		FromFile: path,
		ToFile:   "replayed",
		Context:  3,
	})
	if err != nil {
		return err
	}
	return fmt.Errorf("state differs from golden file:\n%s", diff)
}
