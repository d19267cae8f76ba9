// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package scenario

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/wasabi-swap-team/wasabix-yum-polygon/builtin"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/builtin/reverts"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/genesis"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/log"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/lvldb"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/runtime"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/state"
)

var logger = log.WithContext("pkg", "scenario")

// Failure is a step whose outcome differs from the expected one.
type Failure struct {
	Step    int
	Call    string
	Message string
}

func (f Failure) String() string {
	if f.Call == "" {
		return fmt.Sprintf("step %d: %s", f.Step, f.Message)
	}
	return fmt.Sprintf("step %d (%s): %s", f.Step, f.Call, f.Message)
}

// Result is the outcome of a replay. The runtime stays open until Close.
type Result struct {
	Runtime  *runtime.Runtime
	Genesis  *genesis.Genesis
	Calls    int
	Reverted int
	Failures []Failure

	db *lvldb.LevelDB
}

// Close releases the in-memory stores of the replay.
func (r *Result) Close() {
	r.Runtime.Close()
	r.db.Close()
}

// Run replays sc against a fresh in-memory state built from its genesis.
// onStep, if not nil, is called after every step.
func Run(sc *Scenario, onStep func(step int)) (_ *Result, err error) {
	config := sc.Genesis
	if config == nil {
		config = genesis.DevnetConfig()
	}
	gene, err := genesis.New(sc.Name, config)
	if err != nil {
		return nil, errors.WithMessage(err, "genesis")
	}

	db, err := lvldb.NewMem()
	if err != nil {
		return nil, err
	}
	clock := runtime.NewManualClock(config.LaunchTime)
	rt, err := runtime.New(db, state.NewStater(db, 0), nil, clock)
	if err != nil {
		db.Close()
		return nil, err
	}
	res := &Result{Runtime: rt, Genesis: gene, db: db}
	defer func() {
		if err != nil {
			res.Close()
		}
	}()

	if _, err := gene.Build(rt); err != nil {
		return nil, errors.WithMessage(err, "build genesis")
	}

	for i, step := range sc.Steps {
		if step.Time > 0 {
			clock.Set(step.Time)
		}
		clock.Advance(step.Advance)

		if step.Call != "" {
			res.Calls++
			if err := res.exec(sc, i, &step); err != nil {
				return nil, err
			}
		}
		if err := res.check(sc, i, &step); err != nil {
			return nil, err
		}
		if onStep != nil {
			onStep(i)
		}
	}
	return res, nil
}

func (r *Result) fail(step int, call string, format string, args ...any) {
	f := Failure{step, call, fmt.Sprintf(format, args...)}
	logger.Debug("scenario step failed", "step", step, "call", call, "msg", f.Message)
	r.Failures = append(r.Failures, f)
}

func (r *Result) exec(sc *Scenario, i int, step *Step) error {
	caller, err := step.Caller.resolve(sc.Accounts)
	if err != nil {
		return errors.WithMessagef(err, "step %d", i)
	}
	_, err = r.Runtime.Exec(step.Call, caller, func(c *builtin.Contracts, now uint64) error {
		return calls[step.Call](&call{c, now, caller, &step.Args, sc.Accounts})
	})
	if err == nil {
		if step.Revert != "" {
			r.fail(i, step.Call, "expected %s revert, got success", step.Revert)
		}
		return nil
	}

	r.Reverted++
	kind, ok := reverts.KindOf(err)
	switch {
	case !ok && step.Revert == "":
		return errors.WithMessagef(err, "step %d", i)
	case !ok:
		r.fail(i, step.Call, "expected %s revert, got %v", step.Revert, err)
	case step.Revert == "":
		r.fail(i, step.Call, "unexpected revert: %v", err)
	case kind.String() != step.Revert:
		r.fail(i, step.Call, "expected %s revert, got %s: %v", step.Revert, kind, err)
	}
	return nil
}

func (r *Result) check(sc *Scenario, i int, step *Step) error {
	if len(step.Expect) == 0 {
		return nil
	}
	return r.Runtime.View(func(c *builtin.Contracts, now uint64) error {
		for j := range step.Expect {
			exp := &step.Expect[j]
			got, err := checks[exp.Check](&lookup{c, now, exp, sc.Accounts})
			if err != nil {
				if reverts.IsRevertErr(err) {
					r.fail(i, step.Call, "%s: %v", exp.Check, err)
					continue
				}
				return errors.WithMessagef(err, "step %d: %s", i, exp.Check)
			}
			ok, err := match(got, exp.Value, sc.Accounts)
			if err != nil {
				return errors.WithMessagef(err, "step %d: %s", i, exp.Check)
			}
			if !ok {
				r.fail(i, step.Call, "%s: want %s, got %s", exp.Check, exp.Value, format(got))
			}
		}
		return nil
	})
}
