// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package testchain

import (
	"github.com/pkg/errors"

	"github.com/wasabi-swap-team/wasabix-yum-polygon/genesis"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/logdb"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/lvldb"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/runtime"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/state"
)

// Chain is an in-memory runtime with its genesis built, driven by a manual clock.
type Chain struct {
	db      *lvldb.LevelDB
	logDB   *logdb.LogDB
	genesis *genesis.Genesis
	clock   *runtime.ManualClock
	rt      *runtime.Runtime
}

// NewDefault creates a chain of the devnet genesis.
func NewDefault() (*Chain, error) {
	return NewWithConfig(genesis.DevnetConfig())
}

// NewWithConfig creates a chain of the given genesis document.
func NewWithConfig(config *genesis.Config) (_ *Chain, err error) {
	gene, err := genesis.New("testchain", config)
	if err != nil {
		return nil, err
	}

	c := &Chain{genesis: gene, clock: runtime.NewManualClock(config.LaunchTime)}
	defer func() {
		if err != nil {
			c.Close()
		}
	}()

	if c.db, err = lvldb.NewMem(); err != nil {
		return nil, err
	}
	if c.logDB, err = logdb.NewMem(); err != nil {
		return nil, err
	}
	if c.rt, err = runtime.New(c.db, state.NewStater(c.db, 0), c.logDB, c.clock); err != nil {
		return nil, err
	}
	if _, err := gene.Build(c.rt); err != nil {
		return nil, errors.WithMessage(err, "build genesis")
	}
	return c, nil
}

func (c *Chain) Runtime() *runtime.Runtime {
	return c.rt
}

func (c *Chain) Genesis() *genesis.Genesis {
	return c.genesis
}

func (c *Chain) LogDB() *logdb.LogDB {
	return c.logDB
}

// Advance moves the clock forward by d seconds.
func (c *Chain) Advance(d uint64) uint64 {
	return c.clock.Advance(d)
}

// Now returns the current time of the clock.
func (c *Chain) Now() uint64 {
	return c.clock.Now()
}

func (c *Chain) Close() {
	if c.rt != nil {
		c.rt.Close()
	}
	if c.logDB != nil {
		c.logDB.Close()
	}
	if c.db != nil {
		c.db.Close()
	}
}
