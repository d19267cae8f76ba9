// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"github.com/pkg/errors"

	"github.com/wasabi-swap-team/wasabix-yum-polygon/builtin"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/lvldb"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/runtime"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/state"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/yum"
)

// Method is the method name of the genesis call.
const Method = "genesis"

// Builder helper to build the initial state.
type Builder struct {
	launchTime uint64
	procs      []proc
}

type proc struct {
	name string
	fn   runtime.Func
}

// Timestamp sets the time used to compute the genesis id.
func (b *Builder) Timestamp(t uint64) *Builder {
	b.launchTime = t
	return b
}

// Call adds a named step to the genesis call.
func (b *Builder) Call(name string, fn runtime.Func) *Builder {
	b.procs = append(b.procs, proc{name, fn})
	return b
}

// ComputeID computes the digest of the state built at launch time.
func (b *Builder) ComputeID() (yum.Bytes32, error) {
	db, err := lvldb.NewMem()
	if err != nil {
		return yum.Bytes32{}, err
	}
	defer db.Close()

	rt, err := runtime.New(db, state.NewStater(db, 0), nil, runtime.NewManualClock(b.launchTime))
	if err != nil {
		return yum.Bytes32{}, err
	}
	defer rt.Close()

	receipt, err := b.Build(rt)
	if err != nil {
		return yum.Bytes32{}, err
	}
	return receipt.StateDigest, nil
}

// Build runs every step as the first call of rt.
func (b *Builder) Build(rt *runtime.Runtime) (*runtime.Receipt, error) {
	if seq := rt.CallSeq(); seq != 0 {
		return nil, errors.Errorf("runtime already has %d calls", seq)
	}
	return rt.Exec(Method, yum.Address{}, func(c *builtin.Contracts, now uint64) error {
		for _, p := range b.procs {
			if err := p.fn(c, now); err != nil {
				return errors.WithMessage(err, p.name)
			}
		}
		return nil
	})
}
