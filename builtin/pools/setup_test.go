// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pools

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wasabi-swap-team/wasabix-yum-polygon/builtin/token"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/lvldb"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/state"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/yum"
)

var (
	governor  = yum.BytesToAddress([]byte("governor"))
	sentinel  = yum.BytesToAddress([]byte("sentinel"))
	collector = yum.BytesToAddress([]byte("collector"))
	alice     = yum.BytesToAddress([]byte("alice"))
	bob       = yum.BytesToAddress([]byte("bob"))
	carol     = yum.BytesToAddress([]byte("carol"))

	poolsAddr   = yum.BytesToAddress([]byte("StakingPools"))
	vestingAddr = yum.BytesToAddress([]byte("RewardVesting"))
	rewardAddr  = yum.BytesToAddress([]byte("WASABI"))
	boostAddr   = yum.BytesToAddress([]byte("veWASABI"))
	stakeAddr   = yum.BytesToAddress([]byte("STAKE"))
	stake2Addr  = yum.BytesToAddress([]byte("STAKE2"))

	errSinkDown = errors.New("sink down")
)

// recordingSink pulls pushed earnings and remembers them per user.
type recordingSink struct {
	env  *testEnv
	addr yum.Address
}

func (s *recordingSink) AddEarning(caller, user yum.Address, amount *big.Int, _ uint64) error {
	if s.env.sinkFails {
		return errSinkDown
	}
	if err := token.New(rewardAddr, s.env.state).TransferFrom(s.addr, caller, s.addr, amount); err != nil {
		return err
	}
	prev, ok := s.env.earnings[user]
	if !ok {
		prev = new(big.Int)
	}
	s.env.earnings[user] = new(big.Int).Add(prev, amount)
	return nil
}

type testEnv struct {
	state     *state.State
	earnings  map[yum.Address]*big.Int
	sinkFails bool
}

func (e *testEnv) Token(addr yum.Address) Ledger {
	return token.New(addr, e.state)
}

func (e *testEnv) Sink(addr yum.Address) Sink {
	return &recordingSink{env: e, addr: addr}
}

type fixture struct {
	env   *testEnv
	pools *Pools
}

func ether(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1e18))
}

func newFixture(t *testing.T, rate int64) *fixture {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	env := &testEnv{
		state:    state.NewStater(db, 0).NewState(),
		earnings: make(map[yum.Address]*big.Int),
	}
	for _, addr := range []yum.Address{rewardAddr, boostAddr, stakeAddr, stake2Addr} {
		require.NoError(t, token.New(addr, env.state).Initialize(&token.Metadata{Name: "test", Symbol: "T", Decimals: 18, Owner: governor}))
	}
	require.NoError(t, token.New(rewardAddr, env.state).SetMinter(governor, poolsAddr, true))

	pools := New(poolsAddr, env.state, env)
	require.NoError(t, pools.Initialize(&Params{
		Governor:      governor,
		Sentinel:      sentinel,
		RewardToken:   rewardAddr,
		BoostToken:    boostAddr,
		RewardVesting: vestingAddr,
		FeeCollector:  collector,
		RewardRate:    big.NewInt(rate),
	}))
	return &fixture{env: env, pools: pools}
}

// fund mints amount of the asset to user and approves the registry to pull it.
func (f *fixture) fund(t *testing.T, asset, user yum.Address, amount *big.Int) {
	tok := token.New(asset, f.env.state)
	require.NoError(t, tok.Mint(governor, user, amount))
	require.NoError(t, tok.Approve(user, poolsAddr, yum.MaxUint256))
}

func (f *fixture) boost(t *testing.T, user yum.Address, amount *big.Int) {
	require.NoError(t, token.New(boostAddr, f.env.state).Mint(governor, user, amount))
}

func (f *fixture) balance(t *testing.T, asset, user yum.Address) *big.Int {
	b, err := token.New(asset, f.env.state).BalanceOf(user)
	require.NoError(t, err)
	return b
}

func (f *fixture) position(t *testing.T, id uint64, user yum.Address) *Position {
	pos, err := f.pools.UserPosition(id, user)
	require.NoError(t, err)
	return pos
}

func (f *fixture) createPool(t *testing.T, asset yum.Address, weight uint64, now uint64) uint64 {
	id, err := f.pools.CreatePool(governor, asset, weight, false, 0, 0, now)
	require.NoError(t, err)
	return id
}
