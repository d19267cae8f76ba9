// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vesting

import (
	"math/big"
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wasabi-swap-team/wasabix-yum-polygon/builtin/reverts"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/builtin/token"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/lvldb"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/state"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/yum"
)

var (
	governor = yum.BytesToAddress([]byte("governor"))
	pool     = yum.BytesToAddress([]byte("pool"))
	player   = yum.BytesToAddress([]byte("player"))
	player2  = yum.BytesToAddress([]byte("player2"))
	deployer = yum.BytesToAddress([]byte("deployer"))

	vestingAddr = yum.BytesToAddress([]byte("RewardVesting"))
	rewardAddr  = yum.BytesToAddress([]byte("WASABI"))
)

type testEnv struct {
	state *state.State
}

func (e *testEnv) Token(addr yum.Address) Ledger {
	return token.New(addr, e.state)
}

func newVesting(t *testing.T) (*Vesting, *token.Token) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := state.NewStater(db, 0).NewState()
	reward := token.New(rewardAddr, st)
	require.NoError(t, reward.Initialize(&token.Metadata{Name: "Wasabi", Symbol: "WASABI", Decimals: 18, Owner: governor}))
	require.NoError(t, reward.Mint(governor, pool, big.NewInt(100000)))
	require.NoError(t, reward.Approve(pool, vestingAddr, yum.MaxUint256))

	v := New(vestingAddr, st, &testEnv{st})
	require.NoError(t, v.Initialize(&Params{
		Governor: governor,
		Token:    rewardAddr,
		Sources:  []yum.Address{pool},
	}))
	return v, reward
}

func available(t *testing.T, v *Vesting, user yum.Address, now uint64) (int64, int64) {
	amount, penalty, err := v.AvailableEarning(user, now)
	require.NoError(t, err)
	return amount.Int64(), penalty.Int64()
}

func TestFraction(t *testing.T) {
	assert.Equal(t, uint64(200), Knee(300))
	assert.Equal(t, half, Fraction(0, 300))
	assert.Equal(t, half, Fraction(100, 300))
	assert.Equal(t, half, Fraction(200, 300))
	assert.Equal(t, new(big.Int).Mul(big.NewInt(75), big.NewInt(1e16)), Fraction(250, 300))
	assert.Equal(t, yum.FractionPrecision, Fraction(300, 300))
	assert.Equal(t, yum.FractionPrecision, Fraction(1000, 300))
	assert.Equal(t, yum.FractionPrecision, Fraction(0, 0))

	prev := Fraction(0, 300)
	for e := uint64(1); e <= 310; e++ {
		f := Fraction(e, 300)
		assert.True(t, f.Cmp(prev) >= 0)
		prev = f
	}
}

func TestAddEarning(t *testing.T) {
	v, reward := newVesting(t)

	require.NoError(t, v.AddEarning(pool, player, big.NewInt(50000), 0))
	bal, err := reward.BalanceOf(vestingAddr)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(50000), bal)

	amount, penalty := available(t, v, player, 0)
	assert.Equal(t, int64(25000), amount)
	assert.Equal(t, int64(25000), penalty)

	amount, penalty = available(t, v, player, 150)
	assert.Equal(t, int64(25000), amount)
	assert.Equal(t, int64(25000), penalty)

	amount, penalty = available(t, v, player, 250)
	assert.Equal(t, int64(37500), amount)
	assert.Equal(t, int64(12500), penalty)

	amount, penalty = available(t, v, player, 300)
	assert.Equal(t, int64(50000), amount)
	assert.Equal(t, int64(0), penalty)

	status, err := v.Status(player, 150)
	require.NoError(t, err)
	assert.Equal(t, Accruing, status)
	status, _ = v.Status(player, 300)
	assert.Equal(t, FullyVested, status)
	status, _ = v.Status(player2, 300)
	assert.Equal(t, Idle, status)
}

func TestAddEarningBlendsStart(t *testing.T) {
	v, _ := newVesting(t)

	require.NoError(t, v.AddEarning(pool, player, big.NewInt(10000), 0))
	// floored to the start of the 60s bucket
	require.NoError(t, v.AddEarning(pool, player, big.NewInt(10000), 130))

	entry, err := v.Entry(player)
	require.NoError(t, err)
	assert.Equal(t, uint64(60), entry.VestStart)
	assert.Equal(t, big.NewInt(20000), entry.Principal)

	amount, penalty := available(t, v, player, 120)
	assert.Equal(t, int64(10000), amount)
	assert.Equal(t, int64(10000), penalty)

	amount, penalty = available(t, v, player, 310)
	assert.Equal(t, int64(15000), amount)
	assert.Equal(t, int64(5000), penalty)

	amount, penalty = available(t, v, player, 360)
	assert.Equal(t, int64(20000), amount)
	assert.Equal(t, int64(0), penalty)
}

func TestWithdrawBeforeKnee(t *testing.T) {
	v, reward := newVesting(t)
	require.NoError(t, v.AddEarning(pool, player, big.NewInt(10000), 0))

	amount, penalty := available(t, v, player, 100)
	assert.Equal(t, int64(5000), amount)
	assert.Equal(t, int64(5000), penalty)

	require.NoError(t, v.WithdrawEarning(player, big.NewInt(2500), 100))
	accumulated, err := v.AccumulatedPenalty()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(2500), accumulated)

	amount, penalty = available(t, v, player, 300)
	assert.Equal(t, int64(5000), amount)
	assert.Equal(t, int64(0), penalty)

	require.NoError(t, v.WithdrawEarning(player, big.NewInt(5000), 300))
	accumulated, _ = v.AccumulatedPenalty()
	assert.Equal(t, big.NewInt(2500), accumulated)
	bal, _ := reward.BalanceOf(player)
	assert.Equal(t, big.NewInt(7500), bal)
}

func TestAddEarningRestricted(t *testing.T) {
	v, _ := newVesting(t)

	assert.ErrorIs(t, v.AddEarning(player, player, big.NewInt(1), 0), reverts.ErrUnknownSource)
	assert.ErrorIs(t, v.AddEarning(pool, player, big.NewInt(0), 0), reverts.ErrInvalidAmount)
	assert.ErrorIs(t, v.AddEarning(pool, player, big.NewInt(100001), 0), reverts.ErrInsufficientFunds)

	assert.ErrorIs(t, v.SetSource(player, player, true), reverts.ErrOnlyGovernance)
	require.NoError(t, v.SetSource(governor, pool, false))
	assert.ErrorIs(t, v.AddEarning(pool, player, big.NewInt(1), 0), reverts.ErrUnknownSource)

	require.NoError(t, v.SetSource(governor, pool, true))
	require.NoError(t, v.SetPause(governor, true))
	assert.ErrorIs(t, v.AddEarning(pool, player, big.NewInt(1), 0), reverts.ErrPaused)
}

func TestWithdrawEarning(t *testing.T) {
	v, reward := newVesting(t)
	require.NoError(t, v.AddEarning(pool, player, big.NewInt(10000), 0))

	assert.ErrorIs(t, v.WithdrawEarning(player, big.NewInt(10000), 0), reverts.ErrInsufficientAvailable)
	assert.ErrorIs(t, v.WithdrawEarning(player, big.NewInt(0), 0), reverts.ErrInvalidAmount)
	assert.ErrorIs(t, v.WithdrawEarning(player2, big.NewInt(1), 0), reverts.ErrInsufficientAvailable)

	require.NoError(t, v.WithdrawEarning(player, big.NewInt(5000), 0))
	penalty, err := v.AccumulatedPenalty()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(5000), penalty)

	entry, err := v.Entry(player)
	require.NoError(t, err)
	assert.Nil(t, entry)

	require.NoError(t, v.AddEarning(pool, player, big.NewInt(20000), 0))
	require.NoError(t, v.WithdrawEarning(player, big.NewInt(10000), 0))

	bal, _ := reward.BalanceOf(player)
	assert.Equal(t, big.NewInt(15000), bal)
	penalty, _ = v.AccumulatedPenalty()
	assert.Equal(t, big.NewInt(15000), penalty)
	bal, _ = reward.BalanceOf(vestingAddr)
	assert.Equal(t, big.NewInt(15000), bal)

	assert.ErrorIs(t, v.TransferPenalty(player, player), reverts.ErrOnlyGovernance)
	require.NoError(t, v.TransferPenalty(governor, deployer))
	bal, _ = reward.BalanceOf(deployer)
	assert.Equal(t, big.NewInt(15000), bal)
	penalty, _ = v.AccumulatedPenalty()
	assert.Equal(t, 0, penalty.Sign())
}

func TestWithdrawPartiallyVested(t *testing.T) {
	v, reward := newVesting(t)
	require.NoError(t, v.AddEarning(pool, player, big.NewInt(10000), 0))

	// fraction 3/4 at 250: withdrawing 3000 consumes 4000
	require.NoError(t, v.WithdrawEarning(player, big.NewInt(3000), 250))
	entry, err := v.Entry(player)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(4000), entry.Withdrawn)
	penalty, _ := v.AccumulatedPenalty()
	assert.Equal(t, big.NewInt(1000), penalty)

	// rounding up the consumed value empties the entry
	require.NoError(t, v.AddEarning(pool, player2, big.NewInt(9999), 0))
	amount, _ := available(t, v, player2, 250)
	assert.Equal(t, int64(7499), amount)
	require.NoError(t, v.WithdrawEarning(player2, big.NewInt(7499), 250))
	entry, _ = v.Entry(player2)
	assert.Nil(t, entry)
	penalty, _ = v.AccumulatedPenalty()
	assert.Equal(t, big.NewInt(1000+2500), penalty)

	// fully vested withdrawals carry no penalty
	require.NoError(t, v.WithdrawEarning(player, big.NewInt(6000), 300))
	bal, _ := reward.BalanceOf(player)
	assert.Equal(t, big.NewInt(9000), bal)
	penalty, _ = v.AccumulatedPenalty()
	assert.Equal(t, big.NewInt(3500), penalty)
}

func TestAvailablePlusPenaltyIsRemaining(t *testing.T) {
	f := fuzz.NewWithSeed(7).NilChance(0)
	for range 500 {
		var principal, withdrawn uint64
		var start, now uint32
		f.Fuzz(&principal)
		f.Fuzz(&withdrawn)
		f.Fuzz(&start)
		f.Fuzz(&now)
		if withdrawn > principal {
			principal, withdrawn = withdrawn, principal
		}
		e := &Entry{
			Principal: new(big.Int).SetUint64(principal),
			Withdrawn: new(big.Int).SetUint64(withdrawn),
			VestStart: uint64(start),
		}
		amount, penalty := e.available(uint64(now), 300)
		assert.Equal(t, 0, new(big.Int).Add(amount, penalty).Cmp(e.Remaining()))
		assert.True(t, amount.Sign() >= 0 && penalty.Sign() >= 0)

		if amount.Sign() > 0 {
			consumed := e.consume(amount, uint64(now), 300)
			assert.True(t, consumed.Cmp(e.Remaining()) <= 0)
			assert.True(t, consumed.Cmp(amount) >= 0)
		}
	}
}

func TestVestingGovernance(t *testing.T) {
	v, _ := newVesting(t)

	assert.ErrorIs(t, v.SetPendingGovernor(governor, yum.Address{}), reverts.ErrZeroPendingGovernor)
	require.NoError(t, v.SetPendingGovernor(governor, player))
	require.NoError(t, v.AcceptGovernor(player))
	assert.ErrorIs(t, v.SetSchedule(governor, 60, 600), reverts.ErrOnlyGovernance)
	require.NoError(t, v.SetSchedule(player, 120, 600))

	cfg, err := v.Config()
	require.NoError(t, err)
	assert.Equal(t, uint64(120), cfg.Duration)
	assert.Equal(t, uint64(600), cfg.Window)
}
