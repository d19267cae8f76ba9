// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wasabi-swap-team/wasabix-yum-polygon/builtin/pools"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/builtin/reverts"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/builtin/token"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/builtin/vesting"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/lvldb"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/state"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/yum"
)

var (
	governor = yum.BytesToAddress([]byte("governor"))
	user     = yum.BytesToAddress([]byte("user"))
	reward   = yum.BytesToAddress([]byte("WASABI"))
	stake    = yum.BytesToAddress([]byte("STAKE"))
)

func newContracts(t *testing.T) *Contracts {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	c := New(state.NewStater(db, 0).NewState())
	for _, addr := range []yum.Address{reward, stake} {
		require.NoError(t, c.Token(addr).Initialize(&token.Metadata{Name: "t", Symbol: "T", Decimals: 18, Owner: governor}))
	}
	require.NoError(t, c.Token(reward).SetMinter(governor, Pools.Address, true))
	require.NoError(t, c.Vesting.Initialize(&vesting.Params{
		Governor: governor,
		Token:    reward,
		Sources:  []yum.Address{Pools.Address},
	}))
	require.NoError(t, c.Pools.Initialize(&pools.Params{
		Governor:      governor,
		RewardToken:   reward,
		RewardVesting: Vesting.Address,
		FeeCollector:  governor,
		RewardRate:    big.NewInt(10),
	}))

	_, err = c.Pools.CreatePool(governor, stake, 100, true, 0, 0, 0)
	require.NoError(t, err)
	require.NoError(t, c.Token(stake).Mint(governor, user, big.NewInt(1000)))
	require.NoError(t, c.Token(stake).Approve(user, Pools.Address, yum.MaxUint256))
	require.NoError(t, c.Pools.Deposit(user, 0, big.NewInt(1000), 0))
	return c
}

func TestRewardsVest(t *testing.T) {
	c := newContracts(t)

	require.NoError(t, c.Pools.Claim(user, 0, 60))
	entry, err := c.Vesting.Entry(user)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, big.NewInt(600), entry.Principal)
	assert.Equal(t, uint64(60), entry.VestStart)

	bal, err := c.Token(reward).BalanceOf(Vesting.Address)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(600), bal)

	amount, penalty, err := c.Vesting.AvailableEarning(user, 60)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(300), amount)
	assert.Equal(t, big.NewInt(300), penalty)

	require.NoError(t, c.Vesting.WithdrawEarning(user, big.NewInt(600), 360))
	bal, _ = c.Token(reward).BalanceOf(user)
	assert.Equal(t, big.NewInt(600), bal)
}

func TestSinkFailureRevertsClaim(t *testing.T) {
	c := newContracts(t)
	require.NoError(t, c.Vesting.SetPause(governor, true))

	assert.ErrorIs(t, c.Pools.Claim(user, 0, 60), reverts.ErrPaused)

	pos, err := c.Pools.UserPosition(0, user)
	require.NoError(t, err)
	assert.Equal(t, 0, pos.Claimed.Sign())
	supply, err := c.Token(reward).TotalSupply()
	require.NoError(t, err)
	assert.Equal(t, 0, supply.Sign())

	pending, err := c.Pools.PendingReward(0, user, 60)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(600), pending)
}

func TestSwitchRewardVesting(t *testing.T) {
	c := newContracts(t)
	next := yum.BytesToAddress([]byte("RewardVesting2"))
	sink := vesting.New(next, c.State, &vestingEnv{c.State})
	require.NoError(t, sink.Initialize(&vesting.Params{
		Governor: governor,
		Token:    reward,
		Window:   600,
		Sources:  []yum.Address{Pools.Address},
	}))

	require.NoError(t, c.Pools.SetPause(governor, true))
	require.NoError(t, c.Pools.SetRewardVesting(governor, next))
	require.NoError(t, c.Pools.SetPause(governor, false))

	require.NoError(t, c.Pools.Claim(user, 0, 60))
	entry, err := sink.Entry(user)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, big.NewInt(600), entry.Principal)

	old, err := c.Vesting.Entry(user)
	require.NoError(t, err)
	assert.Nil(t, old)
}
