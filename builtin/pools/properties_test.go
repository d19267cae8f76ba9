// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pools

import (
	"math/big"
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wasabi-swap-team/wasabix-yum-polygon/builtin/reverts"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/builtin/token"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/yum"
)

type action struct {
	Kind    uint8
	User    uint8
	Amount  uint32
	Elapsed uint16
}

// TestLedgerInvariants drives random actions and checks, after every one, that the pool working
// supply equals the sum of user working amounts, that no working amount exceeds its stake and that
// the accumulator never decreases.
func TestLedgerInvariants(t *testing.T) {
	users := []yum.Address{alice, bob, carol}

	for seed := range int64(5) {
		f := newFixture(t, 1e6)
		f.createPool(t, stakeAddr, 100, 0)
		for _, u := range users {
			f.fund(t, stakeAddr, u, big.NewInt(1e12))
		}
		f.boost(t, governor, big.NewInt(1e6))

		var actions []action
		fuzz.NewWithSeed(seed).NilChance(0).NumElements(200, 200).Fuzz(&actions)

		now := uint64(1)
		lastAcc := new(big.Int)
		for _, a := range actions {
			now += uint64(a.Elapsed % 600)
			user := users[int(a.User)%len(users)]
			amount := big.NewInt(int64(a.Amount%1e6) + 1)

			var err error
			switch a.Kind % 4 {
			case 0:
				err = f.pools.Deposit(user, 0, amount, now)
			case 1:
				err = f.pools.Withdraw(user, 0, amount, now)
				if err != nil {
					assert.ErrorIs(t, err, reverts.ErrInsufficientBalance)
					err = nil
				}
			case 2:
				err = f.pools.Claim(user, 0, now)
			case 3:
				// shift boost balances between holders
				err = token.New(boostAddr, f.env.state).Mint(governor, user, amount)
			}
			require.NoError(t, err)

			pool, err := f.pools.Pool(0)
			require.NoError(t, err)

			sum := new(big.Int)
			for _, u := range users {
				pos := f.position(t, 0, u)
				sum.Add(sum, pos.Working)
				assert.True(t, pos.Working.Cmp(pos.Staked) <= 0, "working above stake")

				accrued := new(big.Int).Mul(pos.Working, pool.AccRewardPerShare)
				accrued.Div(accrued, yum.AccPrecision)
				assert.True(t, pos.RewardDebt.Cmp(accrued) <= 0, "negative pending")
			}
			assert.Equal(t, 0, sum.Cmp(pool.TotalWorking), "working supply diverged")
			assert.True(t, pool.AccRewardPerShare.Cmp(lastAcc) >= 0, "accumulator decreased")
			lastAcc = pool.AccRewardPerShare
		}
	}
}
