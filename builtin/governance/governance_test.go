// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package governance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wasabi-swap-team/wasabix-yum-polygon/builtin/reverts"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/builtin/solidity"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/lvldb"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/state"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/yum"
)

var (
	gov      = yum.BytesToAddress([]byte("gov"))
	sentinel = yum.BytesToAddress([]byte("sentinel"))
	other    = yum.BytesToAddress([]byte("other"))
)

func newGovernance(t *testing.T) *Governance {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	g := New(solidity.NewContext(yum.BytesToAddress([]byte("pools")), state.NewStater(db, 0).NewState()))
	require.NoError(t, g.Initialize(gov, sentinel))
	return g
}

func TestHandover(t *testing.T) {
	g := newGovernance(t)

	assert.ErrorIs(t, g.SetPendingGovernor(other, other), reverts.ErrOnlyGovernance)
	err := g.SetPendingGovernor(gov, yum.Address{})
	assert.ErrorIs(t, err, reverts.ErrZeroPendingGovernor)
	assert.Equal(t, "pending governance address cannot be 0x0", err.Error())

	require.NoError(t, g.SetPendingGovernor(gov, other))
	assert.ErrorIs(t, g.AcceptGovernor(sentinel), reverts.ErrOnlyGovernance)
	require.NoError(t, g.AcceptGovernor(other))

	current, err := g.Governor()
	require.NoError(t, err)
	assert.Equal(t, other, current)

	pending, err := g.PendingGovernor()
	require.NoError(t, err)
	assert.True(t, pending.IsZero())
	assert.ErrorIs(t, g.RequireGovernor(gov), reverts.ErrOnlyGovernance)
}

func TestPause(t *testing.T) {
	g := newGovernance(t)

	assert.NoError(t, g.RequireNotPaused())
	assert.ErrorIs(t, g.RequirePaused(), reverts.ErrNotPaused)
	assert.ErrorIs(t, g.SetPause(other, true), reverts.ErrOnlyGovernance)

	require.NoError(t, g.SetPause(sentinel, true))
	assert.ErrorIs(t, g.RequireNotPaused(), reverts.ErrPaused)
	assert.NoError(t, g.RequirePaused())

	require.NoError(t, g.SetPause(gov, false))
	paused, err := g.IsPaused()
	require.NoError(t, err)
	assert.False(t, paused)
}

func TestSentinel(t *testing.T) {
	g := newGovernance(t)

	assert.ErrorIs(t, g.SetSentinel(sentinel, other), reverts.ErrOnlyGovernance)
	assert.ErrorIs(t, g.SetSentinel(gov, yum.Address{}), reverts.ErrZeroAddress)
	require.NoError(t, g.SetSentinel(gov, other))

	assert.NoError(t, g.RequireGovernorOrSentinel(other))
	assert.ErrorIs(t, g.RequireGovernorOrSentinel(sentinel), reverts.ErrOnlyGovernance)
}
