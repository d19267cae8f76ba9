// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package scenario

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wasabi-swap-team/wasabix-yum-polygon/builtin"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/genesis"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/yum"
)

func TestReplayTestdata(t *testing.T) {
	files, err := filepath.Glob("testdata/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, file := range files {
		t.Run(filepath.Base(file), func(t *testing.T) {
			sc, err := Load(file)
			require.NoError(t, err)

			var steps int
			res, err := Run(sc, func(int) { steps++ })
			require.NoError(t, err)
			defer res.Close()

			assert.Equal(t, len(sc.Steps), steps)
			assert.Empty(t, res.Failures)
		})
	}
}

func TestReportsFailures(t *testing.T) {
	doc := `
name: failing
accounts:
  alice: "0x00000000000000000000000000000000000000c1"
steps:
  - call: setPause
    caller: alice
    args: {paused: true}
  - call: setRewardRate
    caller: alice
    args: {amount: "1"}
    revert: paused
  - expect:
      - {check: paused, value: "true"}
      - {check: totalStaked, pool: 9, value: "0"}
`
	sc, err := Parse([]byte(doc))
	require.NoError(t, err)

	res, err := Run(sc, nil)
	require.NoError(t, err)
	defer res.Close()

	assert.Equal(t, 2, res.Calls)
	assert.Equal(t, 2, res.Reverted)
	require.Len(t, res.Failures, 4)
	assert.Equal(t, 0, res.Failures[0].Step)
	assert.Contains(t, res.Failures[0].String(), "unexpected revert")
	assert.Contains(t, res.Failures[1].Message, "expected paused revert")
	assert.Contains(t, res.Failures[2].Message, "paused: want true")
	assert.Contains(t, res.Failures[3].Message, "unknown pool")
}

func TestDefaultsToDevnet(t *testing.T) {
	sc, err := Parse([]byte("name: devnet\nsteps: []\n"))
	require.NoError(t, err)

	res, err := Run(sc, nil)
	require.NoError(t, err)
	defer res.Close()
	assert.Equal(t, genesis.NewDevnet().ID(), res.Genesis.ID())
}

func TestParseRejects(t *testing.T) {
	for _, doc := range []string{
		"steps:\n  - call: explode\n",
		"steps:\n  - expect:\n      - {check: nothing, value: \"1\"}\n",
		"steps:\n  - when: 1\n",
	} {
		_, err := Parse([]byte(doc))
		assert.Error(t, err, doc)
	}
}

func TestResolve(t *testing.T) {
	accounts := map[string]yum.Address{"alice": yum.BytesToAddress([]byte("alice"))}

	addr, err := Ref("alice").resolve(accounts)
	require.NoError(t, err)
	assert.Equal(t, accounts["alice"], addr)

	addr, err = Ref("pools").resolve(accounts)
	require.NoError(t, err)
	assert.Equal(t, builtin.Pools.Address, addr)

	_, err = Ref("mallory").resolve(accounts)
	assert.Error(t, err)

	v, err := Amount("max").value()
	require.NoError(t, err)
	assert.Equal(t, yum.MaxUint256, v)
	v, err = Amount("0x10").value()
	require.NoError(t, err)
	assert.Equal(t, int64(16), v.Int64())
	_, err = Amount("ten").value()
	assert.Error(t, err)
}
