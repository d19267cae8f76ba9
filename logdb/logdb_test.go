// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wasabi-swap-team/wasabix-yum-polygon/logdb"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/yum"
)

var (
	poolsAddr   = yum.BytesToAddress([]byte("StakingPools"))
	vestingAddr = yum.BytesToAddress([]byte("RewardVesting"))
	caller      = yum.BytesToAddress([]byte("caller"))
	deposited   = yum.Keccak256([]byte("Deposited(uint256,address,uint256)"))
	withdrawn   = yum.Keccak256([]byte("Withdrawn(uint256,address,uint256,uint256)"))
)

func newEvent(addr yum.Address, topics ...yum.Bytes32) *yum.Event {
	return &yum.Event{Address: addr, Topics: topics, Data: []byte("payload payload payload")}
}

func fill(t *testing.T, db *logdb.LogDB) {
	for seq := uint64(1); seq <= 10; seq++ {
		events := yum.Events{
			newEvent(poolsAddr, deposited, yum.BytesToBytes32([]byte{byte(seq)})),
			newEvent(vestingAddr, withdrawn),
		}
		require.NoError(t, db.Insert(seq, seq*100, "deposit", caller, events))
	}
}

func TestEmptyDB(t *testing.T) {
	db, err := logdb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	_, ok, err := db.NewestCallSeq()
	require.NoError(t, err)
	assert.False(t, ok)

	events, err := db.FilterEvents(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.NoError(t, db.Insert(1, 1, "noop", caller, nil))
}

func TestFilterEvents(t *testing.T) {
	db, err := logdb.NewMem()
	require.NoError(t, err)
	defer db.Close()
	fill(t, db)

	ctx := context.Background()
	all, err := db.FilterEvents(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 20)
	assert.Equal(t, uint64(1), all[0].CallSeq)
	assert.Equal(t, uint32(1), all[1].Index)
	assert.Equal(t, []byte("payload payload payload"), all[0].Data)
	assert.Equal(t, "deposit", all[0].Method)
	assert.Equal(t, caller, all[0].Caller)
	assert.Equal(t, deposited, *all[0].Topics[0])
	assert.Nil(t, all[1].Topics[1])

	addr := poolsAddr
	events, err := db.FilterEvents(ctx, &logdb.EventFilter{
		CriteriaSet: []*logdb.EventCriteria{{Address: &addr}},
		Range:       &logdb.Range{Unit: logdb.Call, From: 3, To: 5},
		Order:       logdb.DESC,
	})
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, uint64(5), events[0].CallSeq)
	assert.Equal(t, uint64(3), events[2].CallSeq)

	topic := withdrawn
	events, err = db.FilterEvents(ctx, &logdb.EventFilter{
		CriteriaSet: []*logdb.EventCriteria{{Topics: [5]*yum.Bytes32{&topic}}},
		Range:       &logdb.Range{Unit: logdb.Time, From: 200, To: 400},
		Options:     &logdb.Options{Offset: 1, Limit: 10},
	})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, uint64(300), events[0].CallTime)
	assert.Equal(t, vestingAddr, events[0].Address)

	seq7 := yum.BytesToBytes32([]byte{7})
	events, err = db.FilterEvents(ctx, &logdb.EventFilter{
		CriteriaSet: []*logdb.EventCriteria{
			{Topics: [5]*yum.Bytes32{nil, &seq7}},
			{Address: &addr, Topics: [5]*yum.Bytes32{nil, &seq7}},
		},
	})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, uint64(7), events[0].CallSeq)
}

func TestTruncate(t *testing.T) {
	db, err := logdb.New(filepath.Join(t.TempDir(), "logs.db"))
	require.NoError(t, err)
	defer db.Close()
	fill(t, db)

	newest, ok, err := db.NewestCallSeq()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint64(10), newest)

	require.NoError(t, db.Truncate(6))
	newest, _, err = db.NewestCallSeq()
	require.NoError(t, err)
	assert.Equal(t, uint64(6), newest)
}
