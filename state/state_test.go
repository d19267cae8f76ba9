// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wasabi-swap-team/wasabix-yum-polygon/kv"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/lvldb"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/yum"
)

func newStater(t *testing.T, cacheMB int) *Stater {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewStater(db, cacheMB)
}

func TestStorage(t *testing.T) {
	st := newStater(t, 0).NewState()
	addr := yum.BytesToAddress([]byte("acc"))
	key := yum.BytesToBytes32([]byte("key"))

	v, err := st.GetStorage(addr, key)
	require.NoError(t, err)
	assert.True(t, v.IsZero())

	value := yum.BytesToBytes32([]byte("value"))
	st.SetStorage(addr, key, value)
	v, err = st.GetStorage(addr, key)
	require.NoError(t, err)
	assert.Equal(t, value, v)

	raw, err := st.GetRawStorage(addr, key)
	require.NoError(t, err)
	expected, _ := rlp.EncodeToBytes([]byte("value"))
	assert.Equal(t, rlp.RawValue(expected), raw)

	st.SetStorage(addr, key, yum.Bytes32{})
	raw, err = st.GetRawStorage(addr, key)
	require.NoError(t, err)
	assert.Empty(t, raw)
}

func TestEncodeDecodeStorage(t *testing.T) {
	st := newStater(t, 0).NewState()
	addr := yum.BytesToAddress([]byte("acc"))
	key := yum.BytesToBytes32([]byte("key"))

	type record struct {
		A uint64
		B string
	}
	in := record{7, "seven"}
	require.NoError(t, st.EncodeStorage(addr, key, func() ([]byte, error) {
		return rlp.EncodeToBytes(&in)
	}))

	var out record
	require.NoError(t, st.DecodeStorage(addr, key, func(raw []byte) error {
		return rlp.DecodeBytes(raw, &out)
	}))
	assert.Equal(t, in, out)

	// structured values hash to a word
	word, err := st.GetStorage(addr, key)
	require.NoError(t, err)
	raw, _ := rlp.EncodeToBytes(&in)
	assert.Equal(t, yum.Blake2b(raw), word)
}

func TestCheckpointRevert(t *testing.T) {
	st := newStater(t, 0).NewState()
	addr := yum.BytesToAddress([]byte("acc"))
	key := yum.BytesToBytes32([]byte("key"))
	one := yum.BytesToBytes32([]byte{1})
	two := yum.BytesToBytes32([]byte{2})

	st.SetStorage(addr, key, one)
	st.AddEvent(&yum.Event{Address: addr})

	cp := st.NewCheckpoint()
	st.SetStorage(addr, key, two)
	st.AddEvent(&yum.Event{Address: addr})

	inner := st.NewCheckpoint()
	st.AddEvent(&yum.Event{Address: addr})
	st.RevertTo(inner)
	assert.Len(t, st.Events(), 2)

	v, err := st.GetStorage(addr, key)
	require.NoError(t, err)
	assert.Equal(t, two, v)

	st.RevertTo(cp)
	v, err = st.GetStorage(addr, key)
	require.NoError(t, err)
	assert.Equal(t, one, v)
	assert.Len(t, st.Events(), 1)
}

func TestStageCommit(t *testing.T) {
	stater := newStater(t, 1)
	addr := yum.BytesToAddress([]byte("acc"))
	k1 := yum.BytesToBytes32([]byte("k1"))
	k2 := yum.BytesToBytes32([]byte("k2"))
	v1 := yum.BytesToBytes32([]byte("v1"))

	st := stater.NewState()
	st.SetStorage(addr, k1, v1)
	st.SetStorage(addr, k2, v1)

	stage := st.Stage()
	assert.Equal(t, 2, stage.Len())
	hash := stage.Hash()
	assert.Equal(t, hash, st.Stage().Hash())

	require.NoError(t, stage.Commit(func(putter kv.Putter) error {
		return putter.Put([]byte("meta"), []byte{1})
	}))
	has, err := stater.db.Has([]byte("meta"))
	require.NoError(t, err)
	assert.True(t, has)

	next := stater.NewState()
	v, err := next.GetStorage(addr, k1)
	require.NoError(t, err)
	assert.Equal(t, v1, v)

	// second read served by the cache
	_, err = stater.NewState().GetStorage(addr, k1)
	require.NoError(t, err)
	stats, _ := stater.CacheStats()
	assert.True(t, stats.Hit > 0)

	next.SetStorage(addr, k2, yum.Bytes32{})
	require.NoError(t, next.Stage().Commit(nil))

	v, err = stater.NewState().GetStorage(addr, k2)
	require.NoError(t, err)
	assert.True(t, v.IsZero())
}

func TestUncommittedStateIsDiscarded(t *testing.T) {
	stater := newStater(t, 0)
	addr := yum.BytesToAddress([]byte("acc"))
	key := yum.BytesToBytes32([]byte("key"))

	st := stater.NewState()
	st.SetStorage(addr, key, yum.BytesToBytes32([]byte{9}))

	v, err := stater.NewState().GetStorage(addr, key)
	require.NoError(t, err)
	assert.True(t, v.IsZero())
}
