// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wasabi-swap-team/wasabix-yum-polygon/lvldb"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/state"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/yum"
)

type entry struct {
	Amount *big.Int
	Time   uint64
}

func newContext(t *testing.T) *Context {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewContext(yum.BytesToAddress([]byte("test")), state.NewStater(db, 0).NewState())
}

func TestMapping(t *testing.T) {
	ctx := newContext(t)
	m := NewMapping[yum.Address, *entry](ctx, Slot("entries"))
	key := yum.BytesToAddress([]byte("alice"))

	v, err := m.Get(key)
	assert.NoError(t, err)
	assert.Nil(t, v)

	assert.Error(t, m.Update(key, &entry{big.NewInt(1), 1}))
	assert.NoError(t, m.Insert(key, &entry{big.NewInt(10), 2}))
	assert.Error(t, m.Insert(key, &entry{big.NewInt(10), 2}))

	v, err = m.Get(key)
	assert.NoError(t, err)
	assert.Equal(t, big.NewInt(10), v.Amount)
	assert.Equal(t, uint64(2), v.Time)

	assert.NoError(t, m.Update(key, &entry{big.NewInt(20), 3}))
	v, _ = m.Get(key)
	assert.Equal(t, big.NewInt(20), v.Amount)

	exists, err := m.Exists(key)
	assert.NoError(t, err)
	assert.True(t, exists)

	m.Delete(key)
	exists, _ = m.Exists(key)
	assert.False(t, exists)
}

func TestMappingDistinctBases(t *testing.T) {
	ctx := newContext(t)
	a := NewMapping[Uint64Key, uint64](ctx, Slot("a"))
	b := NewMapping[Uint64Key, uint64](ctx, Slot("b"))

	assert.NoError(t, a.Upsert(1, 100))
	v, err := b.Get(1)
	assert.NoError(t, err)
	assert.Equal(t, uint64(0), v)
	v, _ = a.Get(1)
	assert.Equal(t, uint64(100), v)
}

func TestRaw(t *testing.T) {
	ctx := newContext(t)
	r := NewRaw[bool](ctx, Slot("flag"))

	v, err := r.Get()
	assert.NoError(t, err)
	assert.False(t, v)

	assert.NoError(t, r.Upsert(true))
	v, _ = r.Get()
	assert.True(t, v)

	r.Delete()
	v, _ = r.Get()
	assert.False(t, v)
}

func TestUint256(t *testing.T) {
	ctx := newContext(t)
	u := NewUint256(ctx, Slot("total"))

	v, err := u.Get()
	assert.NoError(t, err)
	assert.Equal(t, 0, v.Sign())

	assert.NoError(t, u.Add(big.NewInt(100)))
	assert.NoError(t, u.Sub(big.NewInt(40)))
	v, _ = u.Get()
	assert.Equal(t, big.NewInt(60), v)

	assert.ErrorIs(t, u.Sub(big.NewInt(61)), ErrUnderflow)
	assert.NoError(t, u.Set(yum.MaxUint256))
	assert.ErrorIs(t, u.Add(big.NewInt(1)), ErrOverflow)
	assert.ErrorIs(t, u.Set(big.NewInt(-1)), ErrNegative)
}

func TestAddress(t *testing.T) {
	ctx := newContext(t)
	a := NewAddress(ctx, Slot("governor"))

	v, err := a.Get()
	assert.NoError(t, err)
	assert.True(t, v.IsZero())

	addr := yum.BytesToAddress([]byte("gov"))
	a.Set(addr)
	v, _ = a.Get()
	assert.Equal(t, addr, v)
}

func TestAtomic(t *testing.T) {
	ctx := newContext(t)
	u := NewUint256(ctx, Slot("total"))
	ev := NewEvent("Changed(uint256)")

	assert.NoError(t, ctx.Atomic(func() error {
		if err := u.Set(big.NewInt(1)); err != nil {
			return err
		}
		return ev.Emit(ctx, nil, big.NewInt(1))
	}))

	failure := errors.New("boom")
	err := ctx.Atomic(func() error {
		if err := u.Set(big.NewInt(2)); err != nil {
			return err
		}
		if err := ev.Emit(ctx, nil, big.NewInt(2)); err != nil {
			return err
		}
		return failure
	})
	assert.ErrorIs(t, err, failure)

	v, _ := u.Get()
	assert.Equal(t, big.NewInt(1), v)

	events := ctx.State().Events()
	require.Len(t, events, 1)
	assert.Equal(t, ev.ID(), events[0].Topics[0])

	var data []*big.Int
	require.NoError(t, rlp.DecodeBytes(events[0].Data, &data))
	assert.Equal(t, []*big.Int{big.NewInt(1)}, data)
}

func TestEventTopics(t *testing.T) {
	ctx := newContext(t)
	ev := NewEvent("Deposited(uint256,address,uint256)")
	user := yum.BytesToAddress([]byte("user"))

	require.NoError(t, ev.Emit(ctx, []yum.Bytes32{Uint64Topic(3), AddressTopic(user)}, big.NewInt(5)))
	events := ctx.State().Events().Filter(ctx.Address(), ev.ID())
	require.Len(t, events, 1)
	assert.Equal(t, Uint64Topic(3), events[0].Topics[1])
	assert.Equal(t, AddressTopic(user), events[0].Topics[2])
	assert.Equal(t, yum.Keccak256([]byte("Deposited(uint256,address,uint256)")), ev.ID())
}
