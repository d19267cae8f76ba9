// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/wasabi-swap-team/wasabix-yum-polygon/yum"
)

// Mapping is a key/value storage abstraction for built-in contracts, similar to the mapping in Solidity.
// Values are rlp encoded, an absent key reads as the zero value of V.
type Mapping[K Key, V any] struct {
	context *Context
	basePos yum.Bytes32
}

func NewMapping[K Key, V any](context *Context, pos yum.Bytes32) *Mapping[K, V] {
	return &Mapping[K, V]{context: context, basePos: pos}
}

func (m *Mapping[K, V]) position(key K) yum.Bytes32 {
	return position(key.Bytes(), m.basePos)
}

// Get returns the value of key.
func (m *Mapping[K, V]) Get(key K) (value V, err error) {
	err = m.context.st.DecodeStorage(m.context.addr, m.position(key), func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &value)
	})
	return
}

// Exists returns whether key holds a value.
func (m *Mapping[K, V]) Exists(key K) (bool, error) {
	raw, err := m.context.st.GetRawStorage(m.context.addr, m.position(key))
	if err != nil {
		return false, err
	}
	return len(raw) > 0, nil
}

// Insert stores a value for a key that must not exist yet.
func (m *Mapping[K, V]) Insert(key K, value V) error {
	exists, err := m.Exists(key)
	if err != nil {
		return err
	}
	if exists {
		return errors.Errorf("mapping: key %x already exists", key.Bytes())
	}
	return m.set(key, value)
}

// Update stores a value for a key that must exist.
func (m *Mapping[K, V]) Update(key K, value V) error {
	exists, err := m.Exists(key)
	if err != nil {
		return err
	}
	if !exists {
		return errors.Errorf("mapping: key %x not found", key.Bytes())
	}
	return m.set(key, value)
}

// Upsert stores a value regardless of existence.
func (m *Mapping[K, V]) Upsert(key K, value V) error {
	return m.set(key, value)
}

// Delete clears the value of key.
func (m *Mapping[K, V]) Delete(key K) {
	m.context.st.SetRawStorage(m.context.addr, m.position(key), nil)
}

func (m *Mapping[K, V]) set(key K, value V) error {
	return m.context.st.EncodeStorage(m.context.addr, m.position(key), func() ([]byte, error) {
		return rlp.EncodeToBytes(value)
	})
}
