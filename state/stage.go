// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"sort"

	"github.com/pkg/errors"

	"github.com/wasabi-swap-team/wasabix-yum-polygon/kv"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/yum"
)

// Stage abstracts changes made by a state.
type Stage struct {
	stater  *Stater
	changes map[storageKey][]byte
}

// Len returns the number of changed slots.
func (s *Stage) Len() int {
	return len(s.changes)
}

func (s *Stage) sortedKeys() [][]byte {
	keys := make([][]byte, 0, len(s.changes))
	for k := range s.changes {
		keys = append(keys, k.bytes())
	}
	sort.Slice(keys, func(i, j int) bool { return bytes.Compare(keys[i], keys[j]) < 0 })
	return keys
}

// Hash computes a digest of all changes.
// The same changes always produce the same digest.
func (s *Stage) Hash() yum.Bytes32 {
	keys := s.sortedKeys()
	data := make([][]byte, 0, len(keys)*2)
	for _, k := range keys {
		var sk storageKey
		copy(sk.addr[:], k[:yum.AddressLength])
		copy(sk.key[:], k[yum.AddressLength:])
		data = append(data, k, s.changes[sk])
	}
	return yum.Blake2b(data...)
}

// Commit writes all changes in one batch, then refreshes the slot cache.
// Extra writes can be added to the same batch via extra.
func (s *Stage) Commit(extra func(putter kv.Putter) error) error {
	batch := s.stater.db.NewBatch()
	putter := storageBucket.NewPutter(batch)
	for k, v := range s.changes {
		var err error
		if len(v) == 0 {
			err = putter.Delete(k.bytes())
		} else {
			err = putter.Put(k.bytes(), v)
		}
		if err != nil {
			return errors.Wrap(err, "stage slot")
		}
	}
	if extra != nil {
		if err := extra(batch); err != nil {
			return err
		}
	}
	if err := batch.Write(); err != nil {
		return errors.Wrap(err, "commit state")
	}

	if c := s.stater.cache; c != nil {
		for k, v := range s.changes {
			if len(v) == 0 {
				c.Del(k.bytes())
			} else {
				c.Set(k.bytes(), v)
			}
		}
	}
	return nil
}
