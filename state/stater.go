// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"

	"github.com/qianbin/directcache"

	"github.com/wasabi-swap-team/wasabix-yum-polygon/cache"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/kv"
)

const storageBucket = kv.Bucket("s")

// Stater is the state creator.
type Stater struct {
	db     kv.Store
	getter kv.Getter
	cache  *directcache.Cache
	stats  cache.Stats
}

// NewStater create a new stater.
// cacheSizeMB sizes the cache of committed slot values, zero disables it.
func NewStater(db kv.Store, cacheSizeMB int) *Stater {
	s := &Stater{
		db:     db,
		getter: storageBucket.NewGetter(db),
	}
	if cacheSizeMB > 0 {
		s.cache = directcache.New(cacheSizeMB * 1024 * 1024)
	}
	return s
}

// NewState create a new state object over committed storage.
func (s *Stater) NewState() *State {
	return newState(s)
}

// CacheStats returns slot cache hits and misses, and whether the hit rate moved since the last call.
func (s *Stater) CacheStats() (cache.Snapshot, bool) {
	return s.stats.Snapshot()
}

func (s *Stater) load(key storageKey) ([]byte, error) {
	k := key.bytes()
	if s.cache != nil {
		if v, ok := s.cache.Get(k); ok {
			s.stats.Hit()
			return bytes.Clone(v), nil
		}
		s.stats.Miss()
	}
	v, err := s.getter.Get(k)
	if err != nil {
		if s.getter.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(k, v)
	}
	return v, nil
}
