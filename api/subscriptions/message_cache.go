// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"encoding/json"

	"github.com/wasabi-swap-team/wasabix-yum-polygon/cache"
)

type messageKey struct {
	callSeq uint64
	index   uint32
}

// messageCache holds encoded event messages, so an event is encoded once for all subscribers.
type messageCache struct {
	lru *cache.LRU[messageKey, []byte]
}

func newMessageCache(size int) *messageCache {
	lru, err := cache.NewLRU[messageKey, []byte](size)
	if err != nil {
		panic(err)
	}
	return &messageCache{lru}
}

func (mc *messageCache) GetOrAdd(msg *EventMessage) ([]byte, bool, error) {
	key := messageKey{msg.Meta.CallSeq, msg.Meta.Index}
	if data, ok := mc.lru.Get(key); ok {
		return data, false, nil
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, false, err
	}
	mc.lru.Add(key, data)
	return data, true, nil
}
