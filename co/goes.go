// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package co holds small concurrency helpers.
package co

import "sync"

// Goes tracks background go routines so an owner can wait them out on close.
type Goes struct {
	wg sync.WaitGroup
}

func (g *Goes) Go(f func()) { g.wg.Go(f) }

// Wait returns once every f passed to Go has returned.
func (g *Goes) Wait() { g.wg.Wait() }
