// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co

import (
	"runtime"
)

// Enqueue queues a work item.
type Enqueue func(work func())

// Parallel runs the work queued by cb on at most workers go routines, one per CPU when workers is not positive.
// It returns once all queued work is done.
func Parallel(workers int, cb func(Enqueue)) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	ch := make(chan func(), workers*2)

	var goes Goes
	for range workers {
		goes.Go(func() {
			for work := range ch {
				work()
			}
		})
	}
	cb(func(work func()) { ch <- work })
	close(ch)
	goes.Wait()
}
