// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"github.com/wasabi-swap-team/wasabix-yum-polygon/builtin/reverts"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/metrics"
)

var (
	metricCallCount    = metrics.LazyLoadCounterVec("runtime_call_count", []string{"method", "outcome"})
	metricCallDuration = metrics.LazyLoadHistogramVec("runtime_call_duration_ms", []string{"method"}, metrics.BucketCalls)
	metricCallSeq      = metrics.LazyLoadGauge("runtime_call_seq")
	metricStateCache   = metrics.LazyLoadGaugeVec("runtime_state_cache", []string{"event"})
	metricEventCount   = metrics.LazyLoadCounter("runtime_event_count")
)

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	if kind, ok := reverts.KindOf(err); ok {
		return kind.String()
	}
	return "error"
}

func observeCall(method string, err error, elapsedMs int64) {
	metricCallCount().AddWithLabel(1, map[string]string{"method": method, "outcome": outcome(err)})
	metricCallDuration().ObserveWithLabels(elapsedMs, map[string]string{"method": method})
}

func (r *Runtime) observeCommit(events int) {
	metricCallSeq().Set(int64(r.callSeq))
	metricEventCount().Add(int64(events))
	if stats, moved := r.stater.CacheStats(); moved {
		metricStateCache().SetWithLabel(stats.Hit, map[string]string{"event": "hit"})
		metricStateCache().SetWithLabel(stats.Miss, map[string]string{"event": "miss"})
	}
}
