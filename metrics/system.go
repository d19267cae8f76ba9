// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"github.com/elastic/gosigar"
	"github.com/prometheus/client_golang/prometheus"
)

// systemCollector reports host memory usage.
type systemCollector struct {
	memTotal *prometheus.Desc
	memUsed  *prometheus.Desc
}

func newSystemCollector() *systemCollector {
	return &systemCollector{
		memTotal: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "system", "memory_total_bytes"),
			"Total physical memory of the host.",
			nil, nil,
		),
		memUsed: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "system", "memory_used_bytes"),
			"Used physical memory of the host.",
			nil, nil,
		),
	}
}

func (c *systemCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.memTotal
	ch <- c.memUsed
}

func (c *systemCollector) Collect(ch chan<- prometheus.Metric) {
	var mem gosigar.Mem
	if err := mem.Get(); err != nil {
		logger.Debug("failed to read memory stats", "err", err)
		return
	}
	ch <- prometheus.MustNewConstMetric(c.memTotal, prometheus.GaugeValue, float64(mem.Total))
	ch <- prometheus.MustNewConstMetric(c.memUsed, prometheus.GaugeValue, float64(mem.ActualUsed))
}
