// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoopMetrics(t *testing.T) {
	m := defaultNoopMetrics()

	m.GetOrCreateCountMeter("c").Add(1)
	m.GetOrCreateCountVecMeter("cv", []string{"l"}).AddWithLabel(1, map[string]string{"l": "x"})
	m.GetOrCreateGaugeMeter("g").Set(1)
	m.GetOrCreateGaugeVecMeter("gv", []string{"l"}).SetWithLabel(1, map[string]string{"l": "x"})
	m.GetOrCreateHistogramMeter("h", nil).Observe(1)
	m.GetOrCreateHistogramVecMeter("hv", []string{"l"}, nil).ObserveWithLabels(1, map[string]string{"l": "x"})

	rec := httptest.NewRecorder()
	m.GetOrCreateHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLazyLoad(t *testing.T) {
	calls := 0
	f := LazyLoad(func() int {
		calls++
		return 42
	})
	assert.Equal(t, 0, calls)
	assert.Equal(t, 42, f())
	assert.Equal(t, 42, f())
	assert.Equal(t, 1, calls)
}
