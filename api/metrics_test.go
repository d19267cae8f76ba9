// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/prometheus/common/expfmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wasabi-swap-team/wasabix-yum-polygon/api/pools"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/api/subscriptions"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/metrics"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/test"
	"github.com/wasabi-swap-team/wasabix-yum-polygon/test/testchain"
)

func init() {
	metrics.InitializePrometheusMetrics()
}

func TestMetricsMiddleware(t *testing.T) {
	chain, err := testchain.NewDefault()
	require.NoError(t, err)
	defer chain.Close()

	router := mux.NewRouter()
	pools.New(chain.Runtime()).Mount(router, "/pools")
	router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())
	router.Use(metricsMiddleware)
	ts := httptest.NewServer(router)
	defer ts.Close()

	_, code := httpGet(t, ts.URL+"/pools/0")
	assert.Equal(t, 200, code)
	_, code = httpGet(t, ts.URL+"/pools/1")
	assert.Equal(t, 200, code)
	_, code = httpGet(t, ts.URL+"/pools/99")
	assert.Equal(t, 404, code)
	// unmatched routes are not recorded
	_, code = httpGet(t, ts.URL+"/pools/abc")
	assert.Equal(t, 404, code)

	body, _ := httpGet(t, ts.URL+"/metrics")
	parser := expfmt.TextParser{}
	families, err := parser.TextToMetricFamilies(bytes.NewReader(body))
	require.NoError(t, err)

	m := families["yum_api_request_count"].GetMetric()
	require.Equal(t, 2, len(m), "should be 2 metric entries")
	assert.Equal(t, float64(2), m[0].GetCounter().GetValue())
	assert.Equal(t, float64(1), m[1].GetCounter().GetValue())

	labels := m[0].GetLabel()
	assert.Equal(t, 3, len(labels))
	assert.Equal(t, "code", labels[0].GetName())
	assert.Equal(t, "200", labels[0].GetValue())
	assert.Equal(t, "method", labels[1].GetName())
	assert.Equal(t, "GET", labels[1].GetValue())
	assert.Equal(t, "name", labels[2].GetName())
	assert.Equal(t, "GET /pools/{id}", labels[2].GetValue())

	labels = m[1].GetLabel()
	assert.Equal(t, "404", labels[0].GetValue())
	assert.Equal(t, "GET /pools/{id}", labels[2].GetValue())
}

func TestWebsocketMetrics(t *testing.T) {
	chain, err := testchain.NewDefault()
	require.NoError(t, err)
	defer chain.Close()

	router := mux.NewRouter()
	sub := subscriptions.New(chain.Runtime(), []string{"*"}, 10)
	sub.Mount(router, "/subscriptions")
	router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())
	router.Use(metricsMiddleware)
	ts := httptest.NewServer(router)
	defer ts.Close()
	defer sub.Close()

	u := url.URL{Scheme: "ws", Host: strings.TrimPrefix(ts.URL, "http://"), Path: "/subscriptions/event"}
	conn1, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	require.NoError(t, err)
	defer conn1.Close()

	body, _ := httpGet(t, ts.URL+"/metrics")
	parser := expfmt.TextParser{}
	families, err := parser.TextToMetricFamilies(bytes.NewReader(body))
	require.NoError(t, err)

	m := families["yum_api_active_websocket_count"].GetMetric()
	require.Equal(t, 1, len(m), "should be 1 metric entries")
	assert.Equal(t, float64(1), m[0].GetGauge().GetValue())

	labels := m[0].GetLabel()
	assert.Equal(t, "subject", labels[0].GetName())
	assert.Equal(t, "event", labels[0].GetValue())

	conn2, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	require.NoError(t, err)
	defer conn2.Close()

	body, _ = httpGet(t, ts.URL+"/metrics")
	families, err = parser.TextToMetricFamilies(bytes.NewReader(body))
	require.NoError(t, err)

	m = families["yum_api_active_websocket_count"].GetMetric()
	require.Equal(t, 1, len(m), "should be 1 metric entries")
	assert.Equal(t, float64(2), m[0].GetGauge().GetValue())

	// the gauge drops once the server notices the closed conn
	conn1.Close()
	require.NoError(t, test.Retry(func() error {
		body, _ := httpGet(t, ts.URL+"/metrics")
		families, err := parser.TextToMetricFamilies(bytes.NewReader(body))
		if err != nil {
			return err
		}
		if v := families["yum_api_active_websocket_count"].GetMetric()[0].GetGauge().GetValue(); v != 1 {
			return fmt.Errorf("active websockets %v", v)
		}
		return nil
	}, 10*time.Millisecond, 2*time.Second))
}

func httpGet(t *testing.T, url string) ([]byte, int) {
	res, err := http.Get(url) //#nosec G107
	if err != nil {
		t.Fatal(err)
	}
	r, err := io.ReadAll(res.Body)
	res.Body.Close()
	if err != nil {
		t.Fatal(err)
	}
	return r, res.StatusCode
}
