/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package server

import (
	"github.com/prometheus/client_golang/prometheus"
)

// metrics groups every Prometheus collector a Server exposes. A nil
// *metrics makes every method below a no-op, so the engine never has to
// nil-check at each call site; newMetrics itself never returns nil.
type metrics struct {
	openConnections prometheus.Gauge
	registrySize    prometheus.Gauge
	dispatchTotal   *prometheus.CounterVec
	dispatchLatency *prometheus.HistogramVec
}

// newMetrics creates and registers the collectors against reg. Passing nil
// returns a metrics value whose collectors are unregistered but still
// usable (prometheus.Gauge/Counter work standalone) - this is how a server
// constructed without a registerer still gets a consistent metrics value.
func newMetrics(reg prometheus.Registerer, socketPath string) *metrics {
	m := &metrics{
		openConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "jrpc_open_connections",
			Help:        "Number of connections currently assigned to a worker.",
			ConstLabels: prometheus.Labels{"socket": socketPath},
		}),
		registrySize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "jrpc_registry_size",
			Help:        "Number of methods currently registered.",
			ConstLabels: prometheus.Labels{"socket": socketPath},
		}),
		dispatchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "jrpc_dispatch_total",
			Help:        "Requests dispatched, partitioned by method and outcome.",
			ConstLabels: prometheus.Labels{"socket": socketPath},
		}, []string{"method", "outcome"}),
		dispatchLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "jrpc_dispatch_duration_seconds",
			Help:        "Handler invocation latency in seconds, by method.",
			ConstLabels: prometheus.Labels{"socket": socketPath},
			Buckets:     prometheus.DefBuckets,
		}, []string{"method"}),
	}

	if reg != nil {
		_ = reg.Register(m.openConnections)
		_ = reg.Register(m.registrySize)
		_ = reg.Register(m.dispatchTotal)
		_ = reg.Register(m.dispatchLatency)
	}

	return m
}

func (m *metrics) connOpened() {
	if m != nil {
		m.openConnections.Inc()
	}
}

func (m *metrics) connClosed() {
	if m != nil {
		m.openConnections.Dec()
	}
}

func (m *metrics) setRegistrySize(n int) {
	if m != nil {
		m.registrySize.Set(float64(n))
	}
}

func (m *metrics) observeDispatch(method, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.dispatchTotal.WithLabelValues(method, outcome).Inc()
	m.dispatchLatency.WithLabelValues(method).Observe(seconds)
}
