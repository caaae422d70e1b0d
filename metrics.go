// Copyright 2022-2024 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package proxyclient

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	modeNone    = "none"
	modeTunnel  = "tunnel"
	modeForward = "forward"
)

type clientMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	rx       *prometheus.CounterVec

	proxyRx *prometheus.CounterVec
	proxyTx *prometheus.CounterVec
}

func newClientMetrics(r prometheus.Registerer, namespace string) *clientMetrics {
	if r == nil {
		r = prometheus.NewRegistry() // This registry will be discarded.
	}
	f := promauto.With(r)

	return &clientMetrics{
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Name:      "requests_total",
			Namespace: namespace,
			Help:      "Number of requests sent through the proxy by mode and result",
		}, []string{"mode", "result"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:      "request_duration_seconds",
			Namespace: namespace,
			Help:      "Request duration from parsing the URL to reading the whole response",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}, []string{"mode"}),
		rx: f.NewCounterVec(prometheus.CounterOpts{
			Name:      "response_bytes_total",
			Namespace: namespace,
			Help:      "Number of response bytes returned to callers",
		}, []string{"mode"}),
		proxyRx: f.NewCounterVec(prometheus.CounterOpts{
			Name:      "proxy_received_bytes_total",
			Namespace: namespace,
			Help:      "Number of bytes read from proxy connections",
		}, []string{"mode"}),
		proxyTx: f.NewCounterVec(prometheus.CounterOpts{
			Name:      "proxy_sent_bytes_total",
			Namespace: namespace,
			Help:      "Number of bytes written to proxy connections",
		}, []string{"mode"}),
	}
}

func (m *clientMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.requests.Describe(ch)
	m.duration.Describe(ch)
	m.rx.Describe(ch)
	m.proxyRx.Describe(ch)
	m.proxyTx.Describe(ch)
}

func (m *clientMetrics) Collect(ch chan<- prometheus.Metric) {
	m.requests.Collect(ch)
	m.duration.Collect(ch)
	m.rx.Collect(ch)
	m.proxyRx.Collect(ch)
	m.proxyTx.Collect(ch)
}

// MetricsCollector returns an unregistered collector with the metrics a Client exports under namespace.
// It is meant for describing the metrics.
func MetricsCollector(namespace string) prometheus.Collector {
	return newClientMetrics(nil, namespace)
}

func (m *clientMetrics) observe(mode string, err error, d time.Duration, n int) {
	m.requests.WithLabelValues(mode, errorLabel(err)).Inc()
	if mode == modeNone {
		return
	}
	m.duration.WithLabelValues(mode).Observe(d.Seconds())
	m.rx.WithLabelValues(mode).Add(float64(n))
}

func (m *clientMetrics) traffic(mode string, rx, tx uint64) {
	m.proxyRx.WithLabelValues(mode).Add(float64(rx))
	m.proxyTx.WithLabelValues(mode).Add(float64(tx))
}
