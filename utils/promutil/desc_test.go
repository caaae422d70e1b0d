// Copyright 2022-2024 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package promutil

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/saucelabs/proxyclient"
)

func TestDescribePrometheusMetrics(t *testing.T) {
	golden := []Desc{
		{
			FqName:         "test_requests_total",
			Help:           "Number of requests sent through the proxy by mode and result",
			VariableLabels: []string{"mode", "result"},
		},
		{
			FqName:         "test_request_duration_seconds",
			Help:           "Request duration from parsing the URL to reading the whole response",
			VariableLabels: []string{"mode"},
		},
		{
			FqName:         "test_response_bytes_total",
			Help:           "Number of response bytes returned to callers",
			VariableLabels: []string{"mode"},
		},
		{
			FqName:         "test_proxy_received_bytes_total",
			Help:           "Number of bytes read from proxy connections",
			VariableLabels: []string{"mode"},
		},
		{
			FqName:         "test_proxy_sent_bytes_total",
			Help:           "Number of bytes written to proxy connections",
			VariableLabels: []string{"mode"},
		},
	}

	desc := DescribePrometheusMetrics(proxyclient.MetricsCollector("test"))

	sf := func(a, b Desc) bool {
		return a.FqName < b.FqName
	}
	if diff := cmp.Diff(golden, desc, cmpopts.SortSlices(sf)); diff != "" {
		t.Errorf("unexpected metrics (-want +got):\n%s", diff)
	}
}

func TestParseDescConstLabels(t *testing.T) {
	d := parseDesc(`Desc{fqName: "x", help: "help text", constLabels: {a="1",b="2"}, variableLabels: {}}`)
	expected := Desc{
		FqName:      "x",
		Help:        "help text",
		ConstLabels: map[string]string{"a": "1", "b": "2"},
	}
	if diff := cmp.Diff(expected, d); diff != "" {
		t.Errorf("unexpected desc (-want +got):\n%s", diff)
	}
}
