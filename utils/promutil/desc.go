// Copyright 2022-2024 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package promutil

import (
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// Desc is a parsed prometheus.Desc.
type Desc struct {
	FqName         string
	Help           string
	ConstLabels    map[string]string
	VariableLabels []string
}

// DescribePrometheusMetrics returns descriptions of all metrics of p.
func DescribePrometheusMetrics(p prometheus.Collector) []Desc {
	ch := make(chan *prometheus.Desc, 1)
	go func() {
		p.Describe(ch)
		close(ch)
	}()

	var res []Desc //nolint:prealloc // We don't know the size of the result
	for d := range ch {
		res = append(res, parseDesc(d.String()))
	}
	return res
}

func parseDesc(s string) Desc {
	var res Desc
	fmt.Sscanf(s, "Desc{fqName: %q, help: %q", &res.FqName, &res.Help) //nolint:errcheck // partial matches are fine

	if cl := braced(s, "constLabels: {"); cl != "" {
		res.ConstLabels = make(map[string]string)
		for _, kv := range strings.Split(cl, ",") {
			if k, v, _ := strings.Cut(kv, "="); k != "" {
				res.ConstLabels[k] = strings.Trim(v, "\"")
			}
		}
	}
	if vl := braced(s, "variableLabels: {"); vl != "" {
		res.VariableLabels = strings.Split(vl, ",")
	}

	return res
}

// braced returns the text between prefix and the next closing brace.
func braced(s, prefix string) string {
	start := strings.Index(s, prefix)
	if start < 0 {
		return ""
	}
	s = s[start+len(prefix):]
	end := strings.IndexByte(s, '}')
	if end < 0 {
		return ""
	}
	return s[:end]
}
