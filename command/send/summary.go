// Copyright 2022-2024 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package send

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/saucelabs/proxyclient"
	"golang.org/x/exp/maps"
)

// summary collects latencies of successful requests and counts of failed requests by error kind.
type summary struct {
	mu      sync.Mutex
	latency *hdrhistogram.Histogram
	errors  map[string]int
}

func newSummary() *summary {
	return &summary{
		// Microseconds up to one hour with 3 significant figures.
		latency: hdrhistogram.New(1, time.Hour.Microseconds(), 3),
		errors:  make(map[string]int),
	}
}

func (s *summary) record(d time.Duration, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.errors[errorKind(err)]++
		return
	}
	us := d.Microseconds()
	if us < 1 {
		us = 1
	}
	s.latency.RecordValue(us) //nolint:errcheck // values above the limit are dropped
}

func errorKind(err error) string {
	var re *proxyclient.RequestError
	if errors.As(err, &re) {
		return re.Kind.Error()
	}
	return err.Error()
}

func (s *summary) failed() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, v := range s.errors {
		n += v
	}
	return n
}

func (s *summary) total() int {
	n := s.failed()

	s.mu.Lock()
	defer s.mu.Unlock()
	return n + int(s.latency.TotalCount())
}

func (s *summary) write(w io.Writer, elapsed time.Duration) {
	total, failed := s.total(), s.failed()

	s.mu.Lock()
	defer s.mu.Unlock()

	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintf(tw, "requests:\t%d\n", total)
	fmt.Fprintf(tw, "succeeded:\t%d\n", total-failed)
	fmt.Fprintf(tw, "failed:\t%d\n", failed)
	fmt.Fprintf(tw, "elapsed:\t%s\n", elapsed.Round(time.Millisecond))
	if elapsed > 0 {
		fmt.Fprintf(tw, "rate:\t%.2f/s\n", float64(total)/elapsed.Seconds())
	}

	if s.latency.TotalCount() > 0 {
		us := func(v int64) time.Duration {
			return time.Duration(v) * time.Microsecond
		}
		fmt.Fprintf(tw, "latency min:\t%s\n", us(s.latency.Min()))
		fmt.Fprintf(tw, "latency mean:\t%s\n", us(int64(s.latency.Mean())))
		for _, q := range []float64{50, 90, 99} {
			fmt.Fprintf(tw, "latency p%v:\t%s\n", q, us(s.latency.ValueAtQuantile(q)))
		}
		fmt.Fprintf(tw, "latency max:\t%s\n", us(s.latency.Max()))
	}

	kinds := maps.Keys(s.errors)
	sort.Strings(kinds)
	for _, k := range kinds {
		fmt.Fprintf(tw, "error %q:\t%d\n", k, s.errors[k])
	}

	tw.Flush()
}
