// Copyright 2022-2024 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package send

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/saucelabs/proxyclient"
)

func TestSummary(t *testing.T) {
	s := newSummary()
	for i := 1; i <= 100; i++ {
		s.record(time.Duration(i)*time.Millisecond, nil)
	}
	s.record(time.Second, &proxyclient.RequestError{Kind: proxyclient.ErrResponseTimeout})
	s.record(time.Second, &proxyclient.RequestError{Kind: proxyclient.ErrResponseTimeout})
	s.record(time.Second, errors.New("boom"))

	if n := s.total(); n != 103 {
		t.Fatalf("expected 103 requests, got %d", n)
	}
	if n := s.failed(); n != 3 {
		t.Fatalf("expected 3 failed requests, got %d", n)
	}

	var sb strings.Builder
	s.write(&sb, time.Second)
	out := sb.String()

	for _, want := range []string{
		"requests:",
		"103",
		"latency min:",
		"1ms",
		"latency max:",
		"100ms",
		`error "boom":`,
		`error "response timeout":`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected summary to contain %q:\n%s", want, out)
		}
	}
	if strings.Index(out, `error "boom"`) > strings.Index(out, `error "response timeout"`) {
		t.Errorf("errors not sorted:\n%s", out)
	}
}
