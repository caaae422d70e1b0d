// Copyright 2022-2024 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package stdlog

import (
	"bytes"
	"strings"
	"testing"

	flog "github.com/saucelabs/proxyclient/log"
)

func TestLoggerNamedAllowsToPassCustomLevel(t *testing.T) {
	l := New(flog.DefaultConfig())
	f := l.Named("foo", WithLevel(0))
	if f.level != flog.Level(0) {
		t.Fatalf("level=%d, want 0", f.level)
	}
	if l.level != flog.InfoLevel {
		t.Fatalf("parent level changed to %s", l.level)
	}
}

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, flog.InfoLevel).Named("client")

	l.Debugf("debug %d", 1)
	l.Infof("info %d", 2)
	l.Errorf("error %d", 3)

	out := buf.String()
	if strings.Contains(out, "debug 1") {
		t.Errorf("debug message logged at info level:\n%s", out)
	}
	if !strings.Contains(out, "[client] [INFO] info 2") {
		t.Errorf("missing info message:\n%s", out)
	}
	if !strings.Contains(out, "[client] [ERROR] error 3") {
		t.Errorf("missing error message:\n%s", out)
	}
}

func TestLoggerOnError(t *testing.T) {
	var names []string
	l := NewWriter(&bytes.Buffer{}, flog.ErrorLevel, WithOnError(func(name string) {
		names = append(names, name)
	}))

	l.Named("a").Errorf("x")
	l.Named("b").Infof("x")
	l.Errorf("x")

	if len(names) != 2 || names[0] != "a" || names[1] != "" {
		t.Fatalf("unexpected onError calls: %q", names)
	}
}
