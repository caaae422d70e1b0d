// Copyright 2023 Sauce Labs Inc. All rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package bind

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/saucelabs/proxyclient"
	"github.com/saucelabs/proxyclient/log"
	"github.com/spf13/pflag"
)

func TestProxyConfigFlags(t *testing.T) {
	cfg := proxyclient.DefaultProxyConfig()
	var user, pass string

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	ProxyConfig(fs, cfg)
	ProxyCredentials(fs, &user, &pass)

	if err := fs.Parse([]string{
		"--proxy-host", "proxy.local",
		"--proxy-port", "8080",
		"--timeout", "3s",
		"-U", "user",
		"--proxy-password", "secret",
	}); err != nil {
		t.Fatal(err)
	}

	expected := &proxyclient.ProxyConfig{
		Host:      "proxy.local",
		Port:      8080,
		Timeout:   3 * time.Second,
		UserAgent: proxyclient.DefaultUserAgent,
	}
	if diff := cmp.Diff(expected, cfg); diff != "" {
		t.Fatalf("unexpected config (-want +got):\n%s", diff)
	}
	if user != "user" || pass != "secret" {
		t.Fatalf("unexpected credentials %q %q", user, pass)
	}
	if s := fs.Lookup("proxy-password").Value.String(); s != "xxxxx" {
		t.Fatalf("password not redacted: %q", s)
	}
}

func TestRequestFlags(t *testing.T) {
	var (
		req     proxyclient.Request
		headers []proxyclient.HeaderField
	)

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	Request(fs, &req, &headers)

	if err := fs.Parse([]string{
		"-X", "POST",
		"-H", "Accept: */*",
		"-H", "Authorization: Bearer token",
		"-d", "hello",
	}); err != nil {
		t.Fatal(err)
	}

	if req.Method != "POST" {
		t.Errorf("unexpected method %q", req.Method)
	}
	if string(req.Body) != "hello" {
		t.Errorf("unexpected body %q", req.Body)
	}
	expected := []proxyclient.HeaderField{
		{Name: "Accept", Value: "*/*"},
		{Name: "Authorization", Value: "Bearer token"},
	}
	if diff := cmp.Diff(expected, headers); diff != "" {
		t.Fatalf("unexpected headers (-want +got):\n%s", diff)
	}

	s := fs.Lookup("header").Value.String()
	if strings.Contains(s, "token") {
		t.Errorf("authorization header not redacted: %s", s)
	}
	if s := fs.Lookup("data").Value.String(); s != "<5 bytes>" {
		t.Errorf("unexpected data value %q", s)
	}
}

func TestRequestFlagsInvalidHeader(t *testing.T) {
	var (
		req     proxyclient.Request
		headers []proxyclient.HeaderField
	)

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.SetOutput(&strings.Builder{})
	Request(fs, &req, &headers)

	if err := fs.Parse([]string{"-H", "no-colon"}); err == nil {
		t.Fatal("expected error")
	}
}

func TestReadData(t *testing.T) {
	p := filepath.Join(t.TempDir(), "body.json")
	if err := os.WriteFile(p, []byte(`{"a":1}`), 0o600); err != nil {
		t.Fatal(err)
	}

	stdin = strings.NewReader("from stdin")
	t.Cleanup(func() { stdin = os.Stdin })

	tests := []struct {
		input    string
		expected string
	}{
		{"plain", "plain"},
		{"@" + p, `{"a":1}`},
		{"@-", "from stdin"},
	}
	for _, tc := range tests {
		b, err := ReadData(tc.input)
		if err != nil {
			t.Fatal(err)
		}
		if string(b) != tc.expected {
			t.Errorf("ReadData(%q)=%q, want %q", tc.input, b, tc.expected)
		}
	}

	if _, err := ReadData("@" + filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLogConfigFlags(t *testing.T) {
	cfg := log.DefaultConfig()

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	LogConfig(fs, cfg)

	if s := fs.Lookup("log-file").Value.String(); s != "" {
		t.Fatalf("expected empty log file, got %q", s)
	}

	logFile := filepath.Join(t.TempDir(), "logs", "proxyclient.log")
	if err := fs.Parse([]string{"--log-level", "debug", "--log-file", logFile}); err != nil {
		t.Fatal(err)
	}
	defer cfg.File.Close()

	if cfg.Level != log.DebugLevel {
		t.Errorf("unexpected level %s", cfg.Level)
	}
	if cfg.File == nil || cfg.File.Name() != logFile {
		t.Errorf("unexpected log file %v", cfg.File)
	}
	if s := fs.Lookup("log-file").Value.String(); s != logFile {
		t.Errorf("unexpected log file value %q", s)
	}

	if err := fs.Parse([]string{"--log-level", "trace"}); err == nil {
		t.Error("expected error for unknown level")
	}
}
