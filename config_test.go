// Copyright 2023 Sauce Labs Inc. All rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package proxyclient

import (
	"net/url"
	"strings"
	"testing"
	"time"
)

func TestProxyConfigValidate(t *testing.T) {
	valid := func() *ProxyConfig {
		cfg := DefaultProxyConfig()
		cfg.Host = "proxy.local"
		return cfg
	}

	tests := []struct {
		name   string
		modify func(cfg *ProxyConfig)
		err    string
	}{
		{
			name:   "valid",
			modify: func(cfg *ProxyConfig) {},
		},
		{
			name:   "missing host",
			modify: func(cfg *ProxyConfig) { cfg.Host = "" },
			err:    "proxy host is required",
		},
		{
			name:   "zero port",
			modify: func(cfg *ProxyConfig) { cfg.Port = 0 },
			err:    "proxy port is required",
		},
		{
			name:   "zero timeout",
			modify: func(cfg *ProxyConfig) { cfg.Timeout = 0 },
			err:    "invalid timeout",
		},
		{
			name:   "no password",
			modify: func(cfg *ProxyConfig) { cfg.Credentials = url.User("user") },
			err:    "password is required",
		},
		{
			name:   "empty password",
			modify: func(cfg *ProxyConfig) { cfg.Credentials = url.UserPassword("user", "") },
		},
		{
			name:   "credentials",
			modify: func(cfg *ProxyConfig) { cfg.Credentials = url.UserPassword("user", "pass") },
		},
	}

	for i := range tests {
		tc := tests[i]
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.modify(cfg)
			err := cfg.Validate()
			if tc.err == "" {
				if err != nil {
					t.Fatal(err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.err) {
				t.Fatalf("expected error containing %q, got %q", tc.err, err)
			}
		})
	}
}

func TestUserPassword(t *testing.T) {
	if UserPassword("user", "") != nil {
		t.Error("expected nil without password")
	}
	if UserPassword("", "pass") != nil {
		t.Error("expected nil without username")
	}
	u := UserPassword("user", "pass")
	if u == nil || u.String() != "user:pass" {
		t.Errorf("unexpected credentials %v", u)
	}
}

func TestProxyConfigStringRedactsPassword(t *testing.T) {
	cfg := &ProxyConfig{
		Host:        "proxy.local",
		Port:        3128,
		Credentials: url.UserPassword("user", "secret"),
		Timeout:     time.Second,
	}
	s := cfg.String()
	if strings.Contains(s, "secret") {
		t.Fatalf("password not redacted: %s", s)
	}
	if !strings.Contains(s, "proxy=proxy.local:3128") || !strings.Contains(s, "user:xxxxx") {
		t.Fatalf("unexpected string: %s", s)
	}
}
