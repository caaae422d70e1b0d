// Copyright 2022-2024 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package proxyclient

import (
	"bytes"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := Command()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSendEnvAndConfigFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "%s %s", r.RequestURI, r.Header.Get("User-Agent"))
	}))
	defer srv.Close()

	host, port, err := net.SplitHostPort(srv.Listener.Addr().String())
	if err != nil {
		t.Fatal(err)
	}

	cfg := filepath.Join(t.TempDir(), "proxyclient.yaml")
	if err := os.WriteFile(cfg, []byte("proxy-port: "+port+"\nuser-agent: from-file\nlog-level: error\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PROXYCLIENT_PROXY_HOST", host)
	t.Setenv("PROXYCLIENT_USER_AGENT", "from-env")

	out, err := execute(t, "send", "--config-file", cfg, "http://example.com/bar")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(out, "http://example.com/bar from-env\n") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestSendMissingProxyHost(t *testing.T) {
	t.Setenv("PROXYCLIENT_PROXY_HOST", "")

	if _, err := execute(t, "send", "http://example.com/"); err == nil {
		t.Fatal("expected error")
	}
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "devel") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestMetrics(t *testing.T) {
	out, err := execute(t, "metrics")
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{
		"proxyclient_requests_total",
		"proxyclient_request_duration_seconds",
		"proxyclient_response_bytes_total",
		"proxyclient_proxy_received_bytes_total",
		"proxyclient_proxy_sent_bytes_total",
	} {
		if !strings.Contains(out, name) {
			t.Errorf("missing metric %s in:\n%s", name, out)
		}
	}
}
