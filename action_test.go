// Copyright 2024 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package proxyclient

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"testing"
)

func TestSendActionPlay(t *testing.T) {
	p := newPipeProxy(func(conn net.Conn) error {
		br := bufio.NewReader(conn)
		head, err := readHead(br)
		if err != nil {
			return err
		}
		_, err = io.WriteString(conn, "HTTP/1.1 200 OK\r\n\r\n"+head[len(head)-1])
		return err
	})
	c := newTestClient(t, testProxyConfig(), p)

	var (
		responses []string
		errs      []error
	)
	a := &SendAction{
		Client: c,
		Request: Request{
			URL:    "http://example.com/",
			Header: Header{"X-Id": "1"},
		},
		OnSuccess: func(res string) { responses = append(responses, res) },
		OnError:   func(err error) { errs = append(errs, err) },
	}

	for i := 0; i < 3; i++ {
		if err := a.Play(context.Background()); err != nil {
			t.Fatal(err)
		}
	}
	p.wait(t)

	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(responses) != 3 {
		t.Fatalf("expected 3 responses, got %d", len(responses))
	}
	for _, res := range responses {
		if res != "HTTP/1.1 200 OK\r\n\r\nX-Id: 1\n" {
			t.Fatalf("unexpected response %q", res)
		}
	}
}

func TestSendActionPlayError(t *testing.T) {
	c, err := NewClient(testProxyConfig(), WithDialer(ContextDialerFunc(func(ctx context.Context, network, addr string) (net.Conn, error) {
		return nil, errors.New("refused")
	})))
	if err != nil {
		t.Fatal(err)
	}

	var got error
	a := &SendAction{
		Client:    c,
		Request:   Request{URL: "http://example.com/"},
		OnSuccess: func(string) { t.Error("unexpected success") },
		OnError:   func(err error) { got = err },
	}

	err = a.Play(context.Background())
	if !errors.Is(err, ErrConnect) {
		t.Fatalf("expected ErrConnect, got %v", err)
	}
	if got != err {
		t.Fatalf("OnError called with %v, want %v", got, err)
	}
}
