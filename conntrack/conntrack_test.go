// Copyright 2022-2024 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package conntrack

import (
	"io"
	"net"
	"testing"
)

func TestBuildTrackTraffic(t *testing.T) {
	c1, c2 := net.Pipe()
	defer c2.Close()

	var closed int
	wc, co := Builder{
		TrackTraffic: true,
		OnClose:      func() { closed++ },
	}.BuildWithObserver(c1)
	if co == nil {
		t.Fatal("Expected a connection observer")
	}

	go func() {
		buf := make([]byte, 5)
		io.ReadFull(c2, buf)
		c2.Write([]byte("hello world"))
	}()

	if _, err := wc.Write([]byte("hello")); err != nil {
		t.Fatal(err)
	}
	buf := make([]byte, 11)
	if _, err := io.ReadFull(wc, buf); err != nil {
		t.Fatal(err)
	}

	if co.Tx() != 5 {
		t.Errorf("Tx: got %d, want 5", co.Tx())
	}
	if co.Rx() != 11 {
		t.Errorf("Rx: got %d, want 11", co.Rx())
	}

	wc.Close()
	wc.Close()
	if closed != 1 {
		t.Errorf("OnClose called %d times, want 1", closed)
	}
}

func TestBuildOnClose(t *testing.T) {
	c1, c2 := net.Pipe()
	defer c2.Close()

	var closed bool
	wc, co := Builder{OnClose: func() { closed = true }}.BuildWithObserver(c1)
	if co != nil {
		t.Error("Unexpected connection observer")
	}
	wc.Close()
	if !closed {
		t.Error("OnClose not called")
	}
}

func TestBuildNoop(t *testing.T) {
	c1, c2 := net.Pipe()
	defer c1.Close()
	defer c2.Close()

	if wc := (Builder{}).Build(c1); wc != c1 {
		t.Error("Expected the connection to be returned as is")
	}
}
