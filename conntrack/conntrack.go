// Copyright 2022-2024 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package conntrack wraps connections to count the bytes read and written and to get notified when they are closed.
package conntrack

import (
	"net"
	"sync"
	"sync/atomic"
)

// Observer allows to observe the number of bytes read and written from a connection.
type Observer struct {
	rx atomic.Uint64
	tx atomic.Uint64
}

// Rx returns the number of bytes read from the connection.
// It requires TrackTraffic to be set to true, otherwise it returns 0.
func (o *Observer) Rx() uint64 {
	return o.rx.Load()
}

// Tx returns the number of bytes written to the connection.
// It requires TrackTraffic to be set to true, otherwise it returns 0.
func (o *Observer) Tx() uint64 {
	return o.tx.Load()
}

type closeConn struct {
	net.Conn
	l closeListener // this is a field to avoid ambiguous selector error on Close method
}

func (c *closeConn) Close() error {
	return c.l.Close()
}

type closeListener struct {
	close   func() error
	once    sync.Once
	onClose func()
}

func (c *closeListener) Close() error {
	err := c.close()
	c.once.Do(c.onClose)
	return err
}

// conn is a net.Conn that tracks the number of bytes read and written.
type conn struct {
	net.Conn
	o Observer
}

func (c *conn) Read(p []byte) (n int, err error) {
	n, err = c.Conn.Read(p)
	c.o.rx.Add(uint64(n)) //nolint:gosec // n is never negative.
	return
}

func (c *conn) Write(p []byte) (n int, err error) {
	n, err = c.Conn.Write(p)
	c.o.tx.Add(uint64(n)) //nolint:gosec // n is never negative.
	return
}

type Builder struct {
	// TrackTraffic enables counting of bytes read and written by the connection.
	// Use Rx and Tx to get the number of bytes read and written.
	TrackTraffic bool

	// OnClose is called after the underlying connection is closed and before the Close method returns.
	// OnClose is called at most once.
	OnClose func()
}

func (b Builder) Build(c net.Conn) net.Conn {
	wc, _ := b.BuildWithObserver(c)
	return wc
}

// BuildWithObserver wraps c according to the builder settings.
// The observer is nil if TrackTraffic is false.
func (b Builder) BuildWithObserver(c net.Conn) (net.Conn, *Observer) {
	switch {
	case b.TrackTraffic && b.OnClose != nil:
		cc := &struct {
			conn
			closeListener
		}{
			conn: conn{Conn: c},
			closeListener: closeListener{
				close:   c.Close,
				onClose: b.OnClose,
			},
		}
		return cc, &cc.conn.o
	case b.TrackTraffic:
		cc := &conn{Conn: c}
		return cc, &cc.o
	case b.OnClose != nil:
		return &closeConn{
			Conn: c,
			l: closeListener{
				close:   c.Close,
				onClose: b.OnClose,
			},
		}, nil
	default:
		return c, nil
	}
}
