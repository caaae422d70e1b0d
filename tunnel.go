// Copyright 2024 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package proxyclient

import (
	"bufio"
	"context"
	"crypto/tls"
	"net"
	"strings"
	"time"
)

// connectOK is the only accepted CONNECT response status prefix.
const connectOK = "HTTP/1.1 200"

// establishTunnel dials the proxy and asks it to CONNECT to u.
// On success the returned connection is a byte stream to the target,
// layered with TLS if the client has a TLS config.
// On failure the connection is closed.
func (c *Client) establishTunnel(ctx context.Context, id string, u URL) (net.Conn, error) {
	conn, err := c.dialProxy(ctx, id, modeTunnel)
	if err != nil {
		return nil, err
	}

	// Unblock the CONNECT exchange when the context is canceled.
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	if err := conn.SetDeadline(time.Now().Add(c.cfg.Timeout)); err != nil {
		conn.Close()
		return nil, &RequestError{Kind: ErrConnect, Msg: "set deadline", Err: err}
	}

	addr := u.Addr()
	c.log.Debugf("[%s] CONNECT %s via %s", id, addr, c.cfg.Addr())

	bw := bufio.NewWriterSize(conn, 1024)
	writeLine(bw, "CONNECT "+addr+" HTTP/1.1")
	writeHeaderLine(bw, "Host", addr)
	if ua := c.cfg.UserAgent; ua != "" {
		writeHeaderLine(bw, "User-Agent", ua)
	}
	if v := ProxyAuthorizationValue(c.cfg.Credentials); v != "" {
		writeHeaderLine(bw, ProxyAuthorizationHeader, v)
	}
	writeLine(bw, "")
	if err := bw.Flush(); err != nil {
		conn.Close()
		return nil, &RequestError{Kind: ErrConnect, Msg: "write CONNECT request", Err: contextCause(ctx, err)}
	}

	br := bufio.NewReaderSize(conn, 1024)
	status, err := br.ReadString('\n')
	if err != nil {
		conn.Close()
		c.log.Errorf("[%s] proxy tunnel failed: %s", id, err)
		return nil, &RequestError{Kind: ErrTunnelRejected, Msg: "read CONNECT response", Err: contextCause(ctx, err)}
	}
	status = trimEOL(status)
	if !strings.HasPrefix(status, connectOK) {
		conn.Close()
		c.log.Errorf("[%s] proxy tunnel failed: %s", id, status)
		return nil, &RequestError{Kind: ErrTunnelRejected, StatusLine: status}
	}

	// Skip the CONNECT response headers.
	for {
		line, err := br.ReadString('\n')
		if err != nil {
			conn.Close()
			c.log.Errorf("[%s] proxy tunnel failed: %s", id, err)
			return nil, &RequestError{Kind: ErrTunnelRejected, Msg: "read CONNECT response headers", Err: contextCause(ctx, err)}
		}
		if trimEOL(line) == "" {
			break
		}
	}

	if err := conn.SetDeadline(time.Time{}); err != nil {
		conn.Close()
		return nil, &RequestError{Kind: ErrConnect, Msg: "clear deadline", Err: err}
	}

	var tunnel net.Conn = &bufferedConn{Conn: conn, r: br}

	if c.tlsConfig != nil {
		tunnel, err = c.handshake(ctx, tunnel, u)
		if err != nil {
			return nil, err
		}
	}

	return tunnel, nil
}

func (c *Client) handshake(ctx context.Context, conn net.Conn, u URL) (net.Conn, error) {
	cfg := c.tlsConfig.Clone()
	if cfg.ServerName == "" {
		cfg.ServerName = u.Host
	}
	if len(cfg.NextProtos) == 0 {
		cfg.NextProtos = []string{"http/1.1"}
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	tc := tls.Client(conn, cfg)
	if err := tc.HandshakeContext(ctx); err != nil {
		conn.Close()
		return nil, &RequestError{Kind: ErrConnect, Msg: "TLS handshake with " + u.Host, Err: err}
	}

	return tc, nil
}

// bufferedConn is a net.Conn that first returns data already buffered by r.
type bufferedConn struct {
	net.Conn
	r *bufio.Reader
}

func (c *bufferedConn) Read(p []byte) (int, error) {
	if c.r.Buffered() > 0 {
		return c.r.Read(p)
	}
	return c.Conn.Read(p)
}

func trimEOL(s string) string {
	return strings.TrimRight(s, "\r\n")
}
