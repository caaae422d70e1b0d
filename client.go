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
	"errors"
	"io"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/saucelabs/proxyclient/conntrack"
	"github.com/saucelabs/proxyclient/log"
	"golang.org/x/net/proxy"
)

// Request is a single HTTP request to send through the proxy.
type Request struct {
	URL string
	// Method defaults to GET.
	Method string
	Header Header
	// Body is sent with a Content-Length header if not empty.
	Body []byte
}

type Option func(*Client)

// WithDialer sets the dialer used to connect to the proxy.
// By default NewDialer is used with DefaultDialConfig and the proxy timeout.
func WithDialer(d proxy.ContextDialer) Option {
	return func(c *Client) {
		c.dialer = d
	}
}

// WithTLSConfig enables TLS over CONNECT tunnels, the server name defaults to the target host.
// Without it the request is written to the tunnel as is.
func WithTLSConfig(cfg *tls.Config) Option {
	return func(c *Client) {
		c.tlsConfig = cfg
	}
}

func WithLogger(l log.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// WithPromRegistry registers the client metrics in r under namespace.
func WithPromRegistry(r prometheus.Registerer, namespace string) Option {
	return func(c *Client) {
		c.promRegistry = r
		c.promNamespace = namespace
	}
}

// Client sends HTTP requests through a forward proxy.
// Every request uses a new connection that is closed before Do returns.
// Client is safe for concurrent use.
type Client struct {
	cfg           *ProxyConfig
	dialer        proxy.ContextDialer
	tlsConfig     *tls.Config
	log           log.Logger
	promRegistry  prometheus.Registerer
	promNamespace string
	metrics       *clientMetrics
}

func NewClient(cfg *ProxyConfig, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		cfg:           cfg,
		log:           log.NopLogger,
		promNamespace: "proxyclient",
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.dialer == nil {
		dc := DefaultDialConfig()
		dc.DialTimeout = cfg.Timeout
		c.dialer = NewDialer(dc)
	}
	c.metrics = newClientMetrics(c.promRegistry, c.promNamespace)

	return c, nil
}

// SendRequest sends a single request with a default client.
func SendRequest(ctx context.Context, cfg *ProxyConfig, url, method string, header Header, body []byte) (string, error) {
	c, err := NewClient(cfg)
	if err != nil {
		return "", err
	}
	return c.Do(ctx, &Request{
		URL:    url,
		Method: method,
		Header: header,
		Body:   body,
	})
}

// Do sends req and returns the raw response text: the status line, header lines and body,
// each line terminated with "\n".
//
// https URLs are sent through a CONNECT tunnel with the path as request target,
// other URLs are forwarded to the proxy with the full URL as request target.
// The response is read until the peer closes the connection or the proxy timeout expires.
func (c *Client) Do(ctx context.Context, req *Request) (res string, err error) {
	id := ulid.Make().String()
	start := time.Now()
	mode := modeNone
	defer func() {
		c.metrics.observe(mode, err, time.Since(start), len(res))
	}()

	u, err := ParseURL(req.URL)
	if err != nil {
		c.log.Errorf("[%s] invalid URL: %s", id, req.URL)
		return "", err
	}

	var conn net.Conn
	if u.Tunnel() {
		mode = modeTunnel
		conn, err = c.establishTunnel(ctx, id, u)
	} else {
		mode = modeForward
		conn, err = c.dialProxy(ctx, id, mode)
	}
	if err != nil {
		return "", err
	}
	defer conn.Close()

	// Unblock reads and writes when the context is canceled.
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	if err := conn.SetWriteDeadline(time.Now().Add(c.cfg.Timeout)); err != nil {
		return "", &RequestError{Kind: ErrConnect, Msg: "set write deadline", Err: err}
	}
	if err := c.writeRequest(conn, u, req); err != nil {
		c.log.Errorf("[%s] failed to send request: %s", id, err)
		return "", &RequestError{Kind: ErrConnect, Msg: "write request", Err: contextCause(ctx, err)}
	}

	res, err = c.readResponse(ctx, conn)
	if err != nil {
		c.log.Errorf("[%s] %s", id, err)
		return "", err
	}
	c.log.Debugf("[%s] %s", id, firstLine(res))

	return res, nil
}

// dialProxy connects to the proxy, bytes exchanged with the proxy are counted in the client metrics when the connection is closed.
func (c *Client) dialProxy(ctx context.Context, id, mode string) (net.Conn, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	addr := c.cfg.Addr()
	conn, err := c.dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		c.log.Errorf("[%s] failed to connect to proxy %s: %s", id, addr, err)
		return nil, &RequestError{Kind: ErrConnect, Msg: addr, Err: err}
	}

	var o *conntrack.Observer
	conn, o = conntrack.Builder{
		TrackTraffic: true,
		OnClose: func() {
			c.metrics.traffic(mode, o.Rx(), o.Tx())
		},
	}.BuildWithObserver(conn)

	return conn, nil
}

func (c *Client) writeRequest(w io.Writer, u URL, req *Request) error {
	method := req.Method
	if method == "" {
		method = "GET"
	}

	// Forwarded requests use the absolute URL as request target.
	target := req.URL
	if u.Tunnel() {
		target = u.Path
	}

	bw := bufio.NewWriterSize(w, 4096)
	writeLine(bw, method+" "+target+" HTTP/1.1")
	writeHeaderLine(bw, "Host", u.HostHeader())
	if ua := c.cfg.UserAgent; ua != "" && !req.Header.Has("User-Agent") {
		writeHeaderLine(bw, "User-Agent", ua)
	}
	if !req.Header.Has("Connection") {
		writeHeaderLine(bw, "Connection", "close")
	}
	for _, name := range req.Header.Names() {
		// Host and Content-Length are computed from the URL and body.
		if strings.EqualFold(name, "Host") || (len(req.Body) > 0 && strings.EqualFold(name, "Content-Length")) {
			continue
		}
		writeHeaderLine(bw, name, req.Header[name])
	}
	if len(req.Body) > 0 {
		writeHeaderLine(bw, "Content-Length", strconv.Itoa(len(req.Body)))
		writeLine(bw, "")
		bw.Write(req.Body)
	} else {
		writeLine(bw, "")
	}

	return bw.Flush()
}

func (c *Client) readResponse(ctx context.Context, conn net.Conn) (string, error) {
	deadline := time.Now().Add(c.cfg.Timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetReadDeadline(deadline); err != nil {
		return "", &RequestError{Kind: ErrResponseTimeout, Msg: "set read deadline", Err: contextCause(ctx, err)}
	}

	br := bufio.NewReader(conn)
	if _, err := br.Peek(1); err != nil {
		return "", &RequestError{Kind: ErrResponseTimeout, Msg: "no response", Err: contextCause(ctx, err)}
	}

	var sb strings.Builder
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			sb.WriteString(strings.TrimSuffix(line, "\n"))
			sb.WriteByte('\n')
		}
		if err == nil {
			continue
		}

		if errors.Is(err, io.EOF) {
			return sb.String(), nil
		}
		if isTimeout(err) || ctx.Err() != nil {
			return "", &RequestError{
				Kind:    ErrResponseTimeout,
				Msg:     "incomplete response",
				Err:     contextCause(ctx, err),
				Partial: sb.String(),
			}
		}

		// The peer reset the connection, keep what was read.
		return sb.String(), nil
	}
}

func writeLine(w *bufio.Writer, s string) {
	w.WriteString(s)
	w.WriteString("\r\n")
}

func writeHeaderLine(w *bufio.Writer, name, value string) {
	writeLine(w, name+": "+value)
}

func isTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// contextCause returns the context error if the context is done, err otherwise.
// Closing the connection on cancellation surfaces as a "use of closed network connection" error.
func contextCause(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

func firstLine(s string) string {
	l, _, _ := strings.Cut(s, "\n")
	return trimEOL(l)
}
