// Copyright 2024 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package proxyclient

import (
	"net"
	"strconv"
	"strings"
)

const (
	HTTPScheme  = "http"
	HTTPSScheme = "https"
)

// URL is a request URL split into the parts needed to route it through a proxy.
type URL struct {
	Protocol string
	Host     string
	Port     uint16
	Path     string
}

// ParseURL splits s into protocol, host, port and path.
// It requires the "://" separator and nothing else:
// the host is not validated, the path is not decoded and the query is kept as part of the path.
//
// The protocol is matched case-insensitively and returned in lower case.
// If the port is missing it defaults to 443 for https and 80 otherwise,
// a port that is not a number is parsed as 0.
func ParseURL(s string) (URL, error) {
	scheme, rest, ok := strings.Cut(s, "://")
	if !ok {
		return URL{}, &RequestError{Kind: ErrInvalidURL, Msg: s}
	}

	u := URL{
		Protocol: strings.ToLower(scheme),
		Path:     "/",
	}

	host := rest
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		host, u.Path = rest[:i], rest[i:]
	}

	if h, p, ok := strings.Cut(host, ":"); ok {
		host = h
		u.Port = atoiPort(p)
	} else {
		u.Port = DefaultPort(u.Protocol)
	}
	u.Host = host

	return u, nil
}

// DefaultPort returns the port used when the URL does not specify one.
func DefaultPort(protocol string) uint16 {
	if protocol == HTTPSScheme {
		return 443
	}
	return 80
}

// Tunnel reports whether requests to u go through a CONNECT tunnel.
func (u URL) Tunnel() bool {
	return u.Protocol == HTTPSScheme
}

// Addr returns host:port.
func (u URL) Addr() string {
	return net.JoinHostPort(u.Host, strconv.Itoa(int(u.Port)))
}

// HostHeader returns the Host header value, the port is omitted if it is the default one.
func (u URL) HostHeader() string {
	if u.Port == DefaultPort(u.Protocol) {
		return u.Host
	}
	return u.Addr()
}

// atoiPort parses leading decimal digits and ignores the rest, like atoi.
// The result is truncated to 16 bits.
func atoiPort(s string) uint16 {
	s = strings.TrimLeft(s, " \t")

	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}

	var n uint32
	for i := 0; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		n = n*10 + uint32(s[i]-'0')
	}
	if neg {
		n = -n
	}

	return uint16(n) //nolint:gosec // truncation is intended
}
