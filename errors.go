// Copyright 2024 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package proxyclient

import (
	"errors"
	"strings"
)

// Error kinds returned by Client.Do, use errors.Is to check for them.
var (
	ErrInvalidURL      = errors.New("invalid URL")
	ErrConnect         = errors.New("proxy connect failed")
	ErrTunnelRejected  = errors.New("proxy tunnel rejected")
	ErrResponseTimeout = errors.New("response timeout")
)

// RequestError is returned for every failed request.
// The connection, if one was opened, is always closed when it is returned.
type RequestError struct {
	// Kind is one of ErrInvalidURL, ErrConnect, ErrTunnelRejected, ErrResponseTimeout.
	Kind error
	Msg  string
	Err  error

	// StatusLine is the proxy CONNECT response status line, set for ErrTunnelRejected.
	StatusLine string

	// Partial holds the response text read before the timeout expired.
	Partial string
}

func (e *RequestError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Kind.Error())
	if e.Msg != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Msg)
	}
	if e.StatusLine != "" {
		sb.WriteString(": ")
		sb.WriteString(e.StatusLine)
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

func (e *RequestError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func errorLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInvalidURL):
		return "invalid_url"
	case errors.Is(err, ErrConnect):
		return "connect_error"
	case errors.Is(err, ErrTunnelRejected):
		return "tunnel_rejected"
	case errors.Is(err, ErrResponseTimeout):
		return "timeout"
	default:
		return "unexpected_error"
	}
}
