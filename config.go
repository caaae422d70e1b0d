// Copyright 2023 Sauce Labs Inc. All rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package proxyclient

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"
)

const DefaultUserAgent = "proxyclient"

// ProxyConfig describes the forward proxy all requests are sent through.
// It must not be modified after it is passed to NewClient.
type ProxyConfig struct {
	Host string
	Port uint16

	// Credentials are sent as Proxy-Authorization: Basic on CONNECT requests.
	// Nil means no authentication, see UserPassword.
	// The password must be set but may be empty, url.UserPassword("user", "") sends "user:".
	Credentials *url.Userinfo

	// Timeout bounds dialing the proxy, reading the CONNECT response
	// and reading the response after the request is sent.
	Timeout time.Duration

	// UserAgent is sent on CONNECT and on requests that do not set it, empty disables it.
	UserAgent string
}

func DefaultProxyConfig() *ProxyConfig {
	return &ProxyConfig{
		Port:      3128,
		Timeout:   10 * time.Second,
		UserAgent: DefaultUserAgent,
	}
}

func (c *ProxyConfig) Validate() error {
	if c.Host == "" {
		return errors.New("proxy host is required")
	}
	if c.Port == 0 {
		return errors.New("proxy port is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("invalid timeout %s: must be positive", c.Timeout)
	}
	return validatedUserInfo(c.Credentials)
}

// Addr returns the proxy host:port.
func (c *ProxyConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(int(c.Port)))
}

// String returns the configuration with the password redacted.
func (c *ProxyConfig) String() string {
	user := "none"
	if c.Credentials != nil {
		user = c.Credentials.Username() + ":xxxxx"
	}
	return fmt.Sprintf("proxy=%s credentials=%s timeout=%s user-agent=%q", c.Addr(), user, c.Timeout, c.UserAgent)
}

// UserPassword returns credentials only if both username and password are non-empty, otherwise nil.
// Use url.UserPassword directly to send an empty password.
func UserPassword(username, password string) *url.Userinfo {
	if username == "" || password == "" {
		return nil
	}
	return url.UserPassword(username, password)
}

func validatedUserInfo(ui *url.Userinfo) error {
	if ui == nil {
		return nil
	}
	if ui.Username() == "" {
		return fmt.Errorf("username cannot be empty")
	}
	if _, ok := ui.Password(); !ok {
		return fmt.Errorf("password is required")
	}

	return nil
}
