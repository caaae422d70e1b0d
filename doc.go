// Copyright 2022-2024 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package proxyclient provides a minimal HTTP client that sends all requests through a forward proxy.
// Plain http requests are forwarded with the absolute URL as request target,
// https requests go through an HTTP CONNECT tunnel, optionally authenticated with proxy basic authentication.
// Every request uses its own connection, there is no connection reuse.
package proxyclient
