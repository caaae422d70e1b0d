// Copyright 2024 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package proxyclient

import (
	"context"

	"github.com/saucelabs/proxyclient/log"
)

// SendAction is a preconfigured request that can be played many times.
// OnSuccess is called with the response text, OnError with the request error.
type SendAction struct {
	Client  *Client
	Request Request
	Log     log.Logger

	OnSuccess func(response string)
	OnError   func(err error)
}

// Play sends the request and calls the matching callback.
// It returns the request error, if any.
func (a *SendAction) Play(ctx context.Context) error {
	l := a.Log
	if l == nil {
		l = log.NopLogger
	}

	req := a.Request
	req.Header = a.Request.Header.Clone()

	res, err := a.Client.Do(ctx, &req)
	if err != nil {
		l.Errorf("request failed: %s", err)
		if a.OnError != nil {
			a.OnError(err)
		}
		return err
	}

	l.Debugf("request successful")
	if a.OnSuccess != nil {
		a.OnSuccess(res)
	}
	return nil
}
