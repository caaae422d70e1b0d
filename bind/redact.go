// Copyright 2022-2024 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package bind

import (
	"fmt"
	"strings"

	"github.com/saucelabs/proxyclient"
)

func RedactPassword(p string) string {
	if p == "" {
		return ""
	}
	return "xxxxx"
}

// sensitiveHeaders are headers whose values are redacted.
var sensitiveHeaders = []string{ //nolint:gochecknoglobals // read only
	"Authorization",
	"Cookie",
	proxyclient.ProxyAuthorizationHeader,
}

func RedactHeaderField(hf proxyclient.HeaderField) string {
	for _, h := range sensitiveHeaders {
		if strings.EqualFold(hf.Name, h) {
			hf.Value = "xxxxx"
			break
		}
	}
	return fmt.Sprintf("%q", hf.String())
}

func RedactData(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return fmt.Sprintf("<%d bytes>", len(b))
}
