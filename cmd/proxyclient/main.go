// Copyright 2022-2024 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package main

import (
	"os"

	"github.com/saucelabs/proxyclient/command/proxyclient"
)

func main() {
	if err := proxyclient.Command().Execute(); err != nil {
		os.Exit(1)
	}
}
