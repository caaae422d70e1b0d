// Copyright 2022-2024 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

// Set with -ldflags "-X github.com/saucelabs/proxyclient/internal/version.Version=..." at build time.
var (
	Version = "devel"
	Time    = ""
	Commit  = ""
)

func init() {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if Commit == "" {
				Commit = s.Value
			}
		case "vcs.time":
			if Time == "" {
				Time = s.Value
			}
		}
	}
}

// String returns the version information in tabular format.
func String() string {
	var sb strings.Builder
	fmt.Fprintln(&sb, "Version:\t", Version)
	fmt.Fprintln(&sb, "Built time:\t", orUnknown(Time))
	fmt.Fprintln(&sb, "Git commit:\t", orUnknown(Commit))
	fmt.Fprintln(&sb, "Go Arch:\t", runtime.GOARCH)
	fmt.Fprintln(&sb, "Go OS:\t\t", runtime.GOOS)
	fmt.Fprintln(&sb, "Go Version:\t", runtime.Version())
	return sb.String()
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
