// Copyright 2022-2024 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package proxyclient

import (
	"github.com/saucelabs/proxyclient/bind"
	"github.com/saucelabs/proxyclient/command/metrics"
	"github.com/saucelabs/proxyclient/command/send"
	"github.com/saucelabs/proxyclient/command/version"
	"github.com/saucelabs/proxyclient/utils/cobrautil"
	"github.com/spf13/cobra"
)

const (
	EnvPrefix          = "PROXYCLIENT"
	ConfigFileFlagName = "config-file"

	helpWidth = 100
)

func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "proxyclient",
		Short:        "HTTP client sending requests through a forward proxy",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return cobrautil.BindAll(cmd, EnvPrefix, ConfigFileFlagName)
		},
	}
	bind.ConfigFile(cmd.PersistentFlags(), new(string))

	cmd.AddCommand(
		send.Command(),
		metrics.Command(),
		version.Command(),
	)
	for _, c := range cmd.Commands() {
		cobrautil.DefaultLong(c)
	}
	cobrautil.NoHelpSubcommand(cmd)
	cobrautil.WrapLong(cmd, helpWidth)
	cobrautil.SetFlagUsages(cmd, EnvPrefix, helpWidth)

	return cmd
}
