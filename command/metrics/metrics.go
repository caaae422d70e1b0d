// Copyright 2022-2024 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package metrics

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/saucelabs/proxyclient"
	"github.com/saucelabs/proxyclient/command/send"
	"github.com/saucelabs/proxyclient/utils/promutil"
	"github.com/spf13/cobra"
)

func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "metrics",
		Short: "List the metrics printed by send --dump-metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			desc := promutil.DescribePrometheusMetrics(proxyclient.MetricsCollector(send.PromNamespace))
			sort.Slice(desc, func(i, j int) bool {
				return desc[i].FqName < desc[j].FqName
			})

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 8, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tLABELS\tHELP")
			for _, d := range desc {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", d.FqName, strings.Join(d.VariableLabels, ","), d.Help)
			}
			return tw.Flush()
		},
	}
}
