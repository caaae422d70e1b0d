// Copyright 2022-2024 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package send

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/saucelabs/proxyclient"
	"github.com/saucelabs/proxyclient/bind"
	"github.com/saucelabs/proxyclient/internal/version"
	"github.com/saucelabs/proxyclient/log"
	"github.com/saucelabs/proxyclient/log/stdlog"
	"github.com/saucelabs/proxyclient/runctx"
	"github.com/saucelabs/proxyclient/utils/cobrautil"
	"github.com/saucelabs/proxyclient/utils/promutil"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
)

const PromNamespace = "proxyclient"

type command struct {
	promReg     *prometheus.Registry
	proxyConfig *proxyclient.ProxyConfig
	username    string
	password    string
	request     proxyclient.Request
	headers     []proxyclient.HeaderField
	tls         bool
	insecure    bool
	logConfig   *log.Config

	count       int
	concurrency int
	rate        float64

	dumpMetrics bool
	dryRun      bool
}

func (c *command) runE(cmd *cobra.Command, args []string) (cmdErr error) {
	if f := c.logConfig.File; f != nil {
		defer f.Close()
	}
	logger := stdlog.New(c.logConfig)

	defer func() {
		if cmdErr != nil {
			logger.Errorf("fatal error exiting: %s", cmdErr)
			cmd.SilenceErrors = true
		}
	}()

	c.request.URL = args[0]
	c.request.Header = proxyclient.HeaderFromFields(c.headers)
	c.proxyConfig.Credentials = credentials(c.username, c.password, cmd.Flags().Changed("proxy-password"))

	if err := c.validate(); err != nil {
		return err
	}

	if c.dryRun {
		cfg, err := cobrautil.FlagsDescriber{
			Format:     cobrautil.YAML,
			ShowHidden: true,
		}.DescribeFlags(cmd.Flags())
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(cfg)
		return err
	}

	logger.Infof("%s %s", cobrautil.FullCommandNameTitle(cmd), version.Version)
	if cfg, err := (cobrautil.FlagsDescriber{
		Format:          cobrautil.Plain,
		ShowChangedOnly: true,
		ShowHidden:      true,
	}.DescribeFlags(cmd.Flags())); err == nil && len(cfg) > 0 {
		logger.Debugf("configuration\n%s", cfg)
	}
	logger.Infof("using %s", c.proxyConfig)

	client, err := proxyclient.NewClient(c.proxyConfig, c.clientOptions(logger)...)
	if err != nil {
		return err
	}
	action := &proxyclient.SendAction{
		Client:  client,
		Request: c.request,
		Log:     logger.Named("send"),
	}

	if c.count == 1 {
		err = c.sendOnce(cmd.Context(), cmd.OutOrStdout(), action)
	} else {
		err = c.sendMany(cmd.Context(), cmd.OutOrStdout(), action, logger)
	}

	if c.dumpMetrics {
		m, derr := promutil.DumpPrometheusMetrics(c.promReg, promutil.WithNamePrefix(PromNamespace+"_"))
		if derr != nil {
			return errors.Join(err, derr)
		}
		fmt.Fprint(cmd.OutOrStdout(), m)
	}

	return err
}

func (c *command) validate() error {
	if err := c.request.Header.Validate(); err != nil {
		return err
	}
	if c.count < 1 {
		return fmt.Errorf("invalid count %d: must be at least 1", c.count)
	}
	if c.concurrency < 1 {
		return fmt.Errorf("invalid concurrency %d: must be at least 1", c.concurrency)
	}
	if c.rate < 0 {
		return fmt.Errorf("invalid rate %v: must not be negative", c.rate)
	}
	return c.proxyConfig.Validate()
}

func (c *command) clientOptions(logger *stdlog.Logger) []proxyclient.Option {
	opts := []proxyclient.Option{
		proxyclient.WithLogger(logger.Named("client")),
		proxyclient.WithPromRegistry(c.promReg, PromNamespace),
	}
	if c.tls || c.insecure {
		opts = append(opts, proxyclient.WithTLSConfig(&tls.Config{
			InsecureSkipVerify: c.insecure, //nolint:gosec // user requested
			MinVersion:         tls.VersionTLS12,
		}))
	}
	return opts
}

func (c *command) sendOnce(ctx context.Context, w io.Writer, action *proxyclient.SendAction) error {
	action.OnSuccess = func(res string) {
		fmt.Fprint(w, res)
	}

	var sendErr error
	g := runctx.NewGroup(func(ctx context.Context) error {
		sendErr = action.Play(ctx)
		return nil
	})
	if err := g.RunContext(ctx); err != nil {
		return err
	}
	return sendErr
}

func (c *command) sendMany(ctx context.Context, w io.Writer, action *proxyclient.SendAction, logger log.Logger) error {
	var limiter *rate.Limiter
	if c.rate > 0 {
		limiter = rate.NewLimiter(rate.Limit(c.rate), 1)
	}

	s := newSummary()
	g := runctx.NewGroup()
	g.Limit = c.concurrency
	for i := 0; i < c.count; i++ {
		g.Add(func(ctx context.Context) error {
			if limiter != nil {
				if err := limiter.Wait(ctx); err != nil {
					return context.Canceled
				}
			}

			start := time.Now()
			err := action.Play(ctx)
			s.record(time.Since(start), err)
			return nil
		})
	}

	logger.Infof("sending %d requests, concurrency %d", c.count, c.concurrency)
	start := time.Now()
	if err := g.RunContext(ctx); err != nil {
		return err
	}
	s.write(w, time.Since(start))

	if n := s.failed(); n > 0 {
		return fmt.Errorf("%d of %d requests failed", n, s.total())
	}
	if n := s.total(); n < c.count {
		return fmt.Errorf("interrupted after %d of %d requests", n, c.count)
	}
	return nil
}

func Command() *cobra.Command {
	c := command{
		promReg:     prometheus.NewRegistry(),
		proxyConfig: proxyclient.DefaultProxyConfig(),
		logConfig:   log.DefaultConfig(),
		count:       1,
		concurrency: 1,
	}

	cmd := &cobra.Command{
		Use:     "send --proxy-host <host> [--proxy-port <port>] [flags] <url>",
		Short:   "Send HTTP requests through a forward proxy",
		Long:    long,
		Example: example,
		Args:    cobra.ExactArgs(1),
		RunE:    c.runE,
	}

	fs := cmd.Flags()
	bind.ProxyConfig(fs, c.proxyConfig)
	bind.ProxyCredentials(fs, &c.username, &c.password)
	bind.Request(fs, &c.request, &c.headers)
	bind.TLS(fs, &c.tls, &c.insecure)
	fs.IntVarP(&c.count, "count", "n", c.count,
		"Number of requests to send. "+
			"If greater than 1, a latency summary is printed instead of the responses. ")
	fs.IntVar(&c.concurrency, "concurrency", c.concurrency,
		"Maximum number of requests in flight. ")
	fs.Float64Var(&c.rate, "rate", c.rate, "<requests per second>"+
		"Maximum rate of sending requests, zero means no limit. ")
	fs.BoolVar(&c.dumpMetrics, "dump-metrics", c.dumpMetrics,
		"Print the client metrics in Prometheus text format after sending the requests. ")
	fs.BoolVar(&c.dryRun, "dry-run", c.dryRun,
		"Print the configuration in YAML format and exit. ")
	bind.LogConfig(fs, c.logConfig)

	bind.MarkFlagRequired(cmd, "proxy-host")
	bind.MarkFlagHidden(cmd, "dry-run")
	bind.AutoMarkFlagFilename(cmd)

	return cmd
}

// credentials returns nil unless the username is not empty and the password flag is set.
// An explicitly set empty password is sent as is.
func credentials(username, password string, passwordSet bool) *url.Userinfo {
	if username == "" || !passwordSet {
		return nil
	}
	return url.UserPassword(username, password)
}

const long = `The raw response is printed as received, with a line feed added after the last line if missing. ` +
	`For https URLs the request is sent through a CONNECT tunnel, for other URLs the proxy forwards the request. ` +
	`The response is read until the server closes the connection or the timeout expires. ` +
	`Proxy basic authentication is used only if both username and password are set, the password may be set to an empty string.`

const example = `  # Send a GET request through a proxy
  proxyclient send --proxy-host proxy.local --proxy-port 3128 http://example.com/

  # Send a POST request with a JSON body read from a file through an authenticating proxy
  proxyclient send --proxy-host proxy.local -U user --proxy-password pass \
    -X POST -H "Content-Type: application/json" -d @body.json https://example.com/api

  # Send 100 requests, 10 at a time, at most 20 per second
  proxyclient send --proxy-host proxy.local -n 100 --concurrency 10 --rate 20 https://example.com/`
