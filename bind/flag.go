// Copyright 2023 Sauce Labs Inc. All rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package bind

import (
	"strings"

	"github.com/mmatczuk/anyflag"
	"github.com/saucelabs/proxyclient"
	"github.com/saucelabs/proxyclient/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func ConfigFile(fs *pflag.FlagSet, configFile *string) {
	fs.StringVarP(configFile,
		"config-file", "c", *configFile, "<path>"+
			"Configuration file to load options from. "+
			"The supported formats are: JSON, YAML, TOML, HCL, and Java properties. "+
			"The file format is determined by the file extension, if not specified the default format is YAML. "+
			"The following precedence order of configuration sources is used: command flags, environment variables, config file, default values. ")
}

func ProxyConfig(fs *pflag.FlagSet, cfg *proxyclient.ProxyConfig) {
	fs.StringVar(&cfg.Host,
		"proxy-host", cfg.Host, "<host>"+
			"Hostname or IP address of the proxy server. ")
	fs.Uint16Var(&cfg.Port,
		"proxy-port", cfg.Port, "<port>"+
			"Port of the proxy server. ")
	fs.DurationVar(&cfg.Timeout,
		"timeout", cfg.Timeout,
		"Timeout for connecting to the proxy, establishing the tunnel and waiting for the response after the request is sent. ")
	fs.StringVar(&cfg.UserAgent,
		"user-agent", cfg.UserAgent, "<value>"+
			"User-Agent header sent with CONNECT and with requests that do not set it. "+
			"Setting it to empty string disables the header. ")
}

// ProxyCredentials binds the proxy username and password.
// Credentials are used only if both are set, see proxyclient.UserPassword.
func ProxyCredentials(fs *pflag.FlagSet, username, password *string) {
	fs.StringVarP(username,
		"proxy-username", "U", *username, "<username>"+
			"Username for the proxy basic authentication. ")
	fs.Var(anyflag.NewValueWithRedact[string](*password, password, parsePassword, RedactPassword),
		"proxy-password", "<password>"+
			"Password for the proxy basic authentication. ")
}

func parsePassword(val string) (string, error) {
	return val, nil
}

func Request(fs *pflag.FlagSet, req *proxyclient.Request, headers *[]proxyclient.HeaderField) {
	fs.StringVarP(&req.Method,
		"method", "X", req.Method, "<method>"+
			"HTTP method of the request. ")
	fs.VarP(anyflag.NewSliceValueWithRedact[proxyclient.HeaderField](*headers, headers, proxyclient.ParseHeaderField, RedactHeaderField),
		"header", "H", "<header>"+
			"Add HTTP request header in the format \"name: value\". "+
			"The header value should not contain any newlines or carriage returns. "+
			"The flag can be specified multiple times. "+
			"Example: -H \"Accept: application/json\" -H \"X-Request-Id: 1\". ")
	fs.VarP(anyflag.NewValueWithRedact[[]byte](req.Body, &req.Body, ReadData, RedactData),
		"data", "d", "<data or @path>"+
			"Request body. "+
			"Prefix the value with @ to read the body from a file, use @- to read it from stdin. "+
			"The Content-Length header is added if the body is not empty. ")
}

func TLS(fs *pflag.FlagSet, enabled, insecure *bool) {
	fs.BoolVar(enabled,
		"tls", *enabled,
		"Use TLS over the CONNECT tunnel for https URLs. "+
			"If disabled, the request is written to the tunnel as plain text. ")
	fs.BoolVar(insecure,
		"insecure", *insecure,
		"Don't verify the server's certificate chain and host name. "+
			"Enable to work with self-signed certificates. ")
}

func LogConfig(fs *pflag.FlagSet, cfg *log.Config) {
	fs.Var(NewFileFlag(&cfg.File, OpenFileParser(log.DefaultFileFlags, log.DefaultFileMode, log.DefaultDirMode)),
		"log-file", "<path>"+
			"Path to the log file, if empty, logs to stderr. ")

	fs.Var(anyflag.NewValue[log.Level](cfg.Level, &cfg.Level, anyflag.EnumParser[log.Level](log.Levels()...)),
		"log-level", "<error|info|debug>"+
			"Log level. ")
}

func MarkFlagHidden(cmd *cobra.Command, names ...string) {
	for _, name := range names {
		if err := cmd.Flags().MarkHidden(name); err != nil {
			panic(err)
		}
	}
}

func MarkFlagRequired(cmd *cobra.Command, names ...string) {
	for _, name := range names {
		if err := cmd.MarkFlagRequired(name); err != nil {
			panic(err)
		}
	}
}

func AutoMarkFlagFilename(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if strings.HasPrefix(f.Usage, "<path") ||
			strings.HasSuffix(f.Name, "-file") {
			MarkFlagFilename(cmd, f.Name)
		}
	})
}

func MarkFlagFilename(cmd *cobra.Command, names ...string) {
	for _, name := range names {
		if err := cmd.MarkFlagFilename(name); err != nil {
			panic(err)
		}
	}
}
