// Copyright 2023 Sauce Labs Inc. All rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package cobrautil

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/mitchellh/go-wordwrap"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const usageIndent = "      "

// FlagUsages returns the help text for the flags in fs.
// A usage string may start with a value placeholder like "<path>" or "[protocol://]host[:port]",
// followed by the description starting with an upper case letter.
// The placeholder is printed next to the flag name instead of the value type.
// The description is wrapped at width.
func FlagUsages(fs *pflag.FlagSet, envPrefix string, width uint) string {
	var sb strings.Builder
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}

		sb.WriteString("  ")
		if f.Shorthand != "" {
			fmt.Fprintf(&sb, "-%s, ", f.Shorthand)
		}
		fmt.Fprintf(&sb, "--%s", f.Name)

		placeholder, usage := splitUsage(f)
		if placeholder != "" {
			sb.WriteString(" " + placeholder)
		}
		if def := defaultValue(f); def != "" {
			fmt.Fprintf(&sb, " (default %s)", def)
		}
		if envPrefix != "" && f.Name != "help" {
			fmt.Fprintf(&sb, " (env %s)", EnvName(envPrefix, f.Name))
		}
		sb.WriteByte('\n')

		if f.Deprecated != "" {
			usage += " DEPRECATED: " + f.Deprecated
		}
		wrapped := wordwrap.WrapString(usage, width-uint(len(usageIndent)))
		sb.WriteString(usageIndent)
		sb.WriteString(strings.ReplaceAll(wrapped, "\n", "\n"+usageIndent))
		sb.WriteString("\n\n")
	})

	return strings.TrimRight(sb.String(), "\n")
}

func splitUsage(f *pflag.Flag) (placeholder, usage string) {
	usage = strings.TrimSpace(f.Usage)

	if usage != "" && (usage[0] == '<' || usage[0] == '[') {
		depth := 0
		for i, r := range usage {
			switch {
			case r == '<' || r == '[':
				depth++
			case r == '>' || r == ']':
				depth--
			case depth == 0 && unicode.IsUpper(r):
				return strings.TrimSpace(usage[:i]), strings.TrimSpace(usage[i:])
			}
		}
		if depth != 0 {
			panic("unbalanced brackets in usage of flag " + f.Name)
		}
		return usage, ""
	}

	if f.Value.Type() == "bool" {
		return "", usage
	}
	return "<" + f.Value.Type() + ">", usage
}

func defaultValue(f *pflag.Flag) string {
	switch f.DefValue {
	case "", "[]":
		return ""
	case "false":
		if f.Value.Type() == "bool" {
			return ""
		}
	}
	if f.Value.Type() == "string" {
		return fmt.Sprintf("'%s'", f.DefValue)
	}
	return f.DefValue
}

// SetFlagUsages makes cmd and its subcommands print flags with FlagUsages.
func SetFlagUsages(cmd *cobra.Command, envPrefix string, width uint) {
	cobra.AddTemplateFunc("flagUsages", func(fs *pflag.FlagSet) string {
		return FlagUsages(fs, envPrefix, width)
	})
	cmd.SetUsageTemplate(usageTemplate)
}

const usageTemplate = `Usage:{{if .Runnable}}
  {{.UseLine}}{{end}}{{if .HasAvailableSubCommands}}
  {{.CommandPath}} [command]{{end}}{{if .HasExample}}

Examples:
{{.Example}}{{end}}{{if .HasAvailableSubCommands}}

Commands:{{range .Commands}}{{if .IsAvailableCommand}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{end}}{{if .HasAvailableLocalFlags}}

Flags:
{{flagUsages .LocalFlags}}{{end}}{{if .HasAvailableInheritedFlags}}

Global flags:
{{flagUsages .InheritedFlags}}{{end}}{{if .HasAvailableSubCommands}}

Use "{{.CommandPath}} [command] --help" for more information about a command.{{end}}
`
