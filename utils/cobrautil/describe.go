// Copyright 2023 Sauce Labs Inc. All rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package cobrautil

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/pflag"
	"golang.org/x/exp/maps"
	"gopkg.in/yaml.v3"
)

type DescribeFormat int

const (
	Plain DescribeFormat = iota
	JSON
	YAML
)

func DescribeFlags(fs *pflag.FlagSet, format DescribeFormat) ([]byte, error) {
	return FlagsDescriber{
		Format: format,
	}.DescribeFlags(fs)
}

// FlagsDescriber prints flag values, sensitive values are printed as redacted by the flag Value.
type FlagsDescriber struct {
	Format          DescribeFormat
	ShowChangedOnly bool
	ShowHidden      bool
}

func (d FlagsDescriber) DescribeFlags(fs *pflag.FlagSet) ([]byte, error) {
	args := make(map[string]any, fs.NFlag())

	fs.VisitAll(func(f *pflag.Flag) {
		if f.Name == "help" {
			return
		}
		if f.Hidden && !d.ShowHidden {
			return
		}
		if !f.Changed && d.ShowChangedOnly {
			return
		}

		switch {
		case f.Value.Type() == "bool":
			args[f.Name] = f.Value.String() == "true"
		case isSlice(f.Value):
			s := f.Value.(pflag.SliceValue).GetSlice() //nolint:forcetypeassert // checked above
			if d.Format == Plain {
				args[f.Name] = strings.Join(s, ",")
			} else {
				args[f.Name] = s
			}
		default:
			args[f.Name] = f.Value.String()
		}
	})

	switch d.Format {
	case Plain:
		keys := maps.Keys(args)
		sort.Strings(keys)
		var b bytes.Buffer
		for _, name := range keys {
			fmt.Fprintf(&b, "%s=%v\n", name, args[name])
		}
		return b.Bytes(), nil
	case JSON:
		return json.Marshal(args)
	case YAML:
		var b bytes.Buffer
		enc := yaml.NewEncoder(&b)
		enc.SetIndent(2)
		if err := enc.Encode(args); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return b.Bytes(), nil
	default:
		return nil, errors.New("unknown format")
	}
}

func isSlice(v pflag.Value) bool {
	_, ok := v.(pflag.SliceValue)
	return ok
}
