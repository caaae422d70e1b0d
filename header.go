// Copyright 2024 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package proxyclient

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/net/http/httpguts"
)

// Header maps header names to values, one value per name.
// Headers are written in lexicographic order of their names.
type Header map[string]string

// Names returns the header names sorted lexicographically.
func (h Header) Names() []string {
	keys := maps.Keys(h)
	sort.Strings(keys)
	return keys
}

// Has reports whether h contains name, the name is matched case-insensitively.
func (h Header) Has(name string) bool {
	for k := range h {
		if strings.EqualFold(k, name) {
			return true
		}
	}
	return false
}

// Validate checks that all names are valid header field names and that no value contains CR or LF.
func (h Header) Validate() error {
	for _, k := range h.Names() {
		if err := validateHeaderField(k, h[k]); err != nil {
			return err
		}
	}
	return nil
}

func (h Header) Clone() Header {
	if h == nil {
		return nil
	}
	return maps.Clone(h)
}

// HeaderField is a single "name: value" pair.
type HeaderField struct {
	Name  string
	Value string
}

// ParseHeaderField parses "<name>: <value>".
func ParseHeaderField(val string) (HeaderField, error) {
	name, value, ok := strings.Cut(val, ":")
	if !ok {
		return HeaderField{}, errors.New("expected name: value")
	}

	hf := HeaderField{
		Name:  strings.TrimSpace(name),
		Value: strings.TrimSpace(value),
	}
	if err := validateHeaderField(hf.Name, hf.Value); err != nil {
		return HeaderField{}, err
	}

	return hf, nil
}

func (hf HeaderField) String() string {
	return hf.Name + ": " + hf.Value
}

// HeaderFromFields builds a Header, later fields override earlier ones with the same name.
func HeaderFromFields(fields []HeaderField) Header {
	if len(fields) == 0 {
		return nil
	}
	h := make(Header, len(fields))
	for _, f := range fields {
		h[f.Name] = f.Value
	}
	return h
}

func validateHeaderField(name, value string) error {
	if !httpguts.ValidHeaderFieldName(name) {
		return fmt.Errorf("invalid header name %q", name)
	}
	if !httpguts.ValidHeaderFieldValue(value) {
		return fmt.Errorf("invalid value for header %s", name)
	}
	return nil
}
