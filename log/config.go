// Copyright 2022-2024 Sauce Labs Inc., all rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package log

import (
	"os"
)

// Config is a configuration for the loggers.
type Config struct {
	// File is where logs are written, nil means stderr.
	File  *os.File
	Level Level
}

func DefaultConfig() *Config {
	return &Config{
		Level: InfoLevel,
	}
}

type Level int

// Levels start from 1 to avoid zero value in help printer.
const (
	ErrorLevel Level = 1 + iota
	InfoLevel
	DebugLevel
)

func (l Level) String() string {
	if l < ErrorLevel || l > DebugLevel {
		return "unknown"
	}
	return [3]string{"error", "info", "debug"}[l-1]
}

// Levels returns all levels from the least to the most verbose.
func Levels() []Level {
	return []Level{ErrorLevel, InfoLevel, DebugLevel}
}
