// Copyright 2023 Sauce Labs Inc. All rights reserved.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package stdlog

import (
	"io"
	"log"
	"os"

	flog "github.com/saucelabs/proxyclient/log"
)

// Option is a function that modifies the Logger.
type Option func(*Logger)

// New returns a logger writing to cfg.File or stderr if it is not set.
// Stdout is left for the responses.
func New(cfg *flog.Config, opts ...Option) *Logger {
	var w io.Writer = os.Stderr
	if cfg.File != nil {
		w = cfg.File
	}

	return NewWriter(w, cfg.Level, opts...)
}

func NewWriter(w io.Writer, level flog.Level, opts ...Option) *Logger {
	l := &Logger{
		log:   log.New(w, "", log.Ldate|log.Ltime|log.Lmicroseconds|log.LUTC),
		level: level,
	}
	l.setPrefixes("")

	for _, opt := range opts {
		opt(l)
	}

	return l
}

var _ flog.Logger = (*Logger)(nil)

// Logger implements the log.Logger interface using the standard log package.
type Logger struct {
	log   *log.Logger
	name  string
	level flog.Level

	errorPfx string
	infoPfx  string
	debugPfx string

	onError func(name string)
}

func (sl Logger) Named(name string, opts ...Option) *Logger { //nolint:gocritic // we pass by value to get a copy
	sl.name = name
	sl.setPrefixes(name)

	for _, opt := range opts {
		opt(&sl)
	}

	return &sl
}

func (sl *Logger) setPrefixes(name string) {
	if name != "" {
		name = "[" + name + "] "
	}

	sl.errorPfx = name + "[ERROR] "
	sl.infoPfx = name + "[INFO] "
	sl.debugPfx = name + "[DEBUG] "
}

func (sl *Logger) Errorf(format string, args ...any) {
	if sl.onError != nil {
		sl.onError(sl.name)
	}
	if sl.level < flog.ErrorLevel {
		return
	}
	sl.log.Printf(sl.errorPfx+format, args...)
}

func (sl *Logger) Infof(format string, args ...any) {
	if sl.level < flog.InfoLevel {
		return
	}
	sl.log.Printf(sl.infoPfx+format, args...)
}

func (sl *Logger) Debugf(format string, args ...any) {
	if sl.level < flog.DebugLevel {
		return
	}
	sl.log.Printf(sl.debugPfx+format, args...)
}

// Unwrap returns the underlying log.Logger pointer.
func (sl *Logger) Unwrap() *log.Logger {
	return sl.log
}
