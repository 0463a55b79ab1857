// Copyright (c) 2025 Tag Sense
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package logging builds the CLI logger and turns bridge errors into the
// messages users see.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pterm/pterm"
)

// ParseLevel maps a config level name onto a pterm log level.
// "off" and "none" disable logging.
func ParseLevel(name string) (pterm.LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "trace":
		return pterm.LogLevelTrace, nil
	case "debug":
		return pterm.LogLevelDebug, nil
	case "", "info":
		return pterm.LogLevelInfo, nil
	case "warn", "warning":
		return pterm.LogLevelWarn, nil
	case "error":
		return pterm.LogLevelError, nil
	case "off", "none":
		return pterm.LogLevelDisabled, nil
	}
	return pterm.LogLevelInfo, fmt.Errorf("unknown log level %q", name)
}

// New returns a logger writing to w (stderr when nil) at the named level,
// one JSON object per line when asJSON is set.
// An unknown level falls back to info and is reported once at warn.
func New(level string, w io.Writer, asJSON bool) *pterm.Logger {
	if w == nil {
		w = os.Stderr
	}
	lvl, err := ParseLevel(level)
	logger := pterm.DefaultLogger.WithLevel(lvl).WithWriter(w)
	if asJSON {
		logger = logger.WithFormatter(pterm.LogFormatterJSON)
	}
	if err != nil {
		logger.Warn("falling back to info logging", logger.Args("error", err.Error()))
	}
	return logger
}
