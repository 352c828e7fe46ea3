// Copyright 2026 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package log

import (
	"strings"
)

// Level is the level of the logger
type Level int

const (
	UNDEFINED Level = iota
	TRACE
	DEBUG
	INFO
	WARN
	ERROR
	FATAL
	NONE
)

const CRITICAL = ERROR

var toString = map[Level]string{
	UNDEFINED: "undefined",
	TRACE:     "trace",
	DEBUG:     "debug",
	INFO:      "info",
	WARN:      "warn",
	ERROR:     "error",
	FATAL:     "fatal",
	NONE:      "none",
}

var toLevel = map[string]Level{
	"undefined": UNDEFINED,
	"trace":     TRACE,
	"debug":     DEBUG,
	"info":      INFO,
	"warn":      WARN,
	"warning":   WARN,
	"error":     ERROR,
	"critical":  ERROR,
	"fatal":     FATAL,
	"none":      NONE,
}

var levelToColor = map[Level]string{
	TRACE: "\x1b[1;36m",
	DEBUG: "\x1b[1;34m",
	INFO:  "\x1b[1;32m",
	WARN:  "\x1b[1;33m",
	ERROR: "\x1b[1;31m",
	FATAL: "\x1b[1;41m",
}

const (
	fgCyan  = "\x1b[36m"
	fgGreen = "\x1b[32m"
	reset   = "\x1b[0m"
)

func (l Level) String() string {
	if s, ok := toString[l]; ok {
		return s
	}
	return "info"
}

// MarshalText makes Level usable in JSON and ini values
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText parses a level name, unknown names become INFO
func (l *Level) UnmarshalText(b []byte) error {
	*l = LevelFromString(string(b))
	return nil
}

// LevelFromString takes a level string and returns a Level
func LevelFromString(level string) Level {
	if l, ok := toLevel[strings.ToLower(strings.TrimSpace(level))]; ok {
		return l
	}
	return INFO
}
