// Copyright 2026 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package log

import (
	"os"
	"sync"
)

// DEFAULT is the name of the logger used by the package level functions
const DEFAULT = "default"

var (
	loggersMu sync.Mutex
	loggers   = map[string]*LoggerImpl{}
)

// GetLogger returns the named logger, creating one that writes INFO to the console on first use
func GetLogger(name string) *LoggerImpl {
	loggersMu.Lock()
	defer loggersMu.Unlock()
	if l, ok := loggers[name]; ok {
		return l
	}
	w, _ := NewEventWriter("console", "console", WriterMode{Level: INFO, Flags: LstdFlags})
	l := NewLoggerWithWriters(w)
	loggers[name] = l
	return l
}

// IsLoggerEnabled reports whether the named logger has a writer accepting any level
func IsLoggerEnabled(name string) bool {
	return GetLogger(name).GetLevel() < NONE
}

func Trace(format string, v ...any) {
	GetLogger(DEFAULT).Log(1, TRACE, format, v...)
}

func Debug(format string, v ...any) {
	GetLogger(DEFAULT).Log(1, DEBUG, format, v...)
}

func Info(format string, v ...any) {
	GetLogger(DEFAULT).Log(1, INFO, format, v...)
}

func Warn(format string, v ...any) {
	GetLogger(DEFAULT).Log(1, WARN, format, v...)
}

func Error(format string, v ...any) {
	GetLogger(DEFAULT).Log(1, ERROR, format, v...)
}

func Critical(format string, v ...any) {
	GetLogger(DEFAULT).Log(1, CRITICAL, format, v...)
}

// Fatal records the message and exits the process
func Fatal(format string, v ...any) {
	GetLogger(DEFAULT).Log(1, FATAL, format, v...)
	os.Exit(1)
}

// IsDebug reports whether DEBUG messages reach the default logger
func IsDebug() bool {
	return GetLogger(DEFAULT).LevelEnabled(DEBUG)
}
