// Copyright 2026 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package log

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// LoggerImpl dispatches events to its writers. Its level is the lowest level of all writers.
type LoggerImpl struct {
	mu      sync.RWMutex
	writers map[string]EventWriter
	level   atomic.Int32
}

var _ Logger = (*LoggerImpl)(nil)

// NewLoggerWithWriters creates a logger that writes to the given writers
func NewLoggerWithWriters(writers ...EventWriter) *LoggerImpl {
	l := &LoggerImpl{writers: map[string]EventWriter{}}
	l.level.Store(int32(NONE))
	l.AddWriters(writers...)
	return l
}

func (l *LoggerImpl) syncLevelLocked() {
	level := NONE
	for _, w := range l.writers {
		if w.GetLevel() < level {
			level = w.GetLevel()
		}
	}
	l.level.Store(int32(level))
}

// AddWriters adds or replaces writers by name
func (l *LoggerImpl) AddWriters(writers ...EventWriter) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, w := range writers {
		if old, ok := l.writers[w.GetWriterName()]; ok {
			_ = old.Close()
		}
		l.writers[w.GetWriterName()] = w
	}
	l.syncLevelLocked()
}

// ReplaceAllWriters closes the current writers and uses the new ones
func (l *LoggerImpl) ReplaceAllWriters(writers ...EventWriter) {
	l.mu.Lock()
	for _, w := range l.writers {
		_ = w.Close()
	}
	l.writers = map[string]EventWriter{}
	l.mu.Unlock()
	l.AddWriters(writers...)
}

// Close closes all writers
func (l *LoggerImpl) Close() {
	l.ReplaceAllWriters()
}

func (l *LoggerImpl) GetLevel() Level {
	return Level(l.level.Load())
}

func (l *LoggerImpl) LevelEnabled(level Level) bool {
	return level >= l.GetLevel() && level < NONE
}

// Log formats the message and sends it to every writer accepting the level.
// skip is the number of stack frames between the caller of interest and Log.
func (l *LoggerImpl) Log(skip int, level Level, format string, v ...any) {
	if !l.LevelEnabled(level) {
		return
	}
	event := &Event{Time: time.Now(), Level: level}
	if pc, filename, line, ok := runtime.Caller(skip + 1); ok {
		event.Filename = filename
		event.Line = line
		if fn := runtime.FuncForPC(pc); fn != nil {
			event.Caller = strings.TrimSuffix(fn.Name(), "()")
		}
	}
	if len(v) == 0 {
		event.Message = format
	} else {
		event.Message = fmt.Sprintf(format, v...)
	}

	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, w := range l.writers {
		if level >= w.GetLevel() {
			w.WriteEvent(event)
		}
	}
}

func (l *LoggerImpl) Trace(format string, v ...any) {
	l.Log(1, TRACE, format, v...)
}

func (l *LoggerImpl) Debug(format string, v ...any) {
	l.Log(1, DEBUG, format, v...)
}

func (l *LoggerImpl) Info(format string, v ...any) {
	l.Log(1, INFO, format, v...)
}

func (l *LoggerImpl) Warn(format string, v ...any) {
	l.Log(1, WARN, format, v...)
}

func (l *LoggerImpl) Error(format string, v ...any) {
	l.Log(1, ERROR, format, v...)
}

func (l *LoggerImpl) Critical(format string, v ...any) {
	l.Log(1, CRITICAL, format, v...)
}

// Fatal logs at FATAL level and exits the process
func (l *LoggerImpl) Fatal(format string, v ...any) {
	l.Log(1, FATAL, format, v...)
	l.Close()
	os.Exit(1)
}
