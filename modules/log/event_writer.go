// Copyright 2026 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package log

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// WriterMode holds the options shared by every writer type
type WriterMode struct {
	Level    Level
	Flags    Flags
	Colorize bool

	// WriterOption is the type specific option, *WriterConsoleOption for "console"
	WriterOption any
}

// WriterConsoleOption selects stdout or stderr
type WriterConsoleOption struct {
	Stderr bool
}

// EventWriter writes formatted events to a destination
type EventWriter interface {
	GetWriterName() string
	GetLevel() Level
	WriteEvent(event *Event)
	Close() error
}

type eventWriterProvider func(writerName string, writerMode WriterMode) (EventWriter, error)

var eventWriterProviders = map[string]eventWriterProvider{}

// RegisterEventWriter makes a writer type available to NewEventWriter
func RegisterEventWriter(writerType string, p eventWriterProvider) {
	eventWriterProviders[writerType] = p
}

// NewEventWriter creates a writer of the registered writerType
func NewEventWriter(name, writerType string, mode WriterMode) (EventWriter, error) {
	p, ok := eventWriterProviders[writerType]
	if !ok {
		return nil, fmt.Errorf("unknown event writer type %q for writer %q", writerType, name)
	}
	return p(name, mode)
}

// eventWriterBase serializes writes to an io.Writer
type eventWriterBase struct {
	name string
	mode WriterMode
	mu   sync.Mutex
	out  io.Writer
}

func (b *eventWriterBase) GetWriterName() string {
	return b.name
}

func (b *eventWriterBase) GetLevel() Level {
	return b.mode.Level
}

func (b *eventWriterBase) WriteEvent(event *Event) {
	msg := EventFormat(b.mode.Flags, b.mode.Colorize, event)
	b.mu.Lock()
	defer b.mu.Unlock()
	_, _ = b.out.Write(msg)
}

func (b *eventWriterBase) Close() error {
	return nil
}

// NewEventWriterBuffer writes to an arbitrary io.Writer, used by tests to capture output
func NewEventWriterBuffer(name string, mode WriterMode, out io.Writer) EventWriter {
	return &eventWriterBase{name: name, mode: mode, out: out}
}

func init() {
	RegisterEventWriter("console", func(name string, mode WriterMode) (EventWriter, error) {
		var out io.Writer = os.Stdout
		if opt, ok := mode.WriterOption.(*WriterConsoleOption); ok && opt.Stderr {
			out = os.Stderr
		}
		return &eventWriterBase{name: name, mode: mode, out: out}, nil
	})
}
