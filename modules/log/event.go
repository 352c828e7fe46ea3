// Copyright 2026 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package log

import (
	"strconv"
	"strings"
	"time"
)

// Event is a single log record before formatting
type Event struct {
	Time     time.Time
	Level    Level
	Filename string
	Line     int
	Caller   string
	Message  string
}

func appendPadded(buf []byte, i, width int) []byte {
	s := strconv.Itoa(i)
	for n := len(s); n < width; n++ {
		buf = append(buf, '0')
	}
	return append(buf, s...)
}

// EventFormat renders event according to flags, with ANSI colors when colorize is set
func EventFormat(flags Flags, colorize bool, event *Event) []byte {
	buf := make([]byte, 0, 128+len(event.Message))
	color := func(code string) {
		if colorize {
			buf = append(buf, code...)
		}
	}

	if flags&(Ldate|Ltime|Lmicroseconds) != 0 {
		t := event.Time
		if flags&LUTC != 0 {
			t = t.UTC()
		}
		color(fgCyan)
		if flags&Ldate != 0 {
			year, month, day := t.Date()
			buf = appendPadded(buf, year, 4)
			buf = append(buf, '/')
			buf = appendPadded(buf, int(month), 2)
			buf = append(buf, '/')
			buf = appendPadded(buf, day, 2)
			buf = append(buf, ' ')
		}
		if flags&(Ltime|Lmicroseconds) != 0 {
			hour, minute, sec := t.Clock()
			buf = appendPadded(buf, hour, 2)
			buf = append(buf, ':')
			buf = appendPadded(buf, minute, 2)
			buf = append(buf, ':')
			buf = appendPadded(buf, sec, 2)
			if flags&Lmicroseconds != 0 {
				buf = append(buf, '.')
				buf = appendPadded(buf, t.Nanosecond()/1e3, 6)
			}
			buf = append(buf, ' ')
		}
		color(reset)
	}

	if flags&(Lshortfile|Llongfile) != 0 {
		color(fgGreen)
		file := event.Filename
		if flags&Lmedfile == Lmedfile {
			if start := len(file) - 20; start > 0 {
				file = "..." + file[start:]
			}
		} else if flags&Lshortfile != 0 {
			if idx := strings.LastIndexByte(file, '/'); idx >= 0 {
				file = file[idx+1:]
			}
		}
		buf = append(buf, file...)
		buf = append(buf, ':')
		buf = strconv.AppendInt(buf, int64(event.Line), 10)
		if flags&(Lfuncname|Lshortfuncname) != 0 {
			buf = append(buf, ':')
		} else {
			color(reset)
			buf = append(buf, ' ')
		}
	}

	if flags&(Lfuncname|Lshortfuncname) != 0 {
		color(fgGreen)
		funcname := event.Caller
		if flags&Lshortfuncname != 0 {
			if idx := strings.LastIndexByte(funcname, '.'); idx >= 0 && idx+1 < len(funcname) {
				funcname = funcname[idx+1:]
			}
		}
		buf = append(buf, funcname...)
		buf = append(buf, "()"...)
		color(reset)
		buf = append(buf, ' ')
	}

	if flags&(Llevel|Llevelinitial) != 0 {
		level := strings.ToUpper(event.Level.String())
		color(levelToColor[event.Level])
		buf = append(buf, '[')
		if flags&Llevelinitial != 0 {
			buf = append(buf, level[0])
		} else {
			buf = append(buf, level...)
		}
		buf = append(buf, ']')
		color(reset)
		buf = append(buf, ' ')
	}

	buf = append(buf, event.Message...)
	if len(buf) == 0 || buf[len(buf)-1] != '\n' {
		buf = append(buf, '\n')
	}
	return buf
}
