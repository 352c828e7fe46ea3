// Copyright 2026 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package log

import "strings"

// Flags choose the prefix written before every message.
// With LstdFlags a line looks like: 2009/01/23 01:23:23 ...a/b/c/d.go:23:Caller() [I] message
type Flags int

const (
	Ldate          Flags = 1 << iota // 2009/01/23
	Ltime                            // 01:23:23
	Lmicroseconds                    // 01:23:23.123123, assumes Ltime
	Llongfile                        // /a/b/c/d.go:23
	Lshortfile                       // d.go:23, overrides Llongfile
	Lfuncname                        // runtime.Caller()
	Lshortfuncname                   // Caller()
	LUTC                             // date and time in UTC
	Llevelinitial                    // [I]
	Llevel                           // [INFO]

	Lmedfile  = Lshortfile | Llongfile // last 20 characters of the file name
	LstdFlags = Ldate | Ltime | Lmedfile | Lshortfuncname | Llevelinitial
)

var flagFromString = map[string]Flags{
	"date":          Ldate,
	"time":          Ltime,
	"microseconds":  Lmicroseconds,
	"longfile":      Llongfile,
	"shortfile":     Lshortfile,
	"funcname":      Lfuncname,
	"shortfuncname": Lshortfuncname,
	"utc":           LUTC,
	"levelinitial":  Llevelinitial,
	"level":         Llevel,
	"medfile":       Lmedfile,
	"stdflags":      LstdFlags,
}

// FlagsFromString takes a comma separated list of flag names.
// "none" yields no prefix at all, an empty string yields LstdFlags.
func FlagsFromString(from string) Flags {
	from = strings.TrimSpace(strings.ToLower(from))
	if from == "" {
		return LstdFlags
	}
	var flags Flags
	for _, name := range strings.Split(from, ",") {
		flags |= flagFromString[strings.TrimSpace(name)]
	}
	return flags
}
