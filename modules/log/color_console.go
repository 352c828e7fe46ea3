// Copyright 2026 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package log

import (
	"os"

	"github.com/mattn/go-isatty"
)

// CanColorStdout reports if we can color the Stdout
var CanColorStdout = true

// CanColorStderr reports if we can color the Stderr
var CanColorStderr = true

func init() {
	// under systemd the console output goes to the journal, escape sequences would only spam it
	CanColorStdout = isatty.IsTerminal(os.Stdout.Fd())
	CanColorStderr = isatty.IsTerminal(os.Stderr.Fd())
}
