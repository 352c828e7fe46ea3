// Copyright 2026 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

// Dispatcher hands out CI builds to the runners polling for work
package main

import (
	"os"
	"runtime"
	"strings"

	"code.gitea.io/dispatcher/cmd"
	"code.gitea.io/dispatcher/modules/log"
	"code.gitea.io/dispatcher/modules/setting"
)

// these flags will be set by the build flags
var (
	Version     = "development" // program version for this build
	Tags        = ""            // the Golang build tags
	MakeVersion = ""            // "make" program version if built with make
)

func init() {
	setting.AppVer = Version
}

func main() {
	cli := cmd.NewMainApp(cmd.AppVersion{Version: Version, Extra: formatBuiltWith()})
	_ = cmd.RunMainApp(cli, os.Args...) // all errors should have been handled by the RunMainApp
	log.GetLogger(log.DEFAULT).Close()
}

func formatBuiltWith() string {
	version := runtime.Version()
	if len(MakeVersion) > 0 {
		version = MakeVersion + ", " + runtime.Version()
	}
	if len(Tags) == 0 {
		return " built with " + version
	}

	return " built with " + version + " : " + strings.ReplaceAll(Tags, " ", ", ")
}
