// Copyright 2026 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package setting

import (
	"code.gitea.io/dispatcher/modules/log"
)

// Log settings
var Log struct {
	Level    log.Level
	Flags    log.Flags
	Colorize bool
	// XORMLevel is the level of the "xorm" logger, SQL statements are only written when LOG_SQL is on
	XORMLevel log.Level

	EnableAccessLog   bool
	AccessLogTemplate string
	RequestIDHeaders  []string
}

const defaultAccessLogTemplate = `{{.Ctx.RemoteHost}} - {{.Identity}} {{.Start.Format "[02/Jan/2006:15:04:05 -0700]" }} "{{.Ctx.Req.Method}} {{.Ctx.Req.URL.RequestURI}} {{.Ctx.Req.Proto}}" {{.ResponseWriter.Status}} {{.ResponseWriter.Size}}`

func loadLogGlobalFrom(rootCfg ConfigProvider) {
	sec := rootCfg.Section("log")
	Log.Level = log.LevelFromString(sec.Key("LEVEL").MustString("info"))
	Log.Flags = log.FlagsFromString(sec.Key("FLAGS").MustString(""))
	Log.Colorize = sec.Key("COLORIZE").MustBool(log.CanColorStdout)
	Log.XORMLevel = log.LevelFromString(sec.Key("XORM_LEVEL").MustString(Log.Level.String()))
	Log.EnableAccessLog = sec.Key("ENABLE_ACCESS_LOG").MustBool(false)
	Log.AccessLogTemplate = sec.Key("ACCESS_LOG_TEMPLATE").MustString(defaultAccessLogTemplate)
	Log.RequestIDHeaders = sec.Key("REQUEST_ID_HEADERS").Strings(",")
}

// InitLoggers replaces the writers of the default and xorm loggers with console writers
// configured from the [log] section
func InitLoggers() {
	initLogger(log.DEFAULT, Log.Level)
	initLogger("xorm", Log.XORMLevel)
	if Log.EnableAccessLog {
		initLogger("access", log.INFO)
	}
}

func initLogger(name string, level log.Level) {
	w, err := log.NewEventWriter(name+"-console", "console", log.WriterMode{
		Level:        level,
		Flags:        Log.Flags,
		Colorize:     Log.Colorize,
		WriterOption: &log.WriterConsoleOption{},
	})
	if err != nil {
		log.Fatal("Failed to create console writer for logger %q: %v", name, err)
	}
	log.GetLogger(name).ReplaceAllWriters(w)
}
