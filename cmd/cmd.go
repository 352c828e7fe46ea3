// Copyright 2026 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

// Package cmd provides subcommands to the dispatcher binary - such as "web" or "admin".
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"code.gitea.io/dispatcher/modules/log"
	"code.gitea.io/dispatcher/modules/setting"
	"code.gitea.io/dispatcher/routers"

	"github.com/urfave/cli/v2"
)

// argsSet checks that all the required arguments are set. args is a list of
// arguments that must be set in the passed Context.
func argsSet(c *cli.Context, args ...string) error {
	for _, a := range args {
		if !c.IsSet(a) {
			return errors.New(a + " is not set")
		}
	}
	return nil
}

// initDB loads the settings and connects to the database, the tests bring their own engine
func initDB(ctx context.Context) error {
	if setting.IsInTesting {
		return nil
	}
	setting.InitCfgProvider(setting.CustomConf)
	setting.LoadCommonSettings()
	return routers.InitDBEngine(ctx)
}

func installSignals() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		// install notify
		signalChannel := make(chan os.Signal, 1)

		signal.Notify(
			signalChannel,
			syscall.SIGINT,
			syscall.SIGTERM,
		)
		select {
		case <-signalChannel:
		case <-ctx.Done():
		}
		cancel()
		signal.Reset()
	}()

	return ctx, cancel
}

// PrepareConsoleLoggerLevel sets the level of the default console logger before the config is read,
// "--quiet" and "--verbose" of the admin commands adjust it
func PrepareConsoleLoggerLevel(defaultLevel log.Level) func(*cli.Context) error {
	return func(c *cli.Context) error {
		level := defaultLevel
		if c.Bool("quiet") {
			level = log.FATAL
		}
		if c.Bool("debug") || c.Bool("verbose") {
			level = log.TRACE
		}
		w, err := log.NewEventWriter("console-default", "console", log.WriterMode{
			Level:        level,
			Flags:        log.LstdFlags,
			WriterOption: &log.WriterConsoleOption{},
		})
		if err != nil {
			return fmt.Errorf("unable to prepare the console logger: %w", err)
		}
		log.GetLogger(log.DEFAULT).ReplaceAllWriters(w)
		return nil
	}
}
