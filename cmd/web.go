// Copyright 2026 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package cmd

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"code.gitea.io/dispatcher/modules/graceful"
	"code.gitea.io/dispatcher/modules/log"
	"code.gitea.io/dispatcher/modules/setting"
	"code.gitea.io/dispatcher/routers"

	"github.com/urfave/cli/v2"
)

// cmdWeb represents the available web sub-command.
func cmdWeb() *cli.Command {
	return &cli.Command{
		Name:  "web",
		Usage: "Start the dispatcher web server",
		Description: `The dispatcher web server serves the runner API, the status API and the metrics.
It also runs the cron tasks cleaning up the builds of vanished runners.`,
		Before: PrepareConsoleLoggerLevel(log.INFO),
		Action: runWeb,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Value:   "",
				Usage:   "Temporary port number to prevent conflict",
			},
			&cli.StringFlag{
				Name:  "pid",
				Usage: "Custom pid file path",
			},
		},
	}
}

func runWeb(ctx *cli.Context) error {
	graceful.InitManager(context.Background())
	managerCtx, cancel := context.WithCancel(graceful.GetManager().ShutdownContext())
	defer cancel()
	graceful.GetManager().HandleSignals()

	if ctx.IsSet("pid") {
		if err := writePIDFile(ctx.String("pid")); err != nil {
			return err
		}
	}

	setting.InitCfgProvider(setting.CustomConf)
	setting.LoadCommonSettings()
	setting.InitLoggers()

	if ctx.IsSet("port") {
		setting.HTTPPort = ctx.String("port")
	}

	routers.GlobalInit(managerCtx)

	listenAddr := setting.ListenAddr()
	log.Info("Listen: %s", listenAddr)
	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		log.Critical("Failed to listen on %s: %v", listenAddr, err)
		return err
	}

	srv := &http.Server{
		Handler:           routers.NormalRoutes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := graceful.GetManager().ServeHTTP("web", listener, srv); err != nil {
		log.Critical("Failed to start server: %v", err)
	}
	log.Info("HTTP Listener: %s Closed", listenAddr)

	<-graceful.GetManager().Done()
	log.Info("PID: %d Dispatcher Web Finished", os.Getpid())
	return nil
}

func writePIDFile(path string) error {
	if err := os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0o644); err != nil {
		return fmt.Errorf("failed to write pid file %q: %w", path, err)
	}
	return nil
}
