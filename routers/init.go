// Copyright 2026 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package routers

import (
	"context"
	"sync"

	"code.gitea.io/dispatcher/models/db"
	"code.gitea.io/dispatcher/modules/log"
	"code.gitea.io/dispatcher/modules/metrics"
	"code.gitea.io/dispatcher/modules/setting"
	"code.gitea.io/dispatcher/routers/api/actions/runner"
	apiv1 "code.gitea.io/dispatcher/routers/api/v1"
	"code.gitea.io/dispatcher/routers/common"
	"code.gitea.io/dispatcher/routers/web"
	"code.gitea.io/dispatcher/routers/web/healthcheck"
	actions_service "code.gitea.io/dispatcher/services/actions"
	"code.gitea.io/dispatcher/services/cron"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

var registerCollectorOnce sync.Once

// InitDBEngine connects to the database, retrying as configured, and creates the missing tables
func InitDBEngine(ctx context.Context) error {
	log.Info("Beginning ORM engine initialization.")
	if err := db.InitEngineWithRetry(ctx); err != nil {
		return err
	}
	if err := db.SyncAllTables(); err != nil {
		return err
	}
	log.Info("ORM engine initialization successful!")
	return nil
}

// GlobalInit starts the services the web command needs, the settings must already be loaded
func GlobalInit(ctx context.Context) {
	log.Info("Dispatcher %s starting in %s mode", setting.AppVer, setting.RunMode)
	log.Info("Configuration file: %s", setting.CustomConf)

	if err := InitDBEngine(ctx); err != nil {
		log.Fatal("ORM engine initialization failed: %v", err)
	}
	if setting.Actions.RegistrationToken == "" {
		log.Warn("[actions] REGISTRATION_TOKEN is empty, runners can only register with a project token")
	}
	cron.NewContext(ctx)
}

// NormalRoutes returns the routes of the web command
func NormalRoutes() *chi.Mux {
	r := chi.NewRouter()
	r.Use(common.ProtocolMiddlewares()...)

	r.Mount("/api/runner/v1", runner.Routes(runner.Options{
		Registry: actions_service.NewRunnerRegistry(actions_service.RegistryOptions{
			GlobalRegistrationToken: setting.Actions.RegistrationToken,
			MinRunnerVersion:        setting.Actions.MinRunnerVersion,
		}),
		Dispatcher: actions_service.NewDispatcher(actions_service.DispatcherOptions{}),
	}))
	r.Mount("/api/v1", apiv1.Routes())
	r.Get("/api/healthz", healthcheck.Check)

	if setting.Metrics.Enabled {
		registerCollectorOnce.Do(func() {
			prometheus.MustRegister(metrics.NewCollector())
		})
		r.Get("/metrics", web.Metrics)
	}
	return r
}
