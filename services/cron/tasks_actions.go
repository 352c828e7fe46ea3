// Copyright 2026 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package cron

import (
	"context"

	actions_service "code.gitea.io/dispatcher/services/actions"
)

func initActionsTasks() {
	registerStopZombieBuilds()
	registerStopEndlessBuilds()
}

func registerStopZombieBuilds() {
	RegisterTaskFatal("stop_zombie_builds", &BaseConfig{
		Enabled:    true,
		RunAtStart: true,
		Schedule:   "@every 5m",
	}, func(ctx context.Context, _ Config) error {
		return actions_service.StopZombieBuilds(ctx)
	})
}

func registerStopEndlessBuilds() {
	RegisterTaskFatal("stop_endless_builds", &BaseConfig{
		Enabled:    true,
		RunAtStart: true,
		Schedule:   "@every 30m",
	}, func(ctx context.Context, _ Config) error {
		return actions_service.StopEndlessBuilds(ctx)
	})
}
