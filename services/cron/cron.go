// Copyright 2026 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package cron

import (
	"context"
	"time"

	"code.gitea.io/dispatcher/modules/graceful"

	"github.com/go-co-op/gocron"
)

var c = gocron.NewScheduler(time.Local)

// NewContext registers the cron tasks and starts the scheduler until shutdown
func NewContext(original context.Context) {
	initActionsTasks()

	lock.Lock()
	for _, task := range tasks {
		if task.IsEnabled() && task.DoRunAtStart() {
			go task.Run()
		}
	}

	c.StartAsync()
	started = true
	lock.Unlock()
	graceful.GetManager().RunAtShutdown(original, func() {
		c.Stop()
		lock.Lock()
		started = false
		lock.Unlock()
	})
}
