// Copyright 2026 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package cron

import "fmt"

// Config represents a basic configuration interface that cron task
type Config interface {
	IsEnabled() bool
	DoRunAtStart() bool
	GetSchedule() string
	FormatMessage(name, status string, args ...any) string
}

// BaseConfig represents the basic config for a Cron task
type BaseConfig struct {
	Enabled    bool
	RunAtStart bool
	Schedule   string
}

// IsEnabled returns the enabled status for the config
func (b *BaseConfig) IsEnabled() bool {
	return b.Enabled
}

// DoRunAtStart returns whether the task should be run at the start
func (b *BaseConfig) DoRunAtStart() bool {
	return b.RunAtStart
}

// GetSchedule returns the schedule for the base config
func (b *BaseConfig) GetSchedule() string {
	return b.Schedule
}

// FormatMessage returns a message for the task
func (b *BaseConfig) FormatMessage(name, status string, args ...any) string {
	msg := fmt.Sprintf("cron task %s %s", name, status)
	if len(args) > 0 && args[0] != nil {
		msg += fmt.Sprintf(": %v", args[0])
	}
	return msg
}
