// Copyright 2026 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package setting

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-version"
)

type actionsSettings struct {
	// RegistrationToken lets a runner register with global scope, empty disables global registration
	RegistrationToken    string        `ini:"-"`
	ClaimMaxAttempts     int           `ini:"CLAIM_MAX_ATTEMPTS"`
	PollTimeout          time.Duration `ini:"POLL_TIMEOUT"`
	RunnerTokenCacheSize int           `ini:"RUNNER_TOKEN_CACHE_SIZE"`
	ZombieBuildTimeout   time.Duration `ini:"ZOMBIE_BUILD_TIMEOUT"`
	EndlessBuildTimeout  time.Duration `ini:"ENDLESS_BUILD_TIMEOUT"`
	// MinRunnerVersion rejects the registration of older runners, empty accepts any version
	MinRunnerVersion string `ini:"MIN_RUNNER_VERSION"`
}

var defaultActions = actionsSettings{
	ClaimMaxAttempts:     5,
	PollTimeout:          10 * time.Second,
	RunnerTokenCacheSize: 1024,
	ZombieBuildTimeout:   10 * time.Minute,
	EndlessBuildTimeout:  3 * time.Hour,
}

// Actions settings
var Actions = defaultActions

// loadActionsFrom leaves Actions untouched when the section is invalid
func loadActionsFrom(rootCfg ConfigProvider) error {
	sec := rootCfg.Section("actions")
	cfg := defaultActions
	if err := sec.MapTo(&cfg); err != nil {
		return fmt.Errorf("failed to map Actions settings: %w", err)
	}
	token, err := loadSecret(sec, "REGISTRATION_TOKEN_URI", "REGISTRATION_TOKEN")
	if err != nil {
		return err
	}
	cfg.RegistrationToken = token

	if cfg.ClaimMaxAttempts < 1 {
		return fmt.Errorf("[actions] CLAIM_MAX_ATTEMPTS must be at least 1, got %d", cfg.ClaimMaxAttempts)
	}
	if cfg.PollTimeout <= 0 {
		return fmt.Errorf("[actions] POLL_TIMEOUT must be positive, got %s", cfg.PollTimeout)
	}
	if cfg.MinRunnerVersion != "" {
		if _, err := version.NewVersion(cfg.MinRunnerVersion); err != nil {
			return fmt.Errorf("[actions] MIN_RUNNER_VERSION %q is not a version: %w", cfg.MinRunnerVersion, err)
		}
	}
	if cfg.RunnerTokenCacheSize < 1 {
		cfg.RunnerTokenCacheSize = 1
	}
	Actions = cfg
	return nil
}
