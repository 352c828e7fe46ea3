// Copyright 2026 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package structs

import "time"

// RegisterRunnerOption is the body of a runner registration
type RegisterRunnerOption struct {
	// the global registration secret or the runners token of a project
	// required: true
	Token        string `json:"token"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Platform     string `json:"platform"`
	Architecture string `json:"architecture"`
	Version      string `json:"version"`
	// comma or space separated, empty for none
	Tags        string `json:"tags"`
	Locked      bool   `json:"locked"`
	RunUntagged bool   `json:"run_untagged"`
}

// UpdateRunnerOption is the body of a runner check-in, unset fields are left unchanged
type UpdateRunnerOption struct {
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	Platform     *string `json:"platform"`
	Architecture *string `json:"architecture"`
	Version      *string `json:"version"`
	Tags         *string `json:"tags"`
	RunUntagged  *bool   `json:"run_untagged"`
	IsActive     *bool   `json:"active"`
	Locked       *bool   `json:"locked"`
}

// ActionRunner represents a registered runner
type ActionRunner struct {
	ID           int64    `json:"id"`
	UUID         string   `json:"uuid"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	IsGlobal     bool     `json:"global"`
	ProjectID    int64    `json:"project_id,omitempty"`
	Tags         []string `json:"tags"`
	RunUntagged  bool     `json:"run_untagged"`
	IsActive     bool     `json:"active"`
	Locked       bool     `json:"locked"`
	Platform     string   `json:"platform"`
	Architecture string   `json:"architecture"`
	Version      string   `json:"version"`
	// only set in the response to the registration
	Token string `json:"token,omitempty"`
	// swagger:strfmt date-time
	LastOnline *time.Time `json:"last_online,omitempty"`
}
