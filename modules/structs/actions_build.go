// Copyright 2026 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package structs

import "time"

// ActionBuild is a build handed to a runner
type ActionBuild struct {
	ID         int64    `json:"id"`
	PipelineID int64    `json:"pipeline_id"`
	ProjectID  int64    `json:"project_id"`
	Name       string   `json:"name"`
	Ref        string   `json:"ref"`
	CommitSHA  string   `json:"commit_sha"`
	Tags       []string `json:"tags"`
	Status     string   `json:"status"`
	RunnerID   int64    `json:"runner_id,omitempty"`
	// swagger:strfmt date-time
	Started *time.Time `json:"started,omitempty"`
	// swagger:strfmt date-time
	Stopped *time.Time `json:"stopped,omitempty"`
}

// UpdateBuildOption is the final status a runner reports for its build
type UpdateBuildOption struct {
	// success, failed or cancelled
	// required: true
	Status string `json:"status"`
}

// ProjectStatus is the status of the newest build of a project
type ProjectStatus struct {
	ProjectID int64  `json:"project_id"`
	Ref       string `json:"ref,omitempty"`
	Status    string `json:"status"`
}
