// Copyright 2026 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package cmd

import (
	"strings"
	"testing"

	actions_model "code.gitea.io/dispatcher/models/actions"
	project_model "code.gitea.io/dispatcher/models/project"
	"code.gitea.io/dispatcher/models/unittest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runAdmin(t *testing.T, args ...string) (runResult, error) {
	t.Helper()
	app := NewMainApp(AppVersion{})
	return runTestApp(app, append([]string{"./dispatcher", "admin"}, args...)...)
}

func TestAdminProject(t *testing.T) {
	require.NoError(t, unittest.PrepareTestDatabase())

	t.Run("Create", func(t *testing.T) {
		r, err := runAdmin(t, "project", "create", "--name", "backend", "--private")
		require.NoError(t, err)

		p := unittest.AssertExistsAndLoadBean(t, &project_model.Project{Name: "backend"})
		assert.True(t, p.IsPrivate)
		assert.NotEmpty(t, p.RunnersToken)
		assert.Contains(t, r.Stdout, "Runners token: "+p.RunnersToken)
	})

	t.Run("CreateDuplicate", func(t *testing.T) {
		r, err := runAdmin(t, "project", "create", "--name", "dispatcher")
		assert.Error(t, err)
		assert.Equal(t, 1, r.ExitCode)
		assert.Contains(t, r.Stderr, "already exists")
	})

	t.Run("CreateWithoutName", func(t *testing.T) {
		_, err := runAdmin(t, "project", "create")
		assert.ErrorContains(t, err, "name is not set")
	})

	t.Run("ResetToken", func(t *testing.T) {
		r, err := runAdmin(t, "project", "reset-token", "--name", "seven")
		require.NoError(t, err)

		p := unittest.AssertExistsAndLoadBean(t, &project_model.Project{ID: 7})
		assert.NotEqual(t, "proj-tok", p.RunnersToken)
		assert.Equal(t, `Runners token of project "seven": `+p.RunnersToken+"\n", r.Stdout)
	})

	t.Run("ResetTokenUnknown", func(t *testing.T) {
		_, err := runAdmin(t, "project", "reset-token", "--name", "nope")
		assert.True(t, project_model.IsErrProjectNotExist(err))
	})
}

func TestAdminPipelineCreate(t *testing.T) {
	require.NoError(t, unittest.PrepareTestDatabase())

	r, err := runAdmin(t, "pipeline", "create", "--project-id", "1", "--ref", "refs/heads/feature", "--sha", "abc123",
		"--build", "lint", "--build", "test:linux windows")
	require.NoError(t, err)

	pipeline := unittest.AssertExistsAndLoadBean(t, &actions_model.ActionPipeline{ProjectID: 1, Ref: "refs/heads/feature"})
	assert.Equal(t, actions_model.StatusPending, pipeline.Status)
	builds, err := actions_model.GetBuildsByPipelineID(t.Context(), pipeline.ID)
	require.NoError(t, err)
	require.Len(t, builds, 2)
	assert.Equal(t, "lint", builds[0].Name)
	assert.Empty(t, builds[0].Tags)
	assert.Equal(t, "test", builds[1].Name)
	assert.Equal(t, []string{"linux", "windows"}, builds[1].Tags)

	lines := strings.Split(strings.TrimSpace(r.Stdout), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[2], "test [linux,windows]")

	_, err = runAdmin(t, "pipeline", "create", "--project-id", "99", "--ref", "refs/heads/main", "--build", "lint")
	assert.Error(t, err)

	_, err = runAdmin(t, "pipeline", "create", "--project-id", "1", "--ref", "refs/heads/main", "--build", ":linux")
	assert.ErrorContains(t, err, "has no name")
}

func TestAdminRunners(t *testing.T) {
	require.NoError(t, unittest.PrepareTestDatabase())

	t.Run("List", func(t *testing.T) {
		r, err := runAdmin(t, "runner", "list")
		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(r.Stdout), "\n")
		assert.Len(t, lines, 1+unittest.GetCount(t, &actions_model.ActionRunner{}))
		assert.Contains(t, r.Stdout, "global-1")
		assert.Contains(t, r.Stdout, "project(2)")
	})

	t.Run("ListInactive", func(t *testing.T) {
		r, err := runAdmin(t, "runner", "list", "--inactive")
		require.NoError(t, err)
		assert.Contains(t, r.Stdout, "retired")
		assert.NotContains(t, r.Stdout, "global-1")
	})

	t.Run("Deactivate", func(t *testing.T) {
		r, err := runAdmin(t, "runner", "deactivate", "--uuid", "2f1a3c4e-1b2d-4e5f-8a9b-0c1d2e3f4a5b")
		require.NoError(t, err)
		assert.Equal(t, "Runner global-1 has been deactivated\n", r.Stdout)
		assert.False(t, unittest.AssertExistsAndLoadBean(t, &actions_model.ActionRunner{ID: 1}).IsActive)

		_, err = runAdmin(t, "runner", "activate", "--uuid", "2f1a3c4e-1b2d-4e5f-8a9b-0c1d2e3f4a5b")
		require.NoError(t, err)
		assert.True(t, unittest.AssertExistsAndLoadBean(t, &actions_model.ActionRunner{ID: 1}).IsActive)
	})

	t.Run("DeactivateUnknown", func(t *testing.T) {
		_, err := runAdmin(t, "runner", "deactivate", "--uuid", "00000000-0000-0000-0000-000000000000")
		assert.ErrorContains(t, err, "no runner with this uuid")
	})
}
