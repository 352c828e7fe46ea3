// Copyright 2026 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package actions

import (
	"testing"

	"code.gitea.io/dispatcher/models/unittest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"xorm.io/builder"
)

func TestInsertPipeline(t *testing.T) {
	require.NoError(t, unittest.PrepareTestDatabase())

	globalBefore, _, err := GetBuildsVersion(t.Context(), 0)
	require.NoError(t, err)
	projectBefore, _, err := GetBuildsVersion(t.Context(), 1)
	require.NoError(t, err)

	pipeline := &ActionPipeline{ProjectID: 1, Ref: "refs/heads/feature", CommitSHA: "abc123"}
	builds := []*ActionBuild{
		{Name: "unit"},
		{Tags: []string{"linux", "arm64", "linux"}},
	}
	require.NoError(t, InsertPipeline(t.Context(), pipeline, builds))
	assert.NotZero(t, pipeline.ID)
	assert.Equal(t, StatusPending, pipeline.Status)

	assert.Equal(t, "unit", builds[0].Name)
	assert.Equal(t, "build-2", builds[1].Name)
	for _, build := range builds {
		assert.Equal(t, pipeline.ID, build.PipelineID)
		assert.Equal(t, "refs/heads/feature", build.Ref)
		assert.Equal(t, StatusPending, build.Status)
		assert.Zero(t, build.RunnerID)
	}
	assert.Equal(t, []string{"linux", "arm64"}, builds[1].Tags)
	assert.Equal(t, 2, builds[1].NumTags)
	unittest.AssertCountByCond(t, "action_build_tag", builder.Eq{"build_id": builds[1].ID}, 2)

	globalAfter, _, err := GetBuildsVersion(t.Context(), 0)
	require.NoError(t, err)
	projectAfter, _, err := GetBuildsVersion(t.Context(), 1)
	require.NoError(t, err)
	assert.Equal(t, globalBefore+1, globalAfter)
	assert.Equal(t, projectBefore+1, projectAfter)

	unittest.CheckConsistencyFor(t, &ActionBuild{}, &ActionPipeline{}, &ActionBuildTag{})
}

func TestInsertPipelineValidation(t *testing.T) {
	require.NoError(t, unittest.PrepareTestDatabase())

	assert.True(t, IsValidationError(InsertPipeline(t.Context(), &ActionPipeline{Ref: "main"}, []*ActionBuild{{}})))
	assert.True(t, IsValidationError(InsertPipeline(t.Context(), &ActionPipeline{ProjectID: 1, Ref: " "}, []*ActionBuild{{}})))
	assert.True(t, IsValidationError(InsertPipeline(t.Context(), &ActionPipeline{ProjectID: 1, Ref: "main"}, nil)))

	err := InsertPipeline(t.Context(), &ActionPipeline{ProjectID: 1, Ref: "main"}, []*ActionBuild{
		{Name: "ok"},
		{Name: "bad", Tags: []string{"with space"}},
	})
	assert.True(t, IsValidationError(err))
	unittest.AssertCountByCond(t, "action_pipeline", builder.Eq{"ref": "main"}, 0)
}

func TestAggregateBuildStatus(t *testing.T) {
	builds := func(statuses ...Status) []*ActionBuild {
		ret := make([]*ActionBuild, 0, len(statuses))
		for _, s := range statuses {
			ret = append(ret, &ActionBuild{Status: s})
		}
		return ret
	}
	cases := []struct {
		statuses []Status
		want     Status
	}{
		{nil, StatusUnknown},
		{[]Status{StatusPending}, StatusPending},
		{[]Status{StatusPending, StatusPending}, StatusPending},
		{[]Status{StatusPending, StatusRunning}, StatusRunning},
		{[]Status{StatusSuccess, StatusPending}, StatusRunning},
		{[]Status{StatusFailed, StatusRunning}, StatusRunning},
		{[]Status{StatusSuccess, StatusSuccess}, StatusSuccess},
		{[]Status{StatusSuccess, StatusCancelled}, StatusCancelled},
		{[]Status{StatusCancelled, StatusFailed}, StatusFailed},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, aggregateBuildStatus(builds(c.statuses...)), "statuses %v", c.statuses)
	}
}

func TestSyncPipelineStatus(t *testing.T) {
	require.NoError(t, unittest.PrepareTestDatabase())

	_, err := StopBuild(t.Context(), 5, StatusSuccess)
	require.NoError(t, err)
	pipeline := unittest.AssertExistsAndLoadBean(t, &ActionPipeline{ID: 3})
	assert.Equal(t, StatusRunning, pipeline.Status, "build 6 is still pending")
	assert.Zero(t, pipeline.Stopped)

	build, ok, err := ClaimBuild(t.Context(), &BuildQuery{ProjectID: 2}, 2, SyncPipelineOnClaim)
	require.NoError(t, err)
	require.True(t, ok)
	_, err = UpdateBuildResult(t.Context(), 2, build.ID, StatusFailed)
	require.NoError(t, err)

	pipeline = unittest.AssertExistsAndLoadBean(t, &ActionPipeline{ID: 3})
	assert.Equal(t, StatusFailed, pipeline.Status)
	assert.NotZero(t, pipeline.Stopped)
}
