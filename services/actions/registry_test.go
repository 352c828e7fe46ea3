// Copyright 2026 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package actions

import (
	"context"
	"errors"
	"testing"

	actions_model "code.gitea.io/dispatcher/models/actions"
	"code.gitea.io/dispatcher/models/db"
	"code.gitea.io/dispatcher/models/unittest"
	"code.gitea.io/dispatcher/modules/optional"
	"code.gitea.io/dispatcher/modules/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenProjects struct{}

func (brokenProjects) ResolveSelfRegistrationToken(context.Context, string) (int64, error) {
	return 0, errors.New("connection refused")
}

func (brokenProjects) ProjectExists(context.Context, int64) (bool, error) {
	return false, errors.New("connection refused")
}

func TestRegisterGlobalRunner(t *testing.T) {
	require.NoError(t, unittest.PrepareTestDatabase())
	registry := NewRunnerRegistry(RegistryOptions{GlobalRegistrationToken: "GLOBAL123"})

	runner, err := registry.Register(t.Context(), "GLOBAL123", RegisterOptions{
		Name:     "builder",
		Platform: "linux",
		Tags:     "linux, docker linux",
	})
	require.NoError(t, err)
	assert.True(t, runner.IsGlobal)
	assert.Zero(t, runner.ProjectID)
	assert.True(t, runner.IsActive)
	assert.Equal(t, []string{"linux", "docker"}, runner.Tags)
	assert.NotEmpty(t, runner.Token)
	assert.NotEmpty(t, runner.UUID)

	found, err := registry.LookupByToken(t.Context(), runner.Token)
	require.NoError(t, err)
	assert.Equal(t, runner.ID, found.ID)
	assert.Empty(t, found.Token)
}

func TestRegisterProjectRunner(t *testing.T) {
	require.NoError(t, unittest.PrepareTestDatabase())
	registry := NewRunnerRegistry(RegistryOptions{GlobalRegistrationToken: "GLOBAL123"})

	runner, err := registry.Register(t.Context(), "proj-tok", RegisterOptions{Name: "seven", Locked: true})
	require.NoError(t, err)
	assert.False(t, runner.IsGlobal)
	assert.EqualValues(t, 7, runner.ProjectID)
	assert.True(t, runner.Locked)
	assert.Equal(t, actions_model.ProjectScope{ProjectID: 7}, runner.Scope())

	unittest.AssertExistsAndLoadBean(t, &actions_model.ActionRunner{ID: runner.ID, ProjectID: 7})
}

func TestRegisterRejected(t *testing.T) {
	require.NoError(t, unittest.PrepareTestDatabase())
	before := unittest.GetCount(t, &actions_model.ActionRunner{})

	registry := NewRunnerRegistry(RegistryOptions{GlobalRegistrationToken: "GLOBAL123"})
	for _, token := range []string{"", "nope", "global123"} {
		_, err := registry.Register(t.Context(), token, RegisterOptions{Name: "x"})
		assert.ErrorIs(t, err, ErrUnknownProject, "token %q", token)
		assert.ErrorIs(t, err, util.ErrPermissionDenied)
		assert.True(t, IsRegistrationError(err))
	}

	// no global secret configured
	registry = NewRunnerRegistry(RegistryOptions{})
	_, err := registry.Register(t.Context(), "GLOBAL123", RegisterOptions{Name: "x"})
	assert.ErrorIs(t, err, ErrUnknownProject)

	assert.Equal(t, before, unittest.GetCount(t, &actions_model.ActionRunner{}))
}

func TestRegisterInvalidRunner(t *testing.T) {
	require.NoError(t, unittest.PrepareTestDatabase())
	registry := NewRunnerRegistry(RegistryOptions{GlobalRegistrationToken: "GLOBAL123"})

	_, err := registry.Register(t.Context(), "GLOBAL123", RegisterOptions{Name: "x", Version: string(make([]byte, 65))})
	assert.True(t, actions_model.IsValidationError(err))
}

func TestRegisterMinRunnerVersion(t *testing.T) {
	require.NoError(t, unittest.PrepareTestDatabase())
	registry := NewRunnerRegistry(RegistryOptions{GlobalRegistrationToken: "GLOBAL123", MinRunnerVersion: "0.3.0"})

	for _, v := range []string{"v0.2.9", "0.1", "nightly", ""} {
		_, err := registry.Register(t.Context(), "GLOBAL123", RegisterOptions{Name: "old", Version: v})
		assert.ErrorIs(t, err, util.ErrInvalidArgument, "version %q", v)
	}
	unittest.AssertNotExistsBean(t, &actions_model.ActionRunner{Name: "old"})

	for _, v := range []string{"v0.3.0", "0.3.1", "1.0.0-rc1"} {
		_, err := registry.Register(t.Context(), "GLOBAL123", RegisterOptions{Name: "new", Version: v})
		assert.NoError(t, err, "version %q", v)
	}

	// the token is checked first
	_, err := registry.Register(t.Context(), "nope", RegisterOptions{Name: "old", Version: "v0.1.0"})
	assert.ErrorIs(t, err, ErrUnknownProject)
}

func TestRegisterStoreFailure(t *testing.T) {
	require.NoError(t, unittest.PrepareTestDatabase())
	registry := NewRunnerRegistry(RegistryOptions{Projects: brokenProjects{}})

	_, err := registry.Register(t.Context(), "proj-tok", RegisterOptions{Name: "x"})
	assert.True(t, db.IsErrStoreUnavailable(err))
	assert.ErrorIs(t, err, util.ErrUnavailable)
	assert.False(t, IsRegistrationError(err))
}

func TestUpdateInfo(t *testing.T) {
	require.NoError(t, unittest.PrepareTestDatabase())
	registry := NewRunnerRegistry(RegistryOptions{})

	runner := unittest.AssertExistsAndLoadBean(t, &actions_model.ActionRunner{ID: 3})
	updated, err := registry.UpdateInfo(t.Context(), runner, UpdateOptions{
		Version:     optional.Some("v0.4.0"),
		Tags:        optional.Some("linux,arm64"),
		RunUntagged: optional.Some(true),
	})
	require.NoError(t, err)
	assert.Equal(t, "v0.4.0", updated.Version)
	assert.Equal(t, []string{"linux", "arm64"}, updated.Tags)
	assert.Equal(t, "v0.3.0", runner.Version, "the runner passed in is left alone")

	loaded := unittest.AssertExistsAndLoadBean(t, &actions_model.ActionRunner{ID: 3})
	assert.Equal(t, "v0.4.0", loaded.Version)
	assert.Equal(t, []string{"linux", "arm64"}, loaded.Tags)
	assert.True(t, loaded.RunUntagged)
	assert.Equal(t, "linux-tagged", loaded.Name)

	updated, err = registry.UpdateInfo(t.Context(), loaded, UpdateOptions{IsActive: optional.Some(false)})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	unittest.AssertExistsAndLoadBean(t, &actions_model.ActionRunner{ID: 3, Version: "v0.4.0"})
	assert.False(t, unittest.AssertExistsAndLoadBean(t, &actions_model.ActionRunner{ID: 3}).IsActive)

	_, err = registry.UpdateInfo(t.Context(), loaded, UpdateOptions{Tags: optional.Some(string(make([]byte, 300)) + "x")})
	assert.Error(t, err)

	unchanged, err := registry.UpdateInfo(t.Context(), loaded, UpdateOptions{})
	require.NoError(t, err)
	assert.Equal(t, loaded.Version, unchanged.Version)
}

func TestLookupByUnknownToken(t *testing.T) {
	require.NoError(t, unittest.PrepareTestDatabase())
	registry := NewRunnerRegistry(RegistryOptions{})

	_, err := registry.LookupByToken(t.Context(), "not-a-runner-token")
	assert.ErrorIs(t, err, util.ErrNotExist)
	assert.False(t, db.IsErrStoreUnavailable(err))
}
