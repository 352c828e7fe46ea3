// Copyright 2026 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package runner

import (
	"net/http"
	"net/http/httptest"
	"testing"

	actions_model "code.gitea.io/dispatcher/models/actions"
	"code.gitea.io/dispatcher/models/unittest"
	api "code.gitea.io/dispatcher/modules/structs"
	"code.gitea.io/dispatcher/modules/test"
	actions_service "code.gitea.io/dispatcher/services/actions"
	"code.gitea.io/dispatcher/services/context"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(context.APIContexter())
	r.Mount("/api/runner/v1", Routes(Options{
		Registry:   actions_service.NewRunnerRegistry(actions_service.RegistryOptions{GlobalRegistrationToken: "GLOBAL123"}),
		Dispatcher: actions_service.NewDispatcher(actions_service.DispatcherOptions{}),
	}))
	return r
}

func serve(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func register(t *testing.T, router http.Handler, token, tags string) *api.ActionRunner {
	t.Helper()
	rec := serve(router, test.NewRequestWithJSON(t, http.MethodPost, "/api/runner/v1/register", &api.RegisterRunnerOption{
		Token: token,
		Name:  "runner",
		Tags:  tags,
	}))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var runner api.ActionRunner
	test.DecodeJSON(t, rec, &runner)
	return &runner
}

func requestBuild(t *testing.T, router http.Handler, token, version string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/runner/v1/builds/request", nil)
	req.Header.Set(tokenHeaderKey, token)
	if version != "" {
		req.Header.Set(buildsVersionHeaderKey, version)
	}
	return serve(router, req)
}

func TestRegisterAndRequestBuilds(t *testing.T) {
	require.NoError(t, unittest.PrepareTestDatabase())
	router := newTestRouter()

	runner := register(t, router, "GLOBAL123", "")
	assert.True(t, runner.IsGlobal)
	assert.NotEmpty(t, runner.Token)
	assert.Equal(t, []string{}, runner.Tags)

	var claimed []int64
	for range 3 {
		rec := requestBuild(t, router, runner.Token, "")
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		assert.Equal(t, "0", rec.Header().Get(buildsVersionHeaderKey))
		var build api.ActionBuild
		test.DecodeJSON(t, rec, &build)
		assert.Equal(t, "running", build.Status)
		assert.Equal(t, runner.ID, build.RunnerID)
		claimed = append(claimed, build.ID)
	}
	assert.Equal(t, []int64{3, 4, 6}, claimed)

	rec := requestBuild(t, router, runner.Token, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "3", rec.Header().Get(buildsVersionHeaderKey))
	assert.Empty(t, rec.Body.String())

	rec = requestBuild(t, router, runner.Token, "3")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "3", rec.Header().Get(buildsVersionHeaderKey))
}

func TestRegisterProjectRunner(t *testing.T) {
	require.NoError(t, unittest.PrepareTestDatabase())
	router := newTestRouter()

	runner := register(t, router, "proj-tok", "linux")
	assert.False(t, runner.IsGlobal)
	assert.EqualValues(t, 7, runner.ProjectID)

	// project 7 has no builds, the pending builds of other projects stay pending
	rec := requestBuild(t, router, runner.Token, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	unittest.AssertExistsAndLoadBean(t, &actions_model.ActionBuild{ID: 3, Status: actions_model.StatusPending})
}

func TestRegisterErrors(t *testing.T) {
	require.NoError(t, unittest.PrepareTestDatabase())
	router := newTestRouter()

	rec := serve(router, test.NewRequestWithJSON(t, http.MethodPost, "/api/runner/v1/register", &api.RegisterRunnerOption{Token: "nope"}))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = serve(router, test.NewRequestWithJSON(t, http.MethodPost, "/api/runner/v1/register", &api.RegisterRunnerOption{Token: "GLOBAL123", Tags: "ok,bad\x01tag"}))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var apiErr context.APIError
	test.DecodeJSON(t, rec, &apiErr)
	assert.Contains(t, apiErr.Message, "tags")

	req := httptest.NewRequest(http.MethodPost, "/api/runner/v1/register", nil)
	rec = serve(router, req)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestRequestBuildUnauthenticated(t *testing.T) {
	require.NoError(t, unittest.PrepareTestDatabase())
	router := newTestRouter()

	rec := requestBuild(t, router, "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = requestBuild(t, router, "0123456789abcdef0123456789abcdef", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	unittest.AssertExistsAndLoadBean(t, &actions_model.ActionBuild{ID: 3, Status: actions_model.StatusPending})
}

func TestUpdateRunner(t *testing.T) {
	require.NoError(t, unittest.PrepareTestDatabase())
	router := newTestRouter()
	runner := register(t, router, "GLOBAL123", "")

	version, tags := "v1.0.0", "gpu"
	req := test.NewRequestWithJSON(t, http.MethodPut, "/api/runner/v1/runner", &api.UpdateRunnerOption{Version: &version, Tags: &tags})
	req.Header.Set(tokenHeaderKey, runner.Token)
	rec := serve(router, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated api.ActionRunner
	test.DecodeJSON(t, rec, &updated)
	assert.Equal(t, "v1.0.0", updated.Version)
	assert.Equal(t, []string{"gpu"}, updated.Tags)
	assert.Equal(t, "runner", updated.Name)
	assert.Empty(t, updated.Token)

	long := string(make([]byte, 65))
	req = test.NewRequestWithJSON(t, http.MethodPut, "/api/runner/v1/runner", &api.UpdateRunnerOption{Version: &long})
	req.Header.Set(tokenHeaderKey, runner.Token)
	rec = serve(router, req)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestUpdateBuild(t *testing.T) {
	require.NoError(t, unittest.PrepareTestDatabase())
	router := newTestRouter()
	runner := register(t, router, "GLOBAL123", "")

	rec := requestBuild(t, router, runner.Token, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	patch := func(id, status string) *httptest.ResponseRecorder {
		req := test.NewRequestWithJSON(t, http.MethodPatch, "/api/runner/v1/builds/"+id, &api.UpdateBuildOption{Status: status})
		req.Header.Set(tokenHeaderKey, runner.Token)
		return serve(router, req)
	}

	assert.Equal(t, http.StatusUnprocessableEntity, patch("3", "running").Code)
	assert.Equal(t, http.StatusForbidden, patch("5", "success").Code)
	assert.Equal(t, http.StatusNotFound, patch("999", "success").Code)

	rec = patch("3", "success")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var build api.ActionBuild
	test.DecodeJSON(t, rec, &build)
	assert.Equal(t, "success", build.Status)
	assert.NotNil(t, build.Stopped)

	assert.Equal(t, http.StatusUnprocessableEntity, patch("3", "failed").Code)
}
