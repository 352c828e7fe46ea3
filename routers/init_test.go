// Copyright 2026 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package routers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"code.gitea.io/dispatcher/models/unittest"
	"code.gitea.io/dispatcher/modules/setting"
	api "code.gitea.io/dispatcher/modules/structs"
	"code.gitea.io/dispatcher/modules/test"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	unittest.MainTest(m)
}

func TestNormalRoutes(t *testing.T) {
	require.NoError(t, unittest.PrepareTestDatabase())
	defer test.MockVariableValue(&setting.Metrics.Enabled, true)()
	router := NormalRoutes()

	serve := func(req *http.Request) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	rec := serve(test.NewRequestWithJSON(t, http.MethodPost, "/api/runner/v1/register", &api.RegisterRunnerOption{
		Token: setting.Actions.RegistrationToken,
		Name:  "e2e",
	}))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var runner api.ActionRunner
	test.DecodeJSON(t, rec, &runner)

	req := httptest.NewRequest(http.MethodPost, "/api/runner/v1/builds/request", nil)
	req.Header.Set("X-Runner-Token", runner.Token)
	rec = serve(req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var build api.ActionBuild
	test.DecodeJSON(t, rec, &build)
	assert.EqualValues(t, 3, build.ID)

	rec = serve(httptest.NewRequest(http.MethodGet, "/api/v1/projects/1/status?ref=refs/heads/main", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var status api.ProjectStatus
	test.DecodeJSON(t, rec, &status)
	assert.Equal(t, "pending", status.Status, "build 4 of the same pipeline is still pending")

	rec = serve(httptest.NewRequest(http.MethodGet, "/api/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `dispatcher_builds{status="running"}`)
	assert.Contains(t, rec.Body.String(), `dispatcher_runner_registrations_total{scope="global"}`)

	rec = serve(httptest.NewRequest(http.MethodGet, "/api/v1/version", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
