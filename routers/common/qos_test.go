// Copyright 2026 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package common

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"code.gitea.io/dispatcher/modules/setting"
	"code.gitea.io/dispatcher/modules/test"

	"github.com/stretchr/testify/assert"
)

func TestRequestPriority(t *testing.T) {
	newRequest := func(method, target, token string) *http.Request {
		req := httptest.NewRequest(method, target, nil)
		if token != "" {
			req.Header.Set(runnerTokenHeader, token)
		}
		return req
	}

	cases := []struct {
		req      *http.Request
		expected Priority
	}{
		{newRequest(http.MethodPatch, "/api/runner/v1/builds/3", "tok"), HighPriority},
		{newRequest(http.MethodPost, "/api/runner/v1/builds/request", "tok"), DefaultPriority},
		{newRequest(http.MethodPost, "/api/runner/v1/register", ""), DefaultPriority},
		{newRequest(http.MethodGet, "/api/v1/projects/1/status?ref=main", ""), LowPriority},
	}
	for _, c := range cases {
		assert.Equal(t, c.expected, requestPriority(c.req), "%s %s", c.req.Method, c.req.URL.Path)
	}
	assert.Equal(t, "high", HighPriority.String())
	assert.Equal(t, "5", Priority(5).String())
}

func TestQoS(t *testing.T) {
	defer test.MockVariableValue(&setting.QoS.Enabled, false)()
	assert.Nil(t, QoS())

	setting.QoS.Enabled = true
	defer test.MockVariableValue(&setting.QoS.MaxInFlightRequests, 2)()
	defer test.MockVariableValue(&setting.QoS.MaxWaitingRequests, 10)()
	defer test.MockVariableValue(&setting.QoS.TargetWaitTime, time.Second)()

	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"path":"/ok"}`, rec.Body.String())
}

func TestRenderServiceUnavailable(t *testing.T) {
	rec := httptest.NewRecorder()
	renderServiceUnavailable(rec, httptest.NewRequest(http.MethodGet, "/api/v1/version", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
}
