// Copyright 2026 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package context

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	actions_model "code.gitea.io/dispatcher/models/actions"
	"code.gitea.io/dispatcher/modules/log"
	"code.gitea.io/dispatcher/modules/setting"

	"github.com/stretchr/testify/assert"
)

type testAccessLoggerMock struct {
	logs []string
}

func (t *testAccessLoggerMock) Log(skip int, level log.Level, format string, v ...any) {
	t.logs = append(t.logs, fmt.Sprintf(format, v...))
}

func (t *testAccessLoggerMock) GetLevel() log.Level {
	return log.INFO
}

func TestAccessLogger(t *testing.T) {
	setting.Log.AccessLogTemplate = `{{.Ctx.RemoteHost}} - {{.Identity}} {{.Start.Format "[02/Jan/2006:15:04:05 -0700]" }} "{{.Ctx.Req.Method}} {{.Ctx.Req.URL.RequestURI}} {{.Ctx.Req.Proto}}" {{.ResponseWriter.Status}} {{.ResponseWriter.Size}} "{{.Ctx.Req.UserAgent}}"`
	recorder := newAccessLogRecorder()
	mockLogger := &testAccessLoggerMock{}
	recorder.logger = mockLogger
	req := &http.Request{
		RemoteAddr: "remote-addr",
		Method:     "POST",
		Proto:      "https",
		URL:        &url.URL{Path: "/api/runner/v1/builds/request"},
		Header:     http.Header{"User-Agent": []string{"runner/0.3"}},
	}
	resp := WrapResponseWriter(httptest.NewRecorder())
	resp.WriteHeader(http.StatusNoContent)

	recorder.record(time.Date(2000, 1, 2, 3, 4, 5, 0, time.UTC), resp, req)
	assert.Equal(t, []string{`remote-addr - - [02/Jan/2000:03:04:05 +0000] "POST /api/runner/v1/builds/request https" 204 0 "runner/0.3"`}, mockLogger.logs)
}

func TestAccessLoggerIdentity(t *testing.T) {
	setting.Log.AccessLogTemplate = `{{.Identity}} {{.ResponseWriter.Status}}`
	recorder := newAccessLogRecorder()
	mockLogger := &testAccessLoggerMock{}
	recorder.logger = mockLogger

	handler := APIContexter()(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		ctx := GetAPIContext(req)
		ctx.Runner = &actions_model.ActionRunner{UUID: "2f1a3c4e"}
		ctx.JSON(http.StatusCreated, map[string]int{"id": 1})
		recorder.record(time.Now(), ctx.Resp, ctx.Req)
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"id":1}`, rec.Body.String())
	assert.Equal(t, []string{"runner:2f1a3c4e 201"}, mockLogger.logs)
}
