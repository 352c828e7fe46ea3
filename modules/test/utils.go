// Copyright 2026 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package test

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"code.gitea.io/dispatcher/modules/json"

	"github.com/stretchr/testify/require"
)

// MockVariableValue sets a variable to a new value and returns a function to restore it
func MockVariableValue[T any](p *T, v ...T) (reset func()) {
	old := *p
	if len(v) > 0 {
		*p = v[0]
	}
	return func() { *p = old }
}

// NewRequestWithJSON returns a request whose body is v encoded as JSON
func NewRequestWithJSON(t testing.TB, method, target string, v any) *http.Request {
	t.Helper()
	var body io.Reader
	if v != nil {
		data, err := json.Marshal(v)
		require.NoError(t, err)
		body = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// DecodeJSON decodes the body of the recorded response into v
func DecodeJSON(t testing.TB, resp *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), v), "body: %s", resp.Body.String())
}
