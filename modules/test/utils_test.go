// Copyright 2026 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockVariableValue(t *testing.T) {
	v := 1
	reset := MockVariableValue(&v, 2)
	assert.Equal(t, 2, v)
	reset()
	assert.Equal(t, 1, v)
}

func TestNewRequestWithJSON(t *testing.T) {
	req := NewRequestWithJSON(t, http.MethodPost, "/x", map[string]string{"name": "a"})
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
	body, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"a"}`, string(body))

	rec := httptest.NewRecorder()
	_, _ = rec.WriteString(`{"id":3}`)
	var out struct{ ID int64 }
	DecodeJSON(t, rec, &out)
	assert.EqualValues(t, 3, out.ID)
}
