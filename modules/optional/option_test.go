// Copyright 2026 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package optional_test

import (
	"testing"

	"code.gitea.io/dispatcher/modules/optional"

	"github.com/stretchr/testify/assert"
)

func TestOption(t *testing.T) {
	var none optional.Option[bool]
	assert.False(t, none.Has())
	assert.False(t, none.Value())
	assert.True(t, none.ValueOrDefault(true))

	some := optional.Some(true)
	assert.True(t, some.Has())
	assert.True(t, some.Value())

	var ptr *string
	assert.False(t, optional.FromPtr(ptr).Has())
	s := "x"
	assert.Equal(t, "x", optional.FromPtr(&s).Value())
}
