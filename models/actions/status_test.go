// Copyright 2026 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package actions

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	assert.Equal(t, "running", StatusRunning.String())
	assert.True(t, StatusCancelled.IsDone())
	assert.False(t, StatusPending.IsDone())
	assert.False(t, StatusRunning.IsDone())

	s, ok := StatusFromString("failed")
	assert.True(t, ok)
	assert.Equal(t, StatusFailed, s)
	_, ok = StatusFromString("waiting")
	assert.False(t, ok)
}

func TestStatusTransitions(t *testing.T) {
	assert.True(t, StatusPending.canTransitTo(StatusRunning))
	assert.False(t, StatusPending.canTransitTo(StatusSuccess))
	assert.True(t, StatusRunning.canTransitTo(StatusFailed))
	assert.False(t, StatusRunning.canTransitTo(StatusPending))
	for _, done := range []Status{StatusSuccess, StatusFailed, StatusCancelled} {
		for _, next := range []Status{StatusPending, StatusRunning, StatusSuccess, StatusFailed, StatusCancelled} {
			assert.False(t, done.canTransitTo(next), "%s -> %s", done, next)
		}
	}
}
