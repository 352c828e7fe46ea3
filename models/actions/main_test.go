// Copyright 2026 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package actions

import (
	"testing"

	"code.gitea.io/dispatcher/models/unittest"
)

func TestMain(m *testing.M) {
	unittest.MainTest(m)
}
