// Copyright 2026 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package db_test

import (
	"testing"

	"code.gitea.io/dispatcher/models/unittest"

	_ "code.gitea.io/dispatcher/models/actions"
)

func TestMain(m *testing.M) {
	unittest.MainTest(m)
}
