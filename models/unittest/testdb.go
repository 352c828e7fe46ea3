// Copyright 2026 The Gitea Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package unittest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"code.gitea.io/dispatcher/models/db"
	"code.gitea.io/dispatcher/modules/log"
	"code.gitea.io/dispatcher/modules/setting"

	"xorm.io/xorm/names"
)

var fixturesDir string

func fatalTestError(fmtStr string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, fmtStr, args...)
	os.Exit(1)
}

// FixturesDir returns the directory holding the yaml fixtures
func FixturesDir() string {
	if fixturesDir == "" {
		_, filename, _, _ := runtime.Caller(0)
		fixturesDir = filepath.Join(filepath.Dir(filename), "..", "fixtures")
	}
	return fixturesDir
}

// MainTest a reusable TestMain(..) function for unit tests that need to use a
// test database. Creates the test database, and sets necessary settings.
func MainTest(m *testing.M) {
	testDir, err := os.MkdirTemp("", "dispatcher-unittest")
	if err != nil {
		fatalTestError("unable to create temp dir: %v\n", err)
	}

	if err = setting.LoadSettingsForTest(""); err != nil {
		fatalTestError("unable to load settings: %v\n", err)
	}
	setting.IsInTesting = true
	setting.Database.Type = "sqlite3"
	setting.Database.Path = filepath.Join(testDir, "dispatcher.db")
	setting.Database.Timeout = 10000
	setting.Database.SQLiteJournalMode = "WAL"
	setting.Actions.RegistrationToken = "GLOBAL123"

	// keep the SQL noise out of test output
	log.GetLogger("xorm").ReplaceAllWriters()

	if err = CreateTestEngine(); err != nil {
		fatalTestError("Error creating test engine: %v\n", err)
	}

	exitStatus := m.Run()

	db.UnsetDefaultEngine()
	if err = os.RemoveAll(testDir); err != nil {
		fatalTestError("os.RemoveAll: %v\n", err)
	}
	os.Exit(exitStatus)
}

// CreateTestEngine creates the sqlite database of the tests, its tables and loads the fixtures
func CreateTestEngine() error {
	x, err := db.NewEngine()
	if err != nil {
		return err
	}
	x.SetMapper(names.GonicMapper{})
	x.SetLogger(db.NewXORMLogger(false))
	db.SetDefaultEngine(context.Background(), x)

	if err = db.SyncAllTables(); err != nil {
		return err
	}
	return loadFixtures()
}

// PrepareTestDatabase resets every table to the content of the fixtures
func PrepareTestDatabase() error {
	return loadFixtures()
}

// PrepareTestEnv prepares the test environment and reset the database
func PrepareTestEnv(t testing.TB) {
	t.Helper()
	if err := PrepareTestDatabase(); err != nil {
		t.Fatalf("PrepareTestDatabase: %v", err)
	}
}
