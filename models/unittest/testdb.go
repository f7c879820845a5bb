// Copyright 2021 The Gitea Authors. All rights reserved.
// Copyright 2025 The Fedireads Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package unittest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"fedireads.org/models/db"
	"fedireads.org/modules/setting"

	"github.com/stretchr/testify/require"
)

// fedireadsRoot a path to the repository root
var (
	fedireadsRoot string
	fixturesDir   string
)

// TestDomain is the instance domain every test runs under
const TestDomain = "example.org"

// FixturesDir returns the fixture directory
func FixturesDir() string {
	return fixturesDir
}

func fatalTestError(fmtStr string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, fmtStr, args...)
	os.Exit(1)
}

// TestOptions represents test options
type TestOptions struct {
	FixtureFiles []string
	SetUp        func() error // SetUp will be executed before all tests in this package
	TearDown     func() error // TearDown will be executed after all tests in this package
}

// MainTest a reusable TestMain(..) function for unit tests that need to use a
// test database. Creates the test database, and sets necessary settings.
func MainTest(m *testing.M, testOpts ...*TestOptions) {
	searchDir, _ := os.Getwd()
	for searchDir != "" {
		if _, err := os.Stat(filepath.Join(searchDir, "go.mod")); err == nil {
			break // The "go.mod" should be the one for the fedireads repository
		}
		if dir := filepath.Dir(searchDir); dir == searchDir {
			searchDir = "" // reaches the root of filesystem
		} else {
			searchDir = dir
		}
	}
	if searchDir == "" {
		panic("The tests should run in a fedireads repository, there should be a 'go.mod' in the root")
	}

	fedireadsRoot = searchDir
	fixturesDir = filepath.Join(fedireadsRoot, "models", "fixtures")
	var opts FixturesOptions
	if len(testOpts) == 0 || len(testOpts[0].FixtureFiles) == 0 {
		opts.Dir = fixturesDir
	} else {
		for _, f := range testOpts[0].FixtureFiles {
			if len(f) != 0 {
				opts.Files = append(opts.Files, filepath.Join(fixturesDir, f))
			}
		}
	}

	appDataPath, err := os.MkdirTemp(os.TempDir(), "fedireads-unittest")
	if err != nil {
		fatalTestError("TempDir: %v\n", err)
	}

	setting.IsInTesting = true
	setting.Federation.Domain = TestDomain
	setting.Database = setting.DatabaseSettings{
		Type:         "sqlite3",
		Path:         filepath.Join(appDataPath, "fedireads.db"),
		Timeout:      500,
		MaxOpenConns: 100,
		MaxIdleConns: 2,
	}

	if err := CreateTestEngine(opts); err != nil {
		fatalTestError("Error creating test engine: %v\n", err)
	}

	if len(testOpts) > 0 && testOpts[0].SetUp != nil {
		if err := testOpts[0].SetUp(); err != nil {
			fatalTestError("set up failed: %v\n", err)
		}
	}

	exitStatus := m.Run()

	if len(testOpts) > 0 && testOpts[0].TearDown != nil {
		if err := testOpts[0].TearDown(); err != nil {
			fatalTestError("tear down failed: %v\n", err)
		}
	}

	db.UnsetDefaultEngine()
	if err = os.RemoveAll(appDataPath); err != nil {
		fatalTestError("os.RemoveAll: %v\n", err)
	}
	os.Exit(exitStatus)
}

// FixturesOptions fixtures needs to be loaded options
type FixturesOptions struct {
	Dir   string
	Files []string
}

// CreateTestEngine creates a database in the temporary app data path and loads the fixture data from fixturesDir
func CreateTestEngine(opts FixturesOptions) error {
	if err := db.InitEngine(context.Background()); err != nil {
		return err
	}

	if err := db.SyncAllTables(); err != nil {
		return err
	}
	if err := db.RunInitFuncs(); err != nil {
		return err
	}

	return InitFixtures(opts)
}

// PrepareTestDatabase load test fixtures into test database
func PrepareTestDatabase() error {
	return LoadFixtures()
}

// PrepareTestEnv prepares the environment for unit tests. Can only be called
// by tests that use the above MainTest(..) function.
func PrepareTestEnv(t testing.TB) {
	require.NoError(t, PrepareTestDatabase())
}
