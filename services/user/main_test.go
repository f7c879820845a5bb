// Copyright 2025 The Fedireads Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package user

import (
	"testing"

	"fedireads.org/models/unittest"
)

func TestMain(m *testing.M) {
	unittest.MainTest(m, &unittest.TestOptions{
		FixtureFiles: []string{
			"federated_server.yml",
			"shelf.yml",
			"user.yml",
			"user_relationship.yml",
		},
	})
}
