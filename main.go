// Copyright 2025 The Fedireads Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"os"

	"fedireads.org/cmd"
)

// Version holds the current fedireads version, it is set at build time
var Version = "development"

func main() {
	app := cmd.NewMainApp(Version)
	_ = cmd.RunMainApp(app, os.Args...)
}
