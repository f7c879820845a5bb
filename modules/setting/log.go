// Copyright 2025 The Fedireads Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package setting

import (
	"fedireads.org/modules/log"
)

// Log holds the logging settings
var Log = struct {
	Level log.Level
	Mode  string
}{
	Level: log.INFO,
	Mode:  "console",
}

func loadLogFrom(rootCfg ConfigProvider) {
	sec := rootCfg.Section("log")
	Log.Level = log.LevelFromString(sec.Key("LEVEL").MustString("info"))
	Log.Mode = sec.Key("MODE").In("console", []string{"console", "json"})
	log.InitLoggers(Log.Mode, Log.Level)
}
