// Copyright 2025 The Fedireads Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package setting

import (
	"fedireads.org/modules/log"
)

var (
	// CustomConf is the path of the ini file
	CustomConf = "custom/conf/app.ini"

	// CfgProvider is the provider the settings were loaded from
	CfgProvider ConfigProvider

	// IsInTesting is set by test helpers
	IsInTesting = false
)

// LoadSettings reads the configuration file and loads every section
func LoadSettings() error {
	cfg, err := NewConfigProviderFromFile(CustomConf)
	if err != nil {
		return err
	}
	return LoadSettingsFrom(cfg)
}

// LoadSettingsFrom loads every section from the given provider
func LoadSettingsFrom(cfg ConfigProvider) error {
	CfgProvider = cfg
	loadLogFrom(cfg)
	if err := loadFederationFrom(cfg); err != nil {
		return err
	}
	loadDBSetting(cfg)
	log.Debug("Settings loaded for domain %s", Federation.Domain)
	return nil
}
