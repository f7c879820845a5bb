// Copyright 2023 The Gitea Authors. All rights reserved.
// Copyright 2025 The Fedireads Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package setting

import (
	"errors"
	"fmt"
	"os"

	"fedireads.org/modules/log"

	"gopkg.in/ini.v1"
)

// ConfigSection is the section of the configuration the settings are read from
type ConfigSection interface {
	Name() string
	HasKey(key string) bool
	Key(key string) *ini.Key
}

// ConfigProvider represents a config provider
type ConfigProvider interface {
	Section(section string) ConfigSection
	HasSection(section string) bool
}

type iniConfigProvider struct {
	file *ini.File
}

var _ ConfigProvider = (*iniConfigProvider)(nil)

func (p *iniConfigProvider) Section(section string) ConfigSection {
	return p.file.Section(section)
}

func (p *iniConfigProvider) HasSection(section string) bool {
	return p.file.HasSection(section)
}

// NewConfigProviderFromData creates a config provider from in-memory ini data, used by tests
func NewConfigProviderFromData(configContent string) (ConfigProvider, error) {
	cfg, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment:         true,
		UnescapeValueCommentSymbols: true,
	}, []byte(configContent))
	if err != nil {
		return nil, err
	}
	return &iniConfigProvider{file: cfg}, nil
}

// NewConfigProviderFromFile loads the ini file at path. A missing file yields an empty configuration.
func NewConfigProviderFromFile(path string) (ConfigProvider, error) {
	cfg := ini.Empty(ini.LoadOptions{
		IgnoreInlineComment:         true,
		UnescapeValueCommentSymbols: true,
	})
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := cfg.Append(path); err != nil {
				return nil, fmt.Errorf("failed to load config file %q: %w", path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("unable to check if %q is a file: %w", path, err)
		} else {
			log.Warn("Config file %q does not exist, using defaults", path)
		}
	}
	return &iniConfigProvider{file: cfg}, nil
}

func deprecatedSetting(rootCfg ConfigProvider, oldSection, oldKey, newSection, newKey string) {
	if rootCfg.Section(oldSection).HasKey(oldKey) {
		log.Error("Deprecated fallback `[%s]` `%s` present. Use `[%s]` `%s` instead.", oldSection, oldKey, newSection, newKey)
	}
}
