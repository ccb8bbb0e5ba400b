// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/migrate.go
// Summary: Migration from the single-file config.json layout.

package config

import "strings"

// engineSections are the sections owned by texelview.json.
var engineSections = []string{
	SectionViewport,
	SectionWrap,
	SectionFont,
	SectionHighlight,
	SectionStore,
}

func migrateSystemFromLegacy(cfg Config) (bool, error) {
	return migrateLegacy(cfg, func(name string) bool {
		for _, s := range engineSections {
			if name == s {
				return true
			}
		}
		return false
	})
}

// migrateAppFromLegacy moves the app's own sections ("viewer",
// "viewer.colors", ...) out of the legacy file.
func migrateAppFromLegacy(app string, cfg Config) (bool, error) {
	return migrateLegacy(cfg, func(name string) bool {
		return name == app || strings.HasPrefix(name, app+".")
	})
}

// migrateLegacy copies the legacy sections selected by owns into cfg
// without overwriting sections cfg already has.
func migrateLegacy(cfg Config, owns func(section string) bool) (bool, error) {
	if cfg == nil {
		return false, nil
	}
	legacyPath, err := legacyConfigPath()
	if err != nil {
		return false, err
	}
	legacy, exists, err := readConfig(legacyPath)
	if err != nil || !exists {
		return false, err
	}
	migrated := false
	for name, section := range legacy {
		if !owns(name) {
			continue
		}
		if _, ok := cfg[name]; ok {
			continue
		}
		cfg[name] = cloneValue(section)
		migrated = true
	}
	return migrated, nil
}
