// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/store.go
// Summary: Resolves one config file from disk, legacy layout and defaults.

package config

import (
	"errors"
	"fmt"
	"log"
)

// configFile describes how one config file is found and completed.
type configFile struct {
	label    string
	path     func() (string, error)
	embedded func() Config
	migrate  func(Config) (bool, error)
	apply    func(Config)
}

func systemFile() configFile {
	return configFile{
		label:    "system",
		path:     systemConfigPath,
		embedded: defaultSystemConfig,
		migrate:  migrateSystemFromLegacy,
		apply:    applySystemDefaults,
	}
}

func appFile(name string) configFile {
	return configFile{
		label:    fmt.Sprintf("app %q", name),
		path:     func() (string, error) { return appConfigPath(name) },
		embedded: func() Config { return defaultAppConfig(name) },
		migrate:  func(cfg Config) (bool, error) { return migrateAppFromLegacy(name, cfg) },
		apply:    func(cfg Config) { applyAppDefaults(name, cfg) },
	}
}

// load always returns a usable config. Errors report what went wrong on the
// way: an unreadable file, a failed migration or a failed write-back.
//
// A missing file is created from the legacy config.json when that has the
// sections, otherwise from the embedded defaults. An empty file is
// replaced by the embedded defaults.
func load(f configFile) (Config, error) {
	path, err := f.path()
	if err != nil {
		cfg := make(Config)
		f.apply(cfg)
		return cfg, fmt.Errorf("resolve %s config path: %w", f.label, err)
	}

	cfg, exists, readErr := readConfig(path)
	var errs []error
	if readErr != nil {
		errs = append(errs, fmt.Errorf("read %s: %w", path, readErr))
		cfg = nil
	}

	write := false
	switch {
	case !exists:
		cfg = make(Config)
		migrated, err := f.migrate(cfg)
		if err != nil {
			errs = append(errs, fmt.Errorf("migrate %s config: %w", f.label, err))
		}
		if !migrated {
			if def := f.embedded(); def != nil {
				cfg = def
			}
		}
		write = true
	case len(cfg) == 0 && readErr == nil:
		if def := f.embedded(); def != nil {
			cfg = def
			write = true
		}
	}
	if cfg == nil {
		cfg = make(Config)
	}
	f.apply(cfg)

	if write {
		if err := writeConfig(path, cfg); err != nil {
			errs = append(errs, fmt.Errorf("write %s: %w", path, err))
		}
	} else if readErr == nil {
		log.Printf("[CONFIG] Loaded %s config from %s", f.label, path)
	}
	return cfg, errors.Join(errs...)
}
