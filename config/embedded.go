// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/embedded.go
// Summary: Parsed defaults from the JSON files embedded in package defaults.

package config

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/framegrace/texelview/defaults"
)

var (
	embeddedMu sync.Mutex
	embedded   = make(map[string]Config)
)

// embeddedDefaults parses and caches the embedded file for app, or the
// system file when app is empty. Apps without a file get nil.
func embeddedDefaults(app string) Config {
	embeddedMu.Lock()
	defer embeddedMu.Unlock()
	if cfg, ok := embedded[app]; ok {
		return cfg
	}

	var (
		data []byte
		err  error
	)
	if app == "" {
		data, err = defaults.SystemConfig()
	} else {
		data, err = defaults.AppConfig(app)
	}
	var cfg Config
	if err == nil {
		if err := json.Unmarshal(data, &cfg); err != nil {
			log.Printf("[CONFIG] Embedded defaults for %q are invalid: %v", app, err)
			cfg = nil
		}
	}
	embedded[app] = cfg
	return cfg
}

// defaultSystemConfig returns a private copy of the embedded system defaults.
func defaultSystemConfig() Config { return Clone(embeddedDefaults("")) }

// defaultAppConfig returns a private copy of the embedded app defaults.
func defaultAppConfig(app string) Config { return Clone(embeddedDefaults(app)) }
