// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/config.go
// Summary: System + app configuration store for texelview.
//
// Architecture:
//
//	The system file (texelview.json) carries the engine sections read by
//	the viewport, wrap, metrics, highlight and document packages. Apps keep
//	their own file under apps/<name>/config.json. Both are plain JSON maps
//	seeded from the embedded defaults and topped up by RegisterDefaults.
//	Files are loaded lazily, once per process.

package config

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sync"
)

const (
	systemConfigName = "texelview.json"
	legacyConfigName = "config.json"
)

// Config stores configuration sections as JSON-compatible data.
type Config map[string]interface{}

// Section stores key/value pairs for a configuration section.
type Section map[string]interface{}

var (
	mu      sync.RWMutex
	once    sync.Once
	system  Config
	apps    map[string]Config
	loadErr error
)

func initStore() {
	mu.Lock()
	defer mu.Unlock()
	apps = make(map[string]Config)
	system, loadErr = load(systemFile())
}

// Err returns the error of the system config load, if any. System still
// returns usable defaults in that case.
func Err() error {
	once.Do(initStore)
	mu.RLock()
	defer mu.RUnlock()
	return loadErr
}

// System returns the system configuration (texelview.json).
func System() Config {
	once.Do(initStore)
	mu.RLock()
	defer mu.RUnlock()
	return system
}

// App returns the config for a named app (apps/<app>/config.json), loading
// it on first use. Load failures are logged and fall back to defaults.
func App(name string) Config {
	if name == "" {
		return nil
	}
	once.Do(initStore)

	mu.RLock()
	cfg, ok := apps[name]
	mu.RUnlock()
	if ok {
		return cfg
	}

	mu.Lock()
	defer mu.Unlock()
	if cfg, ok := apps[name]; ok {
		return cfg
	}
	cfg, err := load(appFile(name))
	if err != nil {
		log.Printf("[CONFIG] App %q: %v", name, err)
	}
	apps[name] = cfg
	return cfg
}

// SaveSystem writes the in-memory system config, defaults included.
func SaveSystem() error {
	once.Do(initStore)
	mu.RLock()
	defer mu.RUnlock()
	path, err := systemConfigPath()
	if err != nil {
		return err
	}
	return writeConfig(path, system)
}

// SaveApp writes the named app config, loading it first if needed.
func SaveApp(name string) error {
	if name == "" {
		return nil
	}
	cfg := App(name)
	mu.RLock()
	defer mu.RUnlock()
	path, err := appConfigPath(name)
	if err != nil {
		return err
	}
	return writeConfig(path, cfg)
}

func readConfig(path string) (Config, bool, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, true, err
	}
	return cfg, true, nil
}

func writeConfig(path string, cfg Config) error {
	if cfg == nil {
		cfg = make(Config)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
