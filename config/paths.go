// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/paths.go
// Summary: Path helpers for texelview configuration and state files.

package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const rootDirName = "texelview"

// configRoot is $XDG_CONFIG_HOME/texelview or the platform equivalent.
func configRoot() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, rootDirName), nil
}

// StatePath resolves name inside the configuration directory unless it is
// already absolute. An empty name is an error.
func StatePath(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("state file name is required")
	}
	if filepath.IsAbs(name) {
		return name, nil
	}
	root, err := configRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, name), nil
}

func systemConfigPath() (string, error) { return StatePath(systemConfigName) }

func legacyConfigPath() (string, error) { return StatePath(legacyConfigName) }

func appConfigPath(app string) (string, error) {
	if app == "" {
		return "", fmt.Errorf("app name is required")
	}
	return StatePath(filepath.Join("apps", app, "config.json"))
}
