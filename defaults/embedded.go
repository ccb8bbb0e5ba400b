// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: defaults/embedded.go
// Summary: Default configuration shipped inside the binary.

package defaults

import (
	"embed"
	"errors"
	"io/fs"
	"path"
)

//go:embed texelview.json apps/*/config.json
var files embed.FS

// ErrNoDefaults is returned for apps that ship no default file.
var ErrNoDefaults = errors.New("no embedded defaults")

// SystemConfig returns texelview.json.
func SystemConfig() ([]byte, error) {
	return files.ReadFile("texelview.json")
}

// AppConfig returns apps/<app>/config.json.
func AppConfig(app string) ([]byte, error) {
	if app == "" {
		return nil, ErrNoDefaults
	}
	data, err := files.ReadFile(path.Join("apps", app, "config.json"))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoDefaults
	}
	return data, err
}
