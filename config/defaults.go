// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/defaults.go
// Summary: Default values for system and app configuration files.

package config

// Engine section names shared by the library packages.
const (
	SectionViewport  = "viewport"
	SectionWrap      = "wrap"
	SectionFont      = "font"
	SectionHighlight = "highlight"
	SectionStore     = "store"
)

// applySystemDefaults tops up sections missing from an older or hand
// edited texelview.json.
func applySystemDefaults(cfg Config) {
	if cfg == nil {
		return
	}
	cfg.RegisterDefaults(SectionViewport, Section{
		"row_spacing":       0,
		"caret_slack_lines": 2,
		"max_walk_passes":   3,
		"wheel_lines":       3,
	})
	cfg.RegisterDefaults(SectionWrap, Section{
		"enabled":      true,
		"max_segments": 1000,
		"tab_width":    4,
	})
	cfg.RegisterDefaults(SectionFont, Section{
		"measurer":    "cell",
		"face":        "basic",
		"size":        12.0,
		"dpi":         72.0,
		"cell_width":  1,
		"cell_height": 1,
	})
	cfg.RegisterDefaults(SectionHighlight, Section{
		"enabled":  true,
		"style":    "monokai",
		"language": "",
	})
	cfg.RegisterDefaults(SectionStore, Section{
		"backend": "memory",
		"path":    "texelview.db",
	})
}

func applyAppDefaults(app string, cfg Config) {
	if cfg == nil {
		return
	}
	switch app {
	case "viewer":
		// Kept in step with defaults/apps/viewer/config.json.
		cfg.RegisterDefaults("viewer", Section{
			"status_bar":     true,
			"show_selection": true,
			"columns":        []interface{}{},
			"column_gap":     1,
		})
		cfg.RegisterDefaults("viewer.colors", Section{
			"caret":     "#f5e0dc",
			"selection": "#45475a",
			"status_fg": "#1e1e2e",
			"status_bg": "#89b4fa",
		})
	}
}
