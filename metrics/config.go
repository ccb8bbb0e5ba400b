// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: metrics/config.go
// Summary: Builds a measurer from the font and wrap config sections.

package metrics

import (
	"fmt"
	"log"

	"github.com/framegrace/texelview/config"
)

// FromConfig builds the measurer described by the "font" section. The tab
// width comes from the "wrap" section.
func FromConfig(cfg config.Config) (Measurer, error) {
	tabWidth := cfg.GetInt(config.SectionWrap, "tab_width", DefaultTabWidth)

	switch kind := cfg.GetString(config.SectionFont, "measurer", "cell"); kind {
	case "cell":
		m := NewCellMeasurer(
			cfg.GetInt(config.SectionFont, "cell_width", 1),
			cfg.GetInt(config.SectionFont, "cell_height", 1),
		)
		m.TabWidth = tabWidth
		return m, nil
	case "face":
		name := cfg.GetString(config.SectionFont, "face", "basic")
		face, err := LoadFace(name,
			cfg.GetFloat(config.SectionFont, "size", 12),
			cfg.GetFloat(config.SectionFont, "dpi", 72),
		)
		if err != nil {
			return nil, err
		}
		log.Printf("[METRICS] Using font face %q", name)
		m := NewFaceMeasurer(face)
		m.TabWidth = tabWidth
		return m, nil
	default:
		return nil, fmt.Errorf("unknown measurer %q", kind)
	}
}
