// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/viewer/colors.go
// Summary: Converts config colors and document styles to tcell styles.

package viewer

import (
	"strconv"

	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/texelview/config"
	"github.com/framegrace/texelview/document"
)

type palette struct {
	caret     tcell.Color
	selection tcell.Color
	statusFG  tcell.Color
	statusBG  tcell.Color
}

func paletteFromConfig(cfg config.Config) palette {
	color := func(key string, fallback tcell.Color) tcell.Color {
		if c, ok := parseHexColor(cfg.GetString(colorsSection, key, "")); ok {
			return c
		}
		return fallback
	}
	return palette{
		caret:     color("caret", tcell.ColorWhite),
		selection: color("selection", tcell.ColorGray),
		statusFG:  color("status_fg", tcell.ColorBlack),
		statusBG:  color("status_bg", tcell.ColorTeal),
	}
}

// parseHexColor parses a "#rrggbb" string.
func parseHexColor(value string) (tcell.Color, bool) {
	if len(value) == 7 && value[0] == '#' {
		if v, err := strconv.ParseInt(value[1:], 16, 32); err == nil {
			return colorFromRGB(uint32(v)), true
		}
	}
	return tcell.ColorDefault, false
}

// colorFromRGB converts a packed 0xRRGGBB value.
func colorFromRGB(rgb uint32) tcell.Color {
	return tcell.NewRGBColor(int32((rgb>>16)&0xFF), int32((rgb>>8)&0xFF), int32(rgb&0xFF))
}

func documentColor(c document.Color) (tcell.Color, bool) {
	if c.IsDefault() {
		return tcell.ColorDefault, false
	}
	r, g, b := c.RGB()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b)), true
}

// applyStyle layers a document style over base. Default colors keep the
// base colors.
func applyStyle(base tcell.Style, s document.Style) tcell.Style {
	if fg, ok := documentColor(s.FG); ok {
		base = base.Foreground(fg)
	}
	if bg, ok := documentColor(s.BG); ok {
		base = base.Background(bg)
	}
	if s.Bold {
		base = base.Bold(true)
	}
	if s.Italic {
		base = base.Italic(true)
	}
	if s.Underline {
		base = base.Underline(true)
	}
	return base
}
