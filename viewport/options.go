// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: viewport/options.go
// Summary: Tunables of the viewport cache and their config bindings.

package viewport

import (
	"github.com/framegrace/texelview/config"
	"github.com/framegrace/texelview/wrap"
)

// ColumnSpec sizes one column. Flex columns share the width left over by
// fixed ones.
type ColumnSpec struct {
	Width int
	Flex  bool
}

// Options configures a Manager.
type Options struct {
	// RowSpacing is the vertical gap between rows in pixels.
	RowSpacing int
	// CaretSlack is the number of lines left above the caret row when the
	// cache is rebuilt around the caret.
	CaretSlack int
	// MaxWalkPasses bounds the alternating down/up fill passes of a walk.
	MaxWalkPasses int
	// WheelLines is the number of lines scrolled per wheel notch.
	WheelLines int
	// Wrap enables word wrap to the column width.
	Wrap bool
	// MaxSegments bounds the segments of a single column line.
	MaxSegments int
	// Columns sizes the document columns. Empty means equal flex columns.
	Columns []ColumnSpec
	// ColumnGap is the horizontal gap between columns in pixels.
	ColumnGap int
}

// DefaultOptions returns the built-in defaults.
func DefaultOptions() Options {
	return Options{
		RowSpacing:    0,
		CaretSlack:    2,
		MaxWalkPasses: 3,
		WheelLines:    3,
		Wrap:          true,
		MaxSegments:   wrap.DefaultMaxSegments,
	}
}

func (o Options) normalized() Options {
	o.RowSpacing = max(o.RowSpacing, 0)
	o.CaretSlack = max(o.CaretSlack, 0)
	o.MaxWalkPasses = max(o.MaxWalkPasses, 2)
	if o.WheelLines <= 0 {
		o.WheelLines = 3
	}
	if o.MaxSegments <= 0 {
		o.MaxSegments = wrap.DefaultMaxSegments
	}
	o.ColumnGap = max(o.ColumnGap, 0)
	return o
}

// OptionsFromConfig reads the "viewport" and "wrap" sections.
func OptionsFromConfig(cfg config.Config) Options {
	o := DefaultOptions()
	o.RowSpacing = cfg.GetInt(config.SectionViewport, "row_spacing", o.RowSpacing)
	o.CaretSlack = cfg.GetInt(config.SectionViewport, "caret_slack_lines", o.CaretSlack)
	o.MaxWalkPasses = cfg.GetInt(config.SectionViewport, "max_walk_passes", o.MaxWalkPasses)
	o.WheelLines = cfg.GetInt(config.SectionViewport, "wheel_lines", o.WheelLines)
	o.Wrap = cfg.GetBool(config.SectionWrap, "enabled", o.Wrap)
	o.MaxSegments = cfg.GetInt(config.SectionWrap, "max_segments", o.MaxSegments)
	return o
}

// ParseColumnSpecs converts a config list into column specs. Numbers are
// fixed widths; objects carry "width" and "flex" keys.
func ParseColumnSpecs(list []interface{}) []ColumnSpec {
	specs := make([]ColumnSpec, 0, len(list))
	for _, item := range list {
		switch v := item.(type) {
		case float64:
			specs = append(specs, ColumnSpec{Width: int(v)})
		case int:
			specs = append(specs, ColumnSpec{Width: v})
		case map[string]interface{}:
			item := config.Config(v)
			specs = append(specs, ColumnSpec{
				Width: item.GetInt("", "width", 0),
				Flex:  item.GetBool("", "flex", false),
			})
		}
	}
	return specs
}
