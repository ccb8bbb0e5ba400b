// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package viewport

import (
	"testing"

	"github.com/framegrace/texelview/config"
	"github.com/framegrace/texelview/wrap"
)

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.Config{
		"viewport": map[string]interface{}{
			"caret_slack_lines": float64(1),
			"max_walk_passes":   float64(5),
		},
		"wrap": map[string]interface{}{
			"enabled":      false,
			"max_segments": float64(7),
		},
	}
	o := OptionsFromConfig(cfg)
	if o.CaretSlack != 1 || o.MaxWalkPasses != 5 || o.Wrap || o.MaxSegments != 7 {
		t.Fatalf("unexpected options %+v", o)
	}
	if o.WheelLines != 3 || o.RowSpacing != 0 {
		t.Fatalf("expected defaults for missing keys, got %+v", o)
	}
}

func TestOptionsNormalized(t *testing.T) {
	o := Options{MaxWalkPasses: 1, RowSpacing: -4, ColumnGap: -1}.normalized()
	if o.MaxWalkPasses != 2 {
		t.Fatalf("walks need at least a down and an up pass, got %d", o.MaxWalkPasses)
	}
	if o.RowSpacing != 0 || o.ColumnGap != 0 || o.WheelLines != 3 {
		t.Fatalf("unexpected normalized options %+v", o)
	}
	if o.MaxSegments != wrap.DefaultMaxSegments {
		t.Fatalf("expected default segment limit, got %d", o.MaxSegments)
	}
}

func TestParseColumnSpecs(t *testing.T) {
	specs := ParseColumnSpecs([]interface{}{
		float64(12),
		map[string]interface{}{"flex": true},
		map[string]interface{}{"width": float64(4)},
		"ignored",
	})
	want := []ColumnSpec{{Width: 12}, {Flex: true}, {Width: 4}}
	if len(specs) != len(want) {
		t.Fatalf("expected %d specs, got %+v", len(want), specs)
	}
	for i := range want {
		if specs[i] != want[i] {
			t.Fatalf("spec %d: expected %+v, got %+v", i, want[i], specs[i])
		}
	}
}

func TestLayoutColumns(t *testing.T) {
	cols := layoutColumns(nil, 3, 100, 5)
	want := []ColumnInfo{{0, 30}, {35, 30}, {70, 30}}
	for i := range want {
		if cols[i] != want[i] {
			t.Fatalf("column %d: expected %+v, got %+v", i, want[i], cols[i])
		}
	}

	if _, ok := columnAt(cols, 32); ok {
		t.Fatalf("a point in the gap should miss")
	}
	if i, ok := columnAt(cols, 150); !ok || i != 2 {
		t.Fatalf("points past the right edge belong to the last column, got %d %v", i, ok)
	}

	for _, c := range layoutColumns(nil, 2, 0, 5) {
		if c.Width != 0 {
			t.Fatalf("expected zero widths without a viewport width, got %+v", c)
		}
	}
}
