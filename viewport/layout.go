// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: viewport/layout.go
// Summary: Horizontal column layout.

package viewport

// ColumnInfo is the horizontal extent of a column in pixels.
type ColumnInfo struct {
	Left  int
	Width int
}

// Right returns the first pixel past the column.
func (c ColumnInfo) Right() int { return c.Left + c.Width }

// layoutColumns lays out count columns across width. Specs that do not
// match count are replaced by equal flex columns. A non-positive width
// yields zero-width columns, which disables wrapping.
func layoutColumns(specs []ColumnSpec, count, width, gap int) []ColumnInfo {
	if count <= 0 {
		return nil
	}
	if len(specs) != count {
		specs = make([]ColumnSpec, count)
		for i := range specs {
			specs[i].Flex = true
		}
	}

	fixedTotal, flexCount := 0, 0
	for _, s := range specs {
		if s.Flex {
			flexCount++
		} else {
			fixedTotal += max(s.Width, 0)
		}
	}
	flexWidth := 0
	if flexCount > 0 && width > 0 {
		flexWidth = max((width-gap*(count-1)-fixedTotal)/flexCount, 1)
	}

	cols := make([]ColumnInfo, count)
	left := 0
	for i, s := range specs {
		w := max(s.Width, 0)
		if s.Flex {
			w = flexWidth
		}
		if width <= 0 {
			w = 0
		}
		cols[i] = ColumnInfo{Left: left, Width: w}
		left += w + gap
	}
	return cols
}

// columnAt returns the column under x.
func columnAt(cols []ColumnInfo, x int) (int, bool) {
	for i, c := range cols {
		if x >= c.Left && x < c.Right() {
			return i, true
		}
	}
	// The last column extends to the right edge.
	if n := len(cols); n > 0 && x >= cols[n-1].Left {
		return n - 1, true
	}
	return 0, false
}
