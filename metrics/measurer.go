// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: metrics/measurer.go
// Summary: Measurement oracle contract shared by the wrap engine and the viewport.
//
// Architecture:
//
//	A Measurer turns one logical line of text into grapheme clusters with
//	horizontal advances. Advances are 26.6 fixed point so pixel fonts and
//	terminal cells go through the same arithmetic:
//
//	  - CellMeasurer: terminal cells (go-runewidth), one cell = CellWidth px
//	  - FaceMeasurer: font.Face glyph advances (basicfont, opentype, truetype)
//
//	Cluster boundaries come from uniseg so combining marks, ZWJ emoji and
//	regional indicators never split across a wrap point.

package metrics

import (
	"unicode/utf8"

	"github.com/rivo/uniseg"
	"golang.org/x/image/math/fixed"
)

// DefaultTabWidth is the number of spaces a tab advances.
const DefaultTabWidth = 4

// Cluster is the smallest measurable unit of shaped text.
type Cluster struct {
	// Offset is the rune offset of the cluster within the line.
	Offset int
	// Length is the number of runes in the cluster.
	Length int
	// Advance is the horizontal size of the cluster.
	Advance fixed.Int26_6
	// Visible is false for clusters that take space but are never drawn (tabs).
	Visible bool
	// Text holds the runes of the cluster.
	Text string
}

// Measurer is the measurement oracle. Calls are synchronous and bounded.
type Measurer interface {
	// Clusters measures one logical line.
	Clusters(text string) []Cluster
	// LineHeight is the height in pixels of one unwrapped line.
	LineHeight() int
}

// segmentClusters splits text into grapheme clusters, asking advance for the
// size of each one. Tabs are expanded to tabWidth spaces and hidden.
func segmentClusters(text string, tabWidth int, space fixed.Int26_6, advance func(cluster string) fixed.Int26_6) []Cluster {
	if tabWidth <= 0 {
		tabWidth = DefaultTabWidth
	}

	clusters := make([]Cluster, 0, len(text))
	offset := 0
	state := -1
	rest := text
	for len(rest) > 0 {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		n := utf8.RuneCountInString(cluster)

		c := Cluster{Offset: offset, Length: n, Text: cluster, Visible: true}
		if cluster == "\t" {
			c.Advance = space * fixed.Int26_6(tabWidth)
			c.Visible = false
		} else {
			c.Advance = advance(cluster)
		}

		clusters = append(clusters, c)
		offset += n
	}
	return clusters
}
