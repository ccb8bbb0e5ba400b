// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: metrics/cell.go
// Summary: Terminal cell measurer backed by go-runewidth.

package metrics

import (
	"github.com/mattn/go-runewidth"
	"golang.org/x/image/math/fixed"
)

// CellMeasurer measures text in terminal cells. A cell is CellWidth pixels
// wide and CellHeight pixels tall; wide (East Asian, emoji) clusters take two.
type CellMeasurer struct {
	CellWidth  int
	CellHeight int
	TabWidth   int
}

// NewCellMeasurer creates a cell measurer. Non-positive sizes become 1.
func NewCellMeasurer(cellWidth, cellHeight int) *CellMeasurer {
	return &CellMeasurer{
		CellWidth:  max(cellWidth, 1),
		CellHeight: max(cellHeight, 1),
		TabWidth:   DefaultTabWidth,
	}
}

// Clusters implements Measurer.
func (m *CellMeasurer) Clusters(text string) []Cluster {
	cell := fixed.I(max(m.CellWidth, 1))
	return segmentClusters(text, m.TabWidth, cell, func(cluster string) fixed.Int26_6 {
		w := runewidth.StringWidth(cluster)
		if w < 0 {
			w = 0
		}
		return cell * fixed.Int26_6(w)
	})
}

// LineHeight implements Measurer.
func (m *CellMeasurer) LineHeight() int {
	return max(m.CellHeight, 1)
}

var _ Measurer = (*CellMeasurer)(nil)
