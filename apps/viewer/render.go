// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: apps/viewer/render.go
// Summary: Paints the cached rows, caret and status bar into a cell grid.

package viewer

import (
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/texelview/texel"
	"github.com/framegrace/texelview/viewport"
	"github.com/framegrace/texelview/wrap"
)

// Render returns the current frame.
func (a *App) Render() [][]texel.Cell {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.width <= 0 || a.height <= 0 {
		return [][]texel.Cell{}
	}
	if len(a.buf) != a.height || len(a.buf[0]) != a.width {
		a.buf = make([][]texel.Cell, a.height)
		for y := range a.buf {
			a.buf[y] = make([]texel.Cell, a.width)
		}
	}
	for y := range a.buf {
		for x := range a.buf[y] {
			a.buf[y][x] = texel.Cell{Ch: ' ', Style: tcell.StyleDefault}
		}
	}

	lineHeight := a.mgr.LineHeight()
	columns := a.mgr.Columns()
	for _, r := range a.mgr.Rows() {
		top := a.mgr.ScreenTop(r)
		for ci := 0; ci < r.ColumnCount(); ci++ {
			line, _ := r.Column(ci)
			left := 0
			if ci < len(columns) {
				left = columns[ci].Left
			}
			formats := r.Formats(ci)
			for _, c := range line.Clusters() {
				if c.EOL || c.Hidden {
					continue
				}
				style := tcell.StyleDefault
				if c.Style >= 0 && c.Style < len(formats) {
					style = applyStyle(style, formats[c.Style].Style)
				}
				if c.Selected && a.showSelection {
					style = style.Background(a.colors.selection)
				}
				a.paintCluster(left+c.Left.Floor(), top+c.Segment*lineHeight, c, style)
			}
		}
	}

	if a.info.CaretVisible {
		a.paintCaret(a.info)
	}
	if a.statusBar && a.height > 1 {
		a.paintStatus()
	}
	return a.buf
}

// paintCluster draws a cluster whose top-left pixel is (px, py). Invisible
// clusters such as tabs fill their advance with blanks.
func (a *App) paintCluster(px, py int, c wrap.Cluster, style tcell.Style) {
	x, y := px/a.cellW, py/a.cellH
	if y < 0 || y >= a.viewRows() || px < 0 {
		return
	}
	if !c.Visible {
		cells := max(c.Advance.Ceil()/a.cellW, 1)
		for i := 0; i < cells && x+i < a.width; i++ {
			a.buf[y][x+i] = texel.Cell{Ch: ' ', Style: style}
		}
		return
	}
	if x >= a.width {
		return
	}
	ch, _ := utf8.DecodeRuneInString(c.Text)
	a.buf[y][x] = texel.Cell{Ch: ch, Style: style}
}

func (a *App) paintCaret(info viewport.RefreshInfo) {
	x, y := info.Caret.X/a.cellW, info.Caret.Y/a.cellH
	if y < 0 || y >= a.viewRows() || x < 0 {
		return
	}
	x = min(x, a.width-1)
	cell := &a.buf[y][x]
	cell.Style = cell.Style.Background(a.colors.caret).Foreground(tcell.ColorBlack)
}

func (a *App) paintStatus() {
	y := a.height - 1
	style := a.statusStyle()
	x := 0
	for _, ch := range a.statusLine() {
		if x >= a.width {
			break
		}
		a.buf[y][x] = texel.Cell{Ch: ch, Style: style}
		x++
	}
	for ; x < a.width; x++ {
		a.buf[y][x] = texel.Cell{Ch: ' ', Style: style}
	}
}
