// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: viewport/scroll.go
// Summary: Scrolling, scroll bar commands and resizing.

package viewport

import "github.com/framegrace/texelview/document"

// ScrollKind is a scroll bar command.
type ScrollKind int

const (
	ScrollSmallDecrement ScrollKind = iota
	ScrollSmallIncrement
	ScrollLargeDecrement
	ScrollLargeIncrement
	ScrollFirst
	ScrollLast
	// ScrollThumb jumps to the host's scroll fraction.
	ScrollThumb
)

// Scroll moves the content by delta pixels; positive values move toward
// the end of the document.
func (m *Manager) Scroll(delta int) {
	if delta == 0 {
		return
	}
	if len(m.rows) == 0 {
		m.resetWalk(NeighborhoodScroll)
		return
	}
	for _, r := range m.rows {
		r.Top -= delta
	}
	seed := m.locateTop()
	if seed == nil {
		m.resetWalk(NeighborhoodScroll)
		return
	}
	m.Walk(seed, false)
}

// ScrollBy executes a scroll bar command.
func (m *Manager) ScrollBy(kind ScrollKind) {
	page := max(m.height-m.lineHeight, m.lineHeight)
	switch kind {
	case ScrollSmallDecrement:
		m.Scroll(-m.lineHeight)
	case ScrollSmallIncrement:
		m.Scroll(m.lineHeight)
	case ScrollLargeDecrement:
		m.Scroll(-page)
	case ScrollLargeIncrement:
		m.Scroll(page)
	case ScrollFirst:
		m.scrollToIndex(0, false)
	case ScrollLast:
		m.scrollToIndex(m.doc.RowCount()-1, true)
	case ScrollThumb:
		m.resetWalk(NeighborhoodScroll)
	}
}

// OnMouseWheel scrolls WheelLines lines per notch; positive notches move
// toward the end of the document.
func (m *Manager) OnMouseWheel(notches int) {
	m.Scroll(notches * m.opts.WheelLines * m.lineHeight)
}

// OnResize changes the viewport size and re-lays out every cached row.
// A caret that was visible stays visible.
func (m *Manager) OnResize(width, height int) {
	visible, _ := m.IsCaretVisible()
	m.width, m.height = max(width, 0), max(height, 0)
	m.columns = layoutColumns(m.opts.Columns, m.doc.ColumnCount(), m.width, m.opts.ColumnGap)
	m.Repair(document.NoRow, visible)
}

func (m *Manager) scrollToIndex(index int, alignBottom bool) {
	row, ok := m.doc.RowAt(index)
	if !ok {
		m.rows = nil
		m.finishUp()
		return
	}
	cr := m.find(row.ID)
	if cr == nil {
		cr = m.newRow(row)
	}
	m.viewTop = 0
	cr.Top = 0
	if alignBottom {
		cr.SetBottom(m.height)
	}
	m.Walk(cr, false)
}

func (m *Manager) resetWalk(n Neighborhood) {
	seed, ok := m.Reset(n)
	if !ok {
		m.rows = nil
		m.finishUp()
		return
	}
	m.Walk(seed, false)
}
