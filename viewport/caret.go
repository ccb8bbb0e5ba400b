// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: viewport/caret.go
// Summary: Caret placement, navigation and hit testing.

package viewport

import (
	"fmt"
	"image"
	"unicode/utf8"

	"github.com/framegrace/texelview/document"
	"github.com/framegrace/texelview/wrap"
)

// Caret is the insertion point.
type Caret struct {
	Row document.RowID
	// At is the last known index of Row.
	At     int
	Column int
	// Offset is a rune offset in the column text.
	Offset int
	// Advance is the remembered horizontal position in pixels from the
	// column's left edge. Vertical moves keep it; -1 means unknown.
	Advance int
}

// CopyCaret returns the caret, false when the document has none.
func (m *Manager) CopyCaret() (Caret, bool) {
	return m.caret, m.hasCaret
}

// IsCaretVisible reports whether the caret box intersects the visible
// rectangle and, if so, its screen position. The box is the zero-width bar
// from the caret point down one line height; a bar on the right edge, as
// after the last character of a full line, still counts.
func (m *Manager) IsCaretVisible() (bool, image.Point) {
	cr := m.caretElement()
	if cr == nil {
		return false, OffScreen
	}
	p := m.caretPoint(cr)
	if p.Y >= m.viewBottom() || p.Y+m.lineHeight <= m.viewTop {
		return false, OffScreen
	}
	if p.X < 0 || p.X > m.width {
		return false, OffScreen
	}
	return true, image.Pt(p.X, p.Y-m.viewTop)
}

// MoveCaret moves the caret one step along axis. Moves past the edge of a
// row continue on the adjacent row; moves past the document edge do
// nothing. dir must be +1 or -1.
func (m *Manager) MoveCaret(axis wrap.Axis, dir int) error {
	if dir != 1 && dir != -1 {
		return fmt.Errorf("move caret: %w (got %d)", wrap.ErrInvalidDirection, dir)
	}
	if axis != wrap.Horizontal && axis != wrap.Vertical {
		return fmt.Errorf("move caret: %w", wrap.ErrInvalidAxis)
	}
	if !m.ensureCaret() {
		return nil
	}
	cr := m.caretElement()
	if cr == nil {
		m.ScrollToCaret()
		return nil
	}
	line, ok := cr.Column(m.caret.Column)
	if !ok {
		return nil
	}
	m.resolveAdvance(cr)

	moved, err := line.Navigate(axis, dir, &m.caret.Advance, &m.caret.Offset)
	if err != nil {
		return fmt.Errorf("move caret: %w", err)
	}
	if !moved {
		if next, ok := m.neighbour(cr, dir); ok {
			nl, _ := next.Column(m.caret.Column)
			off, err := nl.OffsetBound(axis, -dir, m.caret.Advance)
			if err != nil {
				return fmt.Errorf("move caret: %w", err)
			}
			m.caret.Row, m.caret.At, m.caret.Offset = next.id, next.at, off
			if axis == wrap.Horizontal {
				m.caret.Advance = nl.OffsetToPoint(off).X
			}
			cr = next
		}
	}

	m.updateSelection()
	m.slideToCaret(cr)
	m.Walk(cr, false)
	return nil
}

// CaretTab moves the caret to the next (dir > 0) or previous column of its
// row. It returns false at the first or last column.
func (m *Manager) CaretTab(dir int) bool {
	cr := m.caretElement()
	if cr == nil || dir == 0 {
		return false
	}
	next := m.caret.Column + 1
	if dir < 0 {
		next = m.caret.Column - 1
	}
	line, ok := cr.Column(next)
	if !ok {
		return false
	}
	m.caret.Column = next
	m.caret.Offset = 0
	if dir < 0 {
		m.caret.Offset = line.LastOffset()
	}
	m.caret.Advance = line.OffsetToPoint(m.caret.Offset).X

	m.updateSelection()
	m.slideToCaret(cr)
	m.Walk(cr, false)
	return true
}

// CaretAdvance places the caret under a screen point, typically a click.
// The remembered advance becomes the point's X.
func (m *Manager) CaretAdvance(pt image.Point) bool {
	col, ok := columnAt(m.columns, pt.X)
	if !ok {
		return false
	}
	cr := m.rowAtScreenY(pt.Y)
	if cr == nil {
		return false
	}
	offset, _, _ := m.PointToRow(col, pt)
	m.caret = Caret{
		Row:     cr.id,
		At:      cr.at,
		Column:  col,
		Offset:  offset,
		Advance: max(pt.X-m.columns[col].Left, 0),
	}
	m.hasCaret = true
	m.updateSelection()
	m.finishUp()
	return true
}

// SetCaretAndScroll moves the caret to a row, column and offset, clamping
// the column and offset, and scrolls it into view. It returns false for a
// row index outside the document.
func (m *Manager) SetCaretAndScroll(rowIndex, column, offset int) bool {
	row, ok := m.doc.RowAt(rowIndex)
	if !ok {
		return false
	}
	column = max(min(column, len(row.Columns)-1), 0)
	c, _ := row.Column(column)
	offset = max(min(offset, utf8.RuneCountInString(c.Text)), 0)

	m.caret = Caret{Row: row.ID, At: rowIndex, Column: column, Offset: offset, Advance: -1}
	m.hasCaret = true
	if cr := m.find(row.ID); cr != nil {
		m.measure(cr, row, false)
	}
	m.updateSelection()
	m.ScrollToCaret()
	return true
}

// CaretCluster returns the rune range of the grapheme cluster after
// (dir > 0) or before (dir < 0) the caret, false at the column edges or
// when the caret row is not cached.
func (m *Manager) CaretCluster(dir int) (wrap.Range, bool) {
	cr := m.caretElement()
	if cr == nil {
		return wrap.Range{}, false
	}
	line, ok := cr.Column(m.caret.Column)
	if !ok {
		return wrap.Range{}, false
	}
	return line.ClusterSpan(m.caret.Offset, dir)
}

// ScrollToCaret scrolls the minimum distance that brings the caret on screen.
func (m *Manager) ScrollToCaret() {
	if !m.ensureCaret() {
		m.finishUp()
		return
	}
	cr := m.caretElement()
	if cr == nil {
		var ok bool
		if cr, ok = m.Reset(NeighborhoodCaret); !ok {
			m.finishUp()
			return
		}
	}
	m.resolveAdvance(cr)
	m.slideToCaret(cr)
	m.Walk(cr, false)
}

// PointToRow hit-tests a screen point against column col. It returns the
// caret offset nearest to the point and the document index of the row.
func (m *Manager) PointToRow(col int, pt image.Point) (offset, rowIndex int, ok bool) {
	if col < 0 || col >= len(m.columns) {
		return 0, -1, false
	}
	cr := m.rowAtScreenY(pt.Y)
	if cr == nil {
		return 0, -1, false
	}
	line, ok := cr.Column(col)
	if !ok {
		return 0, -1, false
	}
	local := image.Pt(pt.X-m.columns[col].Left, pt.Y+m.viewTop-cr.Top)
	return line.PointToOffset(local), cr.at, true
}

func (m *Manager) rowAtScreenY(y int) *CacheRow {
	if y < 0 || y >= m.height {
		return nil
	}
	y += m.viewTop
	for _, r := range m.rows {
		if y >= r.Top && y < r.Bottom() {
			return r
		}
	}
	return nil
}

// ensureCaret places a missing caret at the start of the document.
func (m *Manager) ensureCaret() bool {
	if m.hasCaret {
		return true
	}
	row, ok := m.doc.RowAt(0)
	if !ok {
		return false
	}
	m.caret = Caret{Row: row.ID}
	m.hasCaret = true
	return true
}

func (m *Manager) caretElement() *CacheRow {
	if !m.hasCaret {
		return nil
	}
	return m.find(m.caret.Row)
}

// caretRow returns the document row holding the caret, relocating the
// caret first if its row is gone.
func (m *Manager) caretRow() (document.Row, bool) {
	if !m.hasCaret {
		return document.Row{}, false
	}
	idx, ok := m.doc.IndexOf(m.caret.Row)
	if !ok {
		if !m.recoverCaret() {
			return document.Row{}, false
		}
		idx = m.caret.At
	}
	m.caret.At = idx
	return m.doc.RowAt(idx)
}

// caretPoint returns the caret's top-left corner in cache coordinates.
func (m *Manager) caretPoint(cr *CacheRow) image.Point {
	line, ok := cr.Column(m.caret.Column)
	if !ok {
		return image.Pt(0, cr.Top)
	}
	p := line.OffsetToPoint(m.caret.Offset)
	left := 0
	if m.caret.Column < len(m.columns) {
		left = m.columns[m.caret.Column].Left
	}
	return image.Pt(left+p.X, cr.Top+p.Y)
}

func (m *Manager) resolveAdvance(cr *CacheRow) {
	if m.caret.Advance >= 0 {
		return
	}
	if line, ok := cr.Column(m.caret.Column); ok {
		m.caret.Advance = line.OffsetToPoint(m.caret.Offset).X
	} else {
		m.caret.Advance = 0
	}
}

// slideToCaret moves the band the minimum distance that shows the caret.
func (m *Manager) slideToCaret(cr *CacheRow) {
	p := m.caretPoint(cr)
	switch {
	case p.Y < m.viewTop:
		m.viewTop = p.Y
	case p.Y+m.lineHeight > m.viewBottom():
		m.viewTop = p.Y + m.lineHeight - m.height
	}
}

// neighbour returns the row next to cr in direction dir, positioned
// against it.
func (m *Manager) neighbour(cr *CacheRow, dir int) (*CacheRow, bool) {
	row, ok := m.doc.RowAt(cr.at + dir)
	if !ok {
		return nil, false
	}
	next := m.find(row.ID)
	if next == nil {
		next = m.newRow(row)
	} else if next.invalid {
		m.measure(next, row, false)
	}
	if dir > 0 {
		next.Top = cr.Bottom() + m.opts.RowSpacing
	} else {
		next.SetBottom(cr.Top - m.opts.RowSpacing)
	}
	return next, true
}
