// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: viewport/selection.go
// Summary: Caret-anchored text selection across rows and columns.
//
// A selection runs in reading order from a pinned caret position to the
// live caret (or to where the caret was when selecting ended). On the
// first row it covers the pinned column from the pin onwards and every
// column to its right; on the last row every column to the left of the
// caret column and that column up to the caret; rows in between are
// selected whole.

package viewport

import (
	"strings"

	"github.com/framegrace/texelview/wrap"
)

type selection struct {
	active bool
	frozen bool
	pin    Caret
	end    Caret
}

type selPoint struct {
	at, col, off int
}

func (a selPoint) less(b selPoint) bool {
	if a.at != b.at {
		return a.at < b.at
	}
	if a.col != b.col {
		return a.col < b.col
	}
	return a.off < b.off
}

// BeginSelect pins a selection at the caret. Caret moves extend it until
// EndSelect.
func (m *Manager) BeginSelect() {
	if !m.hasCaret {
		return
	}
	m.sel = selection{active: true, pin: m.caret, end: m.caret}
	m.applySelectionAll()
}

// EndSelect freezes the selection at the current caret.
func (m *Manager) EndSelect() {
	if !m.sel.active {
		return
	}
	m.sel.end = m.caret
	m.sel.frozen = true
	m.applySelectionAll()
}

// ClearSelection drops the selection.
func (m *Manager) ClearSelection() {
	m.sel = selection{}
	m.applySelectionAll()
}

// IsSelecting reports whether caret moves currently extend a selection.
func (m *Manager) IsSelecting() bool { return m.sel.active && !m.sel.frozen }

// HasSelection reports whether a non-empty selection exists.
func (m *Manager) HasSelection() bool {
	_, _, ok := m.selectionBounds()
	return ok
}

// SelectionAt returns the selected rune range of every column of a row,
// false when the row is outside the selection.
func (m *Manager) SelectionAt(rowIndex int) ([]wrap.Range, bool) {
	lo, hi, ok := m.selectionBounds()
	if !ok || rowIndex < lo.at || rowIndex > hi.at {
		return nil, false
	}
	row, ok := m.doc.RowAt(rowIndex)
	if !ok {
		return nil, false
	}
	lens := make([]int, len(row.Columns))
	for i, c := range row.Columns {
		lens[i] = len([]rune(c.Text))
	}
	return rowSelection(rowIndex, lens, lo, hi), true
}

// SelectionCopy returns the selected text. Columns are joined with tabs and
// rows with newlines.
func (m *Manager) SelectionCopy() string {
	lo, hi, ok := m.selectionBounds()
	if !ok {
		return ""
	}
	var sb strings.Builder
	for i := lo.at; i <= hi.at; i++ {
		row, ok := m.doc.RowAt(i)
		if !ok {
			break
		}
		texts := make([][]rune, len(row.Columns))
		lens := make([]int, len(row.Columns))
		for c, col := range row.Columns {
			texts[c] = []rune(col.Text)
			lens[c] = len(texts[c])
		}

		first := true
		for c, r := range rowSelection(i, lens, lo, hi) {
			if r.Length == 0 {
				continue
			}
			if !first {
				sb.WriteByte('\t')
			}
			first = false
			sb.WriteString(string(texts[c][r.Offset:r.End()]))
		}
		if i < hi.at {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func (m *Manager) updateSelection() {
	if m.IsSelecting() {
		m.sel.end = m.caret
		m.applySelectionAll()
	}
}

// selectionBounds orders the selection ends. Empty selections report false.
func (m *Manager) selectionBounds() (lo, hi selPoint, ok bool) {
	if !m.sel.active {
		return lo, hi, false
	}
	pinAt, ok1 := m.doc.IndexOf(m.sel.pin.Row)
	endAt, ok2 := m.doc.IndexOf(m.sel.end.Row)
	if !ok1 || !ok2 {
		return lo, hi, false
	}
	lo = selPoint{at: pinAt, col: m.sel.pin.Column, off: m.sel.pin.Offset}
	hi = selPoint{at: endAt, col: m.sel.end.Column, off: m.sel.end.Offset}
	if hi.less(lo) {
		lo, hi = hi, lo
	}
	return lo, hi, lo != hi
}

func (m *Manager) selectionAlive() bool {
	_, ok1 := m.doc.IndexOf(m.sel.pin.Row)
	_, ok2 := m.doc.IndexOf(m.sel.end.Row)
	return ok1 && ok2
}

// rowSelection computes the per-column ranges of row at given the column
// text lengths.
func rowSelection(at int, lens []int, lo, hi selPoint) []wrap.Range {
	out := make([]wrap.Range, len(lens))
	for c, n := range lens {
		start, end := 0, n
		if at == lo.at {
			if c < lo.col {
				start = n
			} else if c == lo.col {
				start = min(lo.off, n)
			}
		}
		if at == hi.at {
			if c > hi.col {
				end = 0
			} else if c == hi.col {
				end = min(hi.off, n)
			}
		}
		if end > start {
			out[c] = wrap.Range{Offset: start, Length: end - start}
		}
	}
	return out
}

func (m *Manager) applySelectionAll() {
	for _, r := range m.rows {
		m.applySelection(r)
	}
}

// applySelection marks the selected clusters of a cached row.
func (m *Manager) applySelection(cr *CacheRow) {
	lo, hi, ok := m.selectionBounds()
	if !ok || cr.at < lo.at || cr.at > hi.at {
		for _, l := range cr.lines {
			l.ClearSelection()
		}
		return
	}
	lens := make([]int, len(cr.lines))
	for i, l := range cr.lines {
		lens[i] = l.Len()
	}
	for i, r := range rowSelection(cr.at, lens, lo, hi) {
		cr.lines[i].Select(r)
	}
}
