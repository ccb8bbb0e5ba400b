// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: viewport/repair.go
// Summary: Cache repair after document edits and resizes.

package viewport

import (
	"unicode/utf8"

	"github.com/framegrace/texelview/document"
)

// Repair brings the cache back in line with the document after an edit.
// Deleted rows are dropped, the edited row (every row for NoRow) is
// re-measured and the survivors are restacked in place. The walk is seeded
// on the caret row when cached, else on the first visible row, else on the
// scroll position. With caretMustBeVisible the band first slides to keep
// the caret on screen.
func (m *Manager) Repair(edited document.RowID, caretMustBeVisible bool) {
	m.flushDeleted()
	if m.doc.RowCount() == 0 {
		m.rows = nil
		m.viewTop = 0
		m.finishUp()
		return
	}

	all := edited == document.NoRow
	for _, r := range m.rows {
		if all || r.id == edited || r.invalid {
			m.remeasure(r, false)
		}
	}
	m.restack()

	var seed *CacheRow
	if cr := m.caretElement(); cr != nil {
		seed = cr
		if caretMustBeVisible {
			m.resolveAdvance(cr)
			m.slideToCaret(cr)
		}
	} else if m.hasCaret && caretMustBeVisible {
		if cr, ok := m.Reset(NeighborhoodCaret); ok {
			seed = cr
			m.slideToCaret(cr)
		}
	}
	if seed == nil {
		seed = m.locateTop()
	}
	if seed == nil {
		var ok bool
		if seed, ok = m.Reset(NeighborhoodScroll); !ok {
			m.rows = nil
			m.finishUp()
			return
		}
	}
	m.Walk(seed, false)
}

// flushDeleted drops rows that left the document and refreshes the indices
// of the rest. A deleted caret row moves the caret to the end of the row
// above it.
func (m *Manager) flushDeleted() {
	kept := make([]*CacheRow, 0, len(m.rows))
	for _, r := range m.rows {
		if idx, ok := m.doc.IndexOf(r.id); ok {
			r.at = idx
			kept = append(kept, r)
		}
	}
	m.rows = kept

	if m.hasCaret {
		if idx, ok := m.doc.IndexOf(m.caret.Row); ok {
			m.caret.At = idx
		} else {
			m.recoverCaret()
		}
	}
	if m.sel.active && !m.selectionAlive() {
		m.sel = selection{}
	}
}

// recoverCaret relocates a caret whose row was deleted: to the end of the
// previous row, or to the start of the document when it was the first row.
func (m *Manager) recoverCaret() bool {
	count := m.doc.RowCount()
	if count == 0 {
		m.hasCaret = false
		m.caret = Caret{}
		return false
	}

	at := min(m.caret.At-1, count-1)
	toEnd := at >= 0
	at = max(at, 0)
	row, ok := m.doc.RowAt(at)
	if !ok {
		m.hasCaret = false
		return false
	}

	col := max(min(m.caret.Column, len(row.Columns)-1), 0)
	offset := 0
	if toEnd {
		c, _ := row.Column(col)
		offset = utf8.RuneCountInString(c.Text)
	}
	m.caret = Caret{Row: row.ID, At: at, Column: col, Offset: offset, Advance: -1}
	return true
}

// restack lays the surviving rows out contiguously from the first one.
func (m *Manager) restack() {
	if len(m.rows) == 0 {
		return
	}
	top := m.rows[0].Top
	for _, r := range m.rows {
		r.Top = top
		top = r.Bottom() + m.opts.RowSpacing
	}
}
