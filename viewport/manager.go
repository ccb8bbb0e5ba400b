// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: viewport/manager.go
// Summary: Viewport cache over a large row/column document.
//
// Architecture:
//
//	The Manager keeps only the rows needed to cover the visible area. Rows
//	are stacked vertically in cache coordinates; the visible area is the
//	band [viewTop, viewTop+height). A row's screen Y is Top - viewTop.
//
//	A walk rebuilds the window from a seed row:
//
//	  down: append rows below until the band's bottom is covered
//	  up:   prepend rows above until the band's top is covered
//	  down: once more, in case the top clamp moved the band
//
//	At the document end the band is clamped so no empty space shows below
//	the last row (unless the whole document is shorter than the band); at
//	the start it is clamped to the first row. The passes are bounded so a
//	walk always terminates. Settled windows are rebased so that the first
//	row's Top is zero.
//
//	Rows are recycled by identity from the previous window and measured
//	only when new or invalidated. The window slice itself is replaced, not
//	edited, on every walk.
//
//	Thread-safety must be managed by the caller.

package viewport

import (
	"errors"
	"fmt"
	"slices"

	"github.com/framegrace/texelview/document"
	"github.com/framegrace/texelview/metrics"
)

// Neighborhood selects what a cache reset is anchored on.
type Neighborhood int

const (
	// NeighborhoodCaret anchors on the caret row, leaving CaretSlack lines above it.
	NeighborhoodCaret Neighborhood = iota
	// NeighborhoodScroll anchors on the row at the host's scroll fraction.
	NeighborhoodScroll
)

// Manager is the viewport cache.
type Manager struct {
	doc        document.Document
	host       Host
	measurer   metrics.Measurer
	opts       Options
	lineHeight int

	width   int
	height  int
	viewTop int
	columns []ColumnInfo

	rows     []*CacheRow
	caret    Caret
	hasCaret bool
	sel      selection
	last     RefreshInfo
}

// NewManager creates a viewport over doc. A nil host logs errors.
func NewManager(doc document.Document, host Host, m metrics.Measurer, opts Options) (*Manager, error) {
	if doc == nil {
		return nil, errors.New("viewport: nil document")
	}
	if m == nil {
		return nil, errors.New("viewport: nil measurer")
	}
	count := doc.ColumnCount()
	if count < 1 {
		return nil, fmt.Errorf("viewport: document has %d columns", count)
	}
	opts = opts.normalized()
	if len(opts.Columns) > 0 && len(opts.Columns) != count {
		return nil, fmt.Errorf("viewport: %d column specs for %d document columns", len(opts.Columns), count)
	}
	if host == nil {
		host = &LogHost{}
	}

	mgr := &Manager{
		doc:        doc,
		host:       host,
		measurer:   m,
		opts:       opts,
		lineHeight: max(m.LineHeight(), 1),
		last:       RefreshInfo{LastRow: -1, Caret: OffScreen},
	}
	mgr.columns = layoutColumns(opts.Columns, count, 0, opts.ColumnGap)
	return mgr, nil
}

// Document returns the viewed document.
func (m *Manager) Document() document.Document { return m.doc }

// Rows returns the current window, top to bottom. Callers must not modify it.
func (m *Manager) Rows() []*CacheRow { return m.rows }

// Columns returns the current column layout.
func (m *Manager) Columns() []ColumnInfo { return m.columns }

// LineHeight returns the height of one text line.
func (m *Manager) LineHeight() int { return m.lineHeight }

// Size returns the viewport size in pixels.
func (m *Manager) Size() (width, height int) { return m.width, m.height }

// ViewTop returns the top of the visible band in cache coordinates.
func (m *Manager) ViewTop() int { return m.viewTop }

// ScreenTop converts a row's Top to screen coordinates.
func (m *Manager) ScreenTop(r *CacheRow) int { return r.Top - m.viewTop }

// LastRefresh returns the most recent refresh report.
func (m *Manager) LastRefresh() RefreshInfo { return m.last }

// Bounds returns the logical visible band in cache coordinates. When the
// document ends inside the band, bottom is the last row's bottom.
func (m *Manager) Bounds() (top, bottom int) {
	bottom = m.viewBottom()
	if n := len(m.rows); n > 0 {
		last := m.rows[n-1]
		if last.at == m.doc.RowCount()-1 && last.Bottom() < bottom {
			bottom = last.Bottom()
		}
	}
	return m.viewTop, bottom
}

func (m *Manager) viewBottom() int { return m.viewTop + m.height }

// OnDocLoaded discards the cache and shows the document from its first row
// with the caret at the start.
func (m *Manager) OnDocLoaded() {
	m.rows = nil
	m.viewTop = 0
	m.sel = selection{}
	m.hasCaret = false
	m.caret = Caret{}

	row, ok := m.doc.RowAt(0)
	if !ok {
		m.finishUp()
		return
	}
	m.caret = Caret{Row: row.ID}
	m.hasCaret = true
	seed := m.newRow(row)
	seed.Top = 0
	m.Walk(seed, false)
}

// Reset measures a single seed row for a fresh walk and returns it. The
// band is moved to the origin; a caret seed is placed CaretSlack lines
// below it, a scroll seed at the top. It returns false when there is no
// row to anchor on.
func (m *Manager) Reset(n Neighborhood) (*CacheRow, bool) {
	var (
		row document.Row
		ok  bool
	)
	switch n {
	case NeighborhoodCaret:
		row, ok = m.caretRow()
	case NeighborhoodScroll:
		row, _, ok = document.RowAtScrollFraction(m.doc, m.host.ScrollFraction())
	}
	if !ok {
		return nil, false
	}

	cr := m.find(row.ID)
	if cr == nil {
		cr = m.newRow(row)
	} else {
		m.measure(cr, row, false)
	}
	m.viewTop = 0
	cr.Top = 0
	if n == NeighborhoodCaret {
		cr.Top = m.opts.CaretSlack * m.lineHeight
	}
	return cr, true
}

// Walk rebuilds the window around seed. With forceRemeasure every row is
// reshaped and re-segmented, otherwise only new and invalid rows are.
func (m *Manager) Walk(seed *CacheRow, forceRemeasure bool) {
	if seed == nil {
		m.host.LogError("Walk", "no seed row")
		return
	}
	idx, ok := m.doc.IndexOf(seed.id)
	if !ok {
		m.host.LogError("Walk", fmt.Sprintf("seed row %d is not in the document", seed.id))
		if seed, ok = m.Reset(NeighborhoodScroll); !ok {
			m.rows = nil
			m.finishUp()
			return
		}
		idx = seed.at
	}
	seed.at = idx

	recycled := make(map[document.RowID]*CacheRow, len(m.rows))
	for _, r := range m.rows {
		recycled[r.id] = r
	}
	delete(recycled, seed.id)
	if forceRemeasure || seed.invalid {
		m.remeasure(seed, forceRemeasure)
	}

	window := []*CacheRow{seed}
	for pass := 0; pass < m.opts.MaxWalkPasses; pass++ {
		if pass%2 == 0 {
			window = m.walkDown(window, recycled, forceRemeasure)
			continue
		}
		window = m.walkUp(window, recycled, forceRemeasure)
		if m.covers(window) {
			break
		}
	}

	m.rebase(window)
	m.rows = window
	m.finishUp()
}

func (m *Manager) walkDown(window []*CacheRow, recycled map[document.RowID]*CacheRow, reshape bool) []*CacheRow {
	last := m.doc.RowCount() - 1
	bottom := window[len(window)-1]
	for bottom.Bottom() < m.viewBottom() {
		if bottom.at >= last {
			m.clampBottom(window)
			break
		}
		next, ok := m.recycle(bottom.at+1, recycled, reshape)
		if !ok {
			m.clampBottom(window)
			break
		}
		next.Top = bottom.Bottom() + m.opts.RowSpacing
		window = append(window, next)
		bottom = next
	}
	return window
}

func (m *Manager) walkUp(window []*CacheRow, recycled map[document.RowID]*CacheRow, reshape bool) []*CacheRow {
	top := window[0]
	var above []*CacheRow
	for top.Top > m.viewTop {
		if top.at <= 0 {
			m.viewTop = top.Top
			break
		}
		prev, ok := m.recycle(top.at-1, recycled, reshape)
		if !ok {
			m.viewTop = top.Top
			break
		}
		prev.SetBottom(top.Top - m.opts.RowSpacing)
		above = append(above, prev)
		top = prev
	}
	if len(above) == 0 {
		return window
	}
	slices.Reverse(above)
	return append(above, window...)
}

// clampBottom moves the band up so it ends at the last row, but never
// above the first row of the document.
func (m *Manager) clampBottom(window []*CacheRow) {
	top := window[len(window)-1].Bottom() - m.height
	if first := window[0]; first.at == 0 && top < first.Top {
		top = first.Top
	}
	m.viewTop = top
}

func (m *Manager) covers(window []*CacheRow) bool {
	first, last := window[0], window[len(window)-1]
	if first.Top > m.viewTop {
		return false
	}
	return last.Bottom() >= m.viewBottom() || last.at >= m.doc.RowCount()-1
}

func (m *Manager) rebase(window []*CacheRow) {
	shift := window[0].Top
	if shift == 0 {
		return
	}
	for _, r := range window {
		r.Top -= shift
	}
	m.viewTop -= shift
}

// recycle returns the row at index, reusing the cached element when the
// previous window had it.
func (m *Manager) recycle(index int, recycled map[document.RowID]*CacheRow, reshape bool) (*CacheRow, bool) {
	row, ok := m.doc.RowAt(index)
	if !ok {
		return nil, false
	}
	cr, found := recycled[row.ID]
	if found {
		delete(recycled, row.ID)
		if cr.ColumnCount() != len(row.Columns) {
			m.host.LogError("Recycle", fmt.Sprintf("row %d cached with %d columns, document has %d",
				index, cr.ColumnCount(), len(row.Columns)))
			found = false
		}
	}
	if !found {
		return m.newRow(row), true
	}
	if reshape || cr.invalid {
		m.measure(cr, row, reshape)
	} else {
		cr.at = index
	}
	return cr, true
}

func (m *Manager) newRow(row document.Row) *CacheRow {
	cr := newCacheRow(row, m.opts.MaxSegments)
	m.measure(cr, row, false)
	return cr
}

func (m *Manager) remeasure(cr *CacheRow, reshape bool) {
	row, ok := m.doc.RowAt(cr.at)
	if !ok {
		return
	}
	m.measure(cr, row, reshape)
}

func (m *Manager) measure(cr *CacheRow, row document.Row, reshape bool) {
	cr.load(row)
	if err := cr.measure(m.measurer, m.columns, m.opts.Wrap, reshape); err != nil {
		m.host.LogError("Measure", fmt.Sprintf("row %d: %v", row.At, err))
	}
	m.applySelection(cr)
}

func (m *Manager) find(id document.RowID) *CacheRow {
	if id == document.NoRow {
		return nil
	}
	for _, r := range m.rows {
		if r.id == id {
			return r
		}
	}
	return nil
}

// locateTop returns the first cached row intersecting the visible band.
func (m *Manager) locateTop() *CacheRow {
	top, bottom := m.viewTop, m.viewBottom()
	for _, r := range m.rows {
		if r.Top < bottom && r.Bottom() > top {
			return r
		}
	}
	return nil
}

func (m *Manager) finishUp() {
	info := RefreshInfo{LastRow: -1, Caret: OffScreen}
	count := m.doc.RowCount()
	if n := len(m.rows); n > 0 {
		info.LastRow = m.rows[n-1].at
		info.RowCount = n
		if count > 0 {
			first := m.rows[0].at
			if top := m.locateTop(); top != nil {
				first = top.at
			}
			info.Progress = float64(first) / float64(count)
			info.VisibleFraction = min(float64(n)/float64(count), 1)
		}
	}
	if cr := m.caretElement(); cr != nil {
		m.caret.At = cr.at
	}
	info.CaretVisible, info.Caret = m.IsCaretVisible()
	m.last = info
	m.host.OnRefreshComplete(info)
}
