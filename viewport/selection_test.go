// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package viewport

import (
	"testing"

	"github.com/framegrace/texelview/document"
	"github.com/framegrace/texelview/wrap"
)

func TestSelectionFollowsCaret(t *testing.T) {
	m, _ := newTestManager(t, numberedBuffer(50), DefaultOptions())
	m.SetCaretAndScroll(1, 0, 2)

	m.BeginSelect()
	if !m.IsSelecting() || m.HasSelection() {
		t.Fatalf("a fresh selection should be active and empty")
	}
	m.MoveCaret(wrap.Vertical, 1)
	m.MoveCaret(wrap.Vertical, 1)
	m.EndSelect()

	if m.IsSelecting() {
		t.Fatalf("selection should be frozen")
	}
	if got := m.SelectionCopy(); got != "w 1\nrow 2\nro" {
		t.Fatalf("unexpected selection %q", got)
	}
	ranges, ok := m.SelectionAt(2)
	if !ok || ranges[0] != (wrap.Range{Offset: 0, Length: 5}) {
		t.Fatalf("expected row 2 fully selected, got %v %v", ranges, ok)
	}
	if _, ok := m.SelectionAt(4); ok {
		t.Fatalf("row 4 is outside the selection")
	}

	first, _ := m.Rows()[1].Column(0)
	clusters := first.Clusters()
	if clusters[1].Selected || !clusters[2].Selected || !clusters[4].Selected {
		t.Fatalf("unexpected selection marks on row 1")
	}

	// Frozen selections ignore caret moves.
	m.MoveCaret(wrap.Vertical, 1)
	if got := m.SelectionCopy(); got != "w 1\nrow 2\nro" {
		t.Fatalf("frozen selection changed to %q", got)
	}

	m.ClearSelection()
	if m.HasSelection() || m.SelectionCopy() != "" {
		t.Fatalf("expected no selection")
	}
	if clusters := first.Clusters(); clusters[2].Selected {
		t.Fatalf("selection marks should be cleared")
	}
}

func TestBackwardSelection(t *testing.T) {
	m, _ := newTestManager(t, numberedBuffer(50), DefaultOptions())
	m.SetCaretAndScroll(3, 0, 2)

	m.BeginSelect()
	m.MoveCaret(wrap.Vertical, -1)
	m.MoveCaret(wrap.Vertical, -1)

	if got := m.SelectionCopy(); got != "w 1\nrow 2\nro" {
		t.Fatalf("unexpected selection %q", got)
	}
}

func TestSelectionAcrossColumns(t *testing.T) {
	buf := document.NewBuffer(2)
	buf.Append("abc", "def")
	buf.Append("ghi", "jkl")
	m, _ := newTestManager(t, buf, DefaultOptions())

	m.SetCaretAndScroll(0, 0, 1)
	m.BeginSelect()
	m.SetCaretAndScroll(1, 1, 1)

	if got := m.SelectionCopy(); got != "bc\tdef\nghi\tj" {
		t.Fatalf("unexpected selection %q", got)
	}
}

func TestDeletingSelectionEndClearsIt(t *testing.T) {
	m, buf := attachedManager(t, 10)
	m.SetCaretAndScroll(1, 0, 0)
	m.BeginSelect()
	m.SetCaretAndScroll(3, 0, 0)
	m.EndSelect()

	if err := buf.DeleteRow(2); err != nil {
		t.Fatalf("DeleteRow: %v", err)
	}
	if got := m.SelectionCopy(); got != "row 1\n" {
		t.Fatalf("expected the selection to shrink, got %q", got)
	}

	if err := buf.DeleteRow(1); err != nil {
		t.Fatalf("DeleteRow: %v", err)
	}
	if m.HasSelection() {
		t.Fatalf("expected the selection to be dropped with its pinned row")
	}
}

func TestRowSelection(t *testing.T) {
	lo := selPoint{at: 0, col: 0, off: 1}
	hi := selPoint{at: 1, col: 1, off: 1}

	first := rowSelection(0, []int{3, 3}, lo, hi)
	if first[0] != (wrap.Range{Offset: 1, Length: 2}) || first[1] != (wrap.Range{Offset: 0, Length: 3}) {
		t.Fatalf("unexpected first row ranges %v", first)
	}
	last := rowSelection(1, []int{3, 3}, lo, hi)
	if last[0] != (wrap.Range{Offset: 0, Length: 3}) || last[1] != (wrap.Range{Offset: 0, Length: 1}) {
		t.Fatalf("unexpected last row ranges %v", last)
	}
	// Offsets past the text are clamped.
	single := rowSelection(0, []int{2}, selPoint{off: 1}, selPoint{off: 9})
	if single[0] != (wrap.Range{Offset: 1, Length: 1}) {
		t.Fatalf("unexpected clamped range %v", single)
	}
}
