// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package viewport

import (
	"errors"
	"image"
	"strings"
	"testing"

	"github.com/framegrace/texelview/document"
	"github.com/framegrace/texelview/metrics"
	"github.com/framegrace/texelview/wrap"
)

func expectCaret(t *testing.T, m *Manager, at, column, offset int) Caret {
	t.Helper()
	c, ok := m.CopyCaret()
	if !ok {
		t.Fatalf("expected a caret")
	}
	if c.At != at || c.Column != column || c.Offset != offset {
		t.Fatalf("expected caret at row %d column %d offset %d, got %+v", at, column, offset, c)
	}
	row, _ := m.Document().RowAt(at)
	if c.Row != row.ID {
		t.Fatalf("caret row id %d does not match row %d id %d", c.Row, at, row.ID)
	}
	return c
}

func TestVerticalMovesRoundTrip(t *testing.T) {
	m, _ := newTestManager(t, numberedBuffer(50), DefaultOptions())
	if !m.SetCaretAndScroll(0, 0, 3) {
		t.Fatalf("SetCaretAndScroll failed")
	}

	for i := 0; i < 10; i++ {
		if err := m.MoveCaret(wrap.Vertical, 1); err != nil {
			t.Fatalf("MoveCaret down: %v", err)
		}
		if i == 4 {
			expectRows(t, m, 1, 5)
		}
	}
	expectCaret(t, m, 10, 0, 3)
	expectRows(t, m, 6, 10)
	if visible, pt := m.IsCaretVisible(); !visible || pt != image.Pt(30, 80) {
		t.Fatalf("expected caret visible at (30,80), got %v %v", visible, pt)
	}

	for i := 0; i < 10; i++ {
		if err := m.MoveCaret(wrap.Vertical, -1); err != nil {
			t.Fatalf("MoveCaret up: %v", err)
		}
	}
	expectCaret(t, m, 0, 0, 3)
	expectRows(t, m, 0, 4)
	expectStacked(t, m)
}

func TestVerticalMovesKeepAdvance(t *testing.T) {
	buf := document.NewBuffer(1)
	buf.Append("abcdefgh")
	buf.Append("ab")
	buf.Append("abcdefgh")
	m, _ := newTestManager(t, buf, DefaultOptions())
	m.SetCaretAndScroll(0, 0, 6)

	m.MoveCaret(wrap.Vertical, 1)
	expectCaret(t, m, 1, 0, 2)
	m.MoveCaret(wrap.Vertical, 1)
	expectCaret(t, m, 2, 0, 6)
}

func TestVerticalMovesInsideWrappedRow(t *testing.T) {
	buf := document.NewBuffer(1)
	buf.Append("aaaa bbbb cccc dddd eeee")
	buf.Append("next")
	m, _ := newTestManager(t, buf, DefaultOptions())
	m.SetCaretAndScroll(0, 0, 1)

	m.MoveCaret(wrap.Vertical, 1)
	expectCaret(t, m, 0, 0, 21)
	m.MoveCaret(wrap.Vertical, 1)
	expectCaret(t, m, 1, 0, 1)
	m.MoveCaret(wrap.Vertical, -1)
	expectCaret(t, m, 0, 0, 21)
}

func TestHorizontalMovesCrossRows(t *testing.T) {
	m, _ := newTestManager(t, numberedBuffer(50), DefaultOptions())
	m.SetCaretAndScroll(0, 0, 5)

	if err := m.MoveCaret(wrap.Horizontal, 1); err != nil {
		t.Fatalf("MoveCaret: %v", err)
	}
	c := expectCaret(t, m, 1, 0, 0)
	if c.Advance != 0 {
		t.Fatalf("expected advance 0, got %d", c.Advance)
	}

	if err := m.MoveCaret(wrap.Horizontal, -1); err != nil {
		t.Fatalf("MoveCaret: %v", err)
	}
	c = expectCaret(t, m, 0, 0, 5)
	if c.Advance != 50 {
		t.Fatalf("expected advance 50, got %d", c.Advance)
	}
}

func TestMovesStopAtDocumentEdges(t *testing.T) {
	m, _ := newTestManager(t, numberedBuffer(3), DefaultOptions())

	m.MoveCaret(wrap.Vertical, -1)
	expectCaret(t, m, 0, 0, 0)
	m.MoveCaret(wrap.Horizontal, -1)
	expectCaret(t, m, 0, 0, 0)

	m.SetCaretAndScroll(2, 0, 5)
	m.MoveCaret(wrap.Horizontal, 1)
	expectCaret(t, m, 2, 0, 5)
	m.MoveCaret(wrap.Vertical, 1)
	expectCaret(t, m, 2, 0, 5)
}

func TestCaretPastRightEdgeIsHidden(t *testing.T) {
	buf := document.NewBuffer(1)
	buf.Append(strings.Repeat("x", 58))
	opts := DefaultOptions()
	opts.Wrap = false
	m, _ := newTestManager(t, buf, opts)

	tests := []struct {
		offset  int
		visible bool
		want    image.Point
	}{
		{offset: 19, visible: true, want: image.Pt(190, 0)},
		{offset: 20, visible: true, want: image.Pt(200, 0)},
		{offset: 21, visible: false, want: OffScreen},
		{offset: 50, visible: false, want: OffScreen},
	}
	for _, tt := range tests {
		if !m.SetCaretAndScroll(0, 0, tt.offset) {
			t.Fatalf("offset %d: SetCaretAndScroll failed", tt.offset)
		}
		visible, pt := m.IsCaretVisible()
		if visible != tt.visible || pt != tt.want {
			t.Errorf("offset %d: got %v %v, want %v %v", tt.offset, visible, pt, tt.visible, tt.want)
		}
		if info := m.LastRefresh(); info.CaretVisible != tt.visible {
			t.Errorf("offset %d: refresh reported visible=%v", tt.offset, info.CaretVisible)
		}
	}
}

func TestMoveCaretRejectsBadArguments(t *testing.T) {
	m, _ := newTestManager(t, numberedBuffer(3), DefaultOptions())

	err := m.MoveCaret(wrap.Horizontal, 2)
	if !errors.Is(err, wrap.ErrInvalidDirection) {
		t.Fatalf("expected ErrInvalidDirection, got %v", err)
	}
	err = m.MoveCaret(wrap.Axis(7), 1)
	if !errors.Is(err, wrap.ErrInvalidAxis) {
		t.Fatalf("expected ErrInvalidAxis, got %v", err)
	}
	expectCaret(t, m, 0, 0, 0)
}

func TestScrollToCaretLeavesSlack(t *testing.T) {
	m, _ := newTestManager(t, numberedBuffer(50), DefaultOptions())

	if !m.SetCaretAndScroll(40, 0, 0) {
		t.Fatalf("SetCaretAndScroll failed")
	}
	expectRows(t, m, 38, 42)
	visible, pt := m.IsCaretVisible()
	if !visible || pt != image.Pt(0, 40) {
		t.Fatalf("expected caret two lines down, got %v %v", visible, pt)
	}

	if m.SetCaretAndScroll(50, 0, 0) {
		t.Fatalf("expected failure for a row past the end")
	}
}

func TestScrollToCaretAfterScrollingAway(t *testing.T) {
	m, _ := newTestManager(t, numberedBuffer(50), DefaultOptions())
	m.SetCaretAndScroll(2, 0, 1)

	m.ScrollBy(ScrollLast)
	if visible, _ := m.IsCaretVisible(); visible {
		t.Fatalf("caret should be off screen")
	}
	m.ScrollToCaret()
	if visible, _ := m.IsCaretVisible(); !visible {
		t.Fatalf("caret should be back on screen")
	}
	expectCaret(t, m, 2, 0, 1)
}

func TestSetCaretClamps(t *testing.T) {
	m, _ := newTestManager(t, numberedBuffer(5), DefaultOptions())

	m.SetCaretAndScroll(1, 3, 99)
	expectCaret(t, m, 1, 0, 5)
}

func TestPointToRow(t *testing.T) {
	m, _ := newTestManager(t, numberedBuffer(50), DefaultOptions())

	off, at, ok := m.PointToRow(0, image.Pt(32, 45))
	if !ok || off != 3 || at != 2 {
		t.Fatalf("expected offset 3 on row 2, got %d %d %v", off, at, ok)
	}
	off, at, ok = m.PointToRow(0, image.Pt(36, 45))
	if !ok || off != 4 || at != 2 {
		t.Fatalf("expected offset 4 on row 2, got %d %d %v", off, at, ok)
	}
	off, _, ok = m.PointToRow(0, image.Pt(500, 5))
	if !ok || off != 5 {
		t.Fatalf("expected end of line for a point past it, got %d %v", off, ok)
	}
	if _, _, ok := m.PointToRow(0, image.Pt(10, 120)); ok {
		t.Fatalf("expected miss below the viewport")
	}
	if _, _, ok := m.PointToRow(3, image.Pt(10, 10)); ok {
		t.Fatalf("expected miss for an unknown column")
	}
}

func TestCaretAdvanceFromClick(t *testing.T) {
	m, _ := newTestManager(t, numberedBuffer(50), DefaultOptions())

	if !m.CaretAdvance(image.Pt(36, 45)) {
		t.Fatalf("CaretAdvance failed")
	}
	c := expectCaret(t, m, 2, 0, 4)
	if c.Advance != 36 {
		t.Fatalf("expected advance 36, got %d", c.Advance)
	}
	if m.CaretAdvance(image.Pt(10, -1)) {
		t.Fatalf("expected miss above the viewport")
	}
}

func TestColumnsAndCaretTab(t *testing.T) {
	buf := document.NewBuffer(2)
	buf.Append("abcdefghij", "x")
	buf.Append("second", "y")
	opts := DefaultOptions()
	opts.Columns = []ColumnSpec{{Width: 50}, {Flex: true}}
	opts.ColumnGap = 10
	m, _ := newTestManager(t, buf, opts)

	cols := m.Columns()
	if len(cols) != 2 || cols[0] != (ColumnInfo{Left: 0, Width: 50}) || cols[1] != (ColumnInfo{Left: 60, Width: 140}) {
		t.Fatalf("unexpected column layout %+v", cols)
	}
	if h := m.Rows()[0].Height; h != 40 {
		t.Fatalf("expected the narrow column to wrap the row to 40px, got %d", h)
	}

	if !m.CaretTab(1) {
		t.Fatalf("expected tab into the second column")
	}
	expectCaret(t, m, 0, 1, 0)
	if visible, pt := m.IsCaretVisible(); !visible || pt != image.Pt(60, 0) {
		t.Fatalf("expected caret at (60,0), got %v %v", visible, pt)
	}
	if m.CaretTab(1) {
		t.Fatalf("expected no column past the last")
	}
	if !m.CaretTab(-1) {
		t.Fatalf("expected tab back into the first column")
	}
	expectCaret(t, m, 0, 0, 10)

	off, at, ok := m.PointToRow(1, image.Pt(75, 25))
	if !ok || at != 0 || off != 1 {
		t.Fatalf("expected offset 1 on row 0 of column 1, got %d %d %v", off, at, ok)
	}
}

func TestFaceMeasurerDrivesLayout(t *testing.T) {
	face, err := metrics.LoadFace("basic", 12, 72)
	if err != nil {
		t.Fatalf("LoadFace: %v", err)
	}
	buf := numberedBuffer(10)
	m, err := NewManager(buf, &recordingHost{}, metrics.NewFaceMeasurer(face), DefaultOptions())
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	m.OnResize(300, 100)
	m.OnDocLoaded()

	if len(m.Rows()) == 0 {
		t.Fatalf("expected rows")
	}
	if h := m.Rows()[0].Height; h != m.LineHeight() {
		t.Fatalf("expected single-line rows of %d, got %d", m.LineHeight(), h)
	}
	m.SetCaretAndScroll(0, 0, 5)
	if err := m.MoveCaret(wrap.Horizontal, -1); err != nil {
		t.Fatalf("MoveCaret: %v", err)
	}
	expectCaret(t, m, 0, 0, 4)
}
