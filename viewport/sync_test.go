// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package viewport

import (
	"image"
	"strings"
	"testing"

	"github.com/framegrace/texelview/document"
	"github.com/framegrace/texelview/metrics"
)

const longText = "aaaa bbbb cccc dddd eeee"

func attachedManager(t *testing.T, n int) (*Manager, *document.Buffer) {
	t.Helper()
	buf := numberedBuffer(n)
	m, _ := newTestManager(t, buf, DefaultOptions())
	Attach(m, buf)
	return m, buf
}

func TestDeletingCaretRowMovesCaretUp(t *testing.T) {
	m, buf := attachedManager(t, 10)
	m.SetCaretAndScroll(3, 0, 2)

	if err := buf.DeleteRow(3); err != nil {
		t.Fatalf("DeleteRow: %v", err)
	}
	expectCaret(t, m, 2, 0, 5)
	expectRows(t, m, 0, 4)
	expectStacked(t, m)
	if visible, _ := m.IsCaretVisible(); !visible {
		t.Fatalf("caret should stay visible")
	}
}

func TestDeletingFirstRowKeepsCaretAtStart(t *testing.T) {
	m, buf := attachedManager(t, 10)
	m.SetCaretAndScroll(0, 0, 4)

	if err := buf.DeleteRow(0); err != nil {
		t.Fatalf("DeleteRow: %v", err)
	}
	c := expectCaret(t, m, 0, 0, 0)
	row, _ := buf.RowAt(0)
	if row.Columns[0].Text != "row 1" {
		t.Fatalf("unexpected first row %q", row.Columns[0].Text)
	}
	if c.Row != row.ID {
		t.Fatalf("caret should be on the new first row")
	}
}

func TestDeletingEveryRowClearsCaret(t *testing.T) {
	m, buf := attachedManager(t, 3)

	for i := 0; i < 3; i++ {
		if err := buf.DeleteRow(0); err != nil {
			t.Fatalf("DeleteRow: %v", err)
		}
	}
	if _, ok := m.CopyCaret(); ok {
		t.Fatalf("expected no caret in an empty document")
	}
	if len(m.Rows()) != 0 {
		t.Fatalf("expected an empty window, got %d rows", len(m.Rows()))
	}
	if info := m.LastRefresh(); info.LastRow != -1 || info.Caret != OffScreen {
		t.Fatalf("unexpected refresh %+v", info)
	}
}

func TestInsertAboveKeepsCaretInPlace(t *testing.T) {
	m, buf := attachedManager(t, 50)

	if _, err := buf.InsertRow(0, "new"); err != nil {
		t.Fatalf("InsertRow: %v", err)
	}
	expectCaret(t, m, 1, 0, 0)
	expectRows(t, m, 1, 5)
	if visible, pt := m.IsCaretVisible(); !visible || pt != image.Pt(0, 0) {
		t.Fatalf("expected caret to stay at the origin, got %v %v", visible, pt)
	}
}

func TestInsertInsideWindow(t *testing.T) {
	m, buf := attachedManager(t, 50)

	if _, err := buf.InsertRow(2, "inserted"); err != nil {
		t.Fatalf("InsertRow: %v", err)
	}
	expectRows(t, m, 0, 4)
	expectStacked(t, m)
	line, _ := m.Rows()[2].Column(0)
	if line.Text() != "inserted" {
		t.Fatalf("expected inserted row in the window, got %q", line.Text())
	}
}

func TestEditAboveCaretKeepsCaretVisible(t *testing.T) {
	m, buf := attachedManager(t, 50)
	m.SetCaretAndScroll(4, 0, 3)
	expectRows(t, m, 0, 4)

	if err := buf.SetText(2, 0, longText); err != nil {
		t.Fatalf("SetText: %v", err)
	}
	expectRows(t, m, 1, 4)
	expectStacked(t, m)
	visible, pt := m.IsCaretVisible()
	if !visible || pt != image.Pt(30, 80) {
		t.Fatalf("expected caret at (30,80), got %v %v", visible, pt)
	}
	if h := m.Rows()[1].Height; h != 40 {
		t.Fatalf("expected the edited row to wrap, got height %d", h)
	}
}

func TestEditWithHiddenCaretDoesNotScroll(t *testing.T) {
	m, buf := attachedManager(t, 50)
	m.ScrollBy(ScrollLast)

	if err := buf.SetText(0, 0, longText); err != nil {
		t.Fatalf("SetText: %v", err)
	}
	expectRows(t, m, 45, 49)
}

func TestTwoViewportsShareOneDocument(t *testing.T) {
	buf := numberedBuffer(20)
	wide, _ := newTestManager(t, buf, DefaultOptions())
	Attach(wide, buf)

	narrow, err := NewManager(buf, &recordingHost{}, metrics.NewCellMeasurer(10, 20), DefaultOptions())
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	narrow.OnResize(100, 100)
	narrow.OnDocLoaded()
	Attach(narrow, buf)

	if err := buf.SetText(1, 0, longText); err != nil {
		t.Fatalf("SetText: %v", err)
	}

	if h := wide.Rows()[1].Height; h != 40 {
		t.Fatalf("wide view: expected height 40, got %d", h)
	}
	expectRows(t, wide, 0, 3)
	if h := narrow.Rows()[1].Height; h != 60 {
		t.Fatalf("narrow view: expected height 60, got %d", h)
	}
	expectRows(t, narrow, 0, 2)
	expectStacked(t, wide)
	expectStacked(t, narrow)
}

func TestImportIsOneStructuralRepair(t *testing.T) {
	buf := document.NewBuffer(1)
	host := &recordingHost{}
	m, err := NewManager(buf, host, metrics.NewCellMeasurer(10, 20), DefaultOptions())
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	m.OnResize(200, 100)
	Attach(m, buf)
	before := len(host.refreshes)

	n, err := buf.Import(strings.NewReader("a\nb\nc\n"))
	if err != nil || n != 3 {
		t.Fatalf("Import: %d %v", n, err)
	}
	if got := len(host.refreshes) - before; got != 1 {
		t.Fatalf("expected one refresh for the import, got %d", got)
	}
	expectRows(t, m, 0, 2)
}

type prefixFormatter struct{}

func (prefixFormatter) Format(text string) []document.Format {
	if len([]rune(text)) < 2 {
		return nil
	}
	return []document.Format{{Offset: 0, Length: 2, Style: document.Style{Bold: true}}}
}

func TestFormatterStylesCachedRows(t *testing.T) {
	m, buf := attachedManager(t, 10)

	buf.SetFormatter(prefixFormatter{})
	row := m.Rows()[0]
	if got := len(row.Formats(0)); got != 1 {
		t.Fatalf("expected one format range, got %d", got)
	}
	line, _ := row.Column(0)
	clusters := line.Clusters()
	if clusters[0].Style != 0 || clusters[1].Style != 0 || clusters[2].Style != -1 {
		t.Fatalf("unexpected cluster styles %d %d %d", clusters[0].Style, clusters[1].Style, clusters[2].Style)
	}
}

func TestDirectNotifications(t *testing.T) {
	buf := numberedBuffer(20)
	m, _ := newTestManager(t, buf, DefaultOptions())

	// Not attached: the host reports edits itself.
	row, _ := buf.RowAt(1)
	if err := buf.SetText(1, 0, longText); err != nil {
		t.Fatalf("SetText: %v", err)
	}
	m.OnLineUpdated(row.ID)
	if h := m.Rows()[1].Height; h != 40 {
		t.Fatalf("expected updated row to wrap, got height %d", h)
	}

	id, _ := buf.InsertRow(0, "top")
	m.OnLineAdded(id)
	expectCaret(t, m, 1, 0, 0)

	if err := buf.DeleteRow(0); err != nil {
		t.Fatalf("DeleteRow: %v", err)
	}
	m.OnLineDeleted(id)
	expectCaret(t, m, 0, 0, 0)
	expectRows(t, m, 0, 3)
}
