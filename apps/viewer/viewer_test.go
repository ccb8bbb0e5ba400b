// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package viewer

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/texelview/config"
	"github.com/framegrace/texelview/document"
	"github.com/framegrace/texelview/texel"
)

func newTestApp(t *testing.T, buf *document.Buffer, cols, rows int) *App {
	t.Helper()
	a, err := New("test", buf, nil, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	a.Resize(cols, rows)
	return a
}

func rowText(row []texel.Cell) string {
	var sb strings.Builder
	for _, c := range row {
		sb.WriteRune(c.Ch)
	}
	return strings.TrimRight(sb.String(), " ")
}

func columnText(t *testing.T, buf *document.Buffer, at int) string {
	t.Helper()
	row, ok := buf.RowAt(at)
	if !ok {
		t.Fatalf("row %d missing", at)
	}
	return row.Columns[0].Text
}

func key(k tcell.Key, mod tcell.ModMask) *tcell.EventKey {
	return tcell.NewEventKey(k, 0, mod)
}

func TestRenderShowsRowsAndStatus(t *testing.T) {
	buf := document.NewBuffer(1)
	buf.Append("hello")
	buf.Append("world")
	a := newTestApp(t, buf, 20, 4)

	frame := a.Render()
	if len(frame) != 4 || len(frame[0]) != 20 {
		t.Fatalf("unexpected frame size %dx%d", len(frame), len(frame[0]))
	}
	if got := rowText(frame[0]); got != "hello" {
		t.Fatalf("row 0: got %q", got)
	}
	if got := rowText(frame[1]); got != "world" {
		t.Fatalf("row 1: got %q", got)
	}
	if got := rowText(frame[3]); !strings.Contains(got, "Ln 1/2") {
		t.Fatalf("status bar missing position: %q", got)
	}
	if frame[0][0].Style == tcell.StyleDefault {
		t.Fatalf("expected the caret cell to be highlighted")
	}
}

func TestRenderWrapsLongRows(t *testing.T) {
	buf := document.NewBuffer(1)
	buf.Append("aaaa bbbb")
	a := newTestApp(t, buf, 6, 4)

	frame := a.Render()
	if got := rowText(frame[0]); got != "aaaa" {
		t.Fatalf("row 0: got %q", got)
	}
	if got := rowText(frame[1]); got != "bbbb" {
		t.Fatalf("row 1: got %q", got)
	}
}

func TestTypingEditsTheDocument(t *testing.T) {
	buf := document.NewBuffer(1)
	buf.Append("hello")
	buf.Append("world")
	a := newTestApp(t, buf, 20, 4)

	a.HandleKey(tcell.NewEventKey(tcell.KeyRune, 'X', 0))
	if got := columnText(t, buf, 0); got != "Xhello" {
		t.Fatalf("after insert: %q", got)
	}

	a.HandleKey(key(tcell.KeyEnter, 0))
	if buf.RowCount() != 3 || columnText(t, buf, 0) != "X" || columnText(t, buf, 1) != "hello" {
		t.Fatalf("after split: %q %q", columnText(t, buf, 0), columnText(t, buf, 1))
	}
	if c, _ := a.Manager().CopyCaret(); c.At != 1 || c.Offset != 0 {
		t.Fatalf("caret after split %+v", c)
	}

	a.HandleKey(key(tcell.KeyBackspace2, 0))
	if buf.RowCount() != 2 || columnText(t, buf, 0) != "Xhello" {
		t.Fatalf("after join: %d rows, %q", buf.RowCount(), columnText(t, buf, 0))
	}
	if c, _ := a.Manager().CopyCaret(); c.At != 0 || c.Offset != 1 {
		t.Fatalf("caret after join %+v", c)
	}

	a.HandleKey(key(tcell.KeyDelete, 0))
	if got := columnText(t, buf, 0); got != "Xello" {
		t.Fatalf("after delete: %q", got)
	}
	if got := rowText(a.Render()[0]); got != "Xello" {
		t.Fatalf("render after edits: %q", got)
	}
}

func TestDeletesRemoveWholeClusters(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		caret      int
		key        tcell.Key
		want       string
		wantOffset int
	}{
		{name: "backspace combining accent", text: "ae\u0301x", caret: 3, key: tcell.KeyBackspace2, want: "ax", wantOffset: 1},
		{name: "delete combining accent", text: "ae\u0301x", caret: 1, key: tcell.KeyDelete, want: "ax", wantOffset: 1},
		{name: "backspace zwj emoji", text: "a\U0001F469\u200d\U0001F4BB", caret: 4, key: tcell.KeyBackspace2, want: "a", wantOffset: 1},
		{name: "backspace plain rune", text: "abc", caret: 2, key: tcell.KeyBackspace2, want: "ac", wantOffset: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := document.NewBuffer(1)
			buf.Append(tt.text)
			a := newTestApp(t, buf, 20, 4)
			if !a.Manager().SetCaretAndScroll(0, 0, tt.caret) {
				t.Fatalf("SetCaretAndScroll failed")
			}

			a.HandleKey(key(tt.key, 0))
			if got := columnText(t, buf, 0); got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
			if c, _ := a.Manager().CopyCaret(); c.Offset != tt.wantOffset {
				t.Fatalf("caret offset %d, want %d", c.Offset, tt.wantOffset)
			}
		})
	}
}

func TestShiftArrowsSelectAndCopy(t *testing.T) {
	buf := document.NewBuffer(1)
	buf.Append("hello")
	buf.Append("world")
	a := newTestApp(t, buf, 20, 4)

	a.HandleKey(key(tcell.KeyDown, tcell.ModShift))
	a.HandleKey(key(tcell.KeyRight, tcell.ModShift))
	a.HandleKey(key(tcell.KeyCtrlY, tcell.ModCtrl))
	if got := a.Clipboard(); got != "hello\nw" {
		t.Fatalf("unexpected clipboard %q", got)
	}

	a.HandleKey(key(tcell.KeyEscape, 0))
	if a.Manager().HasSelection() {
		t.Fatalf("escape should clear the selection")
	}
}

func TestMouseClickAndWheel(t *testing.T) {
	buf := document.NewBuffer(1)
	for i := 0; i < 50; i++ {
		buf.Append(fmt.Sprintf("row %d", i))
	}
	a := newTestApp(t, buf, 20, 6)

	a.HandleMouse(tcell.NewEventMouse(3, 1, tcell.Button1, 0))
	if c, _ := a.Manager().CopyCaret(); c.At != 1 || c.Offset != 3 {
		t.Fatalf("caret after click %+v", c)
	}

	a.HandleMouse(tcell.NewEventMouse(0, 0, tcell.WheelDown, 0))
	if got := rowText(a.Render()[0]); got != "row 3" {
		t.Fatalf("expected the wheel to scroll three rows, top row %q", got)
	}
}

func TestPasteSplitsRows(t *testing.T) {
	buf := document.NewBuffer(1)
	a := newTestApp(t, buf, 20, 4)

	a.HandlePaste([]byte("ab\r\ncd"))
	if buf.RowCount() != 2 || columnText(t, buf, 0) != "ab" || columnText(t, buf, 1) != "cd" {
		t.Fatalf("unexpected document after paste: %d rows", buf.RowCount())
	}
}

func TestColumnsFromConfig(t *testing.T) {
	buf := document.NewBuffer(2)
	buf.Append("left", "right")
	app := config.Config{
		"viewer": map[string]interface{}{
			"columns":    []interface{}{float64(5), map[string]interface{}{"flex": true}},
			"column_gap": float64(1),
			"status_bar": false,
		},
	}
	a, err := New("cols", buf, nil, app)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	a.Resize(20, 3)

	cols := a.Manager().Columns()
	if cols[0].Width != 5 || cols[1].Left != 6 || cols[1].Width != 14 {
		t.Fatalf("unexpected columns %+v", cols)
	}
	frame := a.Render()
	if got := rowText(frame[0]); got != "left  right" {
		t.Fatalf("unexpected row %q", got)
	}
	if got := rowText(frame[2]); got != "" {
		t.Fatalf("status bar should be disabled, got %q", got)
	}
}

func TestRunStops(t *testing.T) {
	a := newTestApp(t, document.NewBuffer(1), 10, 3)
	done := make(chan error, 1)
	go func() { done <- a.Run() }()
	a.Stop()
	a.Stop()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return after Stop")
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantValid bool
		wantR     int32
		wantG     int32
		wantB     int32
	}{
		{name: "valid hex mixed", input: "#ff5733", wantValid: true, wantR: 255, wantG: 87, wantB: 51},
		{name: "uppercase hex", input: "#ABCDEF", wantValid: true, wantR: 171, wantG: 205, wantB: 239},
		{name: "empty string", input: ""},
		{name: "missing hash", input: "ffffff"},
		{name: "too short", input: "#fff"},
		{name: "invalid characters", input: "#gggggg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			color, valid := parseHexColor(tt.input)
			if valid != tt.wantValid {
				t.Fatalf("parseHexColor(%q) valid = %v, want %v", tt.input, valid, tt.wantValid)
			}
			if !tt.wantValid {
				if color != tcell.ColorDefault {
					t.Fatalf("parseHexColor(%q) should return ColorDefault when invalid", tt.input)
				}
				return
			}
			r, g, b := color.RGB()
			if r != tt.wantR || g != tt.wantG || b != tt.wantB {
				t.Fatalf("parseHexColor(%q) RGB = (%d, %d, %d)", tt.input, r, g, b)
			}
		})
	}
}

func TestApplyStyle(t *testing.T) {
	s := applyStyle(tcell.StyleDefault, document.Style{FG: document.RGB(255, 0, 0), Bold: true})
	fg, bg, attrs := s.Decompose()
	if r, g, b := fg.RGB(); r != 255 || g != 0 || b != 0 {
		t.Fatalf("unexpected foreground %d %d %d", r, g, b)
	}
	if bg != tcell.ColorDefault {
		t.Fatalf("default background should be kept")
	}
	if attrs&tcell.AttrBold == 0 {
		t.Fatalf("expected bold")
	}
}
